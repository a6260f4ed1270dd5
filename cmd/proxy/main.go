// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-record-cache/internal/config"
	"github.com/MKhiriev/go-record-cache/internal/handler"
	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/server"
	"github.com/MKhiriev/go-record-cache/internal/service"
	"github.com/MKhiriev/go-record-cache/internal/store"
	"github.com/MKhiriev/go-record-cache/internal/utils"
	"github.com/MKhiriev/go-record-cache/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func main() {
	buildInfo := models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
	fmt.Println(buildInfo)

	log := logger.NewLogger("record-cache-proxy")
	cfg, err := config.GetProxyConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	if cfg.IssueToken != "" {
		token, err := utils.GenerateJWTToken(cfg.App.TokenIssuer, cfg.IssueToken, cfg.App.TokenDuration, cfg.App.TokenSignKey)
		if err != nil {
			log.Fatal().Err(err).Msg("error issuing token")
		}
		fmt.Println(token.SignedString)
		return
	}

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer func() {
		if err := storages.Close(); err != nil {
			log.Err(err).Msg("error closing storages")
		}
	}()

	services := service.NewServices(storages, cfg, buildInfo, log)

	handlers, err := handler.NewHandlers(services, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating handlers")
	}

	srv, err := server.NewServer(handlers, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating server")
	}

	srv.RunServer()
}
