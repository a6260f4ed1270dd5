// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package main

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-record-cache/internal/adapter"
	"github.com/MKhiriev/go-record-cache/internal/client"
	"github.com/MKhiriev/go-record-cache/internal/config"
	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/service"
	"github.com/MKhiriev/go-record-cache/internal/store"
	"github.com/MKhiriev/go-record-cache/internal/tui"
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

	log := logger.NewClientLogger("record-cache-client", "")
	cfg, err := config.GetClientConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	remote, err := adapter.NewHTTPRemoteClient(cfg.Adapter, cfg.App, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create remote client")
	}

	localStorage, err := store.NewClientStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("create local storage")
	}

	services, err := service.NewClientServices(localStorage, remote, cfg, log)
	if err != nil {
		_ = localStorage.Close()
		log.Fatal().Err(err).Msg("create client services")
	}

	ui := tui.New(services.CacheEngine, cfg.Cache, buildInfo, log)

	app, err := client.NewApp(services, ui, localStorage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("init client app error")
	}

	if err = app.Run(); err != nil {
		log.Fatal().Err(err).Msg("client run error")
	}
}
