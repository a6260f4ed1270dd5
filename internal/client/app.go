// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/service"
)

type App struct {
	services *service.ClientServices
	ui       UI
	storages io.Closer
	logger   *logger.Logger
}

func NewApp(services *service.ClientServices, ui UI, storages io.Closer, logger *logger.Logger) (*App, error) {
	if services == nil || services.CacheEngine == nil {
		return nil, errNoCacheEngine
	}
	if ui == nil {
		return nil, errNoUI
	}

	return &App{
		services: services,
		ui:       ui,
		storages: storages,
		logger:   logger,
	}, nil
}

func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return a.run(ctx)
}

func (a *App) run(ctx context.Context) error {
	uiErr := a.ui.Run(ctx)
	if uiErr != nil {
		a.logger.Err(uiErr).Msg("ui stopped with error")
	}

	a.services.CacheEngine.Destroy()
	a.logger.Info().Msg("cache engine stopped")

	var closeErr error
	if a.storages != nil {
		if err := a.storages.Close(); err != nil {
			closeErr = fmt.Errorf("close local storage: %w", err)
		}
	}

	return errors.Join(uiErr, closeErr)
}
