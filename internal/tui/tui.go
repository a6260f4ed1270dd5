// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-record-cache/internal/config"
	"github.com/MKhiriev/go-record-cache/internal/logger"
	"github.com/MKhiriev/go-record-cache/internal/service"
	"github.com/MKhiriev/go-record-cache/models"
	tea "github.com/charmbracelet/bubbletea"
)

type TUI struct {
	engine    service.CacheEngine
	cfg       config.ClientCache
	buildInfo models.AppBuildInfo
	logger    *logger.Logger
}

func New(engine service.CacheEngine, cfg config.ClientCache, buildInfo models.AppBuildInfo, logger *logger.Logger) *TUI {
	return &TUI{
		engine:    engine,
		cfg:       cfg,
		buildInfo: buildInfo,
		logger:    logger.Component("tui"),
	}
}

// Run shows the cache until the user quits. The engine is initialized from
// inside the program so the first load is rendered as it happens.
func (t *TUI) Run(ctx context.Context) error {
	feed := newStateFeed()
	unsubscribe := t.engine.Subscribe(func(s models.CacheState) {
		// listeners run inside the engine's commit; only reads are allowed
		feed.push(stateMsg{state: s, status: t.engine.Status(), recent: t.engine.Recent()})
	})
	defer unsubscribe()

	t.logger.Debug().Msg("starting tui")
	m := newModel(ctx, t.engine, feed, t.cfg, t.buildInfo)
	if _, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			t.logger.Info().Msg("tui stopped by context")
			return nil
		}
		return fmt.Errorf("run tui: %w", err)
	}
	t.logger.Debug().Msg("tui exited")
	return nil
}

// stateFeed hands published states to the program. It holds at most one
// pending state and a newer one replaces it, so the engine never blocks on
// a slow screen.
type stateFeed struct {
	ch chan stateMsg
}

func newStateFeed() *stateFeed {
	return &stateFeed{ch: make(chan stateMsg, 1)}
}

func (f *stateFeed) push(msg stateMsg) {
	for {
		select {
		case f.ch <- msg:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

// next waits for the next state.
func (f *stateFeed) next(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		select {
		case msg := <-f.ch:
			return msg
		case <-ctx.Done():
			return nil
		}
	}
}
