// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-record-cache/internal/service"
	"github.com/MKhiriev/go-record-cache/models"
	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

const noticeTimeout = 3 * time.Second

// Engine calls block on the network, so every one of them runs as a command
// off the update loop.

func initializeCmd(ctx context.Context, engine service.CacheEngine) tea.Cmd {
	return func() tea.Msg {
		return initializedMsg{err: engine.Initialize(ctx)}
	}
}

func createCmd(ctx context.Context, engine service.CacheEngine, fields map[string]any) tea.Cmd {
	return func() tea.Msg {
		id, err := engine.CreateRecord(ctx, fields)
		return actionDoneMsg{notice: fmt.Sprintf("Created record %d", id), err: err}
	}
}

func draftCmd(ctx context.Context, engine service.CacheEngine, fields map[string]any) tea.Cmd {
	return func() tea.Msg {
		id, err := engine.DraftRecord(ctx, fields)
		return actionDoneMsg{notice: fmt.Sprintf("Saved draft %s, it is sent on the next sync", id), err: err}
	}
}

func incrementCmd(ctx context.Context, engine service.CacheEngine, id models.RecordID, delta float64) tea.Cmd {
	return func() tea.Msg {
		ok, err := engine.IncrementRecord(ctx, id, "", delta)
		if err == nil && !ok {
			return actionDoneMsg{notice: "The server did not change the record"}
		}
		return actionDoneMsg{err: err}
	}
}

func deleteCmd(ctx context.Context, engine service.CacheEngine, id models.RecordID, name string) tea.Cmd {
	return func() tea.Msg {
		ok, err := engine.DeleteRecord(ctx, id)
		if err == nil && !ok {
			return actionDoneMsg{notice: fmt.Sprintf("%q was not deleted by the server", name)}
		}
		return actionDoneMsg{notice: fmt.Sprintf("Deleted %q", name), err: err}
	}
}

func syncCmd(ctx context.Context, engine service.CacheEngine) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{notice: "Synced", err: engine.Sync(ctx, false)}
	}
}

func refreshCmd(ctx context.Context, engine service.CacheEngine) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{notice: "Cache rebuilt from the server", err: engine.ForceRefresh(ctx)}
	}
}

func copyCmd(name string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(name); err != nil {
			return actionDoneMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return actionDoneMsg{notice: "Copied to clipboard"}
	}
}

func clearNoticeAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg { return clearNoticeMsg{} })
}
