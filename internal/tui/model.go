// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"context"
	"errors"
	"strings"

	"github.com/MKhiriev/go-record-cache/internal/adapter"
	"github.com/MKhiriev/go-record-cache/internal/config"
	"github.com/MKhiriev/go-record-cache/internal/service"
	"github.com/MKhiriev/go-record-cache/models"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type mode int

const (
	modeList mode = iota
	modeInput
	modeConfirmDelete
	modeBuildInfo
	modeError
)

type model struct {
	ctx       context.Context
	engine    service.CacheEngine
	feed      *stateFeed
	cfg       config.ClientCache
	buildInfo models.AppBuildInfo

	mode     mode
	list     listModel
	input    textinput.Model
	asDraft  bool
	confirm  confirmModel
	deleting models.Record
	overlay  errorOverlayModel
	notice   string
}

func newModel(ctx context.Context, engine service.CacheEngine, feed *stateFeed, cfg config.ClientCache, buildInfo models.AppBuildInfo) model {
	in := textinput.New()
	in.Placeholder = "name"
	in.CharLimit = 128

	return model{
		ctx:       ctx,
		engine:    engine,
		feed:      feed,
		cfg:       cfg,
		buildInfo: buildInfo,
		list:      newListModel(cfg.NameField),
		input:     in,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.feed.next(m.ctx),
		initializeCmd(m.ctx, m.engine),
		m.list.spinner.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stateMsg:
		m.list.setState(msg)
		return m, m.feed.next(m.ctx)

	case initializedMsg:
		return m.handleResult("", msg.err)

	case actionDoneMsg:
		return m.handleResult(msg.notice, msg.err)

	case clearNoticeMsg:
		m.notice = ""
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.list.spinner, cmd = m.list.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch m.mode {
		case modeInput:
			return m.updateInput(msg)
		case modeConfirmDelete:
			return m.updateConfirm(msg)
		case modeBuildInfo, modeError:
			if key.Matches(msg, keys.esc, keys.enter, keys.info, keys.quit) {
				m.mode = modeList
			}
			return m, nil
		default:
			return m.updateList(msg)
		}
	}

	return m, nil
}

// handleResult shows the outcome of an engine call. Losing the server is
// already shown by the offline badge, so it only produces a notice.
func (m model) handleResult(notice string, err error) (tea.Model, tea.Cmd) {
	switch {
	case err == nil:
		if notice == "" {
			return m, nil
		}
		m.notice = notice
	case errors.Is(err, adapter.ErrTransport):
		m.notice = humanizeError(err)
	default:
		m.overlay = errorOverlayModel{message: humanizeError(err)}
		m.mode = modeError
		return m, nil
	}
	return m, clearNoticeAfter(noticeTimeout)
}

func (m model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.up):
		m.list.move(-1)
	case key.Matches(msg, keys.down):
		m.list.move(1)
	case key.Matches(msg, keys.newItem), key.Matches(msg, keys.newDraft):
		m.asDraft = key.Matches(msg, keys.newDraft)
		m.input.Reset()
		m.input.Focus()
		m.mode = modeInput
		return m, textinput.Blink
	case key.Matches(msg, keys.sync):
		return m, syncCmd(m.ctx, m.engine)
	case key.Matches(msg, keys.refresh):
		return m, refreshCmd(m.ctx, m.engine)
	case key.Matches(msg, keys.info):
		m.mode = modeBuildInfo
	}

	current, ok := m.list.current()
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(msg, keys.increment):
		return m, incrementCmd(m.ctx, m.engine, current.ID, 1)
	case key.Matches(msg, keys.decrement):
		return m, incrementCmd(m.ctx, m.engine, current.ID, -1)
	case key.Matches(msg, keys.copy):
		return m, copyCmd(current.Name(m.cfg.NameField))
	case key.Matches(msg, keys.delete):
		m.deleting = current
		m.confirm = confirmModel{name: current.Name(m.cfg.NameField)}
		m.mode = modeConfirmDelete
	}
	return m, nil
}

func (m model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.input.Blur()
		m.mode = modeList
		return m, nil
	case key.Matches(msg, keys.enter):
		m.input.Blur()
		m.mode = modeList
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			return m, nil
		}
		fields := map[string]any{m.cfg.NameField: name}
		if m.asDraft {
			return m, draftCmd(m.ctx, m.engine, fields)
		}
		return m, createCmd(m.ctx, m.engine, fields)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.yes):
		m.mode = modeList
		return m, deleteCmd(m.ctx, m.engine, m.deleting.ID, m.confirm.name)
	case key.Matches(msg, keys.no):
		m.mode = modeList
	}
	return m, nil
}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(m.list.header())
	b.WriteString("\n\n")

	switch m.mode {
	case modeInput:
		title := "New record"
		if m.asDraft {
			title = "New draft (kept locally until the next sync)"
		}
		b.WriteString(renderPage(title, m.input.View(), "enter: save  esc: cancel"))
	case modeConfirmDelete:
		b.WriteString(m.confirm.View())
	case modeBuildInfo:
		b.WriteString(renderBuildInfoWindow(m.buildInfo))
	case modeError:
		b.WriteString(m.overlay.View())
	default:
		b.WriteString(m.list.View())
		if m.notice != "" {
			b.WriteString("\n\n")
			b.WriteString(noticeStyle.Render(m.notice))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render(listHelp))
	}

	return appStyle.Render(b.String())
}

const listHelp = "n new  N draft  +/- count  d delete  c copy  s sync  r refresh  v info  q quit"
