// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/MKhiriev/go-record-cache/internal/service"
	"github.com/MKhiriev/go-record-cache/models"
	"github.com/charmbracelet/bubbles/spinner"
)

const (
	nameWidth      = 40
	lastSyncLayout = "2006-01-02 15:04:05"
)

type listModel struct {
	nameField string
	rows      []models.Record
	status    models.CacheStatus
	received  bool
	idx       int
	spinner   spinner.Model
}

func newListModel(nameField string) listModel {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	return listModel{nameField: nameField, spinner: s}
}

// setState shows the recent records first and the pending drafts after them.
// The cursor keeps pointing at the same record when it is still listed.
func (m *listModel) setState(msg stateMsg) {
	var selected models.RecordID
	if cur, ok := m.current(); ok {
		selected = cur.ID
	}

	rows := append([]models.Record{}, msg.recent...)
	rows = append(rows, service.PendingDrafts(msg.state)...)

	m.rows = rows
	m.status = msg.status
	m.received = true

	if i := models.IndexOf(rows, selected); i >= 0 && !selected.IsZero() {
		m.idx = i
	}
	m.clamp()
}

func (m *listModel) move(delta int) {
	m.idx += delta
	m.clamp()
}

func (m *listModel) clamp() {
	if m.idx >= len(m.rows) {
		m.idx = len(m.rows) - 1
	}
	if m.idx < 0 {
		m.idx = 0
	}
}

func (m listModel) current() (models.Record, bool) {
	if m.idx < 0 || m.idx >= len(m.rows) {
		return models.Record{}, false
	}
	return m.rows[m.idx], true
}

func (m listModel) header() string {
	parts := []string{titleStyle.Render("Record cache")}
	if m.status.Offline {
		parts = append(parts, offlineBadge)
	}
	if m.status.IsStale {
		parts = append(parts, staleBadge)
	}
	if !m.received || m.status.Loading || m.status.Syncing {
		parts = append(parts, m.spinner.View())
	}
	return strings.Join(parts, " ")
}

func (m listModel) summary() string {
	last := "never"
	if !m.status.LastSync.IsZero() {
		last = m.status.LastSync.In(time.Local).Format(lastSyncLayout)
	}
	return fmt.Sprintf("Last sync: %s   Records: %d   Pending: %d", last, m.status.RecordCount, m.status.Pending)
}

func (m listModel) View() string {
	var b strings.Builder
	b.WriteString(m.summary())
	b.WriteString("\n\n")

	switch {
	case !m.received || (m.status.Loading && len(m.rows) == 0):
		b.WriteString("Loading...")
	case len(m.rows) == 0:
		b.WriteString("No records")
	default:
		for i, r := range m.rows {
			if i > 0 {
				b.WriteString("\n")
			}
			b.WriteString(m.row(i, r))
		}
	}

	if m.status.Error != "" {
		b.WriteString("\n\n")
		b.WriteString(errorStyle.Render("Last error: " + m.status.Error))
	}
	return b.String()
}

func (m listModel) row(i int, r models.Record) string {
	cursor := "  "
	if i == m.idx {
		cursor = cursorStyle.Render("> ")
	}

	name := fitText(r.Name(m.nameField), nameWidth)
	if name == "" {
		name = "(no name)"
	}

	if r.ID.IsTemp() {
		return cursor + draftStyle.Render(fmt.Sprintf("%-*s  draft", nameWidth, name))
	}
	return cursor + fmt.Sprintf("%-*s  #%s", nameWidth, name, r.ID)
}
