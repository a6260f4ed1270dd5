// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	enter     key.Binding
	esc       key.Binding
	quit      key.Binding
	newItem   key.Binding
	newDraft  key.Binding
	increment key.Binding
	decrement key.Binding
	delete    key.Binding
	sync      key.Binding
	refresh   key.Binding
	copy      key.Binding
	info      key.Binding
	yes       key.Binding
	no        key.Binding
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k")),
	down:      key.NewBinding(key.WithKeys("down", "j")),
	enter:     key.NewBinding(key.WithKeys("enter")),
	esc:       key.NewBinding(key.WithKeys("esc")),
	quit:      key.NewBinding(key.WithKeys("q", "ctrl+c")),
	newItem:   key.NewBinding(key.WithKeys("n")),
	newDraft:  key.NewBinding(key.WithKeys("N")),
	increment: key.NewBinding(key.WithKeys("+", "=")),
	decrement: key.NewBinding(key.WithKeys("-")),
	delete:    key.NewBinding(key.WithKeys("d")),
	sync:      key.NewBinding(key.WithKeys("s")),
	refresh:   key.NewBinding(key.WithKeys("r")),
	copy:      key.NewBinding(key.WithKeys("c")),
	info:      key.NewBinding(key.WithKeys("v")),
	yes:       key.NewBinding(key.WithKeys("y")),
	no:        key.NewBinding(key.WithKeys("n", "esc")),
}
