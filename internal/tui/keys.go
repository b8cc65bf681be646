package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up        key.Binding
	down      key.Binding
	nextTab   key.Binding
	prevTab   key.Binding
	enter     key.Binding
	esc       key.Binding
	quit      key.Binding
	newItem   key.Binding
	delete    key.Binding
	attach    key.Binding
	push      key.Binding
	copyID    key.Binding
	markRead  key.Binding
	export    key.Binding
	cloud     key.Binding
	linkDrive key.Binding
	logout    key.Binding
	info      key.Binding
	yes       key.Binding
	no        key.Binding
}

var keys = keyMap{
	up:        key.NewBinding(key.WithKeys("up", "k")),
	down:      key.NewBinding(key.WithKeys("down", "j")),
	nextTab:   key.NewBinding(key.WithKeys("tab", "right", "l")),
	prevTab:   key.NewBinding(key.WithKeys("shift+tab", "left", "h")),
	enter:     key.NewBinding(key.WithKeys("enter")),
	esc:       key.NewBinding(key.WithKeys("esc")),
	quit:      key.NewBinding(key.WithKeys("q", "ctrl+c")),
	newItem:   key.NewBinding(key.WithKeys("n")),
	delete:    key.NewBinding(key.WithKeys("d")),
	attach:    key.NewBinding(key.WithKeys("a")),
	push:      key.NewBinding(key.WithKeys("p")),
	copyID:    key.NewBinding(key.WithKeys("y")),
	markRead:  key.NewBinding(key.WithKeys("r")),
	export:    key.NewBinding(key.WithKeys("e")),
	cloud:     key.NewBinding(key.WithKeys("c")),
	linkDrive: key.NewBinding(key.WithKeys("g")),
	logout:    key.NewBinding(key.WithKeys("o")),
	info:      key.NewBinding(key.WithKeys("i")),
	yes:       key.NewBinding(key.WithKeys("y")),
	no:        key.NewBinding(key.WithKeys("n", "esc")),
}
