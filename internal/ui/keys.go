package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	next   key.Binding
	prev   key.Binding
	left   key.Binding
	right  key.Binding
	create key.Binding
	copy   key.Binding
	cancel key.Binding
}

var keys = keyMap{
	next:   key.NewBinding(key.WithKeys("tab")),
	prev:   key.NewBinding(key.WithKeys("shift+tab")),
	left:   key.NewBinding(key.WithKeys("left", "up")),
	right:  key.NewBinding(key.WithKeys("right", "down", " ")),
	create: key.NewBinding(key.WithKeys("enter")),
	copy:   key.NewBinding(key.WithKeys("ctrl+y")),
	cancel: key.NewBinding(key.WithKeys("esc", "ctrl+c")),
}
