package main

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	StyleSucces  = lipgloss.NewStyle().Foreground(lipgloss.Color("#1EA97C"))
	StyleTabName = lipgloss.NewStyle().Foreground(lipgloss.Color("#139DFF"))
)

type tabKind int

const (
	tabAll tabKind = iota
	tabSearch
)

type tab struct {
	kind  tabKind
	name  string
	count int
}

// Tabs switches between the full register and the result of the last search.
type Tabs struct {
	items             []tab
	active            int
	keyLeft, keyRight key.Binding
}

func NewTabs(
	keyLeft, keyRight key.Binding,
) *Tabs {
	return &Tabs{
		items: []tab{
			{kind: tabAll, name: "All"},
			{kind: tabSearch, name: "Search results"},
		},
		active:   0,
		keyLeft:  keyLeft,
		keyRight: keyRight,
	}
}

func (m *Tabs) activeTab() tabKind {
	return m.items[m.active].kind
}

func (m *Tabs) setActive(kind tabKind) {
	for i, t := range m.items {
		if t.kind == kind {
			m.active = i
		}
	}
}

func (m *Tabs) setCount(kind tabKind, count int) {
	for i := range m.items {
		if m.items[i].kind == kind {
			m.items[i].count = count
		}
	}
}

// Rename a tab, e.g. to show the active search query.
func (m *Tabs) setName(kind tabKind, name string) {
	for i := range m.items {
		if m.items[i].kind == kind {
			m.items[i].name = name
		}
	}
}

func (m *Tabs) Update(msg tea.Msg) (*Tabs, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keyLeft):
			m.active--
			if m.active < 0 {
				m.active = len(m.items) - 1
			}
		case key.Matches(msg, m.keyRight):
			m.active++
			if m.active > len(m.items)-1 {
				m.active = 0
			}
		}
	}
	return m, nil
}

func (m *Tabs) View() string {
	line := ""
	for idx, t := range m.items {
		item := fmt.Sprintf("%v (%d)", StyleTabName.Render(t.name), t.count)
		if idx == m.active {
			line += fmt.Sprintf(" [%v] ", item)
		} else {
			line += fmt.Sprintf("  %v  ", item)
		}
	}
	return line
}
