package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var StyleDialog = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder(), true).
	BorderForeground(lipgloss.Color("#139DFF")).
	Padding(1, 2) //nolint:mnd

// A dialog takes over all key presses until it is closed.
// Dialogs never close themselves, they send a message and the interface decides whether to close them.
type dialog interface {
	Update(msg tea.Msg) (dialog, tea.Cmd)
	View() string
}

// Sent when the user dismisses the active dialog.
type closeDialogMsg struct{}

func closeDialog() tea.Msg {
	return closeDialogMsg{}
}

func send(msg tea.Msg) tea.Cmd {
	return func() tea.Msg {
		return msg
	}
}

var dialogKeys = struct {
	Next, Prev, Submit, Cancel key.Binding
}{
	Next:   key.NewBinding(key.WithKeys("tab", "down")),
	Prev:   key.NewBinding(key.WithKeys("shift+tab", "up")),
	Submit: key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc")),
}

/**
 * FORM
 */

type formDialog struct {
	title    string
	labels   []string
	inputs   []textinput.Model
	focus    int
	onSubmit func(values []string) tea.Msg
}

type formField struct {
	label       string
	value       string
	placeholder string
	limit       int
}

// Create a form with one text input per field. Enter on the last field submits the form.
func newFormDialog(title string, fields []formField, onSubmit func(values []string) tea.Msg) *formDialog {
	d := &formDialog{
		title:    title,
		labels:   make([]string, len(fields)),
		inputs:   make([]textinput.Model, len(fields)),
		onSubmit: onSubmit,
	}
	for i, f := range fields {
		input := textinput.New()
		input.Prompt = "> "
		input.Placeholder = f.placeholder
		input.CharLimit = f.limit
		input.SetValue(f.value)
		d.labels[i] = f.label
		d.inputs[i] = input
	}
	d.inputs[0].Focus()
	return d
}

func (d *formDialog) values() []string {
	values := make([]string, len(d.inputs))
	for i, input := range d.inputs {
		values[i] = input.Value()
	}
	return values
}

func (d *formDialog) setFocus(idx int) tea.Cmd {
	d.inputs[d.focus].Blur()
	d.focus = (idx + len(d.inputs)) % len(d.inputs)
	return d.inputs[d.focus].Focus()
}

func (d *formDialog) Update(msg tea.Msg) (dialog, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, dialogKeys.Cancel):
			return d, closeDialog
		case key.Matches(msg, dialogKeys.Submit):
			if d.focus < len(d.inputs)-1 {
				return d, d.setFocus(d.focus + 1)
			}
			return d, send(d.onSubmit(d.values()))
		case key.Matches(msg, dialogKeys.Next):
			return d, d.setFocus(d.focus + 1)
		case key.Matches(msg, dialogKeys.Prev):
			return d, d.setFocus(d.focus - 1)
		}
	}

	var cmd tea.Cmd
	d.inputs[d.focus], cmd = d.inputs[d.focus].Update(msg)
	return d, cmd
}

func (d *formDialog) View() string {
	width := 0
	for _, label := range d.labels {
		width = max(width, lipgloss.Width(label))
	}
	var b strings.Builder
	b.WriteString(StyleTitle.Render(d.title) + "\n\n")
	for i, input := range d.inputs {
		label := lipgloss.NewStyle().Width(width).Render(d.labels[i])
		b.WriteString(fmt.Sprintf("%s  %s\n", label, input.View()))
	}
	b.WriteString("\n" + StyleEvent.Render("enter: next/submit • tab: next field • esc: cancel"))
	return StyleDialog.Render(b.String())
}

/**
 * CONFIRMATION
 */

type confirmDialog struct {
	title string
	text  string
	// Label of the accepting and rejecting choice, e.g. "OK" and "Cancel"
	yes, no string
	onYes   func() tea.Msg
}

var confirmKeys = struct {
	Yes, No key.Binding
}{
	Yes: key.NewBinding(key.WithKeys("y", "enter")),
	No:  key.NewBinding(key.WithKeys("n", "esc")),
}

func newConfirmDialog(title, text string, onYes func() tea.Msg) *confirmDialog {
	return &confirmDialog{
		title: title,
		text:  text,
		yes:   "OK",
		no:    "Cancel",
		onYes: onYes,
	}
}

func (d *confirmDialog) withChoices(yes, no string) *confirmDialog {
	d.yes = yes
	d.no = no
	return d
}

func (d *confirmDialog) Update(msg tea.Msg) (dialog, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch {
		case key.Matches(msg, confirmKeys.Yes):
			return d, send(d.onYes())
		case key.Matches(msg, confirmKeys.No):
			return d, closeDialog
		}
	}
	return d, nil
}

func (d *confirmDialog) View() string {
	choices := fmt.Sprintf("[y/enter] %s    [n/esc] %s", d.yes, d.no)
	return StyleDialog.Render(
		StyleTitle.Render(d.title) + "\n\n" + d.text + "\n\n" + StyleEvent.Render(choices),
	)
}

/**
 * CHOICE
 */

type choiceDialog struct {
	title    string
	options  []string
	cursor   int
	onChoose func(idx int) tea.Msg
}

func newChoiceDialog(title string, options []string, onChoose func(idx int) tea.Msg) *choiceDialog {
	return &choiceDialog{
		title:    title,
		options:  options,
		onChoose: onChoose,
	}
}

func (d *choiceDialog) Update(msg tea.Msg) (dialog, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch {
	case key.Matches(keyMsg, dialogKeys.Cancel):
		return d, closeDialog
	case key.Matches(keyMsg, dialogKeys.Submit):
		return d, send(d.onChoose(d.cursor))
	case key.Matches(keyMsg, dialogKeys.Next):
		d.cursor = (d.cursor + 1) % len(d.options)
	case key.Matches(keyMsg, dialogKeys.Prev):
		d.cursor = (d.cursor - 1 + len(d.options)) % len(d.options)
	default:
		// Options can be picked directly with their number
		if s := keyMsg.String(); len(s) == 1 {
			if n := int(s[0]) - '1'; n >= 0 && n < len(d.options) {
				return d, send(d.onChoose(n))
			}
		}
	}
	return d, nil
}

func (d *choiceDialog) View() string {
	var b strings.Builder
	b.WriteString(StyleTitle.Render(d.title) + "\n\n")
	for i, option := range d.options {
		line := fmt.Sprintf("%d. %s", i+1, option)
		if i == d.cursor {
			line = StyleSelected.Render("> " + line)
		} else {
			line = "  " + line
		}
		b.WriteString(line + "\n")
	}
	b.WriteString("\n" + StyleEvent.Render("enter: choose • esc: cancel"))
	return StyleDialog.Render(b.String())
}
