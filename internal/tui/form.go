package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type formField struct {
	label string
	input textinput.Model
}

// formModel is a column of labelled text inputs. Enter on the last field
// calls submit with the trimmed values; esc closes the form.
type formModel struct {
	title      string
	fields     []formField
	focus      int
	submitting bool
	errMsg     string
	closed     bool

	submit func(values []string) tea.Cmd
}

// newFormModel creates a form with one input per label. values, when
// given, prefill the inputs in order.
func newFormModel(title string, labels []string, values []string, submit func([]string) tea.Cmd) *formModel {
	f := &formModel{title: title, submit: submit}
	for i, label := range labels {
		in := textinput.New()
		in.CharLimit = 256
		in.Width = 48
		if i < len(values) {
			in.SetValue(values[i])
		}
		f.fields = append(f.fields, formField{label: label, input: in})
	}
	if len(f.fields) > 0 {
		f.fields[0].input.Focus()
	}
	return f
}

func (f *formModel) Update(msg tea.Msg) tea.Cmd {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			f.closed = true
			return nil
		case "tab", "down":
			f.move(1)
			return nil
		case "shift+tab", "up":
			f.move(-1)
			return nil
		case "enter":
			if f.submitting {
				return nil
			}
			if f.focus < len(f.fields)-1 {
				f.move(1)
				return nil
			}
			f.submitting = true
			f.errMsg = ""
			return f.submit(f.values())
		}
	}

	var cmd tea.Cmd
	f.fields[f.focus].input, cmd = f.fields[f.focus].input.Update(msg)
	return cmd
}

// done records the outcome of the submit command. The form stays open on
// error.
func (f *formModel) done(err error) {
	f.submitting = false
	if err != nil {
		f.errMsg = humanizeError(err)
		return
	}
	f.closed = true
}

func (f *formModel) values() []string {
	out := make([]string, len(f.fields))
	for i, field := range f.fields {
		out[i] = strings.TrimSpace(field.input.Value())
	}
	return out
}

func (f *formModel) move(delta int) {
	f.fields[f.focus].input.Blur()
	f.focus = (f.focus + delta + len(f.fields)) % len(f.fields)
	f.fields[f.focus].input.Focus()
}

func (f *formModel) View() string {
	width := 0
	for _, field := range f.fields {
		width = max(width, len(field.label))
	}

	var b strings.Builder
	for _, field := range f.fields {
		b.WriteString(fitText(field.label, width))
		b.WriteString(" │ ")
		b.WriteString(field.input.View())
		b.WriteString("\n")
	}
	if f.submitting {
		b.WriteString("\n[Saving...]\n")
	}
	if f.errMsg != "" {
		b.WriteString("\n")
		b.WriteString(errorStyle.Render(f.errMsg))
		b.WriteString("\n")
	}

	return renderPage(f.title, strings.TrimRight(b.String(), "\n"), "tab: next field │ enter: save │ esc: cancel")
}
