package components

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ritankar/dost/internal/ui/theme"
)

// OptionItem is one labeled choice row.
type OptionItem struct {
	Label string
	Text  string
}

// OptionList renders labeled options (A–D style) with a movable cursor and
// an externally owned picked set. It holds no answer key: scoring lives
// with the caller.
type OptionList struct {
	Options []OptionItem
	Cursor  int
	Picked  map[string]bool
}

// NewOptionList creates an option list with nothing picked.
func NewOptionList(options []OptionItem) OptionList {
	return OptionList{
		Options: options,
		Picked:  make(map[string]bool),
	}
}

// CursorUp moves the cursor up one row.
func (o *OptionList) CursorUp() {
	if o.Cursor > 0 {
		o.Cursor--
	}
}

// CursorDown moves the cursor down one row.
func (o *OptionList) CursorDown() {
	if o.Cursor < len(o.Options)-1 {
		o.Cursor++
	}
}

// CursorLabel returns the label under the cursor, or "".
func (o *OptionList) CursorLabel() string {
	if o.Cursor < 0 || o.Cursor >= len(o.Options) {
		return ""
	}
	return o.Options[o.Cursor].Label
}

// SetPicked replaces the picked set from a list of labels.
func (o *OptionList) SetPicked(labels []string) {
	o.Picked = make(map[string]bool, len(labels))
	for _, l := range labels {
		o.Picked[strings.ToUpper(l)] = true
	}
}

// View renders the option rows.
func (o OptionList) View() string {
	if len(o.Options) == 0 {
		return lipgloss.NewStyle().Foreground(theme.TextDim).Render("  No options provided.")
	}

	var b strings.Builder
	for i, opt := range o.Options {
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}
		mark := "( )"
		if o.Picked[strings.ToUpper(opt.Label)] {
			mark = "(●)"
		}
		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, opt.Label, opt.Text)

		switch {
		case o.Picked[strings.ToUpper(opt.Label)]:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(line))
		case i == o.Cursor:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Primary).Bold(true).Render(line))
		default:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.Text).Render(line))
		}
		b.WriteString("\n")
	}
	return b.String()
}
