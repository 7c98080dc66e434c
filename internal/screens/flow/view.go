package flow

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/ritankar/dost/internal/ui/components"
	"github.com/ritankar/dost/internal/ui/theme"
)

func (s *FlowScreen) View(width, height int) string {
	var body string
	switch s.stage {
	case StageIntro:
		body = s.renderIntro(width)
	case StageLoading:
		body = renderLoading(width, s.loadingMsg)
	case StageQA:
		body = s.renderQA(width)
	case StagePopups:
		if s.showFeed {
			body = s.renderFeed(width, height)
		} else {
			body = s.renderBank(width)
		}
	}

	// The popup overlay sits above whatever stage is active.
	if p := s.queue.Active(); p != nil {
		return s.renderPopupOverlay(width) + "\n" + body
	}
	return body
}

func (s *FlowScreen) renderIntro(width int) string {
	var b strings.Builder
	b.WriteString("\n\n")
	b.WriteString(theme.Title.Width(width).Render("Hi, I'm Dost."))
	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render("Tell me how your day is going and we'll plan around it."))
	b.WriteString("\n\n")

	input := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(s.introInput.View())
	b.WriteString(input)

	if s.introHint != "" {
		b.WriteString("\n\n")
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Render(s.introHint))
	}
	return b.String()
}

func (s *FlowScreen) renderQA(width int) string {
	var b strings.Builder

	infoLeft := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render("  " + promptLabel(s.prompt.Domain, s.prompt.Slot))
	infoRight := lipgloss.NewStyle().
		Foreground(theme.TextDim).
		Render(strings.Join(s.domains, " · "))

	infoLine := infoLeft
	rightPad := width - lipgloss.Width(infoLeft) - lipgloss.Width(infoRight) - 4
	if rightPad > 0 {
		infoLine += strings.Repeat(" ", rightPad) + infoRight
	}
	b.WriteString(infoLine)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Text).
		Bold(true).
		Render(s.prompt.Question))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render("Answer: " + s.answerInput.View()))

	if s.qaHint != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render(s.qaHint))
	}
	return b.String()
}

func (s *FlowScreen) renderBank(width int) string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString(theme.Subtitle.Width(width).Render(s.popupSummary))
	b.WriteString("\n\n")

	correct, total := s.nav.Score()
	score := lipgloss.NewStyle().
		Foreground(theme.Accent).
		Bold(true).
		Render(fmt.Sprintf("  Score %d/%d", correct, total))

	counter := ""
	if !s.nav.Empty() {
		counter = lipgloss.NewStyle().
			Foreground(theme.TextDim).
			Render(fmt.Sprintf("Question %d of %d", s.nav.Index()+1, s.nav.Len()))
	}
	line := score
	rightPad := width - lipgloss.Width(score) - lipgloss.Width(counter) - 4
	if rightPad > 0 {
		line += strings.Repeat(" ", rightPad) + counter
	}
	b.WriteString(line)
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	q := s.nav.Current()
	if q == nil {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.TextDim).
			Render("No questions loaded. Press R to fetch the bank."))
	} else {
		meta := "  " + q.MetaLine()
		if q.Mutated {
			meta += "  " + theme.PopupType.Render("· remixed")
		}
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(meta))
		b.WriteString("\n")

		bar := components.NewProgressBar("", s.nav.Progress()/100, false, max(width-8, 10))
		b.WriteString("  " + bar.View())
		b.WriteString("\n\n")

		stem := lipgloss.NewStyle().
			Width(max(width-8, 10)).
			Foreground(theme.Text).
			Bold(true).
			Render(q.Stem)
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, stem))
		b.WriteString("\n")
		if n := len(q.Images); n > 0 {
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render(fmt.Sprintf("(%d image(s) not shown)", n)))
			b.WriteString("\n")
		}
		b.WriteString("\n")

		sel := s.nav.Selection()
		if q.IsInteger() {
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Render("Answer: " + lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true).Render(sel.Text+"▏")))
			b.WriteString("\n")
			b.WriteString(lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render("Digits to type, Backspace to erase, C to clear"))
		} else {
			items := make([]components.OptionItem, 0, len(q.Options))
			for _, opt := range q.Options {
				items = append(items, components.OptionItem{Label: opt.Label, Text: opt.Text})
			}
			list := components.NewOptionList(items)
			list.Cursor = s.optCursor
			list.SetPicked(sel.Labels)
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, list.View()))
		}
	}

	if s.bankHint != "" {
		b.WriteString("\n\n")
		b.WriteString(theme.Hint.Width(width).Align(lipgloss.Center).Render(s.bankHint))
	}
	return b.String()
}

func (s *FlowScreen) renderFeed(width, height int) string {
	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Event feed — %d entries (Tab to close)", s.feed.Len())))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n")

	rows := height - 4
	if rows < 1 {
		rows = 1
	}
	entries := s.feed.Entries()
	if len(entries) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render("  Nothing yet."))
		return b.String()
	}
	for i, e := range entries {
		if i >= rows {
			break
		}
		ts := lipgloss.NewStyle().Foreground(theme.TextDim).Render(e.At.Format("15:04:05"))
		name := lipgloss.NewStyle().Foreground(theme.Accent).Render(e.Event)
		b.WriteString(fmt.Sprintf("  %s  %s  %s\n", ts, name, truncate(e.Text, max(width-30, 10))))
	}
	return b.String()
}

func (s *FlowScreen) renderPopupOverlay(width int) string {
	p := s.queue.Active()
	if p == nil {
		return ""
	}

	kind := p.Type
	if kind == "" {
		kind = "pulse"
	}
	content := theme.PopupType.Render(strings.ToUpper(kind)) + "  " +
		lipgloss.NewStyle().Foreground(theme.Text).Render(p.Message)
	if n := s.queue.PendingLen(); n > 0 {
		content += lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("  (+%d queued)", n))
	}

	card := theme.PopupCard.MaxWidth(max(width-4, 20)).Render(content)
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, card)
}

func renderLoading(width int, msg string) string {
	if msg == "" {
		msg = "Working on it..."
	}
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Render("\n\n\n  " + msg)
}

// promptLabel renders the domain/slot pair the current prompt belongs to.
func promptLabel(domain, slot string) string {
	switch {
	case domain == "" && slot == "":
		return "Getting to know you"
	case slot == "":
		return domain
	default:
		return domain + " · " + slot
	}
}

func truncate(s string, n int) string {
	if n <= 1 || len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
