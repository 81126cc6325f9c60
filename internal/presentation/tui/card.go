package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/aretw0/stepwise/pkg/domain"
	"github.com/aretw0/stepwise/pkg/runner"
	"github.com/charmbracelet/lipgloss"
)

var (
	cardStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#38bdf8")).
			Padding(0, 1)

	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#38bdf8"))
	statusStyle  = lipgloss.NewStyle().Faint(true)
	messageStyle = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("#fbbf24"))
	varsStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#a3a3a3"))
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
	hotCellStyle = cellStyle.Bold(true).
			Foreground(lipgloss.Color("#0f172a")).
			Background(lipgloss.Color("#fbbf24"))
	outcomeStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#4ade80"))
	failedStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f87171"))
)

// NewCardRenderer draws each frame as a bordered card of the given width
// (0 lets the card size to its content).
func NewCardRenderer(width int) runner.FrameRenderer {
	style := cardStyle
	if width > 0 {
		style = style.Width(width)
	}
	return func(f runner.Frame) string {
		return style.Render(cardBody(f))
	}
}

func cardBody(f runner.Frame) string {
	v := f.View
	progress := fmt.Sprintf("%d steps", v.Len)
	if v.Index >= 0 {
		progress = fmt.Sprintf("%d/%d", v.Index+1, v.Len)
	}
	lines := []string{
		headerStyle.Render(f.Operation.String()) + "  " + statusStyle.Render(progress+" "+string(v.Status)),
	}
	if v.Step == nil {
		return strings.Join(lines, "\n")
	}

	lines = append(lines, v.Step.Description)
	if v.Step.Array != nil {
		lines = append(lines, renderArray(v.Step.Array, v.Highlight))
	}
	if v.Message != "" {
		lines = append(lines, messageStyle.Render(v.Message))
	}
	if len(v.Variables) > 0 {
		lines = append(lines, varsStyle.Render(v.Variables.String()))
	}
	if v.Step.Terminal {
		style := outcomeStyle
		switch v.Step.Outcome {
		case domain.OutcomeNotFound, domain.OutcomeUnderflow, domain.OutcomeDuplicate:
			style = failedStyle
		}
		lines = append(lines, style.Render("outcome: "+string(v.Step.Outcome)))
	}
	return strings.Join(lines, "\n")
}

// renderArray draws the array frame with the highlighted index inverted.
func renderArray(a []float64, highlight string) string {
	hot := -1
	if i, err := strconv.Atoi(highlight); err == nil {
		hot = i
	}
	cells := make([]string, len(a))
	for i, x := range a {
		if i == hot {
			cells[i] = hotCellStyle.Render(domain.FormatValue(x))
		} else {
			cells[i] = cellStyle.Render(domain.FormatValue(x))
		}
	}
	return "[" + strings.Join(cells, "") + "]"
}
