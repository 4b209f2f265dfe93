package export

import (
	"fmt"
	"strings"

	"github.com/sageline/sage/internal/journal"
	"github.com/sageline/sage/internal/memory"
)

// MarkdownExporter renders the journal as human-readable markdown.
type MarkdownExporter struct{}

func (e *MarkdownExporter) Export(data ExportData) (string, error) {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s — Growth Journal\n\n", data.User.Name)

	if len(data.Goals) > 0 {
		b.WriteString("## Goals\n\n")
		for _, g := range data.Goals {
			marker := " "
			if g.Status == journal.GoalCompleted {
				marker = "x"
			}
			line := fmt.Sprintf("- [%s] %s", marker, g.Title)
			if g.Status == journal.GoalAbandoned {
				line = fmt.Sprintf("- [~] %s (abandoned)", g.Title)
			}
			if g.TargetDate != nil {
				line += fmt.Sprintf(" (target %s)", g.TargetDate.Format("2006-01-02"))
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(data.Habits) > 0 {
		b.WriteString("## Habits\n\n")
		b.WriteString("| Habit | Frequency | Target | Active |\n")
		b.WriteString("|-------|-----------|--------|--------|\n")
		for _, h := range data.Habits {
			target := "-"
			if h.TargetValue > 0 {
				target = fmt.Sprintf("%g %s", h.TargetValue, h.Unit)
			}
			active := "yes"
			if !h.IsActive {
				active = "no"
			}
			fmt.Fprintf(&b, "| %s | %s | %s | %s |\n", h.Name, h.Frequency, target, active)
		}
		b.WriteString("\n")
	}

	if len(data.Logs) > 0 {
		fmt.Fprintf(&b, "## Habit Log (%d entries)\n\n", len(data.Logs))
		for _, l := range data.Logs {
			line := fmt.Sprintf("- %s: %g", l.LoggedAt.Format("2006-01-02"), l.Value)
			if l.Notes != "" {
				line += " — " + l.Notes
			}
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	}

	if len(data.Reflections) > 0 {
		b.WriteString("## Reflections\n\n")
		for _, r := range data.Reflections {
			fmt.Fprintf(&b, "### %s\n\n%s\n\n", r.CreatedAt.Format("2006-01-02"), r.Content)
		}
	}

	for _, section := range []struct {
		heading string
		tag     memory.Tag
	}{
		{"Achievements", memory.TagAchievement},
		{"Struggles", memory.TagStruggle},
		{"Remembered Goals", memory.TagGoal},
	} {
		b.WriteString(memorySection(section.heading, section.tag, data.Memories))
	}

	return b.String(), nil
}

// memorySection renders memories of the given tag as a markdown list block.
func memorySection(heading string, tag memory.Tag, memories []memory.Memory) string {
	var items []memory.Memory
	for _, m := range memories {
		if m.Tag == tag {
			items = append(items, m)
		}
	}
	if len(items) == 0 {
		return ""
	}
	out := fmt.Sprintf("## %s\n\n", heading)
	for _, m := range items {
		out += fmt.Sprintf("- %s\n", m.Content)
	}
	out += "\n"
	return out
}
