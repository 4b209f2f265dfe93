package export

import (
	"encoding/json"

	"github.com/sageline/sage/internal/memory"
)

// JSONExporter renders ExportData as structured JSON.
type JSONExporter struct{}

type jsonOutput struct {
	User        jsonUser                    `json:"user"`
	Habits      []jsonHabit                 `json:"habits"`
	Goals       []jsonGoal                  `json:"goals"`
	Logs        int                         `json:"log_count"`
	Reflections int                         `json:"reflection_count"`
	Memories    map[string][]jsonMemory     `json:"memories"`
}

type jsonUser struct {
	Name     string `json:"name"`
	Timezone string `json:"timezone,omitempty"`
}

type jsonHabit struct {
	Name      string  `json:"name"`
	Frequency string  `json:"frequency"`
	Target    float64 `json:"target,omitempty"`
	Unit      string  `json:"unit,omitempty"`
	Active    bool    `json:"active"`
}

type jsonGoal struct {
	Title  string `json:"title"`
	Status string `json:"status"`
	Target string `json:"target_date,omitempty"`
}

type jsonMemory struct {
	ID      string `json:"id"`
	Content string `json:"content"`
	Created string `json:"created_at"`
}

func (e *JSONExporter) Export(data ExportData) (string, error) {
	out := jsonOutput{
		User:        jsonUser{Name: data.User.Name, Timezone: data.User.Timezone},
		Habits:      make([]jsonHabit, 0, len(data.Habits)),
		Goals:       make([]jsonGoal, 0, len(data.Goals)),
		Logs:        len(data.Logs),
		Reflections: len(data.Reflections),
		Memories:    groupMemoriesByTag(data.Memories),
	}

	for _, h := range data.Habits {
		out.Habits = append(out.Habits, jsonHabit{
			Name:      h.Name,
			Frequency: string(h.Frequency),
			Target:    h.TargetValue,
			Unit:      h.Unit,
			Active:    h.IsActive,
		})
	}
	for _, g := range data.Goals {
		jg := jsonGoal{Title: g.Title, Status: string(g.Status)}
		if g.TargetDate != nil {
			jg.Target = g.TargetDate.Format("2006-01-02")
		}
		out.Goals = append(out.Goals, jg)
	}

	b, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}

func groupMemoriesByTag(memories []memory.Memory) map[string][]jsonMemory {
	groups := make(map[string][]jsonMemory)
	for _, m := range memories {
		key := string(m.Tag)
		groups[key] = append(groups[key], jsonMemory{
			ID:      m.ID,
			Content: m.Content,
			Created: m.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	if len(groups) == 0 {
		return map[string][]jsonMemory{}
	}
	return groups
}
