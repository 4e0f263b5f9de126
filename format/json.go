package format

import (
	"encoding/json"
	"time"

	scratchpad "github.com/armatrix/agent-scratchpad"
)

type todoView struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type sessionView struct {
	ID           string     `json:"id"`
	OwnerBound   bool       `json:"owner_bound"`
	CreatedAt    time.Time  `json:"created_at"`
	LastActivity time.Time  `json:"last_activity"`
	TodoCount    int        `json:"todo_count"`
	Scratchpad   string     `json:"scratchpad"`
	Todos        []todoView `json:"todos"`
}

type scratchpadView struct {
	SessionID  string `json:"session_id"`
	Scratchpad string `json:"scratchpad"`
}

func newTodoView(t scratchpad.Todo) todoView {
	tags := t.Tags
	if tags == nil {
		tags = []string{}
	}
	return todoView{
		ID:          t.ID,
		Title:       t.Title,
		Description: t.Description,
		Tags:        tags,
		Status:      string(t.Status),
		CreatedAt:   t.CreatedAt.UTC(),
	}
}

func newTodoViews(todos []scratchpad.Todo) []todoView {
	views := make([]todoView, len(todos))
	for i, t := range todos {
		views[i] = newTodoView(t)
	}
	return views
}

func newSessionView(s *scratchpad.Session) sessionView {
	return sessionView{
		ID:           s.ID,
		OwnerBound:   s.OwnerBound(),
		CreatedAt:    s.CreatedAt.UTC(),
		LastActivity: s.LastActivity.UTC(),
		TodoCount:    len(s.Todos),
		Scratchpad:   s.Scratchpad,
		Todos:        newTodoViews(s.Todos),
	}
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
