package forms

import (
	"encoding/json"
	"fmt"
	"os"
)

// Graph is the loaded question graph. Question order follows the source file
// and the first question is the entry point.
type Graph struct {
	questions []Question
	byID      map[int]*Question
}

// NewGraph builds a graph from an ordered question list and verifies its
// referential integrity: unique ids, every edge and default target either
// EndOfForm or a known question.
func NewGraph(questions []Question) (*Graph, error) {
	g := &Graph{
		questions: questions,
		byID:      make(map[int]*Question, len(questions)),
	}
	for i := range g.questions {
		q := &g.questions[i]
		if _, dup := g.byID[q.ID]; dup {
			return nil, fmt.Errorf("duplicate question id %d", q.ID)
		}
		g.byID[q.ID] = q
	}
	for i := range g.questions {
		q := &g.questions[i]
		if err := g.checkTarget(q.ID, q.DefaultNext()); err != nil {
			return nil, err
		}
		for _, edge := range q.Choices {
			if err := g.checkTarget(q.ID, edge.Next); err != nil {
				return nil, err
			}
		}
	}
	return g, nil
}

func (g *Graph) checkTarget(from, target int) error {
	if target == EndOfForm {
		return nil
	}
	if _, ok := g.byID[target]; !ok {
		return fmt.Errorf("question %d routes to unknown question %d", from, target)
	}
	return nil
}

// LoadGraph reads and validates a question graph from a JSON file holding an
// array of questions.
func LoadGraph(path string) (*Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read question graph %s: %w", path, err)
	}
	var questions []Question
	if err := json.Unmarshal(data, &questions); err != nil {
		return nil, fmt.Errorf("failed to parse question graph %s: %w", path, err)
	}
	return NewGraph(questions)
}

// EntryID returns the id of the first question, or EndOfForm for an empty
// graph. An empty graph is a legal, if useless, configuration and must not
// error.
func (g *Graph) EntryID() int {
	if len(g.questions) == 0 {
		return EndOfForm
	}
	return g.questions[0].ID
}

// Lookup returns the question with the given id.
func (g *Graph) Lookup(id int) (*Question, bool) {
	q, ok := g.byID[id]
	return q, ok
}

// Len returns the number of questions in the graph.
func (g *Graph) Len() int { return len(g.questions) }

// Questions returns the questions in source order.
func (g *Graph) Questions() []Question { return g.questions }

// FirstOfType returns the first question of the given type in source order.
// Contact columns (email, phone) are resolved through this rather than by
// hard-coded ids.
func (g *Graph) FirstOfType(t QuestionType) (*Question, bool) {
	for i := range g.questions {
		if g.questions[i].Type == t {
			return &g.questions[i], true
		}
	}
	return nil, false
}
