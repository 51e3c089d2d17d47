// Package forms holds the questionnaire domain: the question graph, answer
// values, validation, routing, and the projection of answers onto the
// signup_submissions column set.
package forms

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// QuestionType enumerates the supported question renderings. The type drives
// both validation and projection.
type QuestionType string

const (
	TypeShortAnswer    QuestionType = "shortAnswer"
	TypeParagraph      QuestionType = "paragraph"
	TypeDropdown       QuestionType = "dropdown"
	TypeMultipleChoice QuestionType = "multipleChoice"
	TypeCheckbox       QuestionType = "checkbox"
	TypePhoneNumber    QuestionType = "phoneNumber"
	TypeEmail          QuestionType = "email"
)

// EndOfForm is the sentinel target meaning "no further question".
const EndOfForm = -1

// OtherLabel is the reserved choice label that opens a free-text companion
// field. A selected OtherLabel is only satisfied together with non-empty
// companion text.
const OtherLabel = "Other"

// ChoiceEdge is one selectable option together with the id of the question it
// routes to. A Next of EndOfForm terminates the form from this choice.
type ChoiceEdge struct {
	Label string `json:"label"`
	Next  int    `json:"next"`
}

// Question is a node in the question graph.
type Question struct {
	ID          int          `json:"id"`
	Type        QuestionType `json:"type"`
	Prompt      string       `json:"prompt"`
	Description string       `json:"description,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
	Optional    bool         `json:"optional,omitempty"`
	HasOther    bool         `json:"hasOther,omitempty"`
	Choices     []ChoiceEdge `json:"choices,omitempty"`

	// Next is the default target used when no choice edge decides the route.
	// A nil Next means EndOfForm.
	Next *int `json:"next,omitempty"`
}

// DefaultNext returns the question-level fallback target.
func (q *Question) DefaultNext() int {
	if q.Next == nil {
		return EndOfForm
	}
	return *q.Next
}

// IsSingleSelect reports whether the question yields exactly one chosen label.
func (q *Question) IsSingleSelect() bool {
	return q.Type == TypeMultipleChoice || q.Type == TypeDropdown
}

// IsMultiSelect reports whether the question yields a list of chosen labels.
func (q *Question) IsMultiSelect() bool {
	return q.Type == TypeCheckbox
}

// IsContact reports whether the question captures a contact detail that is
// projected by type rather than by id.
func (q *Question) IsContact() bool {
	return q.Type == TypeEmail || q.Type == TypePhoneNumber
}

// AnswerKind discriminates the two shapes an answer can take.
type AnswerKind int

const (
	KindNone AnswerKind = iota
	KindText
	KindList
)

// AnswerValue is either free text (shortAnswer, paragraph, dropdown,
// multipleChoice, phoneNumber, email) or a list of selected labels (checkbox).
// The zero value means "not answered".
type AnswerValue struct {
	kind AnswerKind
	text string
	list []string
}

// Text wraps a free-text answer.
func Text(s string) AnswerValue { return AnswerValue{kind: KindText, text: s} }

// List wraps a multi-select answer.
func List(vals []string) AnswerValue { return AnswerValue{kind: KindList, list: vals} }

func (v AnswerValue) Kind() AnswerKind { return v.kind }
func (v AnswerValue) IsZero() bool     { return v.kind == KindNone }

// String returns the text form, or "" when the answer is a list or unset.
func (v AnswerValue) String() string { return v.text }

// Strings returns the list form, or nil when the answer is text or unset.
func (v AnswerValue) Strings() []string { return v.list }

// Contains reports whether a list answer includes the given label.
func (v AnswerValue) Contains(label string) bool {
	for _, s := range v.list {
		if s == label {
			return true
		}
	}
	return false
}

// MarshalJSON encodes the value in its natural JSON shape: a string for text,
// an array for lists, null when unset.
func (v AnswerValue) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindList:
		return json.Marshal(v.list)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts a JSON string or array of strings.
func (v *AnswerValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = AnswerValue{}
		return nil
	}
	if strings.HasPrefix(trimmed, "[") {
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		*v = List(list)
		return nil
	}
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return err
	}
	*v = Text(text)
	return nil
}

// AnswerKey addresses a stored answer: either a question's own slot or the
// free-text companion slot opened by an OtherLabel choice.
type AnswerKey struct {
	QuestionID int
	Other      bool
}

// Key addresses the primary answer slot of a question.
func Key(questionID int) AnswerKey { return AnswerKey{QuestionID: questionID} }

// OtherKey addresses the free-text companion slot of a question.
func OtherKey(questionID int) AnswerKey { return AnswerKey{QuestionID: questionID, Other: true} }

// String renders the key in its wire form, e.g. "14" or "14_other".
func (k AnswerKey) String() string {
	if k.Other {
		return strconv.Itoa(k.QuestionID) + "_other"
	}
	return strconv.Itoa(k.QuestionID)
}

// ParseAnswerKey parses the wire form produced by String.
func ParseAnswerKey(s string) (AnswerKey, error) {
	raw, other := strings.CutSuffix(s, "_other")
	id, err := strconv.Atoi(raw)
	if err != nil {
		return AnswerKey{}, fmt.Errorf("invalid answer key %q: %w", s, err)
	}
	return AnswerKey{QuestionID: id, Other: other}, nil
}

// Answers is the accumulated answer store for one form run.
type Answers map[AnswerKey]AnswerValue

// Get returns the primary answer for a question.
func (a Answers) Get(questionID int) AnswerValue { return a[Key(questionID)] }

// GetOther returns the free-text companion answer for a question.
func (a Answers) GetOther(questionID int) AnswerValue { return a[OtherKey(questionID)] }

// Set stores a value, deleting the slot when the value is unset.
func (a Answers) Set(key AnswerKey, val AnswerValue) {
	if val.IsZero() {
		delete(a, key)
		return
	}
	a[key] = val
}

// Clone returns an independent copy.
func (a Answers) Clone() Answers {
	out := make(Answers, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// MarshalJSON encodes the store as a flat object keyed by the wire form of
// each key.
func (a Answers) MarshalJSON() ([]byte, error) {
	flat := make(map[string]AnswerValue, len(a))
	for k, v := range a {
		flat[k.String()] = v
	}
	return json.Marshal(flat)
}

// UnmarshalJSON decodes the flat wire object. Keys that do not parse are
// dropped rather than failing the whole store.
func (a *Answers) UnmarshalJSON(data []byte) error {
	var flat map[string]AnswerValue
	if err := json.Unmarshal(data, &flat); err != nil {
		return err
	}
	out := make(Answers, len(flat))
	for raw, v := range flat {
		key, err := ParseAnswerKey(raw)
		if err != nil {
			continue
		}
		out[key] = v
	}
	*a = out
	return nil
}
