package forms

import (
	"strings"
	"time"
)

// Record is a partial or complete row for the signup_submissions table,
// keyed by column name. Values are strings, ordered string lists, booleans,
// the raw Answers map, or nil for an explicit null. Projection never talks to
// storage; callers persist the record.
type Record map[string]any

// ProjectSingle projects the column(s) owned by one question. The raw answer
// map is always included so a draft survives even while typed columns are not
// yet valid. Contact columns are keyed by question type and populated only
// when the value is independently valid; an invalid value stays in the raw
// map with an explicit null in the typed column.
func ProjectSingle(q *Question, all Answers) Record {
	rec := Record{"answers": all.Clone()}

	if spec, ok := ColumnFor(q.ID); ok {
		rec[spec.Name] = columnValue(spec.Kind, q.ID, all)
	}

	switch q.Type {
	case TypeEmail:
		email := strings.TrimSpace(all.Get(q.ID).String())
		if IsValidEmail(email) {
			rec["email"] = email
		} else {
			rec["email"] = nil
		}
	case TypePhoneNumber:
		phone := strings.TrimSpace(all.Get(q.ID).String())
		if IsValidPhone(phone) {
			rec["phone_e164"] = phone
		} else {
			rec["phone_e164"] = nil
		}
	}

	return rec
}

// ProjectAll derives every named column from the answer store in one pass and
// stamps run identity, the consent timestamp, and the update timestamp.
// Contact columns pass through trimmed; the raw map remains the source of
// truth for anything that never became valid.
func ProjectAll(g *Graph, all Answers, runID string, consentAt, now time.Time) Record {
	rec := Record{"answers": all.Clone()}

	for _, q := range g.Questions() {
		switch q.Type {
		case TypeEmail:
			rec["email"] = textOrNil(all.Get(q.ID).String())
		case TypePhoneNumber:
			rec["phone_e164"] = textOrNil(all.Get(q.ID).String())
		default:
			if spec, ok := ColumnFor(q.ID); ok {
				rec[spec.Name] = columnValue(spec.Kind, q.ID, all)
			}
		}
	}

	rec["run_id"] = runID
	if consentAt.IsZero() {
		rec["consent_given_at"] = nil
	} else {
		rec["consent_given_at"] = consentAt.UTC().Format(time.RFC3339)
	}
	rec["updated_at"] = now.UTC().Format(time.RFC3339)
	return rec
}

// columnValue renders one stored answer into its column shape.
func columnValue(kind ColumnKind, questionID int, all Answers) any {
	val := all.Get(questionID)

	switch kind {
	case ColumnText:
		return textOrNil(val.String())

	case ColumnTextWithOther:
		text := strings.TrimSpace(val.String())
		if text == OtherLabel {
			if other := all.GetOther(questionID).String(); strings.TrimSpace(other) != "" {
				return OtherLabel + ": " + other
			}
			return OtherLabel
		}
		return textOrNil(text)

	case ColumnList:
		if val.Kind() != KindList {
			return nil
		}
		list := val.Strings()
		if !containsLabel(list, OtherLabel) {
			return list
		}
		merged := make([]string, len(list))
		for i, label := range list {
			if label == OtherLabel {
				if other := all.GetOther(questionID).String(); strings.TrimSpace(other) != "" {
					merged[i] = OtherLabel + ": " + other
					continue
				}
			}
			merged[i] = label
		}
		return merged

	case ColumnYesNo:
		switch strings.ToLower(strings.TrimSpace(val.String())) {
		case "yes":
			return true
		case "no":
			return false
		default:
			return nil
		}

	case ColumnListPresence:
		if val.Kind() != KindList {
			return nil
		}
		return len(val.Strings()) > 0

	default:
		return nil
	}
}

func textOrNil(s string) any {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return trimmed
}

func containsLabel(list []string, label string) bool {
	for _, s := range list {
		if s == label {
			return true
		}
	}
	return false
}
