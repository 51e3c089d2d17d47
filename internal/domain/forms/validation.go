package forms

import (
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

var (
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	e164Pattern  = regexp.MustCompile(`^\+\d{8,15}$`)
)

// IsValidEmail reports whether the trimmed value looks like an email address.
// Deliberately shallow: one local part, one @, a dot somewhere in the domain.
func IsValidEmail(s string) bool {
	return emailPattern.MatchString(strings.TrimSpace(s))
}

// IsE164 reports whether the trimmed value has the bare E.164 shape: a plus
// sign followed by 8 to 15 digits. Shape only, no region or metadata checks.
func IsE164(s string) bool {
	return e164Pattern.MatchString(strings.TrimSpace(s))
}

// IsValidPhone reports whether the value is a dialable phone number. Numbers
// are parsed region-free, so international format with a leading + is
// required. When the input cannot be parsed at all the weaker E.164 shape
// check decides.
func IsValidPhone(s string) bool {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return false
	}
	num, err := phonenumbers.Parse(trimmed, "")
	if err != nil {
		return IsE164(trimmed)
	}
	return phonenumbers.IsValidNumber(num)
}

// IsSatisfied reports whether the stored answer for q meets the question's
// requirement. Optional questions are always satisfied. The full answer store
// is consulted because an OtherLabel selection is only satisfied together
// with non-empty companion text.
func IsSatisfied(q *Question, all Answers) bool {
	if q.Optional {
		return true
	}
	val := all.Get(q.ID)

	switch q.Type {
	case TypeShortAnswer, TypeParagraph, TypeDropdown, TypeMultipleChoice:
		text := strings.TrimSpace(val.String())
		if val.Kind() != KindText || text == "" {
			return false
		}
		if q.HasOther && text == OtherLabel {
			return hasOtherText(q, all)
		}
		return true

	case TypeCheckbox:
		if val.Kind() != KindList || len(val.Strings()) == 0 {
			return false
		}
		if q.HasOther && val.Contains(OtherLabel) {
			return hasOtherText(q, all)
		}
		return true

	case TypePhoneNumber:
		return val.Kind() == KindText && IsValidPhone(val.String())

	case TypeEmail:
		return val.Kind() == KindText && IsValidEmail(val.String())

	default:
		return false
	}
}

func hasOtherText(q *Question, all Answers) bool {
	return strings.TrimSpace(all.GetOther(q.ID).String()) != ""
}
