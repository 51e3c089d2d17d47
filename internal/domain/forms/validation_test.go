package forms

import "testing"

func TestIsSatisfied(t *testing.T) {
	tests := []struct {
		name     string
		question Question
		answers  Answers
		want     bool
	}{
		{
			name:     "optional question with no answer",
			question: Question{ID: 15, Type: TypeParagraph, Optional: true},
			answers:  Answers{},
			want:     true,
		},
		{
			name:     "optional question beats invalid answer",
			question: Question{ID: 15, Type: TypeEmail, Optional: true},
			answers:  Answers{Key(15): Text("not-an-email")},
			want:     true,
		},
		{
			name:     "short answer with text",
			question: Question{ID: 2, Type: TypeShortAnswer},
			answers:  Answers{Key(2): Text("Ada Lovelace")},
			want:     true,
		},
		{
			name:     "short answer whitespace only",
			question: Question{ID: 2, Type: TypeShortAnswer},
			answers:  Answers{Key(2): Text("   ")},
			want:     false,
		},
		{
			name:     "short answer missing",
			question: Question{ID: 2, Type: TypeShortAnswer},
			answers:  Answers{},
			want:     false,
		},
		{
			name:     "single select given a list value",
			question: Question{ID: 3, Type: TypeDropdown},
			answers:  Answers{Key(3): List([]string{"25-34"})},
			want:     false,
		},
		{
			name:     "multiple choice Other without companion text",
			question: Question{ID: 4, Type: TypeMultipleChoice, HasOther: true},
			answers:  Answers{Key(4): Text("Other")},
			want:     false,
		},
		{
			name:     "multiple choice Other with companion text",
			question: Question{ID: 4, Type: TypeMultipleChoice, HasOther: true},
			answers: Answers{
				Key(4):      Text("Other"),
				OtherKey(4): Text("non-binary"),
			},
			want: true,
		},
		{
			name:     "multiple choice Other with blank companion text",
			question: Question{ID: 4, Type: TypeMultipleChoice, HasOther: true},
			answers: Answers{
				Key(4):      Text("Other"),
				OtherKey(4): Text("  "),
			},
			want: false,
		},
		{
			name:     "Other literal without hasOther is a plain answer",
			question: Question{ID: 12, Type: TypeMultipleChoice},
			answers:  Answers{Key(12): Text("Other")},
			want:     true,
		},
		{
			name:     "checkbox with selections",
			question: Question{ID: 20, Type: TypeCheckbox},
			answers:  Answers{Key(20): List([]string{"Accountability", "Technique"})},
			want:     true,
		},
		{
			name:     "checkbox empty list",
			question: Question{ID: 20, Type: TypeCheckbox},
			answers:  Answers{Key(20): List([]string{})},
			want:     false,
		},
		{
			name:     "checkbox given a text value",
			question: Question{ID: 20, Type: TypeCheckbox},
			answers:  Answers{Key(20): Text("Accountability")},
			want:     false,
		},
		{
			name:     "checkbox Other requires companion text",
			question: Question{ID: 22, Type: TypeCheckbox, HasOther: true},
			answers:  Answers{Key(22): List([]string{"Cost", "Other"})},
			want:     false,
		},
		{
			name:     "checkbox Other with companion text",
			question: Question{ID: 22, Type: TypeCheckbox, HasOther: true},
			answers: Answers{
				Key(22):      List([]string{"Cost", "Other"}),
				OtherKey(22): Text("scheduling conflicts"),
			},
			want: true,
		},
		{
			name:     "valid international phone",
			question: Question{ID: 6, Type: TypePhoneNumber},
			answers:  Answers{Key(6): Text("+14155552671")},
			want:     true,
		},
		{
			name:     "phone without plus",
			question: Question{ID: 6, Type: TypePhoneNumber},
			answers:  Answers{Key(6): Text("4155552671")},
			want:     false,
		},
		{
			name:     "phone too short",
			question: Question{ID: 6, Type: TypePhoneNumber},
			answers:  Answers{Key(6): Text("+1234")},
			want:     false,
		},
		{
			name:     "valid email",
			question: Question{ID: 5, Type: TypeEmail},
			answers:  Answers{Key(5): Text("ada@example.com")},
			want:     true,
		},
		{
			name:     "email with surrounding whitespace",
			question: Question{ID: 5, Type: TypeEmail},
			answers:  Answers{Key(5): Text("  ada@example.com  ")},
			want:     true,
		},
		{
			name:     "email missing domain dot",
			question: Question{ID: 5, Type: TypeEmail},
			answers:  Answers{Key(5): Text("ada@example")},
			want:     false,
		},
		{
			name:     "email with embedded space",
			question: Question{ID: 5, Type: TypeEmail},
			answers:  Answers{Key(5): Text("ada lovelace@example.com")},
			want:     false,
		},
		{
			name:     "unknown question type",
			question: Question{ID: 99, Type: QuestionType("slider")},
			answers:  Answers{Key(99): Text("5")},
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSatisfied(&tt.question, tt.answers); got != tt.want {
				t.Errorf("IsSatisfied() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsE164(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+14155552671", true},
		{"+12345678", true},
		{"+123456789012345", true},
		{"+1234567", false},
		{"+1234567890123456", false},
		{"14155552671", false},
		{"+1415555a671", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsE164(tt.in); got != tt.want {
			t.Errorf("IsE164(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
