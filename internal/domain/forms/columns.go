package forms

import "fmt"

// ColumnKind describes how an answer is rendered into its named column.
type ColumnKind int

const (
	// ColumnText stores the trimmed answer text.
	ColumnText ColumnKind = iota
	// ColumnTextWithOther stores the answer text, with an OtherLabel selection
	// merged with its companion text as "Other: <text>".
	ColumnTextWithOther
	// ColumnList stores the selected labels as an ordered list, with a
	// selected OtherLabel merged as "Other: <text>".
	ColumnList
	// ColumnYesNo reduces a yes/no answer to a boolean, null when the answer
	// is neither.
	ColumnYesNo
	// ColumnListPresence reduces a list answer to "was anything selected".
	ColumnListPresence
)

// ColumnSpec binds a question id to the named column it owns.
type ColumnSpec struct {
	Name string
	Kind ColumnKind
}

// ColumnTableVersion identifies the id-to-column mapping below. Bump it when
// the question graph and the signup_submissions schema change together.
const ColumnTableVersion = 1

// columnTable is the explicit mapping from question id to owned column.
// Contact columns (email, phone_e164) are not listed here: they belong to
// whichever question carries the email / phoneNumber type and are resolved
// through Graph.FirstOfType.
var columnTable = map[int]ColumnSpec{
	2:  {Name: "full_name", Kind: ColumnText},
	3:  {Name: "age_group", Kind: ColumnText},
	4:  {Name: "gender", Kind: ColumnTextWithOther},
	7:  {Name: "nationality", Kind: ColumnTextWithOther},
	8:  {Name: "employment_status", Kind: ColumnTextWithOther},
	10: {Name: "activity_level", Kind: ColumnText},
	11: {Name: "primary_goal", Kind: ColumnTextWithOther},
	12: {Name: "training_environment", Kind: ColumnText},
	13: {Name: "weight_training_experience", Kind: ColumnText},
	14: {Name: "greatest_challenge", Kind: ColumnTextWithOther},
	15: {Name: "details_general", Kind: ColumnText},
	16: {Name: "sports_participation", Kind: ColumnYesNo},
	17: {Name: "sports_list", Kind: ColumnText},
	18: {Name: "sports_context", Kind: ColumnTextWithOther},
	19: {Name: "trainer_experience", Kind: ColumnText},
	20: {Name: "trainer_benefits", Kind: ColumnList},
	21: {Name: "trainer_benefits_details", Kind: ColumnText},
	22: {Name: "trainer_challenges", Kind: ColumnList},
	23: {Name: "trainer_challenges_details", Kind: ColumnText},
	24: {Name: "trainer_stop_reasons", Kind: ColumnList},
	25: {Name: "trainer_stop_details", Kind: ColumnText},
	26: {Name: "future_trainer_intent", Kind: ColumnText},
	27: {Name: "future_trainer_details", Kind: ColumnText},
	28: {Name: "apps_used", Kind: ColumnYesNo},
	29: {Name: "apps_list", Kind: ColumnText},
	30: {Name: "apps_improvements", Kind: ColumnList},
	31: {Name: "apps_improvements_details", Kind: ColumnText},
	32: {Name: "price_expectation", Kind: ColumnText},
	33: {Name: "subscription_intent", Kind: ColumnText},
	34: {Name: "features_important", Kind: ColumnList},
	35: {Name: "features_details", Kind: ColumnText},
	36: {Name: "injuries", Kind: ColumnText},
	37: {Name: "medication", Kind: ColumnText},
	38: {Name: "limitations", Kind: ColumnText},
	39: {Name: "early_access_choice", Kind: ColumnText},
	40: {Name: "marketing_opt_in", Kind: ColumnListPresence},
	41: {Name: "trainer_past_benefits", Kind: ColumnList},
	42: {Name: "trainer_past_benefits_details", Kind: ColumnText},
}

// ColumnFor returns the column owned by a question id.
func ColumnFor(questionID int) (ColumnSpec, bool) {
	spec, ok := columnTable[questionID]
	return spec, ok
}

// MappedColumnNames returns every column name in the table, in no particular
// order, for schema construction.
func MappedColumnNames() []string {
	names := make([]string, 0, len(columnTable))
	for _, spec := range columnTable {
		names = append(names, spec.Name)
	}
	return names
}

// ValidateColumnMapping cross-checks the question graph against the column
// table at startup. Every non-contact question must own a column, and every
// mapped id must exist in the graph. An unmapped question would silently
// vanish from typed projection, so this fails fast instead.
func ValidateColumnMapping(g *Graph) error {
	for _, q := range g.Questions() {
		if q.IsContact() {
			continue
		}
		if _, ok := columnTable[q.ID]; !ok {
			return fmt.Errorf("question %d (%s) has no column mapping (table version %d)",
				q.ID, q.Type, ColumnTableVersion)
		}
	}
	for id := range columnTable {
		if _, ok := g.Lookup(id); !ok {
			return fmt.Errorf("column table version %d maps question %d which is not in the graph",
				ColumnTableVersion, id)
		}
	}
	return nil
}
