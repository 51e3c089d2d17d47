package forms

// Route is the outcome of resolving the question that follows an answer.
type Route struct {
	// NextID is the id of the next question, or EndOfForm.
	NextID int

	// Conflict is set when a multi-select answer matched edges with divergent
	// targets and the first matching edge decided the route. Graph authors
	// should keep the targets of co-selectable choices in agreement.
	Conflict bool
}

// NextID resolves the question that follows q given its stored answer.
// Resolution order:
//
//  1. single-select with choice edges: the edge whose label equals the answer
//     text, else the question's default target;
//  2. multi-select with choice edges: the shared target of all matched edges,
//     or the first matched edge's target when they disagree;
//  3. otherwise: the question's default target.
//
// An unmatched or missing answer always falls through to the default target.
func NextID(q *Question, val AnswerValue) Route {
	if len(q.Choices) == 0 {
		return Route{NextID: q.DefaultNext()}
	}

	if q.IsSingleSelect() && val.Kind() == KindText {
		for _, edge := range q.Choices {
			if edge.Label == val.String() {
				return Route{NextID: edge.Next}
			}
		}
		return Route{NextID: q.DefaultNext()}
	}

	if q.IsMultiSelect() && val.Kind() == KindList {
		var matched []ChoiceEdge
		for _, edge := range q.Choices {
			if val.Contains(edge.Label) {
				matched = append(matched, edge)
			}
		}
		if len(matched) == 0 {
			return Route{NextID: q.DefaultNext()}
		}
		target := matched[0].Next
		for _, edge := range matched[1:] {
			if edge.Next != target {
				return Route{NextID: target, Conflict: true}
			}
		}
		return Route{NextID: target}
	}

	return Route{NextID: q.DefaultNext()}
}
