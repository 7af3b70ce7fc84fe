package domain

// PriorContext is the slice of a previous turn a caller may re-supply when
// answering a clarification question: the candidates that were offered and
// any selection already made. The core never stores it between turns.
type PriorContext struct {
	Candidates []FoodSummary `json:"candidates,omitempty"`
	Selected   *FoodSummary  `json:"selected,omitempty"`
}

// Empty reports whether there is no prior context to apply.
func (c PriorContext) Empty() bool {
	return len(c.Candidates) == 0 && c.Selected == nil
}
