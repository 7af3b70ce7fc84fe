package domain

// Intent is the closed-set classification of what the user wants.
type Intent string

const (
	IntentScanBarcode  Intent = "scan_barcode"
	IntentSearchFood   Intent = "search_food"
	IntentLogMeal      Intent = "log_meal"
	IntentDailySummary Intent = "daily_summary"
	IntentRecommend    Intent = "recommend"
)

// AllowedIntents lists every intent the extractor may produce, in the order
// they are presented to the classifier prompt.
var AllowedIntents = []Intent{
	IntentScanBarcode,
	IntentSearchFood,
	IntentLogMeal,
	IntentDailySummary,
	IntentRecommend,
}

// Valid reports whether i is one of the five allowed intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentScanBarcode, IntentSearchFood, IntentLogMeal, IntentDailySummary, IntentRecommend:
		return true
	}
	return false
}

// State is the per-turn conversation record. It is created fresh for every
// incoming message, flows by value through each pipeline stage, and is
// discarded once the response is emitted. No field survives across turns;
// prior context (candidates, selection) reaches a follow-up turn only when
// the caller re-supplies it.
type State struct {
	// Immutable inputs for the turn.
	UserID    int64  `json:"user_id"`
	InputText string `json:"input_text"`

	Intent   Intent   `json:"intent,omitempty"`
	Entities Entities `json:"entities"`

	// Candidates preserves the producing collaborator's order.
	Candidates []FoodSummary `json:"candidates,omitempty"`
	Selected   *FoodSummary  `json:"selected,omitempty"`

	// Handler outputs; only the active intent's field is populated.
	LogResult       *LogRecord           `json:"log_result,omitempty"`
	DaySummary      *DaySummary          `json:"day_summary,omitempty"`
	Recommendations []RecommendationItem `json:"recommendations,omitempty"`

	// Response is the user-facing text, always set before the turn ends.
	Response string `json:"response"`

	// Invariant: NeedsClarification == true <=> len(Questions) == 1.
	// Mutate only through Clarify to keep both sides in sync.
	NeedsClarification bool     `json:"needs_clarification"`
	Questions          []string `json:"questions,omitempty"`

	Confidence float64 `json:"confidence"`

	// ErrorKind is a machine-readable marker for domain failures that were
	// surfaced as plain response text. The turn still completed (ok=true).
	ErrorKind ErrorKind `json:"error_kind,omitempty"`

	// Transcript holds turn-internal chat messages used only inside a
	// handler's tool-invocation loop. It is discarded at finalize and is
	// never persisted.
	Transcript []Message `json:"-"`
}

// NewState creates the state record for one incoming message with all
// other fields at their defaults.
func NewState(userID int64, text string) *State {
	return &State{
		UserID:    userID,
		InputText: text,
	}
}

// Clarify marks the turn as needing exactly one follow-up question.
// It is the only sanctioned way to set NeedsClarification, so that the
// one-outstanding-question invariant holds on every code path.
func (s *State) Clarify(question, response string) {
	s.NeedsClarification = true
	s.Questions = []string{question}
	s.Response = response
}
