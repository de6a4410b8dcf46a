// Package workflow runs the supervisor/fetch/summarize state machine shared
// by the research categories.
package workflow

type State string

const (
	StateSupervisor State = "SUPERVISOR"
	StateFetch      State = "FETCH"
	StateSummarize  State = "SUMMARIZE"
	StateDone       State = "DONE"
)

// Decision is the supervisor's choice of next step.
type Decision string

const (
	DecisionFetch     Decision = "FETCH"
	DecisionSummarize Decision = "SUMMARIZE"
	DecisionFinish    Decision = "FINISH"
)

var transitions = map[Decision]State{
	DecisionFetch:     StateFetch,
	DecisionSummarize: StateSummarize,
	DecisionFinish:    StateDone,
}

// NextState maps a supervisor decision to the state it selects.
func NextState(d Decision) (State, bool) {
	s, ok := transitions[d]
	return s, ok
}

// Decisions lists the closed decision set in prompt order.
func Decisions() []Decision {
	return []Decision{DecisionFetch, DecisionSummarize, DecisionFinish}
}

// Optional distinguishes "never written" from a written zero value.
type Optional[T any] struct {
	value T
	set   bool
}

func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, set: true}
}

func (o Optional[T]) Get() (T, bool) {
	return o.value, o.set
}

func (o Optional[T]) IsSet() bool {
	return o.set
}

func (o Optional[T]) OrElse(def T) T {
	if !o.set {
		return def
	}
	return o.value
}

// ResearchState is created fresh for every run with only Question set.
type ResearchState struct {
	Question    string
	FetchResult Optional[string]
	Response    Optional[string]
}

// Snapshot is what the supervisor sees. Unset fields read as "".
type Snapshot struct {
	Question    string
	FetchResult string
	Response    string
}

func (s *ResearchState) Snapshot() Snapshot {
	return Snapshot{
		Question:    s.Question,
		FetchResult: s.FetchResult.OrElse(""),
		Response:    s.Response.OrElse(""),
	}
}
