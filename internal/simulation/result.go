package simulation

// CondRes is the outcome of one step of a condition or behaviour.
type CondRes int

const (
	// NotMet means the step has not resolved yet.
	NotMet CondRes = iota
	// Met means the step finished successfully.
	Met
	// Abort means the step cannot proceed.
	Abort
)

func (r CondRes) String() string {
	switch r {
	case NotMet:
		return "not_met"
	case Met:
		return "met"
	case Abort:
		return "abort"
	}
	return "invalid"
}

// Resolved reports whether r is Met or Abort.
func (r CondRes) Resolved() bool {
	return r != NotMet
}

// Behaviour is a stateful per-frame squad script. Run with restart=true
// discards all progress, including that of nested behaviours, and reports
// NotMet.
type Behaviour interface {
	Run(restart bool, dt float64) CondRes
}

// BehaviourFunc adapts a stateless function to Behaviour.
type BehaviourFunc func(restart bool, dt float64) CondRes

// Run calls f(restart, dt).
func (f BehaviourFunc) Run(restart bool, dt float64) CondRes {
	return f(restart, dt)
}
