package models

type CycleOutcome int

const (
	OutcomeBlocked CycleOutcome = iota
	OutcomeReleased
	OutcomeAlreadyMet
	OutcomeQueryFailed
	OutcomeConfigFailed
)

func (o CycleOutcome) String() string {
	switch o {
	case OutcomeBlocked:
		return "blocked"
	case OutcomeReleased:
		return "released"
	case OutcomeAlreadyMet:
		return "already_met"
	case OutcomeQueryFailed:
		return "query_failed"
	case OutcomeConfigFailed:
		return "config_failed"
	default:
		return "unknown"
	}
}

// CycleResult describes a single evaluation of the threshold engine.
type CycleResult struct {
	Outcome  CycleOutcome
	Count    uint32
	Goal     uint32
	Progress uint32
	Err      error
}
