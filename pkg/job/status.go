package job

// Status is the lifecycle state of a job.
type Status string

// Job states. COMPLETED and FAILED are terminal.
const (
	StatusQueued        Status = "QUEUED"
	StatusParsing       Status = "PARSING"
	StatusBuildingGraph Status = "BUILDING_GRAPH"
	StatusExplaining    Status = "EXPLAINING"
	StatusCompleted     Status = "COMPLETED"
	StatusFailed        Status = "FAILED"
)

// Progress checkpoints written at each stage. Consumers poll these values,
// so they are fixed.
const (
	ProgressQueued     = 0
	ProgressParsing    = 20
	ProgressGraph      = 50
	ProgressAnnotated  = 65
	ProgressExplaining = 80
	ProgressCompleted  = 100
	ProgressFailed     = 0
)

var transitions = map[Status][]Status{
	StatusQueued:        {StatusParsing},
	StatusParsing:       {StatusBuildingGraph},
	StatusBuildingGraph: {StatusBuildingGraph, StatusExplaining},
	StatusExplaining:    {StatusCompleted},
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusQueued, StatusParsing, StatusBuildingGraph,
		StatusExplaining, StatusCompleted, StatusFailed:
		return true
	}
	return false
}

// IsTerminal reports whether no transition leaves s.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// CanTransition reports whether a job in state from may move to state to.
// FAILED is reachable from every non-terminal state.
func CanTransition(from, to Status) bool {
	if from.IsTerminal() || !from.Valid() {
		return false
	}
	if to == StatusFailed {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
