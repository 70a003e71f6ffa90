package orchestrator

import (
	"sync"
)

// State of the deployment pipeline. Transitions are strictly sequential;
// any component error moves the run to StateFailed.
type State string

const (
	StateIdle         State = "IDLE"
	StateCheckBalance State = "CHECK_BALANCE"
	StateProvision    State = "PROVISION"
	StateFund         State = "FUND"
	StateDeploy       State = "DEPLOY"
	StateDeriveConfig State = "DERIVE_CONFIG"
	StatePersist      State = "PERSIST"
	StateDone         State = "DONE"
	StateFailed       State = "FAILED"
)

// StateUpdate reports one pipeline transition.
type StateUpdate struct {
	RunID   string
	State   State
	Message string
	Err     error
}

// ProgressReporter receives an update per pipeline transition.
type ProgressReporter interface {
	ReportState(update StateUpdate)
}

// InMemoryProgressReporter keeps the transition history per run.
type InMemoryProgressReporter struct {
	mu      sync.RWMutex
	history map[string][]StateUpdate
}

func NewInMemoryProgressReporter() *InMemoryProgressReporter {
	return &InMemoryProgressReporter{
		history: make(map[string][]StateUpdate),
	}
}

func (r *InMemoryProgressReporter) ReportState(update StateUpdate) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.history[update.RunID] = append(r.history[update.RunID], update)
}

// History returns all transitions reported for a run, in order.
func (r *InMemoryProgressReporter) History(runID string) []StateUpdate {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]StateUpdate, len(r.history[runID]))
	copy(out, r.history[runID])
	return out
}

// Current returns the most recent state of a run.
func (r *InMemoryProgressReporter) Current(runID string) (State, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	updates := r.history[runID]
	if len(updates) == 0 {
		return "", false
	}
	return updates[len(updates)-1].State, true
}
