package aggregate

import (
	"log"

	"github.com/google/uuid"

	"github.com/rheiland/persistentcell/internal/catalog"
	"github.com/rheiland/persistentcell/internal/timeutil"
)

// RunManager wraps Run with catalog persistence so each aggregation pass is
// recorded along with its outcome.
type RunManager struct {
	store *catalog.RunStore
	clock timeutil.Clock
}

// NewRunManager creates a manager recording runs in the given catalog.
func NewRunManager(db *catalog.DB) *RunManager {
	return &RunManager{
		store: catalog.NewRunStore(db.DB),
		clock: timeutil.RealClock{},
	}
}

// NewRunManagerWithClock creates a manager with an explicit clock, for tests.
func NewRunManagerWithClock(db *catalog.DB, clock timeutil.Clock) *RunManager {
	return &RunManager{
		store: catalog.NewRunStore(db.DB),
		clock: clock,
	}
}

// Run records a catalog entry, performs the aggregation pass, and updates the
// entry with the outcome. The run ID is returned even when the pass fails so
// callers can point at the errored catalog record.
func (m *RunManager) Run(cfg Config) (string, *Outcome, error) {
	run := &catalog.AggregationRun{
		RunID:      uuid.New().String(),
		ResultsDir: cfg.ResultsDir,
		OutputDir:  cfg.OutputDir,
		StartedAt:  m.clock.Now().UnixNano(),
	}
	if err := m.store.Insert(run); err != nil {
		return "", nil, err
	}
	log.Printf("[aggregate] started run %s for %s", run.RunID, cfg.ResultsDir)

	outcome, err := Run(cfg)
	if err != nil {
		if failErr := m.store.Fail(run.RunID, err.Error()); failErr != nil {
			log.Printf("[aggregate] failed to record error for run %s: %v", run.RunID, failErr)
		}
		return run.RunID, nil, err
	}

	result := &catalog.RunResult{
		NumReps:     outcome.NumReps,
		MinSteps:    outcome.MinSteps,
		SeriesNames: outcome.Series,
		Outputs:     outcome.Outputs,
	}
	if err := m.store.Complete(run.RunID, result); err != nil {
		return run.RunID, outcome, err
	}

	log.Printf("[aggregate] completed run %s: %d reps, %d steps, %d outputs",
		run.RunID, outcome.NumReps, outcome.MinSteps, len(outcome.Outputs))
	return run.RunID, outcome, nil
}
