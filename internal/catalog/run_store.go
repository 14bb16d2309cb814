package catalog

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Run status values recorded in the catalog.
const (
	StatusRunning  = "running"
	StatusComplete = "complete"
	StatusError    = "error"
)

// AggregationRun represents a persisted aggregation run: which directories it
// read and wrote, its lifecycle status, and what it produced.
type AggregationRun struct {
	RunID       string          `json:"run_id"`
	ResultsDir  string          `json:"results_dir"`
	OutputDir   string          `json:"output_dir"`
	Status      string          `json:"status"`
	NumReps     int             `json:"num_reps"`
	MinSteps    int             `json:"min_steps"`
	SeriesJSON  json.RawMessage `json:"series_json,omitempty"`
	OutputsJSON json.RawMessage `json:"outputs_json,omitempty"`
	Error       string          `json:"error,omitempty"`
	StartedAt   int64           `json:"started_at"`
	CompletedAt int64           `json:"completed_at,omitempty"`
}

// RunResult captures the outcome of a completed aggregation run.
type RunResult struct {
	NumReps     int
	MinSteps    int
	SeriesNames []string
	Outputs     []string
}

// RunStore provides persistence for aggregation runs.
type RunStore struct {
	db *sql.DB
}

// NewRunStore creates a new RunStore.
func NewRunStore(db *sql.DB) *RunStore {
	return &RunStore{db: db}
}

// Insert persists a new aggregation run. If RunID is empty, a UUID is
// generated; if StartedAt is zero, the current time is used; if Status is
// empty, the run starts as running.
func (s *RunStore) Insert(run *AggregationRun) error {
	if run.RunID == "" {
		run.RunID = uuid.New().String()
	}
	if run.StartedAt == 0 {
		run.StartedAt = time.Now().UnixNano()
	}
	if run.Status == "" {
		run.Status = StatusRunning
	}

	var seriesStr, outputsStr interface{}
	if len(run.SeriesJSON) > 0 {
		seriesStr = string(run.SeriesJSON)
	}
	if len(run.OutputsJSON) > 0 {
		outputsStr = string(run.OutputsJSON)
	}

	return retryOnBusy(func() error {
		_, err := s.db.Exec(`
			INSERT INTO aggregation_runs (
				run_id, results_dir, output_dir, status,
				num_reps, min_steps, series_json, outputs_json,
				error, started_at, completed_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			run.RunID, run.ResultsDir, run.OutputDir, run.Status,
			run.NumReps, run.MinSteps, seriesStr, outputsStr,
			nullableString(run.Error), run.StartedAt, nullableInt64(run.CompletedAt),
		)
		return err
	})
}

// Complete marks a run as complete and records what it produced.
func (s *RunStore) Complete(runID string, result *RunResult) error {
	seriesJSON, err := json.Marshal(result.SeriesNames)
	if err != nil {
		return fmt.Errorf("marshal series names: %w", err)
	}
	outputsJSON, err := json.Marshal(result.Outputs)
	if err != nil {
		return fmt.Errorf("marshal outputs: %w", err)
	}
	completedAt := time.Now().UnixNano()

	return retryOnBusy(func() error {
		res, err := s.db.Exec(`
			UPDATE aggregation_runs
			SET status = ?, num_reps = ?, min_steps = ?,
			    series_json = ?, outputs_json = ?, completed_at = ?
			WHERE run_id = ?`,
			StatusComplete, result.NumReps, result.MinSteps,
			string(seriesJSON), string(outputsJSON), completedAt, runID,
		)
		if err != nil {
			return fmt.Errorf("complete run: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("aggregation run %s not found", runID)
		}
		return nil
	})
}

// Fail marks a run as errored with the given message.
func (s *RunStore) Fail(runID, errMsg string) error {
	completedAt := time.Now().UnixNano()

	return retryOnBusy(func() error {
		res, err := s.db.Exec(`
			UPDATE aggregation_runs
			SET status = ?, error = ?, completed_at = ?
			WHERE run_id = ?`,
			StatusError, errMsg, completedAt, runID,
		)
		if err != nil {
			return fmt.Errorf("fail run: %w", err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return fmt.Errorf("rows affected: %w", err)
		}
		if affected == 0 {
			return fmt.Errorf("aggregation run %s not found", runID)
		}
		return nil
	})
}

// Get returns a single aggregation run by ID.
func (s *RunStore) Get(runID string) (*AggregationRun, error) {
	row := s.db.QueryRow(`
		SELECT run_id, results_dir, output_dir, status,
		       num_reps, min_steps, series_json, outputs_json,
		       error, started_at, completed_at
		FROM aggregation_runs
		WHERE run_id = ?`, runID)

	run, err := scanRun(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("aggregation run %s not found", runID)
		}
		return nil, fmt.Errorf("scan aggregation run: %w", err)
	}
	return run, nil
}

// List returns aggregation runs ordered by start time descending. A limit of
// zero or less returns all runs.
func (s *RunStore) List(limit int) ([]*AggregationRun, error) {
	query := `
		SELECT run_id, results_dir, output_dir, status,
		       num_reps, min_steps, series_json, outputs_json,
		       error, started_at, completed_at
		FROM aggregation_runs
		ORDER BY started_at DESC`
	var (
		rows *sql.Rows
		err  error
	)
	if limit > 0 {
		rows, err = s.db.Query(query+` LIMIT ?`, limit)
	} else {
		rows, err = s.db.Query(query)
	}
	if err != nil {
		return nil, fmt.Errorf("query aggregation runs: %w", err)
	}
	defer rows.Close()

	var runs []*AggregationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("scan aggregation run row: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// scanner matches both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanRun(row scanner) (*AggregationRun, error) {
	var run AggregationRun
	var seriesStr, outputsStr, errStr sql.NullString
	var completedAt sql.NullInt64
	err := row.Scan(
		&run.RunID, &run.ResultsDir, &run.OutputDir, &run.Status,
		&run.NumReps, &run.MinSteps, &seriesStr, &outputsStr,
		&errStr, &run.StartedAt, &completedAt,
	)
	if err != nil {
		return nil, err
	}
	if seriesStr.Valid {
		run.SeriesJSON = json.RawMessage(seriesStr.String)
	}
	if outputsStr.Valid {
		run.OutputsJSON = json.RawMessage(outputsStr.String)
	}
	if errStr.Valid {
		run.Error = errStr.String
	}
	if completedAt.Valid {
		run.CompletedAt = completedAt.Int64
	}
	return &run, nil
}

func nullableString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullableInt64(v int64) interface{} {
	if v == 0 {
		return nil
	}
	return v
}
