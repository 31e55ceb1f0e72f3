package client

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Outcome summarises a batch of independent saves.
type Outcome int

const (
	Saved Outcome = iota
	SavedWithWarnings
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Saved:
		return "saved"
	case SavedWithWarnings:
		return "saved with warnings"
	default:
		return "failed"
	}
}

// SaveTask is one request in a batch.
type SaveTask struct {
	Name string
	Run  func(ctx context.Context) error
}

// SaveFailure records a task that did not succeed.
type SaveFailure struct {
	Name string
	Err  error
}

// SaveReport is the result of SaveAll.
type SaveReport struct {
	Outcome  Outcome
	Total    int
	Failures []SaveFailure
}

// Message is the toast text for the report.
func (r SaveReport) Message() string {
	switch r.Outcome {
	case Saved:
		return "Saved"
	case SavedWithWarnings:
		names := make([]string, 0, len(r.Failures))
		for _, f := range r.Failures {
			names = append(names, f.Name)
		}
		return fmt.Sprintf("Saved with warnings: %d of %d failed (%s)",
			len(r.Failures), r.Total, strings.Join(names, ", "))
	default:
		if len(r.Failures) == 1 {
			return DisplayMessage(r.Failures[0].Err)
		}
		return fmt.Sprintf("Nothing was saved: %d requests failed", len(r.Failures))
	}
}

// SaveAll runs unrelated saves concurrently. A failure does not cancel the
// others and nothing is rolled back; the report says which ones failed.
// Saves that must succeed or fail together belong in one server request.
func SaveAll(ctx context.Context, tasks ...SaveTask) SaveReport {
	return SaveAllLimit(ctx, 0, tasks...)
}

// SaveAllLimit is SaveAll with at most limit saves in flight. A limit below
// 1 runs every save at once.
func SaveAllLimit(ctx context.Context, limit int, tasks ...SaveTask) SaveReport {
	report := SaveReport{Total: len(tasks)}
	if len(tasks) == 0 {
		return report
	}

	failures := make([]*SaveFailure, len(tasks))
	var g errgroup.Group
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, task := range tasks {
		g.Go(func() error {
			var err error
			if task.Run == nil {
				err = fmt.Errorf("save %q has no request", task.Name)
			} else {
				err = task.Run(ctx)
			}
			if err != nil {
				failures[i] = &SaveFailure{Name: task.Name, Err: err}
			}
			return nil
		})
	}
	// Failures are recorded per task; no task error stops the group.
	g.Wait()

	for _, f := range failures {
		if f != nil {
			report.Failures = append(report.Failures, *f)
		}
	}
	switch {
	case len(report.Failures) == 0:
		report.Outcome = Saved
	case len(report.Failures) < len(tasks):
		report.Outcome = SavedWithWarnings
	default:
		report.Outcome = Failed
	}
	return report
}
