package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/odekit/internal/dynamo"
	"golang.org/x/sync/errgroup"
)

// Job is one independent run of a sweep. Each job carries its own field and
// config; nothing is shared between jobs.
type Job struct {
	Name   string
	Field  dynamo.Field
	Config dynamo.Config
}

// Sweep runs jobs with a default Solver.
func Sweep(ctx context.Context, jobs []Job, limit int) ([]*dynamo.Trajectory, error) {
	return New().Sweep(ctx, jobs, limit)
}

// Sweep runs jobs concurrently, at most limit at a time (limit <= 0 means no
// limit), and returns their trajectories in job order. The first failure
// cancels the jobs that have not started yet and is returned.
func (s *Solver) Sweep(ctx context.Context, jobs []Job, limit int) ([]*dynamo.Trajectory, error) {
	results := make([]*dynamo.Trajectory, len(jobs))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}

	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tr, err := s.Integrate(job.Field, job.Config)
			if err != nil {
				return fmt.Errorf("%s: %w", job.Name, err)
			}
			results[i] = tr
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
