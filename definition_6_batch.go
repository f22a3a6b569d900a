package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ScheduleAll runs independent plans concurrently, one goroutine per plan.
// The first failing plan cancels the plans not yet started; a cancelled ctx
// does the same. Results keep the order of plans.
func (p *Planner) ScheduleAll(ctx context.Context, plans []*ParamsSchedule) ([]*ResponseSchedule, error) {
	result := make([]*ResponseSchedule, len(plans))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(runtime.GOMAXPROCS(0))

	for ix, plan := range plans {
		group.Go(
			func() error {
				if errCtx := groupCtx.Err(); errCtx != nil {
					return errCtx
				}

				response, errSchedule := p.Schedule(plan)
				if errSchedule != nil {
					return fmt.Errorf("plan %d: %w", ix, errSchedule)
				}

				result[ix] = response

				return nil
			},
		)
	}

	if errWait := group.Wait(); errWait != nil {
		p.logger.Warn(
			"batch scheduling stopped",
			slog.Int("plans", len(plans)),
			slog.Any("error", errWait),
		)

		return nil,
			errWait
	}

	return result, nil
}
