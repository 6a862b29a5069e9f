package logistics

import (
	"context"
	"sync"

	"github.com/fesgura/mathtrade-logistics-sub000/config"
	"github.com/sirupsen/logrus"
)

// refresher implements the apply-then-schedule-refresh half of every
// optimistic mutation: after a mutating call succeeds and the local
// projection is updated, a reconciling read runs in the background.
// Its failure is logged and nothing else: the optimistic state stays
// usable and the next refresh attempt corrects any drift. That bounded
// staleness is the intended tradeoff, not an oversight.
type refresher struct {
	logger *logrus.Logger
	wg     sync.WaitGroup
}

func newRefresher(logger *logrus.Logger) *refresher {
	if logger == nil {
		logger = config.GetLogger()
	}
	return &refresher{logger: logger}
}

func (r *refresher) schedule(ctx context.Context, funcName string, reload func(ctx context.Context) error) {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		if err := reload(ctx); err != nil {
			config.LogError(r.logger, "logistics", funcName, "background refresh", nil, err)
		}
	}()
}

// wait blocks until all scheduled refreshes finish. Tests use it to make
// reconciliation deterministic; production callers never need it.
func (r *refresher) wait() {
	r.wg.Wait()
}
