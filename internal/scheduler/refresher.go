// Package scheduler runs periodic reconciliation on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// Refresher calls a function on a standard five-field cron schedule.
type Refresher struct {
	cron    *cron.Cron
	entryID cron.EntryID
}

func NewRefresher(spec string, fn func()) (*Refresher, error) {
	c := cron.New(
		cron.WithLogger(slogLogger{}),
		cron.WithChain(cron.SkipIfStillRunning(slogLogger{})),
	)
	entryID, err := c.AddFunc(spec, fn)
	if err != nil {
		return nil, fmt.Errorf("cron.AddFunc(%s) > %w", spec, err)
	}
	return &Refresher{cron: c, entryID: entryID}, nil
}

func (r *Refresher) Start() {
	r.cron.Start()
}

// Stop prevents new runs. The returned context is done once a running call
// has returned.
func (r *Refresher) Stop() context.Context {
	return r.cron.Stop()
}

// Next is when the function runs next. It is zero until Start.
func (r *Refresher) Next() time.Time {
	return r.cron.Entry(r.entryID).Next
}

// slogLogger sends cron's own logging to the default slog logger.
type slogLogger struct{}

func (slogLogger) Info(msg string, keysAndValues ...interface{}) {
	slog.Default().Debug("cron: "+msg, keysAndValues...)
}

func (slogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	slog.Default().Error("cron: "+msg, append([]interface{}{"error", err}, keysAndValues...)...)
}
