package timesync

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

//Refresher calibrates from source right away and then at every Interval
type Refresher struct {
	Source   TimeSync
	Target   Calibrator
	Interval time.Duration
	Clock    clockwork.Clock //nil means real clock
	Log      *zap.Logger     //nil means no logging
}

func (p *Refresher) refresh(ctx context.Context, log *zap.Logger) {
	t, err := CalibrateOnce(ctx, p.Source, p.Target)
	if err != nil {
		log.Warn("getting server time failed", zap.Error(err))
		return
	}
	log.Debug("calibrated from source", zap.Time("server", t))
}

//Run blocks until ctx is done. Failing source does not stop refreshing
func (p *Refresher) Run(ctx context.Context) error {
	if p.Source == nil || p.Target == nil {
		return fmt.Errorf("refresher requires source and target")
	}
	if p.Interval <= 0 {
		return fmt.Errorf("invalid refresh interval %v", p.Interval)
	}
	clock := p.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	log := p.Log
	if log == nil {
		log = zap.NewNop()
	}

	p.refresh(ctx, log)

	ticker := clock.NewTicker(p.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.Chan():
			p.refresh(ctx, log)
		}
	}
}
