/*
Timesync library for getting server timestamps from external sources like NTP or HTTP

Sources return one sample. Calibrating with sample is done by caller or Refresher
*/
package timesync

import (
	"context"
	"time"
)

type TimeSync interface {
	//Get what time server reports now
	GetServerTime(ctx context.Context) (time.Time, error)
}

//Calibrator is what consumes server timestamps. timeadjuster.TimeAdjuster implements this
type Calibrator interface {
	CalibrateTime(serverTime time.Time)
}

//CalibrateOnce takes one sample from source and calibrates with it
func CalibrateOnce(ctx context.Context, src TimeSync, target Calibrator) (time.Time, error) {
	t, err := src.GetServerTime(ctx)
	if err != nil {
		return t, err
	}
	target.CalibrateTime(t)
	return t, nil
}
