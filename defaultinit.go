/*
Default time adjuster

Helper function that does initialization that is good enough for many use cases.
Uses real clock, time.Local and keeps calibration history on disk
*/
package timeadjuster

import (
	"fmt"

	"github.com/hjkoskel/fixregsto"
	"go.uber.org/zap"
)

const (
	DEFAULTDBFILE_CALIBRATION = "calibration.adj"
)

/*
CreateDefaultTimeAdjuster creates adjuster with calibration history under historyDir.
This function acts also as example use
*/
func CreateDefaultTimeAdjuster(historyDir string, settings Settings, log *zap.Logger, opts ...Option) (*TimeAdjuster, error) {
	if log == nil {
		log = zap.NewNop()
	}
	confHistory := fixregsto.FileStorageConf{
		Name:         DEFAULTDBFILE_CALIBRATION,
		RecordSize:   RECORDSIZE_CALIBRATION,
		MaxFileCount: 64,
		FileMaxSize:  RECORDSIZE_CALIBRATION * 64,
		Path:         historyDir,
	}

	stoHistory, errHistory := confHistory.InitFileStorage()
	if errHistory != nil {
		return nil, fmt.Errorf("calibration history init error %w", errHistory)
	}
	history, errCreate := CreateCalibrationLog(&stoHistory)
	if errCreate != nil {
		return nil, fmt.Errorf("calibration history create error %w", errCreate)
	}
	if latest, ok := history.All().Latest(); ok {
		log.Info("calibration history restored",
			zap.Int("entries", history.Len()),
			zap.Int64("latestAdjustment", latest.Adjustment))
	}

	opts = append([]Option{WithLogger(log), WithCalibrationLog(history)}, opts...)
	return NewTimeAdjuster(settings, opts...), nil
}
