package timeadjuster

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	AdjustmentN         = "timeadjuster_adjustment_milliseconds"
	AdjustmentH         = "Current correction between local and server clock in milliseconds"
	CalibrationsN       = "timeadjuster_calibrations_total"
	CalibrationsH       = "Total number of calibrations by outcome"
	HistoryWriteErrorsN = "timeadjuster_history_write_errors_total"
	HistoryWriteErrorsH = "Total number of calibrations that could not be stored to history"
	OutcomeSnapped      = "snapped"
	OutcomeSkew         = "skew"
)

//Metrics of adjuster. Nil pointer is valid and does nothing
type Metrics struct {
	adjustment         prometheus.Gauge
	calibrations       *prometheus.CounterVec
	historyWriteErrors prometheus.Counter
}

//NewMetrics registers collectors to reg. Use prometheus.DefaultRegisterer if unsure
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		adjustment: factory.NewGauge(prometheus.GaugeOpts{
			Name: AdjustmentN,
			Help: AdjustmentH,
		}),
		calibrations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: CalibrationsN,
			Help: CalibrationsH,
		}, []string{"outcome"}),
		historyWriteErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: HistoryWriteErrorsN,
			Help: HistoryWriteErrorsH,
		}),
	}
}

func (m *Metrics) observeCalibration(c Calibration) {
	if m == nil {
		return
	}
	m.adjustment.Set(float64(c.Adjustment))
	outcome := OutcomeSkew
	if c.Snapped() {
		outcome = OutcomeSnapped
	}
	m.calibrations.WithLabelValues(outcome).Inc()
}

func (m *Metrics) observeHistoryWriteError() {
	if m == nil {
		return
	}
	m.historyWriteErrors.Inc()
}
