/*
TimeAdjuster

Estimates difference between local clock and server clock from one server supplied timestamp.
After calibration server time and region time are derived offline from local clock.

Three tiers of time
	local   clock and timezone of host (injected clock and location)
	server  local clock corrected with adjustment
	region  server time shifted by region timezone

All timezone offsets are minutes behind UTC (positive west), same as localTZ
*/
package timeadjuster

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

const DEFAULTTOLERANCE = 60 * 1000 //ms, skew treated as net lag

//Settings of TimeAdjuster
type Settings struct {
	ServerTZ  int   //minutes. Defaults to UTC
	RegionTZ  int   //minutes. Defaults to UTC
	Tolerance int64 //ms. Time difference between server and local that is treated as net lag
}

//DefaultSettings server and region at UTC and one minute lag tolerance
func DefaultSettings() Settings {
	return Settings{
		ServerTZ:  0,
		RegionTZ:  0,
		Tolerance: DEFAULTTOLERANCE,
	}
}

type TimeAdjuster struct {
	clock    clockwork.Clock //Source of now()
	location *time.Location  //Source of local timezone
	log      *zap.Logger
	metrics  *Metrics
	history  *CalibrationLog //Optional

	calibrateMu sync.Mutex //Orders whole calibrations, history follows same order as adjustment

	mu         sync.RWMutex
	settings   Settings
	adjustment int64 //serverNow = localNow - adjustment
	last       Calibration
	calibrated bool
}

type Option func(*TimeAdjuster)

//WithClock replaces real clock. Unit tests use clockwork.NewFakeClock
func WithClock(clock clockwork.Clock) Option {
	return func(p *TimeAdjuster) { p.clock = clock }
}

//WithLocation sets what is considered as local timezone. Defaults to time.Local
func WithLocation(loc *time.Location) Option {
	return func(p *TimeAdjuster) { p.location = loc }
}

func WithLogger(log *zap.Logger) Option {
	return func(p *TimeAdjuster) { p.log = log }
}

func WithMetrics(m *Metrics) Option {
	return func(p *TimeAdjuster) { p.metrics = m }
}

//WithCalibrationLog stores every calibration to history
func WithCalibrationLog(history *CalibrationLog) Option {
	return func(p *TimeAdjuster) { p.history = history }
}

//NewTimeAdjuster creates adjuster. Adjustment starts from 0, local clock is assumed to be right
func NewTimeAdjuster(settings Settings, opts ...Option) *TimeAdjuster {
	result := &TimeAdjuster{
		clock:    clockwork.NewRealClock(),
		location: time.Local,
		log:      zap.NewNop(),
		settings: settings,
	}
	for _, opt := range opts {
		opt(result)
	}
	if result.clock == nil {
		result.clock = clockwork.NewRealClock()
	}
	if result.location == nil {
		result.location = time.Local
	}
	if result.log == nil {
		result.log = zap.NewNop()
	}
	return result
}

//tzAt gives timezone offset of location at given instant. Changes with daylight saving
func (p *TimeAdjuster) tzAt(t time.Time) int {
	_, offset := t.In(p.location).Zone()
	return -offset / 60
}

//Now returns current instant from host clock
func (p *TimeAdjuster) Now() EpochMs {
	return EpochOf(p.clock.Now())
}

//LocalTZ returns local timezone offset in minutes, positive west of UTC. Never cached
func (p *TimeAdjuster) LocalTZ() int {
	return p.tzAt(p.clock.Now())
}

func (p *TimeAdjuster) LocalNow() EpochMs {
	return p.Now()
}

//LocalUTC local wall clock reinterpreted as UTC
func (p *TimeAdjuster) LocalUTC() EpochMs {
	t := p.clock.Now()
	return EpochOf(t) - EpochMs(TimeLapse(int64(p.tzAt(t)), Min))
}

//LocalDate returns local now as time.Time
func (p *TimeAdjuster) LocalDate() time.Time {
	return p.LocalNow().Time(p.location)
}

func (p *TimeAdjuster) ServerTZ() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.ServerTZ
}

func (p *TimeAdjuster) SetServerTZ(tz int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.ServerTZ = tz
}

//ServerNow is local clock corrected with adjustment. Equals LocalNow if not calibrated
func (p *TimeAdjuster) ServerNow() EpochMs {
	p.mu.RLock()
	adjustment := p.adjustment
	p.mu.RUnlock()
	return p.LocalNow() - EpochMs(adjustment)
}

//ServerDate returns ServerNow as time.Time
func (p *TimeAdjuster) ServerDate() time.Time {
	return p.ServerNow().Time(p.location)
}

//ServerDateAt reinterprets server wall clock value dt as UTC based instant. Adjustment is not applied
func (p *TimeAdjuster) ServerDateAt(dt time.Time) time.Time {
	return (EpochOf(dt) + EpochMs(TimeLapse(int64(p.LocalTZ()), Min))).Time(p.location)
}

func (p *TimeAdjuster) RegionTZ() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings.RegionTZ
}

//SetRegionTZ changes region. Following region views use new value, no calibration needed
func (p *TimeAdjuster) SetRegionTZ(tz int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.settings.RegionTZ = tz
}

//RegionNow is server time shifted to region timezone
func (p *TimeAdjuster) RegionNow() EpochMs {
	p.mu.RLock()
	adjustment := p.adjustment
	regionTZ := p.settings.RegionTZ
	p.mu.RUnlock()
	return p.LocalNow() - EpochMs(adjustment) - EpochMs(TimeLapse(int64(regionTZ), Min))
}

func (p *TimeAdjuster) RegionDate() time.Time {
	return p.RegionNow().Time(p.location)
}

//RegionDateAt converts dt to region. Adjustment is not applied
func (p *TimeAdjuster) RegionDateAt(dt time.Time) time.Time {
	regionTZ := p.RegionTZ()
	ms := EpochOf(dt) + EpochMs(TimeLapse(int64(p.LocalTZ()), Min)) - EpochMs(TimeLapse(int64(regionTZ), Min))
	return ms.Time(p.location)
}

//Settings returns copy of current settings
func (p *TimeAdjuster) Settings() Settings {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.settings
}

func (p *TimeAdjuster) Adjustment() int64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.adjustment
}

//LastCalibration returns latest calibration. False if never calibrated
func (p *TimeAdjuster) LastCalibration() (Calibration, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last, p.calibrated
}

/*
Calibrate sets adjustment from server timestamp (milliseconds since unix epoch, same as Now)

If measured skew differs less than tolerance from pure timezone shift, difference is considered
as network lag and adjustment is snapped to timezone shift. Otherwise local clock is wrong and
measured skew is kept as is.
*/
func (p *TimeAdjuster) Calibrate(serverTimestamp EpochMs) {
	p.calibrateMu.Lock()
	defer p.calibrateMu.Unlock()

	t := p.clock.Now()

	p.mu.Lock()
	c := SolveCalibration(EpochOf(t), int32(p.tzAt(t)), serverTimestamp, p.settings.Tolerance)
	p.adjustment = c.Adjustment
	p.last = c
	p.calibrated = true
	p.mu.Unlock()

	p.log.Debug("calibrated",
		zap.Int64("server", int64(c.Server)),
		zap.Int64("raw", c.Raw()),
		zap.Int64("adjustment", c.Adjustment),
		zap.Float64("adjustmentMin", EpochMs(c.Adjustment).Minutes()),
		zap.Bool("snapped", c.Snapped()))
	p.metrics.observeCalibration(c)

	if p.history != nil {
		errInsert := p.history.Insert(c)
		if errInsert != nil {
			p.log.Warn("storing calibration to history failed", zap.Error(errInsert))
			p.metrics.observeHistoryWriteError()
		}
	}
}

//CalibrateLapse calibrates from server timestamp given in other unit, like seconds
func (p *TimeAdjuster) CalibrateLapse(amount int64, unit Unit) {
	p.Calibrate(EpochMs(TimeLapse(amount, unit)))
}

//CalibrateTime is helper for Calibrate with time.Time
func (p *TimeAdjuster) CalibrateTime(serverTime time.Time) {
	p.Calibrate(EpochOf(serverTime))
}
