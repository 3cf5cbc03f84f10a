/*
Time units and millisecond arithmetic.

Everything inside timeadjuster is counted in whole milliseconds since unix epoch.
Timezone offsets are minutes and follow "minutes behind UTC" convention (positive west of Greenwich)
*/

package timeadjuster

import (
	"fmt"
	"time"
)

//EpochMs is instant in milliseconds since unix epoch
type EpochMs int64

//Unit is closed set of units accepted by TimeLapse
type Unit uint8

const (
	Ms Unit = iota
	Sec
	Min
	Hour
)

var unitMultipliers = [...]int64{
	Ms:   1,
	Sec:  1000,
	Min:  60 * 1000,
	Hour: 60 * 60 * 1000,
}

var unitNames = [...]string{
	Ms:   "ms",
	Sec:  "sec",
	Min:  "min",
	Hour: "hour",
}

func (u Unit) String() string {
	if int(u) < len(unitNames) {
		return unitNames[u]
	}
	return fmt.Sprintf("Unit(%d)", uint8(u))
}

//TimeLapse returns given amount of units in milliseconds. Unit outside of Ms..Hour is programming error and panics
func TimeLapse(amount int64, unit Unit) int64 {
	if len(unitMultipliers) <= int(unit) {
		panic(fmt.Sprintf("timeadjuster: unknown unit %v", unit))
	}
	return amount * unitMultipliers[unit]
}

//EpochOf converts time.Time to EpochMs
func EpochOf(t time.Time) EpochMs {
	return EpochMs(t.UnixMilli())
}

//Time converts to time.Time at given location
func (p EpochMs) Time(loc *time.Location) time.Time {
	return time.UnixMilli(int64(p)).In(loc)
}

//Diff compares EpochMs, returns always positive
func (p EpochMs) Diff(ref EpochMs) int64 {
	if p < ref {
		return int64(ref - p)
	}
	return int64(p - ref)
}

//Minutes for debug prints
func (p EpochMs) Minutes() float64 {
	return float64(p) / float64(TimeLapse(1, Min))
}

func absMs(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}
