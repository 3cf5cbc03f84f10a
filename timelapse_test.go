package timeadjuster

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeLapse(t *testing.T) {
	assert.Equal(t, int64(7), TimeLapse(7, Ms))
	assert.Equal(t, int64(7000), TimeLapse(7, Sec))
	assert.Equal(t, int64(420000), TimeLapse(7, Min))
	assert.Equal(t, int64(25200000), TimeLapse(7, Hour))

	assert.Equal(t, int64(-180*60000), TimeLapse(-180, Min))
	assert.Equal(t, int64(0), TimeLapse(0, Hour))

	for _, amount := range []int64{-1000, -1, 0, 1, 59, 1700000000} {
		assert.Equal(t, amount*1000, TimeLapse(amount, Sec))
		assert.Equal(t, TimeLapse(amount*60, Min), TimeLapse(amount, Hour))
	}
}

func TestTimeLapseUnknownUnit(t *testing.T) {
	assert.Panics(t, func() { TimeLapse(1, Unit(42)) })
	assert.Equal(t, "Unit(42)", Unit(42).String())
	assert.Equal(t, "hour", Hour.String())
}

func TestEpochMs(t *testing.T) {
	dut := EpochMs(1700000060000)
	assert.Equal(t, int64(60000), dut.Diff(1700000000000))
	assert.Equal(t, int64(60000), EpochMs(1700000000000).Diff(dut))

	tm := dut.Time(time.UTC)
	assert.Equal(t, dut, EpochOf(tm))
	assert.Equal(t, 2023, tm.Year())

	assert.Equal(t, float64(1), EpochMs(60000).Minutes())
}
