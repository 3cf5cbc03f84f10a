package timeadjuster

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestCreateDefaultTimeAdjuster(t *testing.T) {
	dir := t.TempDir()
	clock := clockwork.NewFakeClockAt(time.UnixMilli(int64(TESTEPOCH0)))

	dut, errCreate := CreateDefaultTimeAdjuster(dir, DefaultSettings(), zaptest.NewLogger(t), WithClock(clock), WithLocation(time.UTC))
	require.Nil(t, errCreate)
	dut.Calibrate(TESTEPOCH0 - 120000)
	assert.Equal(t, int64(120000), dut.Adjustment())

	//Next run sees history but starts from zero adjustment
	again, errAgain := CreateDefaultTimeAdjuster(dir, DefaultSettings(), nil, WithClock(clock), WithLocation(time.UTC))
	require.Nil(t, errAgain)
	assert.Equal(t, int64(0), again.Adjustment())
	require.NotNil(t, again.history)
	assert.Equal(t, 1, again.history.Len())
	latest, _ := again.history.All().Latest()
	assert.Equal(t, int64(120000), latest.Adjustment)
}
