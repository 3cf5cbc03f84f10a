package timesync

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestHttpDateSync(t *testing.T) {
	serverTime := time.Date(2023, time.November, 14, 22, 13, 20, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Date", serverTime.Format(http.TimeFormat))
	}))
	defer srv.Close()

	dut := HttpDateSync{URL: srv.URL, Client: srv.Client()}
	got, err := dut.GetServerTime(context.Background())
	assert.Nil(t, err)
	assert.True(t, serverTime.Equal(got))
}

func TestHttpDateSyncMissingDate(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Date"] = nil //suppress automatic header
	}))
	defer srv.Close()

	dut := HttpDateSync{URL: srv.URL}
	_, err := dut.GetServerTime(context.Background())
	assert.ErrorContains(t, err, "no Date header")
}

func TestHttpDateSyncBadURL(t *testing.T) {
	dut := HttpDateSync{URL: "://nope"}
	_, err := dut.GetServerTime(context.Background())
	assert.NotNil(t, err)
}
