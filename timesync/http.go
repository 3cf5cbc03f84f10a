package timesync

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

//HttpDateSync takes server time from Date header of HTTP response. Resolution is one second
type HttpDateSync struct {
	URL    string
	Client *http.Client
}

func (p *HttpDateSync) GetServerTime(ctx context.Context) (time.Time, error) {
	client := p.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, errReq := http.NewRequestWithContext(ctx, http.MethodHead, p.URL, nil)
	if errReq != nil {
		return time.Time{}, fmt.Errorf("creating request to %s failed: %w", p.URL, errReq)
	}
	resp, errDo := client.Do(req)
	if errDo != nil {
		return time.Time{}, fmt.Errorf("requesting %s failed: %w", p.URL, errDo)
	}
	resp.Body.Close()

	date := resp.Header.Get("Date")
	if date == "" {
		return time.Time{}, fmt.Errorf("no Date header from %s (status %v)", p.URL, resp.StatusCode)
	}
	t, errParse := http.ParseTime(date)
	if errParse != nil {
		return time.Time{}, fmt.Errorf("invalid Date header %q from %s: %w", date, p.URL, errParse)
	}
	return t, nil
}
