package timesync

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/beevik/ntp"
)

type NtpSync struct {
	Servers      []string
	QueryTimeout time.Duration

	query func(host string, opt ntp.QueryOptions) (*ntp.Response, error) //replaced at tests
}

func GetDefaultFinnishNTP() NtpSync {
	return NtpSync{
		Servers:      []string{"0.fi.pool.ntp.org", "1.fi.pool.ntp.org", "2.fi.pool.ntp.org", "3.fi.pool.ntp.org"},
		QueryTimeout: time.Second * 30,
	}
}

func (p *NtpSync) pickServerList() []string {
	shuffled := make([]string, len(p.Servers))
	copy(shuffled, p.Servers)
	for i := len(shuffled) - 1; i > 0; i-- {
		j := rand.Intn(i + 1)
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	}
	return shuffled
}

//GetServerTime returns transmit time of first valid NTP response. Round trip is not compensated
func (p *NtpSync) GetServerTime(ctx context.Context) (time.Time, error) {
	queryTimeout := p.QueryTimeout
	if queryTimeout < time.Millisecond*100 {
		queryTimeout = time.Second * 30
	}
	query := p.query
	if query == nil {
		query = ntp.QueryWithOptions
	}
	if len(p.Servers) == 0 {
		return time.Time{}, fmt.Errorf("no NTP servers configured")
	}

	errList := []string{}
	lst := p.pickServerList()
	for i, name := range lst {
		if ctx.Err() != nil {
			return time.Time{}, ctx.Err()
		}
		timeout := queryTimeout
		if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < timeout {
			timeout = time.Until(deadline)
		}
		resp, err := query(name, ntp.QueryOptions{Timeout: timeout})
		if err != nil {
			errList = append(errList, fmt.Sprintf("server:%v name:%s error: %s", i, name, err))
			continue
		}
		errvalid := resp.Validate()
		if errvalid == nil {
			return resp.Time, nil
		}
		errList = append(errList, fmt.Sprintf("server:%v name:%s invalid: %s", i, name, errvalid))
	}

	return time.Time{}, fmt.Errorf("failed NTP servers [%s]", strings.Join(errList, ","))
}
