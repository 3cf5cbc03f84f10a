/*
Example use of timeadjuster

Calibrates against NTP or HTTP Date header and prints local, server and region time
*/

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/hjkoskel/timeadjuster"
	"github.com/hjkoskel/timeadjuster/config"
	"github.com/hjkoskel/timeadjuster/timesync"
)

var _ timesync.Calibrator = (*timeadjuster.TimeAdjuster)(nil)

func pickSource(conf *config.Config) (timesync.TimeSync, error) {
	if 0 < len(conf.NTPServers) {
		timeout, errTimeout := conf.NTPTimeoutDuration()
		if errTimeout != nil {
			return nil, errTimeout
		}
		return &timesync.NtpSync{Servers: conf.NTPServers, QueryTimeout: timeout}, nil
	}
	if conf.HTTPURL != "" {
		return &timesync.HttpDateSync{URL: conf.HTTPURL, Client: &http.Client{Timeout: 30 * time.Second}}, nil
	}
	ntpSync := timesync.GetDefaultFinnishNTP()
	return &ntpSync, nil
}

func createAdjuster(conf *config.Config, log *zap.Logger, metrics *timeadjuster.Metrics) (*timeadjuster.TimeAdjuster, error) {
	if conf.HistoryDir == "" {
		return timeadjuster.NewTimeAdjuster(conf.Settings(), timeadjuster.WithLogger(log), timeadjuster.WithMetrics(metrics)), nil
	}
	errDir := os.MkdirAll(conf.HistoryDir, 0755)
	if errDir != nil {
		return nil, errDir
	}
	return timeadjuster.CreateDefaultTimeAdjuster(conf.HistoryDir, conf.Settings(), log, timeadjuster.WithMetrics(metrics))
}

func printTimes(adj *timeadjuster.TimeAdjuster) {
	fmt.Printf("local  %v (tz %v)\n", adj.LocalDate().Format(time.RFC3339Nano), adj.LocalTZ())
	fmt.Printf("server %v (adjustment %vms)\n", adj.ServerDate().Format(time.RFC3339Nano), adj.Adjustment())
	fmt.Printf("region %v (tz %v)\n", adj.RegionDate().Format(time.RFC3339Nano), adj.RegionTZ())
}

func run(log *zap.Logger, conf *config.Config, once bool) error {
	var metrics *timeadjuster.Metrics
	if conf.MetricsAddress != "" {
		metrics = timeadjuster.NewMetrics(prometheus.DefaultRegisterer)
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.Handler())
		go func() {
			errServe := http.ListenAndServe(conf.MetricsAddress, mux)
			log.Error("metrics server stopped", zap.Error(errServe))
		}()
	}

	adj, errAdj := createAdjuster(conf, log, metrics)
	if errAdj != nil {
		return fmt.Errorf("creating adjuster: %w", errAdj)
	}
	src, errSrc := pickSource(conf)
	if errSrc != nil {
		return errSrc
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if once {
		_, errCal := timesync.CalibrateOnce(ctx, src, adj)
		if errCal != nil {
			return errCal
		}
		printTimes(adj)
		return nil
	}

	interval, _ := conf.RefreshIntervalDuration()
	refresher := timesync.Refresher{Source: src, Target: adj, Interval: interval, Log: log}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-time.After(10 * time.Second):
				printTimes(adj)
			}
		}
	}()
	errRun := refresher.Run(ctx)
	if errors.Is(errRun, context.Canceled) {
		return nil
	}
	return errRun
}

func main() {
	configFile := flag.String("config", "", "TOML or YAML configuration file")
	region := flag.Int("region", 0, "region timezone in minutes, positive west of UTC. Overrides config")
	once := flag.Bool("once", false, "calibrate once, print times and exit")
	verbose := flag.Bool("verbose", false, "debug logging")
	flag.Parse()

	var log *zap.Logger
	var errLog error
	if *verbose {
		log, errLog = zap.NewDevelopment()
	} else {
		log, errLog = zap.NewProduction()
	}
	if errLog != nil {
		fmt.Fprintf(os.Stderr, "creating logger failed %v\n", errLog)
		os.Exit(1)
	}
	defer log.Sync()

	conf := config.Default()
	if *configFile != "" {
		var errConf error
		conf, errConf = config.Load(*configFile)
		if errConf != nil {
			log.Fatal("loading config failed", zap.Error(errConf))
		}
	}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "region" {
			conf.RegionTZ = *region
		}
	})

	errRun := run(log, conf, *once)
	if errRun != nil {
		log.Fatal("failed", zap.Error(errRun))
	}
}
