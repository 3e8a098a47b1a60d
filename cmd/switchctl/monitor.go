// cmd/switchctl/monitor.go
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"

	"github.com/tamzrod/mvswitch/internal/bringup"
	"github.com/tamzrod/mvswitch/internal/config"
	"github.com/tamzrod/mvswitch/internal/metrics"
	"github.com/tamzrod/mvswitch/internal/poller"
	"github.com/tamzrod/mvswitch/internal/switchdev"
	"github.com/tamzrod/mvswitch/internal/writer"
)

// monitor polls link state until ctx ends. After each cycle it publishes the
// result when configured and drains one pending address table violation.
func monitor(ctx context.Context, cfg *config.Config, dev *switchdev.Dev, log logr.Logger, args []string) error {
	fs := flag.NewFlagSet("monitor", flag.ContinueOnError)
	runBringup := fs.Bool("bringup", false, "run the bring-up sequence first")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *runBringup {
		if err := bringup.New(dev, bringup.PlanFrom(cfg.Bringup), log.WithName("bringup")).Run(ctx); err != nil {
			return err
		}
	}

	p, err := poller.Build(cfg.Monitor, dev)
	if err != nil {
		return err
	}
	watcher := poller.NewWatcher(log.WithName("link"))

	var pub writer.Writer
	if cfg.Monitor.Publish != nil {
		w, closePub, err := writer.Build(cfg.Monitor)
		if err != nil {
			return err
		}
		defer func() { _ = closePub() }()
		pub = w
		log.Info("publishing link state", "endpoint", cfg.Monitor.Publish.Endpoint, "unit", cfg.Monitor.Publish.UnitID)
	}

	g, ctx := errgroup.WithContext(ctx)
	results := make(chan poller.PollResult)

	g.Go(func() error {
		p.Run(ctx, results)
		return nil
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case res := <-results:
				watcher.Observe(res)
				if pub != nil {
					if err := pub.Write(res); err != nil {
						log.Error(err, "link state publish failed")
					}
				}
				if _, _, err := dev.ServiceATUViolation(); err != nil {
					log.Error(err, "atu violation service failed")
				}
			}
		}
	})

	if cfg.Monitor.MetricsListen != "" {
		mux := http.NewServeMux()
		mux.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
		srv := &http.Server{
			Addr:              cfg.Monitor.MetricsListen,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		}

		g.Go(func() error {
			log.Info("metrics listening", "addr", srv.Addr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-ctx.Done()
			sctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			return srv.Shutdown(sctx)
		})
	}

	log.Info("monitor started", "interval_ms", cfg.Monitor.IntervalMs, "ports", cfg.Monitor.Ports)
	return g.Wait()
}
