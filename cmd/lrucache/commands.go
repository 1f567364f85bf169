package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/urfave/cli/v2"

	"lrucache/internal/cache"
	"lrucache/internal/replay"
)

const metricsNamespace = "lrucache"

var replayCommand = &cli.Command{
	Name:      "replay",
	Usage:     "run a put/get script against a fresh cache",
	ArgsUsage: "[file|-]",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "metrics",
			Usage: "print Prometheus metrics after the run",
		},
	},
	Action: runReplay,
}

var demoCommand = &cli.Command{
	Name:   "demo",
	Usage:  "walk through LRU eviction on a small cache",
	Action: runDemo,
}

func runReplay(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}

	in := c.App.Reader
	if name := c.Args().First(); name != "" && name != "-" {
		f, err := os.Open(name)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	}

	ops, err := replay.Parse(in)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	store, err := cache.NewSynced[string, string](cache.Config{
		Capacity:       s.Capacity,
		ReportInterval: s.ReportInterval,
		Metrics:        cache.NewMetrics(reg, metricsNamespace),
		Logger:         s.logger(c),
	})
	if err != nil {
		return err
	}
	defer store.Close()

	res, err := replay.Run(store, ops, c.App.Writer)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(c.App.Writer, "ok: puts=%d gets=%d hits=%d misses=%d asserts=%d\n",
		res.Puts, res.Gets, res.Hits, res.Misses, res.Asserts); err != nil {
		return err
	}

	if c.Bool("metrics") {
		return writeMetrics(c.App.Writer, reg)
	}
	return nil
}

func writeMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}

	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return fmt.Errorf("encode %s: %w", mf.GetName(), err)
		}
	}
	return nil
}

func runDemo(c *cli.Context) error {
	s, err := loadSettings(c)
	if err != nil {
		return err
	}
	logger := s.logger(c)
	say := func(format string, v ...any) {
		fmt.Fprintf(c.App.Writer, format+"\n", v...)
	}

	cc, err := cache.NewSynced[int, int](cache.Config{
		Capacity:       s.Capacity,
		ReportInterval: s.ReportInterval,
		Logger:         logger,
	})
	if err != nil {
		return err
	}
	defer func() {
		// Close is idempotent; safe to call in defer.
		_ = cc.Close()
	}()

	say("config: capacity=%d reportEvery=%s", s.Capacity, s.ReportInterval)

	_ = cc.Put(1, 1)
	_ = cc.Put(2, 2)

	// Touch 1 so 2 becomes least-recently-used.
	if v, ok := cc.Get(1); ok {
		say("GET 1 = %d (touches 1 -> MRU)", v)
	}

	// Insert 3 => cache overflows and evicts LRU (expected: 2).
	_ = cc.Put(3, 3)
	if _, ok := cc.Get(2); !ok {
		say("GET 2: missing (evicted as LRU)")
	}

	// 1 is LRU again; inserting 4 evicts it.
	_ = cc.Put(4, 4)
	if _, ok := cc.Get(1); !ok {
		say("GET 1: missing (evicted as LRU)")
	}
	say("keys (MRU->LRU): %v", cc.Keys())
	if k, _, ok := cc.Oldest(); ok {
		say("next eviction: %d", k)
	}

	if s.ReportInterval > 0 {
		// Give the reporter one tick, unless we are interrupted first.
		wait := time.NewTimer(s.ReportInterval + s.ReportInterval/2)
		defer wait.Stop()

		select {
		case <-c.Context.Done():
			say("received shutdown signal")
			return nil
		case <-wait.C:
		}
	}

	st := cc.Stats()
	say("stats: hits=%d misses=%d puts=%d evictions=%d", st.Hits, st.Misses, st.Puts, st.Evictions)
	return nil
}
