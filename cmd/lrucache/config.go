package main

import (
	"fmt"
	"log"
	"time"

	"github.com/spf13/viper"
	"github.com/urfave/cli/v2"
)

const defaultCapacity = 2

// settings are resolved with precedence flag > LRUCACHE_* env > config file > default.
type settings struct {
	Capacity       int
	ReportInterval time.Duration
	Verbose        bool
}

func loadSettings(c *cli.Context) (settings, error) {
	v := viper.New()
	v.SetDefault("capacity", defaultCapacity)
	v.SetDefault("report_interval", time.Duration(0))
	v.SetDefault("verbose", false)
	v.SetEnvPrefix("lrucache")
	v.AutomaticEnv()

	if path := c.String("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return settings{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	if c.IsSet("capacity") {
		v.Set("capacity", c.Int("capacity"))
	}
	if c.IsSet("report-interval") {
		v.Set("report_interval", c.Duration("report-interval"))
	}
	if c.IsSet("verbose") {
		v.Set("verbose", c.Bool("verbose"))
	}

	return settings{
		Capacity:       v.GetInt("capacity"),
		ReportInterval: v.GetDuration("report_interval"),
		Verbose:        v.GetBool("verbose"),
	}, nil
}

// logger returns a logger on the app's error stream, or nil when not verbose.
func (s settings) logger(c *cli.Context) *log.Logger {
	if !s.Verbose && s.ReportInterval <= 0 {
		return nil
	}
	return log.New(c.App.ErrWriter, "lrucache: ", log.LstdFlags)
}

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "print the effective configuration",
	Action: func(c *cli.Context) error {
		s, err := loadSettings(c)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintf(c.App.Writer, "capacity=%d report_interval=%s verbose=%t\n",
			s.Capacity, s.ReportInterval, s.Verbose)
		return err
	},
}
