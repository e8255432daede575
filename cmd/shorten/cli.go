package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/relistan/shorten"
	"github.com/relistan/shorten/bloom"
	"github.com/relistan/shorten/sqlite"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx       context.Context
	Stdout    io.Writer
	Stderr    io.Writer
	Logger    *slog.Logger
	DB        *sqlite.DB
	Store     shorten.LinkStore
	Filter    *bloom.Filter
	Shortener shorten.ShortenerService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	BaseURL string      `name:"base-url" env:"BASE_URL" default:"http://localhost:4567/r" help:"Public prefix for shortened URLs, including the redirect path"`
	Debug   bool        `env:"SHORTEN_DEBUG" help:"Enable debug logging"`
	Filter  FilterFlags `embed:"" prefix:"filter-"`

	Serve     ServeCmd     `cmd:"" help:"Run the HTTP shortener service"`
	Shorten   ShortenCmd   `cmd:"" help:"Shorten a URL"`
	Lookup    LookupCmd    `cmd:"" help:"Look up the URL for a short code"`
	FilterSim FilterSimCmd `cmd:"" name:"filter-sim" help:"Simulate expanding filter growth with synthetic keys"`
}

// FilterFlags configures the expanding bloom filter.
type FilterFlags struct {
	BaseSize       uint64        `name:"base-size" env:"BLOOMFILTER_BASE_SIZE" default:"100000" help:"Capacity of the first segment"`
	ResizeInterval time.Duration `name:"resize-interval" env:"BLOOMFILTER_RESIZE_INTERVAL" default:"10s" help:"How often to check whether the filter must grow"`
	MaxLength      int           `name:"max-length" env:"BLOOMFILTER_MAX_LENGTH" default:"5" help:"Maximum number of live segments"`
	TargetFPP      float64       `name:"target-fpp" env:"BLOOMFILTER_TARGET_FPP" default:"0.01" help:"False-positive rate new segments are sized for"`
	TriggerFPP     float64       `name:"trigger-fpp" env:"BLOOMFILTER_TRIGGER_FPP" default:"0.1" help:"Estimated false-positive rate that triggers growth"`
}

// Config returns the bloom filter configuration for the flags.
func (f FilterFlags) Config() bloom.Config {
	return bloom.Config{
		BaseSize:       f.BaseSize,
		ResizeInterval: f.ResizeInterval,
		MaxLength:      f.MaxLength,
		TargetFPP:      f.TargetFPP,
		TriggerFPP:     f.TriggerFPP,
	}
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr      string  `env:"SHORTEN_ADDR" default:":4567" help:"Listen address"`
	RateLimit float64 `name:"rate-limit" env:"SHORTEN_RATE_LIMIT" default:"0" help:"Requests per second allowed per client (0 disables)"`
	Burst     int     `env:"SHORTEN_BURST" default:"20" help:"Request burst allowed per client"`
	Admin     bool    `env:"SHORTEN_ADMIN" help:"Expose the /admin filter routes on the listener"`
}

// ShortenCmd is the "shorten" subcommand.
type ShortenCmd struct {
	URL string `arg:"" help:"URL to shorten"`
}

// LookupCmd is the "lookup" subcommand.
type LookupCmd struct {
	Code string `arg:"" help:"Short code"`
}

// FilterSimCmd is the "filter-sim" subcommand.
type FilterSimCmd struct {
	Keys  int `short:"n" default:"1000000" help:"Number of synthetic keys to insert"`
	Every int `default:"10000" help:"Keys inserted between maintenance checks"`
}
