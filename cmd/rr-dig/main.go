// rr-dig is a dig-like DNS lookup tool: it sends one query to a recursive
// nameserver and prints the decoded answer, caching results in memory and
// optionally on disk between lookups.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/haukened/rr-dig/internal/dns/common/clock"
	"github.com/haukened/rr-dig/internal/dns/common/log"
	"github.com/haukened/rr-dig/internal/dns/config"
	"github.com/haukened/rr-dig/internal/dns/domain"
	"github.com/haukened/rr-dig/internal/dns/gateways/upstream"
	"github.com/haukened/rr-dig/internal/dns/gateways/wire"
	"github.com/haukened/rr-dig/internal/dns/repos/boltcache"
	"github.com/haukened/rr-dig/internal/dns/repos/dnscache"
	"github.com/haukened/rr-dig/internal/dns/services/lookup"
)

const (
	version = "0.1.0-dev"
	appName = "rr-dig"
)

// Exit codes: 0 success (including NODATA), 1 resolution failure, 2 usage.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

// cliOptions holds the parsed command line.
type cliOptions struct {
	name     string
	qtype    string
	servers  []string
	timeout  time.Duration
	parallel bool
	short    bool
	noColor  bool
	jsonOut  bool
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	opts, err := parseArgs(args, stderr)
	if err != nil {
		if err == flag.ErrHelp {
			return exitOK
		}
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "%s: configuration error: %v\n", appName, err)
		return exitUsage
	}
	applyOverrides(cfg, opts)

	if err := log.Configure(cfg.Env, cfg.LogLevel); err != nil {
		fmt.Fprintf(stderr, "%s: logging configuration error: %v\n", appName, err)
		return exitUsage
	}

	app, err := buildApplication(cfg)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitError
	}
	defer app.Close()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	qtype := domain.RRTypeFromString(opts.qtype)
	if !qtype.IsValid() {
		fmt.Fprintf(stderr, "%s: unknown record type %q\n", appName, opts.qtype)
		return exitUsage
	}

	started := time.Now()
	result, err := app.service.Resolve(ctx, opts.name, qtype)
	if err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitError
	}

	p := printer{
		out:     stdout,
		short:   opts.short,
		jsonOut: opts.jsonOut,
		noColor: opts.noColor || cfg.NoColor,
		elapsed: time.Since(started),
	}
	if err := p.print(result); err != nil {
		fmt.Fprintf(stderr, "%s: %v\n", appName, err)
		return exitError
	}
	return exitOK
}

// parseArgs reads flags and the name/type positionals.
func parseArgs(args []string, stderr io.Writer) (cliOptions, error) {
	var opts cliOptions
	var servers string

	fs := flag.NewFlagSet(appName, flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: %s [flags] <name> [type]\n\n", appName)
		fmt.Fprintf(stderr, "%s %s - look up DNS records\n\nflags:\n", appName, version)
		fs.PrintDefaults()
	}

	fs.StringVar(&servers, "s", "", "comma separated nameservers (ip:port), overriding config")
	fs.StringVar(&opts.qtype, "t", "", "record type to query (default A)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "upstream exchange timeout, overriding config")
	fs.BoolVar(&opts.parallel, "parallel", false, "race all nameservers instead of trying them in order")
	fs.BoolVar(&opts.short, "short", false, "print answer values only, one per line")
	fs.BoolVar(&opts.noColor, "no-color", false, "disable colored output")
	fs.BoolVar(&opts.jsonOut, "json", false, "print answers as JSON")

	if err := fs.Parse(args); err != nil {
		return cliOptions{}, err
	}

	rest := fs.Args()
	if len(rest) < 1 || len(rest) > 2 {
		fs.Usage()
		return cliOptions{}, fmt.Errorf("expected <name> [type], got %d arguments", len(rest))
	}
	opts.name = rest[0]
	if len(rest) == 2 {
		if opts.qtype != "" {
			return cliOptions{}, fmt.Errorf("record type given twice (-t and positional)")
		}
		opts.qtype = rest[1]
	}
	if opts.qtype == "" {
		opts.qtype = "A"
	}

	if servers != "" {
		for _, s := range strings.Split(servers, ",") {
			if s = strings.TrimSpace(s); s != "" {
				opts.servers = append(opts.servers, s)
			}
		}
	}
	return opts, nil
}

// applyOverrides layers command line flags on top of the loaded config.
func applyOverrides(cfg *config.AppConfig, opts cliOptions) {
	if len(opts.servers) > 0 {
		cfg.Servers = opts.servers
	}
	if opts.timeout > 0 {
		cfg.Timeout = opts.timeout
	}
	if opts.parallel {
		cfg.Parallel = true
	}
	if opts.noColor {
		cfg.NoColor = true
	}
}

// application is the composition root: the lookup service plus whatever
// needs closing on the way out.
type application struct {
	service *lookup.Service
	store   *boltcache.Store
}

// buildApplication wires codec, upstream client, caches, and the lookup
// service from the effective configuration.
func buildApplication(cfg *config.AppConfig) (*application, error) {
	clk := clock.RealClock{}
	logger := log.GetLogger()

	codec := wire.New(wire.Options{Logger: logger})

	client, err := upstream.New(upstream.Options{
		Servers:  cfg.Servers,
		Timeout:  cfg.Timeout,
		Parallel: cfg.Parallel,
		Codec:    codec,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build upstream client: %w", err)
	}

	cache, err := dnscache.New(cfg.CacheSize, clk)
	if err != nil {
		return nil, fmt.Errorf("build answer cache: %w", err)
	}

	app := &application{}
	var store lookup.Store
	if cfg.CachePath != "" {
		boltStore, err := boltcache.Open(boltcache.Options{
			Path:              cfg.CachePath,
			FalsePositiveRate: cfg.BloomFPRate,
			Logger:            logger,
		})
		if err != nil {
			return nil, fmt.Errorf("open persistent cache: %w", err)
		}
		app.store = boltStore
		store = boltStore
	}

	service, err := lookup.New(lookup.Options{
		Cache:    cache,
		Store:    store,
		Upstream: client,
		Clock:    clk,
		Logger:   logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build lookup service: %w", err)
	}
	app.service = service
	return app, nil
}

// Close releases resources held by the application.
func (app *application) Close() {
	if app.store != nil {
		_ = app.store.Close()
	}
}
