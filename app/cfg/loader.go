package cfg

import (
	"cmp"
	"fmt"
	"time"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Storage configuration
	DBPath   string `long:"db-path" env:"DB_PATH" default:"./cartable.db" description:"Path to the sqlite database file"`
	CacheDir string `long:"cache-dir" env:"CACHE_DIR" default:"./cache" description:"Directory for raw calendar feed cache files"`

	// Application configuration
	SourcesFile       string `long:"sources-file" env:"SOURCES_FILE" default:"./sources.yml" description:"YAML file with calendar sources to register at startup"`
	Port              string `long:"port" env:"PORT" default:"8080" description:"HTTP server port"`
	WorkerCount       int    `long:"worker-count" env:"WORKER_COUNT" default:"3" description:"Number of background workers for refresh tasks"`
	SchedulerInterval int    `long:"scheduler-interval" env:"SCHEDULER_INTERVAL" default:"300" description:"Scheduler interval in seconds"`
	FeedTTL           int    `long:"feed-ttl" env:"FEED_TTL" default:"300" description:"Calendar cache freshness window in seconds"`
	FetchTimeout      int    `long:"fetch-timeout" env:"FETCH_TIMEOUT" default:"5" description:"Calendar fetch timeout in seconds"`
	APIAccessKey      string `long:"api-key" env:"API_ACCESS_KEY" description:"API access key for source management endpoints (optional)"`

	// Remote homework source
	RemoteURL   string `long:"remote-url" env:"REMOTE_URL" description:"Base URL of the institutional homework service (optional)"`
	RemoteToken string `long:"remote-token" env:"REMOTE_TOKEN" description:"Bearer token for the homework service"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Cartable/1.0" description:"User agent string for HTTP requests"`
	Timezone  string `long:"timezone" env:"TZ" default:"Europe/Paris" description:"Timezone for timestamps (e.g., UTC, Europe/Paris)"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		DBPath:            raw.DBPath,
		CacheDir:          raw.CacheDir,
		SourcesFile:       raw.SourcesFile,
		Port:              raw.Port,
		WorkerCount:       raw.WorkerCount,
		SchedulerInterval: raw.SchedulerInterval,
		FeedTTL:           raw.FeedTTL,
		FetchTimeout:      raw.FetchTimeout,
		APIAccessKey:      raw.APIAccessKey,
		RemoteURL:         raw.RemoteURL,
		RemoteToken:       raw.RemoteToken,
		UserAgent:         raw.UserAgent,
		Timezone:          raw.Timezone,
		Debug:             raw.Debug,
		Version:           GetVersion(),
	}

	if err := applyTimezone(cfg.Timezone); err != nil {
		fmt.Printf("Warning: Invalid timezone '%s', using system default: %v\n", cfg.Timezone, err)
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}

func applyTimezone(timezone string) error {
	if timezone != "" {
		if loc, err := time.LoadLocation(timezone); err != nil {
			return err
		} else {
			time.Local = loc
		}
	}
	return nil
}
