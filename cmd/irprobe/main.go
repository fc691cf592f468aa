// Command irprobe reads IR marker ticks from a sensor source, runs them
// through the pointing engine and optionally records every tick to sqlite.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	"github.com/banshee-data/irpointer/internal/config"
	"github.com/banshee-data/irpointer/internal/pointing"
	"github.com/banshee-data/irpointer/internal/recorder"
	"github.com/banshee-data/irpointer/internal/sampler"
	"github.com/banshee-data/irpointer/internal/sensor"
	"github.com/banshee-data/irpointer/internal/timeutil"
	"github.com/banshee-data/irpointer/internal/version"
)

var (
	configFile  = flag.String("config", "", "Path to a probe JSON config (defaults apply when empty)")
	sourceName  = flag.String("source", "", "Override the tick source: synthetic, bridge or replay")
	serialPort  = flag.String("port", "", "Override the serial bridge device path")
	dbFile      = flag.String("db", "", "Override the SQLite database path")
	record      = flag.Bool("record", false, "Record every tick to the database")
	replay      = flag.String("replay", "", "Replay a recorded session ID (implies -source replay)")
	coverage    = flag.String("coverage", "", "Override the coverage policy: strict or relaxed")
	logMisses   = flag.Bool("log-misses", false, "Log every tick that does not hit")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// Main
func main() {
	flag.Parse()

	if *showVersion {
		fmt.Println(version.String("irprobe"))
		return
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	applyFlagOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats, err := run(ctx, cfg, timeutil.RealClock{})
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Fatalf("irprobe: %v", err)
	}
	log.Printf("irprobe finished: %s", stats)
}

func loadConfig(path string) (*config.ProbeConfig, error) {
	if path == "" {
		return config.EmptyProbeConfig(), nil
	}
	return config.LoadProbeConfig(path)
}

// applyFlagOverrides copies explicitly set flags over the loaded config.
func applyFlagOverrides(cfg *config.ProbeConfig) {
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "source":
			cfg.Source = sourceName
		case "port":
			cfg.SerialPort = serialPort
		case "db":
			cfg.DBPath = dbFile
		case "record":
			cfg.Record = record
		case "replay":
			src := config.SourceReplay
			cfg.Source = &src
			cfg.ReplaySession = replay
		case "coverage":
			cfg.Coverage = coverage
		case "log-misses":
			cfg.LogMisses = logMisses
		}
	})
}

// run wires the configured source, engine and recorder into a sampler and
// blocks until it stops.
func run(ctx context.Context, cfg *config.ProbeConfig, clock timeutil.Clock) (sampler.Stats, error) {
	policy, err := pointing.ParseCoveragePolicy(cfg.GetCoverage())
	if err != nil {
		return sampler.Stats{}, err
	}

	var store *recorder.Store
	if cfg.GetRecord() || cfg.GetSource() == config.SourceReplay {
		store, err = recorder.Open(cfg.GetDBPath())
		if err != nil {
			return sampler.Stats{}, fmt.Errorf("failed to open database: %w", err)
		}
		defer store.Close()
	}

	src, err := openSource(cfg, store)
	if err != nil {
		return sampler.Stats{}, err
	}
	defer src.Close()

	scfg := sampler.Config{
		Source:        src,
		Engine:        pointing.NewEngine(pointing.EngineConfig{Coverage: policy}),
		Clock:         clock,
		PollInterval:  cfg.GetPollInterval(),
		StatsInterval: cfg.GetStatsInterval(),
		LogMisses:     cfg.GetLogMisses(),
	}
	if cfg.GetRecord() {
		sess, err := store.StartSession(cfg.GetSource(), policy.String(), clock.Now())
		if err != nil {
			return sampler.Stats{}, err
		}
		log.Printf("Recording to session %s in %s", sess.ID, cfg.GetDBPath())
		scfg.Recorder = sess
	}

	s := sampler.New(scfg)
	err = s.Run(ctx)
	return s.Stats(), err
}

func openSource(cfg *config.ProbeConfig, store *recorder.Store) (sensor.Source, error) {
	switch cfg.GetSource() {
	case config.SourceSynthetic:
		g := sensor.NewSynthetic(cfg.GetSyntheticSeed())
		g.Dropout = cfg.GetSyntheticDropout()
		return g, nil

	case config.SourceBridge:
		opts := sensor.PortOptions{
			BaudRate: cfg.GetBaudRate(),
			DataBits: cfg.GetDataBits(),
			StopBits: cfg.GetStopBits(),
			Parity:   cfg.GetParity(),
		}
		b, err := sensor.OpenBridge(cfg.GetSerialPort(), opts)
		if err != nil {
			return nil, fmt.Errorf("failed to open serial bridge: %w", err)
		}
		return b, nil

	case config.SourceReplay:
		if store == nil {
			return nil, errors.New("replay source requires a database")
		}
		sets, err := store.PointSets(cfg.GetReplaySession())
		if err != nil {
			return nil, fmt.Errorf("failed to load session: %w", err)
		}
		log.Printf("Replaying %d ticks from session %s", len(sets), cfg.GetReplaySession())
		return sensor.NewReplay(sets), nil
	}
	return nil, fmt.Errorf("unknown source %q", cfg.GetSource())
}
