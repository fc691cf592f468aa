package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultConfigPath is the path to the canonical probe defaults file.
const DefaultConfigPath = "config/probe.defaults.json"

// Source names accepted by the "source" field.
const (
	SourceSynthetic = "synthetic"
	SourceBridge    = "bridge"
	SourceReplay    = "replay"
)

// ProbeConfig is the root configuration of the IR pointer probe. Every
// field is optional; the Get* accessors supply defaults for missing values
// so partial configs are safe.
type ProbeConfig struct {
	// Tick source
	Source        *string `json:"source,omitempty"`         // synthetic, bridge or replay
	PollInterval  *string `json:"poll_interval,omitempty"`  // duration string like "20ms"
	StatsInterval *string `json:"stats_interval,omitempty"` // duration string like "10s"

	// Serial bridge params
	SerialPort *string `json:"serial_port,omitempty"`
	BaudRate   *int    `json:"baud_rate,omitempty"`
	DataBits   *int    `json:"data_bits,omitempty"`
	StopBits   *int    `json:"stop_bits,omitempty"`
	Parity     *string `json:"parity,omitempty"`

	// Synthetic source params
	SyntheticSeed    *int64   `json:"synthetic_seed,omitempty"`
	SyntheticDropout *float64 `json:"synthetic_dropout,omitempty"`

	// Recording and replay
	DBPath        *string `json:"db_path,omitempty"`
	Record        *bool   `json:"record,omitempty"`
	ReplaySession *string `json:"replay_session,omitempty"`

	// Pointing engine
	Coverage  *string `json:"coverage,omitempty"` // strict or relaxed
	LogMisses *bool   `json:"log_misses,omitempty"`
}

func ptrFloat64(v float64) *float64 { return &v }
func ptrBool(v bool) *bool          { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }
func ptrInt64(v int64) *int64       { return &v }

// EmptyProbeConfig returns a ProbeConfig with all fields set to nil.
func EmptyProbeConfig() *ProbeConfig {
	return &ProbeConfig{}
}

// DefaultProbeConfig returns a ProbeConfig with every field populated with
// the value its accessor would fall back to.
func DefaultProbeConfig() *ProbeConfig {
	return &ProbeConfig{
		Source:           ptrString(SourceSynthetic),
		PollInterval:     ptrString("20ms"),
		StatsInterval:    ptrString("10s"),
		SerialPort:       ptrString("/dev/ttyACM0"),
		BaudRate:         ptrInt(115200),
		DataBits:         ptrInt(8),
		StopBits:         ptrInt(1),
		Parity:           ptrString("N"),
		SyntheticSeed:    ptrInt64(1),
		SyntheticDropout: ptrFloat64(0.05),
		DBPath:           ptrString("irprobe.db"),
		Record:           ptrBool(false),
		ReplaySession:    ptrString(""),
		Coverage:         ptrString("strict"),
		LogMisses:        ptrBool(false),
	}
}

// LoadProbeConfig loads a ProbeConfig from a JSON file.
// The file must have a .json extension and be under 1MB.
func LoadProbeConfig(path string) (*ProbeConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := EmptyProbeConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks that the configuration values are valid.
func (c *ProbeConfig) Validate() error {
	if c.Source != nil {
		switch *c.Source {
		case SourceSynthetic, SourceBridge, SourceReplay:
		default:
			return fmt.Errorf("unknown source %q: expected %s, %s or %s",
				*c.Source, SourceSynthetic, SourceBridge, SourceReplay)
		}
	}

	for name, v := range map[string]*string{
		"poll_interval":  c.PollInterval,
		"stats_interval": c.StatsInterval,
	} {
		if v == nil || *v == "" {
			continue
		}
		d, err := time.ParseDuration(*v)
		if err != nil {
			return fmt.Errorf("invalid %s '%s': %w", name, *v, err)
		}
		if d < 0 {
			return fmt.Errorf("%s must be non-negative, got %s", name, d)
		}
	}

	if c.SyntheticDropout != nil {
		if *c.SyntheticDropout < 0 || *c.SyntheticDropout > 1 {
			return fmt.Errorf("synthetic_dropout must be between 0 and 1, got %f", *c.SyntheticDropout)
		}
	}

	if c.Coverage != nil {
		switch strings.ToLower(*c.Coverage) {
		case "", "strict", "relaxed":
		default:
			return fmt.Errorf("coverage must be strict or relaxed, got %q", *c.Coverage)
		}
	}

	if c.GetSource() == SourceReplay && c.GetReplaySession() == "" {
		return fmt.Errorf("replay source requires replay_session")
	}

	return nil
}

// GetSource returns the tick source name or the default.
func (c *ProbeConfig) GetSource() string {
	if c.Source == nil || *c.Source == "" {
		return SourceSynthetic
	}
	return *c.Source
}

// GetPollInterval parses and returns the PollInterval as a time.Duration.
func (c *ProbeConfig) GetPollInterval() time.Duration {
	return parseDurationOr(c.PollInterval, 20*time.Millisecond)
}

// GetStatsInterval parses and returns the StatsInterval as a time.Duration.
// Zero disables periodic summaries.
func (c *ProbeConfig) GetStatsInterval() time.Duration {
	return parseDurationOr(c.StatsInterval, 10*time.Second)
}

func parseDurationOr(v *string, def time.Duration) time.Duration {
	if v == nil || *v == "" {
		return def
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return def // default on parse error
	}
	return d
}

// GetSerialPort returns the serial device path or the default.
func (c *ProbeConfig) GetSerialPort() string {
	if c.SerialPort == nil || *c.SerialPort == "" {
		return "/dev/ttyACM0"
	}
	return *c.SerialPort
}

// GetBaudRate returns the baud rate or the default.
func (c *ProbeConfig) GetBaudRate() int {
	if c.BaudRate == nil {
		return 115200
	}
	return *c.BaudRate
}

// GetDataBits returns the data bits, or 0 to let the port options default it.
func (c *ProbeConfig) GetDataBits() int {
	if c.DataBits == nil {
		return 0
	}
	return *c.DataBits
}

// GetStopBits returns the stop bits, or 0 to let the port options default it.
func (c *ProbeConfig) GetStopBits() int {
	if c.StopBits == nil {
		return 0
	}
	return *c.StopBits
}

// GetParity returns the parity string, or "" to let the port options default it.
func (c *ProbeConfig) GetParity() string {
	if c.Parity == nil {
		return ""
	}
	return *c.Parity
}

// GetSyntheticSeed returns the synthetic generator seed or the default.
func (c *ProbeConfig) GetSyntheticSeed() int64 {
	if c.SyntheticSeed == nil {
		return 1
	}
	return *c.SyntheticSeed
}

// GetSyntheticDropout returns the per-marker dropout probability or the default.
func (c *ProbeConfig) GetSyntheticDropout() float64 {
	if c.SyntheticDropout == nil {
		return 0.05
	}
	return *c.SyntheticDropout
}

// GetDBPath returns the sqlite database path or the default.
func (c *ProbeConfig) GetDBPath() string {
	if c.DBPath == nil || *c.DBPath == "" {
		return "irprobe.db"
	}
	return *c.DBPath
}

// GetRecord reports whether ticks should be recorded.
func (c *ProbeConfig) GetRecord() bool {
	if c.Record == nil {
		return false
	}
	return *c.Record
}

// GetReplaySession returns the session ID to replay, if any.
func (c *ProbeConfig) GetReplaySession() string {
	if c.ReplaySession == nil {
		return ""
	}
	return *c.ReplaySession
}

// GetCoverage returns the coverage policy name or the default.
func (c *ProbeConfig) GetCoverage() string {
	if c.Coverage == nil || *c.Coverage == "" {
		return "strict"
	}
	return strings.ToLower(*c.Coverage)
}

// GetLogMisses reports whether every non-hit tick should be logged.
func (c *ProbeConfig) GetLogMisses() bool {
	if c.LogMisses == nil {
		return false
	}
	return *c.LogMisses
}
