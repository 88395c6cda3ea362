package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/gyeh/claimstats/internal/aggregate"
	"github.com/gyeh/claimstats/internal/model"
	"github.com/gyeh/claimstats/internal/normalize"
	"github.com/gyeh/claimstats/internal/risk"
	"github.com/gyeh/claimstats/internal/snapshot"
)

// Config holds all runtime configuration for a claimstats run.
type Config struct {
	DSN          string
	SQLitePath   string
	FilePath     string
	PolicyFile   string
	LogFormat    string // "text" or "json"
	LogLevel     string
	ReportDate   string // YYYY-MM-DD
	SampleLimit  int
	SkipSnapshot bool

	Policy   risk.Policy
	Baseline snapshot.Baseline
}

// Default returns a Config carrying the built-in policy tables.
func Default() Config {
	return Config{
		LogFormat:   "text",
		LogLevel:    "info",
		SampleLimit: aggregate.DefaultSampleLimit,
		Policy:      risk.DefaultPolicy(),
		Baseline:    DefaultBaseline(),
	}
}

// DefaultBaseline is the comparison point used before any snapshot exists.
// Zero totals yield a 0% change on the first run.
func DefaultBaseline() snapshot.Baseline {
	return snapshot.Baseline{
		Date:     time.Date(2025, time.December, 31, 0, 0, 0, 0, time.UTC),
		Reserves: decimal.Zero,
	}
}

// yamlConfig is the on-disk policy file.
type yamlConfig struct {
	StateLimits        map[string]float64 `yaml:"state_limits"`
	DefaultPolicyLimit *float64           `yaml:"default_policy_limit"`
	HighRiskStates     map[string]float64 `yaml:"high_risk_states"`
	PatternWeights     map[string]int     `yaml:"pattern_weights"`
	Thresholds         *yamlThresholds    `yaml:"thresholds"`
	Baseline           *yamlBaseline      `yaml:"baseline"`
	SampleLimit        *int               `yaml:"sample_limit"`
}

type yamlThresholds struct {
	NearLimitRatio    *float64 `yaml:"near_limit_ratio"`
	EvalLimitMultiple *float64 `yaml:"eval_limit_multiple"`
	MinAggravating    *int     `yaml:"min_aggravating"`
	GateMinPatterns   *int     `yaml:"gate_min_patterns"`
	GateMinScore      *int     `yaml:"gate_min_score"`
	CriticalScore     *int     `yaml:"critical_score"`
	HighScore         *int     `yaml:"high_score"`
}

type yamlBaseline struct {
	Date     string `yaml:"date"`
	Claims   int    `yaml:"claims"`
	Reserves string `yaml:"reserves"`
}

// LoadFromFile reads a YAML policy file and merges its values into Config.
// Tables in the file are merged over the built-in ones; missing keys keep
// their defaults.
func (c *Config) LoadFromFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	var yc yamlConfig
	if err := yaml.Unmarshal(data, &yc); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	if c.Policy.StateLimits == nil {
		c.Policy = risk.DefaultPolicy()
	}

	for state, limit := range yc.StateLimits {
		c.Policy.StateLimits[normalize.NormalizeCode(state)] = decimal.NewFromFloat(limit)
	}
	if yc.DefaultPolicyLimit != nil {
		c.Policy.DefaultLimit = decimal.NewFromFloat(*yc.DefaultPolicyLimit)
	}
	for state, mult := range yc.HighRiskStates {
		c.Policy.HighRiskStates[normalize.NormalizeCode(state)] = mult
	}
	for name, w := range yc.PatternWeights {
		pattern := model.RiskPattern(name)
		if !risk.KnownPattern(pattern) || pattern == model.PatternHighRiskState {
			return fmt.Errorf("unknown pattern %q in config", name)
		}
		c.Policy.Weights[pattern] = w
	}
	if th := yc.Thresholds; th != nil {
		setFloat(&c.Policy.NearLimitRatio, th.NearLimitRatio)
		setFloat(&c.Policy.EvalLimitMultiple, th.EvalLimitMultiple)
		setInt(&c.Policy.MinAggravating, th.MinAggravating)
		setInt(&c.Policy.GateMinPatterns, th.GateMinPatterns)
		setInt(&c.Policy.GateMinScore, th.GateMinScore)
		setInt(&c.Policy.CriticalScore, th.CriticalScore)
		setInt(&c.Policy.HighScore, th.HighScore)
	}

	if b := yc.Baseline; b != nil {
		baseline := snapshot.Baseline{Claims: b.Claims, Reserves: decimal.Zero}
		if b.Date != "" {
			d, err := normalize.ParseReportDate(b.Date)
			if err != nil {
				return fmt.Errorf("invalid baseline date: %w", err)
			}
			baseline.Date = d
		}
		if b.Reserves != "" {
			r, err := decimal.NewFromString(amountReplacer.Replace(b.Reserves))
			if err != nil {
				return fmt.Errorf("invalid baseline reserves %q: %w", b.Reserves, err)
			}
			baseline.Reserves = r
		}
		c.Baseline = baseline
	}

	if yc.SampleLimit != nil {
		if *yc.SampleLimit < 0 {
			return fmt.Errorf("sample_limit must not be negative, got %d", *yc.SampleLimit)
		}
		c.SampleLimit = *yc.SampleLimit
	}

	return c.Policy.Validate()
}

var amountReplacer = strings.NewReplacer("$", "", ",", "", " ", "")

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}

func setInt(dst *int, v *int) {
	if v != nil {
		*dst = *v
	}
}

// Validate checks required fields and returns an error if the config is invalid.
func (c *Config) Validate() error {
	if c.FilePath == "" {
		return fmt.Errorf("--file is required")
	}
	if _, err := os.Stat(c.FilePath); err != nil {
		return fmt.Errorf("file not accessible: %w", err)
	}
	if c.ReportDate != "" {
		if _, err := c.Date(); err != nil {
			return err
		}
	}
	if c.SampleLimit < 0 {
		return fmt.Errorf("--sample-limit must not be negative")
	}
	if c.DSN != "" && c.SQLitePath != "" {
		return fmt.Errorf("--dsn and --sqlite are mutually exclusive")
	}
	return nil
}

// ValidateWithStore checks the config and requires a snapshot store.
func (c *Config) ValidateWithStore() error {
	if c.DSN == "" && c.SQLitePath == "" {
		return fmt.Errorf("--dsn, CLAIMSTATS_DB_URL or --sqlite is required")
	}
	if c.DSN != "" && c.SQLitePath != "" {
		return fmt.Errorf("--dsn and --sqlite are mutually exclusive")
	}
	return nil
}

// Date parses ReportDate. An empty ReportDate is an error; the CLI fills in
// today's date before the engine runs.
func (c *Config) Date() (time.Time, error) {
	if c.ReportDate == "" {
		return time.Time{}, fmt.Errorf("report date is required")
	}
	d, err := time.Parse(time.DateOnly, c.ReportDate)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (want YYYY-MM-DD): %w", c.ReportDate, err)
	}
	return d, nil
}
