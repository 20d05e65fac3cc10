package config

import (
	"fmt"
	"os"
	"strconv"

	"TradeSentinel/internal/risk"
	"TradeSentinel/internal/strategy"
	"TradeSentinel/internal/structure"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Telegram struct {
		BotToken string `yaml:"bot_token"`
		ChatID   string `yaml:"chat_id"`
	} `yaml:"telegram"`
	DataSource struct {
		APIKey  string `yaml:"api_key"` // Twelve Data key; empty falls back to Yahoo
		Symbol  string `yaml:"symbol"`
		HTF     string `yaml:"htf"` // higher timeframe for bias/structure
		LTF     string `yaml:"ltf"` // lower timeframe for entry confirmation
		HTFBars int    `yaml:"htf_bars"`
		LTFBars int    `yaml:"ltf_bars"`
	} `yaml:"data_source"`
	Schedule struct {
		EvaluateCron string `yaml:"evaluate_cron"`
		PollCron     string `yaml:"poll_cron"`
	} `yaml:"schedule"`
	Account struct {
		Balance float64 `yaml:"balance"`
		Tier    string  `yaml:"tier"`
	} `yaml:"account"`
	Strategy struct {
		Weights struct {
			Bias         int `yaml:"bias"`
			Shift        int `yaml:"shift"`
			Liquidity    int `yaml:"liquidity"`
			POI          int `yaml:"poi"`
			Confirmation int `yaml:"confirmation"`
		} `yaml:"weights"`
		Ladder     []float64 `yaml:"ladder"`
		StopBuffer float64   `yaml:"stop_buffer"`
	} `yaml:"strategy"`
	Instrument struct {
		UnitValue    float64 `yaml:"unit_value"`
		LotStep      float64 `yaml:"lot_step"`
		LotPrecision int     `yaml:"lot_precision"`
	} `yaml:"instrument"`
	Positions struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"positions"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"`
	} `yaml:"database"`
	Proxy         string `yaml:"proxy"`
	NotifyNoSetup bool   `yaml:"notify_no_setup"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("TELEGRAM_BOT_TOKEN"); v != "" {
		cfg.Telegram.BotToken = v
	}
	if v := os.Getenv("TELEGRAM_CHAT_ID"); v != "" {
		cfg.Telegram.ChatID = v
	}
	if v := os.Getenv("TWELVEDATA_API_KEY"); v != "" {
		cfg.DataSource.APIKey = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("ACCOUNT_BALANCE"); v != "" {
		if balance, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Account.Balance = balance
		}
	}
	if v := os.Getenv("ACCOUNT_TIER"); v != "" {
		cfg.Account.Tier = v
	}
	if v := os.Getenv("CRON_EVALUATE"); v != "" {
		cfg.Schedule.EvaluateCron = v
	}
	if v := os.Getenv("CRON_POLL"); v != "" {
		cfg.Schedule.PollCron = v
	}
	if v := os.Getenv("SQLITE_PATH"); v != "" {
		cfg.Database.SQLitePath = v
	}

	// Defaults
	if cfg.DataSource.Symbol == "" {
		cfg.DataSource.Symbol = "XAU/USD"
	}
	if cfg.DataSource.HTF == "" {
		cfg.DataSource.HTF = "4h"
	}
	if cfg.DataSource.LTF == "" {
		cfg.DataSource.LTF = "15min"
	}
	if cfg.DataSource.HTFBars == 0 {
		cfg.DataSource.HTFBars = 50
	}
	if cfg.DataSource.LTFBars == 0 {
		cfg.DataSource.LTFBars = 50
	}
	if cfg.Schedule.EvaluateCron == "" {
		// every 15 minutes, aligned to candle close
		cfg.Schedule.EvaluateCron = "0 */15 * * * *"
	}
	if cfg.Schedule.PollCron == "" {
		cfg.Schedule.PollCron = "0 * * * * *"
	}
	if cfg.Account.Balance == 0 {
		cfg.Account.Balance = 10000
	}
	if cfg.Account.Tier == "" {
		cfg.Account.Tier = "phase1"
	}
	if cfg.Strategy.Weights.Bias == 0 && cfg.Strategy.Weights.Shift == 0 &&
		cfg.Strategy.Weights.Liquidity == 0 && cfg.Strategy.Weights.POI == 0 &&
		cfg.Strategy.Weights.Confirmation == 0 {
		w := strategy.DefaultWeights()
		cfg.Strategy.Weights.Bias = w.Bias
		cfg.Strategy.Weights.Shift = w.Shift
		cfg.Strategy.Weights.Liquidity = w.Liquidity
		cfg.Strategy.Weights.POI = w.POI
		cfg.Strategy.Weights.Confirmation = w.Confirmation
	}
	if len(cfg.Strategy.Ladder) == 0 {
		cfg.Strategy.Ladder = []float64{3, 6, 10}
	}
	if cfg.Strategy.StopBuffer == 0 {
		cfg.Strategy.StopBuffer = 0.05
	}
	if cfg.Instrument.UnitValue == 0 {
		inst := risk.DefaultInstrument()
		cfg.Instrument.UnitValue = inst.UnitValue
		cfg.Instrument.LotStep = inst.LotStep
		cfg.Instrument.LotPrecision = inst.LotPrecision
	}
	if cfg.Positions.StateFile == "" {
		cfg.Positions.StateFile = "data/positions.json"
	}
	if cfg.Database.SQLitePath == "" {
		cfg.Database.SQLitePath = "data/trade_sentinel.db"
	}

	return cfg, nil
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return fmt.Errorf("telegram.bot_token is required")
	}
	if c.Telegram.ChatID == "" {
		return fmt.Errorf("telegram.chat_id is required")
	}
	if c.Account.Balance <= 0 {
		return fmt.Errorf("account.balance must be positive")
	}
	if c.Account.Tier == "" {
		return fmt.Errorf("account.tier is required")
	}
	return c.StrategyConfig().Validate()
}

// StrategyConfig maps the YAML strategy section onto the engine policy.
func (c *Config) StrategyConfig() strategy.Config {
	sc := strategy.DefaultConfig()
	sc.Weights = strategy.Weights{
		Bias:         c.Strategy.Weights.Bias,
		Shift:        c.Strategy.Weights.Shift,
		Liquidity:    c.Strategy.Weights.Liquidity,
		POI:          c.Strategy.Weights.POI,
		Confirmation: c.Strategy.Weights.Confirmation,
	}
	sc.Ladder = c.Strategy.Ladder
	sc.StopBuffer = c.Strategy.StopBuffer
	return sc
}

// StructureConfig returns the structure detector tuning. Kept at defaults
// for now; exists so main wires one place, not scattered literals.
func (c *Config) StructureConfig() structure.Config {
	return structure.DefaultConfig()
}

// InstrumentConfig maps the YAML instrument section onto the sizer.
func (c *Config) InstrumentConfig() risk.Instrument {
	return risk.Instrument{
		UnitValue:    c.Instrument.UnitValue,
		LotStep:      c.Instrument.LotStep,
		LotPrecision: c.Instrument.LotPrecision,
	}
}
