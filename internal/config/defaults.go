package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultInputPath    = "LoC14.csv"
	DefaultOutputDir    = "exports"
	DefaultCleanedFile  = "Cleaned_Corporate_Data.csv"
	DefaultEnrichedFile = "Clean_Enriched_Project_Data.csv"
	DefaultMarketURL    = "http://localhost:8089/v1"
	DefaultTimeout      = 10 * time.Second
	DefaultStorePath    = "exports/csrmon.db"
	DefaultLogLevel     = "info"
)

func (c *Config) applyDefaults() {
	if c.Input.Path == "" {
		c.Input.Path = DefaultInputPath
	}

	if c.Output.Dir == "" {
		c.Output.Dir = DefaultOutputDir
	}
	if c.Output.Cleaned == "" {
		c.Output.Cleaned = DefaultCleanedFile
	}
	if c.Output.Enriched == "" {
		c.Output.Enriched = DefaultEnrichedFile
	}

	if c.MarketData.BaseURL == "" {
		c.MarketData.BaseURL = DefaultMarketURL
	}
	if c.MarketData.Timeout == 0 {
		c.MarketData.Timeout = DefaultTimeout
	}
	if c.MarketData.MaxRetries < 0 {
		c.MarketData.MaxRetries = 0
	}

	if c.Store.Path == "" {
		c.Store.Path = DefaultStorePath
	}

	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
}
