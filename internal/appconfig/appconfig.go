// Package appconfig manages loading and interpreting application configuration.
package appconfig

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/publish"
	"github.com/Continuous-Collision-Detection/CCD-Wrapper/internal/table"
)

const (
	// DefaultConfigPath is the default path to the application's configuration file.
	DefaultConfigPath = "config/ccdbench.json"
	// TokenEnv names the environment variable that supplies the Sheets token.
	TokenEnv = "CCDBENCH_SHEETS_TOKEN"
	// defaultRequestTimeout is the default timeout for Sheets API requests.
	defaultRequestTimeout = 30 * time.Second
	defaultDataDir        = "data"
	defaultFormat         = "text"
	defaultLogFile        = "ccdbench.log"
)

// Config represents the top-level application configuration.
type Config struct {
	DataDir        string `json:"dataDir,omitempty"`
	Suite          string `json:"suite,omitempty"`
	Threshold      string `json:"threshold,omitempty"`
	Format         string `json:"format,omitempty"`
	OutDir         string `json:"outDir,omitempty"`
	LogFile        string `json:"logFile,omitempty"`
	Debug          bool   `json:"debug"`
	SpreadsheetID  string `json:"spreadsheetId,omitempty"`
	SheetsBaseURL  string `json:"sheetsBaseURL,omitempty"`
	SheetsToken    string `json:"sheetsToken,omitempty"`
	IndexColumn    string `json:"indexColumn,omitempty"`
	TimeoutSeconds int    `json:"timeoutSeconds,omitempty"`
	ConfigPath     string `json:"-"`
}

// DataDirPath returns the benchmark data root.
func (c Config) DataDirPath() string {
	if d := strings.TrimSpace(c.DataDir); d != "" {
		return d
	}
	return defaultDataDir
}

// ThresholdKey returns the separation distance used to resolve keyed results.
func (c Config) ThresholdKey() string {
	if t := strings.TrimSpace(c.Threshold); t != "" {
		return t
	}
	return table.DefaultThreshold
}

// OutputFormat returns the table format, defaulting to text.
func (c Config) OutputFormat() string {
	if f := strings.TrimSpace(c.Format); f != "" {
		return strings.ToLower(f)
	}
	return defaultFormat
}

// PlotDir returns the directory plots are written to.
func (c Config) PlotDir() string {
	if d := strings.TrimSpace(c.OutDir); d != "" {
		return d
	}
	return "."
}

// LogFilePath returns the path to the application log file, applying a default if not set.
func (c Config) LogFilePath() string {
	if path := c.LogFile; strings.TrimSpace(path) != "" {
		return path
	}
	return defaultLogFile
}

// SheetsURL returns the Sheets API base URL.
func (c Config) SheetsURL() string {
	if u := strings.TrimSpace(c.SheetsBaseURL); u != "" {
		return u
	}
	return publish.DefaultBaseURL
}

// Token returns the configured Sheets token, falling back to TokenEnv.
func (c Config) Token() string {
	if tok := strings.TrimSpace(c.SheetsToken); tok != "" {
		return tok
	}
	return strings.TrimSpace(os.Getenv(TokenEnv))
}

// IndexColumnLetter returns the sheet column holding scene names.
func (c Config) IndexColumnLetter() string {
	if col := strings.TrimSpace(c.IndexColumn); col != "" {
		return strings.ToUpper(col)
	}
	return publish.DefaultIndexColumn
}

// RequestTimeout returns the timeout duration for HTTP requests, falling back to the default if not specified.
func (c Config) RequestTimeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return defaultRequestTimeout
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// Validate reports settings that can never work.
func (c Config) Validate() error {
	if _, err := table.NewSelector(c.ThresholdKey()); err != nil {
		return err
	}
	if _, err := publish.ColumnNumber(c.IndexColumnLetter()); err != nil {
		return fmt.Errorf("indexColumn: %w", err)
	}
	if c.TimeoutSeconds < 0 {
		return errors.New("timeoutSeconds must not be negative")
	}
	return nil
}

// Load reads the application configuration from the specified path.
func Load(path string) (Config, error) {
	if path == "" {
		path = DefaultConfigPath
	}

	config, err := loadFromPath(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("no configuration file found at %q: %w", path, err)
	}
	if err != nil {
		return Config{}, fmt.Errorf("could not read config file %q: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config file %q: %w", path, err)
	}
	config.ConfigPath = path
	return config, nil
}

// Settings returns the keys set in c, named as in the config file.
func (c Config) Settings() (map[string]any, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// loadFromPath is a helper function that loads the configuration from a specific file path.
func loadFromPath(path string) (Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer file.Close()

	var config Config
	if err := json.NewDecoder(file).Decode(&config); err != nil {
		return Config{}, err
	}
	return config, nil
}
