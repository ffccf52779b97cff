package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const defaultSessionTTL = 30 * time.Minute

// Default backend address and schema of the pricing sheet. Overridable via
// config.yaml or environment, but these match the deployed spreadsheet.
var defaultVisibleColumns = []string{
	"Service Category",
	"Item",
	"Price (USD)",
	"Turnaround Time",
	"Notes",
}

type Config struct {
	SpreadsheetID  string   `yaml:"spreadsheet_id"`
	WorksheetIndex int      `yaml:"worksheet_index"`
	VisibleColumns []string `yaml:"visible_columns"`

	// Optional pre-seeded service-account key for single-user deploys.
	// When empty, every session must upload its own credential blob.
	CredentialsFile string `yaml:"credentials_file"`

	ListenAddr        string `yaml:"listen_addr"`
	SessionTTLMinutes int    `yaml:"session_ttl_minutes"`

	// "all" matches the stringified whole row, "item_notes" restricts the
	// search to the item and notes fields.
	SearchScope string `yaml:"search_scope"`

	// "skip" silently drops mutations whose record can no longer be found,
	// "error" surfaces them as a per-operation failure.
	MissingRowPolicy string `yaml:"missing_row_policy"`
}

// Load reads config.yaml (or CONFIG_PATH) if present, applies env-var
// overrides, fills defaults and validates. Env vars win over the file.
func Load() (*Config, error) {
	cfg := &Config{}

	configPath := "config.yaml"
	if envPath := os.Getenv("CONFIG_PATH"); envPath != "" {
		configPath = envPath
	}
	if data, err := os.ReadFile(configPath); err == nil {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", configPath, err)
		}
	}

	envOverride(&cfg.SpreadsheetID, "SPREADSHEET_ID")
	envOverrideInt(&cfg.WorksheetIndex, "WORKSHEET_INDEX")
	envOverride(&cfg.CredentialsFile, "GOOGLE_APPLICATION_CREDENTIALS")
	envOverride(&cfg.ListenAddr, "LISTEN_ADDR")
	envOverrideInt(&cfg.SessionTTLMinutes, "SESSION_TTL_MINUTES")
	envOverride(&cfg.SearchScope, "SEARCH_SCOPE")
	envOverride(&cfg.MissingRowPolicy, "MISSING_ROW_POLICY")
	if cols := os.Getenv("VISIBLE_COLUMNS"); cols != "" {
		cfg.VisibleColumns = nil
		for _, c := range strings.Split(cols, ",") {
			if c = strings.TrimSpace(c); c != "" {
				cfg.VisibleColumns = append(cfg.VisibleColumns, c)
			}
		}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if c.SpreadsheetID == "" {
		c.SpreadsheetID = "1WeDpcSNnfCrtx4F3bBC9osigPkzy3LXybRO6jpN7BXE"
	}
	if len(c.VisibleColumns) == 0 {
		c.VisibleColumns = append([]string(nil), defaultVisibleColumns...)
	}
	if c.ListenAddr == "" {
		c.ListenAddr = ":8080"
	}
	if c.SessionTTLMinutes == 0 {
		c.SessionTTLMinutes = int(defaultSessionTTL / time.Minute)
	}
	if c.SearchScope == "" {
		c.SearchScope = "all"
	}
	if c.MissingRowPolicy == "" {
		c.MissingRowPolicy = "skip"
	}
}

func (c *Config) validate() error {
	if c.WorksheetIndex < 0 {
		return fmt.Errorf("worksheet_index must be >= 0, got %d", c.WorksheetIndex)
	}
	// The visible schema is category, item, price, turnaround, notes; the
	// option only renames the headers, it cannot change the shape.
	if len(c.VisibleColumns) != 5 {
		return fmt.Errorf("visible_columns must name exactly 5 columns, got %d", len(c.VisibleColumns))
	}
	switch c.SearchScope {
	case "all", "item_notes":
	default:
		return fmt.Errorf("search_scope must be 'all' or 'item_notes', got %q", c.SearchScope)
	}
	switch c.MissingRowPolicy {
	case "skip", "error":
	default:
		return fmt.Errorf("missing_row_policy must be 'skip' or 'error', got %q", c.MissingRowPolicy)
	}
	return nil
}

// SessionTTL returns the idle lifetime of an authenticated session.
func (c *Config) SessionTTL() time.Duration {
	return time.Duration(c.SessionTTLMinutes) * time.Minute
}

func envOverride(target *string, envVar string) {
	if v := os.Getenv(envVar); v != "" {
		*target = v
	}
}

func envOverrideInt(target *int, envVar string) {
	if v := os.Getenv(envVar); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*target = n
		}
	}
}
