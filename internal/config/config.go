// Package config assembles runtime settings from defaults, an optional JSON
// file and command-line flags, in that order of precedence.
package config

// Config holds runtime settings for the console.
//
// Fields:
//   - DatabasePath: location of the SQLite datastore.
//   - KeyPath: location of the field-encryption key (created on first run).
//   - BackupDir: directory backup archives are written to.
//   - AuditLogPath: location of the encrypted activity log.
type Config struct {
	DatabasePath string
	KeyPath      string
	BackupDir    string
	AuditLogPath string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.DatabasePath = "data/urban_mobility.db"
	c.KeyPath = "data/field.key"
	c.BackupDir = "backups"
	c.AuditLogPath = "data/activity.log"
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later sources
// take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
