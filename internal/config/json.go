package config

import (
	"encoding/json"
	"os"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Absent fields
// stay empty and leave the current Config value untouched.
type JsonConfig struct {
	DatabasePath string `json:"database_path"`
	KeyPath      string `json:"key_path"`
	BackupDir    string `json:"backup_dir"`
	AuditLogPath string `json:"audit_log_path"`
}

// parseJson overlays cfg with values loaded from a JSON file. The file path
// comes from the -c/-config flag; without it no JSON is loaded. Read or
// unmarshal errors panic, this runs once at startup before anything else.
func parseJson(cfg *Config) {
	jsonConfigFile := jsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.DatabasePath != "" {
		cfg.DatabasePath = jc.DatabasePath
	}
	if jc.KeyPath != "" {
		cfg.KeyPath = jc.KeyPath
	}
	if jc.BackupDir != "" {
		cfg.BackupDir = jc.BackupDir
	}
	if jc.AuditLogPath != "" {
		cfg.AuditLogPath = jc.AuditLogPath
	}
}
