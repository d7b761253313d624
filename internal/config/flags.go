package config

import (
	"flag"
	"os"
	"strings"
)

// parseFlags populates Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path to the SQLite database
//	-k string   path to the field-encryption key
//	-b string   backup directory
//	-l string   path to the encrypted activity log
//
// Only the flags handled here are parsed; os.Args is filtered first so flags
// consumed elsewhere do not trip this flag set.
func parseFlags(cfg *Config) {
	args := filterArgs(os.Args[1:], []string{"-d", "-k", "-b", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the SQLite database")
	fs.StringVar(&cfg.KeyPath, "k", cfg.KeyPath, "path to the field-encryption key")
	fs.StringVar(&cfg.BackupDir, "b", cfg.BackupDir, "backup directory")
	fs.StringVar(&cfg.AuditLogPath, "l", cfg.AuditLogPath, "path to the activity log")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}

// jsonConfigFlags resolves the JSON config file path from -c/-config,
// accepting both "-c path" and "-c=path" forms.
func jsonConfigFlags() string {
	args := filterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	short := fs.String("c", "", "path to a JSON config file")
	long := fs.String("config", "", "path to a JSON config file")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
	if *long != "" {
		return *long
	}
	return *short
}

// filterArgs keeps only the arguments belonging to the allowed flags, with
// their values, so separate flag sets can each parse their own slice of
// os.Args.
func filterArgs(args []string, allowed []string) []string {
	isAllowed := func(arg string) bool {
		name := arg
		if i := strings.IndexByte(arg, '='); i >= 0 {
			name = arg[:i]
		}
		for _, a := range allowed {
			if name == a {
				return true
			}
		}
		return false
	}

	var out []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") || !isAllowed(arg) {
			continue
		}
		out = append(out, arg)
		if !strings.Contains(arg, "=") && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}
