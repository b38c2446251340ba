// config.go: settings struct for the quick-look pointing reducer and the
// functions that load it.
package conf

import (
	"fmt"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mmatsuo0/qlp/internal/errors"
)

// LogConfig defines console and file logging
type LogConfig struct {
	Level    string // console and default module level: trace, debug, info, warn, error
	Timezone string // "Local", "UTC" or IANA name
	Path     string // JSON log file, empty disables file output
}

// PointingConfig holds settings for the reduction pipeline
type PointingConfig struct {
	Band          string // the one observing band this configuration accepts
	ErrorSentinel string // literal that marks a failed offset fit in the log
}

// InputConfig holds settings for file or directory analysis
type InputConfig struct {
	Path      string `yaml:"-"` // path to input file or directory
	Recursive bool   `yaml:"-"` // true for recursive directory analysis
}

// OutputDir is a sink that writes below a directory
type OutputDir struct {
	Enabled bool   // true to enable this output
	Path    string // directory to write to
}

// Settings contains all configuration options for the qlp application.
type Settings struct {
	Debug   bool // true to enable debug logging
	Threads int  // concurrent reductions in directory mode, 0 = number of CPUs

	Main struct {
		Log LogConfig // logging configuration
	}

	Pointing PointingConfig // reduction pipeline configuration

	Input InputConfig `yaml:"-"` // Input configuration for file and directory analysis

	Output struct {
		Table   OutputDir // per-band append-only params tables
		Product OutputDir // YAML data products for renderers
		Figure  OutputDir // quick-look PNG figures

		SQLite struct {
			Enabled bool   // true to enable sqlite output
			Path    string // path to sqlite database
		}

		MySQL struct {
			Enabled  bool   // true to enable mysql output
			Username string // username for mysql database
			Password string // password for mysql database
			Database string // database name for mysql database
			Host     string // host for mysql database
			Port     string // port for mysql database
		}

		Metrics struct {
			Enabled bool   // true to write a Prometheus textfile after each command
			Path    string // textfile path
		}
	}
}

// flagKeys maps command line flags onto configuration keys
var flagKeys = map[string]string{
	"debug":     "debug",
	"threads":   "threads",
	"band":      "pointing.band",
	"log-level": "main.log.level",
	"log-file":  "main.log.path",
	"table-dir": "output.table.path",
	"product":   "output.product.path",
	"figure":    "output.figure.path",
	"db":        "output.sqlite.path",
	"metrics":   "output.metrics.path",
}

// Load builds Settings from defaults, an optional YAML config file and the
// command line flags, in increasing precedence. Environment variables are
// not consulted.
func Load(configFile string, flags *pflag.FlagSet) (*Settings, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	setDefaultConfig(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.New(fmt.Errorf("error reading config file: %w", err)).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Context("config_file", configFile).
				Build()
		}
	}

	if err := bindFlags(v, flags); err != nil {
		return nil, err
	}

	settings := &Settings{}
	if err := v.Unmarshal(settings); err != nil {
		return nil, errors.New(fmt.Errorf("error unmarshaling config into struct: %w", err)).
			Component("conf").
			Category(errors.CategoryConfiguration).
			Build()
	}
	applyFlagImplications(settings, flags)

	if err := ValidateSettings(settings); err != nil {
		return nil, fmt.Errorf("error validating settings: %w", err)
	}
	return settings, nil
}

// bindFlags binds the flags that exist in the set; unknown ones are skipped
func bindFlags(v *viper.Viper, flags *pflag.FlagSet) error {
	if flags == nil {
		return nil
	}
	for name, key := range flagKeys {
		f := flags.Lookup(name)
		if f == nil {
			continue
		}
		if err := v.BindPFlag(key, f); err != nil {
			return errors.New(fmt.Errorf("error binding flag %s: %w", name, err)).
				Component("conf").
				Category(errors.CategoryConfiguration).
				Build()
		}
	}
	return nil
}

// applyFlagImplications turns output path flags into enabled outputs:
// passing --figure fig/ means the figure output is wanted.
func applyFlagImplications(s *Settings, flags *pflag.FlagSet) {
	if flags == nil {
		return
	}
	changed := func(name string) bool {
		f := flags.Lookup(name)
		return f != nil && f.Changed
	}

	if changed("no-table") {
		s.Output.Table.Enabled = false
	}
	if changed("product") {
		s.Output.Product.Enabled = true
	}
	if changed("figure") {
		s.Output.Figure.Enabled = true
	}
	if changed("db") {
		s.Output.SQLite.Enabled = true
	}
	if changed("metrics") {
		s.Output.Metrics.Enabled = true
	}
	if changed("recursive") {
		if f := flags.Lookup("recursive"); f != nil {
			s.Input.Recursive = f.Value.String() == "true"
		}
	}
}
