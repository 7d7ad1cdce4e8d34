package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/limaJavier/lessonplan/pkg/bitmask"
	"github.com/limaJavier/lessonplan/pkg/model"
	"github.com/limaJavier/lessonplan/pkg/sat"
	"github.com/mitchellh/mapstructure"
	"github.com/samber/lo"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"

	FormatJson = "json"
	FormatCsv  = "csv"

	envPrefix = "LESSONPLAN"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Env string

	Input     InputConfig
	Bits      BitsConfig
	Log       LogConfig
	Placement PlacementConfig
	Output    OutputConfig
}

type InputConfig struct {
	Path   string // A json file, or a directory of csv files
	Format string
}

type BitsConfig struct {
	Wide     bool
	Capacity int
}

type LogConfig struct {
	Level  string
	Format string
}

// PlacementConfig controls the optional placement of the activities on the
// week grid by an external SAT solver.
type PlacementConfig struct {
	Enabled    bool
	Grid       model.Grid
	Solver     string
	SolverPath string
	Dimacs     string // When set the instance is written there instead of solved
}

type OutputConfig struct {
	Path       string // Summary destination, standard output when empty
	Activities string // Optional csv export of the activities
}

// Keys bound to each command line flag
var flagKeys = map[string]string{
	"config":      "config",
	"env":         "env",
	"file":        "input.path",
	"format":      "input.format",
	"wide":        "bits.wide",
	"capacity":    "bits.capacity",
	"log-level":   "log.level",
	"log-format":  "log.format",
	"place":       "placement.enabled",
	"days":        "placement.days",
	"periods":     "placement.periods",
	"solver":      "placement.solver",
	"solver-path": "placement.solverPath",
	"dimacs":      "placement.dimacs",
	"out":         "output.path",
	"activities":  "output.activities",
}

// Flags returns the command line flags understood by Load.
func Flags(name string) *pflag.FlagSet {
	flags := pflag.NewFlagSet(name, pflag.ContinueOnError)
	flags.String("config", "", "Path to a configuration file (yaml, json, toml or env)")
	flags.String("env", EnvDevelopment, `Environment: "development" or "production"`)
	flags.String("file", "", "Path to the input snapshot: a json file or a directory of csv files")
	flags.String("format", FormatJson, `Input format: "json" or "csv"`)
	flags.Bool("wide", false, "Lift the limit on the number of clash bits")
	flags.Int("capacity", bitmask.FixedWidth, "Number of clash bits available without --wide")
	flags.String("log-level", "info", "Log level")
	flags.String("log-format", "console", `Log encoding: "json" or "console"`)
	flags.Bool("place", false, "Place the activities on the week grid with a SAT solver")
	flags.Int("days", 5, "Days of the week grid")
	flags.Int("periods", 8, "Periods per day of the week grid")
	flags.String("solver", "kissat", fmt.Sprintf("SAT solver, one of %v", solverNames()))
	flags.String("solver-path", "", "Path to the solver executable, looked up in PATH when empty")
	flags.String("dimacs", "", "Write the placement instance in DIMACS format to this file instead of solving it")
	flags.String("out", "", "Path to the summary file; if empty, it'll be written into the Standard Output")
	flags.String("activities", "", "Path to a csv file receiving the activities")
	return flags
}

// Load reads the configuration from (by increasing priority) defaults, a
// config file, a .env file, LESSONPLAN_* environment variables and the flags
// that were set. Flags may be nil.
func Load(flags *pflag.FlagSet) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if flags != nil {
		for name, key := range flagKeys {
			flag := flags.Lookup(name)
			if flag == nil {
				continue
			}
			if err := v.BindPFlag(key, flag); err != nil {
				return nil, err
			}
		}
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("cannot read config file %v: %w", file, err)
		}
	} else {
		v.SetConfigName("lessonplan")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("env")

	cfg.Input = InputConfig{
		Path:   v.GetString("input.path"),
		Format: strings.ToLower(v.GetString("input.format")),
	}

	cfg.Bits = BitsConfig{
		Wide:     v.GetBool("bits.wide"),
		Capacity: v.GetInt("bits.capacity"),
	}

	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}

	grid, err := decodeGrid(v)
	if err != nil {
		return nil, err
	}
	cfg.Placement = PlacementConfig{
		Enabled:    v.GetBool("placement.enabled"),
		Grid:       grid,
		Solver:     strings.ToLower(v.GetString("placement.solver")),
		SolverPath: v.GetString("placement.solverPath"),
		Dimacs:     v.GetString("placement.dimacs"),
	}

	cfg.Output = OutputConfig{
		Path:       v.GetString("output.path"),
		Activities: v.GetString("output.activities"),
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// decodeGrid reads the week grid; unlike viper's getters it rejects values that
// are not numbers.
func decodeGrid(v *viper.Viper) (model.Grid, error) {
	grid := model.Grid{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           &grid,
	})
	if err != nil {
		return grid, err
	}

	err = decoder.Decode(map[string]any{
		"days":    v.Get("placement.days"),
		"periods": v.Get("placement.periods"),
	})
	if err != nil {
		return grid, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return grid, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("env", EnvDevelopment)

	v.SetDefault("input.format", FormatJson)

	v.SetDefault("bits.wide", false)
	v.SetDefault("bits.capacity", bitmask.FixedWidth)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("placement.enabled", false)
	v.SetDefault("placement.days", 5)
	v.SetDefault("placement.periods", 8)
	v.SetDefault("placement.solver", "kissat")
}

func (cfg *Config) validate() error {
	if cfg.Input.Path == "" {
		return fmt.Errorf("%w: an input file must be specified", ErrInvalidConfig)
	} else if cfg.Input.Format != FormatJson && cfg.Input.Format != FormatCsv {
		return fmt.Errorf("%w: %v is not a valid input format", ErrInvalidConfig, cfg.Input.Format)
	} else if !cfg.Bits.Wide && (cfg.Bits.Capacity <= 0 || cfg.Bits.Capacity > bitmask.FixedWidth) {
		return fmt.Errorf("%w: bit capacity must be between 1 and %v: %v", ErrInvalidConfig, bitmask.FixedWidth, cfg.Bits.Capacity)
	}

	if !cfg.Placement.Enabled {
		return nil
	}
	if cfg.Placement.Grid.Days <= 0 || cfg.Placement.Grid.Periods <= 0 {
		return fmt.Errorf("%w: the week grid needs at least one day and one period: %v", ErrInvalidConfig, cfg.Placement.Grid)
	} else if cfg.Placement.Dimacs == "" && !slices.Contains(solverNames(), cfg.Placement.Solver) {
		return fmt.Errorf("%w: %v is not a valid solver", ErrInvalidConfig, cfg.Placement.Solver)
	}
	return nil
}

func solverNames() []string {
	names := lo.Keys(sat.Solvers)
	slices.Sort(names)
	return names
}
