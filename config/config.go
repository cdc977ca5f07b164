package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes the environment variables read by Load, e.g. OTHELLO_BUDGET
const EnvPrefix = "OTHELLO"

type Config struct {
	Size        int
	Games       int
	Concurrency int
	Budget      time.Duration
	Dark        string
	Light       string
	Alternate   bool
	Seed        uint64

	Archive string
	Output  string

	Model        string
	Epochs       int
	LearningRate float64

	LogLevel string

	// Args holds the positional arguments left after the flags
	Args []string
}

// Load fills the config from args, then OTHELLO_* environment variables, then
// the YAML file named by --config, then the defaults, in that order of
// precedence.
func (c *Config) Load(args []string) error {
	fs := pflag.NewFlagSet("othello", pflag.ContinueOnError)
	fs.String("config", "", "YAML file with default settings")
	fs.Int("size", 8, "board edge length, even and at least 2")
	fs.Int("games", 10, "number of games in a match")
	fs.Int("concurrency", 1, "number of games played at the same time")
	fs.Duration("budget", time.Second, "thinking time per move")
	fs.String("dark", "AI(MCTS,Positional)", "descriptor of the dark player, AI(<decider>,<evaluator>)")
	fs.String("light", "AI(IterativeMinimax-D8,Positional)", "descriptor of the light player")
	fs.Bool("alternate", true, "swap colours every other game")
	fs.Uint64("seed", 0, "seed for the deciders' random sources, 0 picks one")
	fs.String("archive", "", "SQLite file where finished games are stored")
	fs.String("output", "results", "directory for match metrics")
	fs.String("model", "model.json", "learned evaluator file written by train")
	fs.Int("epochs", 50, "training passes over the archived games")
	fs.Float64("learning-rate", 0.01, "training step size")
	fs.String("log-level", "info", "trace, debug, info, warn or error")
	if err := fs.Parse(args); err != nil {
		return err
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return err
	}
	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	c.Size = v.GetInt("size")
	c.Games = v.GetInt("games")
	c.Concurrency = v.GetInt("concurrency")
	c.Budget = v.GetDuration("budget")
	c.Dark = v.GetString("dark")
	c.Light = v.GetString("light")
	c.Alternate = v.GetBool("alternate")
	c.Seed = v.GetUint64("seed")
	c.Archive = v.GetString("archive")
	c.Output = v.GetString("output")
	c.Model = v.GetString("model")
	c.Epochs = v.GetInt("epochs")
	c.LearningRate = v.GetFloat64("learning-rate")
	c.LogLevel = v.GetString("log-level")
	c.Args = fs.Args()

	return c.validate()
}

func (c *Config) validate() error {
	switch {
	case c.Size < 2 || c.Size%2 != 0:
		return fmt.Errorf("size must be even and at least 2, got %d", c.Size)
	case c.Games < 1:
		return fmt.Errorf("games must be positive, got %d", c.Games)
	case c.Concurrency < 1:
		return fmt.Errorf("concurrency must be positive, got %d", c.Concurrency)
	case c.Budget < 0:
		return fmt.Errorf("budget must not be negative, got %v", c.Budget)
	case c.Epochs < 1:
		return fmt.Errorf("epochs must be positive, got %d", c.Epochs)
	case c.LearningRate <= 0:
		return fmt.Errorf("learning rate must be positive, got %v", c.LearningRate)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level is the parsed log level
func (c *Config) Level() (zerolog.Level, error) {
	level, err := zerolog.ParseLevel(c.LogLevel)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}
