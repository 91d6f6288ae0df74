package engine

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const EnvPrefix = "FRAMEGRAPH"

var ErrInvalidApplicationConfig = errors.New("invalid application config")

const (
	PipelineForward  = "forward"
	PipelineDeferred = "deferred"
)

type ApplicationConfig struct {
	// The application name handed to the backend.
	Name string `mapstructure:"name" validate:"required"`
	// Viewport starting width.
	StartWidth uint32 `mapstructure:"width" validate:"gt=0"`
	// Viewport starting height.
	StartHeight uint32 `mapstructure:"height" validate:"gt=0"`
	LogLevel    string `mapstructure:"log_level" validate:"oneof=debug info warn error fatal"`
	Backend     string `mapstructure:"backend" validate:"oneof=headless"`
	// GraphFile is a TOML graph description. The built-in pipeline selected
	// by Pipeline is used when it is empty.
	GraphFile string `mapstructure:"graph_file"`
	Pipeline  string `mapstructure:"pipeline" validate:"oneof=forward deferred"`
	// WatchGraph reloads GraphFile whenever it changes on disk.
	WatchGraph bool `mapstructure:"watch_graph"`
	EditorMode bool `mapstructure:"editor_mode"`
	// MaxFrames stops Run after that many frames. 0 runs until Quit.
	MaxFrames uint64 `mapstructure:"max_frames"`
	// TargetFPS limits the frame rate. 0 disables the limit.
	TargetFPS float64 `mapstructure:"target_fps" validate:"gte=0"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:        "Framegraph",
		StartWidth:  1280,
		StartHeight: 720,
		LogLevel:    "info",
		Backend:     "headless",
		Pipeline:    PipelineForward,
		EditorMode:  true,
		TargetFPS:   60,
	}
}

func (c *ApplicationConfig) Validate() error {
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidApplicationConfig, err)
	}
	if c.WatchGraph && c.GraphFile == "" {
		return fmt.Errorf("%w: watch_graph needs a graph_file", ErrInvalidApplicationConfig)
	}
	return nil
}

// LoadApplicationConfig layers the defaults, the optional TOML configFile and
// FRAMEGRAPH_* environment variables, in increasing priority. Variables from
// envFile are loaded first without overriding the real environment. Either
// path may be empty.
func LoadApplicationConfig(configFile, envFile string) (*ApplicationConfig, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", envFile, err)
		}
	}

	v := viper.New()
	defaults := DefaultApplicationConfig()
	v.SetDefault("name", defaults.Name)
	v.SetDefault("width", defaults.StartWidth)
	v.SetDefault("height", defaults.StartHeight)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("backend", defaults.Backend)
	v.SetDefault("graph_file", defaults.GraphFile)
	v.SetDefault("pipeline", defaults.Pipeline)
	v.SetDefault("watch_graph", defaults.WatchGraph)
	v.SetDefault("editor_mode", defaults.EditorMode)
	v.SetDefault("max_frames", defaults.MaxFrames)
	v.SetDefault("target_fps", defaults.TargetFPS)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading %s: %w", configFile, err)
		}
	}

	cfg := &ApplicationConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidApplicationConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
