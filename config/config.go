// Package config resolves runtime settings: defaults, then an optional
// vignette.yaml, then VIGNETTE_* environment variables, then flags.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	FileName  = "vignette"
	EnvPrefix = "VIGNETTE"
)

type Window struct {
	Width  int    `mapstructure:"width"`
	Height int    `mapstructure:"height"`
	Title  string `mapstructure:"title"`
	// Scale renders at a fraction of the window size for the low-res look.
	Scale float64 `mapstructure:"scale"`
}

type Audio struct {
	Enabled    bool `mapstructure:"enabled"`
	SampleRate int  `mapstructure:"sample_rate"`
}

type Settings struct {
	Window    Window  `mapstructure:"window"`
	Audio     Audio   `mapstructure:"audio"`
	LogLevel  string  `mapstructure:"log_level"`
	Debug     bool    `mapstructure:"debug"`
	Watch     bool    `mapstructure:"watch"`
	AssetDir  string  `mapstructure:"asset_dir"`
	PrefabDir string  `mapstructure:"prefab_dir"`
	LevelDir  string  `mapstructure:"level_dir"`
	Stage     string  `mapstructure:"stage"`
	MaxDt     float64 `mapstructure:"max_dt"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("window.width", 1280)
	v.SetDefault("window.height", 720)
	v.SetDefault("window.title", "Vignette")
	v.SetDefault("window.scale", 0.5)
	v.SetDefault("audio.enabled", true)
	v.SetDefault("audio.sample_rate", 44100)
	v.SetDefault("log_level", "info")
	v.SetDefault("debug", false)
	v.SetDefault("watch", false)
	v.SetDefault("asset_dir", "assets")
	v.SetDefault("prefab_dir", "prefabs")
	v.SetDefault("level_dir", "levels")
	v.SetDefault("stage", "plaza.json")
	v.SetDefault("max_dt", 0)
}

// flagKeys maps command-line flags to settings keys.
var flagKeys = map[string]string{
	"width":       "window.width",
	"height":      "window.height",
	"scale":       "window.scale",
	"log-level":   "log_level",
	"debug":       "debug",
	"watch":       "watch",
	"assets":      "asset_dir",
	"prefabs":     "prefab_dir",
	"levels":      "level_dir",
	"stage":       "stage",
	"no-audio":    "",
	"sample-rate": "audio.sample_rate",
	"max-dt":      "max_dt",
}

func newFlagSet() *pflag.FlagSet {
	fs := pflag.NewFlagSet("vignette", pflag.ContinueOnError)
	fs.Int("width", 1280, "window width")
	fs.Int("height", 720, "window height")
	fs.Float64("scale", 0.5, "render scale")
	fs.String("log-level", "info", "log level (trace, debug, info, warn, error)")
	fs.Bool("debug", false, "show debug overlay")
	fs.Bool("watch", false, "reload prefabs and scripts when they change on disk")
	fs.String("assets", "assets", "directory searched before embedded assets")
	fs.String("prefabs", "prefabs", "directory searched before embedded prefabs")
	fs.String("levels", "levels", "directory searched before embedded levels")
	fs.String("stage", "plaza.json", "stage to load")
	fs.Bool("no-audio", false, "disable audio")
	fs.Int("sample-rate", 44100, "audio sample rate")
	fs.Float64("max-dt", 0, "clamp for the frame step in seconds; 0 keeps the prefab value")
	fs.String("config", "", "directory containing vignette.yaml")
	return fs
}

// Load resolves settings. configDir is searched for vignette.yaml unless a
// --config flag overrides it; a missing file is not an error.
func Load(configDir string, args []string) (Settings, error) {
	var s Settings

	fs := newFlagSet()
	if err := fs.Parse(args); err != nil {
		return s, fmt.Errorf("config: parse flags: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if dir, _ := fs.GetString("config"); dir != "" {
		configDir = dir
	}
	v.SetConfigName(FileName)
	v.SetConfigType("yaml")
	if configDir != "" {
		v.AddConfigPath(configDir)
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return s, fmt.Errorf("config: read %s.yaml: %w", FileName, err)
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for name, key := range flagKeys {
		if key == "" {
			continue
		}
		if err := v.BindPFlag(key, fs.Lookup(name)); err != nil {
			return s, fmt.Errorf("config: bind flag %s: %w", name, err)
		}
	}

	if err := v.Unmarshal(&s); err != nil {
		return s, fmt.Errorf("config: decode: %w", err)
	}
	if off, _ := fs.GetBool("no-audio"); off {
		s.Audio.Enabled = false
	}
	return s, s.Validate()
}

func (s Settings) Validate() error {
	if s.Window.Width <= 0 || s.Window.Height <= 0 {
		return fmt.Errorf("config: window size must be positive, got %dx%d", s.Window.Width, s.Window.Height)
	}
	if s.Window.Scale <= 0 || s.Window.Scale > 1 {
		return fmt.Errorf("config: window scale must be in (0, 1], got %v", s.Window.Scale)
	}
	if s.Audio.SampleRate <= 0 {
		return fmt.Errorf("config: sample rate must be positive")
	}
	if s.MaxDt < 0 {
		return fmt.Errorf("config: max_dt must not be negative")
	}
	if s.Stage == "" {
		return fmt.Errorf("config: stage is required")
	}
	return nil
}
