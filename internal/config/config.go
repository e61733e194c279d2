// Package config loads fingergun settings from an optional JSON file,
// FINGERGUN_* environment variables and built-in defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// ConfigName is the config file looked up in the config directory, without
// its .json extension.
const ConfigName = "fingergun"

// CameraConfig selects and shapes the webcam feed.
type CameraConfig struct {
	ID     int  `json:"id" mapstructure:"id"`
	Width  int  `json:"width" mapstructure:"width"`
	Height int  `json:"height" mapstructure:"height"`
	FPS    int  `json:"fps" mapstructure:"fps"`
	Mirror bool `json:"mirror" mapstructure:"mirror"`
}

// DetectorConfig tunes the hand landmark service.
type DetectorConfig struct {
	Script          string  `json:"script" mapstructure:"script"`
	MinConfidence   float64 `json:"minConfidence" mapstructure:"minConfidence"`
	MinTrackingConf float64 `json:"minTrackingConfidence" mapstructure:"minTrackingConfidence"`
	// Disabled skips MediaPipe and plays with no hand input.
	Disabled bool `json:"disabled" mapstructure:"disabled"`
}

// GameConfig holds round rules and overlays.
type GameConfig struct {
	RangeMultiplier float64 `json:"rangeMultiplier" mapstructure:"rangeMultiplier"`
	TargetRadius    float64 `json:"targetRadius" mapstructure:"targetRadius"`
	BangFrames      int     `json:"bangFrames" mapstructure:"bangFrames"`
	Debug           bool    `json:"debug" mapstructure:"debug"`
	AimLine         bool    `json:"aimLine" mapstructure:"aimLine"`
	Home            bool    `json:"home" mapstructure:"home"`
}

// AssetsConfig points at sprite images. Empty paths use built-in sprites.
type AssetsConfig struct {
	Target string `json:"target" mapstructure:"target"`
	Bang   string `json:"bang" mapstructure:"bang"`
}

// ServerConfig controls the HTTP viewer.
type ServerConfig struct {
	Enabled   bool   `json:"enabled" mapstructure:"enabled"`
	Addr      string `json:"addr" mapstructure:"addr"`
	StaticDir string `json:"staticDir" mapstructure:"staticDir"`
}

// DBConfig locates the score database.
type DBConfig struct {
	Path string `json:"path" mapstructure:"path"`
}

// PluginsConfig locates hook plugins.
type PluginsConfig struct {
	Dir       string `json:"dir" mapstructure:"dir"`
	TimeoutMs int    `json:"timeoutMs" mapstructure:"timeoutMs"`
	Workers   int    `json:"workers" mapstructure:"workers"`
}

// Config is the complete application configuration.
type Config struct {
	LogLevel  string         `json:"logLevel" mapstructure:"logLevel"`
	LogPretty bool           `json:"logPretty" mapstructure:"logPretty"`
	Camera    CameraConfig   `json:"camera" mapstructure:"camera"`
	Detector  DetectorConfig `json:"detector" mapstructure:"detector"`
	Game      GameConfig     `json:"game" mapstructure:"game"`
	Assets    AssetsConfig   `json:"assets" mapstructure:"assets"`
	Server    ServerConfig   `json:"server" mapstructure:"server"`
	DB        DBConfig       `json:"db" mapstructure:"db"`
	Plugins   PluginsConfig  `json:"plugins" mapstructure:"plugins"`
}

// DataDir returns ~/.fingergun, or ./.fingergun when there is no home.
func DataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fingergun"
	}
	return filepath.Join(home, ".fingergun")
}

func setDefaults(dataDir string) {
	viper.SetDefault("logLevel", "info")
	viper.SetDefault("logPretty", true)

	viper.SetDefault("camera.id", 0)
	viper.SetDefault("camera.width", 1280)
	viper.SetDefault("camera.height", 720)
	viper.SetDefault("camera.fps", 30)
	viper.SetDefault("camera.mirror", true)

	viper.SetDefault("detector.script", "")
	viper.SetDefault("detector.minConfidence", 0.5)
	viper.SetDefault("detector.minTrackingConfidence", 0.5)
	viper.SetDefault("detector.disabled", false)

	viper.SetDefault("game.rangeMultiplier", 3.0)
	viper.SetDefault("game.targetRadius", 100.0)
	viper.SetDefault("game.bangFrames", 10)
	viper.SetDefault("game.debug", false)
	viper.SetDefault("game.aimLine", true)
	viper.SetDefault("game.home", true)

	viper.SetDefault("assets.target", "")
	viper.SetDefault("assets.bang", "")

	viper.SetDefault("server.enabled", true)
	viper.SetDefault("server.addr", "127.0.0.1:8080")
	viper.SetDefault("server.staticDir", "")

	viper.SetDefault("db.path", filepath.Join(dataDir, "fingergun.db"))

	viper.SetDefault("plugins.dir", filepath.Join(dataDir, "plugins"))
	viper.SetDefault("plugins.timeoutMs", 2000)
	viper.SetDefault("plugins.workers", 2)
}

// Load reads fingergun.json from configDir over the defaults and applies
// environment overrides such as FINGERGUN_GAME_TARGETRADIUS. A missing file
// is not an error. An empty configDir means DataDir().
func Load(configDir string) (Config, error) {
	if configDir == "" {
		configDir = DataDir()
	}
	setDefaults(DataDir())

	viper.SetConfigName(ConfigName)
	viper.SetConfigType("json")
	viper.AddConfigPath(configDir)

	viper.SetEnvPrefix("fingergun")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate rejects settings the game cannot run with.
func (c Config) Validate() error {
	var errs []error

	if c.Game.RangeMultiplier <= 0 {
		errs = append(errs, fmt.Errorf("game.rangeMultiplier must be positive, got %v", c.Game.RangeMultiplier))
	}
	if c.Game.TargetRadius <= 0 {
		errs = append(errs, fmt.Errorf("game.targetRadius must be positive, got %v", c.Game.TargetRadius))
	}
	if c.Game.BangFrames < 0 {
		errs = append(errs, fmt.Errorf("game.bangFrames must not be negative, got %d", c.Game.BangFrames))
	}
	if c.Camera.Width <= 0 || c.Camera.Height <= 0 {
		errs = append(errs, fmt.Errorf("camera size must be positive, got %dx%d", c.Camera.Width, c.Camera.Height))
	}
	if c.Detector.MinConfidence < 0 || c.Detector.MinConfidence > 1 {
		errs = append(errs, fmt.Errorf("detector.minConfidence must be in [0, 1], got %v", c.Detector.MinConfidence))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Set overrides a single key after Load, for command line flags.
func Set(key string, value any) {
	viper.Set(key, value)
}

// Current decodes the live settings, including overrides made with Set.
func Current() (Config, error) {
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("error decoding config: %w", err)
	}
	return cfg, cfg.Validate()
}
