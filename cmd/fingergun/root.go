package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ayusman/fingergun/internal/config"
	"github.com/ayusman/fingergun/internal/logging"
	"github.com/ayusman/fingergun/internal/plugin"
	"github.com/ayusman/fingergun/internal/server"
	"github.com/ayusman/fingergun/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "fingergun",
	Short: "Finger gun target practice",
	Long: `fingergun turns your webcam into a shooting gallery. Point your index
finger at the target and flick it up to fire.`,
	SilenceUsage: true,
	RunE:         runPlay,
}

// Execute runs the command line. It exits non-zero on error.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().String("config-dir", "", "directory holding fingergun.json (default ~/.fingergun)")
	rootCmd.PersistentFlags().String("log-level", "", "trace, debug, info, warn or error")
	rootCmd.PersistentFlags().Bool("debug", false, "draw the hand skeleton and aim readout")

	rootCmd.AddCommand(playCmd, serveCmd, scoresCmd)
}

// loadConfig reads the config and applies the persistent flags over it.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	dir, _ := cmd.Flags().GetString("config-dir")
	cfg, err := config.Load(dir)
	if err != nil {
		return config.Config{}, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel, _ = cmd.Flags().GetString("log-level")
	}
	if cmd.Flags().Changed("debug") {
		cfg.Game.Debug, _ = cmd.Flags().GetBool("debug")
	}
	return cfg, nil
}

// env is the shared setup every game command runs with.
type env struct {
	cfg    config.Config
	log    zerolog.Logger
	store  *store.Store
	hooks  *plugin.Dispatcher
	frames *server.FrameBuffer
	hub    *server.AimHub
}

func newEnv(ctx context.Context, cmd *cobra.Command) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	log := logging.New(cfg.LogLevel, cfg.LogPretty)

	st, err := openStore(cfg.DB.Path)
	if err != nil {
		return nil, err
	}

	manager := plugin.NewManager(cfg.Plugins.Dir, log)
	if err := manager.Discover(); err != nil {
		log.Warn().Err(err).Str("dir", cfg.Plugins.Dir).Msg("plugin discovery failed")
	}
	if n := len(manager.List()); n > 0 {
		log.Info().Int("plugins", n).Msg("loaded plugins")
	}
	executor := plugin.NewExecutor(time.Duration(cfg.Plugins.TimeoutMs) * time.Millisecond)

	return &env{
		cfg:    cfg,
		log:    log,
		store:  st,
		hooks:  plugin.NewDispatcher(ctx, manager, executor, log, cfg.Plugins.Workers, plugin.DefaultQueueSize),
		frames: server.NewFrameBuffer(),
		hub:    server.NewAimHub(log),
	}, nil
}

func (e *env) Close() {
	e.hooks.Close()
	if err := e.store.Close(); err != nil {
		e.log.Error().Err(err).Msg("failed to close store")
	}
}

// startServer runs the viewer in the background when enabled. Errors are
// logged, the game keeps running without it.
func (e *env) startServer(ctx context.Context) {
	if !e.cfg.Server.Enabled {
		return
	}

	staticDir := e.cfg.Server.StaticDir
	if staticDir == "" {
		staticDir = findWebDir()
	}
	if staticDir != "" {
		e.log.Info().Str("dir", staticDir).Msg("serving static files")
	}

	srv := server.New(server.Config{
		StaticDir: staticDir,
		Store:     e.store,
		Frames:    e.frames,
		Hub:       e.hub,
		Log:       e.log,
	})

	go func() {
		e.log.Info().Str("addr", e.cfg.Server.Addr).Msg("viewer listening")
		if err := srv.Run(ctx, e.cfg.Server.Addr); err != nil {
			e.log.Error().Err(err).Msg("viewer stopped")
		}
	}()
}

func (e *env) viewerURL() string {
	return "http://" + e.cfg.Server.Addr
}

func openStore(path string) (*store.Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// findWebDir searches "web", "../web", "../../web" and ~/.fingergun/web and
// returns the first directory found, or "".
func findWebDir() string {
	for _, p := range []string{"web", "../web", "../../web"} {
		if info, err := os.Stat(p); err == nil && info.IsDir() {
			if abs, err := filepath.Abs(p); err == nil {
				return abs
			}
			return p
		}
	}

	home := filepath.Join(config.DataDir(), "web")
	if info, err := os.Stat(home); err == nil && info.IsDir() {
		return home
	}
	return ""
}

func openURL(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
