package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/fingergun/internal/app"
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play in a window (the default)",
	RunE:  runPlay,
}

// The root command plays too, so it takes the same flags.
func init() {
	for _, cmd := range []*cobra.Command{rootCmd, playCmd} {
		cmd.Flags().Bool("skip-home", false, "start the round without the title screen")
	}
}

func runPlay(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := newEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	e.startServer(ctx)

	window := app.NewWindow("fingergun")
	defer window.Close()

	skipHome, _ := cmd.Flags().GetBool("skip-home")
	if e.cfg.Game.Home && !skipHome {
		if !app.Home(ctx, window, e.cfg.Camera.Width, e.cfg.Camera.Height) {
			return nil
		}
	}

	a, err := newApp(e, window, nil)
	if err != nil {
		return err
	}
	defer a.Close()

	return a.Run(ctx)
}

func newApp(e *env, display app.Display, onScore func(hits, shots int)) (*app.App, error) {
	return app.New(app.Options{
		Config:   e.cfg,
		Camera:   app.NewCamera(e.cfg.Camera),
		Detector: app.NewDetector(e.cfg.Detector, e.log),
		Store:    e.store,
		Frames:   e.frames,
		Hub:      e.hub,
		Hooks:    e.hooks,
		Display:  display,
		OnScore:  onScore,
		Log:      e.log,
	})
}
