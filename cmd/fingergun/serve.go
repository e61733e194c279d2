package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ayusman/fingergun/internal/tray"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Play headless with the browser viewer and a tray menu",
	Long: `serve runs the game without a window. Watch it at the viewer address
and pause, restart or quit from the system tray.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Bool("no-tray", false, "run without the system tray icon")
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	e, err := newEnv(ctx, cmd)
	if err != nil {
		return err
	}
	defer e.Close()

	e.cfg.Server.Enabled = true
	e.startServer(ctx)

	noTray, _ := cmd.Flags().GetBool("no-tray")
	var t *tray.Tray
	var onScore func(hits, shots int)
	if !noTray {
		t = tray.New()
		onScore = t.SetScore
	}

	a, err := newApp(e, nil, onScore)
	if err != nil {
		return err
	}
	defer a.Close()

	if t == nil {
		return a.Run(ctx)
	}

	t.OnPause(a.SetPaused)
	t.OnNewRound(a.NewRound)
	t.OnOpenViewer(func() {
		if err := openURL(e.viewerURL()); err != nil {
			e.log.Warn().Err(err).Msg("failed to open viewer")
		}
	})
	t.OnQuit(stop)

	done := make(chan error, 1)
	go func() {
		done <- a.Run(ctx)
		stop()
	}()
	go func() {
		<-ctx.Done()
		t.Quit()
	}()

	t.Run()
	stop()
	return <-done
}
