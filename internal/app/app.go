// Package app wires the camera, hand detector, game round, overlays and
// outputs into the fingergun frame loop.
package app

import (
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/ayusman/fingergun/internal/capture"
	"github.com/ayusman/fingergun/internal/config"
	"github.com/ayusman/fingergun/internal/detector"
	"github.com/ayusman/fingergun/internal/game"
	"github.com/ayusman/fingergun/internal/overlay"
	"github.com/ayusman/fingergun/internal/plugin"
	"github.com/ayusman/fingergun/internal/server"
	"github.com/ayusman/fingergun/internal/store"
)

// maxReadFailures is how many camera reads in a row may fail before Run
// gives up.
const maxReadFailures = 30

// Options holds everything an App runs with. Store, Frames, Hub, Hooks and
// Display are optional.
type Options struct {
	Config   config.Config
	Camera   capture.Camera
	Detector detector.Detector

	Store   *store.Store
	Frames  *server.FrameBuffer
	Hub     *server.AimHub
	Hooks   *plugin.Dispatcher
	Display Display

	// OnScore is called from the frame loop whenever hits or shots change.
	OnScore func(hits, shots int)

	// Seed fixes target placement. Zero seeds from the clock.
	Seed uint64

	Log zerolog.Logger
}

// App runs one game session.
type App struct {
	opts     Options
	log      zerolog.Logger
	game     *game.Game
	renderer *overlay.Renderer

	paused   atomic.Bool
	newRound atomic.Bool

	mu      sync.Mutex
	session *store.Session
	frame   int
}

// New builds an App. Sprites are loaded here so a bad asset path fails
// before the camera opens.
func New(opts Options) (*App, error) {
	if opts.Camera == nil {
		return nil, fmt.Errorf("app: camera is required")
	}
	if opts.Detector == nil {
		return nil, fmt.Errorf("app: detector is required")
	}

	renderer, err := overlay.NewRenderer(opts.Config.Assets.Target, opts.Config.Assets.Bang)
	if err != nil {
		return nil, fmt.Errorf("app: %w", err)
	}

	return &App{
		opts:     opts,
		log:      opts.Log.With().Str("component", "app").Logger(),
		game:     game.New(gameConfig(opts.Config.Game, opts.Seed)),
		renderer: renderer,
	}, nil
}

func gameConfig(c config.GameConfig, seed uint64) game.Config {
	return game.Config{
		RangeMultiplier: c.RangeMultiplier,
		TargetRadius:    c.TargetRadius,
		BangFrames:      c.BangFrames,
		Seed:            seed,
	}
}

// NewDetector returns the MediaPipe detector, or a mock that never sees a
// hand when MediaPipe is disabled or unavailable.
func NewDetector(c config.DetectorConfig, log zerolog.Logger) detector.Detector {
	if c.Disabled {
		log.Info().Msg("hand detection disabled")
		return detector.NewMockDetector()
	}

	dc := detector.DefaultConfig()
	dc.ScriptPath = c.Script
	dc.MinConfidence = c.MinConfidence
	dc.MinTrackingConf = c.MinTrackingConf

	mp, err := detector.NewMediaPipeDetector(dc, log)
	if err != nil {
		log.Warn().Err(err).Msg("MediaPipe not available, playing without hand input")
		return detector.NewMockDetector()
	}
	log.Info().Msg("using MediaPipe hand detection")
	return mp
}

// NewCamera builds the webcam from config.
func NewCamera(c config.CameraConfig) capture.Camera {
	return capture.NewCamera(capture.Config{
		DeviceID: c.ID,
		Width:    c.Width,
		Height:   c.Height,
		FPS:      c.FPS,
	})
}

// SetPaused stops or resumes frame processing. The camera stays open.
func (a *App) SetPaused(paused bool) {
	a.paused.Store(paused)
	a.log.Info().Bool("paused", paused).Msg("pause toggled")
}

// IsPaused reports whether the loop is paused.
func (a *App) IsPaused() bool {
	return a.paused.Load()
}

// NewRound asks the loop to end the current session and start a fresh one
// before its next frame.
func (a *App) NewRound() {
	a.newRound.Store(true)
}

// Session returns the stored session being played, or nil without a store.
func (a *App) Session() *store.Session {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.session == nil {
		return nil
	}
	s := *a.session
	return &s
}

// Close releases the sprites and the detector.
func (a *App) Close() error {
	a.renderer.Close()
	if err := a.opts.Detector.Close(); err != nil {
		return fmt.Errorf("close detector: %w", err)
	}
	return nil
}

func (a *App) frameInterval() time.Duration {
	fps := a.opts.Camera.FPS()
	if fps <= 0 {
		fps = capture.DefaultFPS
	}
	return time.Second / time.Duration(fps)
}
