package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gocv.io/x/gocv"

	"github.com/ayusman/fingergun/internal/capture"
	"github.com/ayusman/fingergun/internal/game"
	"github.com/ayusman/fingergun/internal/overlay"
	"github.com/ayusman/fingergun/internal/plugin"
	"github.com/ayusman/fingergun/internal/server"
	"github.com/ayusman/fingergun/internal/store"
)

// Run plays until ctx is cancelled, the camera runs out of frames or the
// player closes the window. The stored session is finished on the way out.
func (a *App) Run(ctx context.Context) error {
	if !a.opts.Camera.IsOpen() {
		if err := a.opts.Camera.Open(); err != nil {
			return fmt.Errorf("open camera: %w", err)
		}
		defer a.opts.Camera.Close()
	}

	if err := a.startSession(); err != nil {
		return err
	}
	defer a.finishSession()

	a.log.Info().Msg("game loop started")
	defer a.log.Info().Msg("game loop stopped")

	failures := 0
	for {
		if err := ctx.Err(); err != nil {
			return nil
		}

		if a.newRound.Swap(false) {
			if err := a.restart(); err != nil {
				return err
			}
		}

		if a.paused.Load() {
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(a.frameInterval()):
			}
			continue
		}

		frame, err := a.opts.Camera.ReadFrame()
		if errors.Is(err, capture.ErrNoMoreFrames) {
			return nil
		}
		if err != nil {
			failures++
			if failures >= maxReadFailures {
				return fmt.Errorf("read frame: %w", err)
			}
			a.log.Warn().Err(err).Msg("error reading frame")
			continue
		}
		failures = 0

		quit := a.processFrame(frame)
		frame.Close()
		if quit {
			return nil
		}
	}
}

// processFrame runs one frame through the game and every output. It reports
// whether the player asked to quit.
func (a *App) processFrame(frame *gocv.Mat) bool {
	if a.opts.Config.Camera.Mirror {
		capture.Mirror(frame)
	}

	hands, err := a.opts.Detector.Detect(frame)
	if err != nil {
		a.log.Debug().Err(err).Msg("hand detection failed")
		hands = nil
	}

	a.frame++
	prevHits, prevShots := a.game.Score()
	f := a.game.Step(hands, frame.Cols(), frame.Rows())

	a.render(frame, f)

	if a.opts.Frames != nil {
		if err := a.opts.Frames.Publish(*frame); err != nil {
			a.log.Debug().Err(err).Msg("failed to publish frame")
		}
	}
	if a.opts.Hub != nil {
		a.opts.Hub.Publish(a.event(f))
	}

	if f.Shot {
		a.recordShot(f)
		a.fireHooks(f)
	}
	if a.opts.OnScore != nil && (f.Score != prevHits || f.Shots != prevShots) {
		a.opts.OnScore(f.Score, f.Shots)
	}

	if a.opts.Display != nil {
		return isQuitKey(a.opts.Display.Show(*frame)) || !a.opts.Display.IsOpen()
	}
	return false
}

func (a *App) render(dst *gocv.Mat, f game.Frame) {
	center := f.Target.Center.Image()

	var err error
	if f.Banging {
		err = a.renderer.PutBang(dst, center, f.Target.Radius)
	} else {
		err = a.renderer.PutTarget(dst, center, f.Target.Radius)
	}
	if err != nil {
		a.log.Debug().Err(err).Msg("failed to draw target")
	}

	if a.opts.Config.Game.AimLine {
		overlay.DrawAimLine(dst, f.Aim.Keypoints, a.opts.Config.Game.RangeMultiplier)
	}
	if a.opts.Config.Game.Debug {
		overlay.DrawDebug(dst, f.Aim.Keypoints, f.Aim.Relative)
	}
	overlay.DrawHUD(dst, f.Score, f.Shots)
}

func (a *App) event(f game.Frame) server.AimEvent {
	typ := "aim"
	switch {
	case f.Hit:
		typ = "hit"
	case f.Shot:
		typ = "miss"
	}

	return server.AimEvent{
		Type:         typ,
		Frame:        a.frame,
		HasAim:       f.HasAim,
		Angle:        f.Aim.Angle,
		AimX:         f.AimPoint.X,
		AimY:         f.AimPoint.Y,
		TargetX:      f.Target.Center.X,
		TargetY:      f.Target.Center.Y,
		TargetRadius: f.Target.Radius,
		Banging:      f.Banging,
		Score:        f.Score,
		Shots:        f.Shots,
	}
}

func (a *App) recordShot(f game.Frame) {
	a.log.Debug().
		Int("frame", a.frame).
		Float64("angle", f.Aim.Angle).
		Bool("hit", f.Hit).
		Int("score", f.Score).
		Int("shots", f.Shots).
		Msg("shot")

	session := a.Session()
	if session == nil {
		return
	}

	shot := &store.Shot{
		SessionID: session.ID,
		Frame:     a.frame,
		Angle:     f.Aim.Angle,
		AimX:      f.AimPoint.X,
		AimY:      f.AimPoint.Y,
		TargetX:   f.Target.Center.X,
		TargetY:   f.Target.Center.Y,
		Hit:       f.Hit,
	}
	if err := a.opts.Store.Shots().Record(shot); err != nil {
		a.log.Error().Err(err).Msg("failed to record shot")
	}
	if err := a.opts.Store.Sessions().UpdateScore(session.ID, f.Score, f.Shots); err != nil {
		a.log.Error().Err(err).Msg("failed to update score")
	}

	a.mu.Lock()
	if a.session != nil {
		a.session.Score = f.Score
		a.session.Shots = f.Shots
	}
	a.mu.Unlock()
}

func (a *App) fireHooks(f game.Frame) {
	if a.opts.Hooks == nil {
		return
	}

	req := plugin.Request{
		Event: plugin.EventShot,
		Frame: a.frame,
		Angle: f.Aim.Angle,
		AimX:  f.AimPoint.X,
		AimY:  f.AimPoint.Y,
		Score: f.Score,
		Shots: f.Shots,
	}
	if s := a.Session(); s != nil {
		req.SessionID = s.ID
	}
	a.opts.Hooks.Dispatch(req)

	if f.Hit {
		req.Event = plugin.EventHit
	} else {
		req.Event = plugin.EventMiss
	}
	a.opts.Hooks.Dispatch(req)
}

func (a *App) startSession() error {
	a.frame = 0
	if a.opts.Store == nil {
		return nil
	}

	s := &store.Session{
		TargetRadius:    a.opts.Config.Game.TargetRadius,
		RangeMultiplier: a.opts.Config.Game.RangeMultiplier,
	}
	if err := a.opts.Store.Sessions().Create(s); err != nil {
		return fmt.Errorf("start session: %w", err)
	}

	a.mu.Lock()
	a.session = s
	a.mu.Unlock()

	a.log.Info().Str("session", s.ID).Msg("session started")
	return nil
}

func (a *App) finishSession() {
	a.mu.Lock()
	s := a.session
	a.session = nil
	a.mu.Unlock()

	hits, shots := a.game.Score()
	a.log.Info().Int("score", hits).Int("shots", shots).Msg("round over")

	if s == nil {
		return
	}
	if err := a.opts.Store.Sessions().Finish(s.ID, hits, shots); err != nil {
		a.log.Error().Err(err).Str("session", s.ID).Msg("failed to finish session")
	}
}

func (a *App) restart() error {
	a.finishSession()
	a.game.Reset()
	if a.opts.OnScore != nil {
		a.opts.OnScore(0, 0)
	}
	return a.startSession()
}
