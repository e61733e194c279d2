package app

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gocv.io/x/gocv"

	"github.com/ayusman/fingergun/internal/capture"
	"github.com/ayusman/fingergun/internal/config"
	"github.com/ayusman/fingergun/internal/detector"
	"github.com/ayusman/fingergun/internal/gesture"
	"github.com/ayusman/fingergun/internal/server"
	"github.com/ayusman/fingergun/internal/store"
)

const (
	frameW = 640
	frameH = 480
)

// fakeDisplay replays scripted key presses, then reports KeyNone.
type fakeDisplay struct {
	keys   []int
	shown  int
	closed bool
}

func (d *fakeDisplay) Show(frame gocv.Mat) int {
	d.shown++
	if len(d.keys) == 0 {
		return KeyNone
	}
	k := d.keys[0]
	d.keys = d.keys[1:]
	return k
}

func (d *fakeDisplay) IsOpen() bool { return !d.closed }
func (d *fakeDisplay) Close() error { d.closed = true; return nil }

// brokenCamera opens but never yields a frame.
type brokenCamera struct{ open bool }

func (c *brokenCamera) Open() error                   { c.open = true; return nil }
func (c *brokenCamera) Close() error                  { c.open = false; return nil }
func (c *brokenCamera) ReadFrame() (*gocv.Mat, error) { return nil, errors.New("unplugged") }
func (c *brokenCamera) SetFPS(int)                    {}
func (c *brokenCamera) FPS() int                      { return capture.DefaultFPS }
func (c *brokenCamera) IsOpen() bool                  { return c.open }

func testConfig() config.Config {
	return config.Config{
		Game: config.GameConfig{
			RangeMultiplier: gesture.DefaultRangeMultiplier,
			TargetRadius:    20,
			BangFrames:      3,
			AimLine:         true,
			Debug:           true,
		},
	}
}

func gun(angle float64) []detector.HandLandmarks {
	return []detector.HandLandmarks{detector.PointingLandmarks(320, 300, angle, 60, frameW, frameH)}
}

// blankFrames returns a non-looping camera of n black frames.
func blankFrames(t *testing.T, n int) *capture.MockCamera {
	t.Helper()
	frames := make([]gocv.Mat, n)
	for i := range frames {
		frames[i] = gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), frameH, frameW, gocv.MatTypeCV8UC3)
	}
	cam := capture.NewMockCamera(frames, false)
	t.Cleanup(cam.Release)
	return cam
}

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("store.New() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func newTestApp(t *testing.T, opts Options) *App {
	t.Helper()
	if opts.Config.Game.TargetRadius == 0 {
		opts.Config = testConfig()
	}
	opts.Log = zerolog.Nop()
	opts.Seed = 7

	a, err := New(opts)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestApp_Run_RecordsHit(t *testing.T) {
	st := newTestStore(t)
	frames := server.NewFrameBuffer()
	display := &fakeDisplay{}

	det := detector.NewMockDetector()
	det.SetSequence([][]detector.HandLandmarks{gun(45), gun(10), nil, nil})

	var scores [][2]int
	a := newTestApp(t, Options{
		Camera:   blankFrames(t, 4),
		Detector: det,
		Store:    st,
		Frames:   frames,
		Hub:      server.NewAimHub(zerolog.Nop()),
		Display:  display,
		OnScore:  func(hits, shots int) { scores = append(scores, [2]int{hits, shots}) },
	})

	aim, ok := gesture.AimPoint(gesture.Extract(gun(10), frameW, frameH), gesture.DefaultRangeMultiplier)
	if !ok {
		t.Fatal("expected aim point for test hand")
	}
	a.game.SetTarget(gesture.Target{Center: aim, Radius: 20})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	if display.shown != 4 {
		t.Errorf("displayed %d frames, want 4", display.shown)
	}
	if len(scores) != 1 || scores[0] != [2]int{1, 1} {
		t.Errorf("score callbacks = %v, want [[1 1]]", scores)
	}

	sessions, err := st.Sessions().List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session, got %d", len(sessions))
	}
	s := sessions[0]
	if s.Score != 1 || s.Shots != 1 || s.EndedAt == nil {
		t.Errorf("session = %+v, want finished with 1/1", s)
	}
	if s.TargetRadius != 20 {
		t.Errorf("session radius = %v, want 20", s.TargetRadius)
	}

	shots, err := st.Shots().ListBySession(s.ID)
	if err != nil {
		t.Fatalf("ListBySession() error = %v", err)
	}
	if len(shots) != 1 || !shots[0].Hit || shots[0].Frame != 2 {
		t.Fatalf("shots = %+v, want one hit on frame 2", shots)
	}
	if shots[0].TargetX != aim.X || shots[0].TargetY != aim.Y {
		t.Errorf("shot target = (%v, %v), want (%v, %v)", shots[0].TargetX, shots[0].TargetY, aim.X, aim.Y)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	jpeg, seq, err := frames.Next(ctx, 0)
	if err != nil {
		t.Fatalf("no frame published: %v", err)
	}
	if seq != 4 || len(jpeg) < 2 || jpeg[0] != 0xFF || jpeg[1] != 0xD8 {
		t.Errorf("published seq %d, %d bytes, want 4 JPEG frames", seq, len(jpeg))
	}

	if a.Session() != nil {
		t.Error("session should be cleared after Run")
	}
}

func TestApp_Run_QuitKey(t *testing.T) {
	cam := capture.NewBlankCamera(frameW, frameH)
	t.Cleanup(cam.Release)
	display := &fakeDisplay{keys: []int{KeyNone, KeyEsc}}

	a := newTestApp(t, Options{Camera: cam, Detector: detector.NewMockDetector(), Display: display})

	done := make(chan error, 1)
	go func() { done <- a.Run(context.Background()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run() error = %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not stop on Esc")
	}
	if cam.Reads() != 2 {
		t.Errorf("camera reads = %d, want 2", cam.Reads())
	}
	if cam.IsOpen() {
		t.Error("camera should be closed after Run")
	}
}

func TestApp_Run_Paused(t *testing.T) {
	cam := capture.NewBlankCamera(frameW, frameH)
	t.Cleanup(cam.Release)

	a := newTestApp(t, Options{Camera: cam, Detector: detector.NewMockDetector()})
	a.SetPaused(true)
	if !a.IsPaused() {
		t.Fatal("IsPaused() = false after SetPaused(true)")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	if err := a.Run(ctx); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if cam.Reads() != 0 {
		t.Errorf("paused loop read %d frames", cam.Reads())
	}
}

func TestApp_Run_NewRound(t *testing.T) {
	st := newTestStore(t)

	var scores [][2]int
	a := newTestApp(t, Options{
		Camera:   blankFrames(t, 2),
		Detector: detector.NewMockDetector(),
		Store:    st,
		OnScore:  func(hits, shots int) { scores = append(scores, [2]int{hits, shots}) },
	})
	a.NewRound()

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	sessions, err := st.Sessions().List(0)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 sessions after a new round, got %d", len(sessions))
	}
	for _, s := range sessions {
		if s.EndedAt == nil {
			t.Errorf("session %s left unfinished", s.ID)
		}
	}
	if len(scores) != 1 || scores[0] != [2]int{0, 0} {
		t.Errorf("score callbacks = %v, want a single reset", scores)
	}
}

func TestApp_Run_CameraFailure(t *testing.T) {
	a := newTestApp(t, Options{Camera: &brokenCamera{}, Detector: detector.NewMockDetector()})

	err := a.Run(context.Background())
	if err == nil {
		t.Fatal("expected error from a camera that never reads")
	}
}

func TestApp_Run_DetectorErrorKeepsPlaying(t *testing.T) {
	det := detector.NewMockDetector()
	det.SetError(errors.New("service crashed"))

	a := newTestApp(t, Options{Camera: blankFrames(t, 3), Detector: det})

	if err := a.Run(context.Background()); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if hits, shots := a.game.Score(); hits != 0 || shots != 0 {
		t.Errorf("score = %d/%d, want 0/0", hits, shots)
	}
}

func TestNew_RequiresCameraAndDetector(t *testing.T) {
	if _, err := New(Options{Detector: detector.NewMockDetector()}); err == nil {
		t.Error("expected error without camera")
	}
	if _, err := New(Options{Camera: &brokenCamera{}}); err == nil {
		t.Error("expected error without detector")
	}
}

func TestNew_BadAsset(t *testing.T) {
	cfg := testConfig()
	cfg.Assets.Target = "/nonexistent/target.png"

	_, err := New(Options{Config: cfg, Camera: &brokenCamera{}, Detector: detector.NewMockDetector()})
	if err == nil {
		t.Error("expected error for missing sprite")
	}
}

func TestNewDetector_Disabled(t *testing.T) {
	d := NewDetector(config.DetectorConfig{Disabled: true}, zerolog.Nop())
	defer d.Close()

	if _, ok := d.(*detector.MockDetector); !ok {
		t.Errorf("NewDetector() = %T, want *detector.MockDetector", d)
	}
}

func TestHome(t *testing.T) {
	tests := []struct {
		name      string
		keys      []int
		closed    bool
		want      bool
		wantShown int
	}{
		{name: "enter starts", keys: []int{KeyNone, KeyNone, KeyEnter}, want: true, wantShown: 3},
		{name: "esc exits", keys: []int{KeyNone, KeyEsc}, want: false, wantShown: 2},
		{name: "closed window exits", closed: true, want: false, wantShown: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &fakeDisplay{keys: tt.keys, closed: tt.closed}

			if got := Home(context.Background(), d, 320, 240); got != tt.want {
				t.Errorf("Home() = %v, want %v", got, tt.want)
			}
			if d.shown != tt.wantShown {
				t.Errorf("shown %d frames, want %d", d.shown, tt.wantShown)
			}
		})
	}
}

func TestHome_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	d := &fakeDisplay{}
	if Home(ctx, d, 320, 240) {
		t.Error("Home() = true on cancelled context")
	}
	if d.shown != 0 {
		t.Errorf("shown %d frames, want 0", d.shown)
	}
}

func TestDrawHome_FillsFrame(t *testing.T) {
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 240, 320, gocv.MatTypeCV8UC3)
	defer frame.Close()

	DrawHome(&frame, time.Second)

	if px := frame.GetVecbAt(0, 0); px[0] == 0 && px[1] == 0 && px[2] == 0 {
		t.Error("expected background drawn at the corner")
	}
}
