package capture

import (
	"errors"
	"testing"

	"gocv.io/x/gocv"
)

func blank() gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), 480, 640, gocv.MatTypeCV8UC3)
}

func TestMockCamera_Playback(t *testing.T) {
	cam := NewMockCamera([]gocv.Mat{blank(), blank()}, false)
	defer cam.Release()

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrCameraNotOpen) {
		t.Errorf("ReadFrame() before Open = %v, want ErrCameraNotOpen", err)
	}

	if err := cam.Open(); err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer cam.Close()

	for i := 0; i < 2; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() %d error = %v", i, err)
		}
		f.Close()
	}

	if _, err := cam.ReadFrame(); !errors.Is(err, ErrNoMoreFrames) {
		t.Errorf("third ReadFrame() = %v, want ErrNoMoreFrames", err)
	}
	if got := cam.Reads(); got != 2 {
		t.Errorf("Reads() = %d, want 2", got)
	}
}

func TestMockCamera_Loop(t *testing.T) {
	cam := NewBlankCamera(320, 240)
	defer cam.Release()
	cam.Open()
	defer cam.Close()

	for i := 0; i < 5; i++ {
		f, err := cam.ReadFrame()
		if err != nil {
			t.Fatalf("ReadFrame() iteration %d error = %v", i, err)
		}
		if f.Cols() != 320 || f.Rows() != 240 {
			t.Errorf("frame size = %dx%d, want 320x240", f.Cols(), f.Rows())
		}
		f.Close()
	}
}

func TestMockCamera_ReturnsCopies(t *testing.T) {
	cam := NewBlankCamera(4, 4)
	defer cam.Release()
	cam.Open()

	f, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	f.SetUCharAt(0, 0, 255)
	f.Close()

	g, err := cam.ReadFrame()
	if err != nil {
		t.Fatalf("ReadFrame() error = %v", err)
	}
	defer g.Close()
	if got := g.GetUCharAt(0, 0); got != 0 {
		t.Errorf("source frame modified through a read: got %d", got)
	}
}

func TestMockCamera_Empty(t *testing.T) {
	cam := NewMockCamera(nil, true)
	cam.Open()

	if _, err := cam.ReadFrame(); err == nil {
		t.Error("expected error with no frames")
	}
}
