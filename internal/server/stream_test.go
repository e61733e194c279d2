package server

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

func TestFrameBuffer_Next(t *testing.T) {
	b := NewFrameBuffer()

	t.Run("empty buffer waits for context", func(t *testing.T) {
		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()

		if _, _, err := b.Next(ctx, 0); err == nil {
			t.Error("expected context error from empty buffer")
		}
	})

	t.Run("returns latest frame", func(t *testing.T) {
		b.PublishJPEG([]byte("one"))
		b.PublishJPEG([]byte("two"))

		data, seq, err := b.Next(context.Background(), 0)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if string(data) != "two" || seq != 2 {
			t.Errorf("Next() = %q, %d, want \"two\", 2", data, seq)
		}
	})

	t.Run("blocks until a newer frame", func(t *testing.T) {
		go func() {
			time.Sleep(20 * time.Millisecond)
			b.PublishJPEG([]byte("three"))
		}()

		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		data, seq, err := b.Next(ctx, 2)
		if err != nil {
			t.Fatalf("Next() error = %v", err)
		}
		if string(data) != "three" || seq != 3 {
			t.Errorf("Next() = %q, %d, want \"three\", 3", data, seq)
		}
	})

	t.Run("copies published data", func(t *testing.T) {
		src := []byte("four")
		b.PublishJPEG(src)
		src[0] = 'X'

		data, _, _ := b.Next(context.Background(), 3)
		if string(data) != "four" {
			t.Errorf("Next() = %q, want \"four\"", data)
		}
	})
}

func TestFrameBuffer_PublishMat(t *testing.T) {
	b := NewFrameBuffer()
	frame := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(30, 60, 90, 0), 48, 64, gocv.MatTypeCV8UC3)
	defer frame.Close()

	if err := b.Publish(frame); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}

	data, _, err := b.Next(context.Background(), 0)
	if err != nil {
		t.Fatalf("Next() error = %v", err)
	}
	if !bytes.HasPrefix(data, []byte{0xFF, 0xD8}) {
		t.Errorf("published frame is not a JPEG: % x", data[:min(4, len(data))])
	}
}

func TestStreamHandler_ServesMultipart(t *testing.T) {
	frames := NewFrameBuffer()
	ts := httptest.NewServer(NewStreamHandler(frames))
	defer ts.Close()

	// Keep frames coming so each part is terminated by the next boundary
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		ticker := time.NewTicker(10 * time.Millisecond)
		defer ticker.Stop()
		for i := 0; ; i++ {
			frames.PublishJPEG([]byte(fmt.Sprintf("jpeg-%d", i)))
			select {
			case <-stop:
				return
			case <-ticker.C:
			}
		}
	}()

	resp, err := http.Get(ts.URL)
	if err != nil {
		t.Fatalf("GET stream error = %v", err)
	}
	defer resp.Body.Close()

	if ct := resp.Header.Get("Content-Type"); ct != "multipart/x-mixed-replace; boundary=frame" {
		t.Fatalf("Content-Type = %q", ct)
	}

	mr := multipart.NewReader(resp.Body, "frame")
	for i := 0; i < 2; i++ {
		part, err := mr.NextPart()
		if err != nil {
			t.Fatalf("NextPart() %d error = %v", i, err)
		}
		if ct := part.Header.Get("Content-Type"); ct != "image/jpeg" {
			t.Errorf("part Content-Type = %q, want image/jpeg", ct)
		}
		body, err := io.ReadAll(part)
		if err != nil {
			t.Fatalf("reading part %d: %v", i, err)
		}
		if !strings.HasPrefix(string(body), "jpeg-") {
			t.Errorf("part %d body = %q", i, body)
		}
	}
}

func TestStreamHandler_MethodNotAllowed(t *testing.T) {
	h := NewStreamHandler(NewFrameBuffer())

	req := httptest.NewRequest(http.MethodPost, "/api/stream", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
	}
}
