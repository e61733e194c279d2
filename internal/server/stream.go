package server

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"gocv.io/x/gocv"
)

// FrameBuffer holds the most recently rendered frame as JPEG. The game loop
// publishes into it and any number of stream clients read from it.
type FrameBuffer struct {
	mu      sync.Mutex
	jpeg    []byte
	seq     uint64
	changed chan struct{}
}

// NewFrameBuffer returns an empty FrameBuffer.
func NewFrameBuffer() *FrameBuffer {
	return &FrameBuffer{changed: make(chan struct{})}
}

// Publish encodes frame as JPEG and makes it the latest frame.
func (b *FrameBuffer) Publish(frame gocv.Mat) error {
	buf, err := gocv.IMEncode(gocv.JPEGFileExt, frame)
	if err != nil {
		return fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	b.PublishJPEG(buf.GetBytes())
	return nil
}

// PublishJPEG stores an already encoded frame. data is copied.
func (b *FrameBuffer) PublishJPEG(data []byte) {
	jpeg := make([]byte, len(data))
	copy(jpeg, data)

	b.mu.Lock()
	b.jpeg = jpeg
	b.seq++
	close(b.changed)
	b.changed = make(chan struct{})
	b.mu.Unlock()
}

// Next blocks until a frame newer than after is available and returns it
// with its sequence number.
func (b *FrameBuffer) Next(ctx context.Context, after uint64) ([]byte, uint64, error) {
	for {
		b.mu.Lock()
		if b.seq > after {
			jpeg, seq := b.jpeg, b.seq
			b.mu.Unlock()
			return jpeg, seq, nil
		}
		changed := b.changed
		b.mu.Unlock()

		select {
		case <-ctx.Done():
			return nil, after, ctx.Err()
		case <-changed:
		}
	}
}

// StreamHandler serves the rendered game as MJPEG.
type StreamHandler struct {
	frames *FrameBuffer
}

// NewStreamHandler creates a StreamHandler reading from frames.
func NewStreamHandler(frames *FrameBuffer) *StreamHandler {
	return &StreamHandler{frames: frames}
}

func (h *StreamHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "multipart/x-mixed-replace; boundary=frame")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	var seq uint64
	for {
		jpeg, next, err := h.frames.Next(r.Context(), seq)
		if err != nil {
			return
		}
		seq = next

		fmt.Fprintf(w, "--frame\r\n")
		fmt.Fprintf(w, "Content-Type: image/jpeg\r\n")
		fmt.Fprintf(w, "Content-Length: %d\r\n\r\n", len(jpeg))
		if _, err := w.Write(jpeg); err != nil {
			return
		}
		fmt.Fprintf(w, "\r\n")

		if f, ok := w.(http.Flusher); ok {
			f.Flush()
		}
	}
}
