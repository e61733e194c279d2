// Command sound is a fingergun hook plugin that plays a sound file for game
// events. Build it into this directory: go build -o plugins/sound/sound ./plugins/sound
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// Request is the event sent by the game.
type Request struct {
	Event  string          `json:"event"`
	Score  int             `json:"score"`
	Shots  int             `json:"shots"`
	Config json.RawMessage `json:"config"`
}

// Response is returned to the game.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Config maps event names to sound files relative to the plugin directory.
// An empty entry keeps that event silent.
type Config map[string]string

// players lists command line audio players per OS, tried in order.
var players = map[string][][]string{
	"darwin": {{"afplay"}},
	"linux":  {{"paplay"}, {"aplay", "-q"}},
}

func main() {
	var req Request
	if err := json.NewDecoder(os.Stdin).Decode(&req); err != nil {
		writeErrorResponse(fmt.Sprintf("failed to decode request: %v", err))
		return
	}

	var cfg Config
	if len(req.Config) > 0 {
		if err := json.Unmarshal(req.Config, &cfg); err != nil {
			writeErrorResponse(fmt.Sprintf("invalid config: %v", err))
			return
		}
	}

	file, ok := cfg[req.Event]
	if !ok {
		writeErrorResponse(fmt.Sprintf("unknown event: %s", req.Event))
		return
	}
	if file == "" {
		writeSuccessResponse()
		return
	}

	if err := play(file); err != nil {
		writeErrorResponse(fmt.Sprintf("event %s failed: %v", req.Event, err))
		return
	}

	writeSuccessResponse()
}

// play runs the first available player for this OS on file.
func play(file string) error {
	if _, err := os.Stat(file); err != nil {
		return err
	}

	for _, player := range players[runtime.GOOS] {
		path, err := exec.LookPath(player[0])
		if err != nil {
			continue
		}
		args := append(append([]string{}, player[1:]...), file)
		out, err := exec.Command(path, args...).CombinedOutput()
		if err != nil {
			return fmt.Errorf("%s: %w: %s", player[0], err, out)
		}
		return nil
	}

	return errors.New("no audio player found")
}

func writeErrorResponse(errMsg string) {
	json.NewEncoder(os.Stdout).Encode(Response{Success: false, Error: errMsg})
}

func writeSuccessResponse() {
	json.NewEncoder(os.Stdout).Encode(Response{Success: true})
}
