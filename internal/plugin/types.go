// Package plugin runs external hook programs on game events.
//
// A plugin is a directory holding a plugin.json manifest and an executable.
// For every subscribed event the executable is started with a JSON Request
// on stdin and must print a JSON Response on stdout.
package plugin

import (
	"encoding/json"
	"slices"
)

// Game events a plugin may subscribe to.
const (
	EventShot = "shot"
	EventHit  = "hit"
	EventMiss = "miss"
)

// Manifest describes a plugin and the events it handles.
type Manifest struct {
	Name        string          `json:"name"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Executable  string          `json:"executable"`
	Events      []string        `json:"events"`
	Config      json.RawMessage `json:"config,omitempty"`
}

// Request is the event payload sent to a plugin.
type Request struct {
	Event     string          `json:"event"`
	SessionID string          `json:"sessionId,omitempty"`
	Frame     int             `json:"frame"`
	Angle     float64         `json:"angle"`
	AimX      float64         `json:"aimX"`
	AimY      float64         `json:"aimY"`
	Score     int             `json:"score"`
	Shots     int             `json:"shots"`
	Config    json.RawMessage `json:"config,omitempty"`
}

// Response is a plugin's reply.
type Response struct {
	Success bool            `json:"success"`
	Error   string          `json:"error,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
}

// Plugin is a discovered plugin.
type Plugin struct {
	Manifest   Manifest
	Path       string
	Executable string
}

// Handles reports whether the plugin subscribed to event.
func (p *Plugin) Handles(event string) bool {
	return slices.Contains(p.Manifest.Events, event)
}
