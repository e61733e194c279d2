// Package game runs a single-player target round on top of the gesture core.
package game

import (
	"math/rand/v2"
	"time"

	"github.com/ayusman/fingergun/internal/detector"
	"github.com/ayusman/fingergun/internal/gesture"
)

// Config holds round parameters.
type Config struct {
	// RangeMultiplier projects the aim this many finger lengths out.
	RangeMultiplier float64
	// TargetRadius is the hit radius in pixels.
	TargetRadius float64
	// BangFrames is how many frames the hit marker stays up before a new
	// target spawns.
	BangFrames int
	// Seed fixes target placement. Zero seeds from the clock.
	Seed uint64
}

// DefaultConfig returns the standard round settings.
func DefaultConfig() Config {
	return Config{
		RangeMultiplier: gesture.DefaultRangeMultiplier,
		TargetRadius:    100,
		BangFrames:      10,
	}
}

// Frame is the outcome of one Step.
type Frame struct {
	Aim      gesture.AimState
	AimPoint gesture.Point
	HasAim   bool
	Shot     bool
	Hit      bool
	// Target is the live target, or the one just hit while Banging.
	Target  gesture.Target
	Banging bool
	Score   int
	Shots   int
}

// Game is one round. It is not safe for concurrent use.
type Game struct {
	config Config
	rng    *rand.Rand

	prev      gesture.AimState
	target    gesture.Target
	hasTarget bool
	bang      int

	score int
	shots int
}

// New creates a round. The first target spawns on the first Step, once the
// frame size is known.
func New(config Config) *Game {
	seed := config.Seed
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Game{
		config: config,
		rng:    rand.New(rand.NewPCG(seed, seed>>1|1)),
		prev:   gesture.NoPreviousFrame,
	}
}

// Step advances the round by one camera frame of detector output.
func (g *Game) Step(hands []detector.HandLandmarks, width, height int) Frame {
	if g.bang > 0 {
		g.bang--
		if g.bang == 0 {
			g.hasTarget = false
		}
	}
	if !g.hasTarget {
		g.spawn(width, height)
	}

	cur := gesture.Resolve(hands, width, height)
	aim, hasAim := gesture.AimPoint(cur.Keypoints, g.config.RangeMultiplier)

	f := Frame{
		Aim:      cur,
		AimPoint: aim,
		HasAim:   hasAim,
		Shot:     gesture.IsShot(g.prev, cur),
	}

	if f.Shot {
		g.shots++
		if g.bang == 0 && gesture.IsHit(cur.Keypoints, g.config.RangeMultiplier, g.target) {
			f.Hit = true
			g.score++
			g.bang = g.config.BangFrames
			if g.bang <= 0 {
				g.bang = 0
				g.hasTarget = false
			}
		}
	}

	g.prev = cur

	f.Target = g.target
	f.Banging = g.bang > 0
	f.Score = g.score
	f.Shots = g.shots
	return f
}

// Target returns the current target.
func (g *Game) Target() gesture.Target {
	return g.target
}

// SetTarget places the target explicitly, cancelling any bang in progress.
func (g *Game) SetTarget(t gesture.Target) {
	g.target = t
	g.hasTarget = true
	g.bang = 0
}

// Score returns hits and shots so far.
func (g *Game) Score() (hits, shots int) {
	return g.score, g.shots
}

// Reset starts a fresh round, keeping the configuration.
func (g *Game) Reset() {
	g.prev = gesture.NoPreviousFrame
	g.hasTarget = false
	g.bang = 0
	g.score = 0
	g.shots = 0
}

// spawn places a new target whose whole circle lies inside the frame. A
// frame narrower than the target centers it on that axis.
func (g *Game) spawn(width, height int) {
	r := int(g.config.TargetRadius)
	g.target = gesture.Target{
		Center: gesture.Point{
			X: float64(g.coord(width, r)),
			Y: float64(g.coord(height, r)),
		},
		Radius: g.config.TargetRadius,
	}
	g.hasTarget = true
}

func (g *Game) coord(extent, r int) int {
	span := extent - 2*r
	if span <= 0 {
		return extent / 2
	}
	return r + g.rng.IntN(span+1)
}
