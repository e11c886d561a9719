// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package hero simulates the particle wordmark on the home page. A Scene
// is plain data and Step advances it by one animation frame, returning a
// new Scene. Randomness comes in through Rand so runs can be replayed.
package hero

import "math"

// Words cycle through the animation in this order.
var Words = []string{"SCALERS", "SCALE", "GROW", "WIN", "LEAD", "SCALERS"}

// Phase is where the current word is in its life.
type Phase int

const (
	Forming Phase = iota
	Hold
	Dispersing
	Gap
)

// Duration is the phase length in frames.
func (p Phase) Duration() int {
	switch p {
	case Forming:
		return 90
	case Hold:
		return 160
	case Dispersing:
		return 60
	}
	return 30
}

func (p Phase) String() string {
	switch p {
	case Forming:
		return "forming"
	case Hold:
		return "hold"
	case Dispersing:
		return "dispersing"
	}
	return "gap"
}

// Rand is the randomness a Scene consumes. *rand.Rand from math/rand/v2
// satisfies it.
type Rand interface {
	Float64() float64
	IntN(n int) int
}

var (
	particleColors = []string{"#ffffff", "#ffffff", "#E8E4D9", "#ff6b85", "#D91E36", "#ffffff"}
	sparkColors    = [2]string{"#ff6b85", "#E8E4D9"}
)

// Particle is one dot of the wordmark. TX/TY is its place in the word.
type Particle struct {
	TX, TY      float64
	X, Y        float64
	VX, VY      float64
	Size        float64
	BaseSize    float64
	Ease        float64
	Alpha       float64
	TargetAlpha float64
	Wob         float64
	WobSpeed    float64
	WobAmp      float64
	Color       string
}

// Spark is a short-lived ember thrown off by dispersal or a click.
type Spark struct {
	X, Y   float64
	VX, VY float64
	Alpha  float64
	Size   float64
	Color  string
}

// Point is a position on the canvas.
type Point struct{ X, Y float64 }

// Input is what the visitor did since the last frame.
type Input struct {
	Pointer *Point  // nil when the pointer is outside the canvas
	Attract bool    // pull particles toward the pointer instead of scattering
	Clicks  []Point // each click bursts 30 sparks
}

// Scene is the complete animation state.
type Scene struct {
	W, H      int
	Particles []Particle
	Sparks    []Spark
	Frame     int
	Timer     int
	WordIndex int
	Phase     Phase
}

// Word is the word the particles are currently forming.
func (s Scene) Word() string {
	return Words[s.WordIndex%len(Words)]
}

const (
	repelRadius   = 130.0
	repelPush     = 9.0
	attractMin    = 5.0
	attractRadius = 200.0
	attractPull   = 0.08
	clickSparks   = 30
)

// NewScene starts the first word forming on a w×h canvas.
func NewScene(w, h int, rng Rand) Scene {
	s := Scene{W: w, H: h, Phase: Forming}
	s.Particles = spawn(s.Word(), w, h, rng)
	return s
}

// Density is the sampling step in pixels for a canvas w wide.
func Density(w int) int {
	return max(3, w/165)
}

func spawn(word string, w, h int, rng Rand) []Particle {
	pts := Sample(word, w, h, Density(w))
	out := make([]Particle, len(pts))
	for i, p := range pts {
		out[i] = newParticle(p, w, h, rng)
	}
	return out
}

// newParticle places a particle just off a random canvas edge.
func newParticle(target Point, w, h int, rng Rand) Particle {
	p := Particle{TX: target.X, TY: target.Y}
	p.Color = particleColors[rng.IntN(len(particleColors))]
	p.Size = rng.Float64()*2.6 + 0.6
	p.BaseSize = p.Size

	fw, fh := float64(w), float64(h)
	switch rng.IntN(4) {
	case 0:
		p.X, p.Y = rng.Float64()*fw, -30
	case 1:
		p.X, p.Y = fw+30, rng.Float64()*fh
	case 2:
		p.X, p.Y = rng.Float64()*fw, fh+30
	default:
		p.X, p.Y = -30, rng.Float64()*fh
	}

	p.Ease = 0.044 + rng.Float64()*0.04
	p.TargetAlpha = 0.75 + rng.Float64()*0.25
	p.Wob = rng.Float64() * math.Pi * 2
	p.WobSpeed = 0.014 + rng.Float64()*0.02
	p.WobAmp = rng.Float64() * 0.9
	return p
}

func newSpark(at Point, explosive bool, rng Rand) Spark {
	speed := 4.0
	if explosive {
		speed = 7
	}
	sp := Spark{
		X:     at.X,
		Y:     at.Y,
		VX:    (rng.Float64() - 0.5) * speed,
		VY:    (rng.Float64()-0.5)*speed - 1.5,
		Alpha: 0.95,
		Size:  rng.Float64()*2.8 + 0.5,
		Color: sparkColors[1],
	}
	if rng.Float64() > 0.5 {
		sp.Color = sparkColors[0]
	}
	return sp
}
