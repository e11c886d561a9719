// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hero

import (
	"bytes"
	"math"
	"math/rand/v2"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// midRand always answers the middle of the range, which cancels every
// random kick.
type midRand struct{}

func (midRand) Float64() float64 { return 0.5 }
func (midRand) IntN(n int) int   { return n / 2 }

func seeded() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

func TestDensity(t *testing.T) {
	tests := map[int]int{320: 3, 495: 3, 660: 4, 1650: 10, 1920: 11}
	for w, want := range tests {
		if got := Density(w); got != want {
			t.Errorf("Density(%d) = %d, want %d", w, got, want)
		}
	}
}

func TestSample(t *testing.T) {
	const w, h = 1200, 600
	pts := Sample("SCALERS", w, h, Density(w))
	if len(pts) < 100 {
		t.Fatalf("too few points: %d", len(pts))
	}
	var minX, maxX = math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		if p.X < 0 || p.X >= w || p.Y < 0 || p.Y >= h {
			t.Fatalf("point outside canvas: %+v", p)
		}
		minX, maxX = math.Min(minX, p.X), math.Max(maxX, p.X)
	}
	// Roughly centred.
	if mid := (minX + maxX) / 2; math.Abs(mid-w/2) > w*0.1 {
		t.Errorf("word centre at x=%.0f, want near %d", mid, w/2)
	}
	// Shorter words are drawn larger, so not fewer points per letter.
	if short := Sample("WIN", w, h, Density(w)); len(short) == 0 {
		t.Error("WIN produced no points")
	}
	if Sample("", w, h, 3) != nil || Sample("X", 0, h, 3) != nil {
		t.Error("degenerate input should yield nil")
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	rng := seeded()
	s := NewScene(800, 400, rng)
	s = Step(s, Input{Clicks: []Point{{400, 200}}}, rng)

	before := Scene{
		W: s.W, H: s.H, Frame: s.Frame, Timer: s.Timer, WordIndex: s.WordIndex, Phase: s.Phase,
		Particles: append([]Particle(nil), s.Particles...),
		Sparks:    append([]Spark(nil), s.Sparks...),
	}
	_ = Step(s, Input{Pointer: &Point{400, 200}, Clicks: []Point{{10, 10}}}, rng)

	if diff := cmp.Diff(before, s); diff != "" {
		t.Errorf("Step mutated its input (-before +after):\n%s", diff)
	}
}

func TestPhaseCycle(t *testing.T) {
	rng := seeded()
	s := NewScene(660, 330, rng)
	if s.Phase != Forming || s.Word() != "SCALERS" {
		t.Fatalf("start: %v %q", s.Phase, s.Word())
	}

	advance := func(n int) {
		for range n {
			s = Step(s, Input{}, rng)
		}
	}

	advance(89)
	if s.Phase != Forming {
		t.Fatalf("after 89 frames: %v, want forming", s.Phase)
	}
	advance(1)
	if s.Phase != Hold || s.Timer != 0 {
		t.Fatalf("after 90 frames: %v timer=%d", s.Phase, s.Timer)
	}
	advance(160)
	if s.Phase != Dispersing {
		t.Fatalf("after hold: %v", s.Phase)
	}
	advance(60)
	if s.Phase != Gap || s.Word() != "SCALE" {
		t.Fatalf("after dispersing: %v %q", s.Phase, s.Word())
	}
	old := len(s.Particles)
	advance(30)
	if s.Phase != Forming {
		t.Fatalf("after gap: %v", s.Phase)
	}
	if len(s.Particles) == old {
		t.Errorf("particles not rebuilt for %q (still %d)", s.Word(), old)
	}
	for _, p := range s.Particles {
		if p.Alpha != 0 {
			t.Fatal("fresh particles should start invisible")
		}
	}
}

func TestWordsWrap(t *testing.T) {
	s := Scene{WordIndex: len(Words)}
	if s.Word() != Words[0] {
		t.Errorf("Word() = %q, want %q", s.Word(), Words[0])
	}
}

func TestParticleSpringsToTarget(t *testing.T) {
	p := Particle{TX: 100, TY: 100, X: 0, Y: 0, Ease: 0.06, TargetAlpha: 1}
	for frame := range 200 {
		p = stepParticle(p, Input{}, false, frame, midRand{})
	}
	if math.Hypot(p.X-100, p.Y-100) > 0.5 {
		t.Errorf("particle at (%.2f, %.2f), want near target", p.X, p.Y)
	}
	if p.Alpha < 0.99 {
		t.Errorf("alpha %.3f, want close to target 1", p.Alpha)
	}
}

func TestDispersingFades(t *testing.T) {
	p := Particle{X: 50, Y: 50, Alpha: 1}
	p = stepParticle(p, Input{}, true, 1, midRand{})
	if math.Abs(p.Alpha-0.982) > 1e-9 {
		t.Errorf("alpha = %v, want 0.982", p.Alpha)
	}
	// With the kick cancelled only gravity remains: 0.4 * 0.93.
	if p.VX != 0 || math.Abs(p.VY-0.372) > 1e-9 {
		t.Errorf("velocity = (%v, %v)", p.VX, p.VY)
	}
}

func TestPointerRepelAndAttract(t *testing.T) {
	at := Particle{TX: 100, TY: 100, X: 100, Y: 100}
	ptr := &Point{X: 60, Y: 100}

	repelled := stepParticle(at, Input{Pointer: ptr}, false, 0, midRand{})
	if repelled.X <= 100 {
		t.Errorf("repel: x = %.2f, want pushed right of 100", repelled.X)
	}

	attracted := stepParticle(at, Input{Pointer: ptr, Attract: true}, false, 0, midRand{})
	if attracted.VX >= 0 {
		t.Errorf("attract: vx = %.3f, want pulled left", attracted.VX)
	}

	far := stepParticle(at, Input{Pointer: &Point{X: 1000, Y: 1000}}, false, 0, midRand{})
	plain := stepParticle(at, Input{}, false, 0, midRand{})
	if far != plain {
		t.Error("a distant pointer should have no effect")
	}

	onTop := stepParticle(at, Input{Pointer: &Point{X: 100, Y: 100}}, false, 0, midRand{})
	if math.IsNaN(onTop.X) || math.IsNaN(onTop.Y) {
		t.Error("pointer exactly on a particle produced NaN")
	}
}

func TestSparksBurstAndExpire(t *testing.T) {
	rng := seeded()
	s := Scene{W: 100, H: 100, Phase: Hold}
	s = Step(s, Input{Clicks: []Point{{50, 50}, {20, 20}}}, rng)
	if len(s.Sparks) != 2*clickSparks {
		t.Fatalf("sparks = %d, want %d", len(s.Sparks), 2*clickSparks)
	}
	// 0.95 / 0.022 ≈ 43.2, so every spark is gone after 44 frames.
	for range 44 {
		s = Step(s, Input{}, rng)
	}
	if len(s.Sparks) != 0 {
		t.Errorf("sparks = %d after fade, want 0", len(s.Sparks))
	}
}

func TestStepSpark(t *testing.T) {
	sp := stepSpark(Spark{X: 0, Y: 0, VX: 1, VY: -1, Alpha: 0.95})
	want := Spark{X: 1, Y: -1, VX: 0.96, VY: -0.9, Alpha: 0.928}
	opt := cmp.Comparer(func(a, b float64) bool { return math.Abs(a-b) < 1e-9 })
	if diff := cmp.Diff(want, sp, opt); diff != "" {
		t.Errorf("stepSpark (-want +got):\n%s", diff)
	}
}

func TestPosterIsDeterministicSVG(t *testing.T) {
	a := Poster(640, 320, 7)
	b := Poster(640, 320, 7)
	if !bytes.Equal(a, b) {
		t.Error("same seed produced different posters")
	}
	if !bytes.HasPrefix(a, []byte("<svg")) || !bytes.HasSuffix(a, []byte("</svg>")) {
		t.Errorf("not an svg document: %.60s", a)
	}
	if !bytes.Contains(a, []byte(`aria-label="SCALERS"`)) || !bytes.Contains(a, []byte("<circle")) {
		t.Error("poster missing word label or particles")
	}
}
