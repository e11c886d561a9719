// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hero

import (
	"math"
	"slices"
)

// Step advances s by one frame. s itself is left untouched.
func Step(s Scene, in Input, rng Rand) Scene {
	next := s
	next.Particles = slices.Clone(s.Particles)
	next.Sparks = slices.Clone(s.Sparks)
	next.Frame++
	next.Timer++

	for _, c := range in.Clicks {
		for range clickSparks {
			next.Sparks = append(next.Sparks, newSpark(c, true, rng))
		}
	}

	dispersing := next.Phase == Dispersing
	for i := range next.Particles {
		next.Particles[i] = stepParticle(next.Particles[i], in, dispersing, next.Frame, rng)
	}

	if dispersing && next.Frame%2 == 0 && len(next.Particles) > 0 {
		p := next.Particles[rng.IntN(len(next.Particles))]
		next.Sparks = append(next.Sparks, newSpark(Point{p.X, p.Y}, false, rng))
	}

	live := next.Sparks[:0]
	for _, sp := range next.Sparks {
		sp = stepSpark(sp)
		if sp.Alpha > 0 {
			live = append(live, sp)
		}
	}
	next.Sparks = live

	if next.Timer >= next.Phase.Duration() {
		next.Timer = 0
		switch next.Phase {
		case Forming:
			next.Phase = Hold
		case Hold:
			next.Phase = Dispersing
		case Dispersing:
			next.Phase = Gap
			next.WordIndex++
		default:
			next.Phase = Forming
			next.Particles = spawn(next.Word(), next.W, next.H, rng)
		}
	}
	return next
}

func stepParticle(p Particle, in Input, dispersing bool, frame int, rng Rand) Particle {
	p.Wob += p.WobSpeed
	wx := math.Sin(p.Wob) * p.WobAmp
	wy := math.Cos(p.Wob*0.7) * p.WobAmp

	if dispersing {
		p.VX += (rng.Float64() - 0.5) * 5
		p.VY += (rng.Float64()-0.5)*5 + 0.4
		p.VX *= 0.93
		p.VY *= 0.93
		p.X += p.VX
		p.Y += p.VY
		p.Alpha -= 0.018
	} else {
		p.VX += (p.TX + wx - p.X) * p.Ease
		p.VY += (p.TY + wy - p.Y) * p.Ease
		p.VX *= 0.78
		p.VY *= 0.78
		p.X += p.VX
		p.Y += p.VY
		p.Alpha += (p.TargetAlpha - p.Alpha) * 0.07
	}

	if ptr := in.Pointer; ptr != nil {
		dx, dy := p.X-ptr.X, p.Y-ptr.Y
		d := math.Hypot(dx, dy)
		if in.Attract {
			if d > attractMin && d < attractRadius {
				f := (attractRadius - d) / attractRadius * attractPull
				p.VX += (ptr.X - p.X) * f
				p.VY += (ptr.Y - p.Y) * f
			}
		} else if d > 0 && d < repelRadius {
			f := (repelRadius - d) / repelRadius
			p.X += dx / d * f * repelPush
			p.Y += dy / d * f * repelPush
		}
	}

	p.Size = p.BaseSize + math.Sin(float64(frame)*0.05+p.Wob)*0.5
	return p
}

func stepSpark(sp Spark) Spark {
	sp.X += sp.VX
	sp.Y += sp.VY
	sp.VY += 0.1
	sp.VX *= 0.96
	sp.Alpha -= 0.022
	return sp
}
