// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package hero

import (
	"fmt"
	"math/rand/v2"
	"strings"
)

// Poster runs the first word through its forming phase with a seeded RNG
// and renders the held frame as SVG. It is the still shown before the
// script starts and to visitors without JavaScript.
func Poster(w, h int, seed uint64) []byte {
	rng := rand.New(rand.NewPCG(seed, seed^0x5ca1e5))
	s := NewScene(w, h, rng)
	for s.Phase == Forming {
		s = Step(s, Input{}, rng)
	}

	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d" role="img" aria-label="%s">`, w, h, w, h, s.Word())
	b.WriteString(`<defs><radialGradient id="glow" cx="50%" cy="50%" r="65%">`)
	b.WriteString(`<stop offset="0" stop-color="#D91E36" stop-opacity="0.42"/>`)
	b.WriteString(`<stop offset="0.5" stop-color="#8B1032" stop-opacity="0.17"/>`)
	b.WriteString(`<stop offset="1" stop-color="#000" stop-opacity="0"/></radialGradient></defs>`)
	fmt.Fprintf(&b, `<rect width="%d" height="%d" fill="#0d0205"/><rect width="%d" height="%d" fill="url(#glow)"/>`, w, h, w, h)
	for _, p := range s.Particles {
		if p.Alpha <= 0 {
			continue
		}
		fmt.Fprintf(&b, `<circle cx="%.1f" cy="%.1f" r="%.2f" fill="%s" fill-opacity="%.2f"/>`,
			p.X, p.Y, max(0.1, p.Size), p.Color, min(1, p.Alpha))
	}
	b.WriteString(`</svg>`)
	return []byte(b.String())
}
