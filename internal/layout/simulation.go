package layout

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/msalah0e/pathviz/internal/graph"
)

// Params configures the force simulation.
type Params struct {
	Width           float64
	Height          float64
	Charge          float64 // many-body strength, negative repels
	LinkDistance    float64
	CollideRadius   float64
	VelocityDecay   float64
	AlphaMin        float64
	AlphaDecay      float64 // zero derives it from AlphaMin over 300 ticks
	DragAlphaTarget float64
	Seed            int64
}

// DefaultParams returns the parameters of the reference visualizer.
func DefaultParams() Params {
	return Params{
		Width:           800,
		Height:          500,
		Charge:          -100,
		LinkDistance:    70,
		CollideRadius:   20,
		VelocityDecay:   0.4,
		AlphaMin:        0.001,
		DragAlphaTarget: 0.3,
		Seed:            1,
	}
}

func (p Params) withDefaults() Params {
	d := DefaultParams()
	if p.Width <= 0 {
		p.Width = d.Width
	}
	if p.Height <= 0 {
		p.Height = d.Height
	}
	if p.LinkDistance <= 0 {
		p.LinkDistance = d.LinkDistance
	}
	if p.CollideRadius < 0 {
		p.CollideRadius = 0
	}
	if p.VelocityDecay <= 0 || p.VelocityDecay >= 1 {
		p.VelocityDecay = d.VelocityDecay
	}
	if p.AlphaMin <= 0 {
		p.AlphaMin = d.AlphaMin
	}
	if p.AlphaDecay <= 0 || p.AlphaDecay >= 1 {
		p.AlphaDecay = 1 - math.Pow(p.AlphaMin, 1.0/300)
	}
	if p.DragAlphaTarget <= 0 {
		p.DragAlphaTarget = d.DragAlphaTarget
	}
	return p
}

type body struct {
	id  graph.NodeID
	pos r2.Vec
	vel r2.Vec
	pin *r2.Vec
}

type link struct {
	key      graph.EdgeKey
	source   *body
	target   *body
	weight   float64
	strength float64
	bias     float64
}

// Simulation integrates center, many-body, link and collision forces over a
// set of bodies. It is not safe for concurrent use.
type Simulation struct {
	params      Params
	bodies      []*body
	links       []*link
	alpha       float64
	alphaTarget float64
	rng         *rand.Rand
}

func newSimulation(params Params) *Simulation {
	params = params.withDefaults()
	return &Simulation{
		params: params,
		rng:    rand.New(rand.NewSource(params.Seed)),
	}
}

func (s *Simulation) setMembers(bodies []*body, links []*link) {
	s.bodies = bodies
	s.links = links

	degree := make(map[graph.NodeID]int, len(bodies))
	for _, l := range links {
		degree[l.source.id]++
		degree[l.target.id]++
	}
	for _, l := range links {
		ds, dt := degree[l.source.id], degree[l.target.id]
		l.strength = 1 / float64(min(ds, dt))
		l.bias = float64(ds) / float64(ds+dt)
	}
}

func (s *Simulation) restart(alpha float64) {
	s.alpha = alpha
}

func (s *Simulation) setAlphaTarget(target float64) {
	s.alphaTarget = target
}

// hot reports whether another step would move anything.
func (s *Simulation) hot() bool {
	return s.alpha >= s.params.AlphaMin || s.alphaTarget >= s.params.AlphaMin
}

func (s *Simulation) randomPosition() r2.Vec {
	return r2.Vec{X: s.rng.Float64() * s.params.Width, Y: s.rng.Float64() * s.params.Height}
}

func (s *Simulation) jiggle() float64 {
	return (s.rng.Float64() - 0.5) * 1e-6
}

// step runs exactly one integration tick.
func (s *Simulation) step() {
	s.alpha += (s.alphaTarget - s.alpha) * s.params.AlphaDecay

	s.applyCenter()
	s.applyCharge()
	s.applyLinks()
	s.applyCollide()

	keep := 1 - s.params.VelocityDecay
	for _, b := range s.bodies {
		if b.pin != nil {
			b.pos = *b.pin
			b.vel = r2.Vec{}
			continue
		}
		b.vel = r2.Scale(keep, b.vel)
		b.pos = r2.Add(b.pos, b.vel)
	}
}

func (s *Simulation) applyCenter() {
	if len(s.bodies) == 0 {
		return
	}
	var sum r2.Vec
	for _, b := range s.bodies {
		sum = r2.Add(sum, b.pos)
	}
	mean := r2.Scale(1/float64(len(s.bodies)), sum)
	shift := r2.Sub(mean, r2.Vec{X: s.params.Width / 2, Y: s.params.Height / 2})
	for _, b := range s.bodies {
		b.pos = r2.Sub(b.pos, shift)
	}
}

// applyCharge is the direct O(n²) many-body force.
func (s *Simulation) applyCharge() {
	if s.params.Charge == 0 {
		return
	}
	for i, a := range s.bodies {
		for j, b := range s.bodies {
			if i == j {
				continue
			}
			d := r2.Sub(b.pos, a.pos)
			if d.X == 0 {
				d.X = s.jiggle()
			}
			if d.Y == 0 {
				d.Y = s.jiggle()
			}
			l := r2.Norm2(d)
			if l < 1 {
				l = math.Sqrt(l)
			}
			a.vel = r2.Add(a.vel, r2.Scale(s.params.Charge*s.alpha/l, d))
		}
	}
}

func (s *Simulation) applyLinks() {
	for _, l := range s.links {
		d := r2.Sub(r2.Add(l.target.pos, l.target.vel), r2.Add(l.source.pos, l.source.vel))
		if d.X == 0 {
			d.X = s.jiggle()
		}
		if d.Y == 0 {
			d.Y = s.jiggle()
		}
		dist := r2.Norm(d)
		k := (dist - s.params.LinkDistance) / dist * s.alpha * l.strength
		d = r2.Scale(k, d)
		l.target.vel = r2.Sub(l.target.vel, r2.Scale(l.bias, d))
		l.source.vel = r2.Add(l.source.vel, r2.Scale(1-l.bias, d))
	}
}

func (s *Simulation) applyCollide() {
	r := s.params.CollideRadius
	if r == 0 {
		return
	}
	reach := 2 * r
	for i, a := range s.bodies {
		for _, b := range s.bodies[i+1:] {
			d := r2.Sub(r2.Add(a.pos, a.vel), r2.Add(b.pos, b.vel))
			l := r2.Norm2(d)
			if l >= reach*reach {
				continue
			}
			if d.X == 0 {
				d.X = s.jiggle()
				l += d.X * d.X
			}
			if d.Y == 0 {
				d.Y = s.jiggle()
				l += d.Y * d.Y
			}
			dist := math.Sqrt(l)
			d = r2.Scale((reach-dist)/dist, d)
			// Equal radii split the correction evenly.
			a.vel = r2.Add(a.vel, r2.Scale(0.5, d))
			b.vel = r2.Sub(b.vel, r2.Scale(0.5, d))
		}
	}
}
