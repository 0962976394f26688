// Package workload generates synthetic packet-observed events for driving
// the routing core in simulations.
package workload

import (
	"fmt"
	"math/rand"

	"github.com/google/uuid"

	"github.com/fedroute/fedroute/routing"
)

// Spec describes a synthetic packet workload.
type Spec struct {
	Switches int // datapath population (must be > 0)
	Hosts    int // endpoint population (must be >= 2)
	Packets  int // events to generate
}

// Validate reports the first unusable field.
func (s Spec) Validate() error {
	if s.Switches <= 0 {
		return fmt.Errorf("switches %d, need > 0", s.Switches)
	}
	if s.Hosts < 2 {
		return fmt.Errorf("hosts %d, need >= 2 for distinct src/dst", s.Hosts)
	}
	if s.Packets < 0 {
		return fmt.Errorf("packets %d, need >= 0", s.Packets)
	}
	return nil
}

// Generator draws packet events from fixed host and switch populations.
// Draws come from the caller-provided RNG only, so a seeded stream
// reproduces the exact event sequence.
type Generator struct {
	spec     Spec
	rng      *rand.Rand
	switches []routing.DatapathID
	hosts    []routing.Address
}

// NewGenerator creates a Generator. Host addresses are MAC-like tokens,
// switch IDs zero-padded hex, matching what a controller would see.
func NewGenerator(spec Spec, rng *rand.Rand) (*Generator, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	g := &Generator{spec: spec, rng: rng}
	for i := 0; i < spec.Switches; i++ {
		g.switches = append(g.switches, routing.DatapathID(fmt.Sprintf("%016x", i+1)))
	}
	for i := 0; i < spec.Hosts; i++ {
		g.hosts = append(g.hosts, routing.Address(fmt.Sprintf("00:00:00:00:%02x:%02x", (i+1)>>8, (i+1)&0xff)))
	}
	return g, nil
}

// Switches returns the datapath population.
func (g *Generator) Switches() []routing.DatapathID {
	out := make([]routing.DatapathID, len(g.switches))
	copy(out, g.switches)
	return out
}

// Next draws one packet event: a uniform switch and a uniform (src, dst)
// pair with src != dst.
func (g *Generator) Next() routing.PacketEvent {
	src := g.hosts[g.rng.Intn(len(g.hosts))]
	dst := g.hosts[g.rng.Intn(len(g.hosts))]
	for dst == src {
		dst = g.hosts[g.rng.Intn(len(g.hosts))]
	}
	return routing.PacketEvent{
		ID:       uuid.NewString(),
		Datapath: g.switches[g.rng.Intn(len(g.switches))],
		Src:      src,
		Dst:      dst,
		InPort:   1 + g.rng.Intn(8),
		Buffered: g.rng.Float64() < 0.5,
	}
}

// Events draws the full workload described by the spec.
func (g *Generator) Events() []routing.PacketEvent {
	out := make([]routing.PacketEvent, 0, g.spec.Packets)
	for i := 0; i < g.spec.Packets; i++ {
		out = append(out, g.Next())
	}
	return out
}
