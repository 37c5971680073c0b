// Package snn implements a sparse leaky-integrate-and-fire spiking network
// in discrete time steps. Neuron state lives in index-aligned parallel
// arrays and synapses in a compressed sparse row layout, so a tick is a
// handful of linear passes with no allocation.
package snn

import (
	"errors"
	"fmt"
)

// ErrIndexOutOfRange is returned by charge accessors when the neuron index
// is not in [0, n).
var ErrIndexOutOfRange = errors.New("neuron index out of range")

// Default parameters assigned by the topology builders.
const (
	DefaultAlpha     float32 = 0.1
	DefaultThreshold float32 = 1.0
	DefaultReset     float32 = 0.0
	DefaultWeight    float32 = 0.5
	DefaultRefracLen uint16  = 2
)

// Model holds the full state of a spiking network. All per-neuron fields
// are index-aligned: index i means the same neuron in every array. The
// topology triple (outOffset, receiver, weight) is fixed at construction;
// only v, refrac, spiked and state mutate during simulation.
//
// A Model is meant to be owned and ticked by a single driver. Concurrent
// mutation is not supported.
type Model struct {
	// Neuron state.
	v      []float32 // membrane potential
	vTh    []float32 // firing threshold
	vReset []float32 // value assigned after firing
	refrac []uint16  // remaining refractory steps, 0 = eligible
	spiked []bool    // fired this tick, reset on next tick

	alpha     float32 // leak factor, applied as v *= 1-alpha
	refracLen uint16  // refractory steps assigned on firing

	// CSR synapses. Synapses of neuron i occupy
	// outOffset[i]..outOffset[i+1] in receiver/weight/state.
	outOffset []uint32
	receiver  []uint32
	weight    []float32
	state     []uint32 // 0 idle, 1 deliver next tick
}

// NumNeurons returns the neuron count n.
func (m *Model) NumNeurons() int { return len(m.v) }

// NumSynapses returns the synapse count e.
func (m *Model) NumSynapses() int { return len(m.receiver) }

// SetCharge writes the membrane potential of a neuron directly.
func (m *Model) SetCharge(neuron int, charge float32) error {
	if neuron < 0 || neuron >= len(m.v) {
		return fmt.Errorf("set charge: neuron %d of %d: %w", neuron, len(m.v), ErrIndexOutOfRange)
	}
	m.v[neuron] = charge
	return nil
}

// GetCharge reads the membrane potential of a neuron.
func (m *Model) GetCharge(neuron int) (float32, error) {
	if neuron < 0 || neuron >= len(m.v) {
		return 0, fmt.Errorf("get charge: neuron %d of %d: %w", neuron, len(m.v), ErrIndexOutOfRange)
	}
	return m.v[neuron], nil
}

// SetThreshold sets the firing threshold of a single neuron.
func (m *Model) SetThreshold(neuron int, vTh float32) error {
	if neuron < 0 || neuron >= len(m.vTh) {
		return fmt.Errorf("set threshold: neuron %d of %d: %w", neuron, len(m.vTh), ErrIndexOutOfRange)
	}
	m.vTh[neuron] = vTh
	return nil
}

// SetResetValue sets the post-spike reset potential of a single neuron.
func (m *Model) SetResetValue(neuron int, vReset float32) error {
	if neuron < 0 || neuron >= len(m.vReset) {
		return fmt.Errorf("set reset value: neuron %d of %d: %w", neuron, len(m.vReset), ErrIndexOutOfRange)
	}
	m.vReset[neuron] = vReset
	return nil
}

// SetAlpha sets the shared leak factor. Valid range is 0 < alpha <= 1.
func (m *Model) SetAlpha(alpha float32) error {
	if !(alpha > 0 && alpha <= 1) {
		return fmt.Errorf("alpha must be in (0, 1], got %v", alpha)
	}
	m.alpha = alpha
	return nil
}

// Alpha returns the shared leak factor.
func (m *Model) Alpha() float32 { return m.alpha }

// SetRefracLen sets the refractory duration assigned to firing neurons.
func (m *Model) SetRefracLen(steps uint16) { m.refracLen = steps }

// RefracLen returns the refractory duration assigned to firing neurons.
func (m *Model) RefracLen() uint16 { return m.refracLen }

// SetWeightAll overwrites every synapse weight with w. Intended for
// pre-simulation tuning; the wiring itself never changes.
func (m *Model) SetWeightAll(w float32) {
	for i := range m.weight {
		m.weight[i] = w
	}
}

// NeuronVs returns a read-only view of the membrane potentials, length n.
// The view is valid until the next Tick.
func (m *Model) NeuronVs() []float32 { return m.v }

// SynapseStates returns a read-only view of the armed/idle flags, length e.
// The view is valid until the next Tick.
func (m *Model) SynapseStates() []uint32 { return m.state }

// Spiked returns a read-only view of the per-neuron fired-this-tick flags.
func (m *Model) Spiked() []bool { return m.spiked }

// OutOffsets returns a read-only view of the CSR prefix array, length n+1.
func (m *Model) OutOffsets() []uint32 { return m.outOffset }

// Receivers returns a read-only view of the synapse target indices, length e.
func (m *Model) Receivers() []uint32 { return m.receiver }

// Tick advances the simulation by exactly one discrete step. It is total,
// deterministic and allocation-free. The phase order is load-bearing:
// resets happen one tick after firing, and armed synapses deliver one tick
// after arming, so results never depend on neuron traversal order.
func (m *Model) Tick() {
	// Phase 1+2: resolve previous spikes, leak, advance refractory
	// counters. A counter assigned here is not decremented in the same
	// tick; a neuron that fired at tick T stays at refracLen through the
	// whole of tick T+1.
	for i := range m.v {
		if m.spiked[i] {
			m.v[i] = m.vReset[i]
			m.refrac[i] = m.refracLen
			m.spiked[i] = false
			continue
		}
		m.v[i] *= 1 - m.alpha
		if m.refrac[i] > 0 {
			m.refrac[i]--
		}
	}

	// Phase 3: deliver armed synapses. This is the fixed one-tick
	// synaptic delay: a synapse armed at tick T delivers at tick T+1.
	for j, s := range m.state {
		if s == 1 {
			m.v[m.receiver[j]] += m.weight[j]
			m.state[j] = 0
		}
	}

	// Phase 4: detect spikes, arm outgoing synapses. The potential reset
	// is deferred to the next tick's first phase.
	for i := range m.v {
		if m.refrac[i] > 0 || m.v[i] < m.vTh[i] {
			continue
		}
		m.spiked[i] = true
		for j := m.outOffset[i]; j < m.outOffset[i+1]; j++ {
			m.state[j] = 1
		}
	}
}
