package snn

// Topology builders. Each constructor is pure and deterministic, accepts
// any non-negative size including zero, and produces a valid CSR prefix
// with per-neuron state at defaults (v=0, vTh=1, vReset=0, refrac=0).

// Empty returns a network with zero neurons and zero synapses.
func Empty() *Model {
	return newModel(0, nil, []uint32{0})
}

// Line builds a 1-D chain 0 -> 1 -> ... -> count-1. Every neuron except
// the last has exactly one outgoing synapse to its successor.
func Line(count int) *Model {
	if count < 0 {
		count = 0
	}
	outOffset := make([]uint32, 0, count+1)
	receiver := make([]uint32, 0, max(count-1, 0))

	outOffset = append(outOffset, 0)
	for i := 0; i < count; i++ {
		if i+1 < count {
			receiver = append(receiver, uint32(i+1))
		}
		outOffset = append(outOffset, uint32(len(receiver)))
	}
	return newModel(count, receiver, outOffset)
}

// Grid builds a rows x cols lattice. The neuron at (r, c) has index
// r*cols + c and connects to each orthogonal neighbor that exists, in the
// fixed enumeration order up, down, left, right.
func Grid(rows, cols int) *Model {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	n := rows * cols

	outOffset := make([]uint32, 0, n+1)
	receiver := make([]uint32, 0, n*4)

	outOffset = append(outOffset, 0)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if r > 0 {
				receiver = append(receiver, uint32((r-1)*cols+c))
			}
			if r+1 < rows {
				receiver = append(receiver, uint32((r+1)*cols+c))
			}
			if c > 0 {
				receiver = append(receiver, uint32(r*cols+(c-1)))
			}
			if c+1 < cols {
				receiver = append(receiver, uint32(r*cols+(c+1)))
			}
			outOffset = append(outOffset, uint32(len(receiver)))
		}
	}
	return newModel(n, receiver, outOffset)
}

// newModel assembles a Model around a finished CSR wiring, initializing
// every per-neuron and per-synapse field to its default.
func newModel(n int, receiver []uint32, outOffset []uint32) *Model {
	e := len(receiver)

	m := &Model{
		v:         make([]float32, n),
		vTh:       make([]float32, n),
		vReset:    make([]float32, n),
		refrac:    make([]uint16, n),
		spiked:    make([]bool, n),
		alpha:     DefaultAlpha,
		refracLen: DefaultRefracLen,
		outOffset: outOffset,
		receiver:  receiver,
		weight:    make([]float32, e),
		state:     make([]uint32, e),
	}
	for i := range m.vTh {
		m.vTh[i] = DefaultThreshold
		m.vReset[i] = DefaultReset
	}
	for j := range m.weight {
		m.weight[j] = DefaultWeight
	}
	return m
}
