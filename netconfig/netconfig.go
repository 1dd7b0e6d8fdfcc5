// Package netconfig loads a qnet.Graph and its construction parameters
// from a JSON document, letting a network topology be described as data
// instead of Go code. It decodes with sonnet, the drop-in
// encoding/json-compatible decoder already used elsewhere in this
// module's dependency graph for exactly this kind of small structured
// document.
package netconfig

import (
	"fmt"
	"io"

	"github.com/sugawarayuuta/sonnet"

	"github.com/quantflow/spapq/qnet"
)

// document mirrors the JSON wire shape one-to-one with qnet's
// configuration surface.
type document struct {
	VertexPointer     []int    `json:"vertex_pointer"`
	EdgeTargets       []int    `json:"edge_targets"`
	LogicalCore       []int    `json:"logical_core,omitempty"`
	Multiplicities    []uint32 `json:"multiplicities,omitempty"`
	BatchSize         []uint32 `json:"batch_size,omitempty"`
	EnqueueFrequency  uint32   `json:"enqueue_frequency,omitempty"`
	ChannelBufferSize int      `json:"channel_buffer_size,omitempty"`
	MaxPushAttempts   int      `json:"max_push_attempts,omitempty"`
}

// Params carries the scalar/per-entity construction options decoded
// alongside the Graph; pass its Options() to qnet.New.
type Params struct {
	LogicalCore       []int
	Multiplicities    []uint32
	BatchSize         []uint32
	EnqueueFrequency  uint32
	ChannelBufferSize int
	MaxPushAttempts   int
}

// Options converts the decoded parameters into qnet.Option values, only
// including the ones that were actually present in the document.
func (p Params) Options() []qnet.Option {
	var opts []qnet.Option
	if p.LogicalCore != nil {
		opts = append(opts, qnet.WithAffinity(p.LogicalCore))
	}
	if p.Multiplicities != nil {
		opts = append(opts, qnet.WithMultiplicities(p.Multiplicities))
	}
	if p.BatchSize != nil {
		opts = append(opts, qnet.WithBatchSizes(p.BatchSize))
	}
	if p.EnqueueFrequency != 0 {
		opts = append(opts, qnet.WithEnqueueFrequency(p.EnqueueFrequency))
	}
	if p.ChannelBufferSize != 0 {
		opts = append(opts, qnet.WithChannelBufferSize(p.ChannelBufferSize))
	}
	if p.MaxPushAttempts != 0 {
		opts = append(opts, qnet.WithMaxPushAttempts(p.MaxPushAttempts))
	}
	return opts
}

// Load decodes a network topology document from r.
func Load(r io.Reader) (qnet.Graph, Params, error) {
	var doc document
	if err := sonnet.NewDecoder(r).Decode(&doc); err != nil {
		return qnet.Graph{}, Params{}, fmt.Errorf("netconfig: decode: %w", err)
	}
	if len(doc.VertexPointer) < 2 {
		return qnet.Graph{}, Params{}, fmt.Errorf("netconfig: vertex_pointer must have at least 2 entries")
	}
	g := qnet.Graph{VertexPointer: doc.VertexPointer, EdgeTargets: doc.EdgeTargets}
	p := Params{
		LogicalCore:       doc.LogicalCore,
		Multiplicities:    doc.Multiplicities,
		BatchSize:         doc.BatchSize,
		EnqueueFrequency:  doc.EnqueueFrequency,
		ChannelBufferSize: doc.ChannelBufferSize,
		MaxPushAttempts:   doc.MaxPushAttempts,
	}
	return g, p, nil
}
