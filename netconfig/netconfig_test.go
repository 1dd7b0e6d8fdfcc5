package netconfig

import (
	"strings"
	"testing"
)

// TestLoadMinimal decodes a two-worker line network with no optional
// fields and checks the decoded graph's worker and channel counts and
// that no qnet.Option is produced.
func TestLoadMinimal(t *testing.T) {
	doc := `{"vertex_pointer":[0,1,2],"edge_targets":[1,0]}`
	g, p, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.NumWorkers() != 2 || g.NumChannels() != 2 {
		t.Fatalf("got %d workers / %d channels, want 2/2", g.NumWorkers(), g.NumChannels())
	}
	if len(p.Options()) != 0 {
		t.Fatalf("expected no options for a document with no optional fields, got %d", len(p.Options()))
	}
}

// TestLoadFullDocument exercises every optional field and checks each one
// produces a corresponding qnet.Option.
func TestLoadFullDocument(t *testing.T) {
	doc := `{
		"vertex_pointer": [0, 2, 3],
		"edge_targets": [1, 0, 1],
		"logical_core": [3, 7],
		"multiplicities": [1, 2, 1],
		"batch_size": [4, 4, 8],
		"enqueue_frequency": 32,
		"channel_buffer_size": 256,
		"max_push_attempts": 8
	}`
	g, p, err := Load(strings.NewReader(doc))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if g.NumWorkers() != 2 || g.NumChannels() != 3 {
		t.Fatalf("got %d workers / %d channels, want 2/3", g.NumWorkers(), g.NumChannels())
	}
	if got := len(p.Options()); got != 6 {
		t.Fatalf("got %d options, want 6", got)
	}
}

// TestLoadRejectsShortVertexPointer checks that a document with fewer
// than two vertex_pointer entries is rejected rather than silently
// producing a zero-worker network.
func TestLoadRejectsShortVertexPointer(t *testing.T) {
	doc := `{"vertex_pointer":[0],"edge_targets":[]}`
	if _, _, err := Load(strings.NewReader(doc)); err == nil {
		t.Fatal("expected an error for a vertex_pointer with fewer than 2 entries")
	}
}

// TestLoadRejectsMalformedJSON checks decode errors propagate.
func TestLoadRejectsMalformedJSON(t *testing.T) {
	if _, _, err := Load(strings.NewReader(`{not json`)); err == nil {
		t.Fatal("expected a decode error for malformed JSON")
	}
}
