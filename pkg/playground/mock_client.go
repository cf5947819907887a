package playground

import (
	"context"
	"io"
	"sync"
)

// MockJobClient is a scripted in-memory JobClient for tests. It records every
// submission and clear call, plays back a fixed chunk sequence per variant,
// and can inject submission failures or gate a variant's stream so chunks are
// only delivered after the test releases them.
type MockJobClient struct {
	mu sync.Mutex

	// Chunks scripts the output stream per variant.
	Chunks map[Variant][][]byte

	// SubmitErr injects a submission failure for a variant.
	SubmitErr map[Variant]error

	// SubmitGate, when set for a variant, blocks that variant's submission
	// until the channel is closed.
	SubmitGate map[Variant]chan struct{}

	// Gate, when set for a variant, blocks that variant's stream until the
	// channel is closed.
	Gate map[Variant]chan struct{}

	// ClearErr is returned from Clear when set.
	ClearErr error

	// Submitted records every job request in submission order.
	Submitted []JobRequest

	// Cleared records every conversation id passed to Clear.
	Cleared []string
}

// NewMockJobClient returns an empty mock; tests fill in the script fields.
func NewMockJobClient() *MockJobClient {
	return &MockJobClient{
		Chunks:     make(map[Variant][][]byte),
		SubmitErr:  make(map[Variant]error),
		SubmitGate: make(map[Variant]chan struct{}),
		Gate:       make(map[Variant]chan struct{}),
	}
}

// Submit implements JobClient. The returned job id is the variant name, which
// Stream uses to find the scripted chunks.
func (m *MockJobClient) Submit(ctx context.Context, req JobRequest) (string, error) {
	m.mu.Lock()
	gate := m.SubmitGate[req.Variant]
	m.mu.Unlock()
	if gate != nil {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-gate:
		}
	}
	m.mu.Lock()
	m.Submitted = append(m.Submitted, req)
	err := m.SubmitErr[req.Variant]
	m.mu.Unlock()
	if err != nil {
		return "", err
	}
	return string(req.Variant), nil
}

// Stream implements JobClient.
func (m *MockJobClient) Stream(ctx context.Context, jobID string) ChunkStream {
	variant := Variant(jobID)
	m.mu.Lock()
	chunks := m.Chunks[variant]
	gate := m.Gate[variant]
	m.mu.Unlock()
	return &mockStream{chunks: chunks, gate: gate}
}

// Clear implements JobClient.
func (m *MockJobClient) Clear(ctx context.Context, conversationID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Cleared = append(m.Cleared, conversationID)
	return m.ClearErr
}

// SubmittedFor returns the recorded requests for one variant.
func (m *MockJobClient) SubmittedFor(variant Variant) []JobRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	var reqs []JobRequest
	for _, req := range m.Submitted {
		if req.Variant == variant {
			reqs = append(reqs, req)
		}
	}
	return reqs
}

type mockStream struct {
	chunks [][]byte
	gate   chan struct{}
	pos    int
}

func (s *mockStream) Next(ctx context.Context) ([]byte, error) {
	if s.gate != nil {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-s.gate:
		}
	}
	if s.pos >= len(s.chunks) {
		return nil, io.EOF
	}
	chunk := s.chunks[s.pos]
	s.pos++
	return chunk, nil
}
