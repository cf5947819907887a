package playground

import (
	"bytes"
	"encoding/json"
)

// EventKind classifies a decoded stream event.
type EventKind int

const (
	// EventToken carries one unit of assistant output.
	EventToken EventKind = iota
	// EventError is a terminal failure reported by the remote job.
	EventError
)

// StreamEvent is the typed result of decoding one raw stream chunk.
type StreamEvent struct {
	Kind EventKind
	// Text holds the token text for EventToken and the failure description
	// for EventError.
	Text string
}

// DecodeChunk turns one raw chunk from a job's output stream into a typed
// event. It returns nil when the chunk carries nothing actionable: empty
// payloads, heartbeats and malformed JSON all decode to nil so a bad chunk can
// never abort a stream loop. Decoding is stateless per chunk.
func DecodeChunk(raw []byte) *StreamEvent {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	var payload struct {
		Data  *string `json:"data"`
		Error *string `json:"error"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil
	}
	switch {
	case payload.Error != nil:
		return &StreamEvent{Kind: EventError, Text: *payload.Error}
	case payload.Data != nil:
		return &StreamEvent{Kind: EventToken, Text: *payload.Data}
	}
	return nil
}
