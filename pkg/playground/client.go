package playground

import (
	"context"
)

// JobRequest is the payload submitted to the inference endpoint for one
// variant's half of a turn. History carries that variant's own conversation
// context, already flattened to wire shape.
type JobRequest struct {
	ConversationID string        `json:"conversationId"`
	Prompt         string        `json:"prompt"`
	Character      Character     `json:"character"`
	Variant        Variant       `json:"variant"`
	History        []TurnMessage `json:"history"`
}

// ChunkStream yields the raw chunks of one job's output stream in delivery
// order.
type ChunkStream interface {
	// Next blocks until the next chunk is available. It returns io.EOF once
	// the stream has ended cleanly; any other error is a transport failure.
	Next(ctx context.Context) ([]byte, error)
}

// JobClient submits inference jobs, consumes their output streams and clears
// server-held session state. Implementations: HTTPClient for the serverless
// endpoint, MockJobClient for tests.
type JobClient interface {
	// Submit starts a job and returns its id.
	Submit(ctx context.Context, req JobRequest) (string, error)

	// Stream opens the output stream of a previously submitted job.
	Stream(ctx context.Context, jobID string) ChunkStream

	// Clear asks the remote side to discard session state for the given
	// conversation id.
	Clear(ctx context.Context, conversationID string) error
}
