package playground

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/vibegpt/playground/pkg/logging"
)

const defaultPollInterval = 250 * time.Millisecond

// HTTPClient talks to a serverless inference endpoint:
//
//	POST {base}/run          -> {"id": "<jobID>"}
//	GET  {base}/stream/{id}  -> {"status": "...", "stream": [{"output": ...}]}
//	POST {base}/clear        -> discard session state
//
// Job output is polled; each poll may deliver zero or more chunks, and the
// stream ends when the job reports a terminal status.
type HTTPClient struct {
	base         string
	apiKey       string
	hc           *http.Client
	pollInterval time.Duration
	log          *logrus.Entry
}

// NewHTTPClient creates a client for the endpoint at base. The API key may be
// empty for unauthenticated endpoints.
func NewHTTPClient(base, apiKey string) *HTTPClient {
	return &HTTPClient{
		base:         base,
		apiKey:       apiKey,
		hc:           &http.Client{},
		pollInterval: defaultPollInterval,
		log:          logging.NewLogger("http-client"),
	}
}

// Submit starts an inference job and returns its id.
func (c *HTTPClient) Submit(ctx context.Context, req JobRequest) (string, error) {
	body := map[string]JobRequest{"input": req}
	var resp struct {
		ID string `json:"id"`
	}
	if err := c.postJSON(ctx, c.base+"/run", body, &resp); err != nil {
		return "", fmt.Errorf("submit job: %w", err)
	}
	if resp.ID == "" {
		return "", fmt.Errorf("submit job: endpoint returned no job id")
	}
	c.log.WithFields(logrus.Fields{"job_id": resp.ID, "variant": req.Variant}).Debug("Job accepted")
	return resp.ID, nil
}

// Stream opens the polled output stream of a job.
func (c *HTTPClient) Stream(ctx context.Context, jobID string) ChunkStream {
	return &httpStream{client: c, jobID: jobID}
}

// Clear asks the endpoint to discard session state for a conversation.
func (c *HTTPClient) Clear(ctx context.Context, conversationID string) error {
	body := map[string]string{"conversationId": conversationID}
	if err := c.postJSON(ctx, c.base+"/clear", body, nil); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}

func (c *HTTPClient) postJSON(ctx context.Context, url string, body, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	resp, err := c.hc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, bytes.TrimSpace(data))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// streamPoll is one page of a job's output stream.
type streamPoll struct {
	Status string `json:"status"`
	Stream []struct {
		Output json.RawMessage `json:"output"`
	} `json:"stream"`
}

func terminalStatus(status string) bool {
	switch status {
	case "COMPLETED", "FAILED", "CANCELLED", "TIMED_OUT":
		return true
	}
	return false
}

type httpStream struct {
	client *HTTPClient
	jobID  string
	buf    [][]byte
	done   bool
}

// Next returns the next buffered chunk, polling the endpoint for more when the
// buffer is empty. It returns io.EOF after the job reaches a terminal status
// and all delivered chunks have been consumed.
func (s *httpStream) Next(ctx context.Context) ([]byte, error) {
	for {
		if len(s.buf) > 0 {
			chunk := s.buf[0]
			s.buf = s.buf[1:]
			return chunk, nil
		}
		if s.done {
			return nil, io.EOF
		}
		if err := s.poll(ctx); err != nil {
			return nil, err
		}
		if len(s.buf) == 0 && !s.done {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(s.client.pollInterval):
			}
		}
	}
}

func (s *httpStream) poll(ctx context.Context) error {
	url := fmt.Sprintf("%s/stream/%s", s.client.base, s.jobID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	if s.client.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.client.apiKey)
	}
	resp, err := s.client.hc.Do(req)
	if err != nil {
		return fmt.Errorf("poll stream: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("poll stream: %s returned %d", url, resp.StatusCode)
	}
	var page streamPoll
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return fmt.Errorf("poll stream: decode page: %w", err)
	}
	for _, item := range page.Stream {
		s.buf = append(s.buf, []byte(item.Output))
	}
	if terminalStatus(page.Status) {
		s.done = true
	}
	return nil
}
