package syncrelay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/SemperAdmin/DutySync-sub000/config"
)

// Remote pushes one task to the remote mirror.
type Remote interface {
	Push(ctx context.Context, task Task) error
}

// HTTPRemote posts task payloads as JSON to <base_url>/sync/<kind>.
type HTTPRemote struct {
	baseURL string
	token   string
	client  *http.Client
}

// NewHTTPRemote builds a Remote from sync configuration.
func NewHTTPRemote(cfg *config.SyncConfig) *HTTPRemote {
	return &HTTPRemote{
		baseURL: strings.TrimRight(cfg.RemoteURL, "/"),
		token:   cfg.AuthToken,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
}

// Push sends the task; any non-2xx response is an error.
func (r *HTTPRemote) Push(ctx context.Context, task Task) error {
	body, err := json.Marshal(task.Payload)
	if err != nil {
		return fmt.Errorf("marshal %s payload: %w", task.Kind, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		r.baseURL+"/sync/"+task.Kind, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build %s request: %w", task.Kind, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("push %s: %w", task.Kind, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push %s: remote returned HTTP %d", task.Kind, resp.StatusCode)
	}
	return nil
}
