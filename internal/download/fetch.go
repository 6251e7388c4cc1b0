package download

import (
	"fmt"
	"io"
	"net/http"

	"github.com/openra/ra-launcher/internal/bridge"
)

// Fetch issues a GET for url in the background. The body, or an error, is
// delivered exactly once to callback through the registry's bridge.
func (r *Registry) Fetch(url, callback string) string {
	req := bridge.NewRequest(url, callback)

	r.entriesMutex.Lock()
	if r.closed {
		r.entriesMutex.Unlock()
		req.Complete(r.bridge, bridge.Event{Kind: bridge.EventFetchFailed, Err: ErrClosed.Error()})
		return req.ID
	}
	r.wg.Add(1)
	r.entriesMutex.Unlock()

	go func() {
		defer r.wg.Done()

		payload, err := r.fetch(url)
		if err != nil {
			r.logger.Warn("Fetch failed", "url", url, "callback", callback, "error", err)
			req.Complete(r.bridge, bridge.Event{Kind: bridge.EventFetchFailed, Err: err.Error()})
			return
		}
		r.logger.Debug("Fetch completed", "url", url, "callback", callback, "bytes", len(payload))
		req.Complete(r.bridge, bridge.Event{Kind: bridge.EventFetchCompleted, Payload: payload})
	}()

	return req.ID
}

// fetch reads at most fetchLimit bytes of url
func (r *Registry) fetch(url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(r.ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid request: %w", err)
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected HTTP status: %s", resp.Status)
	}

	payload, err := io.ReadAll(io.LimitReader(resp.Body, r.fetchLimit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(payload)) > r.fetchLimit {
		return nil, fmt.Errorf("response exceeds %d bytes", r.fetchLimit)
	}
	return payload, nil
}
