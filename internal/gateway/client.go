package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds a single backend call when the config sets none.
const DefaultTimeout = 10 * time.Second

// maxErrorBody caps how much of a failed response is read for its message.
const maxErrorBody = 64 << 10

// client is the shared JSON-over-HTTP plumbing for one backend. Calls are single-shot:
// no retries, no caching.
type client struct {
	name    string
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
}

func newClient(name, baseURL string, httpClient *http.Client, logger logrus.FieldLogger) client {
	return client{
		name:    name,
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    httpClient,
		log:     logger.WithField("backend", name),
	}
}

// do sends body as JSON (when non-nil) and decodes a successful response into out (when non-nil).
func (c client) do(ctx context.Context, op, method, path string, query url.Values, body, out any) error {
	raw, err := c.doRaw(ctx, op, method, path, query, body)
	if err != nil {
		return err
	}
	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		c.log.WithError(err).Errorf("%s: failed to decode response", op)
		return &Error{Kind: KindServer, Op: op, Message: "invalid response", Err: err}
	}
	return nil
}

// doRaw returns the body of a successful response undecoded.
func (c client) doRaw(ctx context.Context, op, method, path string, query url.Values, body any) ([]byte, error) {
	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: failed to encode request: %w", op, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to create request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debugf("%s: %s %s", op, method, target)
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.WithError(err).Errorf("%s: request failed", op)
		return nil, &Error{Kind: KindUnreachable, Op: op, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		msg := errorMessage(io.LimitReader(resp.Body, maxErrorBody))
		c.log.Warnf("%s: %s returned status %d: %s", op, c.name, resp.StatusCode, msg)
		return nil, &Error{Kind: kindForStatus(resp.StatusCode), Op: op, Status: resp.StatusCode, Message: msg}
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Kind: KindUnreachable, Op: op, Err: err}
	}
	return raw, nil
}

// errorMessage extracts the human-readable message of a failed response. The backends
// use "mensaje", "message" or "error"; anything else is returned as plain text.
func errorMessage(r io.Reader) string {
	raw, err := io.ReadAll(r)
	if err != nil {
		return ""
	}
	raw = bytes.TrimSpace(raw)

	var fields map[string]any
	if json.Unmarshal(raw, &fields) == nil {
		for _, key := range []string{"mensaje", "message", "error"} {
			if s, ok := fields[key].(string); ok && s != "" {
				return s
			}
		}
		return ""
	}
	return string(raw)
}

// decodeList accepts a bare JSON array or a page object carrying "content" or "data".
func decodeList[T any](raw []byte) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return []T{}, nil
	}

	if raw[0] == '[' {
		var list []T
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, err
		}
		return list, nil
	}

	var page struct {
		Content []T `json:"content"`
		Data    []T `json:"data"`
	}
	if err := json.Unmarshal(raw, &page); err != nil {
		return nil, err
	}
	switch {
	case page.Content != nil:
		return page.Content, nil
	case page.Data != nil:
		return page.Data, nil
	default:
		return nil, errors.New("response is neither a list nor a page")
	}
}

// fetchList runs a request whose successful body is a list in any of the accepted shapes.
func fetchList[T any](ctx context.Context, c client, op, method, path string, query url.Values, body any) ([]T, error) {
	raw, err := c.doRaw(ctx, op, method, path, query, body)
	if err != nil {
		return nil, err
	}
	list, err := decodeList[T](raw)
	if err != nil {
		c.log.WithError(err).Errorf("%s: failed to decode list", op)
		return nil, &Error{Kind: KindServer, Op: op, Message: "invalid response", Err: err}
	}
	return list, nil
}
