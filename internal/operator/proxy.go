package operator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptrace"
	"strconv"
	"strings"
	"sync/atomic"
	"time"
)

const maxResponseBytes = 1 << 20

// Proxy is the JSON-over-HTTP transport shared by the adapters. It decides
// which side of the ambiguity line a failure falls on: anything before the
// request is fully written is ErrNotAvailable, anything after is
// ErrUnknownResponse.
type Proxy struct {
	baseURL string
	client  *http.Client
}

func NewProxy(baseURL string, timeout time.Duration) *Proxy {
	return &Proxy{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: timeout},
	}
}

type call struct {
	path      string
	headers   map[string]string
	basicAuth [2]string
	body      interface{}
}

func (p *Proxy) post(ctx context.Context, c call, out interface{}) error {
	payload, err := json.Marshal(c.body)
	if err != nil {
		return fmt.Errorf("%w: encode request: %v", ErrNotAvailable, err)
	}

	var wrote atomic.Bool
	trace := &httptrace.ClientTrace{
		WroteRequest: func(info httptrace.WroteRequestInfo) {
			if info.Err == nil {
				wrote.Store(true)
			}
		},
	}

	req, err := http.NewRequestWithContext(httptrace.WithClientTrace(ctx, trace), http.MethodPost, p.baseURL+c.path, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrNotAvailable, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	for k, v := range c.headers {
		req.Header.Set(k, v)
	}
	if c.basicAuth[0] != "" {
		req.SetBasicAuth(c.basicAuth[0], c.basicAuth[1])
	}

	resp, err := p.client.Do(req)
	if err != nil {
		if !wrote.Load() {
			return fmt.Errorf("%w: %v", ErrNotAvailable, err)
		}
		return fmt.Errorf("%w: %v", ErrUnknownResponse, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrUnknownResponse, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: http status %d", ErrUnknownResponse, resp.StatusCode)
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrUnknownResponse, err)
	}
	return nil
}

// flexString accepts both JSON strings and numbers; operators disagree on
// how result codes are typed.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	if string(b) == "null" {
		*f = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

func (f flexString) String() string { return string(f) }

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
