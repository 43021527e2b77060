package saluran

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// NewHTTPTransport adapts a net/http client into a TransportFunc so the
// pipeline can front plain REST calls. Query parameters come from the
// context's Params; a []byte payload is sent verbatim, any other non-nil
// payload is JSON-encoded. Non-2xx statuses are not errors: the RawResponse
// carries the status and the pipeline classifies it.
func NewHTTPTransport(client *http.Client) TransportFunc {
	if client == nil {
		client = http.DefaultClient
	}
	return func(ctx context.Context, rc *RequestContext) (*RawResponse, error) {
		target, err := buildURL(rc.Target, rc.Params)
		if err != nil {
			return nil, err
		}

		var body io.Reader
		switch payload := rc.Payload.(type) {
		case nil:
		case []byte:
			if len(payload) > 0 {
				body = bytes.NewReader(payload)
			}
		default:
			encoded, err := json.Marshal(payload)
			if err != nil {
				return nil, fmt.Errorf("encode payload: %w", err)
			}
			body = bytes.NewReader(encoded)
		}

		req, err := http.NewRequestWithContext(ctx, rc.OperationKind, target, body)
		if err != nil {
			return nil, err
		}
		for name, value := range rc.Headers {
			req.Header.Set(name, value)
		}

		resp, err := client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, err
		}

		headers := make(map[string]string, len(resp.Header))
		for name := range resp.Header {
			headers[name] = resp.Header.Get(name)
		}

		return &RawResponse{
			StatusCode: resp.StatusCode,
			Headers:    headers,
			Body:       data,
		}, nil
	}
}

func buildURL(target string, params map[string]string) (string, error) {
	if len(params) == 0 {
		return target, nil
	}
	u, err := url.Parse(target)
	if err != nil {
		return "", err
	}
	q := u.Query()
	for name, value := range params {
		q.Set(name, value)
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// ttlFromHeaders derives a cache TTL from Cache-Control max-age or Expires
// response headers. noStore is true when the response must not be cached at
// all; ok is true when the headers yielded an explicit TTL.
func ttlFromHeaders(headers map[string]string) (ttl time.Duration, ok bool, noStore bool) {
	var cacheControl, expires string
	for name, value := range headers {
		switch strings.ToLower(name) {
		case "cache-control":
			cacheControl = value
		case "expires":
			expires = value
		}
	}

	for _, part := range strings.Split(cacheControl, ",") {
		part = strings.TrimSpace(part)
		switch {
		case part == "no-store" || part == "no-cache":
			return 0, false, true
		case strings.HasPrefix(part, "max-age="):
			if seconds, err := strconv.Atoi(strings.TrimPrefix(part, "max-age=")); err == nil && seconds > 0 {
				return time.Duration(seconds) * time.Second, true, false
			}
		}
	}

	if expires != "" {
		for _, layout := range []string{time.RFC1123, time.RFC850, time.ANSIC} {
			if t, err := time.Parse(layout, expires); err == nil {
				if d := time.Until(t); d > 0 {
					return d, true, false
				}
				return 0, false, true
			}
		}
	}

	return 0, false, false
}
