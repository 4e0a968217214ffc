package openpayments

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"
)

// Request is an outbound protocol request before transmission. URL is the
// concrete transport URL; Host, when set, is the logical host carried in the
// Host header so that virtually-routed deployments reach the right party.
type Request struct {
	Method string
	URL    string
	Host   string
	Header http.Header
	Body   []byte
}

func NewRequest(method, url, host string, body []byte) *Request {
	return &Request{
		Method: method,
		URL:    url,
		Host:   host,
		Header: http.Header{},
		Body:   body,
	}
}

// NewJSONRequest builds a request with a JSON body and content type.
func NewJSONRequest(method, url, host string, payload interface{}) (*Request, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrap(err, "failed to marshal request body")
	}
	req := NewRequest(method, url, host, body)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// headerMap flattens the header for the canonical signing payload.
func (r *Request) headerMap() map[string]string {
	m := make(map[string]string, len(r.Header))
	for k := range r.Header {
		m[k] = r.Header.Get(k)
	}
	if r.Host != "" {
		m["Host"] = r.Host
	}
	return m
}

func (r *Request) toHTTP(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if r.Body != nil {
		body = bytes.NewReader(r.Body)
	}
	req, err := http.NewRequestWithContext(ctx, r.Method, r.URL, body)
	if err != nil {
		return nil, err
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.Host != "" {
		req.Host = r.Host
	}
	return req, nil
}

// doJSON sends the request and decodes a 2xx JSON response into out.
// Any network failure or non-2xx response becomes a StepError for the given
// step; the call is never retried.
func doJSON(ctx context.Context, client *http.Client, r *Request, step Step, out interface{}) error {
	httpReq, err := r.toHTTP(ctx)
	if err != nil {
		return newStepError(step, err)
	}

	res, err := client.Do(httpReq)
	if err != nil {
		return newStepError(step, err)
	}
	defer res.Body.Close()

	if res.StatusCode < 200 || res.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(res.Body, 4096))
		return newUpstreamError(step, res.StatusCode, string(body))
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return newStepError(step, errors.Wrap(err, "failed to decode upstream response"))
	}
	return nil
}
