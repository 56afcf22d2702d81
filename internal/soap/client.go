package soap

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

const maxResponseSize = 10 << 20

// Response is a captured SOAP response
type Response struct {
	StatusCode int
	Body       []byte
	Duration   time.Duration
}

// Client performs blocking SOAP calls bounded by a timeout and the caller's context
type Client struct {
	client  *http.Client
	timeout time.Duration
}

// NewClient creates a client whose calls never outlive timeout
func NewClient(timeout time.Duration) *Client {
	return NewClientWithHTTP(&http.Client{
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
		},
		Timeout: timeout,
	}, timeout)
}

// NewClientWithHTTP uses a caller supplied http.Client (tests, custom TLS)
func NewClientWithHTTP(hc *http.Client, timeout time.Duration) *Client {
	return &Client{client: hc, timeout: timeout}
}

// Call posts a SOAP 1.1 envelope. The returned Response is non-nil whenever a
// response was received, including for *HTTPStatusError and *FaultError.
func (c *Client) Call(ctx context.Context, endpoint, soapAction string, envelope []byte) (*Response, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(envelope))
	if err != nil {
		return nil, &TransportError{Endpoint: endpoint, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "text/xml; charset=utf-8")
	req.Header.Set("SOAPAction", `"`+soapAction+`"`)
	req.Header.Set("User-Agent", "tps40-merak/1.0")

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, c.classify(endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	result := &Response{
		StatusCode: resp.StatusCode,
		Body:       body,
		Duration:   time.Since(start),
	}
	if err != nil {
		return result, c.classify(endpoint, fmt.Errorf("failed to read response: %w", err))
	}

	// Faults usually arrive with HTTP 500, so look for one before the status check
	if code, msg, ok := parseFault(body); ok {
		return result, &FaultError{StatusCode: resp.StatusCode, Code: code, Message: msg}
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, &HTTPStatusError{StatusCode: resp.StatusCode, Body: body}
	}
	return result, nil
}

func (c *Client) classify(endpoint string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return &TimeoutError{Endpoint: endpoint, Timeout: c.timeout, Err: err}
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &TimeoutError{Endpoint: endpoint, Timeout: c.timeout, Err: err}
	}
	return &TransportError{Endpoint: endpoint, Err: err}
}

// IsTimeout reports whether err is a *TimeoutError
func IsTimeout(err error) bool {
	var te *TimeoutError
	return errors.As(err, &te)
}
