package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"strconv"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

// Responses larger than this are treated as malformed.
const maxResponseBytes = 4 << 20

// CallObserver receives one observation per outbound call.
type CallObserver interface {
	ObserveAPICall(endpoint, status string, elapsed time.Duration)
}

type noopObserver struct{}

func (noopObserver) ObserveAPICall(string, string, time.Duration) {}

// Client posts codOpe-style JSON requests and decodes the replies.
type Client struct {
	httpClient *http.Client
	timeout    time.Duration
	logger     *zap.Logger
	observer   CallObserver
}

// NewHTTPClient returns an http.Client whose transport emits client spans.
func NewHTTPClient() *http.Client {
	return &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)}
}

func NewClient(httpClient *http.Client, timeout time.Duration, logger *zap.Logger, observer CallObserver) *Client {
	if httpClient == nil {
		httpClient = NewHTTPClient()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if observer == nil {
		observer = noopObserver{}
	}
	return &Client{httpClient: httpClient, timeout: timeout, logger: logger, observer: observer}
}

// post sends payload to url and decodes the JSON body into out.
// The caller's cancellation is not propagated; every call gets its own timeout.
func (c *Client) post(ctx context.Context, op, endpoint, url string, payload, out any) error {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout)
	defer cancel()

	body, err := json.Marshal(payload)
	if err != nil {
		return &Error{Op: op, Kind: KindMalformed, Err: err}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return &Error{Op: op, Kind: KindTransport, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	c.logger.Debug("Remote request", zap.String("op", op), zap.ByteString("payload", body))

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		kind := KindTransport
		if isTimeout(err) {
			kind = KindTimeout
		}
		c.observer.ObserveAPICall(endpoint, string(kind), time.Since(start))
		return &Error{Op: op, Kind: kind, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, maxResponseBytes))
		c.observer.ObserveAPICall(endpoint, "http_"+strconv.Itoa(resp.StatusCode), time.Since(start))
		return &Error{Op: op, Kind: KindHTTP, Status: resp.StatusCode}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(out); err != nil {
		kind := KindMalformed
		if isTimeout(err) {
			kind = KindTimeout
		}
		c.observer.ObserveAPICall(endpoint, string(kind), time.Since(start))
		return &Error{Op: op, Kind: kind, Err: err}
	}

	c.observer.ObserveAPICall(endpoint, "success", time.Since(start))
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

