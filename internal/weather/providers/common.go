package providers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

// HTTPClientConfig bundles the HTTP client and the circuit breaker guarding it.
type HTTPClientConfig struct {
	Client  *http.Client
	Circuit *gobreaker.CircuitBreaker
}

var (
	errRateLimited  = errors.New("rate limited")
	errServerError  = errors.New("server error")
	errUnexpected   = errors.New("unexpected status code")
	errCircuitOpen  = errors.New("circuit breaker open")
	errNoHTTPClient = errors.New("http client not configured")
)

// maxBodyBytes caps how much of an upstream body we read.
const maxBodyBytes = 4 << 20

func newCircuitBreaker(name string) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 5,
		Interval:    1 * time.Minute,
		Timeout:     2 * time.Minute,
	})
}

// doRequest executes the request once through the circuit breaker and returns
// the response body. There is no retry: a failed attempt is reported to the caller.
func doRequest(ctx context.Context, cfg HTTPClientConfig, req *http.Request) ([]byte, error) {
	if cfg.Client == nil {
		return nil, errNoHTTPClient
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	// Ensure the request obeys context cancellation.
	req = req.WithContext(ctx)

	exec := func() (interface{}, error) {
		resp, err := cfg.Client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		// Handle rate limiting and server errors explicitly.
		if resp.StatusCode == http.StatusTooManyRequests {
			return nil, errRateLimited
		}
		if resp.StatusCode >= 500 {
			return nil, fmt.Errorf("%w: %d", errServerError, resp.StatusCode)
		}
		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, fmt.Errorf("%w: %d", errUnexpected, resp.StatusCode)
		}

		return io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	}

	var (
		result interface{}
		err    error
	)
	if cfg.Circuit != nil {
		result, err = cfg.Circuit.Execute(exec)
	} else {
		result, err = exec()
	}
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %w", errCircuitOpen, err)
		}
		return nil, err
	}

	body, ok := result.([]byte)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from circuit breaker")
	}
	return body, nil
}
