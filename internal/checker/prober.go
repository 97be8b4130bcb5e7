package checker

import (
	"context"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/khanhnv2901/bigip-recon/internal/domain/site"
	consts "github.com/khanhnv2901/bigip-recon/internal/shared/constants"
	sharedErrors "github.com/khanhnv2901/bigip-recon/internal/shared/errors"
)

// Prober fetches the response headers of a host.
type Prober interface {
	Probe(ctx context.Context, host string) (site.Headers, error)
}

// HTTPProber issues a single plain-HTTP GET with redirects disabled.
type HTTPProber struct {
	Timeout time.Duration
	client  *http.Client
}

// NewHTTPProber builds a prober whose client never follows redirects and never
// reuses connections, so every probe is one fresh connection attempt.
func NewHTTPProber(timeout time.Duration) *HTTPProber {
	if timeout <= 0 {
		timeout = consts.DefaultProbeTimeout
	}
	dialer := &net.Dialer{Timeout: timeout}
	return &HTTPProber{
		Timeout: timeout,
		client: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
			Transport: &http.Transport{
				DialContext:           dialer.DialContext,
				DisableKeepAlives:     true,
				ResponseHeaderTimeout: timeout,
			},
		},
	}
}

// Probe performs GET http://<host> and returns the response headers.
// A 3xx response is final; its headers are returned as-is.
func (p *HTTPProber) Probe(ctx context.Context, host string) (site.Headers, error) {
	client := p.client
	if client == nil {
		client = NewHTTPProber(p.Timeout).client
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+host, nil)
	if err != nil {
		return site.Headers{}, fmt.Errorf("%w: %s: create request: %w", sharedErrors.ErrProbeFailed, host, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return site.Headers{}, fmt.Errorf("%w: %s: %w", sharedErrors.ErrProbeFailed, host, err)
	}
	defer resp.Body.Close()

	// Drain a little of the body - ignore errors as this is just cleanup
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, consts.ProbeBodyDrainBytes))

	return site.NewHeaders(resp.Header), nil
}
