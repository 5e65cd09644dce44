package check

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

const (
	// DefaultPath is the endpoint that reveals the build number.
	DefaultPath = "/owa/auth/logon.aspx"
	// DefaultHeader is the response header carrying the build number.
	DefaultHeader = "X-OWA-Version"

	probeTimeout = 15 * time.Second
)

// ErrNoVersionHeader is returned when the probed endpoint answered but did
// not expose a build number.
var ErrNoVersionHeader = errors.New("check: server did not report a version header")

// ProbeOptions tunes how a server is probed. Zero values use the defaults
// above; Insecure skips TLS verification, which Exchange installs with
// self-signed certificates need.
type ProbeOptions struct {
	Path     string
	Header   string
	Insecure bool
	Client   *http.Client
}

// Probe asks a live server for its build number. target is a hostname,
// host:port, or a full https URL.
func Probe(ctx context.Context, target string, opts ProbeOptions) (string, error) {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.Header == "" {
		opts.Header = DefaultHeader
	}
	client := opts.Client
	if client == nil {
		client = &http.Client{Timeout: probeTimeout}
		if opts.Insecure {
			client.Transport = &http.Transport{
				TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
			}
		}
	}

	if !strings.Contains(target, "://") {
		target = "https://" + target
	}
	url := strings.TrimRight(target, "/") + opts.Path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("check: build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("check: probe %s: %w", url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	version := strings.TrimSpace(resp.Header.Get(opts.Header))
	if version == "" {
		return "", fmt.Errorf("%w (%s, status %d)", ErrNoVersionHeader, opts.Header, resp.StatusCode)
	}
	return version, nil
}
