// Package skyline negotiates viewer sessions with SkylineWebcams, the
// special provider behind some municipal cameras. Their HLS streams only
// play with a PHPSESSID issued to a browser-looking visit of the camera
// page, so the negotiation happens server-side to dodge CORS.
package skyline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"time"

	"github.com/MDCYT/peru-scanner/internal/domain"
)

// Provider is the descriptor name used in camera records.
const Provider = "SkylineWebcams"

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

var (
	// ErrNoSessionCookie reports that the provider page answered without
	// issuing a session.
	ErrNoSessionCookie = errors.New("no session cookie in provider response")

	// ErrNotSkylineCamera reports a camera without a Skyline descriptor.
	ErrNotSkylineCamera = errors.New("camera has no SkylineWebcams descriptor")
)

// SessionClient fetches provider session tokens.
type SessionClient struct {
	timeout time.Duration
	logger  *slog.Logger
}

// NewSessionClient creates a session negotiator.
func NewSessionClient(timeout time.Duration, logger *slog.Logger) *SessionClient {
	return &SessionClient{timeout: timeout, logger: logger}
}

// FetchSessionID visits the given provider page with browser headers,
// following redirects, and returns the PHPSESSID cookie it was issued.
// userAgent may be empty; a browser default is used.
func (c *SessionClient) FetchSessionID(ctx context.Context, pageURL, userAgent string) (string, error) {
	if _, err := url.ParseRequestURI(pageURL); err != nil {
		return "", fmt.Errorf("invalid provider url: %w", err)
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return "", fmt.Errorf("create cookie jar: %w", err)
	}
	client := &http.Client{Timeout: c.timeout, Jar: jar}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "es-PE,es;q=0.9,en;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("provider request: %w", err)
	}
	defer resp.Body.Close()

	// The jar has collected cookies across any redirects.
	for _, cookie := range jar.Cookies(resp.Request.URL) {
		if cookie.Name == "PHPSESSID" && cookie.Value != "" {
			c.logger.Debug("provider session negotiated", "url", pageURL)
			return cookie.Value, nil
		}
	}

	return "", ErrNoSessionCookie
}

// SessionForCamera negotiates a session for a camera's special provider.
func (c *SessionClient) SessionForCamera(ctx context.Context, cam domain.Camera, userAgent string) (string, error) {
	if cam.Special == nil || cam.Special.Provider != Provider {
		return "", fmt.Errorf("%w: camera %s", ErrNotSkylineCamera, cam.ID)
	}
	return c.FetchSessionID(ctx, cam.Special.URL, userAgent)
}
