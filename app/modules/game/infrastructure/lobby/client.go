package lobby

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	gamedomain "github.com/grogbot/dominions-bot/app/modules/game/domain"
	"golang.org/x/time/rate"
)

const (
	// DefaultStatusURLTemplate is the illwinter lobby status page for a game name.
	DefaultStatusURLTemplate = "http://ulm.illwinter.com/dom6/server/%s.html"

	defaultFetchTimeout = 15 * time.Second
	maxRedirects        = 5
	maxPageBytes        = 2 << 20
)

// Config controls how status pages are fetched.
type Config struct {
	URLTemplate string
	Timeout     time.Duration
	// RequestsPerSecond limits outbound requests; zero disables the limit.
	RequestsPerSecond float64
	Burst             int
}

// Client fetches and parses game status pages.
type Client struct {
	httpClient  *http.Client
	urlTemplate string
	limiter     *rate.Limiter
}

// NewClient builds a Client, applying defaults for empty fields.
func NewClient(cfg Config) *Client {
	if cfg.URLTemplate == "" {
		cfg.URLTemplate = DefaultStatusURLTemplate
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultFetchTimeout
	}

	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	return &Client{
		httpClient:  newStatusClient(cfg.Timeout),
		urlTemplate: cfg.URLTemplate,
		limiter:     limiter,
	}
}

// StatusURL returns the status page address for a game.
func (c *Client) StatusURL(name string) string {
	return fmt.Sprintf(c.urlTemplate, name)
}

// FetchStatus retrieves and parses the status page of the named game.
func (c *Client) FetchStatus(ctx context.Context, name string) (*gamedomain.LobbyStatus, error) {
	url := c.StatusURL(name)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, &gamedomain.FetchError{Game: name, URL: url, Err: err}
	}

	req, err := newStatusRequest(ctx, url)
	if err != nil {
		return nil, &gamedomain.FetchError{Game: name, URL: url, Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &gamedomain.FetchError{Game: name, URL: url, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &gamedomain.FetchError{Game: name, URL: url, StatusCode: resp.StatusCode}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, &gamedomain.FetchError{Game: name, URL: url, Err: err}
	}

	return ParseStatusPage(string(body))
}

func newStatusClient(timeout time.Duration) *http.Client {
	return &http.Client{
		Timeout: timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return fmt.Errorf("too many redirects")
			}
			return nil
		},
	}
}

func newStatusRequest(ctx context.Context, url string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; DominionsBot/1.0)")
	req.Header.Set("Accept", "text/html, */*")
	return req, nil
}
