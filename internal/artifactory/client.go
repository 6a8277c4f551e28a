package artifactory

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/poppy-build/poppup/internal/artifact"
	"github.com/poppy-build/poppup/internal/logger"
	"github.com/sirupsen/logrus"
)

// DefaultTimeout bounds every request.
const DefaultTimeout = 30 * time.Second

// Client talks to one repository of an artifact store.
type Client struct {
	locator    artifact.Locator
	creds      Credentials
	httpClient *http.Client
	timeout    time.Duration
	userAgent  string
	log        logrus.FieldLogger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets a custom HTTP client (useful for testing).
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithTimeout overrides DefaultTimeout. Zero or negative disables it.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) {
		cl.timeout = d
	}
}

// WithLogger sets the logger used for progress lines.
func WithLogger(l logrus.FieldLogger) Option {
	return func(cl *Client) {
		cl.log = l
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// New creates a Client bound to a locator and credentials.
func New(locator artifact.Locator, creds Credentials, opts ...Option) *Client {
	c := &Client{
		locator:   locator,
		creds:     creds,
		timeout:   DefaultTimeout,
		userAgent: "poppup",
		log:       logger.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{}
	}
	if c.timeout > 0 && c.httpClient.Timeout == 0 {
		hc := *c.httpClient
		hc.Timeout = c.timeout
		c.httpClient = &hc
	}
	return c
}

// Locator returns the locator the client was built with.
func (c *Client) Locator() artifact.Locator {
	return c.locator
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, &TransportError{Method: method, URL: url, Err: err}
	}
	req.Header.Set("User-Agent", c.userAgent)
	if c.creds.User != "" || c.creds.Token != "" {
		req.SetBasicAuth(c.creds.User, c.creds.Token)
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Method: req.Method, URL: req.URL.String(), Err: err}
	}
	c.log.WithFields(logrus.Fields{
		"method": req.Method,
		"status": resp.StatusCode,
	}).Infof("response status code: %d", resp.StatusCode)
	return resp, nil
}

// readErrorBody returns a trimmed, size-capped body for error messages.
func readErrorBody(r io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(r, maxBodyInError))
	return strings.TrimSpace(string(data))
}
