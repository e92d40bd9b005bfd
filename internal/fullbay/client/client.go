// Package client talks to the Fullbay export API. Authentication is the
// vendor's scheme: a per-request token derived from the API key, the
// current UTC date and the caller's public IP, so tokens expire daily and
// are bound to the machine that requested them.
package client

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kerrybros/fullbay-ingest/internal/fullbay/types"
	"github.com/kerrybros/fullbay-ingest/internal/logger"
)

const defaultBaseURL = "https://app.fullbay.com/services"

// IPResolver returns the public IP the API sees for this machine. Split
// out so tests never hit the network.
type IPResolver interface {
	PublicIP(ctx context.Context) (string, error)
}

type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	resolver   IPResolver
	appLogger  *logger.Logger

	// now is swapped in tests to pin the token date.
	now func() time.Time
}

type Option func(*Client)

func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = strings.TrimRight(u, "/") }
}

func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

func WithIPResolver(r IPResolver) Option {
	return func(c *Client) { c.resolver = r }
}

func WithClock(now func() time.Time) Option {
	return func(c *Client) { c.now = now }
}

func New(apiKey string, appLogger *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		resolver:   &ipifyResolver{},
		appLogger:  appLogger,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Token computes the daily request token: SHA1 over key + UTC date +
// public IP, hex encoded.
func Token(apiKey, date, publicIP string) string {
	sum := sha1.Sum([]byte(apiKey + date + publicIP))
	return hex.EncodeToString(sum[:])
}

type invoiceEnvelope struct {
	Status    string            `json:"status"`
	Message   string            `json:"message"`
	ResultSet []json.RawMessage `json:"resultSet"`
}

// Document pairs the decoded invoice with the exact bytes it came from.
// The raw form is what gets archived; the decoded form is what gets
// flattened.
type Document struct {
	Invoice types.Invoice
	Raw     json.RawMessage
}

// GetInvoices fetches all invoices whose invoice date falls in the
// inclusive [start, end] range.
func (c *Client) GetInvoices(ctx context.Context, start, end time.Time) ([]Document, error) {
	const component = "FullbayClient"

	ip, err := c.resolver.PublicIP(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving public ip: %w", err)
	}

	today := c.now().UTC().Format(time.DateOnly)
	token := Token(c.apiKey, today, ip)

	q := url.Values{}
	q.Set("key", c.apiKey)
	q.Set("token", token)
	q.Set("startDate", start.Format(time.DateOnly))
	q.Set("endDate", end.Format(time.DateOnly))

	reqURL := c.baseURL + "/getInvoices.php?" + q.Encode()
	c.appLogger.Debug(component, "Requesting invoices: start=%s end=%s",
		start.Format(time.DateOnly), end.Format(time.DateOnly))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("invoice request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("invoice request returned %s: %s", resp.Status, strings.TrimSpace(string(body)))
	}

	var envelope invoiceEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		return nil, fmt.Errorf("decoding invoice response: %w", err)
	}

	if envelope.Status != "" && !strings.EqualFold(envelope.Status, "success") {
		return nil, fmt.Errorf("invoice request rejected: status=%s message=%s", envelope.Status, envelope.Message)
	}

	docs := make([]Document, 0, len(envelope.ResultSet))
	for i, raw := range envelope.ResultSet {
		var inv types.Invoice
		if err := json.Unmarshal(raw, &inv); err != nil {
			return nil, fmt.Errorf("decoding invoice at index %d: %w", i, err)
		}
		docs = append(docs, Document{Invoice: inv, Raw: raw})
	}

	c.appLogger.Info(component, "Fetched invoices: count=%d start=%s end=%s",
		len(docs), start.Format(time.DateOnly), end.Format(time.DateOnly))
	return docs, nil
}

// ipifyResolver asks api.ipify.org, the same service the token issuer
// checks against.
type ipifyResolver struct{}

func (ipifyResolver) PublicIP(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "https://api.ipify.org", nil)
	if err != nil {
		return "", err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("public ip lookup failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("public ip lookup returned %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 64))
	if err != nil {
		return "", err
	}

	ip := strings.TrimSpace(string(body))
	if ip == "" {
		return "", fmt.Errorf("public ip lookup returned empty body")
	}
	return ip, nil
}
