package lockpin

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/renterra/boxrent/internal/metrics"
)

// defaultVariance is the lock-side PIN slot sent with every PIN request
// when the deployment does not configure its own.
const defaultVariance = 1

// Client talks to the smart-lock provider.  It is safe for concurrent use.
// Every IssuePin call fetches a fresh bearer token; the provider's tokens
// are short lived and the extra round trip keeps the client stateless.
type Client struct {
	tokenURL     string
	pinURL       string
	clientID     string
	clientSecret string
	variance     int
	loc          *time.Location
	httpClient   *http.Client
	log          zerolog.Logger
}

// NewClient builds a provider client.  tokenURL and pinURL are the
// provider's fixed endpoints, the credential pair is exchanged for bearer
// tokens, loc is the lock's local civil time zone used to format PIN
// validity windows, and timeout bounds each outbound request so a stalled
// provider call cannot hold a booking transaction open indefinitely.
func NewClient(tokenURL, pinURL, clientID, clientSecret string, loc *time.Location, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		tokenURL:     tokenURL,
		pinURL:       pinURL,
		clientID:     clientID,
		clientSecret: clientSecret,
		variance:     defaultVariance,
		loc:          loc,
		httpClient:   &http.Client{Timeout: timeout},
		log:          log,
	}
}

// WithVariance overrides the provider's PIN slot parameter and returns the
// client for chaining during construction.
func (c *Client) WithVariance(v int) *Client {
	if v > 0 {
		c.variance = v
	}
	return c
}

// getAccessToken exchanges the client-credential pair for a bearer token.
// Non-2xx responses fail with ErrAuthenticationFailed and carry the
// provider's error body for diagnostics.
func (c *Client) getAccessToken(ctx context.Context) (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrAuthenticationFailed, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", fmt.Errorf("%w: status %d: %s", ErrAuthenticationFailed, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tok); err != nil || tok.AccessToken == "" {
		return "", fmt.Errorf("%w: token response missing access_token", ErrAuthenticationFailed)
	}
	return tok.AccessToken, nil
}

// generatePin POSTs an hourly-PIN request for the given window and returns
// the raw, loosely-typed response object.  Non-2xx responses fail with
// ErrPinProvider including status and body.
func (c *Client) generatePin(ctx context.Context, token string, start, end time.Time, accessName string) (map[string]json.RawMessage, error) {
	payload := map[string]interface{}{
		"variance":   c.variance,
		"startDate":  FormatLocalHour(start, c.loc),
		"endDate":    FormatLocalHour(end, c.loc),
		"accessName": accessName,
	}
	buf, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.pinURL, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPinProvider, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<16))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: status %d: %s", ErrPinProvider, resp.StatusCode, strings.TrimSpace(string(body)))
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: unparseable body: %v", ErrPinFormat, err)
	}
	return raw, nil
}

// IssuePin is the single entry point the rest of the system calls.  It
// validates the window, fetches a token, requests an hourly PIN and parses
// the numeric code out of the response.  Any failure is fatal to the
// caller's transaction; there is no booking without a working PIN.
func (c *Client) IssuePin(ctx context.Context, start, end time.Time, accessName string) (int64, error) {
	if !end.After(start) {
		return 0, ErrInvalidRange
	}
	started := time.Now()
	defer func() {
		metrics.ObservePinIssueDuration(time.Since(started).Seconds())
	}()
	token, err := c.getAccessToken(ctx)
	if err != nil {
		c.log.Error().Err(err).Str("access_name", accessName).Msg("lock pin token fetch failed")
		return 0, err
	}
	raw, err := c.generatePin(ctx, token, start, end, accessName)
	if err != nil {
		c.log.Error().Err(err).Str("access_name", accessName).Msg("lock pin request failed")
		return 0, err
	}
	pin, err := ExtractPin(raw)
	if err != nil {
		c.log.Error().Err(err).Str("access_name", accessName).Msg("lock pin response unparseable")
		return 0, err
	}
	c.log.Info().Str("access_name", accessName).
		Time("start", start).Time("end", end).
		Msg("lock pin issued")
	return pin, nil
}
