package entrysync

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/julianstephens/vitalcal/internal/constants"
	"github.com/julianstephens/vitalcal/internal/logger"
	"github.com/julianstephens/vitalcal/internal/utils"
)

// maxBodyBytes caps how much of an entry response is read
const maxBodyBytes = 1 << 20

// Client talks to the journal server's entry endpoints
type Client struct {
	baseURL    string
	httpClient *http.Client
	tokens     TokenSource
	tokenField string
	session    string
	limiter    *rate.Limiter
	log        *log.Logger
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the default http.Client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTokenSource sets where the anti-forgery token comes from
func WithTokenSource(ts TokenSource) Option {
	return func(c *Client) { c.tokens = ts }
}

// WithTokenField sets the form field name carrying the token
func WithTokenField(field string) Option {
	return func(c *Client) { c.tokenField = field }
}

// WithSession sets the server session cookie sent with every request
func WithSession(session string) Option {
	return func(c *Client) { c.session = session }
}

// WithRateLimit throttles outgoing requests
func WithRateLimit(perSecond float64, burst int) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(perSecond), burst) }
}

// NewClient creates a client for the server at baseURL
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: scheme and host are required", baseURL)
	}

	c := &Client{
		baseURL:    strings.TrimRight(u.String(), "/"),
		httpClient: &http.Client{Timeout: constants.DefaultRequestTimeout},
		tokens:     StaticToken(""),
		tokenField: constants.DefaultTokenField,
		limiter:    rate.NewLimiter(rate.Limit(constants.DefaultRequestRate), constants.DefaultRequestBurst),
		log:        logger.With("component", "entrysync"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server address without a trailing slash
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchEntry loads the entry for date (YYYY-MM-DD). Every failure is
// returned as a *NetworkError; there is no retry.
func (c *Client) FetchEntry(ctx context.Context, date string) (Entry, error) {
	if err := checkDate(date); err != nil {
		return Entry{}, err
	}

	req, err := c.newRequest(ctx, http.MethodGet, fmt.Sprintf(constants.EntriesPathFormat, date), nil)
	if err != nil {
		return Entry{}, &NetworkError{Op: OpFetch, Kind: KindTransport, Date: date, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return Entry{}, &NetworkError{Op: OpFetch, Kind: KindTransport, Date: date, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		drain(resp.Body)
		return Entry{}, &NetworkError{Op: OpFetch, Kind: KindStatus, Date: date, StatusCode: resp.StatusCode}
	}

	var entry Entry
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodyBytes)).Decode(&entry); err != nil {
		return Entry{}, &NetworkError{Op: OpFetch, Kind: KindDecode, Date: date, StatusCode: resp.StatusCode, Err: err}
	}

	c.log.Debug("entry fetched", "date", date)
	return entry, nil
}

// SaveEntry posts entry for date. An invalid blood pressure is rejected
// with a *ValidationError before anything is sent. The response body is
// ignored; any 2xx status is success.
func (c *Client) SaveEntry(ctx context.Context, date string, entry Entry) error {
	if !ValidateBloodPressure(entry.BloodPressure) {
		return &ValidationError{Field: constants.FieldBloodPressure, Value: entry.BloodPressure, Err: ErrInvalidBloodPressure}
	}
	if err := checkDate(date); err != nil {
		return err
	}

	token, err := c.tokens.Token()
	if err != nil {
		return &NetworkError{Op: OpSave, Kind: KindAuth, Date: date, Err: err}
	}

	form := url.Values{}
	form.Set(constants.FieldBloodPressure, entry.BloodPressure)
	form.Set(constants.FieldGlucoseLevel, strings.TrimSpace(entry.GlucoseLevel.String()))
	form.Set(c.tokenField, token)

	req, err := c.newRequest(ctx, http.MethodPost, fmt.Sprintf(constants.SaveEntryPathFormat, date), strings.NewReader(form.Encode()))
	if err != nil {
		return &NetworkError{Op: OpSave, Kind: KindTransport, Date: date, Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(constants.TokenHeader, token)
	req.Header.Set("Referer", c.baseURL+"/")
	req.AddCookie(&http.Cookie{Name: constants.TokenCookie, Value: token})

	resp, err := c.do(req)
	if err != nil {
		return &NetworkError{Op: OpSave, Kind: KindTransport, Date: date, Err: err}
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &NetworkError{Op: OpSave, Kind: KindStatus, Date: date, StatusCode: resp.StatusCode}
	}

	c.log.Info("entry saved", "date", date)
	return nil
}

// Ping checks that the server answers at all. Any status below 500 counts.
func (c *Client) Ping(ctx context.Context) error {
	req, err := c.newRequest(ctx, http.MethodGet, "/", nil)
	if err != nil {
		return &NetworkError{Op: OpPing, Kind: KindTransport, Err: err}
	}
	resp, err := c.do(req)
	if err != nil {
		return &NetworkError{Op: OpPing, Kind: KindTransport, Err: err}
	}
	defer resp.Body.Close()
	drain(resp.Body)

	if resp.StatusCode >= 500 {
		return &NetworkError{Op: OpPing, Kind: KindStatus, StatusCode: resp.StatusCode}
	}
	return nil
}

func (c *Client) newRequest(ctx context.Context, method, path string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(constants.RequestIDHeader, uuid.NewString())
	req.Header.Set("X-Requested-With", "XMLHttpRequest")
	req.Header.Set("User-Agent", constants.AppName+"/"+constants.Version)
	if c.session != "" {
		req.AddCookie(&http.Cookie{Name: constants.SessionCookie, Value: c.session})
	}
	return req, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if err := c.limiter.Wait(req.Context()); err != nil {
		return nil, err
	}
	c.log.Debug("request", "method", req.Method, "path", req.URL.Path, "request_id", req.Header.Get(constants.RequestIDHeader))
	return c.httpClient.Do(req)
}

func checkDate(date string) error {
	if _, err := utils.ParseDate(date); err != nil {
		return &ValidationError{Field: "date", Value: date, Err: ErrInvalidDate}
	}
	return nil
}

func drain(r io.Reader) {
	_, _ = io.Copy(io.Discard, io.LimitReader(r, maxBodyBytes))
}
