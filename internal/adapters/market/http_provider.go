package market

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/SscSPs/expense_fx_engine/internal/apperrors"
	"github.com/SscSPs/expense_fx_engine/internal/core/ports/gateways"
	"github.com/shopspring/decimal"
)

const (
	ratesPath      = "/v1/rates"
	defaultTimeout = 4 * time.Second
	maxBodyBytes   = 1 << 20
)

// HTTPRateProvider fetches live rates from a JSON market-rate API.
//
//	GET {baseURL}/v1/rates?from=USD&to=CNY&date=2024-03-15
//	X-API-Key: <key>
//
//	{"from":"USD","to":"CNY","rate":"7.1023","timestamp":"2024-03-15T08:00:00Z"}
type HTTPRateProvider struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures an HTTPRateProvider.
type Option func(*HTTPRateProvider)

// WithHTTPClient replaces the default client.
func WithHTTPClient(client *http.Client) Option {
	return func(p *HTTPRateProvider) {
		p.httpClient = client
	}
}

// WithAPIKey sets the key sent in the X-API-Key header.
func WithAPIKey(key string) Option {
	return func(p *HTTPRateProvider) {
		p.apiKey = key
	}
}

// WithTimeout sets the per-request timeout of the default client.
func WithTimeout(timeout time.Duration) Option {
	return func(p *HTTPRateProvider) {
		if timeout > 0 {
			p.httpClient.Timeout = timeout
		}
	}
}

// NewHTTPRateProvider creates a provider for the API at baseURL.
func NewHTTPRateProvider(baseURL string, opts ...Option) *HTTPRateProvider {
	p := &HTTPRateProvider{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

var _ gateways.MarketRateProvider = (*HTTPRateProvider)(nil)

type rateResponse struct {
	From      string           `json:"from"`
	To        string           `json:"to"`
	Rate      *decimal.Decimal `json:"rate"`
	Timestamp *time.Time       `json:"timestamp"`
}

// FetchRate returns the market rate for from -> to on date.
func (p *HTTPRateProvider) FetchRate(ctx context.Context, from, to string, date time.Time) (gateways.MarketQuote, error) {
	query := url.Values{}
	query.Set("from", from)
	query.Set("to", to)
	query.Set("date", date.Format(time.DateOnly))
	reqURL := p.baseURL + ratesPath + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return gateways.MarketQuote{}, fmt.Errorf("%w: failed to create request: %w", apperrors.ErrProviderUnavailable, err)
	}
	req.Header.Set("Accept", "application/json")
	if p.apiKey != "" {
		req.Header.Set("X-API-Key", p.apiKey)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return gateways.MarketQuote{}, fmt.Errorf("%w: %w", apperrors.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return gateways.MarketQuote{}, fmt.Errorf("%w: failed to read response: %w", apperrors.ErrProviderUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		return gateways.MarketQuote{}, fmt.Errorf("%w: %s/%s returned status %d", apperrors.ErrProviderUnavailable, from, to, resp.StatusCode)
	}

	var payload rateResponse
	if err := json.Unmarshal(body, &payload); err != nil {
		return gateways.MarketQuote{}, fmt.Errorf("%w: failed to decode response: %w", apperrors.ErrProviderUnavailable, err)
	}
	if payload.Rate == nil || !payload.Rate.IsPositive() {
		return gateways.MarketQuote{}, fmt.Errorf("%w: %s/%s returned no positive rate", apperrors.ErrProviderUnavailable, from, to)
	}
	if payload.From != "" && !strings.EqualFold(payload.From, from) || payload.To != "" && !strings.EqualFold(payload.To, to) {
		return gateways.MarketQuote{}, fmt.Errorf("%w: asked for %s/%s, got %s/%s", apperrors.ErrProviderUnavailable, from, to, payload.From, payload.To)
	}

	quote := gateways.MarketQuote{Rate: *payload.Rate, Timestamp: time.Now().UTC()}
	if payload.Timestamp != nil {
		quote.Timestamp = *payload.Timestamp
	}
	return quote, nil
}
