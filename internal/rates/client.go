package rates

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/emigdal/plnpulse/config"
)

// RateLookup is the capability the resolver needs from the rate authority.
//
// MidRate returns (rate, true, nil) when a mid rate is published for the
// currency on the given date, (0, false, nil) when the authority has no rate
// for that date (holiday, date before publication), and a non-nil error only
// for transport or protocol failures.
type RateLookup interface {
	MidRate(ctx context.Context, currency string, date time.Time) (float64, bool, error)
}

// rateSeries mirrors the NBP table-A response for a single currency/date,
// e.g. GET /exchangerates/rates/a/usd/2024-01-02.
type rateSeries struct {
	Table    string `json:"table"`
	Currency string `json:"currency"`
	Code     string `json:"code"`
	Rates    []struct {
		No            string  `json:"no"`
		EffectiveDate string  `json:"effectiveDate"`
		Mid           float64 `json:"mid"`
	} `json:"rates"`
}

// Client queries the NBP exchange-rate API for table-A mid rates.
type Client struct {
	http *resty.Client
}

// NewClient builds an NBP client from configuration.
func NewClient(cfg config.NBPConfig) *Client {
	c := resty.New()
	c.SetBaseURL(cfg.BaseURL)
	c.SetTimeout(cfg.Timeout)
	c.SetHeader("Accept", "application/json")
	return &Client{http: c}
}

// MidRate implements RateLookup against the NBP API.
//
// NBP answers 404 (with a plain-text body) when no table-A fixing exists for
// the requested date; that is a regular "no rate" outcome, not an error.
func (c *Client) MidRate(ctx context.Context, currency string, date time.Time) (float64, bool, error) {
	var series rateSeries
	path := fmt.Sprintf("/exchangerates/rates/a/%s/%s", strings.ToLower(currency), date.Format("2006-01-02"))

	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&series).
		Get(path)
	if err != nil {
		return 0, false, fmt.Errorf("nbp request %s: %w", path, err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return 0, false, nil
	}
	if !resp.IsSuccess() {
		return 0, false, fmt.Errorf("nbp request %s: unexpected status %d", path, resp.StatusCode())
	}
	if len(series.Rates) == 0 {
		return 0, false, nil
	}
	return series.Rates[0].Mid, true, nil
}

// Ping checks that the NBP API is reachable. Used by the readiness probe.
func (c *Client) Ping() error {
	resp, err := c.http.R().Get("/exchangerates/tables/a/last/1/")
	if err != nil {
		return fmt.Errorf("nbp ping: %w", err)
	}
	if !resp.IsSuccess() {
		return fmt.Errorf("nbp ping: unexpected status %d", resp.StatusCode())
	}
	return nil
}
