package rates

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// RateUnavailableError reports that no published rate exists within the
// resolver's lookback window before the trade date.
type RateUnavailableError struct {
	Currency     string
	TradeDate    time.Time
	LookbackDays int
}

func (e *RateUnavailableError) Error() string {
	return fmt.Sprintf("no %s rate published within %d days before %s",
		e.Currency, e.LookbackDays, e.TradeDate.Format("2006-01-02"))
}

// Resolver finds the most recent date strictly before a trade date for which
// the rate authority published a mid rate.
//
// The walk starts at the previous working day (Monday trades start three days
// back, Sunday trades two, everything else one) and applies the same rule to
// each candidate that turns out to have no published rate. Unlike the naive
// unbounded loop, the walk gives up once the candidate falls more than
// maxLookbackDays calendar days before the trade date and returns a typed
// *RateUnavailableError.
//
// Lookup outcomes are memoized per (currency, date) for the resolver's
// lifetime: the same fixing is consulted for many rows of one ledger and for
// the overlapping backward walks of neighbouring trade dates. Transport
// errors are never cached.
type Resolver struct {
	lookup          RateLookup
	maxLookbackDays int

	mu    sync.Mutex
	cache map[rateKey]rateOutcome
}

type rateKey struct {
	currency string
	date     string // 2006-01-02
}

type rateOutcome struct {
	rate      float64
	published bool
}

// NewResolver builds a Resolver on top of the given lookup capability.
// maxLookbackDays must be >= 1; values below are clamped to 1.
func NewResolver(lookup RateLookup, maxLookbackDays int) *Resolver {
	if maxLookbackDays < 1 {
		maxLookbackDays = 1
	}
	return &Resolver{
		lookup:          lookup,
		maxLookbackDays: maxLookbackDays,
		cache:           make(map[rateKey]rateOutcome),
	}
}

// PreviousWorkingRate returns the latest date strictly before tradeDate with a
// published mid rate for currency, together with that rate.
//
// The returned date is always strictly earlier than tradeDate. Transport
// failures abort the walk immediately; an exhausted lookback window returns
// *RateUnavailableError.
func (r *Resolver) PreviousWorkingRate(ctx context.Context, currency string, tradeDate time.Time) (time.Time, float64, error) {
	candidate := PreviousWorkingDate(tradeDate)

	for {
		rate, published, err := r.midRateCached(ctx, currency, candidate)
		if err != nil {
			return time.Time{}, 0, err
		}
		if published {
			return candidate, rate, nil
		}

		candidate = PreviousWorkingDate(candidate)

		// The initial candidate is always tried, even when the weekend skip
		// jumps past a short window. The bound applies to further steps only.
		if tradeDate.Sub(candidate) > time.Duration(r.maxLookbackDays)*24*time.Hour {
			return time.Time{}, 0, &RateUnavailableError{
				Currency:     currency,
				TradeDate:    tradeDate,
				LookbackDays: r.maxLookbackDays,
			}
		}
	}
}

func (r *Resolver) midRateCached(ctx context.Context, currency string, date time.Time) (float64, bool, error) {
	key := rateKey{currency: currency, date: date.Format("2006-01-02")}

	r.mu.Lock()
	if out, ok := r.cache[key]; ok {
		r.mu.Unlock()
		return out.rate, out.published, nil
	}
	r.mu.Unlock()

	rate, published, err := r.lookup.MidRate(ctx, currency, date)
	if err != nil {
		return 0, false, err
	}

	r.mu.Lock()
	r.cache[key] = rateOutcome{rate: rate, published: published}
	r.mu.Unlock()

	return rate, published, nil
}

// PreviousWorkingDate returns the candidate publication date immediately
// preceding d: Monday steps back to Friday, Sunday to Friday, and every other
// weekday to the previous calendar day.
func PreviousWorkingDate(d time.Time) time.Time {
	switch d.Weekday() {
	case time.Monday:
		return d.AddDate(0, 0, -3)
	case time.Sunday:
		return d.AddDate(0, 0, -2)
	default:
		return d.AddDate(0, 0, -1)
	}
}
