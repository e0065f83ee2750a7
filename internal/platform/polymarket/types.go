// Package polymarket holds the REST clients for the Polymarket Gamma API
// (market metadata), the Data API (positions), and the CLOB order relay,
// plus the slug helpers for the 15-minute up/down market series.
package polymarket

import (
	"fmt"
	"net/http"
	"time"

	"github.com/predictos/predictd/internal/domain"
)

// APIMarket mirrors the Gamma market payload.
type APIMarket struct {
	ID        string       `json:"id"`
	Question  string       `json:"question"`
	Slug      string       `json:"slug"`
	Outcomes  []APIOutcome `json:"outcomes"`
	Volume    *float64     `json:"volume"`
	Liquidity *float64     `json:"liquidity"`
}

// APIOutcome mirrors one Gamma outcome.
type APIOutcome struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Price  float64  `json:"price"`
	Volume *float64 `json:"volume"`
}

// ToSnapshot converts the API payload to the domain snapshot.
func (m *APIMarket) ToSnapshot() domain.Snapshot {
	outcomes := make([]domain.Outcome, 0, len(m.Outcomes))
	for _, o := range m.Outcomes {
		outcomes = append(outcomes, domain.Outcome{
			ID:       o.ID,
			Name:     o.Name,
			Price:    o.Price,
			Volume24: o.Volume,
		})
	}
	return domain.Snapshot{
		ID:        m.ID,
		Question:  m.Question,
		Slug:      m.Slug,
		Platform:  domain.PlatformPolymarket,
		Outcomes:  outcomes,
		Volume:    m.Volume,
		Liquidity: m.Liquidity,
	}
}

// PositionData is one raw position row from the Data API.
type PositionData struct {
	TokenID      string  `json:"token_id"`
	Outcome      string  `json:"outcome"`
	Shares       float64 `json:"shares"`
	AvgPrice     float64 `json:"avg_price"`
	CurrentPrice float64 `json:"current_price"`
}

// ---------------------------------------------------------------------------
// 15-minute up/down market windows
// ---------------------------------------------------------------------------

// windowSlugLayout renders a window start into the slug timestamp segment,
// e.g. 20260901-1530.
const windowSlugLayout = "20060102-1504"

// CurrentWindow returns the start of the 15-minute window containing now.
func CurrentWindow(now time.Time) time.Time {
	return now.UTC().Truncate(15 * time.Minute)
}

// NextWindow returns the start of the 15-minute window after the one
// containing now.
func NextWindow(now time.Time) time.Time {
	return CurrentWindow(now).Add(15 * time.Minute)
}

// WindowSlug builds the market slug for the up/down series window starting at
// start.
func WindowSlug(start time.Time) string {
	return "15min-up-down-" + start.UTC().Format(windowSlugLayout)
}

// checkHTTPStatus maps non-2xx status codes to domain errors.
func checkHTTPStatus(statusCode int, body []byte) error {
	if statusCode >= 200 && statusCode < 300 {
		return nil
	}
	switch statusCode {
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", domain.ErrNotFound, body)
	case http.StatusTooManyRequests:
		return fmt.Errorf("%w: %s", domain.ErrRateLimited, body)
	default:
		return fmt.Errorf("%w: HTTP %d: %s", domain.ErrExternalAPI, statusCode, body)
	}
}
