package scanner

import "time"

// ExtractionMethod records which tier produced an offer's price.
// Diagnostics only; never used for ranking.
type ExtractionMethod string

const (
	// MethodStructured means the price came from a known price selector
	MethodStructured ExtractionMethod = "structured"
	// MethodTextScan means the price came from the free-text line scan
	MethodTextScan ExtractionMethod = "text_scan"
)

// ScanMode selects how offers are located on the page
type ScanMode string

const (
	// ModeCards extracts one offer per result card
	ModeCards ScanMode = "cards"
	// ModePage treats the whole page as a single pre-sorted result
	ModePage ScanMode = "page"
)

// RejectReason explains why a card produced no offer
type RejectReason string

const (
	// RejectNone means the candidate was accepted
	RejectNone RejectReason = ""
	// RejectNoTitle means no title selector matched
	RejectNoTitle RejectReason = "no_title"
	// RejectTitleTooShort means the matched title was below the minimum length
	RejectTitleTooShort RejectReason = "title_too_short"
	// RejectNoPrice means neither extraction tier found a plausible price
	RejectNoPrice RejectReason = "no_price"
)

// Offer represents one candidate itinerary found on the page
type Offer struct {
	Title    string           `json:"title"`
	Price    int              `json:"price"`
	DateText string           `json:"date_text"`
	Link     string           `json:"link,omitempty"`
	Method   ExtractionMethod `json:"method"`
}

// Candidate is the outcome of extracting a single card: either an accepted
// offer or an explicit rejection reason
type Candidate struct {
	Offer  *Offer
	Reject RejectReason
}

// Rejected reports whether the card was dropped
func (c Candidate) Rejected() bool {
	return c.Offer == nil
}

// Selectors describes how to locate offer parts on the results page.
// Title, Price and Date lists are tried in priority order.
type Selectors struct {
	CardList   string
	Title      []string
	Price      []string
	Date       []string
	LinkFilter string
}

// Config tunes the extraction and aggregation heuristics
type Config struct {
	Selectors Selectors
	// Mode defaults to ModeCards when empty
	Mode ScanMode
	// PageURL is the results page address, used as the offer link in ModePage
	PageURL         string
	BaseURL         string
	NotifyThreshold int
	PriceFloor      int
	MinTitleLength  int
	NoiseKeywords   []string
	YearBlocklist   []int
	TaxKeywords     []string
}

// DefaultTaxKeywords are excluded from single-result price scans
var DefaultTaxKeywords = []string{"tax", "fee", "port", "expense"}

// RunResult is the aggregate of one scan
type RunResult struct {
	// Offers holds every accepted offer, ascending by price; encounter
	// order breaks ties
	Offers []Offer
	// Deals holds the subset of Offers strictly below the notify
	// threshold, same order
	Deals []Offer
	// ScannedAt is when the scan ran
	ScannedAt time.Time
}

// Empty reports whether the scan found no valid offers
func (r RunResult) Empty() bool {
	return len(r.Offers) == 0
}

// OverallMin returns the cheapest offer found, if any
func (r RunResult) OverallMin() (Offer, bool) {
	if len(r.Offers) == 0 {
		return Offer{}, false
	}
	return r.Offers[0], true
}

// TopDeals returns at most n deals, cheapest first
func (r RunResult) TopDeals(n int) []Offer {
	if n <= 0 || len(r.Deals) <= n {
		return r.Deals
	}
	return r.Deals[:n]
}
