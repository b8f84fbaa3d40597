package scanner

import (
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var (
	// pricePattern matches a currency-marked integer: "$1,234" or "1234 USD"
	pricePattern = regexp.MustCompile(`\$([\d,]+)|([\d,]+)\s*USD`)
	// digitsOnly accepts a structured price cell after symbol stripping
	digitsOnly = regexp.MustCompile(`^\d+$`)
)

// Extractor turns one rendered card (or the whole page) into at most one offer
type Extractor struct {
	cfg Config
}

// NewExtractor creates an extractor with the given heuristics
func NewExtractor(cfg Config) *Extractor {
	if len(cfg.TaxKeywords) == 0 {
		cfg.TaxKeywords = DefaultTaxKeywords
	}
	return &Extractor{cfg: cfg}
}

// ExtractCard extracts an offer from a single card element.
// Parse failures never propagate; a card that yields no valid price
// yields a rejected candidate, not an error.
func (e *Extractor) ExtractCard(s *goquery.Selection) Candidate {
	title := e.firstText(s, e.cfg.Selectors.Title)
	if title == "" {
		return Candidate{Reject: RejectNoTitle}
	}
	if utf8.RuneCountInString(title) < e.cfg.MinTitleLength {
		return Candidate{Reject: RejectTitleTooShort}
	}

	price, method := e.cardPrice(s)
	if price <= 0 {
		return Candidate{Reject: RejectNoPrice}
	}

	dateText := e.firstText(s, e.cfg.Selectors.Date)
	if dateText == "" {
		dateText = "Unknown"
	} else {
		dateText = strings.Join(strings.Fields(dateText), " ")
	}

	return Candidate{Offer: &Offer{
		Title:    title,
		Price:    price,
		DateText: dateText,
		Link:     e.cardLink(s),
		Method:   method,
	}}
}

// ExtractPage extracts a single best offer from the whole page.
// Used in single-result mode where the page is already sorted cheapest-first
// and card boundaries are unreliable.
func (e *Extractor) ExtractPage(doc *goquery.Document, pageURL string) Candidate {
	title := e.firstText(doc.Selection, e.cfg.Selectors.Title)
	if title == "" {
		return Candidate{Reject: RejectNoTitle}
	}
	if utf8.RuneCountInString(title) < e.cfg.MinTitleLength {
		return Candidate{Reject: RejectTitleTooShort}
	}

	// Running-minimum scan over every text node carrying a dollar amount,
	// skipping tax/fee/port lines entirely.
	min := 0
	for _, line := range textLines(doc.Selection) {
		lowered := strings.ToLower(line)
		if containsAny(lowered, e.cfg.TaxKeywords) {
			continue
		}
		if !strings.Contains(line, "$") {
			continue
		}
		for _, v := range e.lineValues(line) {
			if min == 0 || v < min {
				min = v
			}
		}
	}
	if min <= 0 {
		return Candidate{Reject: RejectNoPrice}
	}

	return Candidate{Offer: &Offer{
		Title:    title,
		Price:    min,
		DateText: "Unknown",
		Link:     pageURL,
		Method:   MethodTextScan,
	}}
}

// cardPrice runs the two extraction tiers against one card
func (e *Extractor) cardPrice(s *goquery.Selection) (int, ExtractionMethod) {
	// Tier 1: structured price selectors, digits only after stripping
	// the currency symbol and thousands separators
	for _, sel := range e.cfg.Selectors.Price {
		found := 0
		s.Find(sel).EachWithBreak(func(_ int, p *goquery.Selection) bool {
			txt := strings.TrimSpace(p.Text())
			txt = strings.ReplaceAll(txt, ",", "")
			txt = strings.ReplaceAll(txt, "$", "")
			if txt == "" || !digitsOnly.MatchString(txt) {
				return true
			}
			v, err := strconv.Atoi(txt)
			if err != nil || v <= 0 {
				return true
			}
			found = v
			return false
		})
		if found > 0 {
			return found, MethodStructured
		}
	}

	// Tier 2: free-text line scan. The scan also catches ancillary fees
	// below the real fare, so the largest surviving value represents the
	// ticket price.
	max := 0
	for _, line := range textLines(s) {
		if containsAny(strings.ToLower(line), e.cfg.NoiseKeywords) {
			continue
		}
		for _, v := range e.lineValues(line) {
			if v > max {
				max = v
			}
		}
	}
	if max > 0 {
		return max, MethodTextScan
	}
	return 0, ""
}

// lineValues extracts plausible prices from one line of text, applying the
// floor and the calendar-year blocklist
func (e *Extractor) lineValues(line string) []int {
	var values []int
	for _, m := range pricePattern.FindAllStringSubmatch(line, -1) {
		raw := m[1]
		if raw == "" {
			raw = m[2]
		}
		v, err := strconv.Atoi(strings.ReplaceAll(raw, ",", ""))
		if err != nil {
			continue
		}
		if v <= e.cfg.PriceFloor || e.blockedYear(v) {
			continue
		}
		values = append(values, v)
	}
	return values
}

// blockedYear reports whether a value is a known calendar-year false positive
func (e *Extractor) blockedYear(v int) bool {
	for _, y := range e.cfg.YearBlocklist {
		if v == y {
			return true
		}
	}
	return false
}

// firstText returns the trimmed text of the first selector that matches
func (e *Extractor) firstText(s *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		match := s.Find(sel).First()
		if match.Length() == 0 {
			continue
		}
		if text := strings.TrimSpace(match.Text()); text != "" {
			return text
		}
	}
	return ""
}

// cardLink returns the first itinerary link on the card, resolved absolute
func (e *Extractor) cardLink(s *goquery.Selection) string {
	link := ""
	s.Find("a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
		href, exists := a.Attr("href")
		if !exists || href == "" {
			return true
		}
		if e.cfg.Selectors.LinkFilter != "" && !strings.Contains(href, e.cfg.Selectors.LinkFilter) {
			return true
		}
		link = e.resolveURL(href)
		return false
	})
	return link
}

// resolveURL makes a relative href absolute against the configured base URL
func (e *Extractor) resolveURL(href string) string {
	switch {
	case href == "":
		return ""
	case strings.HasPrefix(href, "//"):
		return "https:" + href
	case strings.HasPrefix(href, "/"):
		return strings.TrimRight(e.cfg.BaseURL, "/") + href
	default:
		return href
	}
}

// textLines collects the rendered text of every text-bearing descendant
// node, one entry per node. Mirrors how a browser reports element text as
// separate visual lines.
func textLines(s *goquery.Selection) []string {
	var lines []string
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			if t := strings.TrimSpace(n.Data); t != "" {
				lines = append(lines, t)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, node := range s.Nodes {
		walk(node)
	}
	return lines
}

// containsAny reports whether text contains any of the given keywords
func containsAny(text string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(text, strings.ToLower(k)) {
			return true
		}
	}
	return false
}
