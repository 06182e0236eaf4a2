package quote

// Core quote entities independent of frameworks and vendors

// Urgency selects the turnaround tier for a quote request.
type Urgency string

const (
	UrgencyStandard  Urgency = "standard"
	UrgencyRush      Urgency = "rush"
	UrgencyEmergency Urgency = "emergency"
)

// Multiplier returns the sell-price scalar for the tier. Unknown values
// fall back to standard pricing.
func (u Urgency) Multiplier() float64 {
	switch u {
	case UrgencyRush:
		return 1.5
	case UrgencyEmergency:
		return 2.0
	default:
		return 1.0
	}
}

type CustomerInfo struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone,omitempty"`
}

// Request is a single quote request. It is created per HTTP call and
// never mutated after binding.
type Request struct {
	Request      string        `json:"request"`
	CustomerInfo *CustomerInfo `json:"customerInfo,omitempty"`
	Urgency      Urgency       `json:"urgency,omitempty"`
}

// Response is the full quote shape. The mock generator builds it
// directly; live model output travels to the client as raw JSON after
// shallow validation, so anything decoding into this type must tolerate
// partially typed fields.
type Response struct {
	CustomerQuote       CustomerQuote       `json:"customer_quote"`
	InternalCosts       InternalCosts       `json:"internal_costs"`
	CompetitiveAnalysis CompetitiveAnalysis `json:"competitive_analysis"`
	WinStrategy         WinStrategy         `json:"win_strategy"`
}

type CustomerQuote struct {
	QuoteNumber        string          `json:"quote_number"`
	Customer           QuoteCustomer   `json:"customer"`
	LineItems          []QuoteLineItem `json:"line_items"`
	Subtotal           float64         `json:"subtotal"`
	PackageDiscountPct float64         `json:"package_discount_pct"`
	PackageDiscountAmt float64         `json:"package_discount_amt"`
	Total              float64         `json:"total"`
	ValidDays          int             `json:"valid_days"`
	Notes              []string        `json:"notes"`
}

type QuoteCustomer struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
}

type QuoteLineItem struct {
	ItemNumber   int              `json:"item_number"`
	Product      string           `json:"product"`
	Specs        ItemSpecs        `json:"specs"`
	Quantities   []QuantityOption `json:"quantities"`
	LeadTimeDays int              `json:"lead_time_days"`
	Notes        string           `json:"notes,omitempty"`
}

type ItemSpecs struct {
	Size      string   `json:"size"`
	Pages     int      `json:"pages,omitempty"`
	Colors    string   `json:"colors"`
	Stock     string   `json:"stock"`
	Finishing []string `json:"finishing"`
	Binding   string   `json:"binding,omitempty"`
}

type QuantityOption struct {
	Qty       int     `json:"qty"`
	UnitPrice float64 `json:"unit_price"`
	Total     float64 `json:"total"`
}

type InternalCosts struct {
	LineItems        []CostLineItem `json:"line_items"`
	TotalCost        float64        `json:"total_cost"`
	TotalRevenue     float64        `json:"total_revenue"`
	TotalMargin      float64        `json:"total_margin"`
	BlendedMarginPct float64        `json:"blended_margin_pct"`
}

type CostLineItem struct {
	ItemNumber      int           `json:"item_number"`
	Product         string        `json:"product"`
	CostBreakdown   CostBreakdown `json:"cost_breakdown"`
	TotalCost       float64       `json:"total_cost"`
	SellPrice       float64       `json:"sell_price"`
	MarginDollars   float64       `json:"margin_dollars"`
	MarginPct       float64       `json:"margin_pct"`
	TargetMarginPct float64       `json:"target_margin_pct"`
	MarginStatus    string        `json:"margin_status"`
}

type CostBreakdown struct {
	Materials float64 `json:"materials"`
	Prepress  float64 `json:"prepress"`
	Press     float64 `json:"press"`
	Plates    float64 `json:"plates"`
	Finishing float64 `json:"finishing"`
	Shipping  float64 `json:"shipping"`
}

type CompetitiveAnalysis struct {
	LineItems []CompetitiveLineItem `json:"line_items"`
	Scorecard CompetitiveScorecard  `json:"scorecard"`
}

// Market position values for a competitive line item.
const (
	PositionBelowMarket     = "BELOW_MARKET"
	PositionAtMarket        = "AT_MARKET"
	PositionAboveMarket     = "ABOVE_MARKET"
	PositionWellAboveMarket = "WELL_ABOVE_MARKET"
)

type CompetitiveLineItem struct {
	ItemNumber     int          `json:"item_number"`
	Product        string       `json:"product"`
	OurPriceUnit   float64      `json:"our_price_unit"`
	MarketLow      float64      `json:"market_low"`
	MarketAvg      float64      `json:"market_avg"`
	MarketHigh     float64      `json:"market_high"`
	Position       string       `json:"position"`
	VariancePct    float64      `json:"variance_pct"`
	Competitors    []Competitor `json:"competitors"`
	Recommendation string       `json:"recommendation"`
	AdjustedPrice  *float64     `json:"adjusted_price"`
}

type Competitor struct {
	Name   string  `json:"name"`
	Price  float64 `json:"price"`
	Threat string  `json:"threat"`
}

type CompetitiveScorecard struct {
	TotalQuoteValue     float64 `json:"total_quote_value"`
	MarketValueAvg      float64 `json:"market_value_avg"`
	OverallPositionPct  float64 `json:"overall_position_pct"`
	ItemsAtBelowMarket  int     `json:"items_at_below_market"`
	ItemsAboveMarket    int     `json:"items_above_market"`
	TotalItems          int     `json:"total_items"`
	RiskLevel           string  `json:"risk_level"`
}

type WinStrategy struct {
	TalkingPoints             []string          `json:"talking_points"`
	PriceAdjustments          []PriceAdjustment `json:"price_adjustments"`
	PackageDiscountSuggestion string            `json:"package_discount_suggestion"`
}

type PriceAdjustment struct {
	Item   string  `json:"item"`
	From   float64 `json:"from"`
	To     float64 `json:"to"`
	Reason string  `json:"reason"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}
