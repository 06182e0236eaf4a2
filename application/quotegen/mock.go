package quotegen

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/SteveMet/eps-connect-demo/domain/quote"
)

// GenerateMockQuote builds a deterministic quote for simulated mode.
// The request text selects one of five canned job templates by keyword;
// the numbers are consistent with the factory profile and market
// pricing knowledge documents. Urgency scales the sell side only, the
// cost basis never changes.
func GenerateMockQuote(req *quote.Request, now time.Time) *quote.Response {
	quoteNum := fmt.Sprintf("QT-%s-001", now.Format("20060102"))
	customer := mockCustomer(req.CustomerInfo)
	mult := req.Urgency.Multiplier()

	lower := strings.ToLower(req.Request)
	switch {
	case strings.Contains(lower, "banner stand") || strings.Contains(lower, "retractable"):
		return bannerStandQuote(quoteNum, req.Urgency, mult, customer)
	case strings.Contains(lower, "brochure") || strings.Contains(lower, "tri-fold"):
		return brochureQuote(quoteNum, req.Urgency, mult, customer)
	case strings.Contains(lower, "postcard") || strings.Contains(lower, "direct mail"):
		return postcardQuote(quoteNum, req.Urgency, mult, customer)
	case strings.Contains(lower, "label") || strings.Contains(lower, "sticker"):
		return labelQuote(quoteNum, req.Urgency, mult, customer)
	default:
		return flyerQuote(quoteNum, req.Urgency, mult, customer)
	}
}

func mockCustomer(info *quote.CustomerInfo) quote.QuoteCustomer {
	c := quote.QuoteCustomer{Name: "Valued Customer"}
	if info != nil {
		if info.Name != "" {
			c.Name = info.Name
		}
		c.Company = info.Company
		c.Email = info.Email
	}
	return c
}

// round2 rounds currency amounts to cents.
func round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// round1 rounds percentages to one decimal place.
func round1(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(1).Float64()
	return f
}

// qtyOption prices one quantity tier: the unit price is scaled and
// rounded first, then multiplied out, so unit x qty always equals the
// displayed total exactly.
func qtyOption(q int, baseUnitPrice, mult float64) quote.QuantityOption {
	unit := round2(baseUnitPrice * mult)
	return quote.QuantityOption{Qty: q, UnitPrice: unit, Total: round2(unit * float64(q))}
}

func marginPct(revenue, cost float64) float64 {
	return round1((revenue - cost) / revenue * 100)
}

func leadTime(urgency quote.Urgency, standard, rush, emergency int) int {
	switch urgency {
	case quote.UrgencyEmergency:
		return emergency
	case quote.UrgencyRush:
		return rush
	default:
		return standard
	}
}

func urgencyNote(urgency quote.Urgency) string {
	switch urgency {
	case quote.UrgencyRush:
		return "RUSH pricing applied (1.5x standard rate)"
	case quote.UrgencyEmergency:
		return "EMERGENCY pricing applied (2x standard rate)"
	default:
		return ""
	}
}

func flyerQuote(quoteNum string, urgency quote.Urgency, mult float64, customer quote.QuoteCustomer) *quote.Response {
	lead := qtyOption(500, 0.29, mult)
	const cost = 98.5

	notes := []string{
		"Prices based on print-ready PDF files",
		"Proof approval required before production",
		"Terms: Net 30 (approved accounts)",
	}
	if n := urgencyNote(urgency); n != "" {
		notes = append(notes, n)
	}

	return &quote.Response{
		CustomerQuote: quote.CustomerQuote{
			QuoteNumber: quoteNum,
			Customer:    customer,
			LineItems: []quote.QuoteLineItem{{
				ItemNumber: 1,
				Product:    "Full-Color Flyers",
				Specs: quote.ItemSpecs{
					Size:      `8.5" x 11"`,
					Colors:    "4/4 (Full Color Both Sides)",
					Stock:     "100# Gloss Text",
					Finishing: []string{"Cut to size"},
				},
				Quantities: []quote.QuantityOption{
					lead,
					qtyOption(1000, 0.20, mult),
					qtyOption(2500, 0.13, mult),
				},
				LeadTimeDays: leadTime(urgency, 5, 2, 1),
				Notes:        "Digital press recommended at 500-1,000 qty. Offset becomes more economical at 2,500+.",
			}},
			Subtotal:  lead.Total,
			Total:     lead.Total,
			ValidDays: 30,
			Notes:     notes,
		},
		InternalCosts: quote.InternalCosts{
			LineItems: []quote.CostLineItem{{
				ItemNumber: 1,
				Product:    "Full-Color Flyers (500)",
				CostBreakdown: quote.CostBreakdown{
					Materials: 18.5,
					Prepress:  35.0,
					Press:     30.0,
					Finishing: 15.0,
				},
				TotalCost:       cost,
				SellPrice:       lead.Total,
				MarginDollars:   round2(lead.Total - cost),
				MarginPct:       marginPct(lead.Total, cost),
				TargetMarginPct: 45,
				MarginStatus:    "below_target",
			}},
			TotalCost:        cost,
			TotalRevenue:     lead.Total,
			TotalMargin:      round2(lead.Total - cost),
			BlendedMarginPct: marginPct(lead.Total, cost),
		},
		CompetitiveAnalysis: quote.CompetitiveAnalysis{
			LineItems: []quote.CompetitiveLineItem{{
				ItemNumber:   1,
				Product:      "Full-Color Flyers (500)",
				OurPriceUnit: round2(0.29 * mult),
				MarketLow:    0.28,
				MarketAvg:    0.30,
				MarketHigh:   0.43,
				Position:     quote.PositionAtMarket,
				VariancePct:  -3.3,
				Competitors: []quote.Competitor{
					{Name: "Printkeg", Price: 0.28, Threat: "Price match guarantee, fast shipping"},
					{Name: "ClubFlyers", Price: 0.29, Threat: "Published pricing, consistent cheapest at 1K+"},
					{Name: "NextDayFlyers", Price: 0.35, Threat: "Same-day printing, 99.8% on-time rate"},
				},
				Recommendation: "HOLD",
			}},
			Scorecard: quote.CompetitiveScorecard{
				TotalQuoteValue:    lead.Total,
				MarketValueAvg:     150,
				OverallPositionPct: -3.3,
				ItemsAtBelowMarket: 1,
				TotalItems:         1,
				RiskLevel:          "LOW",
			},
		},
		WinStrategy: quote.WinStrategy{
			TalkingPoints: []string{
				"Our price is right at market average, so no price objection is expected",
				"Emphasize our 5-day turnaround with local delivery included",
				"Digital press gives us flexibility for last-minute file changes",
				"Offer to quote 1,000 and 2,500 to show volume savings",
				"Free preflight included on orders over $500, worth mentioning for repeat business",
			},
			PriceAdjustments:          []quote.PriceAdjustment{},
			PackageDiscountSuggestion: "Offer 5% discount if they commit to monthly recurring order of 1,000+",
		},
	}
}

func brochureQuote(quoteNum string, urgency quote.Urgency, mult float64, customer quote.QuoteCustomer) *quote.Response {
	sell := round2(270 * mult)
	const cost = 159.5

	return &quote.Response{
		CustomerQuote: quote.CustomerQuote{
			QuoteNumber: quoteNum,
			Customer:    customer,
			LineItems: []quote.QuoteLineItem{{
				ItemNumber: 1,
				Product:    "Tri-Fold Brochures",
				Specs: quote.ItemSpecs{
					Size:      `8.5" x 11" flat (folds to 3.67" x 8.5")`,
					Colors:    "4/4 (Full Color Both Sides)",
					Stock:     "100# Gloss Text",
					Finishing: []string{"Tri-fold", "Aqueous coating"},
				},
				Quantities: []quote.QuantityOption{
					{Qty: 1000, UnitPrice: round2(0.27 * mult), Total: sell},
					{Qty: 2500, UnitPrice: round2(0.16 * mult), Total: round2(400 * mult)},
					{Qty: 5000, UnitPrice: round2(0.11 * mult), Total: round2(550 * mult)},
				},
				LeadTimeDays: leadTime(urgency, 7, 4, 3),
				Notes:        "Offset on SM 74. Aqueous coating included for scuff resistance. 80# gloss text also available at ~8% savings.",
			}},
			Subtotal:  sell,
			Total:     sell,
			ValidDays: 30,
			Notes: []string{
				"Prices based on print-ready PDF files",
				"Proof approval required before production",
				"Aqueous coating included at no extra charge on offset runs",
				"Terms: Net 30 (approved accounts)",
			},
		},
		InternalCosts: quote.InternalCosts{
			LineItems: []quote.CostLineItem{{
				ItemNumber: 1,
				Product:    "Tri-Fold Brochures (1,000)",
				CostBreakdown: quote.CostBreakdown{
					Materials: 32.0,
					Prepress:  25.0,
					Press:     62.5,
					Plates:    100.0,
					Finishing: 40.0,
				},
				TotalCost:       cost,
				SellPrice:       sell,
				MarginDollars:   round2(sell - cost),
				MarginPct:       marginPct(sell, cost),
				TargetMarginPct: 40,
				MarginStatus:    "on_target",
			}},
			TotalCost:        cost,
			TotalRevenue:     sell,
			TotalMargin:      round2(sell - cost),
			BlendedMarginPct: marginPct(sell, cost),
		},
		CompetitiveAnalysis: quote.CompetitiveAnalysis{
			LineItems: []quote.CompetitiveLineItem{{
				ItemNumber:   1,
				Product:      "Tri-Fold Brochures (1,000)",
				OurPriceUnit: round2(0.27 * mult),
				MarketLow:    0.22,
				MarketAvg:    0.25,
				MarketHigh:   0.28,
				Position:     quote.PositionAboveMarket,
				VariancePct:  8.0,
				Competitors: []quote.Competitor{
					{Name: "ClubFlyers", Price: 0.22, Threat: "Cheapest at 1K+, published pricing"},
					{Name: "Overnight Grafix", Price: 0.26, Threat: "AQ coating included, design services"},
					{Name: "48HourPrint", Price: 0.25, Threat: "Fast turnaround, heavy promos"},
				},
				Recommendation: "HOLD",
			}},
			Scorecard: quote.CompetitiveScorecard{
				TotalQuoteValue:    sell,
				MarketValueAvg:     250,
				OverallPositionPct: 8.0,
				ItemsAboveMarket:   1,
				TotalItems:         1,
				RiskLevel:          "LOW",
			},
		},
		WinStrategy: quote.WinStrategy{
			TalkingPoints: []string{
				"8% above market average, well within our service premium zone",
				"Aqueous coating included at no extra charge (competitors charge extra)",
				"Local delivery and hands-on account management vs. online self-service",
				"Show 2,500 and 5,000 pricing to demonstrate significant volume savings",
				"Offer free hard copy proof; online vendors charge for this",
			},
			PriceAdjustments:          []quote.PriceAdjustment{},
			PackageDiscountSuggestion: "3% discount if ordered with another print item (business cards, flyers, etc.)",
		},
	}
}

func bannerStandQuote(quoteNum string, urgency quote.Urgency, mult float64, customer quote.QuoteCustomer) *quote.Response {
	sell := round2(1776 * mult)
	const cost = 746.0
	standard := urgency == quote.UrgencyStandard || urgency == ""

	position := quote.PositionAboveMarket
	variance := 9.6
	overallPct := 9.6
	risk := "LOW"
	if !standard {
		position = quote.PositionWellAboveMarket
		variance = round1((148*mult - 135) / 135 * 100)
		overallPct = round1((1776*mult - 1620) / 1620 * 100)
		risk = "MEDIUM"
	}

	turnaroundNote := "Standard 5 business day turnaround"
	if urgency == quote.UrgencyRush {
		turnaroundNote = "RUSH pricing applied, 3-day turnaround"
	} else if urgency == quote.UrgencyEmergency {
		turnaroundNote = "EMERGENCY pricing applied, 2-day turnaround"
	}

	speedPoint := "5-day turnaround competitive with online, but with local pickup/delivery option"
	if !standard {
		speedPoint = "Rush turnaround is our advantage, online vendors can't match this speed"
	}

	adjustments := []quote.PriceAdjustment{}
	if !standard {
		adjustments = append(adjustments, quote.PriceAdjustment{
			Item:   "Banner Stands",
			From:   round2(148 * mult),
			To:     round2(140 * mult),
			Reason: "Slight reduction to stay competitive on rush pricing",
		})
	}

	return &quote.Response{
		CustomerQuote: quote.CustomerQuote{
			QuoteNumber: quoteNum,
			Customer:    customer,
			LineItems: []quote.QuoteLineItem{{
				ItemNumber: 1,
				Product:    "Retractable Banner Stands",
				Specs: quote.ItemSpecs{
					Size:      `33" x 80"`,
					Colors:    "Full Color",
					Stock:     "Premium Photo Satin (8mil poly)",
					Finishing: []string{"Retractable aluminum stand", "Padded carry bag"},
				},
				Quantities: []quote.QuantityOption{
					{Qty: 12, UnitPrice: round2(148 * mult), Total: sell},
					{Qty: 20, UnitPrice: round2(138 * mult), Total: round2(2760 * mult)},
				},
				LeadTimeDays: leadTime(urgency, 5, 3, 2),
				Notes:        "Includes mid-range retractable stand with chrome base and padded carry bag. 12 unique designs, no extra charge.",
			}},
			Subtotal:  sell,
			Total:     sell,
			ValidDays: 30,
			Notes: []string{
				"Prices include print + hardware + carry bags",
				"12 unique designs at no additional charge",
				"Print-ready files required (300dpi, CMYK)",
				turnaroundNote,
				"Terms: Net 30 (approved accounts)",
			},
		},
		InternalCosts: quote.InternalCosts{
			LineItems: []quote.CostLineItem{{
				ItemNumber: 1,
				Product:    "Retractable Banner Stands (12)",
				CostBreakdown: quote.CostBreakdown{
					Materials: 420.0,
					Prepress:  50.0,
					Press:     180.0,
					Finishing: 96.0,
				},
				TotalCost:       cost,
				SellPrice:       sell,
				MarginDollars:   round2(sell - cost),
				MarginPct:       marginPct(sell, cost),
				TargetMarginPct: 50,
				MarginStatus:    "on_target",
			}},
			TotalCost:        cost,
			TotalRevenue:     sell,
			TotalMargin:      round2(sell - cost),
			BlendedMarginPct: marginPct(sell, cost),
		},
		CompetitiveAnalysis: quote.CompetitiveAnalysis{
			LineItems: []quote.CompetitiveLineItem{{
				ItemNumber:   1,
				Product:      "Retractable Banner Stands (12)",
				OurPriceUnit: round2(148 * mult),
				MarketLow:    95,
				MarketAvg:    135,
				MarketHigh:   185,
				Position:     position,
				VariancePct:  variance,
				Competitors: []quote.Competitor{
					{Name: "Elite Flyers", Price: 103, Threat: "Best volume pricing at 10+ stands"},
					{Name: "BannerBuzz", Price: 95, Threat: "Lowest single-unit price from $59"},
					{Name: "Signs.com", Price: 145, Threat: "Transparent pricing, same-day production"},
				},
				Recommendation: "HOLD",
			}},
			Scorecard: quote.CompetitiveScorecard{
				TotalQuoteValue:    sell,
				MarketValueAvg:     1620,
				OverallPositionPct: overallPct,
				ItemsAboveMarket:   1,
				TotalItems:         1,
				RiskLevel:          risk,
			},
		},
		WinStrategy: quote.WinStrategy{
			TalkingPoints: []string{
				"All 12 unique designs included at one price; online vendors charge per design",
				"Mid-range chrome hardware included (not economy stands that break at events)",
				"We can handle last-minute design changes in-house",
				speedPoint,
				"Padded carry bags included; most budget vendors charge extra",
				"Reprint individual graphics later without buying new hardware",
			},
			PriceAdjustments:          adjustments,
			PackageDiscountSuggestion: "Offer 5% discount if they also order event materials (flyers, programs, name badges)",
		},
	}
}

func postcardQuote(quoteNum string, urgency quote.Urgency, mult float64, customer quote.QuoteCustomer) *quote.Response {
	sell := round2(600 * mult)
	const cost = 350.0

	return &quote.Response{
		CustomerQuote: quote.CustomerQuote{
			QuoteNumber: quoteNum,
			Customer:    customer,
			LineItems: []quote.QuoteLineItem{{
				ItemNumber: 1,
				Product:    "Postcards (Print Only)",
				Specs: quote.ItemSpecs{
					Size:      `6" x 9"`,
					Colors:    "4/4 (Full Color Both Sides)",
					Stock:     "14pt C2S with UV Coating",
					Finishing: []string{"UV coating both sides", "Cut to size"},
				},
				Quantities: []quote.QuantityOption{
					{Qty: 5000, UnitPrice: round2(0.12 * mult), Total: sell},
					{Qty: 10000, UnitPrice: round2(0.09 * mult), Total: round2(900 * mult)},
					{Qty: 25000, UnitPrice: round2(0.07 * mult), Total: round2(1750 * mult)},
				},
				LeadTimeDays: leadTime(urgency, 7, 3, 2),
				Notes:        "Offset on XL 106 for all quantities. UV coating included for professional finish.",
			}},
			Subtotal:  sell,
			Total:     sell,
			ValidDays: 30,
			Notes: []string{
				"Prices based on print-ready PDF files",
				"UV coating included on both sides",
				"EDDM and mailing services available; ask for full-service direct mail pricing",
				"Terms: Net 30 (approved accounts)",
			},
		},
		InternalCosts: quote.InternalCosts{
			LineItems: []quote.CostLineItem{{
				ItemNumber: 1,
				Product:    "Postcards 6x9 (5,000)",
				CostBreakdown: quote.CostBreakdown{
					Materials: 85.0,
					Prepress:  25.0,
					Press:     95.0,
					Plates:    100.0,
					Finishing: 45.0,
				},
				TotalCost:       cost,
				SellPrice:       sell,
				MarginDollars:   round2(sell - cost),
				MarginPct:       marginPct(sell, cost),
				TargetMarginPct: 40,
				MarginStatus:    "on_target",
			}},
			TotalCost:        cost,
			TotalRevenue:     sell,
			TotalMargin:      round2(sell - cost),
			BlendedMarginPct: marginPct(sell, cost),
		},
		CompetitiveAnalysis: quote.CompetitiveAnalysis{
			LineItems: []quote.CompetitiveLineItem{{
				ItemNumber:   1,
				Product:      "Postcards 6x9 (5,000)",
				OurPriceUnit: round2(0.12 * mult),
				MarketLow:    0.05,
				MarketAvg:    0.11,
				MarketHigh:   0.18,
				Position:     quote.PositionAboveMarket,
				VariancePct:  9.1,
				Competitors: []quote.Competitor{
					{Name: "PostcardMania", Price: 0.10, Threat: "Full-service DM specialist, campaigns from $289"},
					{Name: "GotPrint", Price: 0.08, Threat: "Low print costs, EDDM available"},
					{Name: "PrintPlace", Price: 0.07, Threat: "As low as $0.01/pc at extreme volume"},
				},
				Recommendation: "HOLD",
			}},
			Scorecard: quote.CompetitiveScorecard{
				TotalQuoteValue:    sell,
				MarketValueAvg:     550,
				OverallPositionPct: 9.1,
				ItemsAboveMarket:   1,
				TotalItems:         1,
				RiskLevel:          "LOW",
			},
		},
		WinStrategy: quote.WinStrategy{
			TalkingPoints: []string{
				"9% above average, right in our target premium zone",
				"UV coating included (many budget vendors charge extra)",
				"We can do EDDM and full mailing services in-house; one vendor for everything",
				"Show 10K and 25K pricing to demonstrate significant volume savings",
				"Local delivery included on orders over $250",
			},
			PriceAdjustments:          []quote.PriceAdjustment{},
			PackageDiscountSuggestion: "Bundle with mailing services for 5% print discount",
		},
	}
}

func labelQuote(quoteNum string, urgency quote.Urgency, mult float64, customer quote.QuoteCustomer) *quote.Response {
	sell := round2(280 * mult)
	const cost = 145.0

	return &quote.Response{
		CustomerQuote: quote.CustomerQuote{
			QuoteNumber: quoteNum,
			Customer:    customer,
			LineItems: []quote.QuoteLineItem{{
				ItemNumber: 1,
				Product:    "Product Labels on Rolls",
				Specs: quote.ItemSpecs{
					Size:      `2" x 3"`,
					Colors:    "Full Color (CMYK)",
					Stock:     "White BOPP with Matte Lamination",
					Finishing: []string{"Matte lamination", "Die cut to shape", "Rolls of 500"},
				},
				Quantities: []quote.QuantityOption{
					{Qty: 1000, UnitPrice: round2(0.28 * mult), Total: sell},
					{Qty: 2500, UnitPrice: round2(0.19 * mult), Total: round2(475 * mult)},
					{Qty: 5000, UnitPrice: round2(0.14 * mult), Total: round2(700 * mult)},
				},
				LeadTimeDays: leadTime(urgency, 5, 3, 2),
				Notes:        `Digital label press (Mark Andy). Matte lamination for durability and professional look. Wound on 3" core, rolls of 500.`,
			}},
			Subtotal:  sell,
			Total:     sell,
			ValidDays: 30,
			Notes: []string{
				"Prices based on print-ready PDF files",
				"Existing die on file, no die charge",
				`Labels wound on 3" core, rolls of 500`,
				"Terms: Net 30 (approved accounts)",
			},
		},
		InternalCosts: quote.InternalCosts{
			LineItems: []quote.CostLineItem{{
				ItemNumber: 1,
				Product:    "Product Labels 2x3 (1,000)",
				CostBreakdown: quote.CostBreakdown{
					Materials: 35.0,
					Prepress:  25.0,
					Press:     60.0,
					Finishing: 25.0,
				},
				TotalCost:       cost,
				SellPrice:       sell,
				MarginDollars:   round2(sell - cost),
				MarginPct:       marginPct(sell, cost),
				TargetMarginPct: 45,
				MarginStatus:    "on_target",
			}},
			TotalCost:        cost,
			TotalRevenue:     sell,
			TotalMargin:      round2(sell - cost),
			BlendedMarginPct: marginPct(sell, cost),
		},
		CompetitiveAnalysis: quote.CompetitiveAnalysis{
			LineItems: []quote.CompetitiveLineItem{{
				ItemNumber:   1,
				Product:      "Product Labels 2x3 BOPP (1,000)",
				OurPriceUnit: round2(0.28 * mult),
				MarketLow:    0.15,
				MarketAvg:    0.26,
				MarketHigh:   0.45,
				Position:     quote.PositionAboveMarket,
				VariancePct:  7.7,
				Competitors: []quote.Competitor{
					{Name: "SheetLabels.com", Price: 0.15, Threat: "Lowest prices guaranteed, fast rush options"},
					{Name: "StickerGiant", Price: 0.20, Threat: "Roll labels specialist, machine-apply options"},
					{Name: "Lightning Labels", Price: 0.28, Threat: "No setup fees, digital specialist"},
				},
				Recommendation: "HOLD",
			}},
			Scorecard: quote.CompetitiveScorecard{
				TotalQuoteValue:    sell,
				MarketValueAvg:     260,
				OverallPositionPct: 7.7,
				ItemsAboveMarket:   1,
				TotalItems:         1,
				RiskLevel:          "LOW",
			},
		},
		WinStrategy: quote.WinStrategy{
			TalkingPoints: []string{
				"7.7% above average, solidly within our service premium zone",
				"Matte lamination included; adds durability and professional feel",
				"Digital press means no plate charges and exact quantity (no minimum overrun)",
				"Show 2,500 and 5,000 pricing for significant volume savings",
				"We can do clear BOPP for a ~20% premium if they want a no-label look",
			},
			PriceAdjustments:          []quote.PriceAdjustment{},
			PackageDiscountSuggestion: "5% off if they also order shipping boxes or marketing materials",
		},
	}
}
