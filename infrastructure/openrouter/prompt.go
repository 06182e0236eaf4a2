package openrouter

import (
	"fmt"
	"strings"

	"github.com/SteveMet/eps-connect-demo/domain/quote"
)

// quoteResponseSchema is embedded into the user prompt so the model
// returns JSON the parser can validate. Field annotations describe the
// expected types; the model fills in values.
const quoteResponseSchema = `{
  "customer_quote": {
    "quote_number": "string (QT-YYYYMMDD-NNN)",
    "customer": { "name": "string", "company": "string", "email": "string" },
    "line_items": [
      {
        "item_number": "number",
        "product": "string",
        "specs": {
          "size": "string",
          "pages": "number (optional)",
          "colors": "string",
          "stock": "string",
          "finishing": ["string"],
          "binding": "string (optional)"
        },
        "quantities": [{ "qty": "number", "unit_price": "number", "total": "number" }],
        "lead_time_days": "number",
        "notes": "string (optional)"
      }
    ],
    "subtotal": "number",
    "package_discount_pct": "number",
    "package_discount_amt": "number",
    "total": "number",
    "valid_days": "number (usually 30)",
    "notes": ["string"]
  },
  "internal_costs": {
    "line_items": [
      {
        "item_number": "number",
        "product": "string",
        "cost_breakdown": {
          "materials": "number",
          "prepress": "number",
          "press": "number",
          "plates": "number",
          "finishing": "number",
          "shipping": "number"
        },
        "total_cost": "number",
        "sell_price": "number",
        "margin_dollars": "number",
        "margin_pct": "number",
        "target_margin_pct": "number",
        "margin_status": "on_target | below_target | below_minimum"
      }
    ],
    "total_cost": "number",
    "total_revenue": "number",
    "total_margin": "number",
    "blended_margin_pct": "number"
  },
  "competitive_analysis": {
    "line_items": [
      {
        "item_number": "number",
        "product": "string",
        "our_price_unit": "number",
        "market_low": "number",
        "market_avg": "number",
        "market_high": "number",
        "position": "BELOW_MARKET | AT_MARKET | ABOVE_MARKET | WELL_ABOVE_MARKET",
        "variance_pct": "number",
        "competitors": [{ "name": "string", "price": "number", "threat": "string" }],
        "recommendation": "HOLD | ADJUST_DOWN | ADJUST_UP",
        "adjusted_price": "number | null"
      }
    ],
    "scorecard": {
      "total_quote_value": "number",
      "market_value_avg": "number",
      "overall_position_pct": "number",
      "items_at_below_market": "number",
      "items_above_market": "number",
      "total_items": "number",
      "risk_level": "LOW | LOW_MEDIUM | MEDIUM | HIGH"
    }
  },
  "win_strategy": {
    "talking_points": ["string"],
    "price_adjustments": [{ "item": "string", "from": "number", "to": "number", "reason": "string" }],
    "package_discount_suggestion": "string"
  }
}`

const sectionSeparator = "\n\n---\n\n"

// buildSystemPrompt composes role instructions and knowledge documents
// into a single system message.
func buildSystemPrompt(ks quote.KnowledgeSource) (string, error) {
	estimator, err := ks.PrintEstimatorPrompt()
	if err != nil {
		return "", fmt.Errorf("load estimator prompt: %w", err)
	}
	pricer, err := ks.CompetitivePricerPrompt()
	if err != nil {
		return "", fmt.Errorf("load competitive pricer prompt: %w", err)
	}
	profile, err := ks.FactoryProfile()
	if err != nil {
		return "", fmt.Errorf("load factory profile: %w", err)
	}
	pricing, err := ks.MarketPricingDatabase()
	if err != nil {
		return "", fmt.Errorf("load market pricing database: %w", err)
	}

	blocks := []string{
		estimator + sectionSeparator + "ADDITIONAL ROLE - COMPETITIVE PRICING:\n" + pricer,
		"FACTORY PROFILE (your source of truth for costs and capabilities):\n\n" + profile,
		"MARKET PRICING DATABASE (your source of truth for competitive positioning):\n\n" + pricing,
	}

	return strings.Join(blocks, sectionSeparator), nil
}

// buildUserPrompt serializes the quote request with the output schema,
// formatting directives, the urgency multiplier directive, and an
// optional customer block.
func buildUserPrompt(req *quote.Request) string {
	var b strings.Builder

	b.WriteString("Process this quote request and return your response as valid JSON matching this exact schema:\n\n")
	b.WriteString(quoteResponseSchema)
	b.WriteString("\n\nImportant:\n")
	b.WriteString("- Return ONLY the JSON object, no markdown fences, no extra text\n")
	b.WriteString("- Every field must be populated\n")
	b.WriteString("- All prices in USD\n")
	b.WriteString("- margin_status: \"on_target\" | \"below_target\" | \"below_minimum\"\n")
	b.WriteString("- position: \"BELOW_MARKET\" | \"AT_MARKET\" | \"ABOVE_MARKET\" | \"WELL_ABOVE_MARKET\"\n")
	b.WriteString("- recommendation: \"HOLD\" | \"ADJUST_DOWN\" | \"ADJUST_UP\"\n")
	b.WriteString("- For each line item, provide at least 2-3 quantity options where it makes sense (e.g. if customer asks for 1000, also quote 2500 and 5000)\n")
	b.WriteString("- Include competitive analysis for the PRIMARY quantity option on each line item\n")
	b.WriteString("\nCustomer quote request:\n")
	b.WriteString(req.Request)
	b.WriteString("\n")

	switch req.Urgency {
	case quote.UrgencyRush:
		b.WriteString("\nURGENCY: RUSH - apply 1.5x rush pricing\n")
	case quote.UrgencyEmergency:
		b.WriteString("\nURGENCY: EMERGENCY - apply 2x rush pricing\n")
	}

	if ci := req.CustomerInfo; ci != nil && ci.Name != "" {
		b.WriteString("\nCustomer: ")
		b.WriteString(ci.Name)
		if ci.Company != "" {
			b.WriteString(", " + ci.Company)
		}
		if ci.Email != "" {
			b.WriteString(", " + ci.Email)
		}
		b.WriteString("\n")
	}

	return b.String()
}
