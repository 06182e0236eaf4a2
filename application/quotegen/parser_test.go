package quotegen

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SteveMet/eps-connect-demo/domain/quote"
)

const minimalQuoteJSON = `{
  "customer_quote": {
    "quote_number": "QT-20260831-001",
    "customer": {"name": "Pat", "company": "", "email": ""},
    "line_items": [
      {
        "item_number": 1,
        "product": "Full-Color Flyers",
        "specs": {"size": "8.5\" x 11\"", "colors": "4/4", "stock": "100# Gloss Text", "finishing": ["Cut to size"]},
        "quantities": [{"qty": 500, "unit_price": 0.29, "total": 145.00}],
        "lead_time_days": 5
      }
    ],
    "subtotal": 145.00,
    "package_discount_pct": 0,
    "package_discount_amt": 0,
    "total": 145.00,
    "valid_days": 30,
    "notes": []
  },
  "internal_costs": {"line_items": [], "total_cost": 98.5, "total_revenue": 145.0, "total_margin": 46.5, "blended_margin_pct": 32.1},
  "competitive_analysis": {"line_items": [], "scorecard": {"total_quote_value": 145.0, "market_value_avg": 150, "overall_position_pct": -3.3, "items_at_below_market": 1, "items_above_market": 0, "total_items": 1, "risk_level": "LOW"}},
  "win_strategy": {"talking_points": [], "price_adjustments": [], "package_discount_suggestion": ""}
}`

// decodeQuote reads a parsed payload into the typed response for
// assertions; production code never does this.
func decodeQuote(t *testing.T, data json.RawMessage) *quote.Response {
	t.Helper()
	var resp quote.Response
	require.NoError(t, json.Unmarshal(data, &resp))
	return &resp
}

func TestParseResponse_BareJSON(t *testing.T) {
	data, err := ParseResponse(minimalQuoteJSON)
	require.NoError(t, err)

	resp := decodeQuote(t, data)
	assert.Equal(t, "QT-20260831-001", resp.CustomerQuote.QuoteNumber)
	require.Len(t, resp.CustomerQuote.LineItems, 1)
	assert.Equal(t, "Full-Color Flyers", resp.CustomerQuote.LineItems[0].Product)
	assert.Equal(t, 145.00, resp.CustomerQuote.Total)
}

func TestParseResponse_FencedJSON(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"json fence", "```json\n" + minimalQuoteJSON + "\n```"},
		{"anonymous fence", "```\n" + minimalQuoteJSON + "\n```"},
		{"fence with surrounding prose", "Here is your quote:\n\n```json\n" + minimalQuoteJSON + "\n```\n\nLet me know if you need changes."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := ParseResponse(tt.raw)
			require.NoError(t, err)
			assert.Equal(t, "QT-20260831-001", decodeQuote(t, data).CustomerQuote.QuoteNumber)
		})
	}
}

func TestParseResponse_ProseAroundBareObject(t *testing.T) {
	raw := "Sure! The quote follows.\n" + minimalQuoteJSON + "\nHope that helps."
	data, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.Equal(t, "QT-20260831-001", decodeQuote(t, data).CustomerQuote.QuoteNumber)
}

func TestParseResponse_NoObject(t *testing.T) {
	_, err := ParseResponse("I could not generate a quote for that request.")
	require.Error(t, err)
	assert.Equal(t, "No JSON object found in response", err.Error())
}

func TestParseResponse_EmptyInput(t *testing.T) {
	_, err := ParseResponse("")
	require.Error(t, err)
	assert.Equal(t, "No JSON object found in response", err.Error())
}

func TestParseResponse_MalformedJSON(t *testing.T) {
	_, err := ParseResponse(`{"customer_quote": {"line_items": [}`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to parse JSON")
}

func TestParseResponse_MissingSections(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		missing string
	}{
		{
			"no customer_quote",
			`{"internal_costs": {}, "competitive_analysis": {}, "win_strategy": {}}`,
			"customer_quote",
		},
		{
			"no win_strategy",
			`{"customer_quote": {"line_items": []}, "internal_costs": {}, "competitive_analysis": {}}`,
			"win_strategy",
		},
		{
			"null section counts as missing",
			`{"customer_quote": {"line_items": []}, "internal_costs": null, "competitive_analysis": {}, "win_strategy": {}}`,
			"internal_costs",
		},
		{
			"empty string section counts as missing",
			`{"customer_quote": {"line_items": []}, "internal_costs": {}, "competitive_analysis": "", "win_strategy": {}}`,
			"competitive_analysis",
		},
		{
			"false section counts as missing",
			`{"customer_quote": {"line_items": []}, "internal_costs": {}, "competitive_analysis": {}, "win_strategy": false}`,
			"win_strategy",
		},
		{
			"zero section counts as missing",
			`{"customer_quote": {"line_items": []}, "internal_costs": 0, "competitive_analysis": {}, "win_strategy": {}}`,
			"internal_costs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.raw)
			require.Error(t, err)
			assert.Equal(t, "Missing required field: "+tt.missing, err.Error())
		})
	}
}

func TestParseResponse_LineItemsMustBeArray(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"absent", `{"customer_quote": {}, "internal_costs": {}, "competitive_analysis": {}, "win_strategy": {}}`},
		{"null", `{"customer_quote": {"line_items": null}, "internal_costs": {}, "competitive_analysis": {}, "win_strategy": {}}`},
		{"object", `{"customer_quote": {"line_items": {}}, "internal_costs": {}, "competitive_analysis": {}, "win_strategy": {}}`},
		{"customer_quote not an object", `{"customer_quote": "whoops", "internal_costs": {}, "competitive_analysis": {}, "win_strategy": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseResponse(tt.raw)
			require.Error(t, err)
			assert.Equal(t, "customer_quote.line_items must be an array", err.Error())
		})
	}
}

func TestParseResponse_EmptyLineItemsArrayIsValid(t *testing.T) {
	raw := `{"customer_quote": {"line_items": []}, "internal_costs": {}, "competitive_analysis": {}, "win_strategy": {}}`
	data, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(data))
}

func TestParseResponse_PartiallyTypedFieldsPassThrough(t *testing.T) {
	// Models sometimes emit numbers as strings or invent field shapes.
	// Shallow validation lets those through untouched; clients render
	// what they can.
	raw := `{
	  "customer_quote": {
	    "line_items": [{"product": "Flyers", "quantities": "see notes"}],
	    "subtotal": "145.00",
	    "total": 145,
	    "notes": "single string instead of a list"
	  },
	  "internal_costs": {"total_cost": "98.50"},
	  "competitive_analysis": {"scorecard": {"risk_level": 3}},
	  "win_strategy": {"talking_points": []}
	}`
	data, err := ParseResponse(raw)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(data))
}

func TestParseResponse_Idempotent(t *testing.T) {
	first, err := ParseResponse(minimalQuoteJSON)
	require.NoError(t, err)
	second, err := ParseResponse(minimalQuoteJSON)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
