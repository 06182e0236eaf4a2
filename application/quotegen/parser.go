package quotegen

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Model output wraps the JSON payload in markdown fences more often
// than not, sometimes with prose around it. The fence body is tried
// first; failing that, the outermost brace span of the whole text.
var fenceRE = regexp.MustCompile("```(?:json)?\\s*\\n?([\\s\\S]*?)\\n?\\s*```")

var requiredSections = []string{
	"customer_quote",
	"internal_costs",
	"competitive_analysis",
	"win_strategy",
}

// ParseResponse extracts the structured quote from raw model output.
// Validation is deliberately shallow: the four top-level sections must
// be present and customer_quote.line_items must be an array, nothing
// more. The payload is returned as-is rather than decoded into typed
// structs, so nested fields the model mistyped pass through and a
// mostly-good quote still renders; downstream consumers tolerate
// partially-typed data.
func ParseResponse(raw string) (json.RawMessage, error) {
	jsonStr := raw
	if m := fenceRE.FindStringSubmatch(raw); m != nil {
		jsonStr = m[1]
	}

	start := strings.Index(jsonStr, "{")
	end := strings.LastIndex(jsonStr, "}")
	if start == -1 || end == -1 || end < start {
		return nil, errors.New("No JSON object found in response")
	}
	jsonStr = jsonStr[start : end+1]

	var sections map[string]json.RawMessage
	if err := json.Unmarshal([]byte(jsonStr), &sections); err != nil {
		return nil, fmt.Errorf("Failed to parse JSON: %s", err.Error())
	}

	for _, key := range requiredSections {
		section, ok := sections[key]
		if !ok || isEmptyValue(section) {
			return nil, fmt.Errorf("Missing required field: %s", key)
		}
	}

	// A customer_quote that is not an object has no line_items either
	// way; both cases surface as the same array error.
	var customerQuote map[string]json.RawMessage
	if err := json.Unmarshal(sections["customer_quote"], &customerQuote); err != nil {
		return nil, errors.New("customer_quote.line_items must be an array")
	}
	lineItems, ok := customerQuote["line_items"]
	if !ok || !isJSONArray(lineItems) {
		return nil, errors.New("customer_quote.line_items must be an array")
	}

	return json.RawMessage(jsonStr), nil
}

// isEmptyValue reports whether a section value counts as absent: null,
// false, zero, or the empty string.
func isEmptyValue(raw json.RawMessage) bool {
	switch string(bytes.TrimSpace(raw)) {
	case "null", "false", "0", `""`:
		return true
	}
	return false
}

func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
