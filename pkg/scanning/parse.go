package scanning

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"Grocery-Receipt-Tracker/entities"
)

// wire mirrors the model's JSON output before dates and enums are checked.
type (
	wirePurchase struct {
		Name      string  `json:"name"`
		Quantity  float64 `json:"quantity"`
		UnitPrice float64 `json:"unit_price"`
		UnitType  string  `json:"unit_type"`
		Category  string  `json:"category"`
		Brand     *string `json:"brand"`
	}

	wireReceipt struct {
		IsValid   bool           `json:"is_valid"`
		User      ParsedUser     `json:"user"`
		Store     *ParsedStore   `json:"store"`
		DateTime  *string        `json:"date_time"`
		Purchases []wirePurchase `json:"purchases"`
	}
)

var dateTimeFormats = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	time.RFC3339,
}

// parseReceiptJSON extracts the JSON object from the model response, tolerating
// markdown fences and surrounding prose, and converts it into a ParsedReceipt.
func parseReceiptJSON(text string) (*ParsedReceipt, error) {
	text = strings.TrimSpace(text)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSpace(text)

	startIdx := strings.Index(text, "{")
	if startIdx == -1 {
		return nil, fmt.Errorf("no JSON object found in response")
	}
	endIdx := strings.LastIndex(text, "}")
	if endIdx == -1 || endIdx < startIdx {
		return nil, fmt.Errorf("invalid JSON object in response")
	}
	text = text[startIdx : endIdx+1]

	var raw wireReceipt
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, fmt.Errorf("unmarshaling json: %w", err)
	}

	parsed := &ParsedReceipt{
		IsValid: raw.IsValid,
		User:    raw.User,
		Store:   raw.Store,
	}
	if !raw.IsValid {
		return parsed, nil
	}

	if raw.DateTime != nil && *raw.DateTime != "" {
		dateTime, err := parseDateTime(*raw.DateTime)
		if err == nil {
			parsed.DateTime = &dateTime
		}
	}

	parsed.Purchases = make([]ParsedPurchase, 0, len(raw.Purchases))
	for _, p := range raw.Purchases {
		unitType := entities.UnitType(strings.ToLower(strings.TrimSpace(p.UnitType)))
		if !unitType.Valid() {
			return nil, fmt.Errorf("unknown unit type %q for item %q", p.UnitType, p.Name)
		}
		parsed.Purchases = append(parsed.Purchases, ParsedPurchase{
			Name:      strings.TrimSpace(p.Name),
			Quantity:  p.Quantity,
			UnitPrice: p.UnitPrice,
			UnitType:  unitType,
			Category:  entities.GroceryCategory(strings.ToLower(strings.TrimSpace(p.Category))).Normalize(),
			Brand:     p.Brand,
		})
	}

	return parsed, nil
}

func parseDateTime(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, format := range dateTimeFormats {
		if parsed, err := time.Parse(format, value); err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date format %q", value)
}
