package finance

import (
	"strconv"
	"strings"

	"rudder/pkg/dialog"
	"rudder/pkg/nlu"
)

// ValidatePositive accepts extractions whose top candidate parses as a
// positive number.
func ValidatePositive(candidates []nlu.Entity) bool {
	if len(candidates) == 0 {
		return false
	}

	first := candidates[0]
	if n, ok := numericValue(first.Value); ok {
		return n > 0
	}
	n, err := strconv.ParseFloat(strings.TrimSpace(first.Text), 64)
	return err == nil && n > 0
}

func numericValue(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case map[string]any:
		if inner, ok := v["value"]; ok {
			return numericValue(inner)
		}
	}
	return 0, false
}

var accountAliases = map[string]string{
	"checking":    "spending",
	"main":        "spending",
	"primary":     "spending",
	"debit":       "spending",
	"emergency":   "savings",
	"rainy day":   "savings",
	"high yield":  "savings",
	"travel fund": "vacation",
	"trip":        "vacation",
	"holiday":     "vacation",
	"shared":      "joint",
	"household":   "joint",
	"family":      "joint",
}

// NormalizeAccountName maps common account name variations to their
// canonical form.
func NormalizeAccountName(text string) (dialog.SlotValue, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if canonical, ok := accountAliases[normalized]; ok {
		normalized = canonical
	}
	return dialog.TextValue(normalized), nil
}

var cardAliases = map[string]string{
	"travel":         "travel_rewards",
	"travel card":    "travel_rewards",
	"travel rewards": "travel_rewards",
	"rewards":        "travel_rewards",
	"travel credit":  "travel_rewards",
	"cash back":      "cash_back",
	"cashback":       "cash_back",
	"everyday":       "cash_back",
	"daily":          "cash_back",
	"platinum":       "business",
	"work":           "business",
	"corporate":      "business",
}

// NormalizeCardName maps common credit card name variations to their
// canonical form.
func NormalizeCardName(text string) (dialog.SlotValue, error) {
	normalized := strings.ToLower(strings.TrimSpace(text))
	if canonical, ok := cardAliases[normalized]; ok {
		normalized = canonical
	}
	return dialog.TextValue(normalized), nil
}

// CheckTransferReady authorizes the transition to confirmation only when the
// amount and destination are filled; otherwise the conversation stays in the
// current state to keep asking.
func CheckTransferReady(c *dialog.Context, targetState string) string {
	for _, slot := range []string{"transfer_amount", "destination_account"} {
		if v, ok := c.Slot(slot); !ok || v.IsZero() {
			return c.CurrentState
		}
	}
	return targetState
}

// HasTxnResults authorizes the transition only when a previous query left
// results to display.
func HasTxnResults(c *dialog.Context, targetState string) string {
	if v, ok := c.Slot("txn_results"); ok && len(v.List) > 0 {
		return targetState
	}
	return c.CurrentState
}
