package finance

import (
	"fmt"
	"time"

	"rudder/pkg/dialog"
)

// Action result codes beyond the engine defaults.
const (
	resultFound             = "found"
	resultNoneFound         = "none_found"
	resultNotFound          = "not_found"
	resultInvalidAccount    = "invalid_account"
	resultInsufficientFunds = "insufficient_funds"
)

// GetBalance resolves the account slot (all accounts when unset) and stores
// the result for the display response functions.
func GetBalance(c *dialog.Context) (string, error) {
	if account, ok := c.Slot("account"); ok && !account.IsZero() {
		h, found := FindAccountByName(account.String())
		if !found {
			return resultNotFound, nil
		}
		c.SetSlot("account_data", dialog.ObjectValue(map[string]any{
			"name":      h.Name,
			"available": h.Available,
		}))
		c.SetSlot("balance_type", dialog.TextValue("single"))
		return "success", nil
	}

	c.SetSlot("balance_type", dialog.TextValue("all"))
	return "success", nil
}

// QueryTransactions builds a filter from the extracted slots, runs it, and
// stores the results and their summary.
func QueryTransactions(c *dialog.Context) (string, error) {
	filter := TxnFilter{}

	if v, ok := c.Slot("merchant"); ok {
		filter.Merchant = v.String()
	}
	if v, ok := c.Slot("category"); ok {
		filter.Category = v.String()
	}
	if v, ok := c.Slot("amount_filter"); ok {
		filter.AmountFilter = v.String()
	}
	if v, ok := c.Slot("amount_threshold"); ok {
		if n, isNum := v.AsNumber(); isNum {
			filter.AmountThreshold = n
		}
	}
	if v, ok := c.Slot("location"); ok {
		filter.Location = v.String()
	}
	if v, ok := c.Slot("account"); ok {
		filter.AccountName = v.String()
	}
	applyDateRange(&filter, c)

	results := FilterTransactions(filter)
	if len(results) == 0 {
		return resultNoneFound, nil
	}

	items := make([]dialog.SlotValue, 0, len(results))
	for _, t := range results {
		items = append(items, dialog.ObjectValue(map[string]any{
			"date":         t.Date,
			"merchant":     t.Merchant,
			"category":     t.Category,
			"amount":       t.Amount,
			"account_name": t.AccountName,
			"location":     t.Location,
		}))
	}
	c.SetSlot("txn_results", dialog.ListValue(items...))

	summary := Summarize(results)
	c.SetSlot("txn_summary", dialog.ObjectValue(map[string]any{
		"total":         summary.Total,
		"count":         summary.Count,
		"avg":           summary.Average,
		"accounts":      summary.Accounts,
		"earliest_date": summary.EarliestDate,
		"latest_date":   summary.LatestDate,
	}))
	return resultFound, nil
}

// applyDateRange handles the two shapes the date_range slot arrives in: a
// single timestamp (interpreted as "since this date") or an interval object
// with from/to bounds.
func applyDateRange(filter *TxnFilter, c *dialog.Context) {
	v, ok := c.Slot("date_range")
	if !ok {
		return
	}

	switch v.Kind {
	case dialog.KindDateTime:
		filter.StartDate = v.Time.Format("2006-01-02")
	case dialog.KindObject:
		if from, ok := nestedDate(v.Object, "from"); ok {
			filter.StartDate = from
		}
		if to, ok := nestedDate(v.Object, "to"); ok {
			filter.EndDate = to
		}
	}
}

func nestedDate(obj map[string]any, key string) (string, bool) {
	bound, ok := obj[key].(map[string]any)
	if !ok {
		return "", false
	}
	value, ok := bound["value"].(string)
	if !ok || len(value) < 10 {
		return "", false
	}
	return value[:10], true
}

// ExecuteTransfer moves money between accounts. The source defaults to the
// spending account when unset.
func ExecuteTransfer(c *dialog.Context) (string, error) {
	amountSlot, _ := c.Slot("transfer_amount")
	amount, ok := amountSlot.AsNumber()
	if !ok || amount <= 0 {
		c.SetSlot("transfer_error", dialog.TextValue("Invalid amount"))
		return "error", nil
	}

	destName := ""
	if v, ok := c.Slot("destination_account"); ok {
		destName = v.String()
	}
	dest, found := FindAccountByName(destName)
	if !found {
		c.SetSlot("transfer_error", dialog.TextValue(
			fmt.Sprintf("Could not find destination account: %s", destName)))
		return resultInvalidAccount, nil
	}

	sourceName := "spending"
	if v, ok := c.Slot("source_account"); ok && !v.IsZero() {
		sourceName = v.String()
	}
	source, found := FindAccountByName(sourceName)
	if !found {
		source, _ = FindAccountByName("spending")
	}

	if amount > source.Available {
		c.SetSlot("transfer_error", dialog.TextValue(
			fmt.Sprintf("Insufficient funds. Available: %s", FormatCurrency(source.Available))))
		return resultInsufficientFunds, nil
	}

	date := "today"
	if v, ok := c.Slot("transfer_date"); ok && v.Kind == dialog.KindDateTime {
		date = v.Time.Format("2006-01-02")
	}

	c.SetSlot("transfer_confirmation", dialog.ObjectValue(map[string]any{
		"amount":              amount,
		"source":              source.Name,
		"destination":         dest.Name,
		"date":                date,
		"confirmation_number": fmt.Sprintf("%06d", time.Now().Unix()%1000000),
	}))
	return "success", nil
}

// GetCreditCardInfo resolves the card_name slot (all cards when unset) and
// stores the result for the display response functions.
func GetCreditCardInfo(c *dialog.Context) (string, error) {
	if cardName, ok := c.Slot("card_name"); ok && !cardName.IsZero() {
		card, found := FindCreditCardByName(cardName.String())
		if !found {
			return resultNotFound, nil
		}
		c.SetSlot("card_data", dialog.ObjectValue(map[string]any{
			"name":             card.Name,
			"current_balance":  card.CurrentBalance,
			"available_credit": card.AvailableCredit,
			"minimum_payment":  card.MinimumPayment,
			"due_date":         card.DueDate,
		}))
		c.SetSlot("card_type", dialog.TextValue("single"))
		return "success", nil
	}

	c.SetSlot("card_type", dialog.TextValue("all"))
	return "success", nil
}
