package finance

import (
	"fmt"
	"strings"

	"rudder/pkg/dialog"
)

// Share of total spending used for the percentage line in summaries.
const totalSpending = 99750.00

func objString(v dialog.SlotValue, key string) string {
	if v.Kind != dialog.KindObject {
		return ""
	}
	s, _ := v.Object[key].(string)
	return s
}

func objFloat(v dialog.SlotValue, key string) float64 {
	if v.Kind != dialog.KindObject {
		return 0
	}
	f, _ := v.Object[key].(float64)
	return f
}

func objInt(v dialog.SlotValue, key string) int {
	switch n := v.Object[key].(type) {
	case int:
		return n
	case float64:
		return int(n)
	default:
		return 0
	}
}

func slotText(c *dialog.Context, key string) string {
	v, ok := c.Slot(key)
	if !ok {
		return ""
	}
	return v.String()
}

// DisplayBalance renders the stored balance lookup: one account or the full
// overview.
func DisplayBalance(c *dialog.Context) string {
	if slotText(c, "balance_type") == "single" {
		data, _ := c.Slot("account_data")
		return fmt.Sprintf("The available balance for your %s is %s.",
			objString(data, "name"), FormatCurrency(objFloat(data, "available")))
	}

	var b strings.Builder
	b.WriteString("Here are all your account balances:\n\n")
	b.WriteString("Bank Accounts:\n")
	for _, account := range AllAccounts() {
		fmt.Fprintf(&b, "  - %s: %s\n", account.Name, FormatCurrency(account.AvailableBalance))
	}
	b.WriteString("\nCredit Cards:\n")
	for _, card := range AllCreditCards() {
		fmt.Fprintf(&b, "  - %s: %s balance (%s available)\n",
			card.Name, FormatCurrency(card.CurrentBalance), FormatCurrency(card.AvailableCredit))
	}
	return strings.TrimRight(b.String(), "\n")
}

// AccountNotFound explains a failed account lookup.
func AccountNotFound(c *dialog.Context) string {
	name := slotText(c, "account")
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("I couldn't find an account matching '%s'. Please try a different account name.", name)
}

// DisplayTxnSummary renders the aggregate line for a transaction query.
func DisplayTxnSummary(c *dialog.Context) string {
	summary, _ := c.Slot("txn_summary")

	var b strings.Builder
	fmt.Fprintf(&b, "You spent %s", FormatCurrency(objFloat(summary, "total")))

	if accounts := objInt(summary, "accounts"); accounts > 1 {
		fmt.Fprintf(&b, " from your %d accounts", accounts)
	}

	if merchant := slotText(c, "merchant"); merchant != "" {
		fmt.Fprintf(&b, " on purchases at %s", merchant)
	} else if category := slotText(c, "category"); category != "" {
		fmt.Fprintf(&b, " on %s", category)
	}

	earliest := objString(summary, "earliest_date")
	latest := objString(summary, "latest_date")
	if earliest != "" && latest != "" {
		fmt.Fprintf(&b, " from %s to %s", FormatDate(earliest), FormatDate(latest))
	}

	if filter := slotText(c, "amount_filter"); filter != "" {
		if threshold, ok := c.Slot("amount_threshold"); ok {
			if n, isNum := threshold.AsNumber(); isNum {
				fmt.Fprintf(&b, " (amounts %s %s)", filter, FormatCurrency(n))
			}
		}
	}

	fmt.Fprintf(&b, ", which was %d transactions total.", objInt(summary, "count"))
	percentage := objFloat(summary, "total") / totalSpending * 100
	fmt.Fprintf(&b, " That's %.2f%% of your total spending.", percentage)
	b.WriteString("\n\nWould you like to see the transaction details?")
	return b.String()
}

// DisplayTxnList renders the detailed transaction list, truncated to fifteen
// entries.
func DisplayTxnList(c *dialog.Context) string {
	results, ok := c.Slot("txn_results")
	if !ok || len(results.List) == 0 {
		return "No transactions to display."
	}

	var filters []string
	if merchant := slotText(c, "merchant"); merchant != "" {
		filters = append(filters, "at "+merchant)
	}
	if filter := slotText(c, "amount_filter"); filter != "" {
		if threshold, found := c.Slot("amount_threshold"); found {
			if n, isNum := threshold.AsNumber(); isNum {
				filters = append(filters, fmt.Sprintf("%s %s", filter, FormatCurrency(n)))
			}
		}
	}

	summary, _ := c.Slot("txn_summary")
	var b strings.Builder
	if len(filters) > 0 {
		fmt.Fprintf(&b, "Here are your purchases %s from %s to %s:\n\n",
			strings.Join(filters, " "),
			FormatDate(objString(summary, "earliest_date")),
			FormatDate(objString(summary, "latest_date")))
	} else {
		b.WriteString("Here are your transactions:\n\n")
	}

	display := results.List
	if len(display) > 15 {
		display = display[:15]
	}
	for _, item := range display {
		fmt.Fprintf(&b, "  %s | %-20s | %10s | %s\n",
			objString(item, "date"), objString(item, "merchant"),
			FormatCurrency(objFloat(item, "amount")), objString(item, "account_name"))
	}
	if len(results.List) > 15 {
		fmt.Fprintf(&b, "\n(Showing first 15 of %d transactions)\n", len(results.List))
	}

	b.WriteString("\nWhat else can I help you with?")
	return b.String()
}

// NoTransactionsFound explains an empty query result.
func NoTransactionsFound(_ *dialog.Context) string {
	return "No transactions found matching your criteria. Would you like to try different filters?"
}

// AskTransferInfo prompts for whichever transfer slots are still missing.
func AskTransferInfo(c *dialog.Context) string {
	hasAmount := slotText(c, "transfer_amount") != ""
	hasDest := slotText(c, "destination_account") != ""
	hasSource := slotText(c, "source_account") != ""

	switch {
	case !hasAmount && !hasDest:
		return "How much would you like to transfer, and to which account?"
	case !hasAmount:
		return "How much would you like to transfer?"
	case !hasDest:
		return "Which account would you like to transfer to?"
	case !hasSource:
		return "Which account would you like to transfer from? (I'll use your spending account if you don't specify.)"
	default:
		return "Let me prepare that transfer for you."
	}
}

// ConfirmTransferDetails reads back the collected transfer details.
func ConfirmTransferDetails(c *dialog.Context) string {
	amount := 0.0
	if v, ok := c.Slot("transfer_amount"); ok {
		amount, _ = v.AsNumber()
	}

	dest := slotText(c, "destination_account")
	source := slotText(c, "source_account")
	if source == "" {
		source = "spending"
	}

	date := "today"
	if v, ok := c.Slot("transfer_date"); ok && v.Kind == dialog.KindDateTime {
		date = FormatDate(v.Time.Format("2006-01-02"))
	}

	destName := dest
	if h, ok := FindAccountByName(dest); ok {
		destName = h.Name
	}
	sourceName := source
	if h, ok := FindAccountByName(source); ok {
		sourceName = h.Name
	}

	return fmt.Sprintf(
		"I have the amount to be %s, the destination account to be %s, "+
			"the source account to be %s, and the date to be %s. "+
			"Can you confirm this is correct?",
		FormatCurrency(amount), destName, sourceName, date)
}

// DisplayTransferResult renders the outcome of an executed transfer.
func DisplayTransferResult(c *dialog.Context) string {
	if conf, ok := c.Slot("transfer_confirmation"); ok && conf.Kind == dialog.KindObject {
		return fmt.Sprintf(
			"Your payment request is complete. %s has been transferred from %s to %s. "+
				"Here is the confirmation number for your reference: %s. "+
				"What else can I help you with?",
			FormatCurrency(objFloat(conf, "amount")),
			objString(conf, "source"), objString(conf, "destination"),
			objString(conf, "confirmation_number"))
	}

	errMsg := slotText(c, "transfer_error")
	if errMsg == "" {
		errMsg = "Unknown error"
	}
	return fmt.Sprintf("I'm sorry, the transfer could not be completed. %s. Would you like to try again?", errMsg)
}

// DisplayCreditCard renders the stored card lookup: one card or all of them.
func DisplayCreditCard(c *dialog.Context) string {
	if slotText(c, "card_type") == "single" {
		data, _ := c.Slot("card_data")
		return fmt.Sprintf(
			"Your %s has a minimum payment of %s due on %s. Your account balance is %s.",
			objString(data, "name"),
			FormatCurrency(objFloat(data, "minimum_payment")),
			FormatDate(objString(data, "due_date")),
			FormatCurrency(objFloat(data, "current_balance")))
	}

	var b strings.Builder
	b.WriteString("Here's the information for all your credit cards:\n\n")
	for _, card := range AllCreditCards() {
		fmt.Fprintf(&b, "%s:\n", card.Name)
		fmt.Fprintf(&b, "  Balance: %s\n", FormatCurrency(card.CurrentBalance))
		fmt.Fprintf(&b, "  Available Credit: %s\n", FormatCurrency(card.AvailableCredit))
		fmt.Fprintf(&b, "  Minimum Payment: %s due %s\n\n", FormatCurrency(card.MinimumPayment), FormatDate(card.DueDate))
	}
	return strings.TrimRight(b.String(), "\n")
}

// CardNotFound explains a failed card lookup.
func CardNotFound(c *dialog.Context) string {
	name := slotText(c, "card_name")
	if name == "" {
		name = "unknown"
	}
	return fmt.Sprintf("I couldn't find a credit card matching '%s'. Please try a different card name.", name)
}
