package finance

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// FindAccountByName finds a bank account or credit card by name or alias,
// case-insensitively. Bank accounts are checked first.
func FindAccountByName(name string) (holder, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return holder{}, false
	}

	for _, key := range sortedKeys(accounts) {
		account := accounts[key]
		if matchesHolder(name, key, account.Name, account.Aliases) {
			return holderFromAccount(account), true
		}
	}
	for _, key := range sortedKeys(creditCards) {
		card := creditCards[key]
		if matchesHolder(name, key, card.Name, card.Aliases) {
			return holderFromCard(card), true
		}
	}
	return holder{}, false
}

// FindCreditCardByName finds a credit card by name or alias.
func FindCreditCardByName(name string) (CreditCard, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return CreditCard{}, false
	}
	for _, key := range sortedKeys(creditCards) {
		card := creditCards[key]
		if matchesHolder(name, key, card.Name, card.Aliases) {
			return card, true
		}
	}
	return CreditCard{}, false
}

func matchesHolder(name, key, fullName string, aliases []string) bool {
	if name == key {
		return true
	}
	for _, alias := range aliases {
		if name == strings.ToLower(alias) {
			return true
		}
	}
	return strings.Contains(strings.ToLower(fullName), name)
}

// holder is the common view over accounts and credit cards needed by transfer
// and balance actions.
type holder struct {
	ID        string
	Name      string
	Available float64
	IsCard    bool
}

func holderFromAccount(a Account) holder {
	return holder{ID: a.ID, Name: a.Name, Available: a.AvailableBalance}
}

func holderFromCard(c CreditCard) holder {
	return holder{ID: c.ID, Name: c.Name, Available: c.AvailableCredit, IsCard: true}
}

// AllAccounts returns every bank account in a stable order.
func AllAccounts() []Account {
	out := make([]Account, 0, len(accounts))
	for _, key := range sortedKeys(accounts) {
		out = append(out, accounts[key])
	}
	return out
}

// AllCreditCards returns every credit card in a stable order.
func AllCreditCards() []CreditCard {
	out := make([]CreditCard, 0, len(creditCards))
	for _, key := range sortedKeys(creditCards) {
		out = append(out, creditCards[key])
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// TxnFilter selects transactions. Zero fields are ignored; AmountFilter is
// "over" or "under" and applies only with a threshold.
type TxnFilter struct {
	Merchant        string
	Category        string
	AmountFilter    string
	AmountThreshold float64
	StartDate       string // YYYY-MM-DD inclusive
	EndDate         string // YYYY-MM-DD inclusive
	Location        string
	AccountName     string
}

// FilterTransactions returns transactions matching the filter, newest first.
func FilterTransactions(f TxnFilter) []Transaction {
	accountID := ""
	if f.AccountName != "" {
		if h, ok := FindAccountByName(f.AccountName); ok {
			accountID = h.ID
		}
	}

	var results []Transaction
	for _, t := range transactions {
		if f.Merchant != "" && !strings.Contains(strings.ToLower(t.Merchant), strings.ToLower(f.Merchant)) {
			continue
		}
		if f.Category != "" && !strings.Contains(strings.ToLower(t.Category), strings.ToLower(f.Category)) {
			continue
		}
		if f.AmountThreshold != 0 {
			switch strings.ToLower(f.AmountFilter) {
			case "over":
				if t.Amount <= f.AmountThreshold {
					continue
				}
			case "under":
				if t.Amount >= f.AmountThreshold {
					continue
				}
			}
		}
		if f.StartDate != "" && t.Date < f.StartDate {
			continue
		}
		if f.EndDate != "" && t.Date > f.EndDate {
			continue
		}
		if f.Location != "" && !strings.Contains(strings.ToLower(t.Location), strings.ToLower(f.Location)) {
			continue
		}
		if accountID != "" && t.AccountID != accountID {
			continue
		}
		results = append(results, t)
	}
	return results
}

// TxnSummary holds aggregate statistics over a transaction set.
type TxnSummary struct {
	Total        float64
	Count        int
	Average      float64
	Accounts     int
	EarliestDate string
	LatestDate   string
}

// Summarize computes aggregate statistics for a transaction list.
func Summarize(txns []Transaction) TxnSummary {
	if len(txns) == 0 {
		return TxnSummary{}
	}

	summary := TxnSummary{Count: len(txns)}
	uniqueAccounts := make(map[string]bool)
	summary.EarliestDate = txns[0].Date
	summary.LatestDate = txns[0].Date

	for _, t := range txns {
		summary.Total += t.Amount
		uniqueAccounts[t.AccountID] = true
		if t.Date < summary.EarliestDate {
			summary.EarliestDate = t.Date
		}
		if t.Date > summary.LatestDate {
			summary.LatestDate = t.Date
		}
	}

	summary.Total = float64(int(summary.Total*100+0.5)) / 100
	summary.Average = float64(int(summary.Total/float64(summary.Count)*100+0.5)) / 100
	summary.Accounts = len(uniqueAccounts)
	return summary
}

// FormatDate renders a YYYY-MM-DD date like "November 25th, 2024".
func FormatDate(date string) string {
	t, err := time.Parse("2006-01-02", date)
	if err != nil {
		return date
	}

	day := t.Day()
	suffix := "th"
	if day < 11 || day > 13 {
		switch day % 10 {
		case 1:
			suffix = "st"
		case 2:
			suffix = "nd"
		case 3:
			suffix = "rd"
		}
	}
	return fmt.Sprintf("%s %d%s, %d", t.Month(), day, suffix, t.Year())
}

// FormatCurrency renders an amount like "$1,234.56".
func FormatCurrency(amount float64) string {
	negative := amount < 0
	if negative {
		amount = -amount
	}

	s := fmt.Sprintf("%.2f", amount)
	whole, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, digit := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(digit)
	}

	sign := ""
	if negative {
		sign = "-"
	}
	return sign + "$" + b.String() + "." + frac
}
