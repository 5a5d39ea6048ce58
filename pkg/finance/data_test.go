package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindAccountByName(t *testing.T) {
	tests := []struct {
		name     string
		query    string
		wantName string
		wantOK   bool
	}{
		{"exact key", "spending", "Spending Account", true},
		{"alias", "rainy day", "High-Yield Savings", true},
		{"case insensitive", "SAVINGS", "High-Yield Savings", true},
		{"full name substring", "vacation fund", "Vacation Fund", true},
		{"credit card fallback", "travel rewards", "Travel Rewards Card", true},
		{"miss", "offshore", "", false},
		{"empty", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, ok := FindAccountByName(tt.query)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantName, h.Name)
		})
	}
}

func TestFindCreditCardByName(t *testing.T) {
	card, ok := FindCreditCardByName("cashback")
	require.True(t, ok)
	assert.Equal(t, "Cash Back Card", card.Name)
	assert.Equal(t, 25.00, card.MinimumPayment)

	_, ok = FindCreditCardByName("spending")
	assert.False(t, ok)
}

func TestTransactionsDeterministic(t *testing.T) {
	again := generateTransactions()
	require.Equal(t, len(transactions), len(again))
	assert.Equal(t, transactions[0], again[0])
	assert.Equal(t, transactions[len(transactions)-1], again[len(again)-1])
}

func TestTransactionsSortedNewestFirst(t *testing.T) {
	for i := 1; i < len(transactions); i++ {
		assert.GreaterOrEqual(t, transactions[i-1].Date, transactions[i].Date)
	}
}

func TestAmazonTransactionsFixed(t *testing.T) {
	results := FilterTransactions(TxnFilter{Merchant: "amazon"})
	require.Len(t, results, 20)

	summary := Summarize(results)
	assert.Equal(t, 5074.77, summary.Total)
	assert.Equal(t, "2023-05-25", summary.EarliestDate)
	assert.Equal(t, "2024-11-15", summary.LatestDate)
	for _, txn := range results {
		assert.Equal(t, "Online", txn.Location)
		assert.Equal(t, "Shopping", txn.Category)
	}
}

func TestFilterTransactionsAmountAndDates(t *testing.T) {
	over := FilterTransactions(TxnFilter{Merchant: "amazon", AmountFilter: "over", AmountThreshold: 300})
	require.NotEmpty(t, over)
	for _, txn := range over {
		assert.Greater(t, txn.Amount, 300.0)
	}

	windowed := FilterTransactions(TxnFilter{Merchant: "amazon", StartDate: "2024-01-01", EndDate: "2024-06-30"})
	require.NotEmpty(t, windowed)
	for _, txn := range windowed {
		assert.GreaterOrEqual(t, txn.Date, "2024-01-01")
		assert.LessOrEqual(t, txn.Date, "2024-06-30")
	}
}

func TestFilterTransactionsByAccount(t *testing.T) {
	results := FilterTransactions(TxnFilter{Merchant: "amazon", AccountName: "checking account"})
	require.NotEmpty(t, results)
	for _, txn := range results {
		assert.Equal(t, "acct_001", txn.AccountID)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	assert.Equal(t, TxnSummary{}, Summarize(nil))
}

func TestFormatDate(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024-11-25", "November 25th, 2024"},
		{"2024-12-01", "December 1st, 2024"},
		{"2024-12-02", "December 2nd, 2024"},
		{"2024-12-03", "December 3rd, 2024"},
		{"2024-12-11", "December 11th, 2024"},
		{"2024-12-12", "December 12th, 2024"},
		{"2024-12-13", "December 13th, 2024"},
		{"2024-12-21", "December 21st, 2024"},
		{"not-a-date", "not-a-date"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatDate(tt.in))
	}
}

func TestFormatCurrency(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "$0.00"},
		{5.5, "$5.50"},
		{1234.56, "$1,234.56"},
		{1234567.89, "$1,234,567.89"},
		{-42.10, "-$42.10"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatCurrency(tt.in))
	}
}
