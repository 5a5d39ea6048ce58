// Package finance implements a personal-finance assistant on top of the
// dialog engine: mock account data, business actions, slot handling, and the
// banking flow document.
package finance

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// Account is a bank account (checking or savings).
type Account struct {
	ID               string
	Name             string
	Aliases          []string
	Type             string
	Balance          float64
	AvailableBalance float64
	Last4            string
}

// CreditCard is a credit card account.
type CreditCard struct {
	ID              string
	Name            string
	Aliases         []string
	CurrentBalance  float64
	CreditLimit     float64
	AvailableCredit float64
	MinimumPayment  float64
	DueDate         string
	APR             float64
	Last4           string
}

// Transaction is one completed purchase.
type Transaction struct {
	ID          string
	Date        string // YYYY-MM-DD
	Merchant    string
	Category    string
	Amount      float64
	AccountID   string
	AccountName string
	Location    string
}

var accounts = map[string]Account{
	"spending": {
		ID: "acct_001", Name: "Spending Account",
		Aliases: []string{"spending", "checking", "main", "primary", "debit"},
		Type:    "CHECKING", Balance: 11556.00, AvailableBalance: 11556.00, Last4: "4521",
	},
	"savings": {
		ID: "acct_002", Name: "High-Yield Savings",
		Aliases: []string{"savings", "emergency", "rainy day", "high yield"},
		Type:    "SAVINGS", Balance: 45230.00, AvailableBalance: 45230.00, Last4: "7832",
	},
	"vacation": {
		ID: "acct_003", Name: "Vacation Fund",
		Aliases: []string{"vacation", "travel fund", "trip", "holiday"},
		Type:    "SAVINGS", Balance: 3200.00, AvailableBalance: 3200.00, Last4: "9104",
	},
	"joint": {
		ID: "acct_004", Name: "Joint Checking",
		Aliases: []string{"joint", "shared", "household", "family"},
		Type:    "CHECKING", Balance: 8750.00, AvailableBalance: 8750.00, Last4: "2256",
	},
}

var creditCards = map[string]CreditCard{
	"travel_rewards": {
		ID: "cc_001", Name: "Travel Rewards Card",
		Aliases:        []string{"travel", "travel card", "travel rewards", "rewards", "travel credit"},
		CurrentBalance: 158.00, CreditLimit: 15000.00, AvailableCredit: 14842.00,
		MinimumPayment: 40.00, DueDate: "2024-12-02", APR: 18.99, Last4: "4892",
	},
	"cash_back": {
		ID: "cc_002", Name: "Cash Back Card",
		Aliases:        []string{"cash back", "cashback", "everyday", "daily"},
		CurrentBalance: 567.23, CreditLimit: 8000.00, AvailableCredit: 7432.77,
		MinimumPayment: 25.00, DueDate: "2024-12-15", APR: 21.99, Last4: "7621",
	},
	"business": {
		ID: "cc_003", Name: "Business Platinum",
		Aliases:        []string{"business", "platinum", "work", "corporate"},
		CurrentBalance: 3421.89, CreditLimit: 25000.00, AvailableCredit: 21578.11,
		MinimumPayment: 85.00, DueDate: "2024-12-20", APR: 16.99, Last4: "3345",
	},
}

var categories = []string{
	"Shopping", "Groceries", "Dining", "Entertainment",
	"Transportation", "Utilities", "Healthcare", "Travel",
}

var merchants = map[string][]string{
	"Shopping":       {"Amazon", "Target", "Walmart", "Best Buy", "Apple Store", "Nike", "Costco", "Nordstrom", "Home Depot"},
	"Groceries":      {"Whole Foods", "Trader Joe's", "Kroger", "Safeway", "Costco", "Sprouts"},
	"Dining":         {"Starbucks", "Chipotle", "McDonald's", "Olive Garden", "Local Restaurant", "Panera Bread"},
	"Entertainment":  {"Netflix", "Spotify", "AMC Theatres", "Steam", "Disney+", "Apple Music"},
	"Transportation": {"Uber", "Lyft", "Shell Gas", "Chevron", "BART", "Parking"},
	"Utilities":      {"PG&E", "Comcast", "AT&T", "Water Company", "Verizon"},
	"Healthcare":     {"CVS Pharmacy", "Kaiser", "Walgreens", "Doctor Visit"},
	"Travel":         {"United Airlines", "Marriott", "Airbnb", "Delta Airlines", "Hilton", "Expedia"},
}

var locations = []string{
	"San Francisco, CA", "New York, NY", "Online", "Chicago, IL",
	"Seattle, WA", "Los Angeles, CA", "Austin, TX",
}

var onlineOnly = map[string]bool{
	"Amazon": true, "Netflix": true, "Spotify": true, "Disney+": true,
	"Steam": true, "Apple Music": true, "Expedia": true,
}

var amountRanges = map[string][2]float64{
	"Shopping":       {15.00, 500.00},
	"Groceries":      {25.00, 200.00},
	"Dining":         {8.00, 100.00},
	"Entertainment":  {10.00, 80.00},
	"Transportation": {5.00, 75.00},
	"Utilities":      {50.00, 300.00},
	"Healthcare":     {15.00, 200.00},
	"Travel":         {100.00, 1500.00},
}

// transactions is generated once: a seeded random history plus a fixed set of
// Amazon purchases the demo conversation depends on, newest first.
var transactions = generateTransactions()

func generateTransactions() []Transaction {
	rng := rand.New(rand.NewSource(42))
	endDate := time.Date(2024, 11, 25, 0, 0, 0, 0, time.UTC)

	holders := make([]string, 0, len(accounts)+len(creditCards))
	for key := range accounts {
		holders = append(holders, key)
	}
	for key := range creditCards {
		holders = append(holders, key)
	}
	sort.Strings(holders) // stable iteration for the seeded generator

	txns := make([]Transaction, 0, 500)
	for i := 0; i < 480; i++ {
		category := categories[rng.Intn(len(categories))]
		merchant := merchants[category][rng.Intn(len(merchants[category]))]
		bounds := amountRanges[category]
		amount := bounds[0] + rng.Float64()*(bounds[1]-bounds[0])

		date := endDate.AddDate(0, 0, -rng.Intn(731))

		holder := holders[rng.Intn(len(holders))]
		id, name := holderIdentity(holder)

		location := locations[rng.Intn(len(locations))]
		if onlineOnly[merchant] {
			location = "Online"
		}

		// Fixed Amazon purchases below cover this merchant.
		if merchant == "Amazon" {
			continue
		}

		txns = append(txns, Transaction{
			ID:          fmt.Sprintf("txn_%05d", i),
			Date:        date.Format("2006-01-02"),
			Merchant:    merchant,
			Category:    category,
			Amount:      float64(int(amount*100)) / 100,
			AccountID:   id,
			AccountName: name,
			Location:    location,
		})
	}

	txns = append(txns, amazonTransactions()...)
	sort.Slice(txns, func(i, j int) bool { return txns[i].Date > txns[j].Date })
	return txns
}

// amazonTransactions sums to roughly 5074.77 over eighteen months, matching
// the reference conversation.
func amazonTransactions() []Transaction {
	fixed := []struct {
		date   string
		amount float64
		holder string
	}{
		{"2024-11-15", 299.99, "travel_rewards"},
		{"2024-10-28", 156.45, "spending"},
		{"2024-10-05", 89.99, "cash_back"},
		{"2024-09-12", 432.15, "travel_rewards"},
		{"2024-08-20", 567.89, "spending"},
		{"2024-07-03", 234.56, "travel_rewards"},
		{"2024-06-15", 78.99, "joint"},
		{"2024-05-22", 345.00, "business"},
		{"2024-04-10", 189.99, "spending"},
		{"2024-03-05", 245.67, "travel_rewards"},
		{"2024-02-14", 99.00, "spending"},
		{"2024-01-08", 378.90, "cash_back"},
		{"2023-12-20", 456.19, "travel_rewards"},
		{"2023-11-24", 289.00, "spending"},
		{"2023-10-15", 167.50, "joint"},
		{"2023-09-08", 423.00, "travel_rewards"},
		{"2023-08-22", 134.99, "spending"},
		{"2023-07-11", 267.50, "cash_back"},
		{"2023-06-30", 189.00, "spending"},
		{"2023-05-25", 29.01, "business"},
	}

	txns := make([]Transaction, 0, len(fixed))
	for i, f := range fixed {
		id, name := holderIdentity(f.holder)
		txns = append(txns, Transaction{
			ID:          fmt.Sprintf("txn_amz_%03d", i),
			Date:        f.date,
			Merchant:    "Amazon",
			Category:    "Shopping",
			Amount:      f.amount,
			AccountID:   id,
			AccountName: name,
			Location:    "Online",
		})
	}
	return txns
}

func holderIdentity(key string) (id, name string) {
	if a, ok := accounts[key]; ok {
		return a.ID, a.Name
	}
	c := creditCards[key]
	return c.ID, c.Name
}
