package finance

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rudder/pkg/dialog"
	"rudder/pkg/nlu"
)

func TestValidatePositive(t *testing.T) {
	tests := []struct {
		name       string
		candidates []nlu.Entity
		want       bool
	}{
		{"numeric value", []nlu.Entity{{Text: "500", Value: 500.0}}, true},
		{"wrapped value", []nlu.Entity{{Text: "$50", Value: map[string]any{"value": 50.0}}}, true},
		{"text only", []nlu.Entity{{Text: "250.75"}}, true},
		{"zero", []nlu.Entity{{Text: "0", Value: 0.0}}, false},
		{"negative", []nlu.Entity{{Text: "-10", Value: -10.0}}, false},
		{"non numeric", []nlu.Entity{{Text: "lots of money"}}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidatePositive(tt.candidates))
		})
	}
}

func TestNormalizeAccountName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Checking", "spending"},
		{"  MAIN  ", "spending"},
		{"rainy day", "savings"},
		{"trip", "vacation"},
		{"household", "joint"},
		{"savings", "savings"},
		{"offshore", "offshore"},
	}
	for _, tt := range tests {
		v, err := NormalizeAccountName(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v.Text)
	}
}

func TestNormalizeCardName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Travel Card", "travel_rewards"},
		{"cashback", "cash_back"},
		{"corporate", "business"},
		{"mystery card", "mystery card"},
	}
	for _, tt := range tests {
		v, err := NormalizeCardName(tt.in)
		require.NoError(t, err)
		assert.Equal(t, tt.want, v.Text)
	}
}

func TestCheckTransferReady(t *testing.T) {
	c := dialog.NewContext("s", "transfer_info")

	assert.Equal(t, "transfer_info", CheckTransferReady(c, "confirm_transfer"))

	c.SetSlot("transfer_amount", dialog.NumberValue(500))
	assert.Equal(t, "transfer_info", CheckTransferReady(c, "confirm_transfer"))

	c.SetSlot("destination_account", dialog.TextValue("savings"))
	assert.Equal(t, "confirm_transfer", CheckTransferReady(c, "confirm_transfer"))
}

func TestHasTxnResults(t *testing.T) {
	c := dialog.NewContext("s", "show_txn_summary")

	assert.Equal(t, "show_txn_summary", HasTxnResults(c, "txn_details"))

	c.SetSlot("txn_results", dialog.ListValue())
	assert.Equal(t, "show_txn_summary", HasTxnResults(c, "txn_details"))

	c.SetSlot("txn_results", dialog.ListValue(dialog.TextValue("row")))
	assert.Equal(t, "txn_details", HasTxnResults(c, "txn_details"))
}
