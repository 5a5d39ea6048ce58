package finance

import (
	_ "embed"

	"rudder/pkg/dialog"
	"rudder/pkg/enrich"
	"rudder/pkg/flow"
)

//go:embed banking_flow.json
var bankingFlowJSON []byte

// LoadFlow parses the built-in banking flow document.
func LoadFlow() (*flow.Document, error) {
	return flow.ParseJSON(bankingFlowJSON)
}

// Register wires the banking domain onto an engine: actions, slot
// validators and enrichers, transition conditions, and response functions.
// The duckling client may be nil when no enrichment server is available;
// duckling-backed enrichers are only registered when it is set.
func Register(engine *dialog.Engine, duckling *enrich.Client) {
	actions := engine.Actions()
	actions.Register("get_balance", GetBalance)
	actions.Register("query_transactions", QueryTransactions)
	actions.Register("execute_transfer", ExecuteTransfer)
	actions.Register("get_credit_card_info", GetCreditCardInfo)

	validators := engine.Validators()
	validators.RegisterValidator("validate_positive", ValidatePositive)
	validators.RegisterEnricher("normalize_account_name", NormalizeAccountName)
	validators.RegisterEnricher("normalize_card_name", NormalizeCardName)
	if duckling != nil {
		enrich.RegisterAll(validators, duckling)
	}

	conditions := engine.Conditions()
	conditions.Register("check_transfer_ready", CheckTransferReady)
	conditions.Register("has_txn_results", HasTxnResults)

	responses := engine.Responses()
	responses.Register("display_balance", DisplayBalance)
	responses.Register("account_not_found", AccountNotFound)
	responses.Register("display_txn_summary", DisplayTxnSummary)
	responses.Register("display_txn_list", DisplayTxnList)
	responses.Register("no_transactions_found", NoTransactionsFound)
	responses.Register("ask_transfer_info", AskTransferInfo)
	responses.Register("confirm_transfer_details", ConfirmTransferDetails)
	responses.Register("display_transfer_result", DisplayTransferResult)
	responses.Register("display_credit_card", DisplayCreditCard)
	responses.Register("card_not_found", CardNotFound)
}
