// Package domain defines the CloudPocket client data model.
//
// Domain models are plain value types decoded from the backend's JSON
// responses, plus the local (never network-bound) validation that forms
// apply before a request is sent:
//
//   - User: the authenticated account
//   - Wallet: a named savings goal
//   - Transaction: a dated income or expense entry of a wallet
//   - WalletShare: a pending or accepted grant of access to a wallet
//   - Summary: income/expense/balance reduction over fetched transactions
//   - Errors: coded domain errors
package domain
