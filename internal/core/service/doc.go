// Package service holds the client's stateful core and its backend calls.
//
// This package contains:
//
//   - SessionStore: who is logged in, restored at start and mutated by
//     login, register and logout
//   - AccountService: current user, password and email changes, deletion
//   - WalletService, TransactionService, ShareService: wallet data
//
// Services depend on the Gateway interface, satisfied by
// connection.Gateway, so tests can run them against an httptest backend
// or a fake.
package service
