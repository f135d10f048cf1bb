// Package cli provides the interactive LeaveKeeper command-line client.
//
// App wires configuration, the local key-value store, the remote service
// client, the session store, the leave repository and the submit/review
// flows, then runs a REPL on top of them. Every command passes the view
// guard first: a guest is sent to login, an employee asking for a manager
// screen lands on the dashboard.
//
// The built-in demo accounts (manager/1234, employee/4321) work without a
// server; their data lives in the local store.
package cli
