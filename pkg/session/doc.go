// Package session manages the client-side authentication session: the
// credential token issued by the backend, its persistence across process
// restarts, verification on startup, and invalidation.
//
// # Architecture
//
// A Manager coordinates three collaborators: the backend API (the subset of
// endpoints that issue, verify and revoke credentials), a CredentialStore (a
// single durable slot, file-backed by default), and a logger. The session
// itself is an explicitly owned value read via snapshots, never ambient
// global state.
//
// The credential discipline is last-writer-wins, read-fresh-at-call-time:
// every credential-issuing operation persists the token before the in-memory
// session adopts it, and consumers call Credential() immediately before each
// outgoing request instead of capturing the token in a closure.
//
// # Usage
//
//	store, _ := session.NewFileStore(filepath.Join(cfgDir, "credential"))
//	manager := session.NewManager(apiClient, store)
//
//	// Must complete before dependent UI renders.
//	sess := manager.Bootstrap(ctx)
//
//	res, err := manager.Login(ctx, email, password)
//	if err != nil {
//	    // transport failure
//	} else if !res.Success {
//	    // wrong credentials: res.Reason is user-facing text
//	}
package session
