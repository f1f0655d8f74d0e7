package session

import "errors"

var (
	// ErrCredentialNotFound indicates the credential slot is empty
	ErrCredentialNotFound = errors.New("session.credential_not_found")

	// ErrNoStorePath indicates a file store was created without a path
	ErrNoStorePath = errors.New("session.no_store_path")

	// ErrPersistCredential indicates the issued credential could not be saved locally
	ErrPersistCredential = errors.New("session.persist_credential_failed")
)
