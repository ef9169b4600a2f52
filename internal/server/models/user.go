// Package models holds the server-side records that never leave the store.
package models

// User is the store account. Only the salt and the password verifier are
// persisted.
type User struct {
	ID       int64
	UserName string
	Salt     []byte
	Verifier []byte
}
