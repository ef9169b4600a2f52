package models

import "github.com/dmitrijs2005/watchkeeper/internal/common"

// Credentials are held only for the duration of one authentication attempt.
type Credentials struct {
	Username string
	Password []byte
}

// Wipe zeroes the password bytes and resets both fields to empty values.
func (c *Credentials) Wipe() {
	common.WipeByteArray(c.Password)
	c.Username = ""
	c.Password = nil
}
