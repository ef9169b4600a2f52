package state

import (
	"bytes"
	"errors"
	"strings"

	"github.com/dmitrijs2005/watchkeeper/internal/common"
	"github.com/dmitrijs2005/watchkeeper/internal/models"
)

// Phase is the authentication state of the client.
type Phase int

const (
	Unauthenticated Phase = iota
	Authenticating
	Authenticated
)

func (p Phase) String() string {
	switch p {
	case Authenticating:
		return "authenticating"
	case Authenticated:
		return "authenticated"
	default:
		return "unauthenticated"
	}
}

var ErrInvalidTransition = errors.New("invalid session transition")

// Session owns the login credentials and the authentication phase.
type Session struct {
	phase *Value[Phase]
	creds models.Credentials
}

func NewSession() *Session {
	return &Session{phase: NewValue(Unauthenticated)}
}

func (s *Session) Phase() Phase {
	return s.phase.Get()
}

func (s *Session) Subscribe(fn func(Phase)) func() {
	return s.phase.Subscribe(fn)
}

// SetCredentials replaces the pending credentials. The password slice is
// owned by the session from now on.
func (s *Session) SetCredentials(username string, password []byte) {
	s.creds.Wipe()
	s.creds = models.Credentials{Username: username, Password: password}
}

// Credentials returns the pending credentials.
func (s *Session) Credentials() models.Credentials {
	return s.creds
}

// Begin moves Unauthenticated to Authenticating and returns the credentials
// to submit. Blank username or password leaves the phase unchanged.
func (s *Session) Begin() (models.Credentials, error) {
	if s.Phase() != Unauthenticated {
		return models.Credentials{}, ErrInvalidTransition
	}
	if strings.TrimSpace(s.creds.Username) == "" || len(bytes.TrimSpace(s.creds.Password)) == 0 {
		return models.Credentials{}, common.ErrEmptyCredentials
	}
	s.phase.Set(Authenticating)
	return s.creds, nil
}

// Succeed completes authentication and wipes the credentials.
func (s *Session) Succeed() error {
	if s.Phase() != Authenticating {
		return ErrInvalidTransition
	}
	s.creds.Wipe()
	s.phase.Set(Authenticated)
	return nil
}

// Fail returns to Unauthenticated. Credentials are kept for another attempt.
func (s *Session) Fail() error {
	if s.Phase() != Authenticating {
		return ErrInvalidTransition
	}
	s.phase.Set(Unauthenticated)
	return nil
}

// Expire ends the session from any phase.
func (s *Session) Expire() {
	if s.Phase() == Unauthenticated {
		return
	}
	s.phase.Set(Unauthenticated)
}
