package state

import "github.com/dmitrijs2005/watchkeeper/internal/common"

// Modes holds the developer mode and client validation flags. They live only
// for the lifetime of the process.
type Modes struct {
	developer        *Value[bool]
	clientValidation *Value[bool]
}

// NewModes starts with developer mode off and client validation on.
func NewModes() *Modes {
	return &Modes{
		developer:        NewValue(false),
		clientValidation: NewValue(true),
	}
}

func (m *Modes) Developer() bool {
	return m.developer.Get()
}

func (m *Modes) ClientValidation() bool {
	return m.clientValidation.Get()
}

// SetDeveloperMode switches developer mode. Leaving it turns client
// validation back on.
func (m *Modes) SetDeveloperMode(on bool) {
	m.developer.Set(on)
	if !on && !m.clientValidation.Get() {
		m.clientValidation.Set(true)
	}
}

// SetClientValidation is only allowed in developer mode.
func (m *Modes) SetClientValidation(on bool) error {
	if !m.developer.Get() {
		return common.ErrDeveloperModeRequired
	}
	m.clientValidation.Set(on)
	return nil
}

func (m *Modes) OnDeveloperChange(fn func(bool)) func() {
	return m.developer.Subscribe(fn)
}

// OnValidationChange registers fn for every write of the validation flag.
func (m *Modes) OnValidationChange(fn func(bool)) func() {
	return m.clientValidation.Subscribe(fn)
}
