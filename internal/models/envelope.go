package models

import (
	"strings"

	"github.com/dmitrijs2005/watchkeeper/internal/common"
)

// Code is a structured failure reason attached to store responses.
type Code string

const (
	CodeOK           Code = ""
	CodeAuthRequired Code = "auth_required"
	CodeValidation   Code = "validation"
	CodeDuplicate    Code = "duplicate"
	CodeInternal     Code = "internal"
)

// Envelope is the uniform response of every store operation.
type Envelope struct {
	Success      bool            `json:"success"`
	Message      string          `json:"message"`
	Code         Code            `json:"code,omitempty"`
	RowsAffected int64           `json:"rows_affected"`
	Items        []WatchListItem `json:"data,omitempty"`
}

// AuthRequired reports whether the store rejected the call for lack of a
// valid session. The message check covers stores that predate Code.
func (e *Envelope) AuthRequired() bool {
	if e == nil || e.Success {
		return false
	}
	return e.Code == CodeAuthRequired || strings.Contains(e.Message, common.AuthRequiredPhrase)
}
