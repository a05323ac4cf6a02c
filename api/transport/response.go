package transport

import (
	"encoding/json"

	"github.com/personalmgr/backend/domain"
)

// Envelope is the standard API response wrapper used for both success and error payloads.
type Envelope struct {
	Status string           `json:"status"`
	Code   domain.ErrorCode `json:"code,omitempty"`
	Data   interface{}      `json:"data,omitempty"`
	Error  interface{}      `json:"error,omitempty"`
	Meta   interface{}      `json:"meta,omitempty"`
}

// ListMeta describes the page a list response was cut from.
type ListMeta struct {
	Skip  int64 `json:"skip"`
	Limit int64 `json:"limit"`
	Count int   `json:"count"`
}

// NewSuccess returns a success envelope.
func NewSuccess(data interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "success",
		Data:   data,
		Meta:   meta,
	}
}

// NewError returns an error envelope with optional metadata.
func NewError(code domain.ErrorCode, err interface{}, meta interface{}) Envelope {
	return Envelope{
		Status: "error",
		Code:   code,
		Error:  err,
		Meta:   meta,
	}
}

// String returns the JSON representation (best-effort) for logging purposes.
func (e Envelope) String() string {
	out, err := json.Marshal(e)
	if err != nil {
		return "{}"
	}
	return string(out)
}
