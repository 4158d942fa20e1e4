package domain

import (
	"crypto/sha1" //nolint:gosec // non-cryptographic fingerprint
	"encoding/hex"
	"encoding/json"
	"strconv"
)

// Domain contains core models shared by the prober and its sinks.

// Outcome is the observed result of sending one catalog request.
type Outcome struct {
	RequestID string `json:"request_id"`
	Method    string `json:"method"`
	URL       string `json:"url"`
	OK        bool   `json:"ok"`
	Status    int    `json:"status,omitempty"`
	Kind      string `json:"failure_kind,omitempty"`
	Message   string `json:"message,omitempty"`
	Payload   any    `json:"payload,omitempty"`
}

// Fingerprint identifies the observable content of an outcome so repeated identical
// results can be recognised.
func (o Outcome) Fingerprint() string {
	h := sha1.New() //nolint:gosec // non-cryptographic fingerprint
	h.Write([]byte(o.RequestID))
	h.Write([]byte{0})
	h.Write([]byte(strconv.FormatBool(o.OK)))
	h.Write([]byte{0})
	h.Write([]byte(strconv.Itoa(o.Status)))
	h.Write([]byte{0})
	h.Write([]byte(o.Message))
	h.Write([]byte{0})
	if payload, err := json.Marshal(o.Payload); err == nil {
		h.Write(payload)
	}
	return hex.EncodeToString(h.Sum(nil))
}
