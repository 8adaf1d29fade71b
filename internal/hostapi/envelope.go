// Package hostapi implements the response envelope used by the duostore
// host storage service. Every endpoint wraps its payload as
// {"result": <payload>}; stored record text travels as a JSON string inside
// the result field, and a JSON null result is the absent-marker.
package hostapi

import (
	"bytes"
	"encoding/json"
	"fmt"
)

type envelope struct {
	Result json.RawMessage `json:"result"`
}

// Wrap encodes payload inside the result envelope.
func Wrap(payload any) ([]byte, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("hostapi: encode result: %w", err)
	}
	return json.Marshal(envelope{Result: raw})
}

// WrapText encodes stored record text inside the envelope. ok=false produces
// the null result that marks an absent entry.
func WrapText(text string, ok bool) ([]byte, error) {
	if !ok {
		return []byte(`{"result":null}`), nil
	}
	return Wrap(text)
}

// ExtractResult unwraps a response body, returning the payload stored under
// the result field. A body that is not an envelope is returned as-is, so
// bare JSON responses keep working.
func ExtractResult(body []byte) (json.RawMessage, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var env envelope
	if err := json.Unmarshal(trimmed, &env); err != nil || env.Result == nil {
		return append(json.RawMessage(nil), trimmed...), nil
	}
	return append(json.RawMessage(nil), env.Result...), nil
}

// ExtractText unwraps a response carrying stored record text. ok=false means
// the result was null or empty, the service's absent-marker.
func ExtractText(body []byte) (string, bool, error) {
	payload, err := ExtractResult(body)
	if err != nil {
		return "", false, err
	}
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return "", false, nil
	}
	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return "", false, fmt.Errorf("hostapi: decode text result: %w", err)
	}
	return text, true, nil
}

// DecodeResult decodes the unwrapped payload into out. An empty body is
// treated as a JSON null.
func DecodeResult(body []byte, out any) error {
	payload, err := ExtractResult(body)
	if err != nil {
		return err
	}
	if len(payload) == 0 {
		payload = []byte("null")
	}
	return json.Unmarshal(payload, out)
}
