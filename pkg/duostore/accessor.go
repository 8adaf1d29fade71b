package duostore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Accessor translates structured (scope, name, field, value) requests into
// read-modify-write sequences against the host storage capabilities. One
// Storage instance backs each scope; the mapping is fixed at construction.
//
// Field operations are not atomic across callers: two concurrent writers of
// different fields under the same name race on the full re-encoded record,
// and the last writer wins. The Storage contract offers no transaction
// primitive, so this is documented rather than worked around.
type Accessor struct {
	stores map[Scope]Storage
}

// New constructs an Accessor backed by the two scope capabilities.
func New(local, session Storage) *Accessor {
	return &Accessor{stores: map[Scope]Storage{
		Local:   local,
		Session: session,
	}}
}

func (a *Accessor) storage(scope Scope) (Storage, error) {
	if a == nil || a.stores == nil {
		return nil, fmt.Errorf("duostore: accessor is nil")
	}
	if scope == "" {
		return nil, missingParam("scope")
	}
	st, ok := a.stores[scope]
	if !ok || st == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
	return st, nil
}

// Get retrieves the whole record stored under name and decodes it into T.
// An absent entry is normalized to the empty record before decoding, so for
// map and struct targets Get yields the empty value rather than failing.
// Non-object targets such as strings and numbers cannot decode that
// normalization; callers reading a possibly-absent entry into one should use
// GetRaw, which reports absence as nil.
func Get[T any](ctx context.Context, a *Accessor, scope Scope, name string) (T, error) {
	var zero T
	if name == "" {
		return zero, missingParam("name")
	}
	st, err := a.storage(scope)
	if err != nil {
		return zero, err
	}
	text, err := loadText(ctx, st, name)
	if err != nil {
		return zero, err
	}
	var value T
	if err := json.Unmarshal([]byte(text), &value); err != nil {
		return zero, fmt.Errorf("%w: decode %q: %v", ErrMalformedRecord, name, err)
	}
	return value, nil
}

// GetField retrieves one field of the record stored under name. The boolean
// reports whether the field was present; an absent name or field is not an
// error.
func GetField[T any](ctx context.Context, a *Accessor, scope Scope, name, field string) (T, bool, error) {
	var zero T
	if name == "" {
		return zero, false, missingParam("name")
	}
	if field == "" {
		return zero, false, missingParam("field")
	}
	st, err := a.storage(scope)
	if err != nil {
		return zero, false, err
	}
	rec, err := loadRecord(ctx, st, name)
	if err != nil {
		return zero, false, err
	}
	raw, ok := rec[field]
	if !ok {
		return zero, false, nil
	}
	var value T
	if err := json.Unmarshal(raw, &value); err != nil {
		return zero, false, fmt.Errorf("%w: decode %q field %q: %v", ErrMalformedRecord, name, field, err)
	}
	return value, true, nil
}

// Set replaces the whole record under name with value. This is a deliberate
// override: any previous record, object-shaped or not, is discarded. The
// zero values 0, "" and false are legal; only a nil interface value is
// rejected as missing.
func Set[T any](ctx context.Context, a *Accessor, scope Scope, name string, value T) error {
	if name == "" {
		return missingParam("name")
	}
	if any(value) == nil {
		return missingParam("value")
	}
	st, err := a.storage(scope)
	if err != nil {
		return err
	}
	data, err := encodeJSON(value)
	if err != nil {
		return fmt.Errorf("duostore: encode value: %w", err)
	}
	return st.SetItem(ctx, name, string(data))
}

// SetField assigns value at one field of the record under name, preserving
// all sibling fields byte-exactly. A missing record is created.
func SetField[T any](ctx context.Context, a *Accessor, scope Scope, name, field string, value T) error {
	if name == "" {
		return missingParam("name")
	}
	if field == "" {
		return missingParam("field")
	}
	if any(value) == nil {
		return missingParam("value")
	}
	st, err := a.storage(scope)
	if err != nil {
		return err
	}
	raw, err := encodeJSON(value)
	if err != nil {
		return fmt.Errorf("duostore: encode value: %w", err)
	}
	rec, err := loadRecord(ctx, st, name)
	if err != nil {
		return err
	}
	rec[field] = raw
	return storeRecord(ctx, st, name, rec)
}

// Remove deletes the whole stored entry for name. Removing an absent name is
// a no-op. This is distinct from writing an empty record: a later Get sees
// the absent-entry default.
func (a *Accessor) Remove(ctx context.Context, scope Scope, name string) error {
	if name == "" {
		return missingParam("name")
	}
	st, err := a.storage(scope)
	if err != nil {
		return err
	}
	return st.RemoveItem(ctx, name)
}

// RemoveField deletes one field of the record under name and writes the
// record back. Removing an absent field is a no-op on the record content.
func (a *Accessor) RemoveField(ctx context.Context, scope Scope, name, field string) error {
	if name == "" {
		return missingParam("name")
	}
	if field == "" {
		return missingParam("field")
	}
	st, err := a.storage(scope)
	if err != nil {
		return err
	}
	rec, err := loadRecord(ctx, st, name)
	if err != nil {
		return err
	}
	delete(rec, field)
	return storeRecord(ctx, st, name, rec)
}

// Clear destroys every entry in the scope, including entries never touched
// through this accessor. The other scope is unaffected.
func (a *Accessor) Clear(ctx context.Context, scope Scope) error {
	st, err := a.storage(scope)
	if err != nil {
		return err
	}
	return st.Clear(ctx)
}

// GetRaw fetches the raw JSON text stored under name, or nil when absent.
func (a *Accessor) GetRaw(ctx context.Context, scope Scope, name string) (json.RawMessage, error) {
	if name == "" {
		return nil, missingParam("name")
	}
	st, err := a.storage(scope)
	if err != nil {
		return nil, err
	}
	text, ok, err := st.GetItem(ctx, name)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return json.RawMessage(text), nil
}

// SetRaw stores a pre-encoded JSON payload as the whole record under name.
// The payload is validated so the stored-text invariant holds.
func (a *Accessor) SetRaw(ctx context.Context, scope Scope, name string, raw json.RawMessage) error {
	if name == "" {
		return missingParam("name")
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return missingParam("value")
	}
	st, err := a.storage(scope)
	if err != nil {
		return err
	}
	if !json.Valid(trimmed) {
		return fmt.Errorf("%w: %q: payload is not valid JSON", ErrMalformedRecord, name)
	}
	return st.SetItem(ctx, name, string(trimmed))
}

const emptyRecord = "{}"

// loadText reads the stored text for name, substituting the empty record for
// an absent or blank entry.
func loadText(ctx context.Context, st Storage, name string) (string, error) {
	text, ok, err := st.GetItem(ctx, name)
	if err != nil {
		return "", err
	}
	if !ok || strings.TrimSpace(text) == "" {
		return emptyRecord, nil
	}
	return text, nil
}

// loadRecord decodes the stored text for name as a field map. Stored "null"
// normalizes to an empty record; any other non-object text is malformed for
// field addressing.
func loadRecord(ctx context.Context, st Storage, name string) (map[string]json.RawMessage, error) {
	text, err := loadText(ctx, st, name)
	if err != nil {
		return nil, err
	}
	var rec map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &rec); err != nil {
		return nil, fmt.Errorf("%w: decode %q: %v", ErrMalformedRecord, name, err)
	}
	if rec == nil {
		rec = make(map[string]json.RawMessage)
	}
	return rec, nil
}

func storeRecord(ctx context.Context, st Storage, name string, rec map[string]json.RawMessage) error {
	data, err := encodeJSON(rec)
	if err != nil {
		return fmt.Errorf("duostore: encode record: %w", err)
	}
	return st.SetItem(ctx, name, string(data))
}

func encodeJSON(value any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(value); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
