package duostore

import (
	"context"
	"encoding/json"
	"fmt"
)

// Chain is a view of one (scope, name) pair exposing the record operations
// without repeating those two parameters. Mutating methods return the chain
// itself so calls can be sequenced; the first failure is latched and every
// later mutation becomes a no-op. Check Err after the sequence.
//
// Construction performs no validation: a chain bound to an empty name fails
// inside the first operation that uses it, not at Chain time.
//
// Discard removes only the bound name's entry. The namespace-wide bulk
// operation lives on Accessor.Clear; the two are named differently on
// purpose, their blast radii are not comparable.
type Chain struct {
	acc   *Accessor
	scope Scope
	name  string
	err   error
}

// Chain binds scope and name for repeated operations.
func (a *Accessor) Chain(scope Scope, name string) *Chain {
	return &Chain{acc: a, scope: scope, name: name}
}

// Err reports the first error encountered by a mutating method, or nil.
func (c *Chain) Err() error {
	if c == nil {
		return fmt.Errorf("duostore: chain is nil")
	}
	return c.err
}

func (c *Chain) bound() (Storage, string, error) {
	if c == nil || c.acc == nil {
		return nil, "", fmt.Errorf("duostore: chain is not bound to an accessor")
	}
	if c.name == "" {
		return nil, "", missingParam("name")
	}
	st, err := c.acc.storage(c.scope)
	if err != nil {
		return nil, "", err
	}
	return st, c.name, nil
}

// Get returns the raw whole record, with the absent entry normalized to the
// empty record. A previously latched mutation error is surfaced first.
func (c *Chain) Get(ctx context.Context) (json.RawMessage, error) {
	if err := c.Err(); err != nil {
		return nil, err
	}
	st, name, err := c.bound()
	if err != nil {
		return nil, err
	}
	text, err := loadText(ctx, st, name)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(text), nil
}

// GetField returns the raw value of one field and whether it was present.
func (c *Chain) GetField(ctx context.Context, field string) (json.RawMessage, bool, error) {
	if err := c.Err(); err != nil {
		return nil, false, err
	}
	st, name, err := c.bound()
	if err != nil {
		return nil, false, err
	}
	if field == "" {
		return nil, false, missingParam("field")
	}
	rec, err := loadRecord(ctx, st, name)
	if err != nil {
		return nil, false, err
	}
	raw, ok := rec[field]
	if !ok {
		return nil, false, nil
	}
	return raw, true, nil
}

// Set replaces the whole bound record with value.
func (c *Chain) Set(ctx context.Context, value any) *Chain {
	if c == nil || c.err != nil {
		return c
	}
	c.err = Set(ctx, c.acc, c.scope, c.name, value)
	return c
}

// SetField assigns value at one field of the bound record.
func (c *Chain) SetField(ctx context.Context, field string, value any) *Chain {
	if c == nil || c.err != nil {
		return c
	}
	c.err = SetField(ctx, c.acc, c.scope, c.name, field, value)
	return c
}

// RemoveField deletes one field of the bound record.
func (c *Chain) RemoveField(ctx context.Context, field string) *Chain {
	if c == nil || c.err != nil {
		return c
	}
	c.err = c.acc.RemoveField(ctx, c.scope, c.name, field)
	return c
}

// Discard deletes the bound name's entry. Only this entry is affected; use
// Accessor.Clear to empty a whole scope.
func (c *Chain) Discard(ctx context.Context) *Chain {
	if c == nil || c.err != nil {
		return c
	}
	c.err = c.acc.Remove(ctx, c.scope, c.name)
	return c
}
