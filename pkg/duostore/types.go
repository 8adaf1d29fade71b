package duostore

import (
	"context"
	"errors"
	"fmt"
)

// Scope selects which backing store selection an operation targets.
type Scope string

const (
	// Local is the durable scope: entries survive until removed or cleared.
	Local Scope = "local"
	// Session is the session-lifetime scope: entries live as long as the
	// backing capability keeps them.
	Session Scope = "session"
)

// Storage is the host key/value capability backing one scope.
// GetItem reports ok=false when no text is stored under the name.
// Implementations must treat RemoveItem of an absent name as a no-op.
type Storage interface {
	GetItem(ctx context.Context, name string) (text string, ok bool, err error)
	SetItem(ctx context.Context, name, text string) error
	RemoveItem(ctx context.Context, name string) error
	Clear(ctx context.Context) error
}

var (
	// ErrMissingParameter is returned when a required parameter is absent.
	// The wrapping message names the parameter.
	ErrMissingParameter = errors.New("duostore: missing parameter")
	// ErrUnknownScope is returned for a Scope the accessor has no store for.
	ErrUnknownScope = errors.New("duostore: unknown scope")
	// ErrMalformedRecord is returned when stored text cannot be decoded as
	// JSON, or when a field operation targets a non-object record.
	ErrMalformedRecord = errors.New("duostore: malformed record")
)

func missingParam(name string) error {
	return fmt.Errorf("%w: %s", ErrMissingParameter, name)
}
