// Package duostore provides a structured accessor over two host-provided
// key/value storage scopes: a durable "local" scope and a "session" scope.
// Each stored entry holds a JSON document (a Record); callers address either
// the whole Record or a single field within it. The public API centres on the
// Accessor type plus generic Get/Set/GetField/SetField helpers, with a Chain
// accessor for repeated operations against one (scope, name) pair. Storage
// backends are pluggable through the Storage interface; the package ships an
// HTTP backend for the duostore host facility and pkg/duostore/mock provides
// an in-memory implementation for development and tests.
package duostore
