// Package types contains the value types shared across the MACD negotiation
// protocol: roles, proposals, objections, divergences and preferences, plus
// the unified structured error type.
//
// The types package is the lowest-level package with no internal dependencies,
// so placing these types here avoids circular imports.
package types
