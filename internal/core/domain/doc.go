// Package domain contains the core business entities and rules for scandoc.
// It has no dependencies on adapters or external services.
package domain
