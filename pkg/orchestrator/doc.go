// Package orchestrator wires the forms registry, the worksheet store and the
// form session into a single entry point used by the CLI and the HTTP handler.
package orchestrator
