// Package domain contains the core types of the mealgraph pipeline:
// the per-turn conversation state, the typed entity record, food and
// nutrition records, and the transcript types exchanged with a chat model.
//
// The domain layer has no dependencies on adapters or the graph runtime.
package domain
