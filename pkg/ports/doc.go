// Package ports defines the driven-side interfaces the pipeline consumes:
// food lookup, meal storage, goal retrieval, the language model boundary and
// the caller-side clarification context store. Adapters under
// internal/adapters implement them.
package ports
