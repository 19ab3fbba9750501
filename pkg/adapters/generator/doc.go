// Package generator provides ports.ContentGenerator implementations: an
// offline Template generator that drafts deterministic decks, and an HTTP
// client for OpenAI-compatible chat completion endpoints.
package generator
