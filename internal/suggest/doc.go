// Package suggest produces textual advice for a batch of tasks.
//
// Rules is the deterministic rule set. Suggester abstracts over the source of
// suggestions so that the HTTP layer can be backed by the rules or by an LLM
// that extends them.
package suggest
