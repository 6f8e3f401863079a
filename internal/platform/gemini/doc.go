// Package gemini provides a suggest.Suggester backed by Google's Gemini API.
//
// The LLM refines the output of the rule engine. Any failure (API error,
// timeout, blocked or malformed response) is logged and the rule output is
// returned instead, so callers never see an error from the LLM.
package gemini
