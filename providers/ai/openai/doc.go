// Package openai implements [ai.Provider] for OpenAI's Chat Completions API.
//
// The provider is configured from OPENAI_API_KEY and OPENAI_API_BASE_URL, with
// the usual With* chaining overrides. Response content is passed through
// untyped (string or content-part list) so the payload layer can normalize it
// at the boundary.
package openai
