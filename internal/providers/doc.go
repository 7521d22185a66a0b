// Package providers implements the Reviewer interface for the supported
// review services.
//
// Supported providers: Ollama / LM Studio (OpenAI-compatible chat API, the
// default for local models) and Anthropic (Claude).
//
// Both providers share a retry helper with exponential back-off for
// rate-limit responses. Base URLs are fields on the provider structs so that
// tests can redirect calls to local httptest servers without making live API
// requests.
//
// Use [New] to obtain a [Reviewer] by provider name and model string.
package providers
