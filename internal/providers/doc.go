// Package providers implements the Rater interface: services that read one
// line of code and return a short review comment for it, or nothing.
//
// Supported providers: the plain HTTP rating endpoint (the default, a service
// accepting {"code": ...} and answering {"comment": ...}), Anthropic (Claude),
// OpenAI (GPT), and Ollama / LMStudio for local models.
//
// All providers share a common retry helper with exponential back-off for
// rate limits and server errors. HTTP clients are held in a field so that
// tests can redirect calls to local httptest servers without making live API
// requests. [Limited] wraps any Rater with a token-bucket rate limit.
//
// Use [New] to obtain a Rater from the rater configuration.
package providers
