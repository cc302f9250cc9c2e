// Package redact removes secrets from code lines before they are sent to a
// line rater.
//
// Detection uses regex heuristics covering common secret shapes: API keys,
// JWTs, private keys, AWS access key IDs and secret access keys, bearer
// tokens, basic-auth credentials in URLs, and provider-specific tokens
// (Anthropic, OpenAI, GitHub, Slack).
//
// Files whose paths match configured glob patterns are not rated at all.
package redact
