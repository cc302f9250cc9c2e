// Package config loads and merges quill configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (GERRIT_URL, GERRIT_USER, GERRIT_PASS, LLM_API,
//     QUILL_PROVIDER, QUILL_MODEL, etc.)
//  3. Config file ($XDG_CONFIG_HOME/quill/config.json)
//  4. Built-in defaults
//
// The Gerrit password is only ever taken from the environment and is never
// written to the config file.
//
// Use [Load] to obtain a merged [Config] once at startup, [Save] to write a
// config file, and [SetField] to update a single key.
package config
