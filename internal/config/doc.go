// Package config handles configuration loading, parsing, and validation
// from defaults, an optional config.yaml and environment variables prefixed
// with TASKAPI_. It provides type-safe access to application settings while
// keeping configuration details separate from business logic.
package config
