package ciutil

import (
	"os"
	"strings"
	"testing"
)

// CI environment detection variables
const (
	EnvCI            = "CI"
	EnvGitHubActions = "GITHUB_ACTIONS"
	EnvGitLabCI      = "GITLAB_CI"
	EnvJenkinsURL    = "JENKINS_URL"
	EnvCircleCI      = "CIRCLECI"
)

// Integration test backends
const (
	EnvTestMongoURL    = "TASKAPI_TEST_MONGO_URL"
	EnvTestDatabaseURL = "TASKAPI_TEST_DATABASE_URL"
	EnvTestRedisURL    = "TASKAPI_TEST_REDIS_URL"

	// EnvRequireBackends turns a missing backend URL into a test failure.
	EnvRequireBackends = "TASKAPI_REQUIRE_BACKENDS"
)

// IsCI returns true if the current environment is a CI environment.
// It checks for common CI environment variables across different CI providers.
func IsCI() bool {
	return os.Getenv(EnvCI) != "" ||
		os.Getenv(EnvGitHubActions) != "" ||
		os.Getenv(EnvGitLabCI) != "" ||
		os.Getenv(EnvJenkinsURL) != "" ||
		os.Getenv(EnvCircleCI) != ""
}

// BackendsRequired reports whether integration tests must not be skipped.
func BackendsRequired() bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(EnvRequireBackends))) {
	case "", "0", "false", "no":
		return false
	default:
		return true
	}
}

// BackendURL returns the value of envVar. When it is empty the test is
// skipped, or failed if BackendsRequired.
func BackendURL(t testing.TB, envVar string) string {
	t.Helper()

	url := strings.TrimSpace(os.Getenv(envVar))
	if url != "" {
		return url
	}

	if BackendsRequired() {
		t.Fatalf("%s not set but %s is enabled (ci=%t)", envVar, EnvRequireBackends, IsCI())
	}
	t.Skipf("%s not set, skipping integration test", envVar)
	return ""
}
