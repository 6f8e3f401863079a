// Package ciutil detects the CI environment and locates the live backends
// used by integration tests.
//
// Integration tests call BackendURL with the variable naming their backend.
// Locally a missing variable skips the test; when TASKAPI_REQUIRE_BACKENDS is
// set (as in CI jobs that start MongoDB, PostgreSQL and Redis services) it
// fails the test instead, so a misconfigured pipeline cannot pass silently.
package ciutil
