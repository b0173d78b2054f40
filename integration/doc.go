// Package integration contains the end-to-end smoke tests for codearmor.
// Tests build the codearmor binary and run it against Gradle project fixtures
// with a fake ./gradlew that records its arguments.
//
// Run with: go test ./integration/... -v -timeout 120s
package integration
