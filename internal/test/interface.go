package test

import (
	"testing"

	"pgregory.net/rapid"
)

// FatalT is the part of a test that assertions need in order to report a
// failure. It is satisfied by both standard tests and rapid property checks.
type FatalT interface {
	Helper()
	Log(...any)
	Fatal(...any)
}

// TestingT is a [FatalT] that also supports cleanup functions.
type TestingT interface {
	FatalT
	Cleanup(func())
}

var (
	_ TestingT = (testing.TB)(nil)
	_ FatalT   = (*rapid.T)(nil)
)
