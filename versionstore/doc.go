// Package versionstore contains a test suite that confirms implementations of
// [journal.VersionStore] behave correctly.
//
// The implementations themselves are in the driver sub-packages.
package versionstore
