package test

import (
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

// Expect compares two values and fails the test if they are different.
func Expect[T any](
	t FatalT,
	failMessage string,
	got, want T,
	options ...cmp.Option,
) {
	t.Helper()

	options = append(
		options,
		cmpopts.EquateEmpty(),
		cmpopts.EquateErrors(),
	)

	if diff := cmp.Diff(want, got, options...); diff != "" {
		t.Log(failMessage)
		t.Fatal(diff)
	}
}

// SortedStrings is a [cmp.Option] that ignores the order of string slices.
var SortedStrings = cmpopts.SortSlices(
	func(a, b string) bool { return a < b },
)
