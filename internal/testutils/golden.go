package testutils

import (
	"fmt"
	"strings"
	"testing"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// DiffStrings renders a character-level diff between two strings, one
// fragment per line prefixed with -, + or two spaces. Long unchanged
// fragments are truncated.
func DiffStrings(expected, actual string) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(expected, actual, false)

	var b strings.Builder
	for _, diff := range diffs {
		switch diff.Type {
		case diffmatchpatch.DiffDelete:
			fmt.Fprintf(&b, "- %q\n", diff.Text)
		case diffmatchpatch.DiffInsert:
			fmt.Fprintf(&b, "+ %q\n", diff.Text)
		case diffmatchpatch.DiffEqual:
			if len(diff.Text) > 50 {
				fmt.Fprintf(&b, "  %q...\n", diff.Text[:47])
			} else {
				fmt.Fprintf(&b, "  %q\n", diff.Text)
			}
		}
	}
	return b.String()
}

// RequireEqualText fails the test immediately when the two strings differ,
// printing the diff instead of the full values.
func RequireEqualText(t *testing.T, expected, actual string) {
	t.Helper()
	if expected == actual {
		return
	}
	t.Fatalf("text mismatch:\n%s", DiffStrings(expected, actual))
}
