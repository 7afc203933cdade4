package harness

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"

	"github.com/roach88/evolve/internal/wire"
)

// checkExpect compares a case outcome against exp and returns one message
// per unmet expectation.
func checkExpect(exp Expect, out outcome, err error) []string {
	var failures []string

	switch {
	case exp.Error != "" && err == nil:
		failures = append(failures, fmt.Sprintf("expected error containing %q, got success", exp.Error))
	case exp.Error != "" && !strings.Contains(err.Error(), exp.Error):
		failures = append(failures, fmt.Sprintf("error %q does not contain %q", err.Error(), exp.Error))
	case exp.Error == "" && err != nil:
		failures = append(failures, fmt.Sprintf("unexpected error: %v", err))
	}

	if exp.Tag != "" && out.tag != exp.Tag {
		failures = append(failures, fmt.Sprintf("tag: got %q, want %q", out.tag, exp.Tag))
	}

	if exp.Current != nil && out.current != *exp.Current {
		failures = append(failures, fmt.Sprintf("current: got %t, want %t", out.current, *exp.Current))
	}

	if exp.Domain != nil {
		if err := matchDomain(out.domain, exp.Domain); err != nil {
			failures = append(failures, err.Error())
		}
	}

	if exp.Encoded != "" && out.encoded != exp.Encoded {
		failures = append(failures, fmt.Sprintf("encoded: got %s, want %s", out.encoded, exp.Encoded))
	}

	return failures
}

// matchDomain checks that every field of expected appears in actual with an
// equal value. Extra fields in actual are OK (subset match). Text is compared
// in NFC so a scenario file may spell accented names either way.
func matchDomain(actual wire.Value, expected map[string]any) error {
	if actual == nil {
		return fmt.Errorf("domain: no value produced")
	}
	got, ok := actual.(wire.Object)
	if !ok {
		return fmt.Errorf("domain: got %T, want an object", actual)
	}

	want, err := wire.FromAny(expected)
	if err != nil {
		return fmt.Errorf("domain: expected value: %w", err)
	}
	wantObj := want.(wire.Object)

	got = wire.NormalizeNFC(got).(wire.Object)
	wantObj = wire.NormalizeNFC(wantObj).(wire.Object)

	for _, key := range wantObj.SortedKeys() {
		gotVal, exists := got[key]
		if !exists {
			return fmt.Errorf("domain.%s: missing", key)
		}
		if diff := cmp.Diff(wantObj[key], gotVal); diff != "" {
			return fmt.Errorf("domain.%s mismatch (-want +got):\n%s", key, diff)
		}
	}
	return nil
}
