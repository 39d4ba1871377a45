package golden

import (
	"errors"
	"fmt"
)

// Reconciliation failures that are not mismatches.
var (
	// ErrBothSpecified means a case has both a .expected and a .error file.
	ErrBothSpecified = errors.New("both expected result and expected error specified")

	// ErrNoErrorThrown means a .error file exists but execution succeeded.
	ErrNoErrorThrown = errors.New("error expected but none thrown")

	// ErrNoExpectedResult means execution succeeded but the case has no .expected file.
	ErrNoExpectedResult = errors.New("no expected result given")
)

// CaseError attaches a case name to one of the reconciliation sentinels.
type CaseError struct {
	Case string
	Err  error

	// Actual is the produced result, when there was one.
	Actual *string
}

func (e *CaseError) Error() string {
	if e.Actual != nil {
		return fmt.Sprintf("%s: %v. actual='%s'", e.Case, e.Err, *e.Actual)
	}
	return fmt.Sprintf("%s: %v", e.Case, e.Err)
}

func (e *CaseError) Unwrap() error {
	return e.Err
}

// MismatchError reports an expectation that does not match what happened.
// When masking applies, Expected and Actual are the masked forms.
type MismatchError struct {
	Case     string
	What     string // "result" or "error"
	Expected string
	Actual   string
	Diff     string
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: %s mismatch\nexpected: %q\nactual:   %q\n%s", e.Case, e.What, e.Expected, e.Actual, e.Diff)
}
