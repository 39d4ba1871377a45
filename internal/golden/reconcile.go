package golden

// Handler is the component under test as seen by one case.
type Handler interface {
	// GenerateResult runs the case. A non-nil error is the outcome to be
	// matched against the .error companion.
	GenerateResult() (string, error)

	// CheckResult judges a successful result against the .expected
	// companion, returning an error on mismatch.
	CheckResult(result string) error
}

// GenerateAndCheck runs h and reconciles the outcome with the expectations
// of the named case. expected and expectedErr are nil when the case has no
// .expected or .error file.
//
// An error returned by GenerateResult when no error was expected is returned
// as is, without wrapping.
func GenerateAndCheck(h Handler, name string, expected, expectedErr *string) error {
	if expected != nil && expectedErr != nil {
		return &CaseError{Case: name, Err: ErrBothSpecified}
	}

	result, err := h.GenerateResult()

	switch {
	case expectedErr != nil:
		if err == nil {
			return &CaseError{Case: name, Err: ErrNoErrorThrown}
		}
		if actual := err.Error(); actual != *expectedErr {
			return &MismatchError{
				Case:     name,
				What:     "error",
				Expected: *expectedErr,
				Actual:   actual,
				Diff:     unifiedDiff(*expectedErr, actual),
			}
		}
		return nil
	case err != nil:
		return err
	case expected == nil:
		return &CaseError{Case: name, Err: ErrNoExpectedResult, Actual: &result}
	default:
		return h.CheckResult(result)
	}
}

// CheckEqual compares a result with its expectation exactly.
func CheckEqual(name, expected, actual string) error {
	if expected == actual {
		return nil
	}
	return &MismatchError{
		Case:     name,
		What:     "result",
		Expected: expected,
		Actual:   actual,
		Diff:     unifiedDiff(expected, actual),
	}
}

// CheckWithoutPattern compares a result with its expectation after masking
// both with m.
func CheckWithoutPattern(name, expected, actual string, m *Masker) error {
	cmp := m.Compare(expected, actual)
	if cmp.Equal {
		return nil
	}
	return &MismatchError{
		Case:     name,
		What:     "result",
		Expected: cmp.Expected,
		Actual:   cmp.Actual,
		Diff:     cmp.Diff(),
	}
}

// CheckWithoutHashes is CheckWithoutPattern with HashPattern.
func CheckWithoutHashes(name, expected, actual string) error {
	return CheckWithoutPattern(name, expected, actual, hashMasker)
}
