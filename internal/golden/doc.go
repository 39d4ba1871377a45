// Package golden discovers SQL golden-file test cases and judges their outcomes.
//
// A case is a set of sibling files sharing one base name:
//
//	select_star.sql       SQL text fed to the component under test (required)
//	select_star.expected  expected textual result (optional)
//	select_star.error     expected error string (optional)
//	select_star.params    one positional parameter per line (optional)
//	select_star.fail      marker: known to fail, filtered out by default
//
// # Discovery
//
// ListSQLFiles returns the .sql files of a directory ordered by file name, so
// test order is the same on every platform. LoadCases turns each of them into
// a Case, dropping cases marked with a .fail file unless
// LoadOptions.RunFailing is set.
//
// # Reconciliation
//
// The component under test is reached through Handler. GenerateAndCheck runs
// it and applies a fixed decision table:
//
//  1. both .expected and .error present: the case is malformed
//  2. .error present: the failure's Error() string must equal it exactly
//  3. unexpected failure: returned unchanged
//  4. no .expected: the case is unconfigured
//  5. otherwise: Handler.CheckResult decides
//
// No branch passes silently.
//
// # Masking
//
// Results often embed identity hashes or other values that change between
// runs. Masker replaces every match of a pattern with one placeholder on both
// sides before an exact comparison, and renders mismatches as a unified diff
// of the masked text.
//
// # Usage
//
//	func TestParser(t *testing.T) {
//	    golden.RunCases(t, "testdata/parse", golden.LoadOptions{}, func(c golden.Case) golden.Handler {
//	        return &parseCase{c: c}
//	    })
//	}
package golden
