package golden

import "testing"

// RunCases runs every case in dir as a subtest named after the case.
//
// newHandler is called once per case. The test fails if dir holds no cases,
// since an empty fixture directory almost always means a wrong path.
func RunCases(t *testing.T, dir string, opts LoadOptions, newHandler func(Case) Handler) {
	t.Helper()

	cases, err := LoadCases(dir, opts)
	if err != nil {
		t.Fatalf("failed to load cases from %s: %v", dir, err)
	}
	if len(cases) == 0 {
		t.Fatalf("no cases found in %s", dir)
	}

	for _, c := range cases {
		t.Run(c.Name, func(t *testing.T) {
			if err := c.Check(newHandler(c)); err != nil {
				t.Error(err)
			}
		})
	}
}
