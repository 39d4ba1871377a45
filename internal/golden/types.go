package golden

// File suffixes recognised by the locator and loader.
const (
	SourceSuffix   = ".sql"
	ExpectedSuffix = ".expected"
	ErrorSuffix    = ".error"
	ParamsSuffix   = ".params"
	FailSuffix     = ".fail"
)

// Case is one test case assembled from its companion files.
//
// Optional companions are represented by nil: a missing .expected file is a
// nil Expected, while an empty one is a pointer to "". The same holds for
// Params, where an empty .params file gives a non-nil empty slice.
type Case struct {
	// Name is the source file name without the .sql suffix.
	Name string `json:"name"`

	// Path is the path of the .sql file.
	Path string `json:"path"`

	// SQL is the full content of the .sql file.
	SQL string `json:"sql"`

	Expected *string  `json:"expected,omitempty"`
	Error    *string  `json:"error,omitempty"`
	Params   []string `json:"params,omitempty"`
}

// HasParams reports whether the case came with a .params file.
func (c Case) HasParams() bool {
	return c.Params != nil
}

// Check runs h and reconciles its outcome against the case's expectations.
func (c Case) Check(h Handler) error {
	return GenerateAndCheck(h, c.Name, c.Expected, c.Error)
}

// LoadOptions controls which cases LoadCases returns and what it reads.
type LoadOptions struct {
	// RunFailing includes cases that have a .fail marker.
	RunFailing bool

	// Params reads .params companions into Case.Params.
	Params bool

	// Filter is an optional path.Match pattern applied to case names.
	Filter string
}
