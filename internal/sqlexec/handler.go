package sqlexec

import (
	"context"

	"github.com/roach88/sqlgolden/internal/golden"
)

// Handler adapts one case to golden.Handler.
type Handler struct {
	ctx   context.Context
	db    *DB
	c     golden.Case
	check func(expected, actual string) error
}

var _ golden.Handler = (*Handler)(nil)

// NewHandler returns a handler that runs c on db and judges results with
// check. A nil check compares exactly.
func NewHandler(ctx context.Context, db *DB, c golden.Case, check func(expected, actual string) error) *Handler {
	if check == nil {
		name := c.Name
		check = func(expected, actual string) error {
			return golden.CheckEqual(name, expected, actual)
		}
	}
	return &Handler{ctx: ctx, db: db, c: c, check: check}
}

// GenerateResult runs the case's SQL with its parameters.
func (h *Handler) GenerateResult() (string, error) {
	return h.db.Run(h.ctx, h.c.SQL, h.c.Params)
}

// CheckResult compares result with the case's .expected content. The
// reconciler only calls it when that content is present.
func (h *Handler) CheckResult(result string) error {
	return h.check(*h.c.Expected, result)
}
