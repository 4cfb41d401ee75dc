package transactor

import "context"

// Transactor represents behavior for transactors
type Transactor interface {
	WithinTransaction(context.Context, func(context.Context) error) error
}

type passthroughTransactor struct{}

// NewPassthrough builds Transactor running the function as-is, for
// stores relying on the driver's own per-write atomicity guarantees
func NewPassthrough() Transactor {
	return passthroughTransactor{}
}

func (passthroughTransactor) WithinTransaction(ctx context.Context, txFunc func(context.Context) error) error {
	return txFunc(ctx)
}
