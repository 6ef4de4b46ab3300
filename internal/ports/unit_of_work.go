package ports

import (
	"context"

	"github.com/1jkeepers3/aws-nyc-mv-gs/internal/errs"
)

var (
	// ErrRevisionConflict reports that a conditional write lost a race with
	// another writer; the caller re-reads and retries.
	ErrRevisionConflict = errs.New(errs.KindUpdateFailed, "record changed since it was read")
	// ErrNoUpdatePerformed reports that a write matched no record at all.
	ErrNoUpdatePerformed = errs.New(errs.KindUpdateFailed, "no update performed")
)

// Tx is an opaque transaction handle for repositories/adapters.
// Infrastructure controls the concrete type (for example, *gorm.DB).
type Tx interface{}

// UnitOfWork defines a transaction boundary.
//
// Returning an error from fn rolls back, returning nil commits.
type UnitOfWork interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type txKey struct{}

// WithTxContext stores a transaction handle in context.
func WithTxContext(ctx context.Context, tx Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

// TxFromContext reads a transaction handle from context.
func TxFromContext(ctx context.Context) Tx {
	return ctx.Value(txKey{})
}
