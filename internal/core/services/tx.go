package services

import "context"

// TxRunner runs a function inside a database transaction. Repositories pick
// the transaction up from the context.
type TxRunner interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}
