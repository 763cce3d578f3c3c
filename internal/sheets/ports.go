// Package sheets defines the outbound report ports the worker exports
// through.
package sheets

import (
	"context"

	"finvision/internal/core"
)

// TransactionWriter appends a materialized transaction to an external
// report sink.
type TransactionWriter interface {
	Append(ctx context.Context, t core.Transaction, categoryName string) (rowRef string, err error)
}
