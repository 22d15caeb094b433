package importer

import (
	"context"
	"errors"
	"fmt"
)

// ErrOwnershipConflict is returned when the importing user already
// owns a shop under a different name. One shop per user.
var ErrOwnershipConflict = errors.New("user already owns a different shop")

// ErrShopNameTaken is returned when the document's shop name is
// registered to another user.
var ErrShopNameTaken = errors.New("shop name belongs to another user")

// ValidationError reports a malformed or missing field in a supplier
// document. Nothing is committed when one is returned.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid document: %s: %s", e.Field, e.Detail)
}

type ImportResult struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
	Parameters int `json:"parameters"`
}

type UseCase interface {
	// ImportCatalog merges doc into the catalog, replacing the shop's
	// previous listings in a single transaction.
	ImportCatalog(ctx context.Context, doc *Document, userID int64) (*ImportResult, error)

	// ImportFromURL downloads the document with a bounded timeout and
	// runs ImportCatalog. A failed fetch leaves the catalog untouched.
	ImportFromURL(ctx context.Context, url string, userID int64) (*ImportResult, error)

	// Dispatch validates url, records a pending job and hands it to
	// the worker. Returns the job correlation id for polling.
	Dispatch(ctx context.Context, url string, userID int64) (string, error)

	// JobStatus returns the job for its owning user.
	JobStatus(ctx context.Context, jobID string, userID int64) (*Job, error)

	// Run executes a dispatched task on the worker side and records
	// the outcome on the job record.
	Run(ctx context.Context, task *Task)
}
