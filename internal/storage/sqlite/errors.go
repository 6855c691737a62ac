// ABOUTME: Typed storage errors carrying entity kind and offending id
// ABOUTME: CLI layers match these with errors.As to build actionable messages
package sqlite

import (
	"fmt"

	"github.com/bioarchitect/biodb/internal/models"
)

// NotFoundError reports an operation precondition on a row that does not exist.
// Point lookups return (nil, nil) instead; this error is for writes that
// require the row, like superseding a knowledge entry.
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Entity, e.ID)
}

// LinkTargetNotFoundError reports a knowledge link whose target row does not
// exist in the table named by its link type.
type LinkTargetNotFoundError struct {
	LinkType models.LinkType
	TargetID string
}

func (e *LinkTargetNotFoundError) Error() string {
	return fmt.Sprintf("link target does not exist: %s %s", e.LinkType, e.TargetID)
}

// AlreadyImportedError reports an import whose source file was ingested before.
type AlreadyImportedError struct {
	SourceFile string
}

func (e *AlreadyImportedError) Error() string {
	return fmt.Sprintf("already imported: %s", e.SourceFile)
}
