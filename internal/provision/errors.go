package provision

import (
	"errors"
	"fmt"
)

// Error kinds. Match with errors.Is against a returned error.
var (
	ErrConnectionFailed = errors.New("connection failed")
	ErrQueryFailed      = errors.New("query failed")
	ErrCreateFailed     = errors.New("create failed")
	ErrInvalidTarget    = errors.New("invalid target")
)

// Phases of one EnsureSchema invocation.
const (
	PhaseValidate = "validate"
	PhaseDatabase = "database"
	PhaseTable    = "table"
)

// ProvisionError reports which phase failed, on which object, and why.
// It unwraps to both its Kind and the underlying driver error.
type ProvisionError struct {
	Kind   error
	Phase  string
	Object string
	Err    error
}

func (e *ProvisionError) Error() string {
	return fmt.Sprintf("%s phase: %v (%s): %v", e.Phase, e.Kind, e.Object, e.Err)
}

func (e *ProvisionError) Unwrap() []error {
	return []error{e.Kind, e.Err}
}
