package cli

import (
	"errors"
	"fmt"

	"github.com/roach88/pathstore/internal/backend"
	"github.com/roach88/pathstore/internal/codec"
	"github.com/roach88/pathstore/internal/query"
	"github.com/roach88/pathstore/internal/store"
)

// Error codes for CLI output.
const (
	ErrCodeGeneric         = "E001" // Generic/unknown error
	ErrCodeConfig          = "E002" // Config file or flag error
	ErrCodeKeyNotFound     = "E101" // Mapping key missing
	ErrCodeIndexOutOfRange = "E102" // Sequence position missing
	ErrCodeTypeMismatch    = "E103" // Node is not the container the operation needs
	ErrCodeInvalidPath     = "E104" // Empty path, empty key or kind mismatch
	ErrCodeCorruptStore    = "E105" // Backing content cannot be decoded
	ErrCodeBadValue        = "E106" // Value or expression cannot be used
	ErrCodeNotFound        = "E107" // Namespace has never been written
)

// errorCode classifies err for CLI output.
func errorCode(err error) string {
	switch {
	case errors.Is(err, store.ErrCorruptStore):
		return ErrCodeCorruptStore
	case errors.Is(err, store.ErrKeyNotFound):
		return ErrCodeKeyNotFound
	case errors.Is(err, store.ErrIndexOutOfRange):
		return ErrCodeIndexOutOfRange
	case errors.Is(err, store.ErrTypeMismatch):
		return ErrCodeTypeMismatch
	case errors.Is(err, store.ErrInvalidPath):
		return ErrCodeInvalidPath
	case errors.Is(err, query.ErrInvalidExpression), errors.Is(err, codec.ErrUnsupported):
		return ErrCodeBadValue
	case errors.Is(err, backend.ErrNotFound):
		return ErrCodeNotFound
	default:
		return ErrCodeGeneric
	}
}

// exitCode picks the process exit code for a CLI error code.
func exitCode(code string) int {
	switch code {
	case ErrCodeGeneric, ErrCodeConfig, ErrCodeCorruptStore:
		return ExitCommandError
	default:
		return ExitFailure
	}
}

// fail reports err through the formatter under code and returns the
// ExitError the command should return.
func fail(formatter *OutputFormatter, code, message string, err error) error {
	_ = formatter.Error(code, fmt.Sprintf("%s: %v", message, err), nil)
	return WrapExitError(exitCode(code), message, err)
}

// failOp reports a store or query failure, classifying it by error.
func failOp(formatter *OutputFormatter, op string, err error) error {
	code := errorCode(err)
	var details any
	var opErr *store.OpError
	if errors.As(err, &opErr) {
		details = map[string]string{"namespace": opErr.Namespace, "op": opErr.Op}
	}
	_ = formatter.Error(code, err.Error(), details)
	return WrapExitError(exitCode(code), op+" failed", err)
}
