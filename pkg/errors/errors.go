package errors

import "errors"

// ErrOptimisticLock signals that a record was modified by another operation.
var ErrOptimisticLock = errors.New("record was modified by another operation, refresh and retry")
