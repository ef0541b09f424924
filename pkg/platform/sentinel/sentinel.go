package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores return these (optionally
// wrapped) and services translate them into domain errors.
//
//   - ErrNotFound: document or sub-entry does not exist
//   - ErrConflict: a uniqueness constraint or membership rule was violated
//   - ErrUnavailable: the backend could not complete the operation in time,
//     e.g. atomic update retries were exhausted under contention
//
// Validation failures belong in pkg/domain-errors.
var (
	ErrNotFound    = errors.New("not found")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)
