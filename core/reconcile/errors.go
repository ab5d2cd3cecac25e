package reconcile

import "errors"

var (
	// ErrUnknownKind is returned when an association kind name is not registered.
	ErrUnknownKind = errors.New("unknown association kind")

	// ErrUnboundOwner is returned when a pending owner reference is resolved before
	// the session has been bound to a generated identifier.
	ErrUnboundOwner = errors.New("pending owner is not bound to a generated identifier")

	// ErrNotCrossReferencing is returned when a ReferenceOrder operation targets a kind
	// without a ReferenceOrder column.
	ErrNotCrossReferencing = errors.New("association kind is not cross-referencing")

	// ErrKeyShape is returned when an owner key does not match the kind's owner columns.
	ErrKeyShape = errors.New("owner key does not match kind")

	// ErrLockTimeout is returned when a child group lock cannot be acquired in time.
	ErrLockTimeout = errors.New("timed out waiting for reference group lock")

	// ErrInvalidKind is returned by Kind.Validate for incomplete descriptors.
	ErrInvalidKind = errors.New("invalid association kind")
)
