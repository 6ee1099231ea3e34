package attribute

import (
	"errors"
	"fmt"
)

// Domain errors for the attribute package.
//
// These errors can be checked using errors.Is():
//
//	if errors.Is(err, attribute.ErrNotFound) {
//	    // handle not found case
//	}
var (
	// ErrNotFound is returned when a UUID does not exist in the catalog.
	ErrNotFound = errors.New("attribute: not found")

	// ErrExists is returned when creating an attribute with a UUID that already exists.
	ErrExists = errors.New("attribute: uuid already exists")

	// ErrMissingParent is returned when a characteristic or descriptor is
	// created without a service_uuid.
	ErrMissingParent = errors.New("attribute: characteristics and descriptors must be associated with a service")

	// ErrInvalidParent is returned when service_uuid does not resolve to an
	// existing attribute of type service.
	ErrInvalidParent = errors.New("attribute: referenced service not found")

	// ErrInvalidType is returned when an attribute type is not recognised.
	ErrInvalidType = errors.New("attribute: invalid type")

	// ErrInvalidUUID is returned when a UUID is empty.
	ErrInvalidUUID = errors.New("attribute: uuid is required")

	// ErrNotService is returned when a service-only operation targets a
	// characteristic or descriptor.
	ErrNotService = errors.New("attribute: target is not a service")

	// ErrHasChildren is returned when plain-deleting a service that still has
	// children. Use errors.As with *ChildrenError to recover the count.
	ErrHasChildren = errors.New("attribute: service has children")
)

// ChildrenError reports how many children blocked a plain delete.
// It unwraps to ErrHasChildren.
type ChildrenError struct {
	Count int
}

func (e *ChildrenError) Error() string {
	return fmt.Sprintf("attribute: service has %d characteristic(s); use force or orphan delete", e.Count)
}

func (e *ChildrenError) Unwrap() error {
	return ErrHasChildren
}
