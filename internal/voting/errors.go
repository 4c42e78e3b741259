package voting

import "errors"

var (
	// ErrItemNotFound means the voted-upon item does not exist.
	ErrItemNotFound = errors.New("item not found")

	// ErrUnauthenticated means no voter identity could be established.
	ErrUnauthenticated = errors.New("unauthenticated")

	// ErrStorageUnavailable wraps transient backing-store failures.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
