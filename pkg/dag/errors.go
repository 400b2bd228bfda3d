package dag

import "errors"

// Sentinel errors for the kinds enumerated in the error-handling design:
// PathOutOfRange is returned to the caller for retry with clamped input,
// UseAfterFree is fatal (caller bug), SaveParseFailure rejects a corrupt
// or foreign blob before committing any partial graph.
var (
	// ErrPathOutOfRange is returned when a path step exceeds the tree's
	// height.
	ErrPathOutOfRange = errors.New("dag: path step exceeds tree height")

	// ErrUseAfterFree is returned when an Index names a slot that has
	// been garbage-collected. Indicates a caller bug: every live
	// ExternalPointer should be holding a reference.
	ErrUseAfterFree = errors.New("dag: use of freed index")

	// ErrSaveParseFailure is returned by Load when the blob is malformed,
	// has a leaf-count mismatch, or fails its integrity checksum. No
	// partial graph is ever committed to the store.
	ErrSaveParseFailure = errors.New("dag: save blob failed to parse")
)
