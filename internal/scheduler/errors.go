package scheduler

import "errors"

// Domain errors for the scheduling pipeline. Record lookups that miss
// propagate store.ErrNotFound unchanged.
var (
	// ErrConflict rejects scheduling an input that is already planned or
	// was already published
	ErrConflict = errors.New("input is already scheduled")

	// ErrForbidden guards the terminal state: published posts can neither
	// be deleted, regenerated nor published again
	ErrForbidden = errors.New("post is already published")

	// ErrMissingGeneratedContent rejects publishing a record that skipped
	// generation
	ErrMissingGeneratedContent = errors.New("post has no generated title or content")

	// ErrGenerationFailed wraps collaborator failures; the collaborator's
	// message is preserved in the chain
	ErrGenerationFailed = errors.New("generation failed")

	// ErrEmptyInput rejects a create without a usable input
	ErrEmptyInput = errors.New("input must not be empty")
)
