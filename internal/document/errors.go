package document

import "errors"

// Errors returned by document operations.
var (
	// ErrReadOnly indicates an update was attempted on a non-editable document.
	ErrReadOnly = errors.New("document is read-only")

	// ErrNothingToUndo indicates the undo stack is empty.
	ErrNothingToUndo = errors.New("nothing to undo")

	// ErrNothingToRedo indicates the redo stack is empty.
	ErrNothingToRedo = errors.New("nothing to redo")

	// ErrNodeNotFound indicates no block has the requested key.
	ErrNodeNotFound = errors.New("node not found")

	// ErrIndexOutOfRange indicates an insert position outside the block list.
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrInvalidJSON indicates serialized state that cannot be parsed.
	ErrInvalidJSON = errors.New("invalid document json")

	// ErrUnknownNodeType indicates a node type the document does not support.
	ErrUnknownNodeType = errors.New("unknown node type")
)
