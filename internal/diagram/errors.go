package diagram

import "errors"

var (
	ErrUnknownBox          = errors.New("unknown box")
	ErrUnknownConnection   = errors.New("unknown connection")
	ErrSelfLoop            = errors.New("connection must join two different boxes")
	ErrDuplicateConnection = errors.New("connection already exists")
	ErrStaleTarget         = errors.New("box is no longer being edited")
	ErrNothingToUndo       = errors.New("nothing to undo")
	ErrNothingToRedo       = errors.New("nothing to redo")
	ErrClipboardEmpty      = errors.New("nothing copied")
	ErrInvalidDocument     = errors.New("document is not valid JSON")
)
