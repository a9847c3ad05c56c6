package pool

import "errors"

var (
	ErrPoolIsNil       = errors.New("buffer pool is not initialised")
	ErrPoolReturnedNil = errors.New("buffer pool has no allocator and handed out nil")
	// The pool was shared with code storing another type
	ErrPoolWrongType = errors.New("buffer pool handed out a value of the wrong type")
)
