package service

import "errors"

var (
	ErrNotFound          = errors.New("player not found")
	ErrSyncFailure       = errors.New("sync failure")
	ErrVersionConflict   = errors.New("player was changed by another writer")
	ErrIdentityCollision = errors.New("email collides with an existing player key")
	ErrUnbound           = errors.New("session is not bound")
	ErrAlreadyBound      = errors.New("session is already bound")
)
