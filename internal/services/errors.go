package services

import "errors"

// Service-level error taxonomy. Handlers map these to HTTP statuses.
// ErrNotFound deliberately covers both "record absent" and "record owned by
// someone else" so callers can never probe for existence of foreign records.
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyInAlbum     = errors.New("photo already in album")
	ErrEmailTaken         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
)
