package services

import "errors"

// ErrUnauthorized marks a session token that is unknown, expired, or
// orphaned. The auth middleware turns it into a 401 response.
var ErrUnauthorized = errors.New("unauthorized")
