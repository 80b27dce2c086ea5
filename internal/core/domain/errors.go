package domain

import "errors"

var ErrMalformedToken = errors.New("malformed session token")
var ErrSessionNotFound = errors.New("session not found")
var ErrSessionRevoked = errors.New("session revoked by backend")
var ErrPermissionSource = errors.New("permission source unavailable")
var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")
