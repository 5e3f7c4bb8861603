package ogdch

import "errors"

// ErrMissingTranslation indicates that no label was found for locale/key.
var ErrMissingTranslation = errors.New("ogdch: missing translation")

// ErrNotFound is returned by action clients when the catalog has no such object.
var ErrNotFound = errors.New("ogdch: not found")

// ErrNotAuthorized is returned by action clients when access is denied.
var ErrNotAuthorized = errors.New("ogdch: not authorized")

// ErrValidation is returned by action clients when the catalog rejects the input.
var ErrValidation = errors.New("ogdch: validation error")

// ErrInvalidURI marks URIs that cannot be turned into IRIs.
var ErrInvalidURI = errors.New("ogdch: invalid uri")
