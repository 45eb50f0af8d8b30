package domain

import "errors"

// Sentinel errors for search and action operations
var (
	// ErrInvalidPage indicates a page number below 1
	ErrInvalidPage = errors.New("page must be >= 1")

	// ErrUnauthorized indicates the access key was rejected
	ErrUnauthorized = errors.New("access key is invalid")

	// ErrRateLimited indicates the upstream API refused the request due to quota
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrUpstream indicates a non-2xx response from the search API
	ErrUpstream = errors.New("search API returned an error")

	// ErrMalformedResponse indicates the response body could not be decoded
	ErrMalformedResponse = errors.New("malformed search response")

	// ErrPermissionDenied indicates the storage permission was not granted
	ErrPermissionDenied = errors.New("storage permission denied")

	// ErrUnsupportedTarget indicates a share target with no handler
	ErrUnsupportedTarget = errors.New("unsupported share target")
)
