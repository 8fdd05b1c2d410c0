package errs

import (
	"errors"
)

var (
	// ErrInvalidURL indicates that the input is not a DoodStream video URL.
	ErrInvalidURL = errors.New("invalid doodstream url")
	// ErrTokenNotFound indicates that the pass_md5 path could not be located on the embed page.
	ErrTokenNotFound = errors.New("pass_md5 token not found")
	// ErrVideoUnavailable indicates that the requested video cannot be accessed.
	ErrVideoUnavailable = errors.New("video unavailable")
	// ErrRateLimited indicates throttling or rate limiting by the remote service.
	ErrRateLimited = errors.New("rate limited")
	// ErrEmptyDownload indicates a completed download that produced no data.
	ErrEmptyDownload = errors.New("empty download: 0 bytes written")
)
