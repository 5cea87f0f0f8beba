package lro

import (
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	HeaderAsyncOperation = "Azure-AsyncOperation"
	HeaderLocation       = "Location"
	HeaderRetryAfter     = "Retry-After"

	// DefaultRetryAfter is used when the provider does not say how long to wait.
	DefaultRetryAfter = 60 * time.Second
)

// Handle addresses an accepted asynchronous request.
type Handle struct {
	ID         string
	PollURL    *url.URL
	RetryAfter time.Duration
}

// Submission is the part of a response to an asynchronous request the
// engine needs: the status code and headers.
type Submission struct {
	StatusCode int
	Header     http.Header
}

// Locate extracts the operation handle from the headers of a submission
// response. Azure-AsyncOperation wins over Location when both are present.
func Locate(h http.Header) (Handle, error) {
	name := HeaderAsyncOperation
	value := headerValue(h, HeaderAsyncOperation)
	if value == "" {
		name = HeaderLocation
		value = headerValue(h, HeaderLocation)
	}
	if value == "" {
		return Handle{}, ErrMissingOperationHandle
	}

	u, err := url.Parse(value)
	if err == nil && (u.Scheme == "" || u.Host == "") {
		err = errNotAbsolute
	}
	if err != nil {
		return Handle{}, &HandleError{Kind: ErrMalformedOperationHandle, Header: name, Value: value, Err: err}
	}

	id := lastSegment(u.Path)
	if id == "" {
		return Handle{}, &HandleError{Kind: ErrInvalidOperationHandle, Header: name, Value: value}
	}

	return Handle{
		ID:         id,
		PollURL:    u,
		RetryAfter: RetryAfter(h),
	}, nil
}

// RetryAfter reads the Retry-After header as whole seconds, falling back to
// DefaultRetryAfter when it is absent, negative or not an integer.
func RetryAfter(h http.Header) time.Duration {
	v := strings.TrimSpace(headerValue(h, HeaderRetryAfter))
	if v == "" {
		return DefaultRetryAfter
	}
	secs, err := strconv.ParseInt(v, 10, 64)
	if err != nil || secs < 0 {
		return DefaultRetryAfter
	}
	return time.Duration(secs) * time.Second
}

var errNotAbsolute = errors.New("url is not absolute")

func lastSegment(path string) string {
	i := strings.LastIndex(path, "/")
	if i < 0 {
		return path
	}
	return path[i+1:]
}

// headerValue looks a header up case-insensitively. http.Header.Get only
// matches canonical keys, so maps built by hand are scanned as well.
func headerValue(h http.Header, name string) string {
	if h == nil {
		return ""
	}
	if v := h.Get(name); v != "" {
		return v
	}
	for k, vs := range h {
		if strings.EqualFold(k, name) && len(vs) > 0 {
			return vs[0]
		}
	}
	return ""
}
