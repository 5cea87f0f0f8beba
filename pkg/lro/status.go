package lro

import (
	"fmt"
	"strings"
)

// Status is the provider-reported state of an asynchronous operation.
// The zero value means the provider did not report a status yet.
type Status string

const (
	StatusNone       Status = ""
	StatusSucceeded  Status = "Succeeded"
	StatusFailed     Status = "Failed"
	StatusInProgress Status = "InProgress"
	StatusCanceled   Status = "Canceled"
	StatusInvalid    Status = "Invalid"
)

// ParseStatus normalizes a provider status string. Values outside the known
// set are kept verbatim and report Known() == false.
func ParseStatus(s string) Status {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return StatusNone
	case "succeeded":
		return StatusSucceeded
	case "failed":
		return StatusFailed
	case "inprogress":
		return StatusInProgress
	case "canceled", "cancelled":
		return StatusCanceled
	case "invalid":
		return StatusInvalid
	}
	return Status(s)
}

func (s Status) Known() bool {
	switch s {
	case StatusNone, StatusSucceeded, StatusFailed, StatusInProgress, StatusCanceled, StatusInvalid:
		return true
	}
	return false
}

// IsTerminal reports whether polling should stop. Unrecognized values are
// terminal so an unexpected provider vocabulary cannot poll forever.
func (s Status) IsTerminal() bool {
	switch s {
	case StatusNone, StatusInProgress:
		return false
	}
	return true
}

func (s Status) Succeeded() bool {
	return s == StatusSucceeded
}

// Err returns nil for Succeeded and non-terminal values, and a descriptive
// error for every terminal failure.
func (s Status) Err() error {
	switch {
	case !s.IsTerminal(), s == StatusSucceeded:
		return nil
	case !s.Known():
		return fmt.Errorf("%w: %q", ErrUnrecognizedStatus, string(s))
	}
	return fmt.Errorf("operation finished with status %s", s)
}

func (s Status) String() string {
	if s == StatusNone {
		return "None"
	}
	if !s.Known() {
		return fmt.Sprintf("Unknown(%s)", string(s))
	}
	return string(s)
}
