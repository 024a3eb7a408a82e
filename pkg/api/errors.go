/*
   Copyright 2020 Docker Compose CLI authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound is returned when an object is not found
	ErrNotFound = errors.New("not found")
	// ErrNameConflict is returned when a container name is already in use
	ErrNameConflict = errors.New("name conflict")
	// ErrEngineUnavailable is returned when the container engine can't be reached
	ErrEngineUnavailable = errors.New("container engine unavailable")
	// ErrInvalidState is returned when an operation is not allowed in the current lifecycle state
	ErrInvalidState = errors.New("invalid state")
	// ErrAlreadyRemoved is returned when stopping or removing a container that was already removed
	ErrAlreadyRemoved = errors.New("already removed")
	// ErrNotRunning is returned when a container exited while it was expected to run
	ErrNotRunning = errors.New("not running")
	// ErrLogTimeout is the kind of LogTimeoutError
	ErrLogTimeout = errors.New("log timeout")
	// ErrStreamEnded is the kind of StreamEndedError
	ErrStreamEnded = errors.New("log stream ended")
	// ErrMalformedSnapshot is the kind of MalformedSnapshotError
	ErrMalformedSnapshot = errors.New("malformed process snapshot")
	// ErrParsingFailed is returned when a process listing can't be parsed
	ErrParsingFailed = errors.New("parsing failed")
	// ErrHealthCheckFailed is returned when an HTTP readiness probe never got the expected status
	ErrHealthCheckFailed = errors.New("health check failed")
)

// LogTimeoutError is returned when readiness patterns were not matched
// before the deadline.
type LogTimeoutError struct {
	Pattern string
	Timeout time.Duration
	// Tail holds the last log lines received, oldest first
	Tail []string
}

func (e *LogTimeoutError) Error() string {
	return fmt.Sprintf("timeout after %s waiting for log line matching %s%s", e.Timeout, e.Pattern, formatTail(e.Tail))
}

// Is makes errors.Is(err, ErrLogTimeout) work
func (e *LogTimeoutError) Is(target error) bool {
	return target == ErrLogTimeout
}

// StreamEndedError is returned when the log stream terminated before a match,
// which usually means the container exited.
type StreamEndedError struct {
	Pattern string
	Tail    []string
	// Cause is set when the stream was interrupted by a read error
	Cause error
}

func (e *StreamEndedError) Error() string {
	msg := fmt.Sprintf("log stream ended before a line matching %s was found", e.Pattern)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg + formatTail(e.Tail)
}

// Is makes errors.Is(err, ErrStreamEnded) work
func (e *StreamEndedError) Is(target error) bool {
	return target == ErrStreamEnded
}

func (e *StreamEndedError) Unwrap() error { return e.Cause }

// MalformedSnapshotError is returned when a process listing does not form a
// tree with exactly one root.
type MalformedSnapshotError struct {
	Reason string
	// Roots are the PIDs of the rows without a parent inside the snapshot
	Roots []int
}

func (e *MalformedSnapshotError) Error() string {
	if len(e.Roots) > 0 {
		return fmt.Sprintf("malformed process snapshot: %s (roots: %v)", e.Reason, e.Roots)
	}
	return "malformed process snapshot: " + e.Reason
}

// Is makes errors.Is(err, ErrMalformedSnapshot) work
func (e *MalformedSnapshotError) Is(target error) bool {
	return target == ErrMalformedSnapshot
}

// ExecError is returned when a command executed inside a container exits
// with a non-zero code.
type ExecError struct {
	Command  []string
	ExitCode int
	Stderr   string
}

func (e *ExecError) Error() string {
	msg := fmt.Sprintf("command %q exited with code %d", strings.Join(e.Command, " "), e.ExitCode)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += ": " + s
	}
	return msg
}

func formatTail(tail []string) string {
	if len(tail) == 0 {
		return " (no log output)"
	}
	return fmt.Sprintf("\nlast %d log lines:\n%s", len(tail), strings.Join(tail, "\n"))
}

// IsNotFoundError returns true if the unwrapped error is ErrNotFound
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsNameConflictError returns true if the unwrapped error is ErrNameConflict
func IsNameConflictError(err error) bool {
	return errors.Is(err, ErrNameConflict)
}

// IsEngineUnavailableError returns true if the unwrapped error is ErrEngineUnavailable
func IsEngineUnavailableError(err error) bool {
	return errors.Is(err, ErrEngineUnavailable)
}

// IsLogTimeoutError returns true if the unwrapped error is a LogTimeoutError
func IsLogTimeoutError(err error) bool {
	return errors.Is(err, ErrLogTimeout)
}

// IsStreamEndedError returns true if the unwrapped error is a StreamEndedError
func IsStreamEndedError(err error) bool {
	return errors.Is(err, ErrStreamEnded)
}

// IsMalformedSnapshotError returns true if the unwrapped error is a MalformedSnapshotError
func IsMalformedSnapshotError(err error) bool {
	return errors.Is(err, ErrMalformedSnapshot)
}

// IsHealthCheckError returns true if the unwrapped error is ErrHealthCheckFailed
func IsHealthCheckError(err error) bool {
	return errors.Is(err, ErrHealthCheckFailed)
}
