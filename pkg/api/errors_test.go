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
	"testing"
	"time"

	"github.com/pkg/errors"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestIsNotFound(t *testing.T) {
	err := errors.Wrap(ErrNotFound, `object "name"`)
	assert.Assert(t, IsNotFoundError(err))

	assert.Assert(t, !IsNotFoundError(errors.New("another error")))
}

func TestIsNameConflict(t *testing.T) {
	err := errors.Wrap(ErrNameConflict, `container "test_web"`)
	assert.Assert(t, IsNameConflictError(err))

	assert.Assert(t, !IsNameConflictError(errors.New("another error")))
}

func TestIsEngineUnavailable(t *testing.T) {
	err := errors.Wrap(ErrEngineUnavailable, "ping")
	assert.Assert(t, IsEngineUnavailableError(err))

	assert.Assert(t, !IsEngineUnavailableError(ErrNotFound))
}

func TestLogTimeoutError(t *testing.T) {
	var err error = &LogTimeoutError{
		Pattern: `/ready/`,
		Timeout: time.Second,
		Tail:    []string{"starting..."},
	}
	assert.Assert(t, IsLogTimeoutError(errors.Wrap(err, "web")))
	assert.Assert(t, !IsStreamEndedError(err))
	assert.Assert(t, is.Contains(err.Error(), "starting..."))
	assert.Assert(t, is.Contains(err.Error(), "timeout after 1s"))

	var timeout *LogTimeoutError
	assert.Assert(t, errors.As(errors.Wrap(err, "web"), &timeout))
	assert.DeepEqual(t, timeout.Tail, []string{"starting..."})
}

func TestStreamEndedError(t *testing.T) {
	cause := errors.New("connection reset")
	var err error = &StreamEndedError{Pattern: `/ready/`, Cause: cause}
	assert.Assert(t, IsStreamEndedError(err))
	assert.Assert(t, !IsLogTimeoutError(err))
	assert.Assert(t, errors.Is(err, cause))
	assert.Assert(t, is.Contains(err.Error(), "no log output"))
}

func TestMalformedSnapshotError(t *testing.T) {
	var err error = &MalformedSnapshotError{Reason: "2 root processes", Roots: []int{1, 7}}
	assert.Assert(t, IsMalformedSnapshotError(errors.Wrap(err, "web")))
	assert.Equal(t, err.Error(), "malformed process snapshot: 2 root processes (roots: [1 7])")
}

func TestExecError(t *testing.T) {
	err := &ExecError{Command: []string{"find", "/app"}, ExitCode: 1, Stderr: "permission denied\n"}
	assert.Equal(t, err.Error(), `command "find /app" exited with code 1: permission denied`)
}
