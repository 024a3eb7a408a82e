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

package harness

import (
	"errors"
	"testing"

	"github.com/containerd/errdefs"
	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/django-bootstrap/harness/pkg/api"
)

func TestEngineError(t *testing.T) {
	assert.NilError(t, engineError(nil, "nothing"))

	err := engineError(errdefs.ErrNotFound, "failed to stop container %s", "test_web")
	assert.Assert(t, api.IsNotFoundError(err))
	assert.Check(t, is.ErrorContains(err, "failed to stop container test_web"))

	err = engineError(errdefs.ErrConflict, "failed to create container %s", "test_web")
	assert.Assert(t, api.IsNameConflictError(err))

	boom := errors.New("boom")
	err = engineError(boom, "failed to start container %s", "test_web")
	assert.Assert(t, errors.Is(err, boom))
	assert.Equal(t, err.Error(), "failed to start container test_web: boom")
}
