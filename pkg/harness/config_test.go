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
	"testing"
	"time"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"
)

func TestConfigFromEnvDefaults(t *testing.T) {
	for _, name := range []string{EnvNamespace, EnvWaitTimeout, EnvStopTimeout, EnvTailLines} {
		t.Setenv(name, "")
	}
	cfg, err := ConfigFromEnv()
	assert.NilError(t, err)
	assert.DeepEqual(t, cfg, DefaultConfig())
	assert.Equal(t, cfg.WaitTimeout, 30*time.Second)
	assert.Equal(t, cfg.resourceName("web"), "test_web")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv(EnvNamespace, "ci42")
	t.Setenv(EnvWaitTimeout, "90")
	t.Setenv(EnvStopTimeout, "0.5")
	t.Setenv(EnvTailLines, "20")

	cfg, err := ConfigFromEnv()
	assert.NilError(t, err)
	assert.Equal(t, cfg.Namespace, "ci42")
	assert.Equal(t, cfg.WaitTimeout, 90*time.Second)
	assert.Equal(t, cfg.StopTimeout, 500*time.Millisecond)
	assert.Equal(t, cfg.TailLines, 20)
	assert.Equal(t, cfg.resourceName("default"), "ci42_default")
}

func TestConfigFromEnvInvalid(t *testing.T) {
	t.Setenv(EnvWaitTimeout, "soon")
	_, err := ConfigFromEnv()
	assert.Check(t, is.ErrorContains(err, `invalid DEFAULT_WAIT_TIMEOUT "soon"`))

	t.Setenv(EnvWaitTimeout, "")
	t.Setenv(EnvTailLines, "-1")
	_, err = ConfigFromEnv()
	assert.Check(t, is.ErrorContains(err, "expected a positive integer"))
}
