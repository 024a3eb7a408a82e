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
	"os"
	"strconv"
	"time"

	"github.com/pkg/errors"

	"github.com/django-bootstrap/harness/pkg/logs"
)

const (
	// EnvNamespace overrides the prefix of container and network names
	EnvNamespace = "HARNESS_NAMESPACE"
	// EnvWaitTimeout is the readiness timeout in seconds
	EnvWaitTimeout = "DEFAULT_WAIT_TIMEOUT"
	// EnvStopTimeout is the grace period in seconds before a stopped container is killed
	EnvStopTimeout = "HARNESS_STOP_TIMEOUT"
	// EnvTailLines is the number of log lines kept for diagnostics
	EnvTailLines = "HARNESS_TAIL_LINES"
)

const (
	DefaultNamespace     = "test"
	DefaultWaitTimeout   = 30 * time.Second
	DefaultStopTimeout   = 5 * time.Second
	DefaultNetworkDriver = "bridge"
)

// Config holds the settings shared by all the containers of an orchestrator.
type Config struct {
	// Namespace prefixes every engine resource, "<namespace>_<name>"
	Namespace string
	// WaitTimeout applies to definitions that don't set their own
	WaitTimeout time.Duration
	StopTimeout time.Duration
	// TailLines bounds the log lines attached to readiness errors
	TailLines     int
	NetworkDriver string
}

func DefaultConfig() Config {
	return Config{
		Namespace:     DefaultNamespace,
		WaitTimeout:   DefaultWaitTimeout,
		StopTimeout:   DefaultStopTimeout,
		TailLines:     logs.DefaultTailLines,
		NetworkDriver: DefaultNetworkDriver,
	}
}

// ConfigFromEnv returns the default configuration overridden by the
// environment.
func ConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()
	if ns, ok := os.LookupEnv(EnvNamespace); ok && ns != "" {
		cfg.Namespace = ns
	}
	var err error
	if cfg.WaitTimeout, err = secondsFromEnv(EnvWaitTimeout, cfg.WaitTimeout); err != nil {
		return cfg, err
	}
	if cfg.StopTimeout, err = secondsFromEnv(EnvStopTimeout, cfg.StopTimeout); err != nil {
		return cfg, err
	}
	if v, ok := os.LookupEnv(EnvTailLines); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return cfg, errors.Errorf("invalid %s %q: expected a positive integer", EnvTailLines, v)
		}
		cfg.TailLines = n
	}
	return cfg, nil
}

func secondsFromEnv(name string, def time.Duration) (time.Duration, error) {
	v, ok := os.LookupEnv(name)
	if !ok || v == "" {
		return def, nil
	}
	seconds, err := strconv.ParseFloat(v, 64)
	if err != nil || seconds < 0 {
		return def, errors.Errorf("invalid %s %q: expected a number of seconds", name, v)
	}
	return time.Duration(seconds * float64(time.Second)), nil
}

// resourceName is the engine name of a namespaced resource.
func (c Config) resourceName(name string) string {
	return c.Namespace + "_" + name
}
