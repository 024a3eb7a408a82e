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
	"maps"
	"slices"
	"sort"
)

// MountType is the kind of storage mounted into a container
type MountType string

const (
	// MountTypeBind mounts a host path
	MountTypeBind MountType = "bind"
	// MountTypeVolume mounts a named volume
	MountTypeVolume MountType = "volume"
)

// Mount describes a bind or volume mount
type Mount struct {
	Type     MountType
	Source   string
	Target   string
	ReadOnly bool
}

// ContainerSpec holds the parameters a container is created from.
type ContainerSpec struct {
	// Image is the image reference to run
	Image string
	// Command overrides the image CMD when not empty
	Command []string
	// Env is the container environment, keys are unique
	Env map[string]string
	// Ports are publish requests using the `docker run -p` syntax,
	// e.g. "127.0.0.1::8000/tcp"
	Ports []string
	// Mounts are bind or volume mounts
	Mounts []Mount
	// Tmpfs maps a container path to tmpfs mount options, e.g. "/app/media": "uid=0"
	Tmpfs map[string]string
	// Aliases are extra network aliases, in addition to the logical name
	Aliases []string
	// User runs the container process as the given user
	User string
	// Platform selects the image variant, e.g. "linux/amd64"
	Platform string
	Labels   map[string]string
	Tty      bool
}

// Copy returns a deep copy of the spec
func (s ContainerSpec) Copy() ContainerSpec {
	c := s
	c.Command = slices.Clone(s.Command)
	c.Env = maps.Clone(s.Env)
	c.Ports = slices.Clone(s.Ports)
	c.Mounts = slices.Clone(s.Mounts)
	c.Tmpfs = maps.Clone(s.Tmpfs)
	c.Aliases = slices.Clone(s.Aliases)
	c.Labels = maps.Clone(s.Labels)
	return c
}

// EnvList returns the environment as a sorted KEY=value list
func (s ContainerSpec) EnvList() []string {
	if len(s.Env) == 0 {
		return nil
	}
	env := make([]string, 0, len(s.Env))
	for k, v := range s.Env {
		env = append(env, k+"="+v)
	}
	sort.Strings(env)
	return env
}

// State is the lifecycle state of a container handle
type State int

const (
	// StateDefined handle exists but no engine resource was created yet
	StateDefined State = iota
	// StateCreated the engine created the container
	StateCreated
	// StateStarted the container was started, readiness is unknown
	StateStarted
	// StateReady the readiness strategy succeeded
	StateReady
	// StateFailed the readiness strategy failed, the container may still be running
	StateFailed
	// StateStopped the container was stopped but could not be removed
	StateStopped
	// StateRemoved the container is gone, the handle can't be used anymore
	StateRemoved
)

func (s State) String() string {
	switch s {
	case StateDefined:
		return "defined"
	case StateCreated:
		return "created"
	case StateStarted:
		return "started"
	case StateReady:
		return "ready"
	case StateFailed:
		return "failed"
	case StateStopped:
		return "stopped"
	case StateRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// IsRunning returns true when the container is expected to be running
func (s State) IsRunning() bool {
	return s == StateStarted || s == StateReady || s == StateFailed
}
