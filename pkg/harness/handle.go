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
	"bytes"
	"context"
	"io"
	"strings"
	"time"

	"github.com/containerd/platforms"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/mount"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	"github.com/docker/go-connections/nat"
	"github.com/jonboulle/clockwork"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/django-bootstrap/harness/internal/tracing"
	"github.com/django-bootstrap/harness/pkg/api"
	"github.com/django-bootstrap/harness/pkg/logs"
	"github.com/django-bootstrap/harness/pkg/ps"
	"github.com/django-bootstrap/harness/pkg/utils"
)

// Definition describes a container before it is created.
type Definition struct {
	// Name is the logical name, also used as network alias
	Name string
	Spec api.ContainerSpec
	// Readiness decides when a started container is ready. Use NoWait()
	// to opt out explicitly.
	Readiness Readiness
	// WaitTimeout overrides Config.WaitTimeout when positive
	WaitTimeout time.Duration
}

func (d Definition) validate() error {
	switch {
	case d.Name == "":
		return errors.New("container definition has no name")
	case d.Spec.Image == "":
		return errors.Errorf("container definition %q has no image", d.Name)
	case d.Readiness == nil:
		return errors.Errorf("container definition %q has no readiness strategy, use NoWait() to opt out", d.Name)
	}
	return nil
}

// Handle tracks one container through its lifecycle:
// Defined, Created, Started, Ready or Failed, Stopped, Removed.
//
// A Handle is not safe for concurrent use.
type Handle struct {
	engine    Engine
	clock     clockwork.Clock
	waiter    *logs.Waiter
	name      string
	fullName  string
	network   string
	spec      api.ContainerSpec
	labels    map[string]string
	readiness Readiness
	timeout   time.Duration

	id        string
	state     api.State
	readyLine string
}

func newHandle(engine Engine, cfg Config, networkName string, def Definition, clock clockwork.Clock) *Handle {
	timeout := cfg.WaitTimeout
	if def.WaitTimeout > 0 {
		timeout = def.WaitTimeout
	}
	labels := map[string]string{}
	for k, v := range def.Spec.Labels {
		labels[k] = v
	}
	for k, v := range api.ResourceLabels(cfg.Namespace) {
		labels[k] = v
	}
	labels[api.ContainerLabel] = def.Name

	return &Handle{
		engine:    engine,
		clock:     clock,
		waiter:    newWaiter(cfg, clock, def.Spec.Tty),
		name:      def.Name,
		fullName:  cfg.resourceName(def.Name),
		network:   networkName,
		spec:      def.Spec.Copy(),
		labels:    labels,
		readiness: def.Readiness,
		timeout:   timeout,
		state:     api.StateDefined,
	}
}

// Attach returns a handle for an existing container, for instance one left
// running by a previous session. The handle is not tracked by any
// orchestrator.
func Attach(ctx context.Context, engine Engine, cfg Config, nameOrID string, readiness Readiness) (*Handle, error) {
	info, err := engine.ContainerInspect(ctx, nameOrID)
	if err != nil {
		return nil, engineError(err, "failed to inspect container %s", nameOrID)
	}
	if info.ContainerJSONBase == nil {
		return nil, errors.Wrapf(api.ErrNotFound, "container %s", nameOrID)
	}
	if readiness == nil {
		readiness = NoWait()
	}
	clock := clockwork.NewRealClock()
	h := &Handle{
		engine:    engine,
		clock:     clock,
		name:      strings.TrimPrefix(info.Name, "/"),
		fullName:  strings.TrimPrefix(info.Name, "/"),
		readiness: readiness,
		timeout:   cfg.WaitTimeout,
		id:        info.ID,
		state:     api.StateStopped,
	}
	if info.Config != nil {
		h.spec = api.ContainerSpec{Image: info.Config.Image, User: info.Config.User, Tty: info.Config.Tty}
		h.labels = info.Config.Labels
		if name, ok := info.Config.Labels[api.ContainerLabel]; ok {
			h.name = name
		}
	}
	h.waiter = newWaiter(cfg, clock, h.spec.Tty)
	if info.State != nil && info.State.Running {
		h.state = api.StateStarted
	}
	return h, nil
}

func newWaiter(cfg Config, clock clockwork.Clock, tty bool) *logs.Waiter {
	opts := []logs.WaiterOption{logs.WithClock(clock), logs.WithTailLines(cfg.TailLines)}
	if tty {
		opts = append(opts, logs.WithoutANSI())
	}
	return logs.NewWaiter(opts...)
}

// Name is the logical name of the container
func (h *Handle) Name() string { return h.name }

// FullName is the name registered with the engine
func (h *Handle) FullName() string { return h.fullName }

// ID is the engine id, empty until the container is created
func (h *Handle) ID() string { return h.id }

func (h *Handle) State() api.State { return h.state }

// Spec returns a copy of the spec the container was defined with
func (h *Handle) Spec() api.ContainerSpec { return h.spec.Copy() }

// ReadyLine is the log line that made the container ready
func (h *Handle) ReadyLine() string { return h.readyLine }

func (h *Handle) WaitTimeout() time.Duration { return h.timeout }

func (h *Handle) invalidState(op string) error {
	return errors.Wrapf(api.ErrInvalidState, "cannot %s container %s in state %s", op, h.fullName, h.state)
}

func (h *Handle) spanOptions() tracing.SpanOptions {
	return tracing.ContainerOptions(h.fullName, h.spec.Image)
}

// Create asks the engine to create the container, attached to the
// orchestrator network under its logical name.
func (h *Handle) Create(ctx context.Context) error {
	return tracing.SpanWrapFunc("container/create", h.spanOptions(), func(ctx context.Context) error {
		if h.state != api.StateDefined {
			return h.invalidState("create")
		}
		config, hostConfig, networkConfig, err := h.engineConfig()
		if err != nil {
			return err
		}
		platform, err := h.platform()
		if err != nil {
			return err
		}
		logrus.Infof("Creating container %s", h.fullName)
		resp, err := h.engine.ContainerCreate(ctx, config, hostConfig, networkConfig, platform, h.fullName)
		if err != nil {
			return engineError(err, "failed to create container %s", h.fullName)
		}
		for _, warning := range resp.Warnings {
			logrus.Warn(warning)
		}
		h.id = resp.ID
		h.state = api.StateCreated
		return nil
	})(ctx)
}

func (h *Handle) engineConfig() (*container.Config, *container.HostConfig, *network.NetworkingConfig, error) {
	exposed, bindings, err := nat.ParsePortSpecs(h.spec.Ports)
	if err != nil {
		return nil, nil, nil, errors.Wrapf(err, "invalid port specification for container %s", h.name)
	}

	config := &container.Config{
		Image:        h.spec.Image,
		Env:          h.spec.EnvList(),
		User:         h.spec.User,
		Labels:       h.labels,
		ExposedPorts: exposed,
		Tty:          h.spec.Tty,
	}
	if len(h.spec.Command) > 0 {
		config.Cmd = h.spec.Command
	}

	hostConfig := &container.HostConfig{
		PortBindings: bindings,
		Tmpfs:        h.spec.Tmpfs,
	}
	for _, m := range h.spec.Mounts {
		hostConfig.Mounts = append(hostConfig.Mounts, mount.Mount{
			Type:     mount.Type(m.Type),
			Source:   m.Source,
			Target:   m.Target,
			ReadOnly: m.ReadOnly,
		})
	}

	var networkConfig *network.NetworkingConfig
	if h.network != "" {
		hostConfig.NetworkMode = container.NetworkMode(h.network)
		networkConfig = &network.NetworkingConfig{
			EndpointsConfig: map[string]*network.EndpointSettings{
				h.network: {Aliases: append([]string{h.name}, h.spec.Aliases...)},
			},
		}
	}
	return config, hostConfig, networkConfig, nil
}

func (h *Handle) platform() (*ocispec.Platform, error) {
	if h.spec.Platform == "" {
		return nil, nil
	}
	p, err := platforms.Parse(h.spec.Platform)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid platform for container %s", h.name)
	}
	return &p, nil
}

// Start starts the container then waits for it to be ready, returning the
// log line that matched. A container failing readiness is left running
// so it can be inspected.
func (h *Handle) Start(ctx context.Context) (string, error) {
	err := tracing.SpanWrapFunc("container/start", h.spanOptions(), func(ctx context.Context) error {
		if h.state != api.StateCreated {
			return h.invalidState("start")
		}
		logrus.Infof("Starting container %s", h.fullName)
		if err := h.engine.ContainerStart(ctx, h.id, container.StartOptions{}); err != nil {
			return engineError(err, "failed to start container %s", h.fullName)
		}
		h.state = api.StateStarted
		return nil
	})(ctx)
	if err != nil {
		return "", err
	}
	return h.WaitReady(ctx, h.timeout)
}

// WaitReady runs the readiness strategy against the running container.
func (h *Handle) WaitReady(ctx context.Context, timeout time.Duration) (string, error) {
	var line string
	err := tracing.SpanWrapFunc("container/wait", h.spanOptions(), func(ctx context.Context) error {
		switch h.state {
		case api.StateReady:
			line = h.readyLine
			return nil
		case api.StateStarted, api.StateFailed:
		default:
			return h.invalidState("wait for")
		}

		logrus.Debugf("Waiting up to %s for container %s: %s", timeout, h.fullName, h.readiness)
		matched, err := h.readiness.Await(ctx, h, timeout)
		if err != nil {
			h.state = api.StateFailed
			return errors.Wrapf(err, "container %s is not ready", h.fullName)
		}
		if _, optOut := h.readiness.(noWait); !optOut {
			if err := h.checkRunning(ctx); err != nil {
				h.state = api.StateFailed
				return err
			}
		}
		h.state = api.StateReady
		h.readyLine = matched
		line = matched
		logrus.Infof("Container %s is ready", h.fullName)
		return nil
	})(ctx)
	return line, err
}

func (h *Handle) checkRunning(ctx context.Context) error {
	info, err := h.engine.ContainerInspect(ctx, h.id)
	if err != nil {
		return engineError(err, "failed to inspect container %s", h.fullName)
	}
	if info.ContainerJSONBase == nil || info.State == nil {
		return errors.Wrapf(api.ErrNotRunning, "container %s has no state", h.fullName)
	}
	if !info.State.Running {
		return errors.Wrapf(api.ErrNotRunning, "container %s is %s (exit code %d)", h.fullName, info.State.Status, info.State.ExitCode)
	}
	return nil
}

// LogSource opens the live combined output of the container.
func (h *Handle) LogSource() logs.Source {
	return logs.Source{
		Name:        h.fullName,
		Multiplexed: !h.spec.Tty,
		Open: func(ctx context.Context) (io.ReadCloser, error) {
			return h.engine.ContainerLogs(ctx, h.id, container.LogsOptions{
				ShowStdout: true,
				ShowStderr: true,
				Follow:     true,
			})
		},
	}
}

// WaitForLog scans the container output, from its beginning, until m
// matches or timeout expires.
func (h *Handle) WaitForLog(ctx context.Context, m logs.Matcher, timeout time.Duration) (string, error) {
	if !h.state.IsRunning() {
		return "", h.invalidState("read logs of")
	}
	return h.waiter.Wait(ctx, h.LogSource(), m, timeout)
}

// Exec runs argv inside the container and returns its standard output. A
// non-zero exit code is reported as *api.ExecError.
func (h *Handle) Exec(ctx context.Context, argv []string, user string) ([]byte, error) {
	if !h.state.IsRunning() {
		return nil, h.invalidState("exec in")
	}
	exec, err := h.engine.ContainerExecCreate(ctx, h.id, container.ExecOptions{
		User:         user,
		AttachStdout: true,
		AttachStderr: true,
		Cmd:          argv,
	})
	if err != nil {
		return nil, engineError(err, "failed to create exec in container %s", h.fullName)
	}
	resp, err := h.engine.ContainerExecAttach(ctx, exec.ID, container.ExecAttachOptions{})
	if err != nil {
		return nil, engineError(err, "failed to attach to exec in container %s", h.fullName)
	}
	defer resp.Close()

	var stdout, stderr bytes.Buffer
	if _, err := stdcopy.StdCopy(&stdout, &stderr, resp.Reader); err != nil {
		return nil, errors.Wrapf(err, "failed to read output of %q", strings.Join(argv, " "))
	}
	inspect, err := h.engine.ContainerExecInspect(ctx, exec.ID)
	if err != nil {
		return nil, engineError(err, "failed to inspect exec in container %s", h.fullName)
	}
	if inspect.ExitCode != 0 {
		return stdout.Bytes(), &api.ExecError{Command: argv, ExitCode: inspect.ExitCode, Stderr: stderr.String()}
	}
	return stdout.Bytes(), nil
}

// ListProcesses returns the processes running in the container, without
// the listing command itself.
func (h *Handle) ListProcesses(ctx context.Context) ([]ps.Row, error) {
	if h.state != api.StateStarted && h.state != api.StateReady {
		return nil, h.invalidState("list processes of")
	}
	cmd := ps.ListCommand()
	out, err := h.Exec(ctx, cmd, "")
	if err != nil {
		return nil, err
	}
	rows, err := ps.ParseTable(string(out))
	if err != nil {
		return nil, errors.Wrapf(err, "container %s", h.fullName)
	}
	self := strings.Join(cmd, " ")
	return ps.Filter(rows, func(r ps.Row) bool {
		return r.Args != self
	}), nil
}

// ProcessTree builds the process tree of the container from the rows keep
// accepts. A nil keep keeps every row.
func (h *Handle) ProcessTree(ctx context.Context, keep func(ps.Row) bool) (*ps.Node, error) {
	rows, err := h.ListProcesses(ctx)
	if err != nil {
		return nil, err
	}
	return ps.BuildTree(ps.Filter(rows, keep))
}

func (h *Handle) Inspect(ctx context.Context) (container.InspectResponse, error) {
	if h.id == "" {
		return container.InspectResponse{}, h.invalidState("inspect")
	}
	info, err := h.engine.ContainerInspect(ctx, h.id)
	if err != nil {
		return info, engineError(err, "failed to inspect container %s", h.fullName)
	}
	return info, nil
}

// HostBinding returns the index-th host binding of a published container
// port, given as "8000/tcp" or "8000".
func (h *Handle) HostBinding(ctx context.Context, containerPort string, index int) (nat.PortBinding, error) {
	proto, number := nat.SplitProtoPort(containerPort)
	port, err := nat.NewPort(proto, number)
	if err != nil {
		return nat.PortBinding{}, errors.Wrapf(err, "invalid container port %q", containerPort)
	}
	info, err := h.Inspect(ctx)
	if err != nil {
		return nat.PortBinding{}, err
	}
	var bindings []nat.PortBinding
	if info.NetworkSettings != nil {
		bindings = info.NetworkSettings.Ports[port]
	}
	if index < 0 || index >= len(bindings) {
		return nat.PortBinding{}, errors.Wrapf(api.ErrNotFound, "container %s has no host binding #%d for port %s", h.fullName, index, port)
	}
	return bindings[index], nil
}

// HostPort returns the host port of the index-th binding of containerPort.
func (h *Handle) HostPort(ctx context.Context, containerPort string, index int) (string, error) {
	binding, err := h.HostBinding(ctx, containerPort, index)
	if err != nil {
		return "", err
	}
	return binding.HostPort, nil
}

// StopAndRemove stops the container, killing it once stopTimeout expired,
// and removes it.
func (h *Handle) StopAndRemove(ctx context.Context, stopTimeout time.Duration, force bool) error {
	return tracing.SpanWrapFunc("container/remove", h.spanOptions(), func(ctx context.Context) error {
		switch {
		case h.state == api.StateRemoved:
			return errors.Wrapf(api.ErrAlreadyRemoved, "container %s", h.fullName)
		case h.state == api.StateDefined:
			return h.invalidState("remove")
		case h.state.IsRunning():
			logrus.Infof("Stopping container %s", h.fullName)
			err := h.engine.ContainerStop(ctx, h.id, container.StopOptions{
				Timeout: utils.DurationSecondToInt(&stopTimeout),
			})
			if err != nil {
				return engineError(err, "failed to stop container %s", h.fullName)
			}
			h.state = api.StateStopped
		}

		logrus.Infof("Removing container %s", h.fullName)
		err := h.engine.ContainerRemove(ctx, h.id, container.RemoveOptions{
			Force:         force,
			RemoveVolumes: true,
		})
		if err != nil {
			return engineError(err, "failed to remove container %s", h.fullName)
		}
		h.state = api.StateRemoved
		return nil
	})(ctx)
}

// markRemoved records that the engine no longer knows the container.
func (h *Handle) markRemoved() {
	h.state = api.StateRemoved
}
