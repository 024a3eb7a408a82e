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
	"context"
	"io"

	"github.com/containerd/errdefs"
	"github.com/distribution/reference"
	"github.com/docker/docker/api/types/filters"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/jsonmessage"
	"github.com/hashicorp/go-multierror"
	"github.com/jonboulle/clockwork"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/django-bootstrap/harness/internal/tracing"
	"github.com/django-bootstrap/harness/pkg/api"
)

// Orchestrator owns the network and the containers of one test session.
// Containers reach each other on the network by their logical names.
//
// An Orchestrator is driven from a single goroutine; parallel sessions use
// one Orchestrator each, with distinct namespaces.
type Orchestrator struct {
	engine     Engine
	config     Config
	clock      clockwork.Clock
	pullOutput io.Writer

	networkID   string
	networkName string
	handles     []*Handle
	byName      map[string]*Handle
}

type Option func(*Orchestrator)

// WithClock sets the clock readiness timeouts are measured with
func WithClock(clock clockwork.Clock) Option {
	return func(o *Orchestrator) {
		o.clock = clock
	}
}

// WithPullOutput sets where image pull progress is written
func WithPullOutput(w io.Writer) Option {
	return func(o *Orchestrator) {
		o.pullOutput = w
	}
}

func NewOrchestrator(engine Engine, config Config, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		engine:     engine,
		config:     config,
		clock:      clockwork.NewRealClock(),
		pullOutput: io.Discard,
		byName:     map[string]*Handle{},
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Engine() Engine { return o.engine }

func (o *Orchestrator) Config() Config { return o.config }

// Network is the name of the session network, empty before Setup
func (o *Orchestrator) Network() string { return o.networkName }

// Setup checks the engine is reachable and creates the session network.
func (o *Orchestrator) Setup(ctx context.Context) error {
	return tracing.SpanWrapFunc("orchestrator/setup", tracing.NamespaceOptions(o.config.Namespace), func(ctx context.Context) error {
		if o.networkID != "" {
			return errors.Wrapf(api.ErrInvalidState, "network %s already set up", o.networkName)
		}
		if _, err := o.engine.Ping(ctx); err != nil {
			return errors.Wrap(api.ErrEngineUnavailable, err.Error())
		}

		name := o.config.resourceName("default")
		labels := api.ResourceLabels(o.config.Namespace)
		labels[api.NetworkLabel] = "default"
		logrus.Infof("Creating network %s", name)
		resp, err := o.engine.NetworkCreate(ctx, name, network.CreateOptions{
			Driver: o.config.NetworkDriver,
			Labels: labels,
		})
		if err != nil {
			return engineError(err, "failed to create network %s", name)
		}
		if resp.Warning != "" {
			logrus.Warn(resp.Warning)
		}
		o.networkID = resp.ID
		o.networkName = name
		return nil
	})(ctx)
}

// CreateContainer creates a container attached to the session network and
// tracks it until Teardown.
func (o *Orchestrator) CreateContainer(ctx context.Context, def Definition) (*Handle, error) {
	if err := def.validate(); err != nil {
		return nil, err
	}
	if o.networkID == "" {
		return nil, errors.Wrapf(api.ErrInvalidState, "cannot create container %s before setup", def.Name)
	}
	if existing, ok := o.byName[def.Name]; ok && existing.State() != api.StateRemoved {
		return nil, errors.Wrapf(api.ErrNameConflict, "container %s already exists in state %s", def.Name, existing.State())
	}

	h := newHandle(o.engine, o.config, o.networkName, def, o.clock)
	if err := h.Create(ctx); err != nil {
		return nil, err
	}
	o.handles = append(o.handles, h)
	o.byName[def.Name] = h
	return h, nil
}

// Container returns the tracked container with the given logical name.
func (o *Orchestrator) Container(name string) (*Handle, bool) {
	h, ok := o.byName[name]
	return h, ok
}

// Containers returns the tracked containers in creation order.
func (o *Orchestrator) Containers() []*Handle {
	return append([]*Handle(nil), o.handles...)
}

// Teardown removes every tracked container, most recent first, then the
// session network. Resources already gone are skipped. All resources are
// attempted, errors are reported together.
func (o *Orchestrator) Teardown(ctx context.Context) error {
	return tracing.SpanWrapFunc("orchestrator/teardown", tracing.NamespaceOptions(o.config.Namespace), func(ctx context.Context) error {
		var errs *multierror.Error
		var remaining []*Handle
		for i := len(o.handles) - 1; i >= 0; i-- {
			h := o.handles[i]
			if err := o.removeContainer(ctx, h); err != nil {
				errs = multierror.Append(errs, err)
				remaining = append([]*Handle{h}, remaining...)
				continue
			}
			if o.byName[h.Name()] == h {
				delete(o.byName, h.Name())
			}
		}
		o.handles = remaining

		if o.networkID != "" {
			logrus.Infof("Removing network %s", o.networkName)
			err := o.engine.NetworkRemove(ctx, o.networkID)
			switch {
			case err != nil && !errdefs.IsNotFound(err):
				errs = multierror.Append(errs, engineError(err, "failed to remove network %s", o.networkName))
			default:
				if err != nil {
					logrus.Debugf("Network %s is already gone", o.networkName)
				}
				o.networkID = ""
				o.networkName = ""
			}
		}
		return errs.ErrorOrNil()
	})(ctx)
}

func (o *Orchestrator) removeContainer(ctx context.Context, h *Handle) error {
	if h.State() == api.StateRemoved {
		return nil
	}
	if h.State().IsRunning() {
		logrus.Warnf("Container %s is still running", h.FullName())
	}
	err := h.StopAndRemove(ctx, o.config.StopTimeout, true)
	if api.IsNotFoundError(err) {
		logrus.Debugf("Container %s is already gone", h.FullName())
		h.markRemoved()
		return nil
	}
	return err
}

// PullImageIfNotFound pulls ref unless the engine already has it.
func (o *Orchestrator) PullImageIfNotFound(ctx context.Context, ref string) error {
	named, err := reference.ParseNormalizedNamed(ref)
	if err != nil {
		return errors.Wrapf(err, "invalid image reference %q", ref)
	}
	named = reference.TagNameOnly(named)
	familiar := reference.FamiliarString(named)

	images, err := o.engine.ImageList(ctx, image.ListOptions{
		Filters: filters.NewArgs(filters.Arg("reference", familiar)),
	})
	if err != nil {
		return engineError(err, "failed to list images")
	}
	if len(images) > 0 {
		logrus.Debugf("Image %s is present", familiar)
		return nil
	}

	logrus.Infof("Pulling image %s", familiar)
	rc, err := o.engine.ImagePull(ctx, named.String(), image.PullOptions{})
	if err != nil {
		return engineError(err, "failed to pull image %s", familiar)
	}
	defer rc.Close() //nolint:errcheck
	// pull failures are reported inside the progress stream
	if err := jsonmessage.DisplayJSONMessagesStream(rc, o.pullOutput, 0, false, nil); err != nil {
		return errors.Wrapf(err, "failed to pull image %s", familiar)
	}
	return nil
}
