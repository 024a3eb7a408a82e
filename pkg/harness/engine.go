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
	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/image"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/client"
	ocispec "github.com/opencontainers/image-spec/specs-go/v1"
	"github.com/pkg/errors"

	"github.com/django-bootstrap/harness/pkg/api"
)

//go:generate mockgen -destination=../mocks/mock_engine.go -package=mocks github.com/django-bootstrap/harness/pkg/harness Engine

// Engine is the subset of the Docker engine API the harness relies on.
type Engine interface {
	ContainerCreate(ctx context.Context, config *container.Config, hostConfig *container.HostConfig, networkingConfig *network.NetworkingConfig, platform *ocispec.Platform, containerName string) (container.CreateResponse, error)
	ContainerStart(ctx context.Context, containerID string, options container.StartOptions) error
	ContainerStop(ctx context.Context, containerID string, options container.StopOptions) error
	ContainerRemove(ctx context.Context, containerID string, options container.RemoveOptions) error
	ContainerInspect(ctx context.Context, containerID string) (container.InspectResponse, error)
	ContainerLogs(ctx context.Context, containerID string, options container.LogsOptions) (io.ReadCloser, error)
	ContainerExecCreate(ctx context.Context, containerID string, options container.ExecOptions) (container.ExecCreateResponse, error)
	ContainerExecAttach(ctx context.Context, execID string, options container.ExecAttachOptions) (types.HijackedResponse, error)
	ContainerExecInspect(ctx context.Context, execID string) (container.ExecInspect, error)
	NetworkCreate(ctx context.Context, name string, options network.CreateOptions) (network.CreateResponse, error)
	NetworkRemove(ctx context.Context, networkID string) error
	ImageList(ctx context.Context, options image.ListOptions) ([]image.Summary, error)
	ImagePull(ctx context.Context, ref string, options image.PullOptions) (io.ReadCloser, error)
	Ping(ctx context.Context) (types.Ping, error)
	Close() error
}

var _ Engine = (*client.Client)(nil)

// NewEngineFromEnv connects to the engine configured by DOCKER_HOST and
// friends, negotiating the API version with the daemon.
func NewEngineFromEnv() (*client.Client, error) {
	cli, err := client.NewClientWithOpts(client.FromEnv, client.WithAPIVersionNegotiation())
	if err != nil {
		return nil, errors.Wrap(api.ErrEngineUnavailable, err.Error())
	}
	return cli, nil
}

// engineError translates engine failures into the harness error taxonomy.
func engineError(err error, format string, args ...any) error {
	switch {
	case err == nil:
		return nil
	case errdefs.IsNotFound(err):
		return errors.Wrapf(api.ErrNotFound, format+": %v", append(args, err)...)
	case errdefs.IsConflict(err):
		return errors.Wrapf(api.ErrNameConflict, format+": %v", append(args, err)...)
	case client.IsErrConnectionFailed(err):
		return errors.Wrapf(api.ErrEngineUnavailable, format+": %v", append(args, err)...)
	default:
		return errors.Wrapf(err, format, args...)
	}
}
