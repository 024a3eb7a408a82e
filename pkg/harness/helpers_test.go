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
	"bufio"
	"bytes"
	"context"
	"io"
	"net"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/docker/docker/api/types"
	"github.com/docker/docker/api/types/container"
	"github.com/docker/docker/api/types/network"
	"github.com/docker/docker/pkg/stdcopy"
	"go.uber.org/mock/gomock"
	"gotest.tools/v3/assert"

	"github.com/django-bootstrap/harness/pkg/api"
	"github.com/django-bootstrap/harness/pkg/mocks"
)

func prepareMocks(t *testing.T) (*mocks.MockEngine, *Orchestrator) {
	t.Helper()
	mockCtrl := gomock.NewController(t)
	engine := mocks.NewMockEngine(mockCtrl)
	cfg := DefaultConfig()
	cfg.WaitTimeout = 2 * time.Second
	return engine, NewOrchestrator(engine, cfg)
}

// setupOrchestrator expects the engine calls of a successful Setup
func setupOrchestrator(t *testing.T, engine *mocks.MockEngine, o *Orchestrator) {
	t.Helper()
	engine.EXPECT().Ping(gomock.Any()).Return(types.Ping{APIVersion: "1.47"}, nil)
	engine.EXPECT().NetworkCreate(gomock.Any(), "test_default", gomock.Any()).
		Return(network.CreateResponse{ID: "net-id"}, nil)
	assert.NilError(t, o.Setup(context.Background()))
}

// createContainer expects the engine calls creating def and returns its handle
func createContainer(t *testing.T, engine *mocks.MockEngine, o *Orchestrator, def Definition, id string) *Handle {
	t.Helper()
	engine.EXPECT().ContainerCreate(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "test_"+def.Name).
		Return(container.CreateResponse{ID: id}, nil)
	h, err := o.CreateContainer(context.Background(), def)
	assert.NilError(t, err)
	return h
}

func busybox(name string, readiness Readiness) Definition {
	return Definition{
		Name:      name,
		Spec:      api.ContainerSpec{Image: "busybox"},
		Readiness: readiness,
	}
}

// multiplexed encodes lines the way the engine sends the output of a
// container without a TTY
func multiplexed(lines ...string) []byte {
	var buf bytes.Buffer
	w := stdcopy.NewStdWriter(&buf, stdcopy.Stdout)
	for _, l := range lines {
		_, _ = w.Write([]byte(l + "\n"))
	}
	return buf.Bytes()
}

// logStream is a finished log stream, as returned for an exited container
func logStream(lines ...string) io.ReadCloser {
	return io.NopCloser(bytes.NewReader(multiplexed(lines...)))
}

// hangingStream serves its lines then blocks until closed, like the stream
// of a container that keeps running silently
type hangingStream struct {
	io.Reader
	closed chan struct{}
	once   sync.Once
}

func newHangingStream(lines ...string) *hangingStream {
	s := &hangingStream{closed: make(chan struct{})}
	s.Reader = io.MultiReader(bytes.NewReader(multiplexed(lines...)), blockUntilClosed(s.closed))
	return s
}

func (s *hangingStream) Close() error {
	s.once.Do(func() { close(s.closed) })
	return nil
}

type blockUntilClosed chan struct{}

func (b blockUntilClosed) Read([]byte) (int, error) {
	<-b
	return 0, io.EOF
}

func running(id, name string) container.InspectResponse {
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			ID:    id,
			Name:  "/" + name,
			State: &container.State{Running: true, Status: "running"},
		},
		Config:          &container.Config{Image: "busybox"},
		NetworkSettings: &container.NetworkSettings{},
	}
}

func exited(id string, code int) container.InspectResponse {
	return container.InspectResponse{
		ContainerJSONBase: &container.ContainerJSONBase{
			ID:    id,
			State: &container.State{Running: false, Status: "exited", ExitCode: code},
		},
	}
}

// hijacked builds the attach response of an exec
func hijacked(t *testing.T, stdout, stderr string) types.HijackedResponse {
	t.Helper()
	var buf bytes.Buffer
	if stdout != "" {
		_, _ = stdcopy.NewStdWriter(&buf, stdcopy.Stdout).Write([]byte(stdout))
	}
	if stderr != "" {
		_, _ = stdcopy.NewStdWriter(&buf, stdcopy.Stderr).Write([]byte(stderr))
	}
	local, remote := net.Pipe()
	t.Cleanup(func() {
		_ = remote.Close()
	})
	return types.HijackedResponse{Conn: local, Reader: bufio.NewReader(&buf)}
}

// expectExec expects one exec of argv in container id
func expectExec(t *testing.T, engine *mocks.MockEngine, id string, argv []string, stdout, stderr string, exitCode int) {
	t.Helper()
	execID := "exec-" + strings.Join(argv, "-")
	engine.EXPECT().ContainerExecCreate(gomock.Any(), id, container.ExecOptions{
		AttachStdout: true,
		AttachStderr: true,
		Cmd:          argv,
	}).Return(container.ExecCreateResponse{ID: execID}, nil)
	engine.EXPECT().ContainerExecAttach(gomock.Any(), execID, gomock.Any()).Return(hijacked(t, stdout, stderr), nil)
	engine.EXPECT().ContainerExecInspect(gomock.Any(), execID).Return(container.ExecInspect{ExecID: execID, ExitCode: exitCode}, nil)
}
