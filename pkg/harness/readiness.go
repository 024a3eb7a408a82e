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
	"fmt"
	"net"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/django-bootstrap/harness/pkg/api"
	"github.com/django-bootstrap/harness/pkg/logs"
	"github.com/django-bootstrap/harness/pkg/utils"
)

// Readiness decides when a started container is ready to be used.
type Readiness interface {
	// Await blocks until the container is ready or timeout expired, and
	// returns the log line that made it ready, if any.
	Await(ctx context.Context, h *Handle, timeout time.Duration) (string, error)
	String() string
}

type logReadiness struct {
	patterns []string
}

// LogReadiness waits for log lines matching patterns, in order, in a single
// pass over the container output.
func LogReadiness(patterns ...string) Readiness {
	return logReadiness{patterns: slices.Clone(patterns)}
}

func (r logReadiness) Await(ctx context.Context, h *Handle, timeout time.Duration) (string, error) {
	if len(r.patterns) == 0 {
		return "", errors.New("log readiness requires at least one pattern")
	}
	// matchers are stateful, a fresh one is needed per wait
	m, err := logs.Patterns(r.patterns...)
	if err != nil {
		return "", err
	}
	return h.WaitForLog(ctx, m, timeout)
}

func (r logReadiness) String() string {
	quoted := make([]string, len(r.patterns))
	for i, p := range r.patterns {
		quoted[i] = fmt.Sprintf("/%s/", p)
	}
	return "logs matching " + strings.Join(quoted, " then ")
}

type noWait struct{}

// NoWait considers a container ready as soon as it started.
func NoWait() Readiness {
	return noWait{}
}

func (noWait) Await(context.Context, *Handle, time.Duration) (string, error) {
	return "", nil
}

func (noWait) String() string {
	return "no readiness check"
}

const (
	DefaultHTTPStatus   = http.StatusOK
	DefaultHTTPInterval = 500 * time.Millisecond
)

// HTTPCheck describes an HTTP probe against a published container port.
type HTTPCheck struct {
	// Port is the container port, e.g. "8000/tcp"
	Port string
	Path string
	// Status is the expected response status, 200 when zero
	Status int
	// Interval between two probes, 500ms when zero
	Interval time.Duration
	// Client defaults to an instrumented client
	Client *http.Client
}

var defaultHTTPClient = &http.Client{
	Transport: otelhttp.NewTransport(http.DefaultTransport),
	Timeout:   10 * time.Second,
}

type httpReadiness struct {
	inner Readiness
	check HTTPCheck
}

// HTTPReadiness waits for inner, then polls the HTTP check with whatever
// is left of the timeout.
func HTTPReadiness(inner Readiness, check HTTPCheck) Readiness {
	if inner == nil {
		inner = NoWait()
	}
	if check.Status == 0 {
		check.Status = DefaultHTTPStatus
	}
	if check.Interval <= 0 {
		check.Interval = DefaultHTTPInterval
	}
	if check.Client == nil {
		check.Client = defaultHTTPClient
	}
	if !strings.HasPrefix(check.Path, "/") {
		check.Path = "/" + check.Path
	}
	return httpReadiness{inner: inner, check: check}
}

func (r httpReadiness) Await(ctx context.Context, h *Handle, timeout time.Duration) (string, error) {
	start := h.clock.Now()
	line, err := r.inner.Await(ctx, h, timeout)
	if err != nil {
		return "", err
	}
	if err := r.poll(ctx, h, utils.Remaining(timeout, h.clock.Since(start))); err != nil {
		return "", err
	}
	return line, nil
}

func (r httpReadiness) poll(ctx context.Context, h *Handle, budget time.Duration) error {
	binding, err := h.HostBinding(ctx, r.check.Port, 0)
	if err != nil {
		return err
	}
	url := fmt.Sprintf("http://%s%s", net.JoinHostPort(loopback(binding), binding.HostPort), r.check.Path)

	deadline := h.clock.NewTimer(budget)
	defer deadline.Stop()
	ticker := h.clock.NewTicker(r.check.Interval)
	defer ticker.Stop()

	var last string
	for {
		status, err := r.probe(ctx, url)
		switch {
		case err != nil:
			last = err.Error()
		case status == r.check.Status:
			logrus.Debugf("GET %s returned %d", url, status)
			return nil
		default:
			last = fmt.Sprintf("status %d", status)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline.Chan():
			return errors.Wrapf(api.ErrHealthCheckFailed, "GET %s did not return %d within %s, last attempt: %s",
				url, r.check.Status, budget, last)
		case <-ticker.Chan():
		}
	}
}

func (r httpReadiness) probe(ctx context.Context, url string) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := r.check.Client.Do(req)
	if err != nil {
		return 0, err
	}
	_ = resp.Body.Close()
	return resp.StatusCode, nil
}

func (r httpReadiness) String() string {
	return fmt.Sprintf("%s, then HTTP %d on %s%s", r.inner, r.check.Status, r.check.Port, r.check.Path)
}

// loopback maps wildcard bindings to the loopback address
func loopback(binding nat.PortBinding) string {
	switch binding.HostIP {
	case "", "0.0.0.0":
		return "127.0.0.1"
	case "::":
		return "::1"
	}
	return binding.HostIP
}
