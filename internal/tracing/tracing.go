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

package tracing

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/django-bootstrap/harness/internal"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// EnvOTel opts into exporting traces. The exporter itself is configured
// with the standard OTEL_EXPORTER_OTLP_* variables.
const EnvOTel = "HARNESS_OTEL"

func init() {
	// do not log tracing errors to stdio
	otel.SetErrorHandler(skipErrors{})
}

var Tracer = otel.Tracer("harness")

// ShutdownFunc flushes and stops an OTEL exporter.
type ShutdownFunc func(ctx context.Context) error

// envMap is a convenience type for OS environment variables.
type envMap map[string]string

type skipErrors struct{}

func (skipErrors) Handle(err error) {
	logrus.Debugf("tracing: %v", err)
}

// Initialize configures tracing for the harness.
//
// Spans are only exported when HARNESS_OTEL is true and an OTLP/gRPC
// endpoint is configured through the environment. A nil ShutdownFunc
// means nothing was started.
func Initialize(ctx context.Context) (ShutdownFunc, error) {
	otel.SetTextMapPropagator(propagation.TraceContext{})

	if v, _ := strconv.ParseBool(os.Getenv(EnvOTel)); !v {
		return nil, nil
	}

	res, err := createResource(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}

	provider, err := createTraceProvider(ctx, res, readOTelEnv())
	if err != nil {
		return nil, err
	}
	if provider == nil {
		logrus.Debugf("%s is set but no OTLP endpoint is configured", EnvOTel)
		return nil, nil
	}
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}

// createTraceProvider returns nil when no exporter is configured.
func createTraceProvider(ctx context.Context, res *resource.Resource, otelEnv envMap) (*sdktrace.TracerProvider, error) {
	client := userTraceClient(otelEnv)
	if client == nil {
		return nil, nil
	}
	exporter, err := otlptrace.New(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("creating traces exporter: %w", err)
	}
	return sdktrace.NewTracerProvider(
		sdktrace.WithResource(res),
		sdktrace.WithBatcher(MuxExporter{exporters: []sdktrace.SpanExporter{exporter}}),
	), nil
}

func createResource(ctx context.Context) (*resource.Resource, error) {
	return resource.New(ctx, resource.WithAttributes(
		attribute.String("service.name", "harness"),
		attribute.String("service.version", internal.Version),
	))
}

// readOTelEnv returns a map of all environment variables that start with `OTEL_`.
func readOTelEnv() envMap {
	env := make(envMap)
	for _, kv := range os.Environ() {
		k, v, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		if strings.HasPrefix(k, "OTEL_") {
			env[k] = v
		}
	}
	return env
}

// userTraceClient creates a gRPC OTLP client when an endpoint variable is set.
//
// https://opentelemetry.io/docs/concepts/sdk-configuration/otlp-exporter-configuration/
func userTraceClient(otelEnv envMap) otlptrace.Client {
	for k := range otelEnv {
		if strings.HasSuffix(k, "ENDPOINT") {
			return otlptracegrpc.NewClient()
		}
	}
	return nil
}
