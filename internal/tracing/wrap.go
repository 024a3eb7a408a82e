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

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SpanOptions are applied when a span is started.
type SpanOptions []trace.SpanStartOption

// SpanWrapFunc wraps fn in a span named spanName. A returned error marks
// the span as failed.
func SpanWrapFunc(spanName string, opts SpanOptions, fn func(ctx context.Context) error) func(context.Context) error {
	return func(ctx context.Context) error {
		ctx, span := Tracer.Start(ctx, spanName, opts...)
		defer span.End()

		if err := fn(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return err
		}
		span.SetStatus(codes.Ok, "")
		return nil
	}
}

// ContainerOptions describe the container a span operates on.
func ContainerOptions(name, image string) SpanOptions {
	return SpanOptions{
		trace.WithAttributes(
			attribute.String("container.name", name),
			attribute.String("container.image", image),
		),
	}
}

func NamespaceOptions(namespace string) SpanOptions {
	return SpanOptions{
		trace.WithAttributes(attribute.String("harness.namespace", namespace)),
	}
}
