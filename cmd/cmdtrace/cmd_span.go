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

package cmdtrace

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	commands "github.com/django-bootstrap/harness/cmd/harness"
	"github.com/django-bootstrap/harness/internal/tracing"
)

// Setup should be called as part of the root command's PersistentPreRunE.
//
// It initializes the tracer from the OTEL_ env vars, creates a root span
// for the command, and wraps the actual command invocation to ensure the
// span is finalized and exported before exit.
func Setup(cmd *cobra.Command, args []string) error {
	tracingShutdown, err := tracing.Initialize(cmd.Context())
	if err != nil {
		return err
	}

	ctx, cmdSpan := tracing.Tracer.Start(
		cmd.Context(),
		"cli/"+strings.Join(commandName(cmd), "-"),
	)
	cmdSpan.SetAttributes(attribute.StringSlice("cli.args", args))
	cmdSpan.SetAttributes(attribute.StringSlice("cli.flags", getFlags(cmd.Flags())))

	cmd.SetContext(ctx)
	wrapRunE(cmd, cmdSpan, tracingShutdown)
	return nil
}

// wrapRunE injects a wrapper function around the command's RunE, so the
// span gets the command result even when it fails. PersistentPostRun only
// runs on success.
func wrapRunE(c *cobra.Command, cmdSpan trace.Span, tracingShutdown tracing.ShutdownFunc) {
	origRunE := c.RunE
	if origRunE == nil {
		origRun := c.Run
		origRunE = func(cmd *cobra.Command, args []string) error {
			origRun(cmd, args)
			return nil
		}
		c.Run = nil
	}

	c.RunE = func(cmd *cobra.Command, args []string) error {
		cmdErr := origRunE(cmd, args)
		if cmdErr != nil && !errors.Is(cmdErr, context.Canceled) {
			exitCode := 1
			var statusErr commands.StatusError
			if errors.As(cmdErr, &statusErr) {
				exitCode = statusErr.StatusCode
			}
			cmdSpan.SetStatus(codes.Error, "CLI command returned error")
			cmdSpan.RecordError(cmdErr, trace.WithAttributes(
				attribute.Int("exit_code", exitCode),
			))
		} else {
			cmdSpan.SetStatus(codes.Ok, "")
		}
		cmdSpan.End()

		if tracingShutdown != nil {
			// the command context might be canceled already
			ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
			defer cancel()
			_ = tracingShutdown(ctx)
		}
		return cmdErr
	}
}

// commandName returns the path components for a given command, without
// the root command.
//
// For example:
//   - harness run web -> [run]
//   - harness ps -> [ps]
func commandName(cmd *cobra.Command) []string {
	var name []string
	for c := cmd; c != nil && c.HasParent(); c = c.Parent() {
		name = append(name, c.Name())
	}
	slices.Reverse(name)
	return name
}

func getFlags(fs *flag.FlagSet) []string {
	var result []string
	fs.Visit(func(flag *flag.Flag) {
		result = append(result, flag.Name)
	})
	return result
}
