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
	"io"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/django-bootstrap/harness/pkg/harness"
)

type waitOptions struct {
	*globalOptions
	patterns   []string
	healthPort string
	healthPath string
}

func waitCommand(p *globalOptions) *cobra.Command {
	opts := waitOptions{globalOptions: p}
	cmd := &cobra.Command{
		Use:   "wait [OPTIONS] CONTAINER",
		Short: "Wait until a running container logs the given patterns",
		Args:  cobra.ExactArgs(1),
		PreRunE: func(cmd *cobra.Command, args []string) error {
			if len(opts.patterns) == 0 && opts.healthPort == "" {
				return errors.New("at least one --pattern or --health-port is required")
			}
			return nil
		},
		RunE: AdaptCmd(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return runWait(ctx, cmd.OutOrStdout(), opts, args[0])
		}),
	}
	flags := cmd.Flags()
	flags.StringArrayVar(&opts.patterns, "pattern", nil, "Log pattern to wait for, in order (repeatable)")
	flags.StringVar(&opts.healthPort, "health-port", "", "Container port probed over HTTP once the patterns matched, e.g. 8000/tcp")
	flags.StringVar(&opts.healthPath, "health-path", "/", "Path of the HTTP probe")
	return cmd
}

func (opts waitOptions) readiness() harness.Readiness {
	readiness := harness.NoWait()
	if len(opts.patterns) > 0 {
		readiness = harness.LogReadiness(opts.patterns...)
	}
	if opts.healthPort != "" {
		readiness = harness.HTTPReadiness(readiness, harness.HTTPCheck{
			Port: opts.healthPort,
			Path: opts.healthPath,
		})
	}
	return readiness
}

func runWait(ctx context.Context, out io.Writer, opts waitOptions, name string) error {
	h, err := opts.attach(ctx, name, opts.readiness())
	if err != nil {
		return err
	}
	line, err := h.WaitReady(ctx, opts.config.WaitTimeout)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, line)
	return err
}
