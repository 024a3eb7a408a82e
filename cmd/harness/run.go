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
	"strings"
	"time"

	"github.com/docker/go-units"
	"github.com/mattn/go-shellwords"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/django-bootstrap/harness/cmd/formatter"
	"github.com/django-bootstrap/harness/pkg/api"
	"github.com/django-bootstrap/harness/pkg/definitions"
	"github.com/django-bootstrap/harness/pkg/harness"
	"github.com/django-bootstrap/harness/pkg/ps"
)

// roles are the django-bootstrap containers run can start by name
var roles = map[string]func(definitions.DjangoBootstrap) harness.Definition{
	"web":    definitions.DjangoBootstrap.Web,
	"worker": definitions.DjangoBootstrap.Worker,
	"beat":   definitions.DjangoBootstrap.Beat,
	"single": definitions.DjangoBootstrap.Single,
}

type runOptions struct {
	*globalOptions
	image      string
	platform   string
	command    string
	patterns   []string
	publish    []string
	env        []string
	tmpfs      []string
	tmpfsSize  string
	healthPort string
	healthPath string
	tree       bool
	noLdconfig bool
	keep       bool
	pull       bool
}

func runCommand(p *globalOptions) *cobra.Command {
	opts := runOptions{globalOptions: p}
	cmd := &cobra.Command{
		Use:   "run [OPTIONS] ROLE|NAME",
		Short: "Start a container and its dependencies, wait until they are ready, then remove them",
		Long: `Start a container and wait until it is ready.

ROLE is one of web, worker, beat or single and runs the django-bootstrap image
with PostgreSQL and RabbitMQ. Any other NAME runs the image given by --image.`,
		Args: cobra.ExactArgs(1),
		RunE: AdaptCmd(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return runRun(ctx, cmd.OutOrStdout(), opts, args[0])
		}),
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.image, "image", "", "Image to run, defaults to $"+definitions.EnvImage+" for django-bootstrap roles")
	flags.StringVar(&opts.platform, "platform", "", "Set platform if server is multi-platform capable")
	flags.StringVar(&opts.command, "command", "", "Override the image command")
	flags.StringArrayVar(&opts.patterns, "pattern", nil, "Log pattern to wait for, in order (repeatable)")
	flags.StringArrayVarP(&opts.publish, "publish", "p", nil, "Publish a container's port(s) to the host")
	flags.StringArrayVarP(&opts.env, "env", "e", nil, "Set environment variables")
	flags.StringArrayVar(&opts.tmpfs, "tmpfs", nil, "Mount a tmpfs directory")
	flags.StringVar(&opts.tmpfsSize, "tmpfs-size", "", "Size of the tmpfs mounts, e.g. 64m")
	flags.StringVar(&opts.healthPort, "health-port", "", "Container port probed over HTTP once the patterns matched, e.g. 8000/tcp")
	flags.StringVar(&opts.healthPath, "health-path", "/", "Path of the HTTP probe")
	flags.BoolVar(&opts.tree, "tree", false, "Print the process tree of the container once it is ready")
	flags.BoolVar(&opts.noLdconfig, "filter-ldconfig", false, "Hide ldconfig processes from the process tree")
	flags.BoolVar(&opts.keep, "keep", false, "Leave the containers running")
	flags.BoolVar(&opts.pull, "pull", false, "Pull missing images before creating containers")
	return cmd
}

// definitions returns the containers to run for name, dependencies first
func (opts runOptions) containers(name string) ([]harness.Definition, error) {
	if role, ok := roles[name]; ok {
		image := opts.image
		if image == "" {
			image = definitions.ImageFromEnv()
		}
		site := definitions.NewDjangoBootstrap(image)
		return append(site.Dependencies(), role(site)), nil
	}
	def, err := opts.definition(name)
	if err != nil {
		return nil, err
	}
	return []harness.Definition{def}, nil
}

func (opts runOptions) definition(name string) (harness.Definition, error) {
	if opts.image == "" {
		return harness.Definition{}, errors.Errorf("%q is not a django-bootstrap role, --image is required", name)
	}
	spec := api.ContainerSpec{
		Image:    opts.image,
		Platform: opts.platform,
		Ports:    opts.publish,
	}
	if opts.command != "" {
		command, err := shellwords.Parse(opts.command)
		if err != nil {
			return harness.Definition{}, errors.Wrapf(err, "invalid --command %q", opts.command)
		}
		spec.Command = command
	}
	if len(opts.env) > 0 {
		spec.Env = map[string]string{}
		for _, e := range opts.env {
			k, v, _ := strings.Cut(e, "=")
			if k == "" {
				return harness.Definition{}, errors.Errorf("invalid environment variable %q", e)
			}
			spec.Env[k] = v
		}
	}
	if len(opts.tmpfs) > 0 {
		var size string
		if opts.tmpfsSize != "" {
			bytes, err := units.RAMInBytes(opts.tmpfsSize)
			if err != nil {
				return harness.Definition{}, errors.Wrapf(err, "invalid --tmpfs-size")
			}
			size = fmt.Sprintf("size=%d", bytes)
		}
		spec.Tmpfs = map[string]string{}
		for _, t := range opts.tmpfs {
			path, options, _ := strings.Cut(t, ":")
			spec.Tmpfs[path] = strings.Trim(strings.Join([]string{options, size}, ","), ",")
		}
	}

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
	return harness.Definition{Name: name, Spec: spec, Readiness: readiness}, nil
}

func runRun(ctx context.Context, out io.Writer, opts runOptions, name string) (err error) {
	defs, err := opts.containers(name)
	if err != nil {
		return err
	}
	engine, err := opts.connect()
	if err != nil {
		return err
	}
	o := harness.NewOrchestrator(engine, opts.config, harness.WithPullOutput(out))
	if err := o.Setup(ctx); err != nil {
		return err
	}
	defer func() {
		if opts.keep && err == nil {
			_, _ = fmt.Fprintf(out, "Containers left running on network %s\n", o.Network())
			return
		}
		// teardown must run even after an interrupt
		tearErr := o.Teardown(context.WithoutCancel(ctx))
		if err == nil {
			err = tearErr
		} else if tearErr != nil {
			logrus.Warnf("teardown failed: %v", tearErr)
		}
	}()

	var last *harness.Handle
	for _, def := range defs {
		if opts.pull {
			if err := o.PullImageIfNotFound(ctx, def.Spec.Image); err != nil {
				return err
			}
		}
		h, err := o.CreateContainer(ctx, def)
		if err != nil {
			return err
		}
		start := time.Now()
		line, err := h.Start(ctx)
		if err != nil {
			_, _ = fmt.Fprintf(out, "%s %s\n", h.FullName(), formatter.State(h.State()))
			return err
		}
		elapsed := strings.ToLower(units.HumanDuration(time.Since(start)))
		if line == "" {
			_, _ = fmt.Fprintf(out, "%s %s after %s\n", h.FullName(), formatter.State(h.State()), elapsed)
		} else {
			_, _ = fmt.Fprintf(out, "%s %s after %s: %s\n", h.FullName(), formatter.State(h.State()), elapsed, line)
		}
		last = h
	}

	if opts.tree && last != nil {
		var keep func(ps.Row) bool
		if opts.noLdconfig {
			keep = definitions.WithoutLdconfig
		}
		tree, err := last.ProcessTree(ctx, keep)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprint(out, formatter.Tree(tree))
	}
	return nil
}
