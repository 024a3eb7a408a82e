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
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/django-bootstrap/harness/cmd/formatter"
	"github.com/django-bootstrap/harness/pkg/api"
	"github.com/django-bootstrap/harness/pkg/harness"
)

// CanceledStatus is the status reported when a command is interrupted
const CanceledStatus = "canceled"

// StatusError reports an unsuccessful exit by a command.
type StatusError struct {
	Status     string
	StatusCode int
}

func (e StatusError) Error() string {
	return fmt.Sprintf("Status: %s, Code: %d", e.Status, e.StatusCode)
}

// Command defines a harness CLI command as a func with args
type Command func(context.Context, []string) error

// CobraCommand defines a cobra command function
type CobraCommand func(context.Context, *cobra.Command, []string) error

// AdaptCmd adapt a CobraCommand func to cobra library
func AdaptCmd(fn CobraCommand) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGTERM, syscall.SIGINT)
		defer cancel()
		err := fn(ctx, cmd, args)
		if errors.Is(err, context.Canceled) || errors.Is(ctx.Err(), context.Canceled) {
			err = StatusError{
				StatusCode: 130,
				Status:     CanceledStatus,
			}
		}
		return err
	}
}

// Adapt a Command func to cobra library
func Adapt(fn Command) func(cmd *cobra.Command, args []string) error {
	return AdaptCmd(func(ctx context.Context, cmd *cobra.Command, args []string) error {
		return fn(ctx, args)
	})
}

// EngineFunc connects to the container engine
type EngineFunc func() (harness.Engine, error)

type globalOptions struct {
	config    harness.Config
	newEngine EngineFunc
	engine    harness.Engine

	namespace   string
	timeout     time.Duration
	stopTimeout time.Duration
	tail        int
	debug       bool
	ansi        string
}

func (o *globalOptions) connect() (harness.Engine, error) {
	if o.engine != nil {
		return o.engine, nil
	}
	engine, err := o.newEngine()
	if err != nil {
		return nil, err
	}
	o.engine = engine
	return engine, nil
}

// close releases the engine connection if one was opened
func (o *globalOptions) close() {
	if o.engine == nil {
		return
	}
	if err := o.engine.Close(); err != nil {
		logrus.Debugf("failed to close engine client: %v", err)
	}
	o.engine = nil
}

// loadConfig reads the environment, then applies the flags set on the
// command line on top of it.
func (o *globalOptions) loadConfig(cmd *cobra.Command) error {
	cfg, err := harness.ConfigFromEnv()
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if flags.Changed("namespace") {
		cfg.Namespace = o.namespace
	}
	if flags.Changed("timeout") {
		cfg.WaitTimeout = o.timeout
	}
	if flags.Changed("stop-timeout") {
		cfg.StopTimeout = o.stopTimeout
	}
	if flags.Changed("tail") {
		if o.tail <= 0 {
			return errors.Errorf("invalid --tail %d: expected a positive integer", o.tail)
		}
		cfg.TailLines = o.tail
	}
	if cfg.Namespace == "" {
		return errors.New("namespace can't be empty")
	}
	o.config = cfg
	return nil
}

// attach finds a container by its logical name in the current namespace,
// then by its engine name or ID.
func (o *globalOptions) attach(ctx context.Context, name string, readiness harness.Readiness) (*harness.Handle, error) {
	engine, err := o.connect()
	if err != nil {
		return nil, err
	}
	h, err := harness.Attach(ctx, engine, o.config, o.config.Namespace+"_"+name, readiness)
	if api.IsNotFoundError(err) {
		return harness.Attach(ctx, engine, o.config, name, readiness)
	}
	return h, err
}

// RootCommand returns the harness CLI root command
func RootCommand(newEngine EngineFunc) *cobra.Command {
	opts := &globalOptions{newEngine: newEngine}
	c := &cobra.Command{
		Short:            "Container test harness for django-bootstrap images",
		Use:              "harness",
		TraverseChildren: true,
		SilenceErrors:    true,
		SilenceUsage:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			_ = cmd.Help()
			return StatusError{
				StatusCode: 1,
				Status:     fmt.Sprintf("unknown harness command: %q", args[0]),
			}
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.debug {
				logrus.SetLevel(logrus.DebugLevel)
			}
			switch opts.ansi {
			case formatter.Never, formatter.Always, formatter.Auto:
			default:
				return errors.Errorf("unsupported --ansi value %q", opts.ansi)
			}
			formatter.SetANSIMode(cmd.OutOrStdout(), opts.ansi)
			return opts.loadConfig(cmd)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			opts.close()
		},
	}

	c.AddCommand(
		runCommand(opts),
		psCommand(opts),
		waitCommand(opts),
		versionCommand(),
	)
	c.Flags().SetInterspersed(false)
	flags := c.PersistentFlags()
	flags.StringVarP(&opts.namespace, "namespace", "n", harness.DefaultNamespace, "Prefix of the container and network names")
	flags.DurationVar(&opts.timeout, "timeout", harness.DefaultWaitTimeout, "Readiness timeout")
	flags.DurationVar(&opts.stopTimeout, "stop-timeout", harness.DefaultStopTimeout, "Grace period before stopped containers are killed")
	flags.IntVar(&opts.tail, "tail", 0, "Number of log lines reported when a container is not ready")
	flags.BoolVar(&opts.debug, "debug", false, "Enable debug output in the logs")
	flags.StringVar(&opts.ansi, "ansi", formatter.Auto, `Control when to print ANSI control characters ("never"|"always"|"auto")`)
	return c
}

// Exit reports err and terminates the process with its status code
func Exit(err error) {
	var sterr StatusError
	if !errors.As(err, &sterr) {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if sterr.Status != CanceledStatus {
		fmt.Fprintln(os.Stderr, sterr.Status)
	}
	os.Exit(sterr.StatusCode)
}
