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

	"github.com/spf13/cobra"

	"github.com/django-bootstrap/harness/cmd/formatter"
	"github.com/django-bootstrap/harness/pkg/definitions"
	"github.com/django-bootstrap/harness/pkg/ps"
)

const treeFormat = "tree"

type psOptions struct {
	*globalOptions
	format     string
	noLdconfig bool
}

func psCommand(p *globalOptions) *cobra.Command {
	opts := psOptions{globalOptions: p}
	cmd := &cobra.Command{
		Use:   "ps [OPTIONS] CONTAINER",
		Short: "Display the process tree of a running container",
		Args:  cobra.ExactArgs(1),
		RunE: AdaptCmd(func(ctx context.Context, cmd *cobra.Command, args []string) error {
			return runPs(ctx, cmd.OutOrStdout(), opts, args[0])
		}),
	}
	flags := cmd.Flags()
	flags.StringVar(&opts.format, "format", treeFormat, "Format the output. Values: [tree | pretty | json | yaml]")
	flags.BoolVar(&opts.noLdconfig, "filter-ldconfig", false, "Hide ldconfig processes")
	return cmd
}

func runPs(ctx context.Context, out io.Writer, opts psOptions, name string) error {
	h, err := opts.attach(ctx, name, nil)
	if err != nil {
		return err
	}
	var keep func(ps.Row) bool
	if opts.noLdconfig {
		keep = definitions.WithoutLdconfig
	}
	if opts.format == treeFormat {
		tree, err := h.ProcessTree(ctx, keep)
		if err != nil {
			return err
		}
		_, err = fmt.Fprint(out, formatter.Tree(tree))
		return err
	}

	rows, err := h.ListProcesses(ctx)
	if err != nil {
		return err
	}
	rows = ps.Filter(rows, keep)
	return formatter.Print(rows, opts.format, out, func(w io.Writer) {
		for _, r := range rows {
			_, _ = fmt.Fprintf(w, "%d\t%d\t%s\t%s\n", r.PID, r.PPID, r.RUser, r.Args)
		}
	}, "PID", "PPID", "RUSER", "COMMAND")
}
