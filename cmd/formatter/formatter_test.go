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

package formatter

import (
	"bytes"
	"fmt"
	"io"
	"testing"

	"gotest.tools/v3/assert"
	is "gotest.tools/v3/assert/cmp"

	"github.com/django-bootstrap/harness/pkg/api"
	"github.com/django-bootstrap/harness/pkg/ps"
)

type process struct {
	PID  int    `json:"pid" yaml:"pid"`
	Args string `json:"args" yaml:"args"`
}

func TestPrint(t *testing.T) {
	procs := []process{{PID: 1, Args: "tini"}, {PID: 12, Args: "gunicorn"}}
	writer := func(w io.Writer) {
		for _, p := range procs {
			_, _ = fmt.Fprintf(w, "%d\t%s\n", p.PID, p.Args)
		}
	}

	tests := []struct {
		format string
		want   string
	}{
		{format: PRETTY, want: "PID   ARGS\n1     tini\n12    gunicorn\n"},
		{format: JSON, want: "[\n  {\n    \"pid\": 1,\n    \"args\": \"tini\"\n  },\n  {\n    \"pid\": 12,\n    \"args\": \"gunicorn\"\n  }\n]\n"},
		{format: YAML, want: "- pid: 1\n  args: tini\n- pid: 12\n  args: gunicorn\n"},
	}
	for _, test := range tests {
		t.Run(test.format, func(t *testing.T) {
			var buf bytes.Buffer
			assert.NilError(t, Print(procs, test.format, &buf, writer, "PID", "ARGS"))
			assert.Equal(t, buf.String(), test.want)
		})
	}

	err := Print(procs, "xml", io.Discard, writer)
	assert.Assert(t, is.ErrorIs(err, api.ErrParsingFailed))
}

func TestTree(t *testing.T) {
	SetANSIMode(io.Discard, Never)
	root := &ps.Node{Row: ps.Row{PID: 1, RUser: "root", Args: "tini -- django-entrypoint.sh"}}
	nginx := &ps.Node{Row: ps.Row{PID: 7, PPID: 1, RUser: "root", Args: "nginx: master process"}}
	nginx.Children = []*ps.Node{{Row: ps.Row{PID: 8, PPID: 7, RUser: "nginx", Args: "nginx: worker process"}}}
	gunicorn := &ps.Node{Row: ps.Row{PID: 9, PPID: 1, RUser: "django", Args: "gunicorn"}}
	root.Children = []*ps.Node{nginx, gunicorn}

	assert.Equal(t, Tree(root), `1 root tini -- django-entrypoint.sh
├─ 7 root nginx: master process
│  └─ 8 nginx nginx: worker process
└─ 9 django gunicorn
`)
}

func TestState(t *testing.T) {
	SetANSIMode(io.Discard, Never)
	assert.Equal(t, State(api.StateReady), "ready")

	SetANSIMode(io.Discard, Always)
	defer SetANSIMode(io.Discard, Never)
	assert.Assert(t, is.Contains(State(api.StateFailed), "\x1b["))

	SetANSIMode(&bytes.Buffer{}, Auto)
	assert.Equal(t, State(api.StateRemoved), "removed")
}
