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

package ps

import (
	"testing"

	"gotest.tools/v3/assert"

	"github.com/django-bootstrap/harness/pkg/api"
)

const procpsOutput = `    PID    PPID RUSER    COMMAND
      1       0 root     tini -- django-entrypoint.sh mysite.wsgi:application
      7       1 django   /usr/local/bin/python /usr/local/bin/gunicorn mysite.wsgi:application --config /etc/gunicorn/config.py
     15       7 root     nginx: master process nginx -g daemon off;
     16      15 nginx    nginx: worker process
     17       7 django   /usr/local/bin/python /usr/local/bin/gunicorn mysite.wsgi:application --config /etc/gunicorn/config.py
     31       0 root     ps ax -o pid,ppid,ruser,args
`

const busyboxOutput = `PID   PPID  RUSER    COMMAND
    1     0 root     sh -c echo starting...; sleep 2; echo ready; sleep 60
    9     1 root     sleep 60
   10     0 root     ps ax -o pid,ppid,ruser,args
`

func TestParseTableProcps(t *testing.T) {
	rows, err := ParseTable(procpsOutput)
	assert.NilError(t, err)
	assert.Equal(t, len(rows), 6)
	assert.DeepEqual(t, rows[0], Row{PID: 1, PPID: 0, RUser: "root", Args: "tini -- django-entrypoint.sh mysite.wsgi:application"})
	assert.DeepEqual(t, rows[2], Row{PID: 15, PPID: 7, RUser: "root", Args: "nginx: master process nginx -g daemon off;"})
	assert.DeepEqual(t, rows[3], Row{PID: 16, PPID: 15, RUser: "nginx", Args: "nginx: worker process"})
}

func TestParseTableBusybox(t *testing.T) {
	rows, err := ParseTable(busyboxOutput)
	assert.NilError(t, err)
	assert.DeepEqual(t, rows, []Row{
		{PID: 1, PPID: 0, RUser: "root", Args: "sh -c echo starting...; sleep 2; echo ready; sleep 60"},
		{PID: 9, PPID: 1, RUser: "root", Args: "sleep 60"},
		{PID: 10, PPID: 0, RUser: "root", Args: "ps ax -o pid,ppid,ruser,args"},
	})
}

func TestParseTableColumnOrderFromHeader(t *testing.T) {
	rows, err := ParseTable("RUSER PID COMMAND\ndjango 12 celery   worker\n")
	assert.NilError(t, err)
	assert.DeepEqual(t, rows, []Row{{PID: 12, PPID: NoParent, RUser: "django", Args: "celery   worker"}})
}

func TestParseTableErrors(t *testing.T) {
	_, err := ParseTable("")
	assert.ErrorIs(t, err, api.ErrParsingFailed)

	_, err = ParseTable("USER COMMAND\nroot sh\n")
	assert.ErrorContains(t, err, "no PID column")

	_, err = ParseTable("PID PPID COMMAND\nabc 0 sh\n")
	assert.ErrorContains(t, err, `invalid PID "abc"`)

	_, err = ParseTable("PID PPID RUSER COMMAND\n1 0\n")
	assert.ErrorContains(t, err, "expected 4 columns, got 2")
}

func TestListCommand(t *testing.T) {
	assert.DeepEqual(t, ListCommand(), []string{"ps", "ax", "-o", "pid,ppid,ruser,args"})
}

func TestFilterExclude(t *testing.T) {
	rows := []Row{
		{PID: 1, PPID: 0, RUser: "root", Args: "tini"},
		{PID: 8, PPID: 1, RUser: "django", Args: "/sbin/ldconfig -p"},
		{PID: 9, PPID: 1, RUser: "root", Args: "/sbin/ldconfig -p"},
	}
	filtered := Filter(rows, Exclude("django", "ldconfig"))
	assert.DeepEqual(t, filtered, []Row{rows[0], rows[2]})
	assert.Equal(t, len(Filter(rows, nil)), 3)
}
