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
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/django-bootstrap/harness/pkg/api"
)

// NoParent is the PPID of a row whose listing has no parent column
const NoParent = -1

// Columns are the ps output columns requested by ListCommand
var Columns = []string{"pid", "ppid", "ruser", "args"}

// ListCommand returns the command listing every process of a container
func ListCommand() []string {
	return []string{"ps", "ax", "-o", strings.Join(Columns, ",")}
}

// Row is one process of a listing
type Row struct {
	PID   int
	PPID  int
	RUser string
	Args  string
}

func (r Row) String() string {
	return fmt.Sprintf("%d %s %s", r.PID, r.RUser, r.Args)
}

type column int

const (
	colIgnored column = iota
	colPID
	colPPID
	colUser
	colArgs
)

func headerColumn(name string) column {
	switch strings.ToUpper(name) {
	case "PID":
		return colPID
	case "PPID":
		return colPPID
	case "RUSER", "USER", "UID", "RUID":
		return colUser
	case "COMMAND", "ARGS", "CMD":
		return colArgs
	default:
		return colIgnored
	}
}

// ParseTable parses the output of ps into rows. The first non-empty line is
// the header: it gives the column names, their order and their count. Every
// column but the last is a single token, the last column takes the rest of
// the line, spaces included, since command lines are free text.
func ParseTable(output string) ([]Row, error) {
	lines := strings.Split(output, "\n")
	for len(lines) > 0 && strings.TrimSpace(lines[0]) == "" {
		lines = lines[1:]
	}
	if len(lines) == 0 {
		return nil, errors.Wrap(api.ErrParsingFailed, "empty process listing")
	}
	header := strings.Fields(lines[0])
	columns := make([]column, len(header))
	hasPID := false
	for i, name := range header {
		columns[i] = headerColumn(name)
		hasPID = hasPID || columns[i] == colPID
	}
	if !hasPID {
		return nil, errors.Wrapf(api.ErrParsingFailed, "no PID column in header %q", lines[0])
	}

	var rows []Row
	for n, line := range lines[1:] {
		line = strings.TrimRight(line, " \t\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := splitColumns(line, len(header))
		if len(fields) != len(header) {
			return nil, errors.Wrapf(api.ErrParsingFailed, "line %d: expected %d columns, got %d: %q", n+2, len(header), len(fields), line)
		}
		row := Row{PPID: NoParent}
		for i, value := range fields {
			var err error
			switch columns[i] {
			case colPID:
				row.PID, err = strconv.Atoi(value)
			case colPPID:
				row.PPID, err = strconv.Atoi(value)
			case colUser:
				row.RUser = value
			case colArgs:
				row.Args = value
			}
			if err != nil {
				return nil, errors.Wrapf(api.ErrParsingFailed, "line %d: invalid %s %q", n+2, header[i], value)
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// splitColumns splits line into at most n fields: n-1 whitespace separated
// tokens and the remainder of the line.
func splitColumns(line string, n int) []string {
	fields := make([]string, 0, n)
	rest := strings.TrimLeft(line, " \t")
	for len(fields) < n-1 && rest != "" {
		end := strings.IndexAny(rest, " \t")
		if end < 0 {
			fields = append(fields, rest)
			rest = ""
			break
		}
		fields = append(fields, rest[:end])
		rest = strings.TrimLeft(rest[end:], " \t")
	}
	if rest != "" {
		fields = append(fields, rest)
	}
	return fields
}

// Filter returns the rows for which keep returns true
func Filter(rows []Row, keep func(Row) bool) []Row {
	if keep == nil {
		return rows
	}
	var out []Row
	for _, r := range rows {
		if keep(r) {
			out = append(out, r)
		}
	}
	return out
}

// Exclude returns a predicate dropping rows run by ruser whose command line
// contains args, e.g. an ldconfig process showing up under the app user.
func Exclude(ruser, args string) func(Row) bool {
	return func(r Row) bool {
		return !(r.RUser == ruser && strings.Contains(r.Args, args))
	}
}
