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
	"strings"

	"github.com/pkg/errors"
)

// Expect describes the expected shape of a process tree. Children are
// compared as a set since sibling order depends on process start order.
type Expect struct {
	RUser string
	Args  string
	// PID is only checked when not zero
	PID      int
	Children []Expect
}

// Match returns an error describing the first difference between n and the
// expectation, or nil.
func (e Expect) Match(n *Node) error {
	if n == nil {
		return errors.New("process tree mismatch: no process")
	}
	if err := e.match(n); err != nil {
		return errors.Errorf("process tree mismatch: %s\nexpected:\n%sactual:\n%s", err, e, n)
	}
	return nil
}

func (e Expect) match(n *Node) error {
	if e.PID != 0 && e.PID != n.PID {
		return errors.Errorf("expected PID %d, got %d (%s)", e.PID, n.PID, n.Args)
	}
	if e.RUser != n.RUser {
		return errors.Errorf("expected process %q to run as %q, got %q", n.Args, e.RUser, n.RUser)
	}
	if e.Args != n.Args {
		return errors.Errorf("expected command line %q, got %q", e.Args, n.Args)
	}
	if len(e.Children) != len(n.Children) {
		return errors.Errorf("expected %d children for process %d (%s), got %d", len(e.Children), n.PID, n.Args, len(n.Children))
	}
	used := make([]bool, len(n.Children))
	if !e.assign(0, n.Children, used) {
		// report the first expected child with no candidate at all
		for _, child := range e.Children {
			var best, fallback error
			found := false
			for _, c := range n.Children {
				err := child.match(c)
				if err == nil {
					found = true
					break
				}
				// a candidate running the same command explains the mismatch best
				if best == nil && c.Args == child.Args {
					best = err
				}
				if fallback == nil {
					fallback = err
				}
			}
			if !found {
				if best == nil {
					best = fallback
				}
				return errors.Wrapf(best, "no child of process %d matches %s", n.PID, child.describe())
			}
		}
		return errors.Errorf("children of process %d can't all be matched", n.PID)
	}
	return nil
}

// assign finds a one to one assignment of expected children to actual ones
func (e Expect) assign(i int, actual []*Node, used []bool) bool {
	if i == len(e.Children) {
		return true
	}
	for j, c := range actual {
		if used[j] || e.Children[i].match(c) != nil {
			continue
		}
		used[j] = true
		if e.assign(i+1, actual, used) {
			return true
		}
		used[j] = false
	}
	return false
}

func (e Expect) describe() string {
	if e.PID != 0 {
		return fmt.Sprintf("%d %s %q", e.PID, e.RUser, e.Args)
	}
	return fmt.Sprintf("%s %q", e.RUser, e.Args)
}

func (e Expect) String() string {
	var b strings.Builder
	e.format(&b, 0)
	return b.String()
}

func (e Expect) format(b *strings.Builder, depth int) {
	pid := "*"
	if e.PID != 0 {
		pid = fmt.Sprint(e.PID)
	}
	fmt.Fprintf(b, "%s%s %s %s\n", strings.Repeat("  ", depth), pid, e.RUser, e.Args)
	for _, c := range e.Children {
		c.format(b, depth+1)
	}
}
