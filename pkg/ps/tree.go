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
	"sort"
	"strings"

	"github.com/django-bootstrap/harness/pkg/api"
)

// Node is a process and the processes it spawned, in listing order
type Node struct {
	Row
	Children []*Node
}

// BuildTree assembles rows into a process tree. Exactly one row must have a
// parent that is not part of the rows (the orphan root, usually PID 1),
// otherwise it fails with *api.MalformedSnapshotError: the structure is never
// guessed.
func BuildTree(rows []Row) (*Node, error) {
	if len(rows) == 0 {
		return nil, &api.MalformedSnapshotError{Reason: "no process"}
	}

	pids := make(map[int]struct{}, len(rows))
	for _, r := range rows {
		if _, ok := pids[r.PID]; ok {
			return nil, &api.MalformedSnapshotError{Reason: fmt.Sprintf("duplicate PID %d", r.PID)}
		}
		pids[r.PID] = struct{}{}
	}

	children := make(map[int][]Row)
	var roots []Row
	for _, r := range rows {
		if _, ok := pids[r.PPID]; ok && r.PPID != r.PID {
			children[r.PPID] = append(children[r.PPID], r)
			continue
		}
		roots = append(roots, r)
	}

	if len(roots) != 1 {
		rootPIDs := make([]int, len(roots))
		for i, r := range roots {
			rootPIDs[i] = r.PID
		}
		return nil, &api.MalformedSnapshotError{
			Reason: fmt.Sprintf("expected a single root process, found %d", len(roots)),
			Roots:  rootPIDs,
		}
	}

	attached := 0
	var attach func(r Row) *Node
	attach = func(r Row) *Node {
		attached++
		node := &Node{Row: r}
		for _, c := range children[r.PID] {
			node.Children = append(node.Children, attach(c))
		}
		return node
	}
	root := attach(roots[0])

	// rows forming a parent cycle are not reachable from the root
	if attached != len(rows) {
		var unreachable []int
		reached := map[int]struct{}{}
		root.Walk(func(n *Node) {
			reached[n.PID] = struct{}{}
		})
		for _, r := range rows {
			if _, ok := reached[r.PID]; !ok {
				unreachable = append(unreachable, r.PID)
			}
		}
		sort.Ints(unreachable)
		return nil, &api.MalformedSnapshotError{
			Reason: fmt.Sprintf("processes %v are not descendants of root process %d", unreachable, root.PID),
		}
	}
	return root, nil
}

// Walk calls fn for n and each of its descendants, depth first
func (n *Node) Walk(fn func(*Node)) {
	fn(n)
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// Find returns the first node, depth first, for which match returns true
func (n *Node) Find(match func(Row) bool) *Node {
	var found *Node
	n.Walk(func(c *Node) {
		if found == nil && match(c.Row) {
			found = c
		}
	})
	return found
}

// Len returns the number of processes in the tree
func (n *Node) Len() int {
	count := 0
	n.Walk(func(*Node) { count++ })
	return count
}

func (n *Node) String() string {
	var b strings.Builder
	n.format(&b, 0)
	return b.String()
}

func (n *Node) format(b *strings.Builder, depth int) {
	fmt.Fprintf(b, "%s%d %s %s\n", strings.Repeat("  ", depth), n.PID, n.RUser, n.Args)
	for _, c := range n.Children {
		c.format(b, depth+1)
	}
}
