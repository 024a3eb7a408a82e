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

package logs

// Tail keeps the most recent lines of a log stream
type Tail struct {
	lines []string
	next  int
	full  bool
}

// NewTail creates a Tail retaining up to size lines. A size <= 0 retains nothing.
func NewTail(size int) *Tail {
	if size < 0 {
		size = 0
	}
	return &Tail{lines: make([]string, size)}
}

// Add records line, evicting the oldest one when full
func (t *Tail) Add(line string) {
	if len(t.lines) == 0 {
		return
	}
	t.lines[t.next] = line
	t.next++
	if t.next == len(t.lines) {
		t.next = 0
		t.full = true
	}
}

// Lines returns a copy of the retained lines, oldest first
func (t *Tail) Lines() []string {
	if !t.full {
		out := make([]string, t.next)
		copy(out, t.lines[:t.next])
		return out
	}
	out := make([]string, 0, len(t.lines))
	out = append(out, t.lines[t.next:]...)
	return append(out, t.lines[:t.next]...)
}
