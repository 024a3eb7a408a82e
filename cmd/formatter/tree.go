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
	"fmt"
	"strings"

	"github.com/django-bootstrap/harness/pkg/ps"
)

// Tree renders a process tree, one process per line, children indented
// below their parent.
func Tree(root *ps.Node) string {
	var b strings.Builder
	writeNode(&b, root, "", "")
	return b.String()
}

func writeNode(b *strings.Builder, n *ps.Node, prefix, childPrefix string) {
	fmt.Fprintf(b, "%s%d %s %s\n", faintColor(prefix), n.PID, userColor(n.RUser), n.Args)
	for i, c := range n.Children {
		if i == len(n.Children)-1 {
			writeNode(b, c, childPrefix+"└─ ", childPrefix+"   ")
		} else {
			writeNode(b, c, childPrefix+"├─ ", childPrefix+"│  ")
		}
	}
}
