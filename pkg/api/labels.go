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

package api

import (
	"fmt"

	"github.com/hashicorp/go-version"

	"github.com/django-bootstrap/harness/internal"
)

const (
	// NamespaceLabel allow to track resources created by a harness orchestrator
	NamespaceLabel = "com.django-bootstrap.harness.namespace"
	// ContainerLabel stores the logical name of a harness container
	ContainerLabel = "com.django-bootstrap.harness.container"
	// NetworkLabel marks the network owned by a harness orchestrator
	NetworkLabel = "com.django-bootstrap.harness.network"
	// VersionLabel stores the harness version used to create the resource
	VersionLabel = "com.django-bootstrap.harness.version"
)

// HarnessVersion is the harness version as declared by label VersionLabel
var HarnessVersion string

func init() {
	v, err := version.NewVersion(internal.Version)
	if err == nil {
		segments := v.Segments()
		if len(segments) > 2 {
			HarnessVersion = fmt.Sprintf("%d.%d.%d", segments[0], segments[1], segments[2])
		}
	}
}

// ResourceLabels returns the labels set on every resource of a namespace
func ResourceLabels(namespace string) map[string]string {
	labels := map[string]string{
		NamespaceLabel: namespace,
	}
	if HarnessVersion != "" {
		labels[VersionLabel] = HarnessVersion
	}
	return labels
}
