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
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"

	"github.com/django-bootstrap/harness/pkg/api"
)

const (
	// PRETTY is the human readable format
	PRETTY = "pretty"
	// JSON prints one JSON document
	JSON = "json"
	// YAML prints one YAML document
	YAML = "yaml"
)

// Print prints formatted lists in different formats
func Print(toJSON any, format string, outWriter io.Writer, writerFn func(w io.Writer), headers ...string) error {
	switch strings.ToLower(format) {
	case PRETTY, "":
		return PrintPrettySection(outWriter, writerFn, headers...)
	case JSON:
		out, err := json.MarshalIndent(toJSON, "", "  ")
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintln(outWriter, string(out))
		return nil
	case YAML:
		out, err := yaml.Marshal(toJSON)
		if err != nil {
			return err
		}
		_, err = outWriter.Write(out)
		return err
	default:
		return errors.Wrapf(api.ErrParsingFailed, "format value %q could not be parsed", format)
	}
}

// PrintPrettySection prints a tabbed section on the writer parameter
func PrintPrettySection(out io.Writer, printer func(writer io.Writer), headers ...string) error {
	w := tabwriter.NewWriter(out, 5, 1, 3, ' ', 0)
	_, _ = fmt.Fprintln(w, strings.Join(headers, "\t"))
	printer(w)
	return w.Flush()
}
