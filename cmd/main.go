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

package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/django-bootstrap/harness/cmd/cmdtrace"
	commands "github.com/django-bootstrap/harness/cmd/harness"
	"github.com/django-bootstrap/harness/pkg/harness"
)

func main() {
	root := commands.RootCommand(func() (harness.Engine, error) {
		return harness.NewEngineFromEnv()
	})
	originalPreRunE := root.PersistentPreRunE
	root.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if err := originalPreRunE(cmd, args); err != nil {
			return err
		}
		return cmdtrace.Setup(cmd, args)
	}

	if err := root.ExecuteContext(context.Background()); err != nil {
		commands.Exit(err)
	}
	os.Exit(0)
}
