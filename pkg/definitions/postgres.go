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

package definitions

import (
	"context"
	"net/url"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/django-bootstrap/harness/pkg/api"
	"github.com/django-bootstrap/harness/pkg/harness"
	"github.com/django-bootstrap/harness/pkg/utils"
)

const (
	PostgreSQLImage = "postgres:16-alpine"
	// the server logs this once for the init run and once when it is
	// started for real
	postgresReadyPattern = "database system is ready to accept connections"
)

// PostgreSQL describes a throwaway PostgreSQL server.
type PostgreSQL struct {
	Name     string
	Image    string
	Database string
	User     string
	Password string
	// WaitTimeout overrides the orchestrator default when positive
	WaitTimeout time.Duration
}

func NewPostgreSQL() PostgreSQL {
	return PostgreSQL{
		Name:     "postgresql",
		Image:    PostgreSQLImage,
		Database: "database",
		User:     "user",
		Password: "password",
	}
}

func (p PostgreSQL) Definition() harness.Definition {
	return harness.Definition{
		Name: p.Name,
		Spec: api.ContainerSpec{
			Image: p.Image,
			Env: map[string]string{
				"POSTGRES_DB":       p.Database,
				"POSTGRES_USER":     p.User,
				"POSTGRES_PASSWORD": p.Password,
			},
		},
		Readiness:   harness.LogReadiness(postgresReadyPattern, postgresReadyPattern),
		WaitTimeout: p.WaitTimeout,
	}
}

// DatabaseURL is the URL other containers of the network connect with.
func (p PostgreSQL) DatabaseURL() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(p.User, p.Password),
		Host:   p.Name,
		Path:   "/" + p.Database,
	}
	return u.String()
}

// ExecPsql runs an SQL command with psql and returns the output lines.
// Output is unaligned and tuples only unless opts say otherwise.
func (p PostgreSQL) ExecPsql(ctx context.Context, c Execer, command string, opts ...string) ([]string, error) {
	if len(opts) == 0 {
		opts = []string{"-qtA"}
	}
	argv := append([]string{"psql", "-U", p.User, "-d", p.Database}, opts...)
	argv = append(argv, "-c", command)
	out, err := c.Exec(ctx, argv, "")
	if err != nil {
		return nil, err
	}
	return utils.OutputLines(out), nil
}

// Table is a row of the table listing
type Table struct {
	Schema string
	Name   string
}

const listTablesQuery = "SELECT table_schema, table_name FROM information_schema.tables " +
	"WHERE table_schema NOT IN ('pg_catalog', 'information_schema') ORDER BY table_schema, table_name;"

// ListTables returns the user tables of the database
func (p PostgreSQL) ListTables(ctx context.Context, c Execer) ([]Table, error) {
	lines, err := p.ExecPsql(ctx, c, listTablesQuery)
	if err != nil {
		return nil, err
	}
	tables := make([]Table, 0, len(lines))
	for _, line := range lines {
		schema, name, ok := strings.Cut(line, "|")
		if !ok {
			return nil, errors.Wrapf(api.ErrParsingFailed, "unexpected psql output %q", line)
		}
		tables = append(tables, Table{Schema: schema, Name: name})
	}
	return tables, nil
}
