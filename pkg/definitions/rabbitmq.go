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
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/django-bootstrap/harness/pkg/api"
	"github.com/django-bootstrap/harness/pkg/harness"
	"github.com/django-bootstrap/harness/pkg/utils"
)

const RabbitMQImage = "rabbitmq:3-alpine"

// RabbitMQ describes a throwaway RabbitMQ broker.
type RabbitMQ struct {
	Name     string
	Image    string
	VHost    string
	User     string
	Password string
	// WaitTimeout overrides the orchestrator default when positive
	WaitTimeout time.Duration
}

func NewRabbitMQ(vhost string) RabbitMQ {
	return RabbitMQ{
		Name:     "rabbitmq",
		Image:    RabbitMQImage,
		VHost:    vhost,
		User:     "user",
		Password: "password",
	}
}

func (r RabbitMQ) Definition() harness.Definition {
	return harness.Definition{
		Name: r.Name,
		Spec: api.ContainerSpec{
			Image: r.Image,
			Env: map[string]string{
				"RABBITMQ_DEFAULT_VHOST": r.VHost,
				"RABBITMQ_DEFAULT_USER":  r.User,
				"RABBITMQ_DEFAULT_PASS":  r.Password,
			},
		},
		Readiness:   harness.LogReadiness(`Server startup complete`),
		WaitTimeout: r.WaitTimeout,
	}
}

// BrokerURL is the AMQP URL other containers of the network connect with.
// The vhost follows the host verbatim, "/mysite" gives "host//mysite".
func (r RabbitMQ) BrokerURL() string {
	return fmt.Sprintf("amqp://%s:%s@%s/%s", r.User, r.Password, r.Name, r.VHost)
}

// ExecRabbitmqctl runs a quiet rabbitmqctl command and returns the output lines
func (r RabbitMQ) ExecRabbitmqctl(ctx context.Context, c Execer, command string, args ...string) ([]string, error) {
	argv := append([]string{"rabbitmqctl", "-q", command}, args...)
	out, err := c.Exec(ctx, argv, "")
	if err != nil {
		return nil, err
	}
	return utils.OutputLines(out), nil
}

// Queue is a row of the queue listing
type Queue struct {
	Name     string
	Messages int
}

// ListQueues returns the queues of the vhost with their message count.
func (r RabbitMQ) ListQueues(ctx context.Context, c Execer) ([]Queue, error) {
	lines, err := r.ExecRabbitmqctl(ctx, c, "list_queues", "-p", r.VHost)
	if err != nil {
		return nil, err
	}
	var queues []Queue
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != 2 {
			return nil, errors.Wrapf(api.ErrParsingFailed, "unexpected rabbitmqctl output %q", line)
		}
		// recent versions print a header even when quiet
		if fields[0] == "name" && fields[1] == "messages" {
			continue
		}
		count, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errors.Wrapf(api.ErrParsingFailed, "invalid message count in %q", line)
		}
		queues = append(queues, Queue{Name: fields[0], Messages: count})
	}
	return queues, nil
}
