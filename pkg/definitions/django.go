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
	"maps"
	"os"
	"time"

	"github.com/django-bootstrap/harness/pkg/api"
	"github.com/django-bootstrap/harness/pkg/harness"
	"github.com/django-bootstrap/harness/pkg/ps"
)

const (
	// EnvImage names the django-bootstrap image under test
	EnvImage     = "DJANGO_BOOTSTRAP_IMAGE"
	DefaultImage = "django-bootstrap"

	// WebPort is the container port Nginx listens on
	WebPort = "8000/tcp"
	// HealthPath answers 200 once Django is up
	HealthPath = "/health/"
)

// Readiness log patterns of the django-bootstrap processes
const (
	GunicornReadyPattern     = `Booting worker`
	CeleryWorkerReadyPattern = `celery@\w+ ready`
	CeleryBeatReadyPattern   = `beat: Starting\.\.\.`
)

// ImageFromEnv returns the image named by DJANGO_BOOTSTRAP_IMAGE, or the default.
func ImageFromEnv() string {
	if image := os.Getenv(EnvImage); image != "" {
		return image
	}
	return DefaultImage
}

// DjangoBootstrap describes the containers of a django-bootstrap site and
// the services it depends on.
type DjangoBootstrap struct {
	Image    string
	Database PostgreSQL
	Broker   RabbitMQ
	// WaitTimeout overrides the orchestrator default when positive
	WaitTimeout time.Duration
}

func NewDjangoBootstrap(image string) DjangoBootstrap {
	return DjangoBootstrap{
		Image:    image,
		Database: NewPostgreSQL(),
		Broker:   NewRabbitMQ("/mysite"),
	}
}

// Dependencies are the containers to start before any of the site's.
func (d DjangoBootstrap) Dependencies() []harness.Definition {
	return []harness.Definition{d.Database.Definition(), d.Broker.Definition()}
}

// Env is the environment shared by all the site containers, extended
// with extra.
func (d DjangoBootstrap) Env(extra map[string]string) map[string]string {
	env := map[string]string{
		"SECRET_KEY":        "secret",
		"ALLOWED_HOSTS":     "localhost,127.0.0.1,0.0.0.0",
		"CELERY_BROKER_URL": d.Broker.BrokerURL(),
		"DATABASE_URL":      d.Database.DatabaseURL(),
	}
	maps.Copy(env, extra)
	return env
}

// Web runs Nginx and Gunicorn. It is ready once Gunicorn booted a worker
// and the health endpoint answers.
func (d DjangoBootstrap) Web() harness.Definition {
	return d.web("web", nil, GunicornReadyPattern)
}

// Single runs the web processes plus a Celery worker and beat in one
// container.
func (d DjangoBootstrap) Single() harness.Definition {
	return d.web("web", map[string]string{"CELERY_WORKER": "1", "CELERY_BEAT": "1"},
		GunicornReadyPattern, CeleryWorkerReadyPattern, CeleryBeatReadyPattern)
}

func (d DjangoBootstrap) web(name string, env map[string]string, patterns ...string) harness.Definition {
	return harness.Definition{
		Name: name,
		Spec: api.ContainerSpec{
			Image: d.Image,
			Env:   d.Env(env),
			Ports: []string{"127.0.0.1::" + WebPort},
			// ownership of the media directory is set by the entrypoint
			Tmpfs: map[string]string{"/app/media": "uid=0"},
		},
		Readiness: harness.HTTPReadiness(harness.LogReadiness(patterns...), harness.HTTPCheck{
			Port: WebPort,
			Path: HealthPath,
		}),
		WaitTimeout: d.WaitTimeout,
	}
}

// Worker runs a Celery worker only
func (d DjangoBootstrap) Worker() harness.Definition {
	return d.celery("worker", CeleryWorkerReadyPattern)
}

// Beat runs the Celery beat scheduler only
func (d DjangoBootstrap) Beat() harness.Definition {
	return d.celery("beat", CeleryBeatReadyPattern)
}

func (d DjangoBootstrap) celery(command, pattern string) harness.Definition {
	return harness.Definition{
		Name: command,
		Spec: api.ContainerSpec{
			Image:   d.Image,
			Command: []string{"celery", command},
			Env:     d.Env(nil),
		},
		Readiness:   harness.LogReadiness(pattern),
		WaitTimeout: d.WaitTimeout,
	}
}

// WithoutLdconfig drops the short-lived ldconfig process Python may spawn
// as the django user, which would otherwise make process trees flaky.
var WithoutLdconfig = ps.Exclude("django", "ldconfig")
