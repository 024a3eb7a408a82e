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

import (
	"testing"

	"gotest.tools/v3/assert"
)

func feedAll(m Matcher, lines ...string) []Kind {
	kinds := make([]Kind, len(lines))
	for i, l := range lines {
		kinds[i] = m.Feed(l).Kind
	}
	return kinds
}

func TestRegexMatcherSearches(t *testing.T) {
	m := MustRegex(`celery@\w+ ready`)
	r := m.Feed("[2018-01-01 00:00:00,000: INFO/MainProcess] celery@a1b2c3 ready.")
	assert.Equal(t, r.Kind, Matched)
	assert.Equal(t, r.Value, "[2018-01-01 00:00:00,000: INFO/MainProcess] celery@a1b2c3 ready.")

	assert.Equal(t, m.Feed("celery@ ready").Kind, NoMatch)
	// stateless: matches again
	assert.Equal(t, m.Feed("celery@host ready").Kind, Matched)
	assert.Equal(t, m.String(), `/celery@\w+ ready/`)
}

func TestRegexMatcherNeverMatchesEmptyLine(t *testing.T) {
	m := MustRegex(`.*`)
	assert.Equal(t, m.Feed("").Kind, NoMatch)
	assert.Equal(t, m.Feed(" ").Kind, Matched)
}

func TestRegexInvalidPattern(t *testing.T) {
	_, err := Regex(`(`)
	assert.ErrorContains(t, err, `invalid log pattern "("`)
}

func TestEqualsMatcher(t *testing.T) {
	m := Equals("ready")
	assert.DeepEqual(t, feedAll(m, "ready", "ready!", "", "already"), []Kind{Matched, NoMatch, NoMatch, NoMatch})
	assert.Equal(t, m.String(), `"ready"`)
}

func TestOrderedMatcherInterleaved(t *testing.T) {
	m := Ordered(MustRegex(`Booting worker`), MustRegex(`celery@\w+ ready`), MustRegex(`beat: Starting\.\.\.`))

	kinds := feedAll(m,
		"[INFO] Starting gunicorn 19.9.0",
		"[INFO] Booting worker with pid: 17",
		"unrelated",
		"celery@web ready.",
		"beat: Starting...",
		"beat: Starting...",
	)
	assert.DeepEqual(t, kinds, []Kind{NoMatch, Progressed, NoMatch, Progressed, Matched, NoMatch})
	assert.Assert(t, m.Done())
	assert.Equal(t, m.Satisfied(), 3)
}

func TestOrderedMatcherOutOfOrder(t *testing.T) {
	m := Ordered(MustRegex(`^a$`), MustRegex(`^b$`))
	kinds := feedAll(m, "b", "a", "x")
	assert.DeepEqual(t, kinds, []Kind{NoMatch, Progressed, NoMatch})
	assert.Assert(t, !m.Done())
	assert.Equal(t, m.String(), "[/^a$/, /^b$/] (1 of 2 matched)")
}

func TestOrderedMatcherDoesNotRewind(t *testing.T) {
	m := Ordered(MustRegex(`^a$`), MustRegex(`^a$`), MustRegex(`^b$`))
	kinds := feedAll(m, "a", "b", "a", "b")
	assert.DeepEqual(t, kinds, []Kind{Progressed, NoMatch, Progressed, Matched})
}

func TestOrderedMatcherMatchesOnceWithValue(t *testing.T) {
	m := Ordered(Equals("starting..."), Equals("ready"))
	assert.Equal(t, m.Feed("starting...").Kind, Progressed)
	r := m.Feed("ready")
	assert.Equal(t, r.Kind, Matched)
	assert.Equal(t, r.Value, "ready")
	assert.Equal(t, m.Feed("ready").Kind, NoMatch)
}

func TestOrderedMatcherNested(t *testing.T) {
	m := Ordered(Ordered(Equals("a"), Equals("b")), Equals("c"))
	kinds := feedAll(m, "a", "c", "b", "c")
	assert.DeepEqual(t, kinds, []Kind{Progressed, NoMatch, Progressed, Matched})
}

func TestEmptyOrderedMatcherNeverMatches(t *testing.T) {
	m := Ordered()
	assert.Equal(t, m.Feed("anything").Kind, NoMatch)
	assert.Equal(t, m.Feed("").Kind, NoMatch)
	assert.Assert(t, !m.Done())
}

func TestPatterns(t *testing.T) {
	m, err := Patterns(`Booting worker`)
	assert.NilError(t, err)
	assert.Equal(t, m.String(), "/Booting worker/")

	m, err = Patterns(`database system is ready`, `database system is ready`)
	assert.NilError(t, err)
	assert.DeepEqual(t, feedAll(m, "database system is ready", "database system is ready"), []Kind{Progressed, Matched})

	_, err = Patterns(`ok`, `[`)
	assert.ErrorContains(t, err, "invalid log pattern")

	_, err = Patterns()
	assert.ErrorContains(t, err, "at least one log pattern is required")
}
