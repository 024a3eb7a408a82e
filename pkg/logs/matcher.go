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
	"fmt"
	"regexp"
	"strings"

	"github.com/pkg/errors"
)

// Kind is the outcome of feeding a line to a Matcher
type Kind int

const (
	// NoMatch the line did not satisfy the matcher
	NoMatch Kind = iota
	// Progressed an ordered matcher satisfied one of its steps but not the last one
	Progressed
	// Matched the matcher is satisfied
	Matched
)

// Result is returned by Matcher.Feed. Value holds the line that produced it.
type Result struct {
	Kind  Kind
	Value string
}

// Matcher is a predicate over single log lines
type Matcher interface {
	Feed(line string) Result
	// String describes the matcher in error messages
	String() string
}

type regexMatcher struct {
	re *regexp.Regexp
}

// Regex returns a Matcher satisfied by any non-empty line containing a match
// of pattern.
func Regex(pattern string) (Matcher, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid log pattern %q", pattern)
	}
	return regexMatcher{re: re}, nil
}

// MustRegex is like Regex but panics if pattern doesn't compile
func MustRegex(pattern string) Matcher {
	m, err := Regex(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

func (m regexMatcher) Feed(line string) Result {
	if line == "" || !m.re.MatchString(line) {
		return Result{Kind: NoMatch}
	}
	return Result{Kind: Matched, Value: line}
}

func (m regexMatcher) String() string {
	return "/" + m.re.String() + "/"
}

type equalsMatcher struct {
	text string
}

// Equals returns a Matcher satisfied by a line equal to text
func Equals(text string) Matcher {
	return equalsMatcher{text: text}
}

func (m equalsMatcher) Feed(line string) Result {
	if line == "" || line != m.text {
		return Result{Kind: NoMatch}
	}
	return Result{Kind: Matched, Value: line}
}

func (m equalsMatcher) String() string {
	return fmt.Sprintf("%q", m.text)
}

// OrderedMatcher is satisfied once each of its matchers has been satisfied,
// in order, by some line. Lines that don't satisfy the current matcher are
// skipped. It keeps progress state and must not be shared between waits.
type OrderedMatcher struct {
	matchers []Matcher
	index    int
}

// Ordered returns a new OrderedMatcher over matchers
func Ordered(matchers ...Matcher) *OrderedMatcher {
	return &OrderedMatcher{matchers: matchers}
}

// Feed tests line against the current matcher only. Once the last matcher
// was satisfied, every further line is a NoMatch.
func (m *OrderedMatcher) Feed(line string) Result {
	if len(m.matchers) == 0 || m.Done() {
		return Result{Kind: NoMatch}
	}
	r := m.matchers[m.index].Feed(line)
	switch r.Kind {
	case Matched:
		m.index++
		if m.Done() {
			return Result{Kind: Matched, Value: line}
		}
		return Result{Kind: Progressed, Value: line}
	case Progressed:
		return r
	default:
		return Result{Kind: NoMatch}
	}
}

// Done returns true once every matcher was satisfied
func (m *OrderedMatcher) Done() bool {
	return len(m.matchers) > 0 && m.index >= len(m.matchers)
}

// Satisfied returns the number of matchers satisfied so far
func (m *OrderedMatcher) Satisfied() int {
	return m.index
}

func (m *OrderedMatcher) String() string {
	parts := make([]string, len(m.matchers))
	for i, sub := range m.matchers {
		parts[i] = sub.String()
	}
	s := "[" + strings.Join(parts, ", ") + "]"
	if m.index > 0 && !m.Done() {
		s += fmt.Sprintf(" (%d of %d matched)", m.index, len(m.matchers))
	}
	return s
}

// Patterns compiles patterns into a single Matcher: a regex matcher for a
// single pattern, an ordered matcher otherwise.
func Patterns(patterns ...string) (Matcher, error) {
	if len(patterns) == 0 {
		return nil, errors.New("at least one log pattern is required")
	}
	matchers := make([]Matcher, 0, len(patterns))
	for _, p := range patterns {
		m, err := Regex(p)
		if err != nil {
			return nil, err
		}
		matchers = append(matchers, m)
	}
	if len(matchers) == 1 {
		return matchers[0], nil
	}
	return Ordered(matchers...), nil
}
