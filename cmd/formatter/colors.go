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
	"io"

	"github.com/moby/term"
	"github.com/morikuni/aec"

	"github.com/django-bootstrap/harness/pkg/api"
)

const (
	// Never use ANSI codes
	Never = "never"

	// Always use ANSI codes
	Always = "always"

	// Auto detect terminal is a tty and can use ANSI codes
	Auto = "auto"
)

// colorFunc use ANSI codes to render colored text on console
type colorFunc func(s string) string

var monochrome = func(s string) string {
	return s
}

func makeColorFunc(ansi aec.ANSI) colorFunc {
	return func(s string) string {
		return ansi.Apply(s)
	}
}

var (
	successColor = makeColorFunc(aec.GreenF)
	warningColor = makeColorFunc(aec.YellowF)
	errorColor   = makeColorFunc(aec.RedF)
	faintColor   = makeColorFunc(aec.Faint)
	userColor    = makeColorFunc(aec.CyanF)
)

// SetANSIMode configure formatter for colored output on ANSI-compliant console
func SetANSIMode(out io.Writer, ansi string) {
	enabled := useAnsi(out, ansi)
	pick := func(c colorFunc) colorFunc {
		if enabled {
			return c
		}
		return monochrome
	}
	successColor = pick(makeColorFunc(aec.GreenF))
	warningColor = pick(makeColorFunc(aec.YellowF))
	errorColor = pick(makeColorFunc(aec.RedF))
	faintColor = pick(makeColorFunc(aec.Faint))
	userColor = pick(makeColorFunc(aec.CyanF))
}

func useAnsi(out io.Writer, ansi string) bool {
	switch ansi {
	case Always:
		return true
	case Auto:
		_, isTerminal := term.GetFdInfo(out)
		return isTerminal
	}
	return false
}

// State renders a lifecycle state, colored by outcome
func State(s api.State) string {
	switch s {
	case api.StateReady:
		return successColor(s.String())
	case api.StateFailed:
		return errorColor(s.String())
	case api.StateStarted, api.StateCreated:
		return warningColor(s.String())
	}
	return faintColor(s.String())
}
