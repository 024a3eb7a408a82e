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

package utils

import (
	"bytes"
	"io"
	"strings"
	"unicode"
)

// GetWriter creates an io.WriteCloser that splits its input by line and calls
// consumer for each complete line, without the trailing newline and
// whitespace. Close flushes a pending unterminated line.
func GetWriter(consumer func(string)) io.WriteCloser {
	return &splitWriter{
		consumer: consumer,
	}
}

type splitWriter struct {
	buffer   bytes.Buffer
	consumer func(string)
}

func (s *splitWriter) Write(b []byte) (int, error) {
	n, err := s.buffer.Write(b)
	if err != nil {
		return n, err
	}
	for {
		b = s.buffer.Bytes()
		index := bytes.IndexByte(b, '\n')
		if index < 0 {
			break
		}
		line := s.buffer.Next(index + 1)
		s.consumer(trimLine(string(line)))
	}
	return n, nil
}

func (s *splitWriter) Close() error {
	if s.buffer.Len() > 0 {
		s.consumer(trimLine(s.buffer.String()))
		s.buffer.Reset()
	}
	return nil
}

func trimLine(line string) string {
	return strings.TrimRightFunc(line, unicode.IsSpace)
}

// OutputLines decodes raw command output into lines, dropping the empty
// element produced by the final newline.
func OutputLines(raw []byte) []string {
	if len(raw) == 0 {
		return nil
	}
	lines := strings.Split(string(raw), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
