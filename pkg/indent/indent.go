// Copyright 2015 Google Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package indent prefixes every line written to it with a fixed string.
// The emitter uses it to indent the bodies of generated functions
// without tracking column state by hand.
package indent

import (
	"bytes"
	"io"
)

// String returns in with prefix inserted at the start of every line.
// No prefix is written after a final newline.
func String(prefix, in string) string {
	return string(Bytes([]byte(prefix), []byte(in)))
}

// Bytes is the []byte equivalent of String.
func Bytes(prefix, in []byte) []byte {
	var b bytes.Buffer
	w := NewWriter(&b, string(prefix))
	w.Write(in)
	return b.Bytes()
}

// NewWriter returns a writer that copies to w, inserting prefix at the
// start of every line written to it.
func NewWriter(w io.Writer, prefix string) io.Writer {
	return &writer{w: w, prefix: []byte(prefix), needIndent: true}
}

type writer struct {
	w          io.Writer
	prefix     []byte
	needIndent bool
}

// Write implements io.Writer. The returned count is always the number
// of bytes of buf consumed, never counting the prefix bytes written
// alongside it.
func (w *writer) Write(buf []byte) (int, error) {
	var n int
	for len(buf) > 0 {
		if w.needIndent && len(w.prefix) > 0 {
			if _, err := w.w.Write(w.prefix); err != nil {
				return n, err
			}
		}
		w.needIndent = false

		nl := bytes.IndexByte(buf, '\n')
		var chunk []byte
		if nl < 0 {
			chunk, buf = buf, nil
		} else {
			chunk, buf = buf[:nl+1], buf[nl+1:]
			w.needIndent = true
		}

		if _, err := w.w.Write(chunk); err != nil {
			return n, err
		}
		n += len(chunk)
	}
	return n, nil
}
