// Copyright 2017-25 the original author or authors.
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

package cli

import (
	"errors"
	"io"

	"m4o.io/osmxml"
)

// ChunkSize is the read buffer size used by FeedReader.
const ChunkSize = 64 * 1024

// FeedReader copies r into ch as a sequence of Chunks, in ChunkSize pieces,
// and closes ch once r is exhausted or returns an error. It runs
// synchronously in the caller's goroutine; callers that also want to drain
// the parser's output concurrently should invoke FeedReader in its own
// goroutine.
func FeedReader(r io.Reader, ch chan<- osmxml.Chunk) {
	defer close(ch)

	buf := make([]byte, ChunkSize)

	for {
		n, err := r.Read(buf)
		if n > 0 {
			data := make([]byte, n)
			copy(data, buf[:n])
			ch <- osmxml.Chunk{Data: data}
		}

		if err != nil {
			if !errors.Is(err, io.EOF) {
				ch <- osmxml.Chunk{Err: err}
			}

			return
		}
	}
}
