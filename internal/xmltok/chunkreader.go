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

// Package xmltok adapts Go's pull-style encoding/xml tokenizer into the
// push-driven start/end/characters callback shape the parser state
// machine expects, fed by arbitrary-sized input chunks, with Close marking
// the end of input, rather than a single io.Reader the caller controls.
package xmltok

import "io"

// ChunkReader is an io.Reader fed by Feed calls from a producer goroutine;
// Read blocks until a chunk is available or the reader is closed. It also
// tracks byte offsets of newlines seen so far so the
// tokenizer can translate a decoder byte offset into a line/column pair.
type ChunkReader struct {
	chunks chan []byte
	done   chan struct{}

	pending []byte
	closed  bool
	err     error

	newlineOffsets []int64
	consumed       int64
}

// NewChunkReader returns a ChunkReader ready to accept Feed calls.
func NewChunkReader() *ChunkReader {
	return &ChunkReader{
		chunks: make(chan []byte, 1),
		done:   make(chan struct{}),
	}
}

// Feed makes chunk available to the reader. It blocks if a previous chunk
// has not yet been consumed, providing natural backpressure on the
// producer. Once the reader is closed Feed no longer blocks; a chunk fed
// after Close may be dropped.
func (c *ChunkReader) Feed(chunk []byte) {
	if len(chunk) == 0 {
		return
	}

	select {
	case c.chunks <- chunk:
	case <-c.done:
	}
}

// Close signals end of input; subsequent Reads return io.EOF once any
// fed-but-unconsumed bytes are drained.
func (c *ChunkReader) Close() {
	c.CloseWithError(nil)
}

// CloseWithError signals end of input the way Close does, but Read
// returns err instead of io.EOF once fed-but-unconsumed bytes are
// drained.
func (c *ChunkReader) CloseWithError(err error) {
	if c.closed {
		return
	}

	c.closed = true
	c.err = err

	close(c.done)
}

// Read implements io.Reader.
func (c *ChunkReader) Read(p []byte) (int, error) {
	for len(c.pending) == 0 {
		select {
		case chunk := <-c.chunks:
			c.pending = chunk
		case <-c.done:
			select {
			case chunk := <-c.chunks:
				c.pending = chunk
			default:
				if c.err != nil {
					return 0, c.err
				}

				return 0, io.EOF
			}
		}
	}

	n := copy(p, c.pending)
	c.pending = c.pending[n:]

	for i := 0; i < n; i++ {
		if p[i] == '\n' {
			c.newlineOffsets = append(c.newlineOffsets, c.consumed+int64(i))
		}
	}

	c.consumed += int64(n)

	return n, nil
}

// LineCol converts a byte offset (as reported by xml.Decoder.InputOffset)
// into a 1-based line and column, using the newline positions observed as
// bytes flowed through Read.
func (c *ChunkReader) LineCol(offset int64) (line, col int) {
	line = 1

	lineStart := int64(0)
	for _, nl := range c.newlineOffsets {
		if nl >= offset {
			break
		}

		line++

		lineStart = nl + 1
	}

	return line, int(offset-lineStart) + 1
}

var _ io.Reader = (*ChunkReader)(nil)
