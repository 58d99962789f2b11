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

package osmxml

// Parser streams OpenStreetMap XML into arena-backed buffers. A Parser is
// reusable across Run calls but not safe for concurrent Run calls on the
// same instance; each Run starts its own producer goroutine over a fresh
// state machine and buffer.
type Parser struct {
	cfg config
}

// NewParser returns a Parser configured by opts, falling back to the
// reference defaults (see DefaultBufferCapacity, DefaultFlushThreshold,
// DefaultQueueDepth, and model.ReadAll) for anything not set.
func NewParser(opts ...Option) *Parser {
	return &Parser{cfg: newConfig(opts)}
}

// Run starts the parser's producer goroutine over input and returns two
// channels: the output queue of committed buffers, closed when the stream
// ends or a fatal error occurs; and the one-shot header promise, which
// receives exactly one HeaderResult once the root element (and its
// bounds, if any) has been read.
//
// The caller owns input: it must be fed in document order and closed (or
// given a final Chunk carrying a non-nil Err) when done. Run does not
// block; it returns as soon as the producer goroutine is started.
func (p *Parser) Run(input <-chan Chunk) (<-chan Result, <-chan HeaderResult) {
	m := newMachine(p.cfg)

	go run(m, input)

	return m.output, m.headerCh
}

// NewInputQueue allocates a Chunk channel sized to the depth given to
// WithQueueDepth (or DefaultQueueDepth), for callers that don't already
// have an input channel of their own.
func (p *Parser) NewInputQueue() chan Chunk {
	return make(chan Chunk, p.cfg.inputQueueSize)
}
