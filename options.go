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

import "m4o.io/osmxml/model"

const (
	// DefaultBufferCapacity is the reference Buffer capacity: 2,000,000
	// bytes.
	DefaultBufferCapacity = 2_000_000

	// DefaultFlushThreshold is the fraction of capacity at which a
	// buffer is retired to the output queue.
	DefaultFlushThreshold = 0.9

	// DefaultQueueDepth is the number of chunks/buffers the input and
	// output queues hold before the producer or the caller blocks.
	DefaultQueueDepth = 8
)

type config struct {
	bufferCapacity int
	flushThreshold float64
	readTypes      model.ReadTypes
	inputQueueSize int
	outputQueueSize int
}

// Option configures a Parser. defaultConfig supplies the reference values
// applied when no options are given.
type Option func(*config)

// WithBufferCapacity sets the fixed capacity of each arena buffer.
func WithBufferCapacity(n int) Option {
	return func(c *config) { c.bufferCapacity = n }
}

// WithFlushThreshold sets the fraction of capacity at which a buffer is
// retired to the output queue.
func WithFlushThreshold(f float64) Option {
	return func(c *config) { c.flushThreshold = f }
}

// WithReadTypes restricts which top-level entity kinds are built; entities
// outside the set are consumed and discarded. An empty set makes the
// parser exit immediately after the header.
func WithReadTypes(rt model.ReadTypes) Option {
	return func(c *config) { c.readTypes = rt }
}

// WithQueueDepth sets the depth of both the input and output queues.
func WithQueueDepth(n int) Option {
	return func(c *config) {
		c.inputQueueSize = n
		c.outputQueueSize = n
	}
}

var defaultConfig = config{
	bufferCapacity:  DefaultBufferCapacity,
	flushThreshold:  DefaultFlushThreshold,
	readTypes:       model.ReadAll,
	inputQueueSize:  DefaultQueueDepth,
	outputQueueSize: DefaultQueueDepth,
}

func newConfig(opts []Option) config {
	c := defaultConfig

	for _, opt := range opts {
		opt(&c)
	}

	return c
}
