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

// Chunk is one unit of the input character stream. Transport of the
// stream into the parser is left to the caller, who feeds Chunks over an
// ordinary Go channel; the channel itself is the bounded blocking input
// queue the concurrency model calls for. Err carries an upstream read
// error; once sent, no further Chunks should be fed.
type Chunk struct {
	Data []byte
	Err  error
}

// Result is one unit of the output queue: a committed Buffer's bytes
// (see arena.Buffer.Bytes), or a terminal error. Once Err is non-nil, no
// further Results follow.
type Result struct {
	Buffer []byte
	Err    error
}

// HeaderResult is delivered exactly once through the one-shot header
// promise.
type HeaderResult struct {
	Header model.Header
	Err    error
}
