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

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"m4o.io/osmxml/internal/arena"
	"m4o.io/osmxml/internal/xmltok"
)

// run is the parser's single producer goroutine: it feeds chunks from
// input into a ChunkReader, drives the tokenizer off it, and dispatches
// each event to the state machine, which owns the arena buffer and the
// output queue. run returns, and closes the output queue, once input is
// exhausted, a fatal error occurs, or the configured read types are
// satisfied with nothing left to build.
func run(m *machine, input <-chan Chunk) {
	defer close(m.output)

	reader := xmltok.NewChunkReader()

	go feed(reader, input)

	tok := xmltok.New(reader)

	for {
		ev, err := tok.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				m.flush()
				m.fulfillHeader(nil)

				return
			}

			reader.Close()

			perr := toParserError(err)

			var se *SyntaxError
			if errors.As(perr, &se) {
				slog.Error("osm xml parse failed", "error", perr, "line", se.Line, "column", se.Column)
			} else {
				slog.Error("osm xml parse failed", "error", perr)
			}

			m.fail(perr)

			return
		}

		if err := m.dispatch(ev); err != nil {
			reader.Close()

			perr := toParserError(err)
			slog.Error("osm xml schema violation", "error", perr)
			m.fail(perr)

			return
		}

		if m.headerSent && m.cfg.readTypes.IsEmpty() {
			reader.Close()

			return
		}
	}
}

// feed pumps Chunks from input into r until input closes or r is closed
// from the other side (early exit); once r is closed, pending and future
// Feed calls return immediately without blocking, so this loop still
// drains input rather than stalling the caller.
func feed(r *xmltok.ChunkReader, input <-chan Chunk) {
	for chunk := range input {
		if chunk.Err != nil {
			r.CloseWithError(chunk.Err)

			return
		}

		r.Feed(chunk.Data)
	}

	r.Close()
}

func (m *machine) dispatch(ev xmltok.Event) error {
	switch ev.Kind {
	case xmltok.StartElement:
		return m.HandleStart(ev)
	case xmltok.EndElement:
		return m.HandleEnd(ev.Name)
	case xmltok.Characters:
		m.HandleCharacters(ev.Text)

		return nil
	default:
		return nil
	}
}

// toParserError adapts a xmltok.SyntaxError, ErrEntitiesNotSupported, or
// arena.ErrBufferFull into the package's own error types, so callers never
// need to import internal/xmltok or internal/arena to inspect an error.
func toParserError(err error) error {
	var se *xmltok.SyntaxError
	if errors.As(err, &se) {
		return &SyntaxError{Line: se.Line, Column: se.Column, Err: se.Err}
	}

	if errors.Is(err, xmltok.ErrEntitiesNotSupported) {
		return ErrEntitiesNotSupported
	}

	if errors.Is(err, arena.ErrBufferFull) {
		return fmt.Errorf("%w: %w", ErrBufferFull, err)
	}

	return err
}
