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

// Package osmxml implements a streaming parser for OpenStreetMap XML (the
// "osm" and "osmChange" dialects), producing entities into arena-backed
// buffers sized for zero-copy downstream consumption.
package osmxml

import (
	"errors"
	"strconv"
)

// Error kinds from the parser's error handling design. Every one is
// fatal: the parser never resynchronizes and surfaces the error to the
// consumer through the output queue in order relative to buffers already
// produced.
var (
	// ErrEntitiesNotSupported is raised when the input declares an XML
	// entity, blocking expansion attacks.
	ErrEntitiesNotSupported = errors.New("osmxml: XML entity declarations are not supported")

	// ErrFormatVersion is raised when the root element's version
	// attribute is missing or not "0.6".
	ErrFormatVersion = errors.New("osmxml: root element version must be \"0.6\"")

	// ErrUnknownTopLevel is raised when the root element is neither
	// "osm" nor "osmChange".
	ErrUnknownTopLevel = errors.New("osmxml: root element must be osm or osmChange")

	// ErrSchemaViolation is raised for structurally invalid content that
	// is nonetheless well-formed XML, e.g. a relation member with an
	// unrecognized type or a zero ref.
	ErrSchemaViolation = errors.New("osmxml: schema violation")

	// ErrBufferFull is raised when an entity does not fit in the space
	// left in the current buffer. The parser does not move the entity to
	// a fresh buffer and retry, so an entity that would fit in an empty
	// buffer also fails when the current one lacks room for it.
	ErrBufferFull = errors.New("osmxml: entity does not fit in the current buffer")
)

// SyntaxError reports an XML well-formedness error at a specific
// position.
type SyntaxError struct {
	Line   int
	Column int
	Err    error
}

func (e *SyntaxError) Error() string {
	return "osmxml: " + strconv.Itoa(e.Line) + ":" + strconv.Itoa(e.Column) + ": " + e.Err.Error()
}

func (e *SyntaxError) Unwrap() error { return e.Err }
