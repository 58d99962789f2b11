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

package builder

import (
	"encoding/binary"

	"m4o.io/osmxml/internal/arena"
	"m4o.io/osmxml/model"
)

// HeaderRecordSize is the fixed byte size of every item's leading record,
// written immediately after the item's back-patched length slot (see
// Builder.New): a kind discriminator, visibility flag, and the scalar
// fields common to Node, Way, Relation, and Changeset. It is a multiple of
// arena.AlignWord so the variable-length sections that follow start
// aligned.
const HeaderRecordSize = 48

const (
	offsetKind      = 0
	offsetFlags     = 4
	offsetID        = 8
	offsetVersion   = 16
	offsetUID       = 20
	offsetChangeset = 24
	offsetTimestamp = 32
	offsetUserLen   = 40

	flagVisible = 1 << 0
)

// HeaderRecord is the decoded form of an item's leading record.
type HeaderRecord struct {
	Kind      model.EntityType
	Visible   bool
	ID        model.ID
	Version   int32
	UID       model.UID
	Changeset int64
	Timestamp int64 // unix seconds
	UserLen   int
}

// WriteHeaderRecord writes h's scalar fields into the record previously
// reserved by newObject, past the item's length slot (owned and
// back-patched by the underlying Builder, not touched here).
func WriteHeaderRecord(dst []byte, h HeaderRecord) {
	binary.LittleEndian.PutUint32(dst[offsetKind:], uint32(h.Kind))

	var flags uint32
	if h.Visible {
		flags |= flagVisible
	}

	binary.LittleEndian.PutUint32(dst[offsetFlags:], flags)
	binary.LittleEndian.PutUint64(dst[offsetID:], uint64(h.ID))
	binary.LittleEndian.PutUint32(dst[offsetVersion:], uint32(h.Version))
	binary.LittleEndian.PutUint32(dst[offsetUID:], uint32(h.UID))
	binary.LittleEndian.PutUint64(dst[offsetChangeset:], uint64(h.Changeset))
	binary.LittleEndian.PutUint64(dst[offsetTimestamp:], uint64(h.Timestamp))
	binary.LittleEndian.PutUint64(dst[offsetUserLen:], uint64(h.UserLen))
}

// ReadHeaderRecord decodes a record written by WriteHeaderRecord. src
// starts at the record itself, past the item's length slot.
func ReadHeaderRecord(src []byte) HeaderRecord {
	flags := binary.LittleEndian.Uint32(src[offsetFlags:])

	return HeaderRecord{
		Kind:      model.EntityType(binary.LittleEndian.Uint32(src[offsetKind:])),
		Visible:   flags&flagVisible != 0,
		ID:        model.ID(binary.LittleEndian.Uint64(src[offsetID:])),
		Version:   int32(binary.LittleEndian.Uint32(src[offsetVersion:])),
		UID:       model.UID(binary.LittleEndian.Uint32(src[offsetUID:])),
		Changeset: int64(binary.LittleEndian.Uint64(src[offsetChangeset:])),
		Timestamp: int64(binary.LittleEndian.Uint64(src[offsetTimestamp:])),
		UserLen:   int(binary.LittleEndian.Uint64(src[offsetUserLen:])),
	}
}

// ItemLength reads the total byte length of an item, including its
// 8-byte length slot, given the item's bytes starting at that slot.
func ItemLength(item []byte) int {
	return arena.SizePrefixWidth + arena.SizePrefix(item)
}
