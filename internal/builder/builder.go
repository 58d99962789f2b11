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

// Package builder implements the hierarchical, arena-backed builders that
// assemble OSM entities (Node, Way, Relation, Changeset, Area) and their
// sublists (tags, node refs, members, discussion comments) into the
// word-aligned, size-prefixed binary layout described by the Buffer they
// write into.
package builder

import "m4o.io/osmxml/internal/arena"

// Builder is the base of every entity and sublist builder. It owns a
// back-patch offset into a word-sized size slot reserved when the builder
// was constructed: for a sublist builder this slot lives inside the
// parent's variable-length section; for a top-level entity builder it is
// the item's own length header, used by DecodeBuffer to walk item
// boundaries without parsing entity-specific content.
type Builder struct {
	buf        *arena.Buffer
	parent     *Builder
	sizeOffset int
	start      int
}

// New reserves this builder's size slot in buf and links it to parent (nil
// for a top-level entity builder), adding the slot's width to parent's
// size.
func New(buf *arena.Buffer, parent *Builder) (*Builder, error) {
	offset := buf.Offset()

	if _, err := buf.Reserve(arena.SizePrefixWidth); err != nil {
		return nil, err
	}

	b := &Builder{buf: buf, parent: parent, sizeOffset: offset, start: buf.Offset()}

	if parent != nil {
		parent.AddSize(arena.SizePrefixWidth)
	}

	return b, nil
}

// Buffer returns the Buffer this builder writes into.
func (b *Builder) Buffer() *arena.Buffer { return b.buf }

// SizeOffset returns the offset of this builder's back-patched size slot.
func (b *Builder) SizeOffset() int { return b.sizeOffset }

// Append writes data at the current write cursor and returns the number of
// bytes written. It does not touch the back-patched size; callers combine
// it with AddSize.
func (b *Builder) Append(data []byte) (int, error) {
	dst, err := b.buf.Reserve(len(data))
	if err != nil {
		return 0, err
	}

	copy(dst, data)

	return len(data), nil
}

// AppendZero writes a single zero byte, used for NUL string termination.
func (b *Builder) AppendZero() (int, error) {
	return b.Append([]byte{0})
}

// ReserveSpace returns a writable slice of exactly n bytes without
// updating the back-patched size; used for fixed-size scalar records such
// as NodeRef and RelationMember.
func (b *Builder) ReserveSpace(n int) ([]byte, error) {
	return b.buf.Reserve(n)
}

// AddSize increases this builder's back-patched size slot by n. Sublist
// builders call this after appending each element so that the parent's
// size prefix reflects the sublist's current total length.
func (b *Builder) AddSize(n int) {
	b.buf.AddUint64At(b.sizeOffset, uint64(n))

	if b.parent != nil {
		b.parent.AddSize(n)
	}
}

// AddPadding writes zero bytes to bring the write cursor to the next word
// boundary. If extra is true and the cursor is already aligned, a full
// word of padding is written anyway; this is used where a sublist element
// boundary must be unambiguous even at an alignment multiple.
func (b *Builder) AddPadding(extra bool) {
	pad := arena.PaddingFor(b.buf.Offset())

	if pad == 0 && extra {
		pad = arena.AlignWord
	}

	if pad == 0 {
		return
	}

	zeros, err := b.buf.Reserve(pad)
	if err != nil {
		// Padding never exceeds a word and the caller has already
		// reserved the content it pads; a full buffer here would have
		// failed on the preceding Append.
		panic(err)
	}

	for i := range zeros {
		zeros[i] = 0
	}

	b.AddSize(pad)
}

// AddItem appends a previously built, already-aligned nested item verbatim
// (used to embed a full member inside a RelationMember record).
func (b *Builder) AddItem(item []byte) (int, error) {
	return b.Append(item)
}

// Finish flushes trailing padding so the parent's cursor stays
// word-aligned. The padding counts toward the parent's size but not this
// builder's own, so a reader that skips a section by its size prefix and
// then aligns up (arena.ReadSection) lands on the next section. Every
// builder must have Finish called exactly once, in the reverse order of
// construction, mirroring the C++ original's destructor-time fixup.
func (b *Builder) Finish() {
	pad := arena.PaddingFor(b.buf.Offset())
	if pad == 0 {
		return
	}

	zeros, err := b.buf.Reserve(pad)
	if err != nil {
		panic(err)
	}

	for i := range zeros {
		zeros[i] = 0
	}

	if b.parent != nil {
		b.parent.AddSize(pad)
	}
}
