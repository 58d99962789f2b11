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
	"m4o.io/osmxml/internal/arena"
)

// ObjectBuilder is the common base of NodeBuilder, WayBuilder,
// RelationBuilder, ChangesetBuilder, and AreaBuilder: on construction it
// reserves the item's fixed header record, including the user-length
// prefix, and writes the caller's HeaderRecord into it, so that any
// subsequent tag or sublist appends land past it.
type ObjectBuilder struct {
	*Builder

	headerOffset int
}

// newObject reserves a top-level item builder (parent nil) plus its fixed
// header record, and writes h into it.
func newObject(buf *arena.Buffer, h HeaderRecord) (ObjectBuilder, error) {
	b, err := New(buf, nil)
	if err != nil {
		return ObjectBuilder{}, err
	}

	headerOffset := buf.Offset()

	hdr, err := b.ReserveSpace(HeaderRecordSize)
	if err != nil {
		return ObjectBuilder{}, err
	}

	WriteHeaderRecord(hdr, h)
	b.AddSize(HeaderRecordSize)

	return ObjectBuilder{Builder: b, headerOffset: headerOffset}, nil
}

// AddUser appends the entity's user name as a NUL-terminated, padded
// string and back-patches the header's user-length field.
func (o *ObjectBuilder) AddUser(user string) error {
	data := append([]byte(user), 0)

	n, err := o.Append(data)
	if err != nil {
		return err
	}

	o.AddSize(n)
	o.AddPadding(false)
	o.Buffer().PutUint64At(o.headerOffset+offsetUserLen, uint64(n))

	return nil
}

// NodeBuilder builds a Node item: header, user, tags, then a fixed-size
// Location.
type NodeBuilder struct {
	ObjectBuilder
}

// NewNodeBuilder starts a Node item in buf.
func NewNodeBuilder(buf *arena.Buffer, h HeaderRecord) (*NodeBuilder, error) {
	h.Kind = NodeKind

	ob, err := newObject(buf, h)
	if err != nil {
		return nil, err
	}

	return &NodeBuilder{ObjectBuilder: ob}, nil
}

// AddLocation appends the node's fixed-size Location record.
func (n *NodeBuilder) AddLocation(lon, lat int32) error {
	rec, err := n.ReserveSpace(locationSize)
	if err != nil {
		return err
	}

	putLocation(rec, lon, lat)
	n.AddSize(locationSize)

	return nil
}

// WayBuilder builds a Way item: header, user, tags, then a WayNodeList.
type WayBuilder struct {
	ObjectBuilder
}

// NewWayBuilder starts a Way item in buf.
func NewWayBuilder(buf *arena.Buffer, h HeaderRecord) (*WayBuilder, error) {
	h.Kind = WayKind

	ob, err := newObject(buf, h)
	if err != nil {
		return nil, err
	}

	return &WayBuilder{ObjectBuilder: ob}, nil
}

// RelationBuilder builds a Relation item: header, user, tags, then a
// RelationMemberList.
type RelationBuilder struct {
	ObjectBuilder
}

// NewRelationBuilder starts a Relation item in buf.
func NewRelationBuilder(buf *arena.Buffer, h HeaderRecord) (*RelationBuilder, error) {
	h.Kind = RelationKind

	ob, err := newObject(buf, h)
	if err != nil {
		return nil, err
	}

	return &RelationBuilder{ObjectBuilder: ob}, nil
}

// ChangesetBuilder builds a Changeset item: header, user, tags, a
// bounding box record, then an optional Discussion.
type ChangesetBuilder struct {
	ObjectBuilder
}

// NewChangesetBuilder starts a Changeset item in buf.
func NewChangesetBuilder(buf *arena.Buffer, h HeaderRecord) (*ChangesetBuilder, error) {
	h.Kind = ChangesetKind

	ob, err := newObject(buf, h)
	if err != nil {
		return nil, err
	}

	return &ChangesetBuilder{ObjectBuilder: ob}, nil
}

// Kind discriminators stored in a HeaderRecord. These mirror
// model.EntityType but are redeclared here so the wire discriminator is
// pinned independent of any future reordering of model.EntityType's
// constants.
const (
	NodeKind      = 0
	WayKind       = 1
	RelationKind  = 2
	ChangesetKind = 3
	AreaKind      = 4
)
