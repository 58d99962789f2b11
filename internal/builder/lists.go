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
	"time"

	"m4o.io/osmxml/internal/arena"
	"m4o.io/osmxml/model"
)

const locationSize = 8 // Lon int32 + Lat int32

func putLocation(dst []byte, lon, lat int32) {
	binary.LittleEndian.PutUint32(dst[0:4], uint32(lon))
	binary.LittleEndian.PutUint32(dst[4:8], uint32(lat))
}

func getLocation(src []byte) model.Location {
	return model.Location{
		Lon: int32(binary.LittleEndian.Uint32(src[0:4])),
		Lat: int32(binary.LittleEndian.Uint32(src[4:8])),
	}
}

// TagListBuilder appends (key, value) pairs as NUL-terminated strings in
// source order.
type TagListBuilder struct {
	*Builder
}

// NewTagListBuilder starts a tag-list sublist inside parent.
func NewTagListBuilder(buf *arena.Buffer, parent *Builder) (*TagListBuilder, error) {
	b, err := New(buf, parent)
	if err != nil {
		return nil, err
	}

	return &TagListBuilder{Builder: b}, nil
}

// AddTag appends one (key, value) pair.
func (t *TagListBuilder) AddTag(key, value string) error {
	k := append([]byte(key), 0)

	n, err := t.Append(k)
	if err != nil {
		return err
	}

	t.AddSize(n)

	v := append([]byte(value), 0)

	n, err = t.Append(v)
	if err != nil {
		return err
	}

	t.AddSize(n)

	return nil
}

// NodeRefListKind discriminates the three list shapes NodeRefListBuilder
// can produce; all three share the same fixed-size record layout.
type NodeRefListKind int32

const (
	WayNodeList NodeRefListKind = iota
	OuterRing
	InnerRing
)

// NodeRefListBuilder appends fixed-size NodeRef records in source order.
// Kind only labels the sublist for the decode side; it does not change the
// record layout.
type NodeRefListBuilder struct {
	*Builder

	Kind NodeRefListKind
}

// NewNodeRefListBuilder starts a node-ref sublist of the given kind inside
// parent. The kind is written as a 4-byte tag at the front of the section
// so a decoder can tell an Area's outer rings from its inner ones without
// tracking builder-side state; a Way's single WayNodeList carries the tag
// too, for uniformity.
func NewNodeRefListBuilder(buf *arena.Buffer, parent *Builder, kind NodeRefListKind) (*NodeRefListBuilder, error) {
	b, err := New(buf, parent)
	if err != nil {
		return nil, err
	}

	tag, err := b.ReserveSpace(4)
	if err != nil {
		return nil, err
	}

	binary.LittleEndian.PutUint32(tag, uint32(kind))
	b.AddSize(4)

	return &NodeRefListBuilder{Builder: b, Kind: kind}, nil
}

const nodeRefSize = 8 + locationSize // ID int64 + Location

// AddNodeRef appends one NodeRef record.
func (n *NodeRefListBuilder) AddNodeRef(ref model.NodeRef) error {
	rec, err := n.ReserveSpace(nodeRefSize)
	if err != nil {
		return err
	}

	binary.LittleEndian.PutUint64(rec[0:8], uint64(ref.ID))
	putLocation(rec[8:], ref.Location.Lon, ref.Location.Lat)
	n.AddSize(nodeRefSize)

	return nil
}

const relationMemberRecordSize = 16 // Type uint32 + HasFullMember uint32 + ID int64

// RelationMemberListBuilder appends RelationMember records plus their
// role strings (and, optionally, a nested full-member item) in source
// order.
type RelationMemberListBuilder struct {
	*Builder
}

// NewRelationMemberListBuilder starts a member-list sublist inside parent.
func NewRelationMemberListBuilder(buf *arena.Buffer, parent *Builder) (*RelationMemberListBuilder, error) {
	b, err := New(buf, parent)
	if err != nil {
		return nil, err
	}

	return &RelationMemberListBuilder{Builder: b}, nil
}

// AddMember appends one member. fullMember, if non-nil, is a previously
// built, already-aligned item embedded verbatim after the role.
func (r *RelationMemberListBuilder) AddMember(m model.Member, fullMember []byte) error {
	rec, err := r.ReserveSpace(relationMemberRecordSize)
	if err != nil {
		return err
	}

	binary.LittleEndian.PutUint32(rec[0:4], uint32(m.Type))

	var hasFull uint32
	if fullMember != nil {
		hasFull = 1
	}

	binary.LittleEndian.PutUint32(rec[4:8], hasFull)
	binary.LittleEndian.PutUint64(rec[8:16], uint64(m.ID))
	r.AddSize(relationMemberRecordSize)

	role := append([]byte(m.Role), 0)

	n, err := r.Append(role)
	if err != nil {
		return err
	}

	r.AddSize(n)
	r.AddPadding(true)

	if fullMember != nil {
		n, err = r.AddItem(fullMember)
		if err != nil {
			return err
		}

		r.AddSize(n)
	}

	return nil
}

// ChangesetDiscussionBuilder appends Comments, each a (date, uid, user)
// header followed by its text, in source order.
type ChangesetDiscussionBuilder struct {
	*Builder
}

const commentHeaderSize = 16 // Date int64 + UID int32 + padding

// NewChangesetDiscussionBuilder starts a discussion sublist inside parent.
func NewChangesetDiscussionBuilder(buf *arena.Buffer, parent *Builder) (*ChangesetDiscussionBuilder, error) {
	b, err := New(buf, parent)
	if err != nil {
		return nil, err
	}

	return &ChangesetDiscussionBuilder{Builder: b}, nil
}

// AddComment appends a comment's (date, uid, user) header. AddCommentText
// must follow to supply the comment's text.
func (c *ChangesetDiscussionBuilder) AddComment(date time.Time, uid model.UID, user string) error {
	rec, err := c.ReserveSpace(commentHeaderSize)
	if err != nil {
		return err
	}

	binary.LittleEndian.PutUint64(rec[0:8], uint64(date.Unix()))
	binary.LittleEndian.PutUint32(rec[8:12], uint32(uid))
	c.AddSize(commentHeaderSize)

	u := append([]byte(user), 0)

	n, err := c.Append(u)
	if err != nil {
		return err
	}

	c.AddSize(n)

	return nil
}

// AddCommentText appends the text of the comment most recently opened by
// AddComment.
func (c *ChangesetDiscussionBuilder) AddCommentText(text string) error {
	data := append([]byte(text), 0)

	n, err := c.Append(data)
	if err != nil {
		return err
	}

	c.AddSize(n)

	return nil
}
