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
	"bytes"
	"encoding/binary"
	"fmt"
	"time"

	"m4o.io/osmxml/internal/arena"
	"m4o.io/osmxml/model"
)

// DecodeBuffer walks a committed Buffer's bytes (arena.Buffer.Bytes) and
// decodes each whole, aligned item into a model.Entity, in the order they
// were committed. It is the read-side counterpart of the builders, used by
// the consumer-facing decode helper and by tests verifying the
// size-prefix round-trip property.
func DecodeBuffer(data []byte) ([]model.Entity, error) {
	var entities []model.Entity

	for len(data) > 0 {
		sec, rest, err := arena.ReadSection(data)
		if err != nil {
			return entities, fmt.Errorf("builder: reading item: %w", err)
		}

		entity, err := decodeItem(sec.Body)
		if err != nil {
			return entities, fmt.Errorf("builder: decoding item: %w", err)
		}

		entities = append(entities, entity)
		data = rest
	}

	return entities, nil
}

func decodeItem(body []byte) (model.Entity, error) {
	if len(body) < HeaderRecordSize {
		return nil, fmt.Errorf("builder: item shorter than header record: %d bytes", len(body))
	}

	hdr := ReadHeaderRecord(body[:HeaderRecordSize])

	off := HeaderRecordSize
	if off+hdr.UserLen > len(body) {
		return nil, fmt.Errorf("builder: user field of length %d exceeds item", hdr.UserLen)
	}

	user := trimNUL(body[off : off+hdr.UserLen])
	off = arena.AlignUp(off + hdr.UserLen)

	rest := body[off:]

	tagSection, rest, err := arena.ReadSection(rest)
	if err != nil {
		return nil, fmt.Errorf("builder: reading tag list: %w", err)
	}

	tags, err := decodeTags(tagSection.Body)
	if err != nil {
		return nil, err
	}

	info := &model.Info{
		Version:   hdr.Version,
		UID:       hdr.UID,
		Timestamp: time.Unix(hdr.Timestamp, 0).UTC(),
		Changeset: hdr.Changeset,
		User:      user,
		Visible:   hdr.Visible,
	}

	switch hdr.Kind {
	case NodeKind:
		if len(rest) < locationSize {
			return nil, fmt.Errorf("builder: node item missing location")
		}

		return model.Node{ID: hdr.ID, Info: info, Tags: tags, Location: getLocation(rest)}, nil

	case WayKind:
		sec, _, err := arena.ReadSection(rest)
		if err != nil {
			return nil, fmt.Errorf("builder: reading way node list: %w", err)
		}

		_, refs := decodeNodeRefs(sec.Body)

		return model.Way{ID: hdr.ID, Info: info, Tags: tags, NodeRefs: refs}, nil

	case RelationKind:
		sec, _, err := arena.ReadSection(rest)
		if err != nil {
			return nil, fmt.Errorf("builder: reading relation member list: %w", err)
		}

		members, err := decodeMembers(sec.Body)
		if err != nil {
			return nil, err
		}

		return model.Relation{ID: hdr.ID, Info: info, Tags: tags, Members: members}, nil

	case ChangesetKind:
		if len(rest) < changesetBBoxSize {
			return nil, fmt.Errorf("builder: changeset item missing bounding box")
		}

		cs := model.Changeset{ID: hdr.ID, Info: info, Tags: tags, BoundingBox: decodeBoundingBox(rest[:changesetBBoxSize])}
		rest = rest[changesetBBoxSize:]

		if len(rest) > 0 {
			sec, _, err := arena.ReadSection(rest)
			if err != nil {
				return nil, fmt.Errorf("builder: reading discussion: %w", err)
			}

			discussion, err := decodeDiscussion(sec.Body)
			if err != nil {
				return nil, err
			}

			cs.Discussion = discussion
		}

		return cs, nil

	case AreaKind:
		area := model.Area{ID: hdr.ID, Info: info, Tags: tags}

		for len(rest) > 0 {
			sec, next, err := arena.ReadSection(rest)
			if err != nil {
				return nil, fmt.Errorf("builder: reading area ring: %w", err)
			}

			kind, refs := decodeNodeRefs(sec.Body)
			ring := model.Ring(refs)

			switch kind {
			case InnerRing:
				area.InnerRings = append(area.InnerRings, ring)
			default:
				area.OuterRings = append(area.OuterRings, ring)
			}

			rest = next
		}

		return area, nil

	default:
		return nil, fmt.Errorf("builder: unknown item kind %d", hdr.Kind)
	}
}

func trimNUL(b []byte) string {
	if i := bytes.IndexByte(b, 0); i >= 0 {
		return string(b[:i])
	}

	return string(b)
}

func readCStringAt(b []byte, off int) (string, int) {
	i := bytes.IndexByte(b[off:], 0)
	if i < 0 {
		return string(b[off:]), len(b)
	}

	return string(b[off : off+i]), off + i + 1
}

func decodeTags(body []byte) (model.Tags, error) {
	var tags model.Tags

	off := 0
	for off < len(body) {
		key, next := readCStringAt(body, off)

		if next >= len(body) {
			return nil, fmt.Errorf("builder: tag list missing value for key %q", key)
		}

		value, next2 := readCStringAt(body, next)
		tags = append(tags, model.Tag{Key: key, Value: value})
		off = next2
	}

	return tags, nil
}

func decodeNodeRefs(body []byte) (NodeRefListKind, []model.NodeRef) {
	if len(body) < 4 {
		return WayNodeList, nil
	}

	kind := NodeRefListKind(binary.LittleEndian.Uint32(body[0:4]))

	var refs []model.NodeRef

	for off := 4; off+nodeRefSize <= len(body); off += nodeRefSize {
		id := model.ID(binary.LittleEndian.Uint64(body[off : off+8]))
		loc := getLocation(body[off+8 : off+nodeRefSize])
		refs = append(refs, model.NodeRef{ID: id, Location: loc})
	}

	return kind, refs
}

func decodeMembers(body []byte) ([]model.Member, error) {
	var members []model.Member

	off := 0
	for off < len(body) {
		if off+relationMemberRecordSize > len(body) {
			return nil, fmt.Errorf("builder: truncated relation member record")
		}

		typ := model.EntityType(binary.LittleEndian.Uint32(body[off : off+4]))
		hasFull := binary.LittleEndian.Uint32(body[off+4:off+8]) != 0
		id := model.ID(binary.LittleEndian.Uint64(body[off+8 : off+16]))
		off += relationMemberRecordSize

		role, next := readCStringAt(body, off)
		off = arena.AlignUp(next)

		// AddMember pads the role with extra set, so a role that already
		// ends on a word boundary is followed by a full word of zeros.
		if off == next {
			off += arena.AlignWord
		}

		if hasFull {
			_, rest, err := arena.ReadSection(body[off:])
			if err != nil {
				return nil, fmt.Errorf("builder: reading embedded full member: %w", err)
			}

			off = len(body) - len(rest)
		}

		members = append(members, model.Member{ID: id, Type: typ, Role: role})
	}

	return members, nil
}

func decodeDiscussion(body []byte) (model.Discussion, error) {
	var discussion model.Discussion

	off := 0
	for off < len(body) {
		if off+commentHeaderSize > len(body) {
			return nil, fmt.Errorf("builder: truncated comment header")
		}

		date := int64(binary.LittleEndian.Uint64(body[off : off+8]))
		uid := model.UID(binary.LittleEndian.Uint32(body[off+8 : off+12]))
		off += commentHeaderSize

		user, next := readCStringAt(body, off)
		text, next2 := readCStringAt(body, next)
		off = next2

		discussion = append(discussion, model.Comment{
			Date: time.Unix(date, 0).UTC(),
			UID:  uid,
			User: user,
			Text: text,
		})
	}

	return discussion, nil
}
