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
	"fmt"
	"strconv"
	"time"

	"m4o.io/osmxml/internal/arena"
	"m4o.io/osmxml/internal/builder"
	"m4o.io/osmxml/internal/xmltok"
	"m4o.io/osmxml/model"
)

// context is the parser's nested-context state, tracking how deep inside
// the current entity (or discussion) the last event left the tokenizer.
type context int

const (
	ctxRoot context = iota
	ctxTop
	ctxNode
	ctxWay
	ctxRelation
	ctxChangeset
	ctxIgnoredNode
	ctxIgnoredWay
	ctxIgnoredRelation
	ctxIgnoredChangeset
	ctxInObject
	ctxDiscussion
	ctxComment
	ctxCommentText
)

// objectBuilder is the common surface of NodeBuilder, WayBuilder,
// RelationBuilder, and ChangesetBuilder that endEntity needs once an
// entity's sublists have all been written.
type objectBuilder interface {
	Finish()
}

// machine drives the builders from SAX-style events, enforcing the OSM
// XML schema and managing the create/delete sections of an osmChange
// document.
type machine struct {
	cfg config

	ctx       context
	entityCtx context // which of ctxNode/Way/Relation/Changeset is open

	buf    *arena.Buffer
	output chan Result

	headerCh   chan HeaderResult
	headerSent bool
	header     model.Header

	inDelete bool

	node      *builder.NodeBuilder
	way       *builder.WayBuilder
	relation  *builder.RelationBuilder
	changeset *builder.ChangesetBuilder

	// pending* accumulate an open entity's sublist content in document
	// order. They are flushed into the arena as single, uninterrupted
	// sections by endEntity, rather than streamed as elements are seen,
	// so that a section exists (even empty) exactly once per entity
	// regardless of how tags and entity-specific children interleave in
	// the source document. The one exception is a changeset's discussion
	// section, which is written only when the changeset has comments.
	pendingLocation model.Location
	pendingTags     model.Tags
	pendingNodeRefs []model.NodeRef
	pendingMembers  []model.Member
	pendingBBox     *model.BoundingBox
	pendingComments model.Discussion

	curCommentDate time.Time
	curCommentUID  model.UID
	curCommentUser string
	commentText    []byte
}

func newMachine(cfg config) *machine {
	return &machine{
		cfg:             cfg,
		ctx:             ctxRoot,
		buf:             arena.NewBuffer(cfg.bufferCapacity),
		output:          make(chan Result, cfg.outputQueueSize),
		headerCh:        make(chan HeaderResult, 1),
		pendingLocation: model.UndefinedLocation,
	}
}

func (m *machine) fail(err error) {
	m.fulfillHeader(err)
	m.output <- Result{Err: err}
}

func (m *machine) fulfillHeader(err error) {
	if m.headerSent {
		return
	}

	m.headerSent = true
	m.headerCh <- HeaderResult{Header: m.header, Err: err}
}

// HandleStart processes a start_element event.
func (m *machine) HandleStart(ev xmltok.Event) error {
	switch m.ctx {
	case ctxRoot:
		return m.startRoot(ev)
	case ctxTop:
		return m.startTop(ev)
	case ctxNode:
		return m.startNode(ev)
	case ctxWay:
		return m.startWay(ev)
	case ctxRelation:
		return m.startRelation(ev)
	case ctxChangeset:
		return m.startChangeset(ev)
	case ctxDiscussion:
		return m.startDiscussion(ev)
	case ctxComment:
		return m.startComment(ev)
	case ctxIgnoredNode, ctxIgnoredWay, ctxIgnoredRelation, ctxIgnoredChangeset, ctxInObject, ctxCommentText:
		// Unknown grandchildren and ignored-entity children are
		// tolerated; only their matching end tag matters.
		return nil
	default:
		return nil
	}
}

func (m *machine) startRoot(ev xmltok.Event) error {
	switch ev.Name {
	case "osm", "osmChange":
		version := attrValue(ev.Attrs, "version")
		if version != "0.6" {
			return fmt.Errorf("%w: got %q", ErrFormatVersion, version)
		}

		m.header.Version = version
		m.header.Generator = attrValue(ev.Attrs, "generator")
		m.header.HasMultipleObjectVersions = ev.Name == "osmChange"
		m.ctx = ctxTop

		return nil
	default:
		return fmt.Errorf("%w: got %q", ErrUnknownTopLevel, ev.Name)
	}
}

func (m *machine) startTop(ev xmltok.Event) error {
	switch ev.Name {
	case "bounds":
		box := m.header.BoundingBox
		if box == nil {
			box = model.InitialBoundingBox()
			m.header.BoundingBox = box
		}

		minLon, err := parseDegreesAttr(ev.Attrs, "minlon")
		if err != nil {
			return err
		}

		minLat, err := parseDegreesAttr(ev.Attrs, "minlat")
		if err != nil {
			return err
		}

		maxLon, err := parseDegreesAttr(ev.Attrs, "maxlon")
		if err != nil {
			return err
		}

		maxLat, err := parseDegreesAttr(ev.Attrs, "maxlat")
		if err != nil {
			return err
		}

		box.ExpandWithLatLng(minLat, minLon)
		box.ExpandWithLatLng(maxLat, maxLon)

		return nil

	case "delete":
		m.inDelete = true

		return nil

	case "node", "way", "relation", "changeset":
		return m.startEntity(ev)

	default:
		return nil
	}
}

func entityKindOf(name string) model.EntityType {
	switch name {
	case "way":
		return model.WAY
	case "relation":
		return model.RELATION
	case "changeset":
		return model.CHANGESET
	default:
		return model.NODE
	}
}

func (m *machine) startEntity(ev xmltok.Event) error {
	m.fulfillHeader(nil)

	kind := entityKindOf(ev.Name)

	if !m.cfg.readTypes.Has(kind) {
		m.ctx = ignoredContextFor(kind)

		return nil
	}

	h, user, location, err := m.parseObjectAttrs(ev.Attrs, kind == model.NODE)
	if err != nil {
		return err
	}

	if m.inDelete {
		h.Visible = false
	}

	switch kind {
	case model.WAY:
		wb, err := builder.NewWayBuilder(m.buf, h)
		if err != nil {
			return err
		}

		if err := wb.AddUser(user); err != nil {
			return err
		}

		m.way = wb
		m.entityCtx, m.ctx = ctxWay, ctxWay

	case model.RELATION:
		rb, err := builder.NewRelationBuilder(m.buf, h)
		if err != nil {
			return err
		}

		if err := rb.AddUser(user); err != nil {
			return err
		}

		m.relation = rb
		m.entityCtx, m.ctx = ctxRelation, ctxRelation

	case model.CHANGESET:
		cb, err := builder.NewChangesetBuilder(m.buf, h)
		if err != nil {
			return err
		}

		if err := cb.AddUser(user); err != nil {
			return err
		}

		m.changeset = cb
		m.entityCtx, m.ctx = ctxChangeset, ctxChangeset

		if _, ok := attrOK(ev.Attrs, "min_lon"); ok {
			if err := m.expandChangesetBounds(ev); err != nil {
				return err
			}
		}

	default:
		nb, err := builder.NewNodeBuilder(m.buf, h)
		if err != nil {
			return err
		}

		if err := nb.AddUser(user); err != nil {
			return err
		}

		m.node = nb
		m.pendingLocation = location
		m.entityCtx, m.ctx = ctxNode, ctxNode
	}

	return nil
}

func (m *machine) expandChangesetBounds(ev xmltok.Event) error {
	minLon, err := parseDegreesAttr(ev.Attrs, "min_lon")
	if err != nil {
		return err
	}

	minLat, err := parseDegreesAttr(ev.Attrs, "min_lat")
	if err != nil {
		return err
	}

	maxLon, err := parseDegreesAttr(ev.Attrs, "max_lon")
	if err != nil {
		return err
	}

	maxLat, err := parseDegreesAttr(ev.Attrs, "max_lat")
	if err != nil {
		return err
	}

	box := model.InitialBoundingBox()
	box.ExpandWithLatLng(minLat, minLon)
	box.ExpandWithLatLng(maxLat, maxLon)
	m.pendingBBox = box

	return nil
}

func ignoredContextFor(kind model.EntityType) context {
	switch kind {
	case model.WAY:
		return ctxIgnoredWay
	case model.RELATION:
		return ctxIgnoredRelation
	case model.CHANGESET:
		return ctxIgnoredChangeset
	default:
		return ctxIgnoredNode
	}
}

func (m *machine) entityBuilder() objectBuilder {
	switch {
	case m.node != nil:
		return m.node
	case m.way != nil:
		return m.way
	case m.relation != nil:
		return m.relation
	case m.changeset != nil:
		return m.changeset
	default:
		return nil
	}
}

func (m *machine) parentBuilder() *builder.Builder {
	switch {
	case m.node != nil:
		return m.node.Builder
	case m.way != nil:
		return m.way.Builder
	case m.relation != nil:
		return m.relation.Builder
	case m.changeset != nil:
		return m.changeset.Builder
	default:
		return nil
	}
}

func (m *machine) startNode(ev xmltok.Event) error {
	if ev.Name != "tag" {
		return nil
	}

	m.pendingTags = append(m.pendingTags, parseTag(ev.Attrs))
	m.entityCtx, m.ctx = ctxNode, ctxInObject

	return nil
}

func (m *machine) startWay(ev xmltok.Event) error {
	switch ev.Name {
	case "nd":
		ref, err := parseNodeRef(ev.Attrs)
		if err != nil {
			return err
		}

		m.pendingNodeRefs = append(m.pendingNodeRefs, ref)

	case "tag":
		m.pendingTags = append(m.pendingTags, parseTag(ev.Attrs))

	default:
		return nil
	}

	m.entityCtx, m.ctx = ctxWay, ctxInObject

	return nil
}

func (m *machine) startRelation(ev xmltok.Event) error {
	switch ev.Name {
	case "member":
		member, err := parseMember(ev.Attrs)
		if err != nil {
			return err
		}

		m.pendingMembers = append(m.pendingMembers, member)

	case "tag":
		m.pendingTags = append(m.pendingTags, parseTag(ev.Attrs))

	default:
		return nil
	}

	m.entityCtx, m.ctx = ctxRelation, ctxInObject

	return nil
}

func (m *machine) startChangeset(ev xmltok.Event) error {
	switch ev.Name {
	case "discussion":
		m.ctx = ctxDiscussion

	case "tag":
		m.pendingTags = append(m.pendingTags, parseTag(ev.Attrs))
		m.entityCtx, m.ctx = ctxChangeset, ctxInObject

	default:
		return nil
	}

	return nil
}

func (m *machine) startDiscussion(ev xmltok.Event) error {
	if ev.Name != "comment" {
		return nil
	}

	date, err := parseTimestampAttr(ev.Attrs, "date")
	if err != nil {
		return err
	}

	uid, err := parseUIDAttr(ev.Attrs, "uid")
	if err != nil {
		return err
	}

	m.curCommentDate = date
	m.curCommentUID = uid
	m.curCommentUser = attrValue(ev.Attrs, "user")
	m.ctx = ctxComment

	return nil
}

func (m *machine) startComment(ev xmltok.Event) error {
	if ev.Name == "text" {
		m.commentText = m.commentText[:0]
		m.ctx = ctxCommentText
	}

	return nil
}

// HandleEnd processes an end_element event.
func (m *machine) HandleEnd(name string) error {
	switch m.ctx {
	case ctxInObject:
		m.ctx = m.entityCtx

		return nil

	case ctxCommentText:
		if name == "text" {
			m.pendingComments = append(m.pendingComments, model.Comment{
				Date: m.curCommentDate,
				UID:  m.curCommentUID,
				User: m.curCommentUser,
				Text: string(m.commentText),
			})

			m.ctx = ctxComment
		}

		return nil

	case ctxComment:
		if name == "comment" {
			m.ctx = ctxDiscussion
		}

		return nil

	case ctxDiscussion:
		if name == "discussion" {
			m.ctx = ctxChangeset
		}

		return nil

	case ctxNode, ctxWay, ctxRelation, ctxChangeset:
		return m.endEntity(name)

	case ctxIgnoredNode:
		return m.endIgnored(name, "node")
	case ctxIgnoredWay:
		return m.endIgnored(name, "way")
	case ctxIgnoredRelation:
		return m.endIgnored(name, "relation")
	case ctxIgnoredChangeset:
		return m.endIgnored(name, "changeset")

	case ctxTop:
		switch name {
		case "delete":
			m.inDelete = false
		case "osm", "osmChange":
			m.fulfillHeader(nil)
			m.ctx = ctxRoot
		}

		return nil

	case ctxRoot:
		return nil

	default:
		return nil
	}
}

func (m *machine) endIgnored(name, want string) error {
	if name == want {
		m.ctx = ctxTop
	}

	return nil
}

func (m *machine) endEntity(name string) error {
	switch name {
	case "node", "way", "relation", "changeset":
	default:
		return nil
	}

	ob := m.entityBuilder()
	if ob == nil {
		return nil
	}

	tl, err := builder.NewTagListBuilder(m.buf, m.parentBuilder())
	if err != nil {
		return err
	}

	for _, tag := range m.pendingTags {
		if err := tl.AddTag(tag.Key, tag.Value); err != nil {
			return err
		}
	}

	tl.Finish()

	switch {
	case m.node != nil:
		if err := m.node.AddLocation(m.pendingLocation.Lon, m.pendingLocation.Lat); err != nil {
			return err
		}

	case m.way != nil:
		nl, err := builder.NewNodeRefListBuilder(m.buf, m.parentBuilder(), builder.WayNodeList)
		if err != nil {
			return err
		}

		for _, ref := range m.pendingNodeRefs {
			if err := nl.AddNodeRef(ref); err != nil {
				return err
			}
		}

		nl.Finish()

	case m.relation != nil:
		ml, err := builder.NewRelationMemberListBuilder(m.buf, m.parentBuilder())
		if err != nil {
			return err
		}

		for _, member := range m.pendingMembers {
			if err := ml.AddMember(member, nil); err != nil {
				return err
			}
		}

		ml.Finish()

	case m.changeset != nil:
		if err := m.changeset.AddBoundingBox(m.pendingBBox); err != nil {
			return err
		}

		if len(m.pendingComments) > 0 {
			db, err := builder.NewChangesetDiscussionBuilder(m.buf, m.parentBuilder())
			if err != nil {
				return err
			}

			for _, c := range m.pendingComments {
				if err := db.AddComment(c.Date, c.UID, c.User); err != nil {
					return err
				}

				if err := db.AddCommentText(c.Text); err != nil {
					return err
				}
			}

			db.Finish()
		}
	}

	ob.Finish()

	m.buf.Commit()
	m.node, m.way, m.relation, m.changeset = nil, nil, nil, nil
	m.pendingLocation = model.UndefinedLocation
	m.pendingTags = nil
	m.pendingNodeRefs = nil
	m.pendingMembers = nil
	m.pendingBBox = nil
	m.pendingComments = nil
	m.ctx = ctxTop

	m.maybeFlush()

	return nil
}

// maybeFlush retires the current buffer once its committed prefix passes
// the configured flush threshold, handing the caller a fresh buffer of
// the same capacity.
func (m *machine) maybeFlush() {
	threshold := float64(m.buf.Capacity()) * m.cfg.flushThreshold
	if float64(m.buf.Committed()) <= threshold {
		return
	}

	m.flush()
}

func (m *machine) flush() {
	if m.buf.Committed() == 0 {
		return
	}

	full := arena.NewBuffer(m.buf.Capacity())
	m.buf.Swap(full)
	m.output <- Result{Buffer: full.Bytes()}
}

// HandleCharacters processes a characters event.
func (m *machine) HandleCharacters(text string) {
	if m.ctx == ctxCommentText {
		m.commentText = append(m.commentText, text...)

		return
	}

	m.commentText = m.commentText[:0]
}

func attrValue(attrs []xmltok.Attr, name string) string {
	v, _ := attrOK(attrs, name)

	return v
}

func attrOK(attrs []xmltok.Attr, name string) (string, bool) {
	for _, a := range attrs {
		if a.Name == name {
			return a.Value, true
		}
	}

	return "", false
}

func parseDegreesAttr(attrs []xmltok.Attr, name string) (model.Degrees, error) {
	v, ok := attrOK(attrs, name)
	if !ok {
		return 0, fmt.Errorf("%w: missing %q attribute", ErrSchemaViolation, name)
	}

	d, err := model.ParseDegrees(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrSchemaViolation, name, err)
	}

	return d, nil
}

func parseUIDAttr(attrs []xmltok.Attr, name string) (model.UID, error) {
	v, ok := attrOK(attrs, name)
	if !ok || v == "" {
		return 0, nil
	}

	n, err := strconv.ParseInt(v, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %v", ErrSchemaViolation, name, err)
	}

	return model.UID(n), nil
}

func parseTimestampAttr(attrs []xmltok.Attr, name string) (time.Time, error) {
	v, ok := attrOK(attrs, name)
	if !ok || v == "" {
		return time.Time{}, nil
	}

	t, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q: %v", ErrSchemaViolation, name, err)
	}

	return t, nil
}

func (m *machine) parseObjectAttrs(attrs []xmltok.Attr, isNode bool) (builder.HeaderRecord, string, model.Location, error) {
	var h builder.HeaderRecord

	h.Visible = true

	if v, ok := attrOK(attrs, "id"); ok {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return h, "", model.UndefinedLocation, fmt.Errorf("%w: id: %v", ErrSchemaViolation, err)
		}

		h.ID = model.ID(id)
	}

	if v, ok := attrOK(attrs, "version"); ok {
		n, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return h, "", model.UndefinedLocation, fmt.Errorf("%w: version: %v", ErrSchemaViolation, err)
		}

		h.Version = int32(n)
	}

	if v, ok := attrOK(attrs, "changeset"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return h, "", model.UndefinedLocation, fmt.Errorf("%w: changeset: %v", ErrSchemaViolation, err)
		}

		h.Changeset = n
	}

	if v, ok := attrOK(attrs, "visible"); ok {
		h.Visible = v == "true"
	}

	uid, err := parseUIDAttr(attrs, "uid")
	if err != nil {
		return h, "", model.UndefinedLocation, err
	}

	h.UID = uid

	ts, err := parseTimestampAttr(attrs, "timestamp")
	if err != nil {
		return h, "", model.UndefinedLocation, err
	}

	h.Timestamp = ts.Unix()

	location := model.UndefinedLocation

	if isNode {
		lonStr, hasLon := attrOK(attrs, "lon")
		latStr, hasLat := attrOK(attrs, "lat")

		if hasLon && hasLat {
			lon, err := model.ParseDegrees(lonStr)
			if err != nil {
				return h, "", model.UndefinedLocation, fmt.Errorf("%w: lon: %v", ErrSchemaViolation, err)
			}

			lat, err := model.ParseDegrees(latStr)
			if err != nil {
				return h, "", model.UndefinedLocation, fmt.Errorf("%w: lat: %v", ErrSchemaViolation, err)
			}

			location = model.LocationFromDegrees(lon, lat)
		}
	}

	return h, attrValue(attrs, "user"), location, nil
}

func parseTag(attrs []xmltok.Attr) model.Tag {
	return model.Tag{Key: attrValue(attrs, "k"), Value: attrValue(attrs, "v")}
}

func parseNodeRef(attrs []xmltok.Attr) (model.NodeRef, error) {
	v, ok := attrOK(attrs, "ref")
	if !ok {
		return model.NodeRef{}, fmt.Errorf("%w: nd missing ref", ErrSchemaViolation)
	}

	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return model.NodeRef{}, fmt.Errorf("%w: nd ref: %v", ErrSchemaViolation, err)
	}

	loc := model.UndefinedLocation

	lonStr, hasLon := attrOK(attrs, "lon")
	latStr, hasLat := attrOK(attrs, "lat")

	if hasLon && hasLat {
		lon, err := model.ParseDegrees(lonStr)
		if err != nil {
			return model.NodeRef{}, fmt.Errorf("%w: nd lon: %v", ErrSchemaViolation, err)
		}

		lat, err := model.ParseDegrees(latStr)
		if err != nil {
			return model.NodeRef{}, fmt.Errorf("%w: nd lat: %v", ErrSchemaViolation, err)
		}

		loc = model.LocationFromDegrees(lon, lat)
	}

	return model.NodeRef{ID: model.ID(id), Location: loc}, nil
}

func parseMember(attrs []xmltok.Attr) (model.Member, error) {
	typ, ok := attrOK(attrs, "type")
	if !ok {
		return model.Member{}, fmt.Errorf("%w: member missing type", ErrSchemaViolation)
	}

	var kind model.EntityType

	switch typ {
	case "n", "node":
		kind = model.NODE
	case "w", "way":
		kind = model.WAY
	case "r", "relation":
		kind = model.RELATION
	default:
		return model.Member{}, fmt.Errorf("%w: member type %q", ErrSchemaViolation, typ)
	}

	refStr, ok := attrOK(attrs, "ref")
	if !ok {
		return model.Member{}, fmt.Errorf("%w: member missing ref", ErrSchemaViolation)
	}

	ref, err := strconv.ParseInt(refStr, 10, 64)
	if err != nil || ref == 0 {
		return model.Member{}, fmt.Errorf("%w: member ref %q", ErrSchemaViolation, refStr)
	}

	return model.Member{ID: model.ID(ref), Type: kind, Role: attrValue(attrs, "role")}, nil
}
