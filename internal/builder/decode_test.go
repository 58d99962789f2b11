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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmxml/internal/arena"
	"m4o.io/osmxml/model"
)

func TestRoundTripNode(t *testing.T) {
	buf := arena.NewBuffer(1024)

	nb, err := NewNodeBuilder(buf, HeaderRecord{ID: 1, Version: 2, UID: 3, Visible: true})
	require.NoError(t, err)
	require.NoError(t, nb.AddUser("alice"))

	tl, err := NewTagListBuilder(buf, nb.Builder)
	require.NoError(t, err)
	require.NoError(t, tl.AddTag("highway", "residential"))
	tl.Finish()

	require.NoError(t, nb.AddLocation(100, 200))
	nb.Finish()
	buf.Commit()

	entities, err := DecodeBuffer(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entities, 1)

	node, ok := entities[0].(model.Node)
	require.True(t, ok)
	assert.Equal(t, model.ID(1), node.ID)
	assert.Equal(t, model.Tags{{Key: "highway", Value: "residential"}}, node.Tags)
	assert.Equal(t, int32(100), node.Location.Lon)
	assert.Equal(t, int32(200), node.Location.Lat)
	assert.Equal(t, "alice", node.Info.User)
}

func TestRoundTripNodeNoTags(t *testing.T) {
	buf := arena.NewBuffer(1024)

	nb, err := NewNodeBuilder(buf, HeaderRecord{ID: 7})
	require.NoError(t, err)
	require.NoError(t, nb.AddUser(""))

	tl, err := NewTagListBuilder(buf, nb.Builder)
	require.NoError(t, err)
	tl.Finish()

	require.NoError(t, nb.AddLocation(1, 1))
	nb.Finish()
	buf.Commit()

	entities, err := DecodeBuffer(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entities, 1)

	node := entities[0].(model.Node)
	assert.Empty(t, node.Tags)
}

func TestRoundTripWay(t *testing.T) {
	buf := arena.NewBuffer(1024)

	wb, err := NewWayBuilder(buf, HeaderRecord{ID: 5})
	require.NoError(t, err)
	require.NoError(t, wb.AddUser("bob"))

	tl, err := NewTagListBuilder(buf, wb.Builder)
	require.NoError(t, err)
	tl.Finish()

	nl, err := NewNodeRefListBuilder(buf, wb.Builder, WayNodeList)
	require.NoError(t, err)
	require.NoError(t, nl.AddNodeRef(model.NodeRef{ID: 10, Location: model.Location{Lon: 1, Lat: 2}}))
	require.NoError(t, nl.AddNodeRef(model.NodeRef{ID: 11, Location: model.UndefinedLocation}))
	nl.Finish()

	wb.Finish()
	buf.Commit()

	entities, err := DecodeBuffer(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entities, 1)

	way := entities[0].(model.Way)
	require.Len(t, way.NodeRefs, 2)
	assert.Equal(t, model.ID(10), way.NodeRefs[0].ID)
	assert.Equal(t, model.ID(11), way.NodeRefs[1].ID)
}

func TestRoundTripRelation(t *testing.T) {
	buf := arena.NewBuffer(1024)

	rb, err := NewRelationBuilder(buf, HeaderRecord{ID: 9})
	require.NoError(t, err)
	require.NoError(t, rb.AddUser("carol"))

	tl, err := NewTagListBuilder(buf, rb.Builder)
	require.NoError(t, err)
	require.NoError(t, tl.AddTag("type", "multipolygon"))
	tl.Finish()

	ml, err := NewRelationMemberListBuilder(buf, rb.Builder)
	require.NoError(t, err)
	require.NoError(t, ml.AddMember(model.Member{ID: 1, Type: model.WAY, Role: "outer"}, nil))
	require.NoError(t, ml.AddMember(model.Member{ID: 2, Type: model.WAY, Role: "inner"}, nil))
	ml.Finish()

	rb.Finish()
	buf.Commit()

	entities, err := DecodeBuffer(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entities, 1)

	rel := entities[0].(model.Relation)
	require.Len(t, rel.Members, 2)
	assert.Equal(t, "outer", rel.Members[0].Role)
	assert.Equal(t, "inner", rel.Members[1].Role)
}

func TestRoundTripChangesetWithoutBoundsOrDiscussion(t *testing.T) {
	buf := arena.NewBuffer(1024)

	cb, err := NewChangesetBuilder(buf, HeaderRecord{ID: 42})
	require.NoError(t, err)
	require.NoError(t, cb.AddUser("dave"))

	tl, err := NewTagListBuilder(buf, cb.Builder)
	require.NoError(t, err)
	tl.Finish()

	require.NoError(t, cb.AddBoundingBox(nil))

	cb.Finish()
	buf.Commit()

	entities, err := DecodeBuffer(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entities, 1)

	cs := entities[0].(model.Changeset)
	assert.Nil(t, cs.BoundingBox)
	assert.Nil(t, cs.Discussion)
}

func TestRoundTripChangesetWithBoundsAndDiscussion(t *testing.T) {
	buf := arena.NewBuffer(1024)

	cb, err := NewChangesetBuilder(buf, HeaderRecord{ID: 43})
	require.NoError(t, err)
	require.NoError(t, cb.AddUser("erin"))

	tl, err := NewTagListBuilder(buf, cb.Builder)
	require.NoError(t, err)
	tl.Finish()

	box := &model.BoundingBox{Left: -1, Right: 1, Top: 2, Bottom: -2}
	require.NoError(t, cb.AddBoundingBox(box))

	db, err := NewChangesetDiscussionBuilder(buf, cb.Builder)
	require.NoError(t, err)

	when := time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, db.AddComment(when, 99, "frank"))
	require.NoError(t, db.AddCommentText("looks good"))
	db.Finish()

	cb.Finish()
	buf.Commit()

	entities, err := DecodeBuffer(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entities, 1)

	cs := entities[0].(model.Changeset)
	require.NotNil(t, cs.BoundingBox)
	assert.True(t, cs.BoundingBox.EqualWithin(box, model.E5))
	require.Len(t, cs.Discussion, 1)
	assert.Equal(t, "frank", cs.Discussion[0].User)
	assert.Equal(t, "looks good", cs.Discussion[0].Text)
	assert.Equal(t, when.Unix(), cs.Discussion[0].Date.Unix())
}

func TestRoundTripMultipleItems(t *testing.T) {
	buf := arena.NewBuffer(1024)

	for _, id := range []model.ID{1, 2, 3} {
		nb, err := NewNodeBuilder(buf, HeaderRecord{ID: id})
		require.NoError(t, err)
		require.NoError(t, nb.AddUser(""))

		tl, err := NewTagListBuilder(buf, nb.Builder)
		require.NoError(t, err)
		tl.Finish()

		require.NoError(t, nb.AddLocation(0, 0))
		nb.Finish()
		buf.Commit()
	}

	entities, err := DecodeBuffer(buf.Bytes())
	require.NoError(t, err)
	require.Len(t, entities, 3)

	for i, e := range entities {
		assert.Equal(t, model.ID(i+1), e.GetID())
	}
}
