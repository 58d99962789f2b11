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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmxml/model"
)

func feedAll(t *testing.T, input chan Chunk, doc string) {
	t.Helper()

	input <- Chunk{Data: []byte(doc)}
	close(input)
}

func collectEntities(t *testing.T, results <-chan Result) []model.Entity {
	t.Helper()

	var entities []model.Entity

	for e := range Entities(results) {
		require.NoError(t, e.Error)
		entities = append(entities, e.Value)
	}

	return entities
}

func TestParseSimpleNode(t *testing.T) {
	doc := `<?xml version="1.0"?>
<osm version="0.6" generator="test">
  <bounds minlat="1.0" minlon="2.0" maxlat="3.0" maxlon="4.0"/>
  <node id="1" version="1" uid="7" user="alice" lat="51.5" lon="-0.1">
    <tag k="amenity" v="cafe"/>
  </node>
</osm>`

	p := NewParser()
	input := p.NewInputQueue()
	results, headerCh := p.Run(input)

	go feedAll(t, input, doc)

	header := <-headerCh
	require.NoError(t, header.Err)
	assert.Equal(t, "0.6", header.Header.Version)
	assert.Equal(t, "test", header.Header.Generator)
	require.NotNil(t, header.Header.BoundingBox)

	entities := collectEntities(t, results)
	require.Len(t, entities, 1)

	node, ok := entities[0].(model.Node)
	require.True(t, ok)
	assert.Equal(t, model.ID(1), node.ID)
	assert.Equal(t, "alice", node.Info.User)
	assert.Equal(t, model.Tags{{Key: "amenity", Value: "cafe"}}, node.Tags)
}

func TestParseInterleavedWayChildren(t *testing.T) {
	doc := `<osm version="0.6">
  <way id="5">
    <tag k="highway" v="residential"/>
    <nd ref="1"/>
    <tag k="name" v="Elm St"/>
    <nd ref="2"/>
    <nd ref="3"/>
  </way>
</osm>`

	p := NewParser()
	input := p.NewInputQueue()
	results, headerCh := p.Run(input)

	go feedAll(t, input, doc)

	header := <-headerCh
	require.NoError(t, header.Err)

	entities := collectEntities(t, results)
	require.Len(t, entities, 1)

	way, ok := entities[0].(model.Way)
	require.True(t, ok)
	assert.Equal(t, model.Tags{{Key: "highway", Value: "residential"}, {Key: "name", Value: "Elm St"}}, way.Tags)
	require.Len(t, way.NodeRefs, 3)
	assert.Equal(t, []model.ID{1, 2, 3}, []model.ID{way.NodeRefs[0].ID, way.NodeRefs[1].ID, way.NodeRefs[2].ID})
}

func TestParseChangesetWithBoundsAndDiscussion(t *testing.T) {
	doc := `<osm version="0.6">
  <changeset id="99" uid="3" user="dana"
             min_lon="-1.0" min_lat="-2.0" max_lon="1.0" max_lat="2.0">
    <tag k="comment" v="fix roads"/>
    <discussion>
      <comment date="2020-01-02T03:04:05Z" uid="9" user="reviewer">
        <text>looks good</text>
      </comment>
    </discussion>
  </changeset>
</osm>`

	p := NewParser()
	input := p.NewInputQueue()
	results, headerCh := p.Run(input)

	go feedAll(t, input, doc)

	header := <-headerCh
	require.NoError(t, header.Err)

	entities := collectEntities(t, results)
	require.Len(t, entities, 1)

	cs, ok := entities[0].(model.Changeset)
	require.True(t, ok)
	require.NotNil(t, cs.BoundingBox)
	assert.True(t, cs.BoundingBox.EqualWithin(&model.BoundingBox{Left: -1, Right: 1, Top: 2, Bottom: -2}, model.E5))
	require.Len(t, cs.Discussion, 1)
	assert.Equal(t, "reviewer", cs.Discussion[0].User)
	assert.Equal(t, "looks good", cs.Discussion[0].Text)
}

func TestParseChangesetWithoutBoundsOrDiscussion(t *testing.T) {
	doc := `<osm version="0.6">
  <changeset id="100" uid="1" user="gail"/>
</osm>`

	p := NewParser()
	input := p.NewInputQueue()
	results, headerCh := p.Run(input)

	go feedAll(t, input, doc)

	header := <-headerCh
	require.NoError(t, header.Err)

	entities := collectEntities(t, results)
	require.Len(t, entities, 1)

	cs := entities[0].(model.Changeset)
	assert.Nil(t, cs.BoundingBox)
	assert.Nil(t, cs.Discussion)
}

func TestParseReadTypesFilter(t *testing.T) {
	doc := `<osm version="0.6">
  <node id="1" lat="1.0" lon="1.0"/>
  <way id="2"><nd ref="1"/></way>
  <relation id="3"><member type="way" ref="2" role="outer"/></relation>
</osm>`

	p := NewParser(WithReadTypes(model.ReadWays))
	input := p.NewInputQueue()
	results, headerCh := p.Run(input)

	go feedAll(t, input, doc)

	header := <-headerCh
	require.NoError(t, header.Err)

	entities := collectEntities(t, results)
	require.Len(t, entities, 1)
	_, ok := entities[0].(model.Way)
	assert.True(t, ok)
}

func TestParseReadNoneExitsEarly(t *testing.T) {
	doc := `<osm version="0.6">
  <node id="1" lat="1.0" lon="1.0"/>
  <way id="2"><nd ref="1"/></way>
  <relation id="3"><member type="way" ref="2" role="outer"/></relation>
  <changeset id="4" uid="1" user="gail"/>
</osm>`

	p := NewParser(WithReadTypes(model.ReadNone))
	input := p.NewInputQueue()
	results, headerCh := p.Run(input)

	go feedAll(t, input, doc)

	header := <-headerCh
	require.NoError(t, header.Err)
	assert.Equal(t, "0.6", header.Header.Version)

	entities := collectEntities(t, results)
	assert.Empty(t, entities)
}

func TestParseRejectsEntityDeclaration(t *testing.T) {
	doc := `<?xml version="1.0"?>
<!DOCTYPE osm [<!ENTITY x "y">]>
<osm version="0.6"></osm>`

	p := NewParser()
	input := p.NewInputQueue()
	results, headerCh := p.Run(input)

	go feedAll(t, input, doc)

	header := <-headerCh
	require.Error(t, header.Err)
	assert.ErrorIs(t, header.Err, ErrEntitiesNotSupported)

	for range results {
	}
}

func TestParseRejectsWrongVersion(t *testing.T) {
	doc := `<osm version="0.5"></osm>`

	p := NewParser()
	input := p.NewInputQueue()
	results, headerCh := p.Run(input)

	go feedAll(t, input, doc)

	header := <-headerCh
	require.Error(t, header.Err)
	assert.ErrorIs(t, header.Err, ErrFormatVersion)

	for range results {
	}
}

func TestParseOsmChangeSetsMultipleObjectVersions(t *testing.T) {
	doc := `<osmChange version="0.6">
  <delete>
    <node id="1" lat="1.0" lon="1.0" visible="false"/>
  </delete>
</osmChange>`

	p := NewParser()
	input := p.NewInputQueue()
	results, headerCh := p.Run(input)

	go feedAll(t, input, doc)

	header := <-headerCh
	require.NoError(t, header.Err)
	assert.True(t, header.Header.HasMultipleObjectVersions)

	entities := collectEntities(t, results)
	require.Len(t, entities, 1)

	node := entities[0].(model.Node)
	assert.False(t, node.Info.Visible)
}

func TestParseEmptyDocumentFulfillsHeader(t *testing.T) {
	doc := `<osm version="0.6"></osm>`

	p := NewParser()
	input := p.NewInputQueue()
	results, headerCh := p.Run(input)

	go feedAll(t, input, doc)

	header := <-headerCh
	require.NoError(t, header.Err)

	entities := collectEntities(t, results)
	assert.Empty(t, entities)
}
