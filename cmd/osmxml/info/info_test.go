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

package info

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"m4o.io/osmxml/model"
)

const sampleDoc = `<osm version="0.6" generator="test-generator">
  <bounds minlat="51.28554" minlon="-0.511482" maxlat="51.69344" maxlon="0.335437"/>
  <node id="1" lat="51.5" lon="-0.1"/>
  <node id="2" lat="51.6" lon="-0.2"/>
  <way id="3"><nd ref="1"/><nd ref="2"/></way>
  <relation id="4"><member type="way" ref="3" role="outer"/></relation>
  <changeset id="5" uid="1" user="alice"/>
</osm>`

func TestRunInfoNotExtended(t *testing.T) {
	info := runInfo(strings.NewReader(sampleDoc), false)

	assert.Equal(t, "0.6", info.Version)
	assert.Equal(t, "test-generator", info.Generator)
	require.NotNil(t, info.BoundingBox)
	assert.True(t, info.BoundingBox.EqualWithin(
		&model.BoundingBox{Left: -0.511482, Right: 0.335437, Top: 51.69344, Bottom: 51.28554}, model.E6))
	assert.Equal(t, int64(0), info.NodeCount)
}

func TestRunInfoExtended(t *testing.T) {
	info := runInfo(strings.NewReader(sampleDoc), true)

	assert.Equal(t, int64(2), info.NodeCount)
	assert.Equal(t, int64(1), info.WayCount)
	assert.Equal(t, int64(1), info.RelationCount)
	assert.Equal(t, int64(1), info.ChangesetCount)
}

func TestRenderJSON(t *testing.T) {
	eh := &extendedHeader{
		Header:        model.Header{Version: "0.6", Generator: "test-generator"},
		NodeCount:     2,
		WayCount:      1,
		RelationCount: 1,
	}

	buf := &bytes.Buffer{}

	saved := out
	defer func() { out = saved }()

	out = buf

	renderJSON(eh, true)

	var got extendedHeader
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "0.6", got.Version)
	assert.Equal(t, int64(2), got.NodeCount)
	assert.Equal(t, int64(1), got.WayCount)
	assert.Equal(t, int64(1), got.RelationCount)
}

func TestRenderTxt(t *testing.T) {
	eh := &extendedHeader{
		Header:        model.Header{Version: "0.6", Generator: "test-generator"},
		NodeCount:     2,
		WayCount:      1,
		RelationCount: 1,
	}

	buf := &bytes.Buffer{}

	saved := out
	defer func() { out = saved }()

	out = buf

	renderTxt(eh, true)

	assert.Equal(t, `Version: 0.6
Generator: test-generator
HasMultipleObjectVersions: false
NodeCount: 2
WayCount: 1
RelationCount: 1
ChangesetCount: 0
`, buf.String())
}
