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

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDegrees(t *testing.T) {
	d, err := ParseDegrees("51.5074")
	require.NoError(t, err)
	assert.InDelta(t, 51.5074, float64(d), 1e-9)
}

func TestParseDegreesRejectsTrailingGarbage(t *testing.T) {
	_, err := ParseDegrees("51.5abc")
	assert.Error(t, err)
}

func TestLocationRoundTrip(t *testing.T) {
	loc := LocationFromDegrees(-0.1275, 51.5074)
	assert.InDelta(t, -0.1275, float64(loc.LonDegrees()), 1e-6)
	assert.InDelta(t, 51.5074, float64(loc.LatDegrees()), 1e-6)
	assert.True(t, loc.Defined())
}

func TestUndefinedLocation(t *testing.T) {
	assert.False(t, UndefinedLocation.Defined())
	assert.Equal(t, "undefined", UndefinedLocation.String())
}

func TestDegreesEqualWithin(t *testing.T) {
	a := Degrees(1.000001)
	b := Degrees(1.000002)

	assert.True(t, a.EqualWithin(b, E5))
	assert.False(t, a.EqualWithin(Degrees(1.1), E5))
}
