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

import "m4o.io/osmxml/model"

// changesetBBoxSize is the fixed record following a Changeset's tag list:
// two Locations (min then max corner), undefined when the changeset
// carried no min_lon/min_lat/max_lon/max_lat attributes.
const changesetBBoxSize = 2 * locationSize

// AddBoundingBox appends the changeset's edit-extent record. box may be
// nil, written as a pair of undefined Locations.
func (c *ChangesetBuilder) AddBoundingBox(box *model.BoundingBox) error {
	rec, err := c.ReserveSpace(changesetBBoxSize)
	if err != nil {
		return err
	}

	min, max := model.UndefinedLocation, model.UndefinedLocation

	if box != nil {
		min = model.LocationFromDegrees(box.Left, box.Bottom)
		max = model.LocationFromDegrees(box.Right, box.Top)
	}

	putLocation(rec[:locationSize], min.Lon, min.Lat)
	putLocation(rec[locationSize:], max.Lon, max.Lat)
	c.AddSize(changesetBBoxSize)

	return nil
}

// decodeBoundingBox is the read-side counterpart of AddBoundingBox. It
// returns nil when either corner is undefined.
func decodeBoundingBox(src []byte) *model.BoundingBox {
	min := getLocation(src[:locationSize])
	max := getLocation(src[locationSize:])

	if !min.Defined() || !max.Defined() {
		return nil
	}

	return &model.BoundingBox{
		Left:   min.LonDegrees(),
		Bottom: min.LatDegrees(),
		Right:  max.LonDegrees(),
		Top:    max.LatDegrees(),
	}
}
