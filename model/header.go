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

// Header is the contents of the root <osm> or <osmChange> element, fulfilled
// exactly once per stream (see the one-shot header promise in the parser
// runtime).
type Header struct {
	// Version is the value of the root element's version attribute.
	// Required to be "0.6"; empty when the attribute was absent.
	Version string `json:"version,omitempty"`

	// Generator is the root element's optional generator attribute.
	Generator string `json:"generator,omitempty"`

	// BoundingBox is the <bounds> child, if present.
	BoundingBox *BoundingBox `json:"bounding_box,omitempty"`

	// HasMultipleObjectVersions is set when the root element is
	// osmChange: such streams may carry more than one version of the
	// same entity id.
	HasMultipleObjectVersions bool `json:"has_multiple_object_versions,omitempty"`
}
