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

// Package arena implements the append-only, word-aligned byte Buffer that
// backs every OSM item the builders produce.
package arena

import "golang.org/x/exp/constraints"

// AlignWord is the alignment boundary every completed item and section
// must end on.
const AlignWord = 8

// AlignUp rounds n up to the next multiple of AlignWord.
func AlignUp[T constraints.Integer](n T) T {
	const mask = AlignWord - 1

	return (n + mask) &^ mask
}

// PaddingFor returns the number of zero bytes needed to bring n up to the
// next AlignWord boundary.
func PaddingFor[T constraints.Integer](n T) T {
	return AlignUp(n) - n
}
