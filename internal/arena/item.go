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

package arena

import (
	"encoding/binary"
	"fmt"
)

// SizePrefixWidth is the width in bytes of every variable-length section's
// size prefix: one word.
const SizePrefixWidth = 8

// PutSizePrefix writes n, a byte count, into the first SizePrefixWidth
// bytes of dst.
func PutSizePrefix(dst []byte, n int) {
	binary.LittleEndian.PutUint64(dst, uint64(n))
}

// SizePrefix reads a size prefix written by PutSizePrefix.
func SizePrefix(src []byte) int {
	return int(binary.LittleEndian.Uint64(src))
}

// Section is a (sizePrefix, skip) cursor over one variable-length section
// of an item: the bytes immediately following the prefix, up to the
// prefix's declared length.
type Section struct {
	Size int
	Body []byte
}

// ReadSection parses one size-prefixed section starting at the front of
// buf and returns it along with the remainder of buf following the
// section's body. It is the read-side counterpart used to verify the
// round-trip property: walking sections by (size prefix, skip) must reach
// exactly the end of the item.
func ReadSection(buf []byte) (Section, []byte, error) {
	if len(buf) < SizePrefixWidth {
		return Section{}, nil, fmt.Errorf("arena: truncated size prefix, have %d bytes", len(buf))
	}

	size := SizePrefix(buf)
	start := SizePrefixWidth
	end := start + size

	if end > len(buf) {
		return Section{}, nil, fmt.Errorf("arena: section size %d exceeds remaining %d bytes", size, len(buf)-start)
	}

	next := AlignUp(end)
	if next > len(buf) {
		return Section{}, nil, fmt.Errorf("arena: aligned section end %d exceeds remaining %d bytes", next, len(buf))
	}

	return Section{Size: size, Body: buf[start:end]}, buf[next:], nil
}
