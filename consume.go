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
	"runtime"

	"github.com/destel/rill"

	"m4o.io/osmxml/internal/builder"
	"m4o.io/osmxml/model"
)

// Entities decodes each buffer off results concurrently across GOMAXPROCS
// workers, preserving buffer order, and flattens the decoded entities
// into a single ordered stream. A decode or upstream error ends the
// stream with that error as the final value's Error.
func Entities(results <-chan Result) <-chan rill.Try[model.Entity] {
	wrapped := make(chan rill.Try[[]byte])

	go func() {
		defer close(wrapped)

		for r := range results {
			if r.Err != nil {
				wrapped <- rill.Try[[]byte]{Error: r.Err}

				return
			}

			wrapped <- rill.Try[[]byte]{Value: r.Buffer}
		}
	}()

	decoded := rill.OrderedMap(wrapped, runtime.GOMAXPROCS(-1), builder.DecodeBuffer)

	return flatten(decoded)
}

func flatten(in <-chan rill.Try[[]model.Entity]) <-chan rill.Try[model.Entity] {
	out := make(chan rill.Try[model.Entity])

	go func() {
		defer close(out)

		for batch := range in {
			if batch.Error != nil {
				out <- rill.Try[model.Entity]{Error: batch.Error}

				return
			}

			for _, e := range batch.Value {
				out <- rill.Try[model.Entity]{Value: e}
			}
		}
	}()

	return out
}
