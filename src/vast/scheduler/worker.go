// Copyright (c) 2026 the VAST authors.
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.

package scheduler

import (
	"sync"

	"github.com/pborman/uuid"

	"github.com/vast-io/vast/src/vast/bitmap"
	"github.com/vast-io/vast/src/vast/expr"
	"github.com/vast-io/vast/src/vast/index"
	"github.com/vast-io/vast/src/vast/vtype"
)

// partitionColumns is the resolved query_map entry for one partition:
// the layout needed to re-resolve which columns a predicate matches,
// the column indexers GetIndexers already narrowed down, and the
// partition's universe bitmap for negation.
type partitionColumns struct {
	id       uuid.UUID
	layout   vtype.Type
	indexers map[string]*index.Wrapper
	universe *bitmap.Bitmap
}

// worker evaluates one dispatched batch of partitions against an
// expression, evaluating every partition in its own goroutine and
// delivering each partition's result to the client as soon as it
// completes.
type worker struct{}

func (w *worker) run(e expr.Node, queryMap map[uuid.Array]partitionColumns, order []uuid.UUID, client Client) {
	var wg sync.WaitGroup
	for _, id := range order {
		cols, ok := queryMap[id.Array()]
		if !ok {
			continue
		}
		wg.Add(1)
		go func(cols partitionColumns) {
			defer wg.Done()
			matches, err := evaluate(e, cols)
			if err != nil {
				return
			}
			client.Deliver(PartitionResult{PartitionID: cols.id, Matches: matches})
		}(cols)
	}
	wg.Wait()
}
