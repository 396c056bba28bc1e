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

package vast

import (
	"os"
	"path/filepath"

	"github.com/pborman/uuid"

	"github.com/vast-io/vast/src/vast/verrors"
)

// indexPersister writes a partition's column indexes under
// <root>/index/<partition_uuid>/<column_name>. It implements
// partition.Persister.
type indexPersister struct {
	root string
}

func (p indexPersister) PersistColumn(partitionID uuid.UUID, column string, data []byte) error {
	dir := filepath.Join(p.root, "index", partitionID.String())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return verrors.Wrap(verrors.IOError, err, "create partition index directory")
	}
	path := filepath.Join(dir, column)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return verrors.Wrap(verrors.IOError, err, "write column index")
	}
	return nil
}
