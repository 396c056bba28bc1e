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

package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vast-io/vast/src/vast/verrors"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "report node state",
	RunE:  statusExec,
}

func statusExec(_ *cobra.Command, _ []string) error {
	info, err := os.Stat(rootFlags.root)
	if err != nil {
		if os.IsNotExist(err) {
			return verrors.New(verrors.InvalidArgument, "root does not exist: "+rootFlags.root)
		}
		return verrors.Wrap(verrors.IOError, err, "stat root")
	}
	if !info.IsDir() {
		return verrors.New(verrors.InvalidArgument, "root is not a directory: "+rootFlags.root)
	}
	archiveDir := rootFlags.root + "/archive"
	indexDir := rootFlags.root + "/index"
	fmt.Printf("root: %s\n", rootFlags.root)
	fmt.Printf("archive: %s (%s)\n", archiveDir, dirState(archiveDir))
	fmt.Printf("index: %s (%s)\n", indexDir, dirState(indexDir))
	return nil
}

func dirState(path string) string {
	if _, err := os.Stat(path); err != nil {
		return "absent"
	}
	return "present"
}
