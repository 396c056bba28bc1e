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

// Package cmd implements the vast command-line surface:
// start/import/export/status wired to the in-process core, with only
// a JSON line-delimited codec built in-tree.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vast-io/vast/src/vast/verrors"
)

var rootFlags struct {
	root string
}

// RootCmd is the top-level vast command.
var RootCmd = &cobra.Command{
	Use:   "vast",
	Short: "a partitioned, embeddable telemetry index and archive",
}

func init() {
	RootCmd.PersistentFlags().StringVar(&rootFlags.root, "root", ".", "on-disk root directory for the index and archive")
	RootCmd.AddCommand(startCmd, importCmd, exportCmd, statusCmd)
}

// Execute runs the CLI and exits with 0 on success, 1 on a generic
// error, or 2 on a configuration error.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCodeFor(err))
	}
}

func exitCodeFor(err error) int {
	if verr, ok := err.(*verrors.Error); ok && verr.Kind == verrors.InvalidArgument {
		return 2
	}
	return 1
}
