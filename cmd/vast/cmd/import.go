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
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vast-io/vast/src/vast"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/verrors"
)

var importFlags struct {
	read   string
	uds    string
	schema string
}

var importCmd = &cobra.Command{
	Use:   "import <format>",
	Short: "ingest from stdin or socket",
	Args:  cobra.ExactArgs(1),
	RunE:  importExec,
}

func init() {
	importCmd.Flags().StringVar(&importFlags.read, "read", "", "path to read from instead of stdin")
	importCmd.Flags().StringVar(&importFlags.uds, "uds", "", "unix domain socket to read from instead of stdin")
	importCmd.Flags().StringVar(&importFlags.schema, "schema", "", "schema file (accepted for interface compatibility; json import self-describes)")
}

func importExec(_ *cobra.Command, args []string) error {
	format := args[0]
	if format != "json" {
		return verrors.New(verrors.InvalidArgument, "unsupported import format: "+format+" (only json is built in-tree)")
	}

	src, closeSrc, err := openImportSource()
	if err != nil {
		return err
	}
	defer closeSrc()

	log, _ := zap.NewProduction()
	defer log.Sync() //nolint:errcheck
	core := vast.New(vast.Options{Root: rootFlags.root, Logger: log})

	slices := make(chan vast.TableSlice)
	ingestDone := make(chan struct{})
	go func() {
		defer close(ingestDone)
		core.AddInboundPath(slices)
	}()

	n, err := decodeJSONLines(src, slices)
	close(slices)
	<-ingestDone
	core.Close()
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "imported %d rows\n", n)
	return nil
}

func openImportSource() (io.Reader, func(), error) {
	switch {
	case importFlags.read != "":
		f, err := os.Open(importFlags.read)
		if err != nil {
			return nil, nil, verrors.Wrap(verrors.IOError, err, "open --read path")
		}
		return f, func() { f.Close() }, nil
	case importFlags.uds != "":
		return nil, nil, verrors.New(verrors.InvalidArgument, "--uds is sketched only; no listener is wired in this tree")
	default:
		return os.Stdin, func() {}, nil
	}
}

// decodeJSONLines decodes one JSON object per line, each becoming a
// single-row TableSlice.
func decodeJSONLines(r io.Reader, slices chan<- vast.TableSlice) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	n := 0
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var obj map[string]interface{}
		if err := json.Unmarshal(line, &obj); err != nil {
			return n, verrors.Wrap(verrors.FormatError, err, "decode json line")
		}
		layout, row := jsonRecord(obj)
		slices <- vast.TableSlice{Layout: layout, Rows: []vdata.Record{row}}
		n++
	}
	if err := scanner.Err(); err != nil {
		return n, verrors.Wrap(verrors.IOError, err, "read import source")
	}
	return n, nil
}
