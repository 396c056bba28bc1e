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
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/vast-io/vast/src/vast"
	"github.com/vast-io/vast/src/vast/expr"
	"github.com/vast-io/vast/src/vast/index"
	"github.com/vast-io/vast/src/vast/scheduler"
	"github.com/vast-io/vast/src/vast/vdata"
	"github.com/vast-io/vast/src/vast/verrors"
)

var exportCmd = &cobra.Command{
	Use:   "export <format> <expr>",
	Short: "run a query and write matching events",
	Args:  cobra.ExactArgs(2),
	RunE:  exportExec,
}

// resultLine is one line of this CLI's export codec: the archive
// interface's stream<event> collapsed to per-partition match counts.
// Turning a query's match bitmap into materialized events needs
// Core.Extract per completed partition; wiring that through this
// command's output is left for a real deployment's export path, so
// this sketch reports match counts instead.
type resultLine struct {
	Partition string `json:"partition"`
	Matches   uint64 `json:"matches"`
}

func exportExec(_ *cobra.Command, args []string) error {
	format, exprText := args[0], args[1]
	if format != "json" {
		return verrors.New(verrors.InvalidArgument, "unsupported export format: "+format+" (only json is built in-tree)")
	}
	pred, err := parseSimpleExpr(exprText)
	if err != nil {
		return err
	}

	log, _ := zap.NewProduction()
	defer log.Sync() //nolint:errcheck
	core := vast.New(vast.Options{Root: rootFlags.root, Logger: log})

	enc := json.NewEncoder(os.Stdout)
	client := &exportClient{enc: enc, done: make(chan struct{})}
	queryID, hits, scheduled := core.Lookup(pred, client)
	fmt.Fprintf(os.Stderr, "hits=%d scheduled=%d\n", hits, scheduled)
	if queryID != "" {
		core.Continue(queryID, hits)
	}
	<-client.done
	return nil
}

type exportClient struct {
	mu   sync.Mutex
	enc  *json.Encoder
	done chan struct{}
}

func (c *exportClient) Deliver(r scheduler.PartitionResult) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.enc.Encode(resultLine{Partition: r.PartitionID.String(), Matches: r.Matches.Cardinality()}) //nolint:errcheck
}

func (c *exportClient) Done() {
	close(c.done)
}

// parseSimpleExpr accepts the CLI's minimal ad hoc query syntax,
// "key=value", building a single string-equality predicate. It exists
// only to exercise lookup end-to-end from the command line; a full
// query language grammar is out of scope for this sketch.
func parseSimpleExpr(s string) (expr.Node, error) {
	parts := strings.SplitN(s, "=", 2)
	if len(parts) != 2 {
		return nil, verrors.New(verrors.ParseError, "expected key=value, got: "+s)
	}
	return expr.Predicate{
		Extractor: expr.KeyExtractor{Suffix: parts[0]},
		Op:        index.OpEqual,
		Data:      vdata.String(parts[1]),
	}, nil
}
