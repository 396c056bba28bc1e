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

import "github.com/prometheus/client_golang/prometheus"

// metrics holds the scheduler's counters, exposed via Scheduler's own
// prometheus.Collector implementation so embedding applications can
// register the scheduler directly with a registry.
type metrics struct {
	lookups             prometheus.Counter
	candidatesScheduled prometheus.Counter
}

func newMetrics() *metrics {
	return &metrics{
		lookups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vast",
			Subsystem: "scheduler",
			Name:      "lookups_total",
			Help:      "Number of lookup(expression) calls received.",
		}),
		candidatesScheduled: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "vast",
			Subsystem: "scheduler",
			Name:      "candidates_scheduled_total",
			Help:      "Number of candidate partitions dispatched to workers.",
		}),
	}
}

func (m *metrics) describe(ch chan<- *prometheus.Desc) {
	m.lookups.Describe(ch)
	m.candidatesScheduled.Describe(ch)
}

func (m *metrics) collect(ch chan<- prometheus.Metric) {
	m.lookups.Collect(ch)
	m.candidatesScheduled.Collect(ch)
}
