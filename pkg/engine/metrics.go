// Copyright 2025 Sander Nunes
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

package engine

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes the engine's counters to the /metrics endpoint.
type Metrics struct {
	Queries            prometheus.Counter
	FeedbackHits       prometheus.Counter
	WebSearches        prometheus.Counter
	NoEvidenceAnswers  prometheus.Counter
	GenerationFailures prometheus.Counter
	Rebuilds           prometheus.Counter
	QueryDuration      prometheus.Histogram
}

// NewMetrics creates and registers the engine metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Queries: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellito_queries_total",
			Help: "Total queries answered",
		}),
		FeedbackHits: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellito_feedback_hits_total",
			Help: "Queries answered from the validated QnA store",
		}),
		WebSearches: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellito_web_searches_total",
			Help: "Web search calls issued",
		}),
		NoEvidenceAnswers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellito_no_evidence_answers_total",
			Help: "Queries answered with the fixed no-information response",
		}),
		GenerationFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellito_generation_failures_total",
			Help: "Chat completion calls that failed",
		}),
		Rebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "cellito_index_rebuilds_total",
			Help: "Corpus index rebuilds",
		}),
		QueryDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "cellito_query_duration_seconds",
			Help:    "End-to-end query duration in seconds",
			Buckets: prometheus.DefBuckets,
		}),
	}

	if reg != nil {
		reg.MustRegister(m.Queries, m.FeedbackHits, m.WebSearches,
			m.NoEvidenceAnswers, m.GenerationFailures, m.Rebuilds,
			m.QueryDuration)
	}
	return m
}
