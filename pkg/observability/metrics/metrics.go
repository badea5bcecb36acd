package metrics

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

var (
	queriesAnswered atomic.Int64
	queriesRejected atomic.Int64
	queriesFallback atomic.Int64
)

func Init() {}

func ObserveAnswered() { queriesAnswered.Add(1) }
func ObserveRejected() { queriesRejected.Add(1) }
func ObserveFallback() { queriesFallback.Add(1) }

func WritePrometheus(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/plain; version=0.0.4")
	fmt.Fprintf(w, "# HELP mediflora_query_answered_total Number of queries answered by the engine.\n")
	fmt.Fprintf(w, "# TYPE mediflora_query_answered_total counter\n")
	fmt.Fprintf(w, "mediflora_query_answered_total %d\n", queriesAnswered.Load())

	fmt.Fprintf(w, "# HELP mediflora_query_rejected_total Number of queries rejected as invalid input.\n")
	fmt.Fprintf(w, "# TYPE mediflora_query_rejected_total counter\n")
	fmt.Fprintf(w, "mediflora_query_rejected_total %d\n", queriesRejected.Load())

	fmt.Fprintf(w, "# HELP mediflora_query_fallback_total Number of queries served with the degraded fallback answer.\n")
	fmt.Fprintf(w, "# TYPE mediflora_query_fallback_total counter\n")
	fmt.Fprintf(w, "mediflora_query_fallback_total %d\n", queriesFallback.Load())
}
