package metrics

import (
	"fmt"
	"io"
	"math"
	"sort"
	"strings"

	gethmetrics "github.com/ethereum/go-ethereum/metrics"
)

// WriteText writes every metric in r in the Prometheus text exposition
// format. Slash separated names become underscore separated and are
// prefixed with namespace when it is non-empty. Output is sorted by name.
func WriteText(w io.Writer, r gethmetrics.Registry, namespace string) error {
	var names []string
	values := make(map[string]interface{})
	r.Each(func(name string, m interface{}) {
		names = append(names, name)
		values[name] = m
	})
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		promName := promName(namespace, name)
		switch m := values[name].(type) {
		case *gethmetrics.Counter:
			writeType(&b, promName, "counter")
			fmt.Fprintf(&b, "%s %d\n", promName, m.Snapshot().Count())
		case *gethmetrics.Gauge:
			writeType(&b, promName, "gauge")
			fmt.Fprintf(&b, "%s %d\n", promName, m.Snapshot().Value())
		case *gethmetrics.Meter:
			ms := m.Snapshot()
			writeType(&b, promName, "gauge")
			fmt.Fprintf(&b, "%s_count %d\n", promName, ms.Count())
			fmt.Fprintf(&b, "%s_rate1 %s\n", promName, formatFloat(ms.Rate1()))
			fmt.Fprintf(&b, "%s_rate_mean %s\n", promName, formatFloat(ms.RateMean()))
		case *gethmetrics.Timer:
			ts := m.Snapshot()
			writeType(&b, promName, "summary")
			fmt.Fprintf(&b, "%s_count %d\n", promName, ts.Count())
			fmt.Fprintf(&b, "%s_sum %d\n", promName, ts.Sum())
			if ts.Count() > 0 {
				fmt.Fprintf(&b, "%s_min %d\n", promName, ts.Min())
				fmt.Fprintf(&b, "%s_max %d\n", promName, ts.Max())
				fmt.Fprintf(&b, "%s_mean %s\n", promName, formatFloat(ts.Mean()))
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// promName converts a slash or dot separated metric name to Prometheus
// format and prepends the namespace.
func promName(namespace, name string) string {
	sanitized := strings.NewReplacer("/", "_", ".", "_", "-", "_").Replace(name)
	if namespace != "" {
		return namespace + "_" + sanitized
	}
	return sanitized
}

// formatFloat formats a float64 for Prometheus output, handling special values.
func formatFloat(v float64) string {
	if math.IsInf(v, 1) {
		return "+Inf"
	}
	if math.IsInf(v, -1) {
		return "-Inf"
	}
	if math.IsNaN(v) {
		return "NaN"
	}
	return fmt.Sprintf("%g", v)
}

// writeType writes a TYPE line for a metric.
func writeType(b *strings.Builder, name, metricType string) {
	fmt.Fprintf(b, "# TYPE %s %s\n", name, metricType)
}
