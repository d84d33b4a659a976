package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	gethmetrics "github.com/ethereum/go-ethereum/metrics"
)

func TestWriteTextCounterAndGauge(t *testing.T) {
	r := gethmetrics.NewRegistry()
	c := gethmetrics.NewRegisteredCounter("ticket/generate/attempts", r)
	g := gethmetrics.NewRegisteredGauge("ticket/generate/secrets", r)
	c.Inc(42)
	g.Update(7)

	var buf bytes.Buffer
	if err := WriteText(&buf, r, "netpay"); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# TYPE netpay_ticket_generate_attempts counter\n",
		"netpay_ticket_generate_attempts 42\n",
		"# TYPE netpay_ticket_generate_secrets gauge\n",
		"netpay_ticket_generate_secrets 7\n",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteTextSorted(t *testing.T) {
	r := gethmetrics.NewRegistry()
	gethmetrics.NewRegisteredCounter("b/second", r).Inc(1)
	gethmetrics.NewRegisteredCounter("a/first", r).Inc(1)

	var buf bytes.Buffer
	if err := WriteText(&buf, r, ""); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	if strings.Index(out, "a_first") > strings.Index(out, "b_second") {
		t.Fatalf("output not sorted:\n%s", out)
	}
}

func TestWriteTextTimer(t *testing.T) {
	Enable()
	r := gethmetrics.NewRegistry()
	tm := gethmetrics.NewRegisteredTimer("ticket/generate/duration", r)
	tm.Update(3 * time.Millisecond)

	var buf bytes.Buffer
	if err := WriteText(&buf, r, ""); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "ticket_generate_duration_count 1\n") {
		t.Fatalf("timer count missing:\n%s", out)
	}
	if !strings.Contains(out, "ticket_generate_duration_max 3000000\n") {
		t.Fatalf("timer max missing:\n%s", out)
	}
}

func TestPromName(t *testing.T) {
	tests := []struct {
		namespace, name, want string
	}{
		{"", "ticket/verify/entries", "ticket_verify_entries"},
		{"netpay", "ticket/verify/entries", "netpay_ticket_verify_entries"},
		{"", "a.b-c", "a_b_c"},
	}
	for _, tt := range tests {
		if got := promName(tt.namespace, tt.name); got != tt.want {
			t.Errorf("promName(%q, %q) = %q, want %q", tt.namespace, tt.name, got, tt.want)
		}
	}
}

func TestStandardMetricsRegistered(t *testing.T) {
	for _, name := range []string{
		"ticket/generate/attempts",
		"ticket/generate/zero_divisors",
		"ticket/generate/hashrate",
		"ticket/generate/duration",
		"ticket/verify/entries",
	} {
		if Registry.Get(name) == nil {
			t.Errorf("metric %q not registered", name)
		}
	}
}

func TestSince(t *testing.T) {
	Enable()
	if !Enabled() {
		t.Fatal("Enabled() = false after Enable")
	}
	r := gethmetrics.NewRegistry()
	tm := gethmetrics.NewRegisteredTimer("t", r)
	d := Since(tm, time.Now().Add(-time.Millisecond))
	if d < time.Millisecond {
		t.Fatalf("Since = %v, want >= 1ms", d)
	}
	if tm.Snapshot().Count() != 1 {
		t.Fatalf("timer count = %d, want 1", tm.Snapshot().Count())
	}
}
