package metrics

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestProm_RecordRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewProm(reg)

	c.RecordRequest("GET", "/users/me", 200, 15*time.Millisecond)
	c.RecordRequest("GET", "/users/me", 200, 5*time.Millisecond)
	c.RecordRequest("PUT", "/users/me", 0, time.Second)

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}
	found := false
	for _, mf := range families {
		if mf.GetName() != "marketplace_client_requests_total" {
			continue
		}
		found = true
		if len(mf.GetMetric()) != 2 {
			t.Fatalf("expected 2 series, got %d", len(mf.GetMetric()))
		}
		for _, m := range mf.GetMetric() {
			labels := map[string]string{}
			for _, l := range m.GetLabel() {
				labels[l.GetName()] = l.GetValue()
			}
			switch labels["method"] {
			case "GET":
				if m.GetCounter().GetValue() != 2 || labels["status_code"] != "200" {
					t.Errorf("GET series = %v %v", labels, m.GetCounter().GetValue())
				}
			case "PUT":
				if labels["status_code"] != "none" {
					t.Errorf("PUT without response: status_code = %q, want none", labels["status_code"])
				}
			}
		}
	}
	if !found {
		t.Error("marketplace_client_requests_total metric not found")
	}
}

func TestDump_TextFormat(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewProm(reg)
	c.RecordFailure("unauthorized")

	var buf bytes.Buffer
	if err := Dump(&buf, reg); err != nil {
		t.Fatalf("Dump: %v", err)
	}
	if !strings.Contains(buf.String(), `marketplace_client_failures_total{kind="unauthorized"} 1`) {
		t.Errorf("unexpected dump:\n%s", buf.String())
	}

	Nop{}.RecordFailure("x")
	Nop{}.RecordRequest("GET", "/", 200, 0)
}
