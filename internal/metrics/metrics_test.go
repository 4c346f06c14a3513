package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
)

func counterValue(t *testing.T, c prometheus.Counter) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.Write(&m); err != nil {
		t.Fatalf("read counter: %v", err)
	}
	return m.GetCounter().GetValue()
}

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	if err := g.Write(&m); err != nil {
		t.Fatalf("read gauge: %v", err)
	}
	return m.GetGauge().GetValue()
}

func TestRecorderCountsRows(t *testing.T) {
	var r Recorder

	ingested := RowsIngested.WithLabelValues("ownership")
	skipped := RowsSkipped.WithLabelValues("ownership", "mixed_breed")
	beforeIngested := counterValue(t, ingested)
	beforeSkipped := counterValue(t, skipped)

	r.RowIngested("ownership")
	r.RowSkipped("ownership", "mixed_breed")
	r.RowSkipped("ownership", "mixed_breed")

	if got := counterValue(t, ingested); got != beforeIngested+1 {
		t.Fatalf("expected ingested to increase by 1, got %f -> %f", beforeIngested, got)
	}
	if got := counterValue(t, skipped); got != beforeSkipped+2 {
		t.Fatalf("expected skipped to increase by 2, got %f -> %f", beforeSkipped, got)
	}
}

func TestSetGraphSize(t *testing.T) {
	SetGraphSize("ownership", 12, 7)

	if got := gaugeValue(t, GraphVertices.WithLabelValues("ownership")); got != 12 {
		t.Fatalf("expected 12 vertices, got %f", got)
	}
	if got := gaugeValue(t, GraphEdges.WithLabelValues("ownership")); got != 7 {
		t.Fatalf("expected 7 edges, got %f", got)
	}
}

func TestRecordAssemblyTracksResult(t *testing.T) {
	success := AssemblyRuns.WithLabelValues("success")
	failure := AssemblyRuns.WithLabelValues("failure")
	beforeSuccess := counterValue(t, success)
	beforeFailure := counterValue(t, failure)

	RecordAssembly(10*time.Millisecond, nil)
	if got := counterValue(t, success); got != beforeSuccess+1 {
		t.Fatalf("expected success runs to increase, got %f -> %f", beforeSuccess, got)
	}
	if got := counterValue(t, failure); got != beforeFailure {
		t.Fatalf("expected failure runs unchanged, got %f -> %f", beforeFailure, got)
	}
}

func TestRecordExportRunCountsErrors(t *testing.T) {
	before := counterValue(t, ExportErrors)

	RecordExportRun(time.Second, nil)
	if got := counterValue(t, ExportErrors); got != before {
		t.Fatalf("expected no error count on success, got %f -> %f", before, got)
	}

	RecordExportRun(time.Second, errors.New("session expired"))
	if got := counterValue(t, ExportErrors); got != before+1 {
		t.Fatalf("expected error count to increase, got %f -> %f", before, got)
	}
}
