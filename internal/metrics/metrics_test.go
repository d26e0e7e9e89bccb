package metrics

import (
	"bytes"
	"strings"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/jpalmerr/pasteboard/internal/store"
)

// parse round-trips the collector output through the Prometheus text parser.
func parse(t *testing.T, c *Collector) map[string]*dto.MetricFamily {
	t.Helper()

	var buf bytes.Buffer
	if err := c.WriteText(&buf); err != nil {
		t.Fatalf("WriteText() error = %v", err)
	}

	var parser expfmt.TextParser
	mfs, err := parser.TextToMetricFamilies(&buf)
	if err != nil {
		t.Fatalf("TextToMetricFamilies() error = %v\n%s", err, buf.String())
	}
	return mfs
}

func sampleValue(t *testing.T, mf *dto.MetricFamily, labelValue string) float64 {
	t.Helper()
	if mf == nil {
		t.Fatal("metric family missing")
	}
	for _, m := range mf.GetMetric() {
		lv := ""
		if len(m.GetLabel()) > 0 {
			lv = m.GetLabel()[0].GetValue()
		}
		if lv != labelValue {
			continue
		}
		if m.GetCounter() != nil {
			return m.GetCounter().GetValue()
		}
		return m.GetGauge().GetValue()
	}
	t.Fatalf("%s: no sample with label value %q", mf.GetName(), labelValue)
	return 0
}

func TestCollector_Counters(t *testing.T) {
	c := NewCollector(nil, nil)

	c.ObserveClipboardPaste()
	c.ObserveClipboardPaste()
	c.ObserveKeyedPaste()
	c.ObserveLookup(LookupFound)
	c.ObserveLookup(LookupNotFound)
	c.ObserveLookup(LookupNotFound)
	c.ObserveLookup(LookupBadRequest)
	c.ObserveLookup("bogus")
	c.ObserveTimeout()

	mfs := parse(t, c)

	tests := []struct {
		family string
		label  string
		want   float64
	}{
		{"pasteboard_pastes_total", "clipboard", 2},
		{"pasteboard_pastes_total", "keyed", 1},
		{"pasteboard_lookups_total", LookupFound, 1},
		{"pasteboard_lookups_total", LookupNotFound, 2},
		{"pasteboard_lookups_total", LookupBadRequest, 1},
		{"pasteboard_request_timeouts_total", "", 1},
	}
	for _, tt := range tests {
		if got := sampleValue(t, mfs[tt.family], tt.label); got != tt.want {
			t.Errorf("%s{%q} = %v, want %v", tt.family, tt.label, got, tt.want)
		}
	}

	// no store gauges without stores
	if _, ok := mfs["pasteboard_clipboard_entries"]; ok {
		t.Error("clipboard gauges present without a clipboard store")
	}
}

func TestCollector_StoreGauges(t *testing.T) {
	rs := store.NewRingStore(2)
	rs.Add(store.Entry{Data: "a"})
	rs.Add(store.Entry{Data: "b"})
	rs.Add(store.Entry{Data: "c"})

	ks := store.NewKeyedStore()
	ks.Add("x")

	mfs := parse(t, NewCollector(rs, ks))

	if got := sampleValue(t, mfs["pasteboard_clipboard_entries"], ""); got != 2 {
		t.Errorf("clipboard_entries = %v, want 2", got)
	}
	if got := sampleValue(t, mfs["pasteboard_clipboard_capacity"], ""); got != 2 {
		t.Errorf("clipboard_capacity = %v, want 2", got)
	}
	if got := sampleValue(t, mfs["pasteboard_clipboard_evictions_total"], ""); got != 1 {
		t.Errorf("clipboard_evictions_total = %v, want 1", got)
	}
	if got := sampleValue(t, mfs["pasteboard_keyed_entries"], ""); got != 1 {
		t.Errorf("keyed_entries = %v, want 1", got)
	}
}

func TestContentType(t *testing.T) {
	if !strings.HasPrefix(ContentType, "text/plain; version=0.0.4") {
		t.Errorf("ContentType = %q", ContentType)
	}
}
