// Package metrics exposes Pasteboard counters in the Prometheus text format.
//
// Request-path counters are plain atomics updated by the server. Store
// gauges are read from the stores at gather time so they always reflect
// the state under the store's own lock.
package metrics

import (
	"io"
	"sort"
	"sync/atomic"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"
	"google.golang.org/protobuf/proto"

	"github.com/jpalmerr/pasteboard/internal/store"
)

// ContentType is the media type written by [Collector.WriteText].
const ContentType = "text/plain; version=" + expfmt.TextVersion + "; charset=utf-8"

// Lookup outcomes recorded by [Collector.ObserveLookup].
const (
	LookupFound      = "found"
	LookupNotFound   = "not_found"
	LookupBadRequest = "bad_request"
)

// Collector accumulates request counters and reads store gauges.
type Collector struct {
	clipboard store.Clipboard
	pastes    store.Pastes

	clipboardPastes atomic.Uint64
	keyedPastes     atomic.Uint64
	found           atomic.Uint64
	notFound        atomic.Uint64
	badRequest      atomic.Uint64
	timeouts        atomic.Uint64
}

// NewCollector creates a Collector reading gauges from the given stores.
// Either store may be nil, in which case its gauges are omitted.
func NewCollector(clipboard store.Clipboard, pastes store.Pastes) *Collector {
	return &Collector{clipboard: clipboard, pastes: pastes}
}

// ObserveClipboardPaste records a paste into the bounded clipboard.
func (c *Collector) ObserveClipboardPaste() { c.clipboardPastes.Add(1) }

// ObserveKeyedPaste records a paste into the keyed store.
func (c *Collector) ObserveKeyedPaste() { c.keyedPastes.Add(1) }

// ObserveTimeout records a request that exceeded its deadline.
func (c *Collector) ObserveTimeout() { c.timeouts.Add(1) }

// ObserveLookup records a keyed lookup by outcome. Unknown outcomes are ignored.
func (c *Collector) ObserveLookup(outcome string) {
	switch outcome {
	case LookupFound:
		c.found.Add(1)
	case LookupNotFound:
		c.notFound.Add(1)
	case LookupBadRequest:
		c.badRequest.Add(1)
	}
}

// Gather returns all metric families sorted by name.
func (c *Collector) Gather() []*dto.MetricFamily {
	families := []*dto.MetricFamily{
		counterFamily("pasteboard_pastes_total", "Entries submitted, by store.", "store", map[string]uint64{
			"clipboard": c.clipboardPastes.Load(),
			"keyed":     c.keyedPastes.Load(),
		}),
		counterFamily("pasteboard_lookups_total", "Keyed lookups, by result.", "result", map[string]uint64{
			LookupFound:      c.found.Load(),
			LookupNotFound:   c.notFound.Load(),
			LookupBadRequest: c.badRequest.Load(),
		}),
		counterFamily("pasteboard_request_timeouts_total", "Requests that exceeded the request deadline.", "", map[string]uint64{
			"": c.timeouts.Load(),
		}),
	}

	if c.clipboard != nil {
		stats := c.clipboard.Stats()
		families = append(families,
			gaugeFamily("pasteboard_clipboard_entries", "Entries currently held by the bounded clipboard.", float64(stats.Len)),
			gaugeFamily("pasteboard_clipboard_capacity", "Configured capacity of the bounded clipboard.", float64(stats.Capacity)),
			counterFamily("pasteboard_clipboard_evictions_total", "Entries evicted from the bounded clipboard.", "", map[string]uint64{
				"": stats.Evicted,
			}),
		)
	}
	if c.pastes != nil {
		families = append(families,
			gaugeFamily("pasteboard_keyed_entries", "Entries currently held by the keyed store.", float64(c.pastes.Len())),
		)
	}

	sort.Slice(families, func(i, j int) bool {
		return families[i].GetName() < families[j].GetName()
	})
	return families
}

// WriteText encodes all metric families in the Prometheus text format.
func (c *Collector) WriteText(w io.Writer) error {
	for _, mf := range c.Gather() {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return err
		}
	}
	return nil
}

// counterFamily builds a counter family with one sample per label value.
// An empty label name produces a single unlabelled sample.
func counterFamily(name, help, label string, values map[string]uint64) *dto.MetricFamily {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	mf := &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_COUNTER.Enum(),
	}
	for _, k := range keys {
		m := &dto.Metric{
			Counter: &dto.Counter{Value: proto.Float64(float64(values[k]))},
		}
		if label != "" {
			m.Label = []*dto.LabelPair{{Name: proto.String(label), Value: proto.String(k)}}
		}
		mf.Metric = append(mf.Metric, m)
	}
	return mf
}

func gaugeFamily(name, help string, value float64) *dto.MetricFamily {
	return &dto.MetricFamily{
		Name: proto.String(name),
		Help: proto.String(help),
		Type: dto.MetricType_GAUGE.Enum(),
		Metric: []*dto.Metric{{
			Gauge: &dto.Gauge{Value: proto.Float64(value)},
		}},
	}
}
