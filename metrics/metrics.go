// Package metrics exports memkit region occupancy as Prometheus
// metrics, for hosts that embed the allocator in a long-running
// service. The core packages never import it.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/joshuapare/memkit/mem"
)

// Collector implements prometheus.Collector over an Allocator's
// regions. Each Collect snapshots RegionStats per region; snapshots
// take the region lock briefly, so scraping contends with allocation
// no more than any other caller.
type Collector struct {
	alloc *mem.Allocator

	capacity *prometheus.Desc
	used     *prometheus.Desc
	free     *prometheus.Desc
	largest  *prometheus.Desc
	frag     *prometheus.Desc
}

// NewCollector builds a collector for a. Register it with a
// prometheus.Registerer to expose the metrics.
func NewCollector(a *mem.Allocator) *Collector {
	labels := []string{"region"}
	return &Collector{
		alloc: a,
		capacity: prometheus.NewDesc(
			"memkit_region_capacity_bytes",
			"Arena capacity of the region",
			labels, nil),
		used: prometheus.NewDesc(
			"memkit_region_used_bytes",
			"Bytes currently allocated from the region",
			labels, nil),
		free: prometheus.NewDesc(
			"memkit_region_free_bytes",
			"Bytes currently free in the region",
			labels, nil),
		largest: prometheus.NewDesc(
			"memkit_region_largest_free_bytes",
			"Largest single free block in the region",
			labels, nil),
		frag: prometheus.NewDesc(
			"memkit_region_fragmentation_ratio",
			"Free-space fragmentation estimate (0 contiguous, approaching 1 unusable)",
			labels, nil),
	}
}

func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.capacity
	ch <- c.used
	ch <- c.free
	ch <- c.largest
	ch <- c.frag
}

func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for i := 0; i < c.alloc.Regions(); i++ {
		s, err := c.alloc.Stats(mem.Handle(i))
		if err != nil {
			continue
		}
		region := strconv.Itoa(i)
		ch <- prometheus.MustNewConstMetric(c.capacity, prometheus.GaugeValue,
			float64(s.Capacity), region)
		ch <- prometheus.MustNewConstMetric(c.used, prometheus.GaugeValue,
			float64(s.UsedBytes), region)
		ch <- prometheus.MustNewConstMetric(c.free, prometheus.GaugeValue,
			float64(s.FreeBytes), region)
		ch <- prometheus.MustNewConstMetric(c.largest, prometheus.GaugeValue,
			float64(s.LargestFree), region)
		ch <- prometheus.MustNewConstMetric(c.frag, prometheus.GaugeValue,
			s.Fragmentation, region)
	}
}
