package metrics

import (
	"github.com/x-xyz/auctionhouse/base/log"
)

// LogClient stands in for the statsd client when no datadog agent is configured. Every metric
// becomes a debug line, so nothing is sent anywhere and no call ever fails.
type LogClient struct{}

func (lc *LogClient) emit(kind, name string, value interface{}, tags []string, rate float64) error {
	log.Log().WithFields(log.Fields{
		"metric": name,
		"kind":   kind,
		"value":  value,
		"tags":   tags,
		"rate":   rate,
	}).Debug("metric")
	return nil
}

func (lc *LogClient) Gauge(name string, value float64, tags []string, rate float64) error {
	return lc.emit("gauge", name, value, tags, rate)
}

func (lc *LogClient) Count(name string, value int64, tags []string, rate float64) error {
	return lc.emit("count", name, value, tags, rate)
}

func (lc *LogClient) Histogram(name string, value float64, tags []string, rate float64) error {
	return lc.emit("histogram", name, value, tags, rate)
}

// TimeInMilliseconds is a histogram of durations
func (lc *LogClient) TimeInMilliseconds(name string, value float64, tags []string, rate float64) error {
	return lc.emit("time_ms", name, value, tags, rate)
}
