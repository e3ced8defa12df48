// Copyright (C) 2024, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package sandbox

import (
	"time"

	"github.com/ava-labs/avalanchego/utils/metric"
	"github.com/ava-labs/avalanchego/utils/wrappers"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sandbox"

type metrics struct {
	calls        prometheus.Counter
	failedCalls  prometheus.Counter
	fuelConsumed prometheus.Counter
	deployed     prometheus.Gauge
	callDuration prometheus.Histogram
	call         metric.Averager
}

func newMetrics(r prometheus.Registerer) (*metrics, error) {
	call, err := metric.NewAverager(
		namespace+"_call",
		"time spent executing contract calls",
		r,
	)
	if err != nil {
		return nil, err
	}
	m := &metrics{
		calls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "calls",
			Help:      "number of contract calls",
		}),
		failedCalls: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "failed_calls",
			Help:      "number of contract calls that returned an error",
		}),
		fuelConsumed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "fuel_consumed",
			Help:      "fuel consumed by native contract calls",
		}),
		deployed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "deployed_contracts",
			Help:      "number of deployed contracts",
		}),
		callDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "call_duration_seconds",
			Help:      "duration of contract calls",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}),
		call: call,
	}

	errs := wrappers.Errs{}
	errs.Add(
		r.Register(m.calls),
		r.Register(m.failedCalls),
		r.Register(m.fuelConsumed),
		r.Register(m.deployed),
		r.Register(m.callDuration),
	)
	return m, errs.Err
}

func (m *metrics) recordCall(elapsed time.Duration, fuel uint64, err error) {
	m.calls.Inc()
	if err != nil {
		m.failedCalls.Inc()
	}
	m.fuelConsumed.Add(float64(fuel))
	m.callDuration.Observe(elapsed.Seconds())
	m.call.Observe(float64(elapsed))
}
