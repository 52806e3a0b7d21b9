package observability

import "sync/atomic"

type Metrics struct {
	SignaturesStarted   atomic.Int64
	SignaturesFailed    atomic.Int64
	MandatesStored      atomic.Int64
	MandatesInvalid     atomic.Int64
	DirectDebitsCreated atomic.Int64
	OrdersPaid          atomic.Int64
	RecurringFailures   atomic.Int64
	CartsCleared        atomic.Int64
	SubscriptionsActive atomic.Int64
}

func NewMetrics() *Metrics {
	return &Metrics{}
}

func (m *Metrics) SignaturesStartedAdd(n int64) {
	m.SignaturesStarted.Add(n)
}

func (m *Metrics) SignaturesFailedAdd(n int64) {
	m.SignaturesFailed.Add(n)
}

func (m *Metrics) MandatesStoredAdd(n int64) {
	m.MandatesStored.Add(n)
}

func (m *Metrics) MandatesInvalidAdd(n int64) {
	m.MandatesInvalid.Add(n)
}

func (m *Metrics) DirectDebitsCreatedAdd(n int64) {
	m.DirectDebitsCreated.Add(n)
}

func (m *Metrics) OrdersPaidAdd(n int64) {
	m.OrdersPaid.Add(n)
}

func (m *Metrics) RecurringFailuresAdd(n int64) {
	m.RecurringFailures.Add(n)
}

func (m *Metrics) CartsClearedAdd(n int64) {
	m.CartsCleared.Add(n)
}

func (m *Metrics) SubscriptionsActivatedAdd(n int64) {
	m.SubscriptionsActive.Add(n)
}
