package metrics

import "sepagateway/kit/observability"

type Service struct {
	m *observability.Metrics
}

func NewService(m *observability.Metrics) *Service {
	return &Service{m: m}
}

func (s *Service) Snapshot() map[string]int64 {
	if s.m == nil {
		return map[string]int64{}
	}
	return map[string]int64{
		"signatures_started":    s.m.SignaturesStarted.Load(),
		"signatures_failed":     s.m.SignaturesFailed.Load(),
		"mandates_stored":       s.m.MandatesStored.Load(),
		"mandates_invalidated":  s.m.MandatesInvalid.Load(),
		"direct_debits_created": s.m.DirectDebitsCreated.Load(),
		"orders_paid":           s.m.OrdersPaid.Load(),
		"recurring_failures":    s.m.RecurringFailures.Load(),
		"carts_cleared":         s.m.CartsCleared.Load(),
		"subscriptions_active":  s.m.SubscriptionsActive.Load(),
	}
}
