package handlers

import (
	"sepagateway/internal/events"
)

// Register subscribes the audit, metrics and notification consumers to every
// lifecycle event. Nil handlers are skipped.
func Register(bus SubscriberContract, audit *AuditEvent, metrics *MetricsEvent, notify *NotificationEvent) {
	all := events.Names()

	if audit != nil {
		for _, name := range all {
			bus.Subscribe(name, audit.HandleAny)
		}
	}
	if metrics != nil {
		bus.Subscribe((events.CartCleared{}).Name(), metrics.HandleAny)
		bus.Subscribe((events.SubscriptionsActivated{}).Name(), metrics.HandleAny)
	}
	if notify != nil {
		bus.Subscribe((events.RecurringChargeFailed{}).Name(), notify.HandleRecurringChargeFailed)
		bus.Subscribe((events.SignatureFailed{}).Name(), notify.HandleSignatureFailed)
	}
}
