package readmodels

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"sepagateway/internal/audit"
	"sepagateway/internal/events"
	"sepagateway/kit/broker"
	"sepagateway/kit/db"
)

type Stage string

const (
	StageSignatureStarted Stage = "signature_started"
	StageSignatureFailed  Stage = "signature_failed"
	StageMandateSigned    Stage = "mandate_signed"
	StageDebitCreated     Stage = "debit_created"
	StagePaid             Stage = "paid"
	StageRecurringFailed  Stage = "recurring_failed"
)

// PaymentView is the latest known payment progress of one order.
type PaymentView struct {
	OrderID          string    `json:"order_id"`
	Subscriber       string    `json:"subscriber,omitempty"`
	Stage            Stage     `json:"stage"`
	SessionReference string    `json:"session_reference,omitempty"`
	Rum              string    `json:"rum,omitempty"`
	DirectDebitID    string    `json:"direct_debit_id,omitempty"`
	PaymentReference string    `json:"payment_reference,omitempty"`
	Amount           int64     `json:"amount,omitempty"`
	Reason           string    `json:"reason,omitempty"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// SubscriberView tracks the mandate a subscriber reference last held.
type SubscriberView struct {
	Subscriber string    `json:"subscriber"`
	Rum        string    `json:"rum"`
	Active     bool      `json:"active"`
	State      string    `json:"state,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type Projector struct {
	mu          sync.RWMutex
	payments    map[string]PaymentView
	subscribers map[string]SubscriberView
}

func NewProjector() *Projector {
	return &Projector{
		payments:    make(map[string]PaymentView),
		subscribers: make(map[string]SubscriberView),
	}
}

// Replay rebuilds the views from an audit trail written by audit.Service.
func (p *Projector) Replay(ctx context.Context, r io.Reader) error {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		line := sc.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry audit.Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			return errors.Join(db.ErrInternal, err)
		}
		if err := p.ApplyEntry(ctx, entry); err != nil {
			return err
		}
	}
	return sc.Err()
}

func (p *Projector) Apply(ctx context.Context, evt broker.Event) error {
	switch e := evt.(type) {
	case events.SignatureStarted:
		p.applySignatureStarted(e)
	case events.SignatureFailed:
		p.applySignatureFailed(e)
	case events.MandateStored:
		p.applyMandateStored(e)
	case events.MandateInvalidated:
		p.applyMandateInvalidated(e)
	case events.DirectDebitCreated:
		p.applyDirectDebitCreated(e)
	case events.OrderPaid:
		p.applyOrderPaid(e)
	case events.RecurringChargeFailed:
		p.applyRecurringChargeFailed(e)
	}
	return nil
}

func (p *Projector) ApplyEntry(ctx context.Context, entry audit.Entry) error {
	var evt broker.Event
	var err error
	switch entry.Event {
	case (events.SignatureStarted{}).Name():
		evt, err = decode[events.SignatureStarted](entry.Payload)
	case (events.SignatureFailed{}).Name():
		evt, err = decode[events.SignatureFailed](entry.Payload)
	case (events.MandateStored{}).Name():
		evt, err = decode[events.MandateStored](entry.Payload)
	case (events.MandateInvalidated{}).Name():
		evt, err = decode[events.MandateInvalidated](entry.Payload)
	case (events.DirectDebitCreated{}).Name():
		evt, err = decode[events.DirectDebitCreated](entry.Payload)
	case (events.OrderPaid{}).Name():
		evt, err = decode[events.OrderPaid](entry.Payload)
	case (events.RecurringChargeFailed{}).Name():
		evt, err = decode[events.RecurringChargeFailed](entry.Payload)
	default:
		return nil
	}
	if err != nil {
		return errors.Join(db.ErrInternal, err)
	}
	return p.Apply(ctx, evt)
}

func decode[T broker.Event](payload []byte) (broker.Event, error) {
	var e T
	if err := json.Unmarshal(payload, &e); err != nil {
		return nil, err
	}
	return e, nil
}

func (p *Projector) GetPayment(orderID string) (PaymentView, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.payments[orderID]
	return v, ok
}

func (p *Projector) GetSubscriber(reference string) (SubscriberView, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.subscribers[reference]
	return v, ok
}

// update applies fn to the view of orderID unless the view already holds newer data.
func (p *Projector) update(orderID string, at time.Time, fn func(v *PaymentView)) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur := p.payments[orderID]
	if at.Before(cur.UpdatedAt) {
		return
	}
	cur.OrderID = orderID
	fn(&cur)
	cur.UpdatedAt = at
	p.payments[orderID] = cur
}

func (p *Projector) applySignatureStarted(e events.SignatureStarted) {
	p.update(e.OrderID, e.At, func(v *PaymentView) {
		v.Stage = StageSignatureStarted
		v.Subscriber = e.SubscriberReference
		v.SessionReference = e.SessionReference
		v.Reason = ""
	})
}

func (p *Projector) applySignatureFailed(e events.SignatureFailed) {
	p.update(e.OrderID, e.At, func(v *PaymentView) {
		v.Stage = StageSignatureFailed
		v.Subscriber = e.SubscriberReference
		v.SessionReference = e.SessionReference
		v.Reason = e.Reason
	})
}

func (p *Projector) applyMandateStored(e events.MandateStored) {
	p.mu.Lock()
	p.subscribers[e.SubscriberReference] = SubscriberView{
		Subscriber: e.SubscriberReference,
		Rum:        e.Rum,
		Active:     true,
		State:      "active",
		UpdatedAt:  e.At,
	}
	p.mu.Unlock()

	if e.OrderID == "" {
		return
	}
	p.update(e.OrderID, e.At, func(v *PaymentView) {
		v.Stage = StageMandateSigned
		v.Subscriber = e.SubscriberReference
		v.Rum = e.Rum
		v.Reason = ""
	})
}

func (p *Projector) applyMandateInvalidated(e events.MandateInvalidated) {
	p.mu.Lock()
	defer p.mu.Unlock()
	cur, ok := p.subscribers[e.SubscriberReference]
	if ok && cur.Rum != "" && cur.Rum != e.Rum {
		return
	}
	cur.Subscriber = e.SubscriberReference
	cur.Rum = e.Rum
	cur.Active = false
	cur.State = e.State
	cur.UpdatedAt = e.At
	p.subscribers[e.SubscriberReference] = cur
}

func (p *Projector) applyDirectDebitCreated(e events.DirectDebitCreated) {
	p.update(e.OrderID, e.At, func(v *PaymentView) {
		v.Stage = StageDebitCreated
		v.Rum = e.Rum
		v.DirectDebitID = e.DirectDebitID
		v.PaymentReference = e.PaymentReference
		v.Amount = e.Amount
		v.Reason = ""
	})
}

func (p *Projector) applyOrderPaid(e events.OrderPaid) {
	p.update(e.OrderID, e.At, func(v *PaymentView) {
		v.Stage = StagePaid
		if v.DirectDebitID == "" {
			v.DirectDebitID = e.TransactionID
		}
		v.Amount = e.Amount
		v.Reason = ""
	})
}

func (p *Projector) applyRecurringChargeFailed(e events.RecurringChargeFailed) {
	p.update(e.OrderID, e.At, func(v *PaymentView) {
		v.Stage = StageRecurringFailed
		v.Subscriber = e.SubscriberReference
		v.Amount = e.Amount
		v.Reason = e.Reason
	})
}
