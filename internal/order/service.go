package order

import (
	"context"
	"errors"
	"log"
	"time"

	"sepagateway/kit/broker"
	"sepagateway/kit/db"
)

// Service is the store-side order collaborator: it owns order records and turns
// cart and subscription side effects into events for the platform.
type Service struct {
	bus        broker.Publisher
	repository RepositoryContract
	now        func() time.Time
}

func NewService(bus broker.Publisher, repo RepositoryContract) *Service {
	return &Service{bus: bus, repository: repo, now: func() time.Time { return time.Now().UTC() }}
}

func (s *Service) Create(ctx context.Context, req CreateRequest) (*Order, error) {
	if err := ValidateCreateRequest(req); err != nil {
		log.Printf("layer=service component=order method=Create order_id=%s err=%v", req.ID, err)
		return nil, errors.Join(db.ErrInvalid, err)
	}
	o := ToOrder(req)
	if err := s.repository.Save(ctx, o); err != nil {
		log.Printf("layer=service component=order method=Create order_id=%s err=%v", req.ID, err)
		return nil, err
	}
	return o, nil
}

func (s *Service) Get(ctx context.Context, orderID string) (*Order, error) {
	o, err := s.repository.Get(ctx, orderID)
	if err != nil {
		log.Printf("layer=service component=order method=Get order_id=%s err=%v", orderID, err)
		return nil, err
	}
	return o, nil
}

// MarkPaid completes the order with the given transaction id (empty when nothing
// was debited). Completing an already paid order again is a no-op.
func (s *Service) MarkPaid(ctx context.Context, orderID, transactionID string) (*Order, error) {
	o, err := s.repository.Get(ctx, orderID)
	if err != nil {
		log.Printf("layer=service component=order method=MarkPaid order_id=%s err=%v", orderID, err)
		return nil, err
	}
	if o.Paid() {
		return o, nil
	}

	paidAt := s.now()
	o.Status = StatusProcessing
	o.TransactionID = transactionID
	o.PaidAt = &paidAt
	if err := s.repository.Save(ctx, o); err != nil {
		log.Printf("layer=service component=order method=MarkPaid order_id=%s transaction_id=%s err=%v", orderID, transactionID, err)
		return nil, err
	}

	amount := o.Total
	if o.Recurring {
		amount = o.InitialPayment
	}
	if s.bus != nil {
		s.bus.Publish(ctx, ToOrderPaidEvent(o, amount))
	}
	return o, nil
}

func (s *Service) ClearCart(ctx context.Context, o *Order) error {
	if s.bus == nil {
		return nil
	}
	if errs := s.bus.Publish(ctx, ToCartClearedEvent(o)); len(errs) > 0 {
		log.Printf("layer=service component=order method=ClearCart order_id=%s err=%v", o.ID, errs[0])
		return errors.Join(errs...)
	}
	return nil
}

func (s *Service) ActivateSubscriptions(ctx context.Context, o *Order) error {
	if !o.Recurring || s.bus == nil {
		return nil
	}
	if errs := s.bus.Publish(ctx, ToSubscriptionsActivatedEvent(o)); len(errs) > 0 {
		log.Printf("layer=service component=order method=ActivateSubscriptions order_id=%s err=%v", o.ID, errs[0])
		return errors.Join(errs...)
	}
	return nil
}
