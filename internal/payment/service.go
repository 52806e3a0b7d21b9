package payment

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"

	"sepagateway/internal/mandate"
	"sepagateway/internal/order"
	"sepagateway/kit/broker"
	"sepagateway/kit/db"
	"sepagateway/kit/hapi"
	"sepagateway/kit/observability"
)

// Service drives a customer from checkout to a debited order: it reuses an active
// mandate when one exists, otherwise starts a signature session and finishes the
// payment when the customer comes back. Every call runs to completion on the
// caller's goroutine; shared state lives only in the stores.
type Service struct {
	cfg          Config
	gateway      hapi.Gateway
	orders       OrderServiceContract
	mandates     MandateRepositoryContract
	correlations CorrelationRepositoryContract
	bus          PublisherContract
	metrics      *observability.Metrics
	newNonce     func() string
}

func NewService(
	cfg Config,
	gateway hapi.Gateway,
	orders OrderServiceContract,
	mandates MandateRepositoryContract,
	correlations CorrelationRepositoryContract,
	bus PublisherContract,
	metrics *observability.Metrics,
) *Service {
	return &Service{
		cfg:          cfg.withDefaults(),
		gateway:      gateway,
		orders:       orders,
		mandates:     mandates,
		correlations: correlations,
		bus:          bus,
		metrics:      metrics,
		newNonce:     uuid.NewString,
	}
}

func (s *Service) Checkout(ctx context.Context, orderID string) (CheckoutResult, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		log.Printf("layer=service component=payment method=Checkout order_id=%s err=%v", orderID, err)
		return CheckoutResult{}, err
	}
	if o.Paid() {
		return CheckoutResult{}, ErrAlreadyPaid
	}

	d, err := s.DecidePaymentPath(ctx, o)
	if err != nil {
		return CheckoutResult{}, err
	}

	switch d.Path {
	case PathChargeDirect:
		txID, err := s.ChargeDirect(ctx, d.Mandate.Rum, o, o.Recurring)
		if err != nil {
			return CheckoutResult{}, err
		}
		return CheckoutResult{Result: "success", Redirect: s.cfg.ConfirmationURL(o.ID), TransactionID: txID}, nil
	default:
		href, err := s.InitiateSignature(ctx, d.Identity, o)
		if err != nil {
			return CheckoutResult{}, err
		}
		return CheckoutResult{Result: "success", Redirect: href}, nil
	}
}

func (s *Service) DecidePaymentPath(ctx context.Context, o *order.Order) (Decision, error) {
	id := IdentityFor(o)
	m, ok, err := s.ValidateActiveMandate(ctx, id)
	if err != nil {
		log.Printf("layer=service component=payment method=DecidePaymentPath order_id=%s subscriber=%s err=%v", o.ID, id, err)
		return Decision{}, err
	}
	if ok {
		return Decision{Path: PathChargeDirect, Identity: id, Mandate: m}, nil
	}
	return Decision{Path: PathInitiateSignature, Identity: id}, nil
}

// InitiateSignature opens a signature session at the processor and returns the
// hosted page the customer must be sent to. The session reference is stored
// against the order, replacing any earlier attempt.
func (s *Service) InitiateSignature(ctx context.Context, id mandate.Identity, o *order.Order) (string, error) {
	if err := mandate.ValidateIdentity(id); err != nil {
		return "", errors.Join(db.ErrInvalid, err)
	}
	root, err := s.gateway.EntryPoint(ctx)
	if err != nil {
		log.Printf("layer=service component=payment method=InitiateSignature order_id=%s err=%v", o.ID, err)
		return "", err
	}

	reference := newSessionReference(o.ID, s.newNonce())
	body := ToSignatureSessionRequest(s.cfg.CreditorReference, reference, id, o)
	session, err := s.gateway.Follow(ctx, root, hapi.Post(RelCreateOrders, body))
	if err != nil {
		log.Printf("layer=service component=payment method=InitiateSignature order_id=%s subscriber=%s err=%v", o.ID, id, err)
		return "", err
	}
	if remote := session.String("reference"); remote != "" {
		reference = remote
	}

	// A failure here leaves the remote session without a local pointer; it is
	// never cancelled and simply expires at the processor.
	if err := s.correlations.Put(ctx, o.ID, reference); err != nil {
		log.Printf("layer=service component=payment method=InitiateSignature order_id=%s reference=%s err=%v", o.ID, reference, err)
		return "", err
	}

	approval, ok := session.Link(RelUserApproval)
	if !ok || approval.Href == "" {
		return "", malformed("signature session has no user-approval link")
	}

	s.publish(ctx, ToSignatureStartedEvent(o.ID, id, reference))
	if s.metrics != nil {
		s.metrics.SignaturesStartedAdd(1)
	}
	return approval.Href, nil
}

// ResumeFromCallback handles the customer's return from the hosted pages. The
// session is looked up again by reference; links handed out earlier are not reused.
func (s *Service) ResumeFromCallback(ctx context.Context, orderID string) (CallbackResult, error) {
	if orderID == "" {
		return CallbackResult{}, ErrNoPendingOrder
	}
	reference, err := s.correlations.Get(ctx, orderID)
	if db.IsNotFound(err) {
		return CallbackResult{}, ErrNoPendingOrder
	}
	if err != nil {
		return CallbackResult{}, err
	}
	o, err := s.orders.Get(ctx, orderID)
	if db.IsNotFound(err) {
		return CallbackResult{}, ErrNoPendingOrder
	}
	if err != nil {
		return CallbackResult{}, err
	}
	if o.Paid() {
		return CallbackResult{Outcome: OutcomeCompleted, OrderID: o.ID, Redirect: s.cfg.ConfirmationURL(o.ID), TransactionID: o.TransactionID}, nil
	}

	root, err := s.gateway.EntryPoint(ctx)
	if err != nil {
		log.Printf("layer=service component=payment method=ResumeFromCallback order_id=%s err=%v", orderID, err)
		return CallbackResult{}, err
	}
	session, err := s.gateway.Follow(ctx, root, hapi.Get(RelGetOrders, map[string]string{
		"creditorReference": s.cfg.CreditorReference,
		"reference":         reference,
	}))
	if err != nil {
		log.Printf("layer=service component=payment method=ResumeFromCallback order_id=%s reference=%s err=%v", orderID, reference, err)
		return CallbackResult{}, err
	}

	id := IdentityFor(o)
	state := session.String("state")
	switch ClassifySessionState(state) {
	case SessionPending:
		approval, ok := session.Link(RelUserApproval)
		if !ok || approval.Href == "" {
			return CallbackResult{}, malformed("pending signature session has no user-approval link")
		}
		return CallbackResult{Outcome: OutcomeRedirect, OrderID: o.ID, Redirect: approval.Href}, nil

	case SessionCompleted:
		rum, err := s.CompleteSignature(ctx, id, session)
		if err != nil {
			return CallbackResult{}, err
		}
		txID, err := s.ChargeDirect(ctx, rum, o, o.Recurring)
		if err != nil {
			return CallbackResult{}, err
		}
		return CallbackResult{Outcome: OutcomeCompleted, OrderID: o.ID, Redirect: s.cfg.ConfirmationURL(o.ID), TransactionID: txID}, nil

	case SessionFailed:
		sigErr := &SignatureError{OrderID: o.ID, State: state}
		s.publish(ctx, ToSignatureFailedEvent(o.ID, id, reference, state, sigErr.Error()))
		if s.metrics != nil {
			s.metrics.SignaturesFailedAdd(1)
		}
		return CallbackResult{}, sigErr

	default:
		log.Printf("layer=service component=payment method=ResumeFromCallback order_id=%s reference=%s state=%q err=%v", orderID, reference, state, ErrUnknownState)
		return CallbackResult{}, &StateError{OrderID: o.ID, State: state}
	}
}

// CompleteSignature fetches the mandate created by a completed session and makes
// it the subscriber's active mandate.
func (s *Service) CompleteSignature(ctx context.Context, id mandate.Identity, session *hapi.Resource) (string, error) {
	res, err := s.gateway.Follow(ctx, session, hapi.Get(RelGetMandate, nil))
	if err != nil {
		log.Printf("layer=service component=payment method=CompleteSignature subscriber=%s err=%v", id, err)
		return "", err
	}
	rum := res.String("rum")
	if rum == "" {
		return "", malformed("mandate has no rum")
	}
	if err := s.mandates.Put(ctx, id, rum); err != nil {
		log.Printf("layer=service component=payment method=CompleteSignature subscriber=%s rum=%s err=%v", id, rum, err)
		return "", err
	}

	var orderID string
	if id.IsGuest() {
		orderID = id.ID()
	}
	s.publish(ctx, ToMandateStoredEvent(id, rum, orderID))
	if s.metrics != nil {
		s.metrics.MandatesStoredAdd(1)
	}
	return rum, nil
}

// ChargeDirect debits the order against rum and completes it. Orders with nothing
// to pay complete without a debit and without a transaction id.
func (s *Service) ChargeDirect(ctx context.Context, rum string, o *order.Order, recurring bool) (string, error) {
	amount, reference := o.Total, OrderPaymentReference(o.ID)
	if recurring {
		amount, reference = o.InitialPayment, SubscriptionPaymentReference(o.ID)
	}

	var txID string
	if amount.Positive() {
		recorded, err := s.recordedDebit(ctx, o.ID)
		if err != nil {
			return "", err
		}
		txID = recorded
	}
	if amount.Positive() && txID == "" {
		dd, err := s.createDirectDebit(ctx, o.ID, rum, reference, amount)
		if err != nil {
			return "", err
		}
		txID = dd.ID
		if s.correlations != nil {
			if err := s.correlations.PutDebit(ctx, o.ID, txID); err != nil {
				log.Printf("layer=service component=payment method=ChargeDirect order_id=%s transaction_id=%s step=record_debit err=%v", o.ID, txID, err)
			}
		}
	}

	if _, err := s.orders.MarkPaid(ctx, o.ID, txID); err != nil {
		log.Printf("layer=service component=payment method=ChargeDirect order_id=%s transaction_id=%s err=%v", o.ID, txID, err)
		return txID, err
	}
	if s.metrics != nil {
		s.metrics.OrdersPaidAdd(1)
	}
	if err := s.orders.ClearCart(ctx, o); err != nil {
		log.Printf("layer=service component=payment method=ChargeDirect order_id=%s step=clear_cart err=%v", o.ID, err)
	}
	if recurring {
		if err := s.orders.ActivateSubscriptions(ctx, o); err != nil {
			log.Printf("layer=service component=payment method=ChargeDirect order_id=%s step=activate_subscriptions err=%v", o.ID, err)
		}
	}
	return txID, nil
}

// recordedDebit returns the debit already created for an order whose completion
// failed after the debit, or "" when none is recorded. A store failure is returned
// so the caller does not debit blindly.
func (s *Service) recordedDebit(ctx context.Context, orderID string) (string, error) {
	if s.correlations == nil {
		return "", nil
	}
	id, err := s.correlations.GetDebit(ctx, orderID)
	if db.IsNotFound(err) {
		return "", nil
	}
	if err != nil {
		log.Printf("layer=service component=payment method=recordedDebit order_id=%s err=%v", orderID, err)
		return "", err
	}
	return id, nil
}

// ChargeRecurring is the billing scheduler's entry point. It never starts a
// signature: without an active mandate it fails with a *MandateInactiveError.
func (s *Service) ChargeRecurring(ctx context.Context, orderID string, amount order.Money) (string, error) {
	if amount == 0 {
		return "", nil
	}
	if amount < 0 {
		return "", errors.Join(db.ErrInvalid, order.ErrInvalidAmount)
	}

	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		log.Printf("layer=service component=payment method=ChargeRecurring order_id=%s err=%v", orderID, err)
		return "", err
	}
	parentID := o.SubscriptionRoot()
	id := IdentityFor(o)

	fail := func(err error) (string, error) {
		s.publish(ctx, ToRecurringChargeFailedEvent(o.ID, parentID, id, amount, err))
		if s.metrics != nil {
			s.metrics.RecurringFailuresAdd(1)
		}
		log.Printf("layer=service component=payment method=ChargeRecurring order_id=%s parent_id=%s subscriber=%s err=%v", o.ID, parentID, id, err)
		return "", err
	}

	m, ok, err := s.ValidateActiveMandate(ctx, id)
	if err != nil {
		return fail(err)
	}
	if !ok {
		return fail(&MandateInactiveError{Identity: id, ParentOrderID: parentID})
	}

	dd, err := s.createDirectDebit(ctx, o.ID, m.Rum, SubscriptionPaymentReference(parentID), amount)
	if err != nil {
		return fail(err)
	}

	// The debit exists at this point; a bookkeeping failure must not make the
	// scheduler charge again.
	if _, err := s.orders.MarkPaid(ctx, o.ID, dd.ID); err != nil {
		log.Printf("layer=service component=payment method=ChargeRecurring order_id=%s transaction_id=%s step=mark_paid err=%v", o.ID, dd.ID, err)
	} else if s.metrics != nil {
		s.metrics.OrdersPaidAdd(1)
	}
	return dd.ID, nil
}

// ValidateActiveMandate re-reads the cached mandate from the processor. A mandate
// that is not exactly "active" (or no longer exists) is evicted from the cache.
// Transport failures leave the cache untouched.
func (s *Service) ValidateActiveMandate(ctx context.Context, id mandate.Identity) (mandate.Mandate, bool, error) {
	rum, err := s.mandates.Get(ctx, id)
	if db.IsNotFound(err) {
		return mandate.Mandate{}, false, nil
	}
	if err != nil {
		return mandate.Mandate{}, false, err
	}

	root, err := s.gateway.EntryPoint(ctx)
	if err != nil {
		return mandate.Mandate{}, false, err
	}
	res, err := s.gateway.Follow(ctx, root, hapi.Get(RelGetMandates, map[string]string{
		"creditorReference": s.cfg.CreditorReference,
		"rum":               rum,
	}))
	if err != nil {
		if he, ok := hapi.AsError(err); ok && he.NotFound() {
			return mandate.Mandate{}, false, s.evict(ctx, id, rum, "")
		}
		log.Printf("layer=service component=payment method=ValidateActiveMandate subscriber=%s rum=%s err=%v", id, rum, err)
		return mandate.Mandate{}, false, err
	}

	m := ToMandate(res)
	if m.Rum == "" {
		m.Rum = rum
	}
	if !m.Active() {
		return mandate.Mandate{}, false, s.evict(ctx, id, rum, m.State)
	}
	return m, true, nil
}

func (s *Service) evict(ctx context.Context, id mandate.Identity, rum, state string) error {
	if err := s.mandates.Delete(ctx, id); err != nil {
		log.Printf("layer=service component=payment method=evict subscriber=%s rum=%s err=%v", id, rum, err)
		return err
	}
	s.publish(ctx, ToMandateInvalidatedEvent(id, rum, state))
	if s.metrics != nil {
		s.metrics.MandatesInvalidAdd(1)
	}
	return nil
}

func (s *Service) createDirectDebit(ctx context.Context, orderID, rum, reference string, amount order.Money) (DirectDebit, error) {
	root, err := s.gateway.EntryPoint(ctx)
	if err != nil {
		return DirectDebit{}, err
	}
	body := ToDirectDebitRequest(s.cfg.CreditorReference, s.cfg.Label(), rum, reference, amount)
	res, err := s.gateway.Follow(ctx, root, hapi.Post(RelCreateDirectDebits, body))
	if err != nil {
		log.Printf("layer=service component=payment method=createDirectDebit order_id=%s reference=%s err=%v", orderID, reference, err)
		return DirectDebit{}, err
	}
	dd := ToDirectDebit(res)
	if dd.ID == "" {
		return DirectDebit{}, malformed("direct debit has no id")
	}

	s.publish(ctx, ToDirectDebitCreatedEvent(orderID, dd.ID, reference, rum, amount))
	if s.metrics != nil {
		s.metrics.DirectDebitsCreatedAdd(1)
	}
	return dd, nil
}

func (s *Service) GetDirectDebit(ctx context.Context, id string) (DirectDebit, error) {
	if id == "" {
		return DirectDebit{}, db.ErrNotFound
	}
	root, err := s.gateway.EntryPoint(ctx)
	if err != nil {
		return DirectDebit{}, err
	}
	res, err := s.gateway.Follow(ctx, root, hapi.Get(RelGetDirectDebits, map[string]string{"id": id}))
	if err != nil {
		log.Printf("layer=service component=payment method=GetDirectDebit id=%s err=%v", id, err)
		return DirectDebit{}, err
	}
	return ToDirectDebit(res), nil
}

// Confirmation renders the post-payment text for an order. Orders without a debit,
// or whose debit cannot be fetched, get an empty text.
func (s *Service) Confirmation(ctx context.Context, orderID string) (string, error) {
	o, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return "", err
	}
	if o.TransactionID == "" {
		return "", nil
	}
	dd, err := s.GetDirectDebit(ctx, o.TransactionID)
	if err != nil {
		return "", nil
	}
	currency := o.Currency
	if currency == "" {
		currency = s.cfg.Currency
	}
	return FormatParameters(map[string]string{
		"amount": formatAmount(dd.Amount, currency),
		"date":   formatDate(dd.ExecutionDate, s.cfg.DateLayout),
		"label":  dd.Label,
	}, s.cfg.ConfirmationText), nil
}

// Description is the checkout text for a registered customer: the active-mandate
// variant when one is usable, the default text otherwise or when the integration
// is disabled.
func (s *Service) Description(ctx context.Context, customerID string) (string, error) {
	if customerID == "" || s.cfg.Disabled {
		return s.cfg.Description, nil
	}
	m, ok, err := s.ValidateActiveMandate(ctx, mandate.Registered(customerID))
	if err != nil {
		log.Printf("layer=service component=payment method=Description customer_id=%s err=%v", customerID, err)
		return s.cfg.Description, nil
	}
	if !ok {
		return s.cfg.Description, nil
	}
	return FormatParameters(map[string]string{
		"rum":  m.Rum,
		"date": formatDate(m.DateCreated, s.cfg.DateLayout),
	}, s.cfg.DescriptionAlt), nil
}

func (s *Service) publish(ctx context.Context, evt broker.Event) {
	if s.bus == nil {
		return
	}
	for _, err := range s.bus.Publish(ctx, evt) {
		log.Printf("layer=service component=payment method=publish event=%s err=%v", evt.Name(), err)
	}
}

func isMandateInactive(err error) bool {
	return errors.Is(err, ErrMandateInactive)
}
