package payment

import (
	"fmt"
	"time"

	"sepagateway/internal/events"
	"sepagateway/internal/mandate"
	"sepagateway/internal/order"
	"sepagateway/kit/hapi"
)

const mandateStandard = "SEPA"

type Reference struct {
	Reference string `json:"reference"`
}

type Address struct {
	Street1    string `json:"street1"`
	Street2    string `json:"street2"`
	PostalCode string `json:"postalCode"`
	City       string `json:"city"`
	Country    string `json:"country"`
}

type Signatory struct {
	GivenName      string  `json:"givenName"`
	FamilyName     string  `json:"familyName"`
	Email          string  `json:"email"`
	CompanyName    *string `json:"companyName"`
	BillingAddress Address `json:"billingAddress"`
}

type MandatePayload struct {
	Standard  string    `json:"standard"`
	Signatory Signatory `json:"signatory"`
}

type SignatureItem struct {
	Type    string         `json:"type"`
	Mandate MandatePayload `json:"mandate"`
}

// SignatureSessionRequest is the create-orders body starting a mandate signature.
type SignatureSessionRequest struct {
	Reference  string          `json:"reference"`
	Started    bool            `json:"started"`
	Creditor   Reference       `json:"creditor"`
	Subscriber Reference       `json:"subscriber"`
	Items      []SignatureItem `json:"items"`
}

type MandateReference struct {
	Rum      string `json:"rum"`
	Standard string `json:"standard"`
}

// DirectDebitRequest is the create-direct-debits body.
type DirectDebitRequest struct {
	Amount           order.Money      `json:"amount"`
	Label            string           `json:"label"`
	PaymentReference string           `json:"paymentReference"`
	Creditor         Reference        `json:"creditor"`
	Mandate          MandateReference `json:"mandate"`
}

func ToSignatureSessionRequest(creditor, reference string, id mandate.Identity, o *order.Order) SignatureSessionRequest {
	var company *string
	if o.Billing.Company != "" {
		c := o.Billing.Company
		company = &c
	}
	return SignatureSessionRequest{
		Reference:  reference,
		Started:    true,
		Creditor:   Reference{Reference: creditor},
		Subscriber: Reference{Reference: id.SubscriberReference()},
		Items: []SignatureItem{{
			Type: "signMandate",
			Mandate: MandatePayload{
				Standard: mandateStandard,
				Signatory: Signatory{
					GivenName:   o.Billing.FirstName,
					FamilyName:  o.Billing.LastName,
					Email:       o.Billing.Email,
					CompanyName: company,
					BillingAddress: Address{
						Street1:    o.Billing.Address1,
						Street2:    o.Billing.Address2,
						PostalCode: o.Billing.Postcode,
						City:       o.Billing.City,
						Country:    o.Billing.Country,
					},
				},
			},
		}},
	}
}

func ToDirectDebitRequest(creditor, label, rum, reference string, amount order.Money) DirectDebitRequest {
	return DirectDebitRequest{
		Amount:           amount,
		Label:            label,
		PaymentReference: reference,
		Creditor:         Reference{Reference: creditor},
		Mandate:          MandateReference{Rum: rum, Standard: mandateStandard},
	}
}

func OrderPaymentReference(orderID string) string { return "order_" + orderID }

func SubscriptionPaymentReference(orderID string) string { return "subscription_" + orderID }

// IdentityFor is the subscriber an order's mandate belongs to. Guests are keyed by
// the order that started their subscription.
func IdentityFor(o *order.Order) mandate.Identity {
	if o.CustomerID != "" {
		return mandate.Registered(o.CustomerID)
	}
	return mandate.Guest(o.SubscriptionRoot())
}

func newSessionReference(orderID, nonce string) string {
	return fmt.Sprintf("order_%s_%s", orderID, nonce)
}

func ToMandate(res *hapi.Resource) mandate.Mandate {
	return mandate.Mandate{
		Rum:         res.String("rum"),
		State:       res.String("state"),
		DateCreated: res.String("dateCreated"),
	}
}

func ToDirectDebit(res *hapi.Resource) DirectDebit {
	return DirectDebit{
		ID:               res.String("id"),
		Amount:           res.String("amount"),
		Label:            res.String("label"),
		PaymentReference: res.String("paymentReference"),
		ExecutionDate:    res.String("executionDate"),
		State:            res.String("executionStatus"),
	}
}

func ToSignatureStartedEvent(orderID string, id mandate.Identity, reference string) events.SignatureStarted {
	return events.SignatureStarted{OrderID: orderID, SubscriberReference: id.SubscriberReference(), SessionReference: reference, At: time.Now().UTC()}
}

func ToSignatureFailedEvent(orderID string, id mandate.Identity, reference, state, reason string) events.SignatureFailed {
	return events.SignatureFailed{OrderID: orderID, SubscriberReference: id.SubscriberReference(), SessionReference: reference, State: state, Reason: reason, At: time.Now().UTC()}
}

func ToMandateStoredEvent(id mandate.Identity, rum, orderID string) events.MandateStored {
	return events.MandateStored{SubscriberReference: id.SubscriberReference(), Rum: rum, OrderID: orderID, At: time.Now().UTC()}
}

func ToMandateInvalidatedEvent(id mandate.Identity, rum, state string) events.MandateInvalidated {
	return events.MandateInvalidated{SubscriberReference: id.SubscriberReference(), Rum: rum, State: state, At: time.Now().UTC()}
}

func ToDirectDebitCreatedEvent(orderID, ddID, reference, rum string, amount order.Money) events.DirectDebitCreated {
	return events.DirectDebitCreated{OrderID: orderID, DirectDebitID: ddID, PaymentReference: reference, Rum: rum, Amount: int64(amount), At: time.Now().UTC()}
}

func ToRecurringChargeFailedEvent(orderID, parentID string, id mandate.Identity, amount order.Money, err error) events.RecurringChargeFailed {
	return events.RecurringChargeFailed{
		OrderID:             orderID,
		ParentOrderID:       parentID,
		SubscriberReference: id.SubscriberReference(),
		Amount:              int64(amount),
		Reason:              Classify(err),
		MandateInactive:     isMandateInactive(err),
		At:                  time.Now().UTC(),
	}
}
