package order

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidOrder = errors.New("invalid order")

var validate = validator.New()

type CreateRequest struct {
	ID             string  `json:"id" validate:"required,max=64"`
	CustomerID     string  `json:"customer_id" validate:"omitempty,max=64,excludes=guest_"`
	Billing        Billing `json:"billing"`
	Currency       string  `json:"currency" validate:"required,len=3"`
	Total          Money   `json:"total" validate:"gte=0"`
	InitialPayment Money   `json:"initial_payment" validate:"gte=0"`
	Recurring      bool    `json:"recurring"`
	ParentOrderID  string  `json:"parent_order_id" validate:"omitempty,max=64"`
}

func ValidateCreateRequest(r CreateRequest) error {
	if err := validate.Struct(r); err != nil {
		return errors.Join(ErrInvalidOrder, err)
	}
	if r.Billing.Email != "" {
		if err := validate.Var(r.Billing.Email, "email"); err != nil {
			return errors.Join(ErrInvalidOrder, err)
		}
	}
	return nil
}
