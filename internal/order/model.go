package order

import "time"

type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCancelled  Status = "cancelled"
)

type Billing struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Company   string `json:"company,omitempty"`
	Address1  string `json:"address_1"`
	Address2  string `json:"address_2,omitempty"`
	Postcode  string `json:"postcode"`
	City      string `json:"city"`
	Country   string `json:"country"`
}

// Order is the store's view of an order. CustomerID is empty for guest checkouts.
// Recurring orders carry the first payment of a subscription in InitialPayment;
// renewal orders point at the order that started the subscription.
type Order struct {
	ID             string     `gorm:"primaryKey;size:64" json:"id"`
	CustomerID     string     `gorm:"size:64;index" json:"customer_id,omitempty"`
	Billing        Billing    `gorm:"embedded;embeddedPrefix:billing_" json:"billing"`
	Currency       string     `gorm:"size:3" json:"currency"`
	Total          Money      `json:"total"`
	InitialPayment Money      `json:"initial_payment"`
	Recurring      bool       `json:"recurring"`
	ParentOrderID  string     `gorm:"size:64;index" json:"parent_order_id,omitempty"`
	Status         Status     `gorm:"size:16" json:"status"`
	TransactionID  string     `gorm:"size:64" json:"transaction_id,omitempty"`
	PaidAt         *time.Time `json:"paid_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

func (Order) TableName() string { return "orders" }

func (o *Order) Guest() bool { return o.CustomerID == "" }

func (o *Order) Paid() bool { return o.PaidAt != nil }

// SubscriptionRoot is the order whose mandate backs this order's recurring charges.
func (o *Order) SubscriptionRoot() string {
	if o.ParentOrderID != "" {
		return o.ParentOrderID
	}
	return o.ID
}
