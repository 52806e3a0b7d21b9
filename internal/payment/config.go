package payment

import (
	"fmt"
	"strings"

	"sepagateway/kit/hapi"
)

const (
	DefaultDescription      = "Pay by direct debit. You need your bank account number and your phone."
	DefaultDescriptionAlt   = "The amount will be debited directly from your account using the mandate %rum% you signed on %date%."
	DefaultConfirmationText = `Your account will be charged %amount% on %date%. It will appear in your bank statement as "%label%".`
	DefaultDebitLabel       = "%creditor%"
	DefaultDateLayout       = "January 2, 2006"
)

// Config is everything the orchestrator needs to talk to the processor on behalf
// of one creditor.
type Config struct {
	Endpoint          string
	ClientID          string
	ClientSecret      string
	CreditorReference string
	IsProduction      bool

	Currency         string
	DebitLabel       string
	Description      string
	DescriptionAlt   string
	ConfirmationText string
	DateLayout       string
	// PublicURL prefixes the confirmation page returned after a successful payment.
	PublicURL string
	// Disabled keeps display-only lookups from calling the processor when the
	// integration is not configured.
	Disabled bool
}

func (c Config) withDefaults() Config {
	if c.DebitLabel == "" {
		c.DebitLabel = DefaultDebitLabel
	}
	if c.Description == "" {
		c.Description = DefaultDescription
	}
	if c.DescriptionAlt == "" {
		c.DescriptionAlt = DefaultDescriptionAlt
	}
	if c.ConfirmationText == "" {
		c.ConfirmationText = DefaultConfirmationText
	}
	if c.DateLayout == "" {
		c.DateLayout = DefaultDateLayout
	}
	if c.Currency == "" {
		c.Currency = "EUR"
	}
	return c
}

// BaseURL is the explicit endpoint when set, otherwise production or sandbox.
func (c Config) BaseURL() string {
	if c.Endpoint != "" {
		return strings.TrimRight(c.Endpoint, "/")
	}
	if c.IsProduction {
		return hapi.ProductionURL
	}
	return hapi.SandboxURL
}

func (c Config) ConfirmationURL(orderID string) string {
	return fmt.Sprintf("%s/orders/%s/confirmation", strings.TrimRight(c.PublicURL, "/"), orderID)
}

func (c Config) Label() string {
	return FormatParameters(map[string]string{"creditor": c.CreditorReference}, c.DebitLabel)
}
