package payment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"sepagateway/kit/hapi"
)

func TestFormatParameters(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		name     string
		params   map[string]string
		text     string
		expected string
	}{
		{
			name:     "every placeholder",
			params:   map[string]string{"rum": "R1", "date": "March 2, 2024"},
			text:     DefaultDescriptionAlt,
			expected: "The amount will be debited directly from your account using the mandate R1 you signed on March 2, 2024.",
		},
		{
			name:     "repeated placeholder",
			params:   map[string]string{"creditor": "shop"},
			text:     "%creditor%-%creditor%",
			expected: "shop-shop",
		},
		{
			name:     "unknown placeholder kept",
			params:   map[string]string{"a": "1"},
			text:     "%a% %b%",
			expected: "1 %b%",
		},
		{
			name:     "no substitution inside values",
			params:   map[string]string{"a": "%b%", "b": "x"},
			text:     "%a%",
			expected: "%b%",
		},
		{
			name:     "no params",
			params:   nil,
			text:     "plain",
			expected: "plain",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, FormatParameters(tt.params, tt.text))
		})
	}
}

func TestFormatDate(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		raw      string
		expected string
	}{
		{raw: "2024-03-02T00:00:00.000+0000", expected: "March 2, 2024"},
		{raw: "2024-03-02T23:30:00.000-0200", expected: "March 3, 2024"},
		{raw: "2024-01-15T10:00:00Z", expected: "January 15, 2024"},
		{raw: "2024-01-15", expected: "January 15, 2024"},
		{raw: "not a date", expected: "not a date"},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.raw, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, formatDate(tt.raw, DefaultDateLayout))
		})
	}
}

func TestFormatAmount(t *testing.T) {
	t.Parallel()
	require.Equal(t, "50.00 EUR", formatAmount("50", "EUR"))
	require.Equal(t, "12.30 EUR", formatAmount("12.3", "EUR"))
	require.Equal(t, "abc EUR", formatAmount("abc", "EUR"))
}

func TestClassifySessionState(t *testing.T) {
	t.Parallel()

	var tests = []struct {
		state    string
		expected SessionState
	}{
		{state: "open.running", expected: SessionPending},
		{state: "open.not_running", expected: SessionPending},
		{state: "open.not_running.suspended", expected: SessionPending},
		{state: "open.not_running.suspended.awaiting_input", expected: SessionPending},
		{state: "open.not_running.suspended.awaiting_validation", expected: SessionPending},
		{state: "closed.completed", expected: SessionCompleted},
		{state: "closed.aborted", expected: SessionFailed},
		{state: "closed.aborted.aborted_by_client", expected: SessionFailed},
		{state: "closed.aborted.aborted_by_server", expected: SessionFailed},
		{state: "closed.completedWithWarning", expected: SessionUnknown},
		{state: "open.paused", expected: SessionUnknown},
		{state: "CLOSED.COMPLETED", expected: SessionUnknown},
		{state: "", expected: SessionUnknown},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.state, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.expected, ClassifySessionState(tt.state))
		})
	}
}

func TestConfigDefaults(t *testing.T) {
	t.Parallel()
	cfg := Config{CreditorReference: "shop", PublicURL: "https://shop.example/"}.withDefaults()
	require.Equal(t, "EUR", cfg.Currency)
	require.Equal(t, "shop", cfg.Label())
	require.Equal(t, "https://shop.example/orders/7/confirmation", cfg.ConfirmationURL("7"))
	require.Equal(t, hapi.SandboxURL, Config{}.BaseURL())
	require.Equal(t, "https://example.test", Config{Endpoint: "https://example.test/"}.BaseURL())
}
