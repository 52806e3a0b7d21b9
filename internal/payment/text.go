package payment

import (
	"sort"
	"strings"
	"time"

	"sepagateway/internal/order"
)

// FormatParameters replaces every %key% in text by its value.
func FormatParameters(params map[string]string, text string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(params)*2)
	for _, k := range keys {
		pairs = append(pairs, "%"+k+"%", params[k])
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

var remoteDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.000-0700",
	"2006-01-02T15:04:05-0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// formatDate renders a processor timestamp with layout; unparseable input is kept.
func formatDate(raw, layout string) string {
	for _, l := range remoteDateLayouts {
		if t, err := time.Parse(l, raw); err == nil {
			return t.UTC().Format(layout)
		}
	}
	return raw
}

func formatAmount(raw, currency string) string {
	m, err := order.ParseMoney(raw)
	if err != nil {
		return strings.TrimSpace(raw + " " + currency)
	}
	return m.String() + " " + currency
}
