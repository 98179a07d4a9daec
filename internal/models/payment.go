package models

import (
	"regexp"
	"strconv"
	"strings"
)

// PaymentKind is the shape of a job's payment text.
type PaymentKind string

const (
	PaymentFixed      PaymentKind = "fixed"
	PaymentRangeKind  PaymentKind = "range"
	PaymentNegotiable PaymentKind = "negotiable"
)

// PaymentRange is the structured reading of Job.PaymentRange.
type PaymentRange struct {
	Kind PaymentKind `json:"kind"`
	Min  *float64    `json:"min,omitempty"`
	Max  *float64    `json:"max,omitempty"`
	Raw  string      `json:"raw,omitempty"`
}

var paymentNumber = regexp.MustCompile(`\d[\d,]*(?:\.\d+)?`)

// ParsePaymentRange reads "<n>", "<n>-<m>" and "negotiable". Text without
// numbers is kept as a fixed amount with no value.
func ParsePaymentRange(raw string) PaymentRange {
	text := strings.TrimSpace(raw)
	out := PaymentRange{Raw: text}
	if text == "" || strings.EqualFold(text, string(PaymentNegotiable)) {
		out.Kind = PaymentNegotiable
		return out
	}

	var values []float64
	for _, m := range paymentNumber.FindAllString(text, -1) {
		v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
		if err == nil {
			values = append(values, v)
		}
	}

	switch {
	case len(values) >= 2 && strings.Contains(text, "-"):
		lo, hi := values[0], values[1]
		if hi < lo {
			lo, hi = hi, lo
		}
		out.Kind = PaymentRangeKind
		out.Min, out.Max = &lo, &hi
	case len(values) >= 1:
		v := values[0]
		out.Kind = PaymentFixed
		out.Min, out.Max = &v, &v
	case strings.Contains(strings.ToLower(text), string(PaymentNegotiable)):
		out.Kind = PaymentNegotiable
	default:
		out.Kind = PaymentFixed
	}
	return out
}
