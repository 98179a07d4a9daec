package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisplayStatusAt(t *testing.T) {
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	tests := []struct {
		name     string
		status   JobStatus
		deadline *time.Time
		want     JobStatus
	}{
		{"active with past deadline is expired", JobStatusActive, &past, JobStatusExpired},
		{"active with future deadline stays active", JobStatusActive, &future, JobStatusActive},
		{"active without deadline stays active", JobStatusActive, nil, JobStatusActive},
		{"deadline equal to now is not expired", JobStatusActive, &now, JobStatusActive},
		{"closed with past deadline stays closed", JobStatusClosed, &past, JobStatusClosed},
		{"draft with past deadline stays draft", JobStatusDraft, &past, JobStatusDraft},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DisplayStatusAt(tt.status, tt.deadline, now))
		})
	}
}

func TestJobAfterFindPopulatesComputedFields(t *testing.T) {
	yesterday := time.Now().Add(-24 * time.Hour)
	job := &Job{Status: JobStatusActive, ApplicationDeadline: &yesterday, PaymentRange: "1000-2000"}

	require.NoError(t, job.AfterFind(nil))
	assert.Equal(t, JobStatusExpired, job.DisplayStatus)
	assert.Equal(t, PaymentRangeKind, job.Payment.Kind)
	assert.False(t, job.IsOpenAt(time.Now()))
}

func TestJobBeforeSaveNormalizesDeadline(t *testing.T) {
	loc := time.FixedZone("UTC+5:30", 5*3600+1800)
	deadline := time.Date(2026, 1, 2, 9, 0, 0, 0, loc)
	job := &Job{ApplicationDeadline: &deadline}

	require.NoError(t, job.BeforeSave(nil))
	assert.Equal(t, time.UTC, job.ApplicationDeadline.Location())
	assert.True(t, job.ApplicationDeadline.Equal(deadline))
}

func TestJobStatusStorable(t *testing.T) {
	assert.True(t, JobStatusDraft.Storable())
	assert.True(t, JobStatusActive.Storable())
	assert.True(t, JobStatusClosed.Storable())
	assert.False(t, JobStatusExpired.Storable())
	assert.False(t, JobStatus("archived").Storable())
}

func TestParsePaymentRange(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		in       string
		kind     PaymentKind
		min, max *float64
	}{
		{"", PaymentNegotiable, nil, nil},
		{"Negotiable", PaymentNegotiable, nil, nil},
		{"5000", PaymentFixed, f(5000), f(5000)},
		{"Rs. 25,000", PaymentFixed, f(25000), f(25000)},
		{"1000-2000", PaymentRangeKind, f(1000), f(2000)},
		{"LKR 3,000 - 1,500", PaymentRangeKind, f(1500), f(3000)},
		{"to be discussed", PaymentFixed, nil, nil},
		{"salary negotiable", PaymentNegotiable, nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := ParsePaymentRange(tt.in)
			assert.Equal(t, tt.kind, got.Kind)
			assert.Equal(t, tt.min, got.Min)
			assert.Equal(t, tt.max, got.Max)
		})
	}
}
