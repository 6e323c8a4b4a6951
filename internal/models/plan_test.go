package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPlanAssignment_RemainingDays(t *testing.T) {
	assignment := &PlanAssignment{
		PlanName:     "Plan Gratuito",
		PlanID:       "plan-1",
		ValidityDays: 30,
		AssignedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{
			name: "mid validity",
			now:  time.Date(2025, 1, 20, 0, 0, 0, 0, time.UTC),
			want: 11,
		},
		{
			name: "expired is clamped to zero",
			now:  time.Date(2025, 2, 5, 0, 0, 0, 0, time.UTC),
			want: 0,
		},
		{
			name: "assignment day counts full validity",
			now:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			want: 30,
		},
		{
			name: "partial day rounds up",
			now:  time.Date(2025, 1, 30, 12, 0, 0, 0, time.UTC),
			want: 1,
		},
		{
			name: "exact expiry moment",
			now:  time.Date(2025, 1, 31, 0, 0, 0, 0, time.UTC),
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, assignment.RemainingDays(tt.now))
		})
	}
}

func TestPlanAssignment_RemainingDays_ZeroValidity(t *testing.T) {
	assignment := &PlanAssignment{
		ValidityDays: 0,
		AssignedAt:   time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 0, assignment.RemainingDays(time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)))
}
