package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/aaronHenao/backend-tailorflow/internal/domain"
	"github.com/aaronHenao/backend-tailorflow/internal/service"
)

func TestProject(t *testing.T) {
	tests := []struct {
		name     string
		children []domain.Status
		want     domain.Status
		wantOK   bool
	}{
		{
			name:     "no children leaves parent untouched",
			children: nil,
			wantOK:   false,
		},
		{
			name:     "empty slice leaves parent untouched",
			children: []domain.Status{},
			wantOK:   false,
		},
		{
			name:     "all pending",
			children: []domain.Status{domain.StatusPending, domain.StatusPending},
			want:     domain.StatusPending,
			wantOK:   true,
		},
		{
			name:     "all finished",
			children: []domain.Status{domain.StatusFinished, domain.StatusFinished, domain.StatusFinished},
			want:     domain.StatusFinished,
			wantOK:   true,
		},
		{
			name:     "single finished child",
			children: []domain.Status{domain.StatusFinished},
			want:     domain.StatusFinished,
			wantOK:   true,
		},
		{
			name:     "one in process",
			children: []domain.Status{domain.StatusPending, domain.StatusInProcess, domain.StatusPending},
			want:     domain.StatusInProcess,
			wantOK:   true,
		},
		{
			// Any progress means in process, even with nothing literally
			// mid-task right now.
			name:     "finished and pending mix",
			children: []domain.Status{domain.StatusFinished, domain.StatusPending},
			want:     domain.StatusInProcess,
			wantOK:   true,
		},
		{
			name:     "delayed child counts as progress",
			children: []domain.Status{domain.StatusDelayed, domain.StatusPending},
			want:     domain.StatusInProcess,
			wantOK:   true,
		},
		{
			// DELAYED is never produced by aggregation, even when every
			// child carries it.
			name:     "all delayed",
			children: []domain.Status{domain.StatusDelayed, domain.StatusDelayed},
			want:     domain.StatusInProcess,
			wantOK:   true,
		},
		{
			name:     "delayed and finished mix",
			children: []domain.Status{domain.StatusDelayed, domain.StatusFinished},
			want:     domain.StatusInProcess,
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := service.Project(tt.children)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
