package importer

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chnm/relcensus-backend/internal/census"
)

func strPtr(s string) *string { return &s }

func TestMapLegacyStatus(t *testing.T) {
	tests := []struct {
		name       string
		reviewed   *string
		isApproved *string
		want       string
	}{
		{"approved", strPtr("1"), strPtr("1"), census.StatusApproved},
		{"approved without review flag", nil, strPtr("1"), census.StatusApproved},
		{"approval wins over contradiction", strPtr("0"), strPtr("1"), census.StatusApproved},
		{"reviewed and rejected", strPtr("1"), strPtr("0"), census.StatusCompleted},
		{"reviewed awaiting decision", strPtr("1"), nil, census.StatusNeedsReview},
		{"in progress", strPtr("0"), nil, census.StatusInProgress},
		{"in progress with rejection flag", strPtr("0"), strPtr("0"), census.StatusInProgress},
		{"untouched", nil, nil, census.StatusUnassigned},
		{"rejection flag alone", nil, strPtr("0"), census.StatusUnassigned},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MapLegacyStatus(tt.reviewed, tt.isApproved))
		})
	}
}
