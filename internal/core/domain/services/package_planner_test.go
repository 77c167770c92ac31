package services_test

import (
	"testing"

	"fulfillment/internal/core/domain/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPackagePlanner_Plan(t *testing.T) {
	planner := services.NewPackagePlanner()

	testCases := []struct {
		name            string
		itemQuantity    int
		expectedCount   int
		expectedWeights []int
	}{
		{
			name:            "zero_items_still_one_empty_package",
			itemQuantity:    0,
			expectedCount:   1,
			expectedWeights: []int{0},
		},
		{
			name:            "single_item",
			itemQuantity:    1,
			expectedCount:   1,
			expectedWeights: []int{450},
		},
		{
			name:            "exactly_at_capacity",
			itemQuantity:    27,
			expectedCount:   1,
			expectedWeights: []int{27 * 450},
		},
		{
			name:            "capacity_plus_one_opens_second_package",
			itemQuantity:    28,
			expectedCount:   2,
			expectedWeights: []int{27 * 450, 450},
		},
		{
			name:            "two_full_packages",
			itemQuantity:    54,
			expectedCount:   2,
			expectedWeights: []int{27 * 450, 27 * 450},
		},
		{
			name:            "negative_treated_as_zero",
			itemQuantity:    -5,
			expectedCount:   1,
			expectedWeights: []int{0},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			packages, err := planner.Plan(tc.itemQuantity)
			require.NoError(t, err)
			require.Len(t, packages, tc.expectedCount)

			for i, pkg := range packages {
				assert.Equal(t, tc.expectedWeights[i], pkg.WeightGrams())
				assert.Positive(t, pkg.LengthCm())
				assert.Positive(t, pkg.WidthCm())
				assert.Positive(t, pkg.HeightCm())
			}
		})
	}
}

func TestPackagePlanner_PlanIsDeterministic(t *testing.T) {
	planner := services.NewPackagePlanner()

	first, err := planner.Plan(40)
	require.NoError(t, err)
	second, err := planner.Plan(40)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}
