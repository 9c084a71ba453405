package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFreeTables(t *testing.T) {
	assert.Equal(t, []int{1, 2, 3}, FreeTables(nil, 3))
	assert.Equal(t, []int{2, 4}, FreeTables([]int{1, 3, 5}, 5))
	assert.Empty(t, FreeTables([]int{1, 2}, 2))
}

func TestLowestFreeTable(t *testing.T) {
	cases := []struct {
		name  string
		used  []int
		want  int
		found bool
	}{
		{"empty slot", nil, 1, true},
		{"gap in the middle", []int{1, 2, 4}, 3, true},
		{"unordered", []int{3, 1}, 2, true},
		{"full", []int{1, 2, 3}, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := LowestFreeTable(tc.used, 3)
			assert.Equal(t, tc.found, ok)
			assert.Equal(t, tc.want, got)
		})
	}
}
