package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLevelForCount(t *testing.T) {
	tests := []struct {
		count int
		want  string
	}{
		{0, BadgeLevelNone},
		{1, BadgeLevelBronze},
		{4, BadgeLevelBronze},
		{5, BadgeLevelSilver},
		{9, BadgeLevelSilver},
		{10, BadgeLevelGold},
		{100, BadgeLevelGold},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, LevelForCount(tt.count), "count=%d", tt.count)
	}
}
