package model

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTierTable(t *testing.T) {
	table := Tiers()

	assert.Equal(t, 0, table[0].MinPoints)
	assert.Equal(t, Unbounded, table[len(table)-1].MaxPoints)
	for i := 1; i < len(table); i++ {
		assert.Equal(t, table[i-1].MaxPoints+1, table[i].MinPoints, "tiers must be contiguous at %s", table[i].Name)
	}

	t.Run("Tiers returns a copy", func(t *testing.T) {
		table[0].Name = "Mutated"
		assert.Equal(t, TierExplorer, Tiers()[0].Name)
	})
}

func TestClassify(t *testing.T) {
	tests := []struct {
		points int
		want   string
	}{
		{math.MinInt, TierExplorer},
		{-100, TierExplorer},
		{0, TierExplorer},
		{1, TierExplorer},
		{1999, TierExplorer},
		{2000, TierInsider},
		{4999, TierInsider},
		{5000, TierElite},
		{9999, TierElite},
		{10000, TierSupreme},
		{250000, TierSupreme},
		{math.MaxInt, TierSupreme},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.points).Name, "points=%d", tt.points)
	}

	t.Run("Every value in Explorer range", func(t *testing.T) {
		for p := 0; p <= 1999; p++ {
			if got := Classify(p).Name; got != TierExplorer {
				t.Fatalf("Classify(%d) = %s, want %s", p, got, TierExplorer)
			}
		}
	})
}

func TestProgressToNextTier(t *testing.T) {
	tests := []struct {
		name   string
		points int
		want   float64
	}{
		{"zero", 0, 0.0},
		{"negative clamps to zero", -100, 0.0},
		{"quarter of Explorer span", 500, 0.25},
		{"half of Insider span", 3500, 0.5},
		{"just below Elite", 9999, 0.9998},
		{"Insider floor", 2000, 0.0},
		{"Supreme floor", 10000, 1.0},
		{"deep in Supreme", 1234567, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ProgressToNextTier(tt.points), 1e-9)
		})
	}

	t.Run("Result is always within [0, 1]", func(t *testing.T) {
		for _, p := range []int{math.MinInt, -1, 1, 1999, 4999, 5000, math.MaxInt} {
			got := ProgressToNextTier(p)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		}
	})
}

func TestNextAndPointsToNextTier(t *testing.T) {
	next, ok := Classify(0).Next()
	assert.True(t, ok)
	assert.Equal(t, TierInsider, next.Name)

	_, ok = Classify(10000).Next()
	assert.False(t, ok)

	assert.Equal(t, 1500, PointsToNextTier(500))
	assert.Equal(t, 2000, PointsToNextTier(-100))
	assert.Equal(t, 1, PointsToNextTier(9999))
	assert.Equal(t, 0, PointsToNextTier(10000))
}

func TestStatusFor(t *testing.T) {
	t.Run("Mid tier has next tier", func(t *testing.T) {
		s := StatusFor(3500)
		assert.Equal(t, TierInsider, s.Tier.Name)
		if assert.NotNil(t, s.NextTier) {
			assert.Equal(t, TierElite, s.NextTier.Name)
		}
		assert.InDelta(t, 0.5, s.Progress, 1e-9)
		assert.Equal(t, 1500, s.PointsToNextTier)
	})

	t.Run("Top tier has no next tier", func(t *testing.T) {
		s := StatusFor(12000)
		assert.Equal(t, TierSupreme, s.Tier.Name)
		assert.Nil(t, s.NextTier)
		assert.Equal(t, 1.0, s.Progress)
		assert.Equal(t, 0, s.PointsToNextTier)
	})
}
