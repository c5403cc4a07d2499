package game

import (
	"errors"
	"testing"
)

func TestProgressToNextLevelDoubles(t *testing.T) {
	first, err := ProgressToNextLevel(0)
	if err != nil {
		t.Fatalf("ProgressToNextLevel(0): %v", err)
	}
	if first != 100 {
		t.Fatalf("ProgressToNextLevel(0)=%d, want 100", first)
	}

	for n := 0; n < MaxLevel; n++ {
		cur, err := ProgressToNextLevel(n)
		if err != nil {
			t.Fatalf("ProgressToNextLevel(%d): %v", n, err)
		}
		next, err := ProgressToNextLevel(n + 1)
		if err != nil {
			t.Fatalf("ProgressToNextLevel(%d): %v", n+1, err)
		}
		if next != 2*cur {
			t.Fatalf("ProgressToNextLevel(%d)=%d, want %d", n+1, next, 2*cur)
		}
	}
}

func TestProgressToNextLevelRejectsNegative(t *testing.T) {
	if _, err := ProgressToNextLevel(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ProgressToNextLevel(-1) err=%v, want ErrInvalidArgument", err)
	}
	if _, err := ProgressToNextLevel(MaxLevel + 1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("ProgressToNextLevel(MaxLevel+1) err=%v, want ErrInvalidArgument", err)
	}
}

func TestTitleForLevel(t *testing.T) {
	tests := []struct {
		level int
		tier  int
	}{
		{0, 1},
		{9, 1},
		{10, 2},
		{19, 2},
		{20, 3},
		{49, 3},
		{50, 4},
		{500, 4},
	}
	for _, tt := range tests {
		got, err := TitleForLevel(tt.level)
		if err != nil {
			t.Fatalf("TitleForLevel(%d): %v", tt.level, err)
		}
		if got.Tier != tt.tier {
			t.Fatalf("TitleForLevel(%d).Tier=%d, want %d", tt.level, got.Tier, tt.tier)
		}
	}

	if _, err := TitleForLevel(-1); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("TitleForLevel(-1) err=%v, want ErrInvalidArgument", err)
	}
}

func TestTitleTierIsMonotonic(t *testing.T) {
	prev := 0
	for level := 0; level <= 60; level++ {
		title, err := TitleForLevel(level)
		if err != nil {
			t.Fatalf("TitleForLevel(%d): %v", level, err)
		}
		if title.Tier < prev {
			t.Fatalf("tier dropped at level %d: %d < %d", level, title.Tier, prev)
		}
		prev = title.Tier
	}
}

func TestLevelForTotalBoundaries(t *testing.T) {
	tests := []struct {
		total int64
		want  int
	}{
		{0, 0},
		{99, 0},
		{100, 1},
		{299, 1},
		{300, 2},
		{700, 3},
		{CumulativeThreshold(10) - 1, 9},
		{CumulativeThreshold(10), 10},
	}
	for _, tt := range tests {
		if got := LevelForTotal(tt.total); got != tt.want {
			t.Fatalf("LevelForTotal(%d)=%d, want %d", tt.total, got, tt.want)
		}
	}
}
