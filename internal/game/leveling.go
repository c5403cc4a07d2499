package game

import (
	"errors"
	"fmt"
)

const (
	// BaseProgress is the progress needed to leave level 0
	BaseProgress int64 = 100

	// MaxLevel keeps 100 * 2^level inside int64
	MaxLevel = 56
)

var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrNoTitle         = errors.New("no title matches level")
)

// Title is a display title unlocked at MinLevel
type Title struct {
	MinLevel int    `json:"minLevel"`
	Tier     int    `json:"tier"`
	Name     string `json:"name"`
}

// titles must stay ordered by MinLevel, highest first
var titles = []Title{
	{MinLevel: 50, Tier: 4, Name: "Domain Sovereign"},
	{MinLevel: 20, Tier: 3, Name: "Finance King"},
	{MinLevel: 10, Tier: 2, Name: "Saving Expert"},
	{MinLevel: 0, Tier: 1, Name: "Novice Adventurer"},
}

// ProgressToNextLevel returns the progress points needed to go from level to level+1.
func ProgressToNextLevel(level int) (int64, error) {
	if level < 0 {
		return 0, fmt.Errorf("%w: negative level %d", ErrInvalidArgument, level)
	}
	if level > MaxLevel {
		return 0, fmt.Errorf("%w: level %d above max %d", ErrInvalidArgument, level, MaxLevel)
	}
	return BaseProgress << level, nil
}

// CumulativeThreshold returns the total progress required to be at level,
// i.e. the sum of ProgressToNextLevel for every level below it.
func CumulativeThreshold(level int) int64 {
	if level <= 0 {
		return 0
	}
	if level > MaxLevel {
		level = MaxLevel
	}
	return BaseProgress * ((int64(1) << level) - 1)
}

// LevelForTotal returns the highest level L with CumulativeThreshold(L) <= total.
func LevelForTotal(total int64) int {
	level := 0
	for level < MaxLevel && CumulativeThreshold(level+1) <= total {
		level++
	}
	return level
}

// TitleForLevel looks up the highest title whose minimum level is reached.
func TitleForLevel(level int) (Title, error) {
	if level < 0 {
		return Title{}, fmt.Errorf("%w: negative level %d", ErrInvalidArgument, level)
	}
	for _, t := range titles {
		if level >= t.MinLevel {
			return t, nil
		}
	}
	return Title{}, fmt.Errorf("%w: %d", ErrNoTitle, level)
}
