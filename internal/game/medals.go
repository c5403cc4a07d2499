package game

import "herovault/internal/model"

// Medal is a one-time unlockable achievement
type Medal struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Requirement string `json:"requirement"`
	Icon        string `json:"icon"`

	unlocked func(s *model.PlayerState) bool
}

// Medals is the fixed medal table, in display order
var Medals = []Medal{
	{ID: "m1", Name: "Adventure Begins", Requirement: "Total progress reaches 100", Icon: "🌱",
		unlocked: func(s *model.PlayerState) bool { return s.TotalProgressPoints >= 100 }},
	{ID: "m2", Name: "Ten-Thousand Club", Requirement: "Total progress reaches 10,000", Icon: "💰",
		unlocked: func(s *model.PlayerState) bool { return s.TotalProgressPoints >= 10_000 }},
	{ID: "m3", Name: "Debt Free", Requirement: "Repay one contract in full", Icon: "🕊️",
		unlocked: hasRepaidDebt},
	{ID: "m4", Name: "Skill Master", Requirement: "Skill levels sum to 5", Icon: "📜",
		unlocked: func(s *model.PlayerState) bool { return skillTotal(s) >= 5 }},
	{ID: "m5", Name: "Tycoon", Requirement: "Reach level 10", Icon: "👑",
		unlocked: func(s *model.PlayerState) bool { return LevelForTotal(s.TotalProgressPoints) >= 10 }},
}

// UnlockableMedals returns the medals whose requirement holds but are not yet held.
func UnlockableMedals(s *model.PlayerState) []Medal {
	var out []Medal
	for _, m := range Medals {
		if !s.HasMedal(m.ID) && m.unlocked(s) {
			out = append(out, m)
		}
	}
	return out
}

func hasRepaidDebt(s *model.PlayerState) bool {
	for _, d := range s.Debts {
		if d.Status == model.DebtRepaid {
			return true
		}
	}
	return false
}

func skillTotal(s *model.PlayerState) int {
	total := 0
	for _, lv := range s.Skills {
		total += lv
	}
	return total
}
