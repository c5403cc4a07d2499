package model

import (
	"maps"
	"slices"
	"time"
)

// SchemaVersion is written into every persisted player document
const SchemaVersion = 1

// Skill names (fixed key set)
const (
	SkillFrugality  = "frugality"
	SkillManaBoost  = "manaBoost"
	SkillRepayBless = "repayBless"
)

// SkillNames lists every skill a player document carries
var SkillNames = []string{SkillFrugality, SkillManaBoost, SkillRepayBless}

type DebtStatus string

const (
	DebtOpen   DebtStatus = "open"
	DebtRepaid DebtStatus = "repaid"
)

// Vault is a named balance bucket in minor currency units
type Vault struct {
	ID     string `json:"id" bson:"id"`
	Name   string `json:"name" bson:"name"`
	Amount int64  `json:"amount" bson:"amount"`
}

// HistoryEntry is an immutable log line, newest first in PlayerState.History
type HistoryEntry struct {
	Type   string `json:"type" bson:"type"`
	Amount int64  `json:"amount" bson:"amount"`
	Note   string `json:"note" bson:"note"`
	Time   string `json:"time" bson:"time"`
}

// Debt is a repayment contract with a counterpart
type Debt struct {
	ID          string     `json:"id" bson:"id"`
	Counterpart string     `json:"counterpart" bson:"counterpart"`
	Amount      int64      `json:"amount" bson:"amount"`       // Original principal
	Remaining   int64      `json:"remaining" bson:"remaining"` // Still owed
	Status      DebtStatus `json:"status" bson:"status"`
}

// Quest is a main quest with a numeric target
type Quest struct {
	ID       string `json:"id" bson:"id"`
	Title    string `json:"title" bson:"title"`
	Target   int64  `json:"target" bson:"target"`
	Progress int64  `json:"progress" bson:"progress"`
	Done     bool   `json:"done" bson:"done"`
}

// Daily drives once-per-day sign-in eligibility
type Daily struct {
	LastResetDate string `json:"lastResetDate" bson:"lastResetDate"`
	SignedInToday bool   `json:"signedInToday" bson:"signedInToday"`
}

// PlayerState is the whole player document, stored and synced as one unit
type PlayerState struct {
	Key                   string         `json:"key" bson:"_id"` // Normalized email
	SchemaVersion         int            `json:"schemaVersion" bson:"schemaVersion"`
	Version               int64          `json:"version" bson:"version"` // Bumped by every successful save
	Name                  string         `json:"name" bson:"name"`
	Email                 string         `json:"email" bson:"email"`
	Level                 int            `json:"level" bson:"level"`
	CurrentProgressPoints int64          `json:"currentProgressPoints" bson:"currentProgressPoints"`
	TotalProgressPoints   int64          `json:"totalProgressPoints" bson:"totalProgressPoints"`
	Vaults                []Vault        `json:"vaults" bson:"vaults"`
	History               []HistoryEntry `json:"history" bson:"history"`
	Debts                 []Debt         `json:"debts" bson:"debts"`
	Medals                []string       `json:"medals" bson:"medals"`
	Skills                map[string]int `json:"skills" bson:"skills"`
	MainQuests            []Quest        `json:"mainQuests" bson:"mainQuests"`
	Daily                 Daily          `json:"daily" bson:"daily"`
	ProfilePicture        string         `json:"profilePicture,omitempty" bson:"profilePicture,omitempty"`
	CreatedAt             time.Time      `json:"createdAt" bson:"createdAt"`
	UpdatedAt             time.Time      `json:"updatedAt" bson:"updatedAt"`
}

// NewPlayerState builds the default record for a first-time player.
// The caller is expected to have validated the identity.
func NewPlayerState(name, email string, now time.Time) *PlayerState {
	skills := make(map[string]int, len(SkillNames))
	for _, s := range SkillNames {
		skills[s] = 0
	}
	return &PlayerState{
		Key:           NormalizeEmail(email),
		SchemaVersion: SchemaVersion,
		Name:          name,
		Email:         email,
		Vaults: []Vault{
			{ID: "v1", Name: "cash", Amount: 0},
			{ID: "v2", Name: "bank", Amount: 0},
		},
		History:    []HistoryEntry{},
		Debts:      []Debt{},
		Medals:     []string{},
		Skills:     skills,
		MainQuests: []Quest{},
		Daily:      Daily{LastResetDate: now.Format(DateLayout)},
		CreatedAt:  now.UTC().Truncate(time.Millisecond),
		UpdatedAt:  now.UTC().Truncate(time.Millisecond),
	}
}

// Clone returns a deep copy so derived states never alias their parent
func (p *PlayerState) Clone() *PlayerState {
	if p == nil {
		return nil
	}
	cp := *p
	cp.Vaults = slices.Clone(p.Vaults)
	cp.History = slices.Clone(p.History)
	cp.Debts = slices.Clone(p.Debts)
	cp.Medals = slices.Clone(p.Medals)
	cp.MainQuests = slices.Clone(p.MainQuests)
	cp.Skills = maps.Clone(p.Skills)
	return &cp
}

// VaultIndex returns the position of the vault with id, or -1
func (p *PlayerState) VaultIndex(id string) int {
	return slices.IndexFunc(p.Vaults, func(v Vault) bool { return v.ID == id })
}

// DebtIndex returns the position of the debt with id, or -1
func (p *PlayerState) DebtIndex(id string) int {
	return slices.IndexFunc(p.Debts, func(d Debt) bool { return d.ID == id })
}

// QuestIndex returns the position of the quest with id, or -1
func (p *PlayerState) QuestIndex(id string) int {
	return slices.IndexFunc(p.MainQuests, func(q Quest) bool { return q.ID == id })
}

// HasMedal reports whether the medal id is unlocked
func (p *PlayerState) HasMedal(id string) bool {
	return slices.Contains(p.Medals, id)
}

// Layouts used for history timestamps and the daily reset date
const (
	TimeLayout = "2006/01/02 15:04:05"
	DateLayout = "2006/01/02"
)
