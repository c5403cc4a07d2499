package game

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"time"

	"herovault/internal/model"
)

// Kind names an action variant on the wire
type Kind string

const (
	KindDeposit           Kind = "deposit"
	KindSpend             Kind = "spend"
	KindAddVault          Kind = "addVault"
	KindAddDebt           Kind = "addDebt"
	KindRepay             Kind = "repay"
	KindSkillUpgrade      Kind = "skillUpgrade"
	KindAddQuest          Kind = "addQuest"
	KindQuestProgress     Kind = "questProgress"
	KindDailySignIn       Kind = "dailySignIn"
	KindMedalCheck        Kind = "medalCheck"
	KindSetProfilePicture Kind = "setProfilePicture"
)

// History entry types
const (
	HistoryInflow   = "inflow"
	HistoryOutflow  = "outflow"
	HistoryContract = "contract"
	HistoryRepay    = "repay"
	HistorySkill    = "skill"
	HistoryQuest    = "quest"
	HistorySignIn   = "signin"
	HistoryMedal    = "medal"
)

// Categories are the accepted spending categories
var Categories = []string{"food", "clothing", "housing", "transport", "education", "leisure", "health", "other"}

// Action is a validated intent to transform a PlayerState.
// The set of variants is closed: only types in this package implement it.
type Action interface {
	Kind() Kind
	// apply mutates s, which is always a private clone
	apply(s *model.PlayerState, now time.Time) error
}

// Deposit adds Amount to a vault and awards Amount/100 progress points
type Deposit struct {
	VaultID string `json:"vaultId"`
	Amount  int64  `json:"amount"`
	Note    string `json:"note,omitempty"`
}

// Spend removes Amount from a vault
type Spend struct {
	VaultID  string `json:"vaultId"`
	Amount   int64  `json:"amount"`
	Category string `json:"category"`
	Note     string `json:"note,omitempty"`
}

// AddVault opens an empty vault
type AddVault struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AddDebt records a new repayment contract
type AddDebt struct {
	ID          string `json:"id"`
	Counterpart string `json:"counterpart"`
	Amount      int64  `json:"amount"`
}

// Repay pays Amount of a debt out of a vault
type Repay struct {
	DebtID  string `json:"debtId"`
	VaultID string `json:"vaultId"`
	Amount  int64  `json:"amount"`
}

// SkillUpgrade spends current progress points to raise a skill one level
type SkillUpgrade struct {
	Skill string `json:"skill"`
}

// AddQuest opens a main quest
type AddQuest struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Target int64  `json:"target"`
}

// QuestProgress advances a main quest
type QuestProgress struct {
	QuestID string `json:"questId"`
	Amount  int64  `json:"amount"`
}

// DailySignIn marks the player signed in for Date (defaults to the action's day)
type DailySignIn struct {
	Date string `json:"date,omitempty"`
}

// MedalCheck unlocks every medal whose requirement currently holds
type MedalCheck struct{}

// SetProfilePicture sets or clears the opaque avatar reference
type SetProfilePicture struct {
	Ref string `json:"ref"`
}

func (Deposit) Kind() Kind           { return KindDeposit }
func (Spend) Kind() Kind             { return KindSpend }
func (AddVault) Kind() Kind          { return KindAddVault }
func (AddDebt) Kind() Kind           { return KindAddDebt }
func (Repay) Kind() Kind             { return KindRepay }
func (SkillUpgrade) Kind() Kind      { return KindSkillUpgrade }
func (AddQuest) Kind() Kind          { return KindAddQuest }
func (QuestProgress) Kind() Kind     { return KindQuestProgress }
func (DailySignIn) Kind() Kind       { return KindDailySignIn }
func (MedalCheck) Kind() Kind        { return KindMedalCheck }
func (SetProfilePicture) Kind() Kind { return KindSetProfilePicture }

func (a Deposit) apply(s *model.PlayerState, now time.Time) error {
	if a.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	i := s.VaultIndex(a.VaultID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrVaultNotFound, a.VaultID)
	}
	gained := a.Amount / 100
	if !fits(s.Vaults[i].Amount, a.Amount) || !canAward(s, gained) {
		return ErrAmountTooLarge
	}
	s.Vaults[i].Amount += a.Amount
	s.CurrentProgressPoints += gained
	s.TotalProgressPoints += gained
	prepend(s, now, HistoryInflow, a.Amount, withNote("to "+s.Vaults[i].Name, a.Note))
	return nil
}

func (a Spend) apply(s *model.PlayerState, now time.Time) error {
	if a.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	if !slices.Contains(Categories, a.Category) {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, a.Category)
	}
	i := s.VaultIndex(a.VaultID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrVaultNotFound, a.VaultID)
	}
	if s.Vaults[i].Amount < a.Amount {
		return ErrInsufficientFunds
	}
	s.Vaults[i].Amount -= a.Amount
	prepend(s, now, HistoryOutflow, a.Amount, withNote(a.Category+" from "+s.Vaults[i].Name, a.Note))
	return nil
}

func (a AddVault) apply(s *model.PlayerState, _ time.Time) error {
	name := strings.TrimSpace(a.Name)
	if a.ID == "" || name == "" {
		return fmt.Errorf("%w: vault id and name", ErrMissingField)
	}
	if s.VaultIndex(a.ID) >= 0 {
		return fmt.Errorf("%w: vault %q", ErrDuplicateID, a.ID)
	}
	s.Vaults = append(s.Vaults, model.Vault{ID: a.ID, Name: name})
	return nil
}

func (a AddDebt) apply(s *model.PlayerState, now time.Time) error {
	counterpart := strings.TrimSpace(a.Counterpart)
	if a.ID == "" || counterpart == "" {
		return fmt.Errorf("%w: debt id and counterpart", ErrMissingField)
	}
	if a.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	if s.DebtIndex(a.ID) >= 0 {
		return fmt.Errorf("%w: debt %q", ErrDuplicateID, a.ID)
	}
	s.Debts = append(s.Debts, model.Debt{
		ID:          a.ID,
		Counterpart: counterpart,
		Amount:      a.Amount,
		Remaining:   a.Amount,
		Status:      model.DebtOpen,
	})
	prepend(s, now, HistoryContract, a.Amount, "owed to "+counterpart)
	return nil
}

func (a Repay) apply(s *model.PlayerState, now time.Time) error {
	if a.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	d := s.DebtIndex(a.DebtID)
	if d < 0 {
		return fmt.Errorf("%w: %q", ErrDebtNotFound, a.DebtID)
	}
	debt := &s.Debts[d]
	if debt.Status != model.DebtOpen {
		return ErrDebtClosed
	}
	if a.Amount > debt.Remaining {
		return ErrOverpayment
	}
	v := s.VaultIndex(a.VaultID)
	if v < 0 {
		return fmt.Errorf("%w: %q", ErrVaultNotFound, a.VaultID)
	}
	if s.Vaults[v].Amount < a.Amount {
		return ErrInsufficientFunds
	}
	gained := a.Amount / 100
	if !canAward(s, gained) {
		return ErrAmountTooLarge
	}

	s.Vaults[v].Amount -= a.Amount
	debt.Remaining -= a.Amount
	if debt.Remaining == 0 {
		debt.Status = model.DebtRepaid
	}
	s.CurrentProgressPoints += gained
	s.TotalProgressPoints += gained
	prepend(s, now, HistoryRepay, a.Amount, "to "+debt.Counterpart+" from "+s.Vaults[v].Name)
	return nil
}

func (a SkillUpgrade) apply(s *model.PlayerState, now time.Time) error {
	if !slices.Contains(model.SkillNames, a.Skill) {
		return fmt.Errorf("%w: %q", ErrUnknownSkill, a.Skill)
	}
	cost, err := ProgressToNextLevel(s.Skills[a.Skill])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	if s.CurrentProgressPoints < cost {
		return ErrInsufficientPoints
	}
	if s.Skills == nil {
		s.Skills = make(map[string]int, len(model.SkillNames))
	}
	s.CurrentProgressPoints -= cost
	s.Skills[a.Skill]++
	prepend(s, now, HistorySkill, cost, fmt.Sprintf("%s to level %d", a.Skill, s.Skills[a.Skill]))
	return nil
}

func (a AddQuest) apply(s *model.PlayerState, _ time.Time) error {
	title := strings.TrimSpace(a.Title)
	if a.ID == "" || title == "" {
		return fmt.Errorf("%w: quest id and title", ErrMissingField)
	}
	if a.Target <= 0 {
		return ErrNonPositiveAmount
	}
	if s.QuestIndex(a.ID) >= 0 {
		return fmt.Errorf("%w: quest %q", ErrDuplicateID, a.ID)
	}
	s.MainQuests = append(s.MainQuests, model.Quest{ID: a.ID, Title: title, Target: a.Target})
	return nil
}

func (a QuestProgress) apply(s *model.PlayerState, now time.Time) error {
	if a.Amount <= 0 {
		return ErrNonPositiveAmount
	}
	i := s.QuestIndex(a.QuestID)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrQuestNotFound, a.QuestID)
	}
	q := &s.MainQuests[i]
	if q.Done {
		return ErrQuestDone
	}
	q.Progress += min(a.Amount, q.Target-q.Progress)
	q.Done = q.Progress == q.Target
	note := fmt.Sprintf("%s %d/%d", q.Title, q.Progress, q.Target)
	if q.Done {
		note += " completed"
	}
	prepend(s, now, HistoryQuest, a.Amount, note)
	return nil
}

func (a DailySignIn) apply(s *model.PlayerState, now time.Time) error {
	date := a.Date
	if date == "" {
		date = now.Format(model.DateLayout)
	}
	if s.Daily.LastResetDate != date {
		s.Daily = model.Daily{LastResetDate: date}
	}
	if s.Daily.SignedInToday {
		return ErrAlreadySignedIn
	}
	s.Daily.SignedInToday = true
	prepend(s, now, HistorySignIn, 0, date)
	return nil
}

func (MedalCheck) apply(s *model.PlayerState, now time.Time) error {
	for _, m := range UnlockableMedals(s) {
		s.Medals = append(s.Medals, m.ID)
		prepend(s, now, HistoryMedal, 0, m.Name)
	}
	return nil
}

func (a SetProfilePicture) apply(s *model.PlayerState, _ time.Time) error {
	s.ProfilePicture = strings.TrimSpace(a.Ref)
	return nil
}

// fits reports whether base+delta stays within int64 for a positive delta
func fits(base, delta int64) bool {
	return base <= math.MaxInt64-delta
}

func canAward(s *model.PlayerState, gained int64) bool {
	return fits(s.CurrentProgressPoints, gained) && fits(s.TotalProgressPoints, gained)
}

// prepend adds a history entry at the head; entries are never edited afterwards
func prepend(s *model.PlayerState, now time.Time, typ string, amount int64, note string) {
	entry := model.HistoryEntry{Type: typ, Amount: amount, Note: note, Time: now.Format(model.TimeLayout)}
	s.History = append([]model.HistoryEntry{entry}, s.History...)
}

func withNote(base, extra string) string {
	if extra = strings.TrimSpace(extra); extra != "" {
		return base + ": " + extra
	}
	return base
}
