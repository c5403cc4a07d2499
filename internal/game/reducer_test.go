package game

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"

	"herovault/internal/model"
)

var testNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func newTestState(t *testing.T) *model.PlayerState {
	t.Helper()
	return model.NewPlayerState("Ayla", "ayla@example.com", testNow)
}

func mustApply(t *testing.T, s *model.PlayerState, a Action) *model.PlayerState {
	t.Helper()
	next, err := Apply(s, a, testNow)
	if err != nil {
		t.Fatalf("Apply(%s): %v", a.Kind(), err)
	}
	return next
}

func TestDepositAwardsProgress(t *testing.T) {
	s := newTestState(t)
	before := len(s.History)

	next := mustApply(t, s, Deposit{VaultID: "v1", Amount: 250})

	if got := next.Vaults[0].Amount; got != 250 {
		t.Fatalf("vault amount=%d, want 250", got)
	}
	if next.CurrentProgressPoints != 2 || next.TotalProgressPoints != 2 {
		t.Fatalf("progress=%d/%d, want 2/2", next.CurrentProgressPoints, next.TotalProgressPoints)
	}
	if len(next.History) != before+1 {
		t.Fatalf("history len=%d, want %d", len(next.History), before+1)
	}
	h := next.History[0]
	if h.Type != HistoryInflow || h.Amount != 250 || h.Note != "to cash" {
		t.Fatalf("history entry=%+v", h)
	}
	if h.Time != "2026/03/14 09:30:00" {
		t.Fatalf("history time=%q", h.Time)
	}

	// input untouched
	if s.Vaults[0].Amount != 0 || len(s.History) != before {
		t.Fatalf("input state was mutated")
	}
}

func TestDepositRejectsNonPositiveAmount(t *testing.T) {
	s := newTestState(t)
	snapshot := s.Clone()

	for _, amount := range []int64{0, -5} {
		next, err := Apply(s, Deposit{VaultID: "v1", Amount: amount}, testNow)
		if !errors.Is(err, ErrInvalidAction) {
			t.Fatalf("amount %d: err=%v, want ErrInvalidAction", amount, err)
		}
		if next != nil {
			t.Fatalf("amount %d: expected nil state on error", amount)
		}
	}
	if !reflect.DeepEqual(s, snapshot) {
		t.Fatalf("state changed after rejected deposit")
	}
}

func TestDepositUnknownVault(t *testing.T) {
	s := newTestState(t)
	snapshot := s.Clone()

	_, err := Apply(s, Deposit{VaultID: "nope", Amount: 100}, testNow)
	if !errors.Is(err, ErrVaultNotFound) {
		t.Fatalf("err=%v, want ErrVaultNotFound", err)
	}
	if !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("ErrVaultNotFound should wrap ErrInvalidAction")
	}
	if !reflect.DeepEqual(s, snapshot) {
		t.Fatalf("state changed after rejected deposit")
	}
}

func TestAmountLimits(t *testing.T) {
	tests := []struct {
		name  string
		setup func(s *model.PlayerState)
		act   Action
	}{
		{
			name:  "deposit past vault limit",
			setup: func(s *model.PlayerState) { s.Vaults[0].Amount = math.MaxInt64 },
			act:   Deposit{VaultID: "v1", Amount: 1},
		},
		{
			name:  "deposit max into non-empty vault",
			setup: func(s *model.PlayerState) { s.Vaults[0].Amount = 100 },
			act:   Deposit{VaultID: "v1", Amount: math.MaxInt64},
		},
		{
			name:  "deposit past progress limit",
			setup: func(s *model.PlayerState) { s.TotalProgressPoints = math.MaxInt64 - 1 },
			act:   Deposit{VaultID: "v2", Amount: 500},
		},
		{
			name: "repay past progress limit",
			setup: func(s *model.PlayerState) {
				s.Vaults[0].Amount = 1000
				s.Debts = append(s.Debts, model.Debt{ID: "d1", Counterpart: "Bo", Amount: 1000, Remaining: 1000, Status: model.DebtOpen})
				s.CurrentProgressPoints = math.MaxInt64 - 3
			},
			act: Repay{DebtID: "d1", VaultID: "v1", Amount: 1000},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestState(t)
			tt.setup(s)
			snapshot := s.Clone()

			next, err := Apply(s, tt.act, testNow)
			if !errors.Is(err, ErrAmountTooLarge) || !errors.Is(err, ErrInvalidAction) {
				t.Fatalf("err=%v, want ErrAmountTooLarge", err)
			}
			if next != nil {
				t.Fatalf("expected nil state on error")
			}
			if !reflect.DeepEqual(s, snapshot) {
				t.Fatalf("state changed after rejected action")
			}
		})
	}
}

func TestMaxDepositThenOne(t *testing.T) {
	s := mustApply(t, newTestState(t), Deposit{VaultID: "v1", Amount: math.MaxInt64})
	if s.Vaults[0].Amount != math.MaxInt64 {
		t.Fatalf("vault=%d", s.Vaults[0].Amount)
	}
	if _, err := Apply(s, Deposit{VaultID: "v1", Amount: 1}, testNow); !errors.Is(err, ErrAmountTooLarge) {
		t.Fatalf("err=%v, want ErrAmountTooLarge", err)
	}
	if s.Vaults[0].Amount < 0 {
		t.Fatalf("vault went negative")
	}
}

func TestDepositRecomputesLevel(t *testing.T) {
	s := newTestState(t)
	next := mustApply(t, s, Deposit{VaultID: "v2", Amount: 30_000})
	if next.TotalProgressPoints != 300 {
		t.Fatalf("total=%d, want 300", next.TotalProgressPoints)
	}
	if next.Level != 2 {
		t.Fatalf("level=%d, want 2", next.Level)
	}
}

func TestSpend(t *testing.T) {
	s := mustApply(t, newTestState(t), Deposit{VaultID: "v1", Amount: 1000})

	tests := []struct {
		name   string
		action Spend
		err    error
	}{
		{"ok", Spend{VaultID: "v1", Amount: 400, Category: "food", Note: "ramen"}, nil},
		{"overdraw", Spend{VaultID: "v1", Amount: 1001, Category: "food"}, ErrInsufficientFunds},
		{"category", Spend{VaultID: "v1", Amount: 1, Category: "yachts"}, ErrUnknownCategory},
		{"vault", Spend{VaultID: "v9", Amount: 1, Category: "food"}, ErrVaultNotFound},
		{"zero", Spend{VaultID: "v1", Amount: 0, Category: "food"}, ErrNonPositiveAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := Apply(s, tt.action, testNow)
			if tt.err != nil {
				if !errors.Is(err, tt.err) {
					t.Fatalf("err=%v, want %v", err, tt.err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Apply: %v", err)
			}
			if next.Vaults[0].Amount != 600 {
				t.Fatalf("vault=%d, want 600", next.Vaults[0].Amount)
			}
			if next.TotalProgressPoints != s.TotalProgressPoints {
				t.Fatalf("spending must not change progress")
			}
			if h := next.History[0]; h.Type != HistoryOutflow || h.Note != "food from cash: ramen" {
				t.Fatalf("history=%+v", h)
			}
		})
	}
}

func TestDebtLifecycle(t *testing.T) {
	s := mustApply(t, newTestState(t), Deposit{VaultID: "v2", Amount: 50_000})
	s = mustApply(t, s, AddDebt{ID: "d1", Counterpart: "Bram", Amount: 20_000})

	if _, err := Apply(s, AddDebt{ID: "d1", Counterpart: "Bram", Amount: 1}, testNow); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("duplicate debt err=%v", err)
	}
	if _, err := Apply(s, Repay{DebtID: "d1", VaultID: "v2", Amount: 20_001}, testNow); !errors.Is(err, ErrOverpayment) {
		t.Fatalf("overpay err=%v", err)
	}

	s = mustApply(t, s, Repay{DebtID: "d1", VaultID: "v2", Amount: 15_000})
	if d := s.Debts[0]; d.Remaining != 5_000 || d.Status != model.DebtOpen {
		t.Fatalf("debt after partial=%+v", d)
	}
	s = mustApply(t, s, Repay{DebtID: "d1", VaultID: "v2", Amount: 5_000})
	if d := s.Debts[0]; d.Remaining != 0 || d.Status != model.DebtRepaid {
		t.Fatalf("debt after full=%+v", d)
	}
	if s.Vaults[1].Amount != 30_000 {
		t.Fatalf("bank=%d, want 30000", s.Vaults[1].Amount)
	}
	// 500 from deposit, 150 + 50 from repayments
	if s.TotalProgressPoints != 700 {
		t.Fatalf("total=%d, want 700", s.TotalProgressPoints)
	}
	if _, err := Apply(s, Repay{DebtID: "d1", VaultID: "v2", Amount: 1}, testNow); !errors.Is(err, ErrDebtClosed) {
		t.Fatalf("repay closed err=%v", err)
	}
}

func TestSkillUpgradeSpendsCurrentPoints(t *testing.T) {
	s := mustApply(t, newTestState(t), Deposit{VaultID: "v1", Amount: 30_000}) // 300 points

	s = mustApply(t, s, SkillUpgrade{Skill: model.SkillFrugality}) // costs 100
	s = mustApply(t, s, SkillUpgrade{Skill: model.SkillFrugality}) // costs 200
	if s.Skills[model.SkillFrugality] != 2 {
		t.Fatalf("frugality=%d, want 2", s.Skills[model.SkillFrugality])
	}
	if s.CurrentProgressPoints != 0 {
		t.Fatalf("current=%d, want 0", s.CurrentProgressPoints)
	}
	if s.TotalProgressPoints != 300 {
		t.Fatalf("total must not decrease, got %d", s.TotalProgressPoints)
	}
	if _, err := Apply(s, SkillUpgrade{Skill: model.SkillFrugality}, testNow); !errors.Is(err, ErrInsufficientPoints) {
		t.Fatalf("err=%v, want ErrInsufficientPoints", err)
	}
	if _, err := Apply(s, SkillUpgrade{Skill: "alchemy"}, testNow); !errors.Is(err, ErrUnknownSkill) {
		t.Fatalf("err=%v, want ErrUnknownSkill", err)
	}
}

func TestQuestProgressCapsAtTarget(t *testing.T) {
	s := mustApply(t, newTestState(t), AddQuest{ID: "q1", Title: "Emergency fund", Target: 10})
	s = mustApply(t, s, QuestProgress{QuestID: "q1", Amount: 4})
	s = mustApply(t, s, QuestProgress{QuestID: "q1", Amount: 40})

	q := s.MainQuests[0]
	if q.Progress != 10 || !q.Done {
		t.Fatalf("quest=%+v", q)
	}
	if _, err := Apply(s, QuestProgress{QuestID: "q1", Amount: 1}, testNow); !errors.Is(err, ErrQuestDone) {
		t.Fatalf("err=%v, want ErrQuestDone", err)
	}
}

func TestQuestProgressHugeAmountCaps(t *testing.T) {
	s := mustApply(t, newTestState(t), AddQuest{ID: "q1", Title: "House", Target: 1_000_000})
	s = mustApply(t, s, QuestProgress{QuestID: "q1", Amount: 5})
	s = mustApply(t, s, QuestProgress{QuestID: "q1", Amount: math.MaxInt64})

	q := s.MainQuests[0]
	if q.Progress != 1_000_000 || !q.Done {
		t.Fatalf("quest=%+v", q)
	}
}

func TestDailySignInOncePerDay(t *testing.T) {
	s := mustApply(t, newTestState(t), DailySignIn{})
	if !s.Daily.SignedInToday || s.Daily.LastResetDate != "2026/03/14" {
		t.Fatalf("daily=%+v", s.Daily)
	}
	if _, err := Apply(s, DailySignIn{}, testNow); !errors.Is(err, ErrAlreadySignedIn) {
		t.Fatalf("err=%v, want ErrAlreadySignedIn", err)
	}

	tomorrow := testNow.Add(24 * time.Hour)
	next, err := Apply(s, DailySignIn{}, tomorrow)
	if err != nil {
		t.Fatalf("next day sign-in: %v", err)
	}
	if next.Daily.LastResetDate != "2026/03/15" {
		t.Fatalf("daily=%+v", next.Daily)
	}
}

func TestMedalCheckUnlocksOnce(t *testing.T) {
	s := mustApply(t, newTestState(t), Deposit{VaultID: "v1", Amount: 10_000}) // 100 points
	s = mustApply(t, s, MedalCheck{})
	if !reflect.DeepEqual(s.Medals, []string{"m1"}) {
		t.Fatalf("medals=%v, want [m1]", s.Medals)
	}
	if s.History[0].Type != HistoryMedal {
		t.Fatalf("expected medal history entry, got %+v", s.History[0])
	}

	hist := len(s.History)
	s = mustApply(t, s, MedalCheck{})
	if len(s.Medals) != 1 || len(s.History) != hist {
		t.Fatalf("second check should be a no-op: medals=%v history=%d", s.Medals, len(s.History))
	}
}

func TestVaultAndProfileActions(t *testing.T) {
	s := mustApply(t, newTestState(t), AddVault{ID: "v3", Name: "travel"})
	if len(s.Vaults) != 3 || s.Vaults[2].Name != "travel" {
		t.Fatalf("vaults=%+v", s.Vaults)
	}
	if _, err := Apply(s, AddVault{ID: "v3", Name: "again"}, testNow); !errors.Is(err, ErrDuplicateID) {
		t.Fatalf("err=%v, want ErrDuplicateID", err)
	}

	s = mustApply(t, s, SetProfilePicture{Ref: "https://img.example/me.png"})
	if s.ProfilePicture != "https://img.example/me.png" {
		t.Fatalf("profile picture=%q", s.ProfilePicture)
	}
}

func TestDecodeAction(t *testing.T) {
	a, err := DecodeAction([]byte(`{"type":"deposit","vaultId":"v1","amount":250}`))
	if err != nil {
		t.Fatalf("DecodeAction: %v", err)
	}
	dep, ok := a.(Deposit)
	if !ok || dep.VaultID != "v1" || dep.Amount != 250 {
		t.Fatalf("decoded=%#v", a)
	}

	if _, err := DecodeAction([]byte(`{"type":"teleport"}`)); !errors.Is(err, ErrUnknownActionType) {
		t.Fatalf("err=%v, want ErrUnknownActionType", err)
	}
	if _, err := DecodeAction([]byte(`{"type":"deposit","amount":"lots"}`)); !errors.Is(err, ErrInvalidAction) {
		t.Fatalf("err=%v, want ErrInvalidAction", err)
	}

	raw, err := EncodeAction(Spend{VaultID: "v2", Amount: 5, Category: "food"})
	if err != nil {
		t.Fatalf("EncodeAction: %v", err)
	}
	back, err := DecodeAction(raw)
	if err != nil {
		t.Fatalf("DecodeAction(EncodeAction): %v", err)
	}
	if back != (Spend{VaultID: "v2", Amount: 5, Category: "food"}) {
		t.Fatalf("re-decoded=%#v", back)
	}
}

func TestView(t *testing.T) {
	s := mustApply(t, newTestState(t), Deposit{VaultID: "v1", Amount: 1234})
	v, err := View(s)
	if err != nil {
		t.Fatalf("View: %v", err)
	}
	if v.Vaults[0].Display != "12.34" {
		t.Fatalf("display=%q, want 12.34", v.Vaults[0].Display)
	}
	if v.TitleTier != 1 || v.ProgressToNext != 100 {
		t.Fatalf("view=%+v", v)
	}
}
