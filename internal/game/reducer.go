package game

import (
	"encoding/json"
	"fmt"
	"time"

	"herovault/internal/model"
)

// Apply derives the next state from state and a. The input is never modified.
// On error the returned state is nil and the caller keeps the old one.
func Apply(state *model.PlayerState, a Action, now time.Time) (*model.PlayerState, error) {
	if state == nil {
		return nil, fmt.Errorf("%w: no player state", ErrInvalidAction)
	}
	if a == nil {
		return nil, fmt.Errorf("%w: nil action", ErrInvalidAction)
	}

	next := state.Clone()
	if err := a.apply(next, now); err != nil {
		return nil, err
	}
	next.Level = LevelForTotal(next.TotalProgressPoints)
	return next, nil
}

// envelope is the wire form of an action: {"type": "...", ...fields}
type envelope struct {
	Type Kind `json:"type"`
}

// DecodeAction parses an action envelope into its typed variant
func DecodeAction(data []byte) (Action, error) {
	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}

	var a Action
	var err error
	switch env.Type {
	case KindDeposit:
		a, err = decodeAs[Deposit](data)
	case KindSpend:
		a, err = decodeAs[Spend](data)
	case KindAddVault:
		a, err = decodeAs[AddVault](data)
	case KindAddDebt:
		a, err = decodeAs[AddDebt](data)
	case KindRepay:
		a, err = decodeAs[Repay](data)
	case KindSkillUpgrade:
		a, err = decodeAs[SkillUpgrade](data)
	case KindAddQuest:
		a, err = decodeAs[AddQuest](data)
	case KindQuestProgress:
		a, err = decodeAs[QuestProgress](data)
	case KindDailySignIn:
		a, err = decodeAs[DailySignIn](data)
	case KindMedalCheck:
		a = MedalCheck{}
	case KindSetProfilePicture:
		a, err = decodeAs[SetProfilePicture](data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownActionType, env.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidAction, err)
	}
	return a, nil
}

// EncodeAction renders a into its envelope form
func EncodeAction(a Action) ([]byte, error) {
	body, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, err
	}
	fields["type"], _ = json.Marshal(a.Kind())
	return json.Marshal(fields)
}

func decodeAs[T Action](data []byte) (Action, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// View builds the presentation projection of state
func View(state *model.PlayerState) (*model.PlayerView, error) {
	title, err := TitleForLevel(state.Level)
	if err != nil {
		return nil, err
	}
	next, err := ProgressToNextLevel(state.Level)
	if err != nil {
		return nil, err
	}
	vaults := make([]model.VaultView, len(state.Vaults))
	for i, v := range state.Vaults {
		vaults[i] = model.VaultView{Vault: v, Display: model.FormatMinor(v.Amount)}
	}
	return &model.PlayerView{
		State:          state,
		Title:          title.Name,
		TitleTier:      title.Tier,
		ProgressToNext: next,
		Vaults:         vaults,
	}, nil
}
