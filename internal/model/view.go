package model

// VaultView is a vault with its balance formatted for display
type VaultView struct {
	Vault
	Display string `json:"display"`
}

// PlayerView is the read-only projection handed to the presentation layer
type PlayerView struct {
	State          *PlayerState `json:"state"`
	Title          string       `json:"title"`
	TitleTier      int          `json:"titleTier"`
	ProgressToNext int64        `json:"progressToNext"`
	Vaults         []VaultView  `json:"vaults"`
	SaveStatus     string       `json:"saveStatus,omitempty"`
}
