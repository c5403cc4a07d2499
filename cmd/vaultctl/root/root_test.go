package root

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, dbPath string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(append([]string{"--store", "sqlite", "--sqlite-path", dbPath, "--redis", ""}, args...))
	err := cmd.Execute()
	return out.String(), err
}

func TestBindActShowDelete(t *testing.T) {
	db := filepath.Join(t.TempDir(), "cli.db")

	out, err := run(t, db, "bind", "--name", "Ayla", "-e", "ayla@example.com")
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if !strings.Contains(out, "New adventurer created.") || !strings.Contains(out, "Novice Adventurer") {
		t.Fatalf("bind output:\n%s", out)
	}

	out, err = run(t, db, "bind", "--name", "Ayla", "-e", "ayla@example.com")
	if err != nil || !strings.Contains(out, "Welcome back.") {
		t.Fatalf("rebind err=%v output:\n%s", err, out)
	}

	out, err = run(t, db, "act", "-e", "ayla@example.com", `{"type":"deposit","vaultId":"v1","amount":25000}`)
	if err != nil {
		t.Fatalf("act: %v", err)
	}
	if !strings.Contains(out, "[v1] cash: 250.00") || !strings.Contains(out, "Save: saved") {
		t.Fatalf("act output:\n%s", out)
	}

	if _, err := run(t, db, "act", "-e", "ayla@example.com", `{"type":"spend","vaultId":"v2","amount":1,"category":"food"}`); err == nil {
		t.Fatalf("spend from an empty vault must fail")
	}

	out, err = run(t, db, "show", "-e", "ayla@example.com")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	if !strings.Contains(out, "v1") || !strings.Contains(out, "Level 1") || !strings.Contains(out, "Recent history:") {
		t.Fatalf("show output:\n%s", out)
	}

	if _, err := run(t, db, "delete", "-e", "ayla@example.com"); err == nil {
		t.Fatalf("delete without --yes must fail")
	}
	if _, err := run(t, db, "delete", "-e", "ayla@example.com", "--yes"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := run(t, db, "show", "-e", "ayla@example.com"); err == nil {
		t.Fatalf("show after delete must fail")
	}
}

func TestCommandsRequireEmail(t *testing.T) {
	t.Setenv("HEROVAULT_EMAIL", "")
	db := filepath.Join(t.TempDir(), "cli.db")
	for _, args := range [][]string{{"show"}, {"act", `{"type":"medalCheck"}`}, {"bind", "--name", "A"}} {
		if _, err := run(t, db, args...); err == nil || !strings.Contains(err.Error(), "--email") {
			t.Fatalf("%v: err=%v, want missing email", args, err)
		}
	}
}

func TestLeaderboardWithoutRedis(t *testing.T) {
	out, err := run(t, filepath.Join(t.TempDir(), "cli.db"), "leaderboard")
	if err != nil {
		t.Fatalf("leaderboard: %v", err)
	}
	if !strings.Contains(out, "No ranked players.") {
		t.Fatalf("output:\n%s", out)
	}
}
