package root

import (
	"fmt"
	"io"
	"strings"

	"herovault/internal/game"
	"herovault/internal/model"
)

func renderView(w io.Writer, v *model.PlayerView) {
	p := v.State
	fmt.Fprintf(w, "%s <%s>  v%d\n", p.Name, p.Email, p.Version)
	fmt.Fprintf(w, "Level %d · %s (tier %d)\n", p.Level, v.Title, v.TitleTier)
	fmt.Fprintf(w, "Progress: %d spendable, %d total, %d to next level\n",
		p.CurrentProgressPoints, p.TotalProgressPoints, v.ProgressToNext)
	if v.SaveStatus != "" {
		fmt.Fprintf(w, "Save: %s\n", v.SaveStatus)
	}

	fmt.Fprintln(w, "\nVaults:")
	for _, vault := range v.Vaults {
		fmt.Fprintf(w, "- [%s] %s: %s\n", vault.ID, vault.Name, vault.Display)
	}

	if len(p.Debts) > 0 {
		fmt.Fprintln(w, "\nDebts:")
		for _, d := range p.Debts {
			fmt.Fprintf(w, "- [%s] %s: %s of %s (%s)\n", d.ID, d.Counterpart,
				model.FormatMinor(d.Remaining), model.FormatMinor(d.Amount), d.Status)
		}
	}

	if len(p.MainQuests) > 0 {
		fmt.Fprintln(w, "\nQuests:")
		for _, q := range p.MainQuests {
			mark := " "
			if q.Done {
				mark = "x"
			}
			fmt.Fprintf(w, "- [%s] %s %s: %s / %s\n", mark, q.ID, q.Title,
				model.FormatMinor(q.Progress), model.FormatMinor(q.Target))
		}
	}

	skills := make([]string, 0, len(model.SkillNames))
	for _, name := range model.SkillNames {
		skills = append(skills, fmt.Sprintf("%s %d", name, p.Skills[name]))
	}
	fmt.Fprintf(w, "\nSkills: %s\n", strings.Join(skills, ", "))

	if len(p.Medals) > 0 {
		names := make([]string, 0, len(p.Medals))
		for _, id := range p.Medals {
			names = append(names, medalName(id))
		}
		fmt.Fprintf(w, "Medals: %s\n", strings.Join(names, ", "))
	}
}

func renderHistory(w io.Writer, p *model.PlayerState, limit int) {
	if len(p.History) == 0 {
		return
	}
	fmt.Fprintln(w, "\nRecent history:")
	for i, h := range p.History {
		if i == limit {
			break
		}
		fmt.Fprintf(w, "- %s %-8s %10s  %s\n", h.Time, h.Type, model.FormatMinor(h.Amount), h.Note)
	}
}

func medalName(id string) string {
	for _, m := range game.Medals {
		if m.ID == id {
			return m.Icon + " " + m.Name
		}
	}
	return id
}
