package race

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/bobmcallan/board-race/internal/config"
	"github.com/bobmcallan/board-race/internal/models"
)

func TestBuildLeaderboard(t *testing.T) {
	stats := map[string]models.ListStats{
		"L2": {DisplayName: "Bob", DidCount: 2, NewCount: 0, NetCount: -3},
		"L1": {DisplayName: "Alice", DidCount: 2, NewCount: 4, NetCount: -1},
		"L3": {DisplayName: "Carol", DidCount: 1, NewCount: 0, NetCount: -1},
	}

	tests := []struct {
		key  models.StatKey
		want models.LeaderboardEntry
	}{
		{models.StatDid, models.LeaderboardEntry{Stat: models.StatDid, Count: 2, Winners: []string{"Alice", "Bob"}}},
		{models.StatNew, models.LeaderboardEntry{Stat: models.StatNew, Count: 4, Winners: []string{"Alice"}}},
		{models.StatNet, models.LeaderboardEntry{Stat: models.StatNet, Count: -1}},
	}

	for _, tt := range tests {
		t.Run(string(tt.key), func(t *testing.T) {
			got := BuildLeaderboard(tt.key, stats)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("BuildLeaderboard mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestBuildLeaderboard_ZeroMaximumHasNoWinners(t *testing.T) {
	stats := map[string]models.ListStats{
		"L1": {DisplayName: "Alice"},
		"L2": {DisplayName: "Bob"},
	}
	got := BuildLeaderboard(models.StatDid, stats)
	if got.Count != 0 || len(got.Winners) != 0 {
		t.Errorf("expected no winners at zero, got %+v", got)
	}
}

func TestBuildLeaderboard_NoLists(t *testing.T) {
	got := BuildLeaderboard(models.StatNet, nil)
	if got.Count != 0 || got.Winners != nil {
		t.Errorf("expected empty entry, got %+v", got)
	}
}

func TestRender(t *testing.T) {
	msg := config.DefaultMessages()["did_count"]

	tests := []struct {
		name  string
		entry models.LeaderboardEntry
		want  models.Attachment
	}{
		{
			name:  "single",
			entry: models.LeaderboardEntry{Stat: models.StatDid, Count: 3, Winners: []string{"Alice"}},
			want: models.Attachment{
				Title: "Cards finished",
				Text:  "Congratulations to Alice for finishing 3 card(s)!",
				Color: models.ColorGood,
			},
		},
		{
			name:  "multiple",
			entry: models.LeaderboardEntry{Stat: models.StatDid, Count: 2, Winners: []string{"Alice", "Bob"}},
			want: models.Attachment{
				Title: "Cards finished",
				Text:  "Congratulations to Alice, Bob for finishing 2 card(s) each!",
				Color: models.ColorGood,
			},
		},
		{
			name:  "none",
			entry: models.LeaderboardEntry{Stat: models.StatDid},
			want: models.Attachment{
				Title: "Cards finished",
				Text:  "Unfortunately, nobody finished any cards today...",
				Color: models.ColorWarning,
			},
		},
		{
			name:  "negative maximum is none even with winners",
			entry: models.LeaderboardEntry{Stat: models.StatDid, Count: -1, Winners: []string{"Alice"}},
			want: models.Attachment{
				Title: "Cards finished",
				Text:  "Unfortunately, nobody finished any cards today...",
				Color: models.ColorWarning,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Render(tt.entry, msg)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Render mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRender_CustomTemplate(t *testing.T) {
	msg := config.MessageConfig{
		Title:  "Done",
		Single: "{name}: {count} ({name})",
	}
	got := Render(models.LeaderboardEntry{Count: 5, Winners: []string{"Dev"}}, msg)
	if got.Text != "Dev: 5 (Dev)" {
		t.Errorf("unexpected text %q", got.Text)
	}
}

func TestBuildPayload_Header(t *testing.T) {
	p, err := BuildPayload("", "2026-10-04", nil, config.DefaultMessages())
	if err != nil {
		t.Fatalf("BuildPayload failed: %v", err)
	}
	if p.Text != "*Trello race results for Oct 4, 2026*" {
		t.Errorf("unexpected header %q", p.Text)
	}
	if len(p.Attachments) != 3 {
		t.Fatalf("expected 3 attachments, got %d", len(p.Attachments))
	}
	for _, a := range p.Attachments {
		if a.Color != models.ColorWarning {
			t.Errorf("%s: expected warning with no lists, got %s", a.Title, a.Color)
		}
	}

	p, err = BuildPayload("Sprint board", "2026-01-30", nil, config.DefaultMessages())
	if err != nil {
		t.Fatalf("BuildPayload failed: %v", err)
	}
	if p.Text != "*Sprint board for Jan 30, 2026*" {
		t.Errorf("unexpected header %q", p.Text)
	}
}

func TestBuildPayload_Errors(t *testing.T) {
	if _, err := BuildPayload("", "14/10/2026", nil, config.DefaultMessages()); err == nil {
		t.Error("expected error for malformed date")
	}
	msgs := config.DefaultMessages()
	delete(msgs, "net_count")
	if _, err := BuildPayload("", "2026-10-14", nil, msgs); err == nil {
		t.Error("expected error for missing message table entry")
	}
}
