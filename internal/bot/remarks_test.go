package bot

import (
	"testing"

	"tienlen/internal/domain"
)

func outcome(player string, trick int, cards ...domain.Card) domain.Outcome {
	combo := domain.IdentifyCombination(cards)
	return domain.Outcome{PlayerID: player, TrickNumber: trick, Combo: &combo, AutoWin: domain.DetectAutoWin(cards)}
}

func TestRemarks(t *testing.T) {
	isBot := func(id string) bool { return id != "human" }

	led := outcome("bot-hazel", 3, card(domain.RankQ, domain.Hearts))
	led.Led = true
	finished := outcome("bot-blake", 5, card(domain.Rank9, domain.Hearts))
	finished.Finished = true
	beaten := outcome("human", 4, card(domain.RankK, domain.Hearts))
	beaten.BeatenOwner = "bot-delilah"
	bombed := outcome("human", 4,
		card(domain.Rank6, domain.Spades), card(domain.Rank6, domain.Clubs), card(domain.Rank6, domain.Diamonds), card(domain.Rank6, domain.Hearts))
	bombed.BeatenOwner = "bot-delilah"
	humanLead := outcome("human", 4, card(domain.RankK, domain.Hearts))
	humanLead.Led = true

	tests := []struct {
		name string
		out  domain.Outcome
		want []Remark
	}{
		{name: "opening trick is silent", out: outcome("bot-hazel", 1, card(domain.Rank2, domain.Hearts))},
		{name: "bot leads", out: led, want: []Remark{{PlayerID: "bot-hazel", Context: RemarkLeading}}},
		{
			name: "bot follows",
			out:  outcome("bot-hazel", 3, card(domain.RankQ, domain.Hearts)),
			want: []Remark{{PlayerID: "bot-hazel", Context: RemarkFollowing}},
		},
		{
			name: "two is strong",
			out:  outcome("bot-hazel", 3, card(domain.Rank2, domain.Clubs)),
			want: []Remark{{PlayerID: "bot-hazel", Context: RemarkStrongPlay}},
		},
		{
			name: "low single is weak",
			out:  outcome("bot-hazel", 3, card(domain.Rank5, domain.Clubs)),
			want: []Remark{{PlayerID: "bot-hazel", Context: RemarkWeakPlay}},
		},
		{name: "bot goes out", out: finished, want: []Remark{{PlayerID: "bot-blake", Context: RemarkFollowing}}},
		{name: "human beats a bot", out: beaten, want: []Remark{{PlayerID: "bot-delilah", Context: RemarkBeaten}}},
		{name: "human bombs a bot", out: bombed, want: []Remark{{PlayerID: "bot-delilah", Context: RemarkBombed}}},
		{name: "human leads", out: humanLead},
		{name: "pass", out: domain.Outcome{PlayerID: "bot-hazel", TrickNumber: 4, Passed: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Remarks(tt.out, isBot)
			if len(got) != len(tt.want) {
				t.Fatalf("Remarks() = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Fatalf("Remarks()[%d] = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestRoundRemark(t *testing.T) {
	isBot := func(id string) bool { return id != "human" }

	tests := []struct {
		name string
		out  domain.Outcome
		want bool
	}{
		{
			name: "bot wins the round after everyone passes",
			out:  domain.Outcome{PlayerID: "human", TrickNumber: 3, Passed: true, RoundWinner: "bot-hazel"},
			want: true,
		},
		{
			name: "bot wins the round with a play",
			out:  outcome("bot-hazel", 4, card(domain.Rank2, domain.Hearts)),
			want: true,
		},
		{
			name: "opening trick is silent",
			out:  domain.Outcome{PlayerID: "human", TrickNumber: 1, Passed: true, RoundWinner: "bot-hazel"},
		},
		{
			name: "human wins the round",
			out:  domain.Outcome{PlayerID: "bot-blake", TrickNumber: 3, Passed: true, RoundWinner: "human"},
		},
		{
			name: "round still open",
			out:  domain.Outcome{PlayerID: "bot-blake", TrickNumber: 3, Passed: true},
		},
	}
	tests[1].out.RoundWinner = "bot-hazel"

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := RoundRemark(tt.out, isBot)
			if ok != tt.want {
				t.Fatalf("RoundRemark() ok = %v, want %v", ok, tt.want)
			}
			if ok && (got.PlayerID != tt.out.RoundWinner || got.Context != RemarkWinning) {
				t.Fatalf("RoundRemark() = %+v", got)
			}
		})
	}
}

func TestRoster_CyclesWithDistinctIDs(t *testing.T) {
	roster := Roster(5)
	seen := make(map[string]bool)
	for _, identity := range roster {
		if seen[identity.UserID] {
			t.Fatalf("duplicate user id %q", identity.UserID)
		}
		seen[identity.UserID] = true
	}
	if roster[0].DisplayName != "Hazel" || roster[3].UserID != "bot-hazel-2" {
		t.Fatalf("unexpected roster: %+v", roster)
	}
	if !IsBot("bot-blake") || IsBot("human") {
		t.Fatalf("IsBot misreports the pool")
	}
	if got := GetBotDisplayName("bot-delilah"); got != "Delilah" {
		t.Fatalf("GetBotDisplayName() = %q", got)
	}
}
