package store

import (
	"testing"

	"github.com/shopspring/decimal"
)

func newTestDB(t *testing.T) *SQLiteDB {
	t.Helper()
	db, err := NewSQLiteDB(":memory:")
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}
	return db
}

func money(n int64) decimal.Decimal {
	return decimal.NewFromInt(n)
}

func TestSaveAndGetRound(t *testing.T) {
	db := newTestDB(t)

	round := &Round{
		SessionID:   "session-1",
		Player:      "alice",
		Bet:         money(100),
		SplitBet:    money(0),
		Payout:      money(250),
		Outcome:     "blackjack",
		PlayerValue: 21,
		DealerValue: 19,
		Blackjack:   true,
	}

	if err := db.SaveRound(round); err != nil {
		t.Fatalf("Failed to save round: %v", err)
	}
	if round.ID == "" {
		t.Fatal("Expected SaveRound to assign an id")
	}

	got, err := db.GetRound(round.ID)
	if err != nil {
		t.Fatalf("Failed to get round: %v", err)
	}
	if got.SessionID != "session-1" || got.Player != "alice" {
		t.Errorf("Round identity mismatch: %+v", got)
	}
	if !got.Bet.Equal(money(100)) || !got.Payout.Equal(money(250)) {
		t.Errorf("Money columns did not survive the round trip: bet=%s payout=%s", got.Bet, got.Payout)
	}
	if !got.Blackjack || got.Split {
		t.Errorf("Flag columns mismatch: %+v", got)
	}
}

func TestSaveRoundRejectsDuplicateSession(t *testing.T) {
	db := newTestDB(t)

	round := &Round{
		SessionID:   "session-1",
		Player:      "alice",
		Bet:         money(100),
		Payout:      money(0),
		Outcome:     "loss",
		PlayerValue: 18,
		DealerValue: 20,
	}
	if err := db.SaveRound(round); err != nil {
		t.Fatalf("Failed to save round: %v", err)
	}

	dup := *round
	dup.ID = ""
	if err := db.SaveRound(&dup); err == nil {
		t.Error("Expected a second round for the same session to be rejected")
	}
}

func TestListRounds(t *testing.T) {
	db := newTestDB(t)

	rounds := []*Round{
		{SessionID: "s1", Player: "alice", Bet: money(100), Payout: money(200), Outcome: "win", PlayerValue: 20, DealerValue: 18},
		{SessionID: "s2", Player: "alice", Bet: money(50), Payout: money(0), Outcome: "bust", PlayerValue: 24, DealerValue: 17},
		{SessionID: "s3", Player: "bob", Bet: money(75), Payout: money(75), Outcome: "push", PlayerValue: 19, DealerValue: 19},
	}
	for _, r := range rounds {
		if err := db.SaveRound(r); err != nil {
			t.Fatalf("Failed to save round: %v", err)
		}
	}

	// All rounds
	list, err := db.ListRounds(RoundsQuery{})
	if err != nil {
		t.Fatalf("Failed to list rounds: %v", err)
	}
	if list.TotalCount != 3 || len(list.Rounds) != 3 {
		t.Errorf("Expected 3 rounds, got total=%d len=%d", list.TotalCount, len(list.Rounds))
	}

	// Filtered by player
	list, err = db.ListRounds(RoundsQuery{Player: "alice"})
	if err != nil {
		t.Fatalf("Failed to list alice's rounds: %v", err)
	}
	if list.TotalCount != 2 {
		t.Errorf("Expected 2 rounds for alice, got %d", list.TotalCount)
	}
	for _, r := range list.Rounds {
		if r.Player != "alice" {
			t.Errorf("Filter leaked round for %s", r.Player)
		}
	}

	// Pagination
	list, err = db.ListRounds(RoundsQuery{Page: 2, PerPage: 2})
	if err != nil {
		t.Fatalf("Failed to list page 2: %v", err)
	}
	if len(list.Rounds) != 1 || list.TotalPages != 2 {
		t.Errorf("Expected 1 round on page 2 of 2, got len=%d pages=%d", len(list.Rounds), list.TotalPages)
	}
}

func TestPlayerStats(t *testing.T) {
	db := newTestDB(t)

	rounds := []*Round{
		// Natural: 100 staked, 250 back.
		{SessionID: "s1", Player: "alice", Bet: money(100), Payout: money(250), Outcome: "blackjack", PlayerValue: 21, DealerValue: 18, Blackjack: true},
		// Split round: both stakes wagered, one hand won one lost.
		{SessionID: "s2", Player: "alice", Bet: money(50), SplitBet: money(50), Payout: money(100), Outcome: "win", SplitOutcome: "loss", PlayerValue: 20, SplitValue: 15, DealerValue: 19, Split: true},
		// Bust: stake forfeit.
		{SessionID: "s3", Player: "alice", Bet: money(25), Payout: money(0), Outcome: "bust", PlayerValue: 26, DealerValue: 17},
		// Another player's round must not leak in.
		{SessionID: "s4", Player: "bob", Bet: money(500), Payout: money(1000), Outcome: "win", PlayerValue: 21, DealerValue: 20},
	}
	for _, r := range rounds {
		if err := db.SaveRound(r); err != nil {
			t.Fatalf("Failed to save round: %v", err)
		}
	}

	stats, err := db.PlayerStats("alice")
	if err != nil {
		t.Fatalf("Failed to compute stats: %v", err)
	}

	if stats.Rounds != 3 {
		t.Errorf("Expected 3 rounds, got %d", stats.Rounds)
	}
	// Hand outcomes: blackjack (counts as a win), win, loss, bust.
	if stats.Wins != 2 || stats.Losses != 2 || stats.Pushes != 0 || stats.Blackjacks != 1 {
		t.Errorf("Outcome tally mismatch: %+v", stats)
	}
	if !stats.TotalWager.Equal(money(225)) {
		t.Errorf("Expected total wager 225, got %s", stats.TotalWager)
	}
	if !stats.TotalPayout.Equal(money(350)) {
		t.Errorf("Expected total payout 350, got %s", stats.TotalPayout)
	}
	if !stats.NetProfit.Equal(money(125)) {
		t.Errorf("Expected net profit 125, got %s", stats.NetProfit)
	}
}

func TestLeaderboard(t *testing.T) {
	db := newTestDB(t)

	rounds := []*Round{
		{SessionID: "s1", Player: "alice", Bet: money(100), Payout: money(250), Outcome: "blackjack", PlayerValue: 21, DealerValue: 18, Blackjack: true},
		{SessionID: "s2", Player: "bob", Bet: money(100), Payout: money(0), Outcome: "loss", PlayerValue: 18, DealerValue: 20},
		{SessionID: "s3", Player: "carol", Bet: money(100), Payout: money(100), Outcome: "push", PlayerValue: 19, DealerValue: 19},
		{SessionID: "s4", Player: "bob", Bet: money(100), Payout: money(200), Outcome: "win", PlayerValue: 20, DealerValue: 17},
	}
	for _, r := range rounds {
		if err := db.SaveRound(r); err != nil {
			t.Fatalf("Failed to save round: %v", err)
		}
	}

	entries, err := db.Leaderboard(10)
	if err != nil {
		t.Fatalf("Failed to compute leaderboard: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(entries))
	}

	// alice +150, carol 0, bob 0. Ties break on name.
	if entries[0].Player != "alice" || !entries[0].NetProfit.Equal(money(150)) {
		t.Errorf("Expected alice on top with +150, got %+v", entries[0])
	}
	if entries[1].Player != "bob" || entries[2].Player != "carol" {
		t.Errorf("Expected bob then carol on the tie, got %+v", entries[1:])
	}
	for i, e := range entries {
		if e.Rank != i+1 {
			t.Errorf("Expected rank %d, got %d", i+1, e.Rank)
		}
	}
	if entries[1].Rounds != 2 {
		t.Errorf("Expected 2 rounds for bob, got %d", entries[1].Rounds)
	}

	// Limit truncates after ranking.
	top, err := db.Leaderboard(1)
	if err != nil {
		t.Fatalf("Failed to compute limited leaderboard: %v", err)
	}
	if len(top) != 1 || top[0].Player != "alice" {
		t.Errorf("Expected only alice, got %+v", top)
	}
}
