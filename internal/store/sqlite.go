package store

import (
	"database/sql"
	"fmt"
	"sort"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"
)

// SQLiteDB implements the DB interface using SQLite
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB creates a new SQLite database connection
func NewSQLiteDB(path string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// Migrate runs database migrations
func (s *SQLiteDB) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS rounds (
			id TEXT PRIMARY KEY,
			session_id TEXT NOT NULL,
			player TEXT NOT NULL,
			bet TEXT NOT NULL,
			split_bet TEXT NOT NULL DEFAULT '0',
			payout TEXT NOT NULL DEFAULT '0',
			outcome TEXT NOT NULL,
			split_outcome TEXT NOT NULL DEFAULT '',
			player_value INTEGER NOT NULL,
			split_value INTEGER NOT NULL DEFAULT 0,
			dealer_value INTEGER NOT NULL,
			split INTEGER NOT NULL DEFAULT 0,
			blackjack INTEGER NOT NULL DEFAULT 0,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_rounds_session ON rounds(session_id)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_player ON rounds(player, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_rounds_created_at ON rounds(created_at DESC)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// SaveRound saves a finished round to the database
func (s *SQLiteDB) SaveRound(round *Round) error {
	if round.ID == "" {
		round.ID = uuid.New().String()
	}

	query := `INSERT INTO rounds (
		id, session_id, player, bet, split_bet, payout, outcome, split_outcome,
		player_value, split_value, dealer_value, split, blackjack
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	splitInt := 0
	if round.Split {
		splitInt = 1
	}
	blackjackInt := 0
	if round.Blackjack {
		blackjackInt = 1
	}

	_, err := s.db.Exec(query,
		round.ID, round.SessionID, round.Player,
		round.Bet.String(), round.SplitBet.String(), round.Payout.String(),
		round.Outcome, round.SplitOutcome,
		round.PlayerValue, round.SplitValue, round.DealerValue,
		splitInt, blackjackInt,
	)

	return err
}

const roundColumns = `id, session_id, player, bet, split_bet, payout, outcome, split_outcome,
	player_value, split_value, dealer_value, split, blackjack, created_at`

func scanRound(scan func(dest ...any) error) (*Round, error) {
	var round Round
	var bet, splitBet, payout string
	var splitInt, blackjackInt int

	err := scan(
		&round.ID, &round.SessionID, &round.Player, &bet, &splitBet, &payout,
		&round.Outcome, &round.SplitOutcome,
		&round.PlayerValue, &round.SplitValue, &round.DealerValue,
		&splitInt, &blackjackInt, &round.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if round.Bet, err = decimal.NewFromString(bet); err != nil {
		return nil, fmt.Errorf("bad bet column: %w", err)
	}
	if round.SplitBet, err = decimal.NewFromString(splitBet); err != nil {
		return nil, fmt.Errorf("bad split_bet column: %w", err)
	}
	if round.Payout, err = decimal.NewFromString(payout); err != nil {
		return nil, fmt.Errorf("bad payout column: %w", err)
	}
	round.Split = splitInt == 1
	round.Blackjack = blackjackInt == 1

	return &round, nil
}

// GetRound retrieves a round by ID
func (s *SQLiteDB) GetRound(id string) (*Round, error) {
	row := s.db.QueryRow(`SELECT `+roundColumns+` FROM rounds WHERE id = ?`, id)
	return scanRound(row.Scan)
}

// ListRounds retrieves rounds with pagination and optional player filtering
func (s *SQLiteDB) ListRounds(query RoundsQuery) (*RoundsList, error) {
	whereClause := ""
	args := []interface{}{}

	if query.Player != "" {
		whereClause = "WHERE player = ?"
		args = append(args, query.Player)
	}

	var totalCount int
	if err := s.db.QueryRow("SELECT COUNT(*) FROM rounds "+whereClause, args...).Scan(&totalCount); err != nil {
		return nil, fmt.Errorf("failed to get total count: %w", err)
	}

	if query.PerPage <= 0 {
		query.PerPage = 50 // Default page size
	}
	if query.Page <= 0 {
		query.Page = 1
	}

	totalPages := (totalCount + query.PerPage - 1) / query.PerPage
	offset := (query.Page - 1) * query.PerPage

	mainQuery := `SELECT ` + roundColumns + ` FROM rounds ` + whereClause + `
		ORDER BY created_at DESC
		LIMIT ? OFFSET ?`
	args = append(args, query.PerPage, offset)

	rows, err := s.db.Query(mainQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds: %w", err)
	}
	defer rows.Close()

	var rounds []Round
	for rows.Next() {
		round, err := scanRound(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		rounds = append(rounds, *round)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rounds: %w", err)
	}

	return &RoundsList{
		Rounds:     rounds,
		TotalCount: totalCount,
		Page:       query.Page,
		PerPage:    query.PerPage,
		TotalPages: totalPages,
	}, nil
}

// PlayerStats aggregates every recorded round for one player. Money sums are
// computed in Go with decimal so no precision is lost to SQL REAL math.
func (s *SQLiteDB) PlayerStats(player string) (*PlayerStats, error) {
	if player == "" {
		return nil, fmt.Errorf("player is required")
	}

	rows, err := s.db.Query(`SELECT `+roundColumns+` FROM rounds WHERE player = ?`, player)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds for stats: %w", err)
	}
	defer rows.Close()

	stats := &PlayerStats{
		Player:      player,
		TotalWager:  decimal.Zero,
		TotalPayout: decimal.Zero,
		NetProfit:   decimal.Zero,
	}

	for rows.Next() {
		round, err := scanRound(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}

		stats.Rounds++
		tallyOutcome(stats, round.Outcome)
		if round.Split {
			tallyOutcome(stats, round.SplitOutcome)
		}
		stats.TotalWager = stats.TotalWager.Add(round.Bet).Add(round.SplitBet)
		stats.TotalPayout = stats.TotalPayout.Add(round.Payout)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rounds: %w", err)
	}

	stats.NetProfit = stats.TotalPayout.Sub(stats.TotalWager)
	return stats, nil
}

func tallyOutcome(stats *PlayerStats, outcome string) {
	switch outcome {
	case "blackjack":
		stats.Blackjacks++
		stats.Wins++
	case "win":
		stats.Wins++
	case "push":
		stats.Pushes++
	case "loss", "bust":
		stats.Losses++
	}
}

// Leaderboard ranks players by net profit over all recorded rounds
func (s *SQLiteDB) Leaderboard(limit int) ([]LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := s.db.Query(`SELECT player, bet, split_bet, payout FROM rounds`)
	if err != nil {
		return nil, fmt.Errorf("failed to query rounds for leaderboard: %w", err)
	}
	defer rows.Close()

	type tally struct {
		rounds int
		net    decimal.Decimal
	}
	tallies := make(map[string]*tally)

	for rows.Next() {
		var player, betStr, splitBetStr, payoutStr string
		if err := rows.Scan(&player, &betStr, &splitBetStr, &payoutStr); err != nil {
			return nil, fmt.Errorf("failed to scan round: %w", err)
		}
		bet, err := decimal.NewFromString(betStr)
		if err != nil {
			return nil, fmt.Errorf("bad bet column: %w", err)
		}
		splitBet, err := decimal.NewFromString(splitBetStr)
		if err != nil {
			return nil, fmt.Errorf("bad split_bet column: %w", err)
		}
		payout, err := decimal.NewFromString(payoutStr)
		if err != nil {
			return nil, fmt.Errorf("bad payout column: %w", err)
		}

		t, ok := tallies[player]
		if !ok {
			t = &tally{net: decimal.Zero}
			tallies[player] = t
		}
		t.rounds++
		t.net = t.net.Add(payout).Sub(bet).Sub(splitBet)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rounds: %w", err)
	}

	entries := make([]LeaderboardEntry, 0, len(tallies))
	for player, t := range tallies {
		entries = append(entries, LeaderboardEntry{
			Player:    player,
			Rounds:    t.rounds,
			NetProfit: t.net,
		})
	}

	// Net profit descending; player name breaks ties deterministically.
	sort.Slice(entries, func(i, j int) bool {
		if !entries[i].NetProfit.Equal(entries[j].NetProfit) {
			return entries[i].NetProfit.GreaterThan(entries[j].NetProfit)
		}
		return entries[i].Player < entries[j].Player
	})
	if len(entries) > limit {
		entries = entries[:limit]
	}
	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries, nil
}
