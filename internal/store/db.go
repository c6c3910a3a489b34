package store

import (
	"time"

	"github.com/shopspring/decimal"
)

// DB represents the round-history database interface
type DB interface {
	Close() error
	Migrate() error
	SaveRound(round *Round) error
	GetRound(id string) (*Round, error)
	ListRounds(query RoundsQuery) (*RoundsList, error)
	PlayerStats(player string) (*PlayerStats, error)
	Leaderboard(limit int) ([]LeaderboardEntry, error)
}

// RoundsQuery represents query parameters for listing rounds
type RoundsQuery struct {
	Player  string `json:"player,omitempty"`
	Page    int    `json:"page"`
	PerPage int    `json:"perPage"`
}

// RoundsList represents paginated rounds response
type RoundsList struct {
	Rounds     []Round `json:"rounds"`
	TotalCount int     `json:"totalCount"`
	Page       int     `json:"page"`
	PerPage    int     `json:"perPage"`
	TotalPages int     `json:"totalPages"`
}

// Round records one finished blackjack session. Money columns are stored as
// decimal strings so the engine's exact amounts survive the round trip.
type Round struct {
	ID           string          `json:"id" db:"id"`
	SessionID    string          `json:"session_id" db:"session_id"`
	Player       string          `json:"player" db:"player"`
	Bet          decimal.Decimal `json:"bet" db:"bet"`
	SplitBet     decimal.Decimal `json:"split_bet" db:"split_bet"`
	Payout       decimal.Decimal `json:"payout" db:"payout"`
	Outcome      string          `json:"outcome" db:"outcome"`
	SplitOutcome string          `json:"split_outcome,omitempty" db:"split_outcome"`
	PlayerValue  int             `json:"player_value" db:"player_value"`
	SplitValue   int             `json:"split_value" db:"split_value"`
	DealerValue  int             `json:"dealer_value" db:"dealer_value"`
	Split        bool            `json:"split" db:"split"`
	Blackjack    bool            `json:"blackjack" db:"blackjack"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
}

// PlayerStats aggregates a player's recorded rounds
type PlayerStats struct {
	Player      string          `json:"player"`
	Rounds      int             `json:"rounds"`
	Wins        int             `json:"wins"`
	Losses      int             `json:"losses"`
	Pushes      int             `json:"pushes"`
	Blackjacks  int             `json:"blackjacks"`
	TotalWager  decimal.Decimal `json:"total_wager"`
	TotalPayout decimal.Decimal `json:"total_payout"`
	NetProfit   decimal.Decimal `json:"net_profit"`
}

// LeaderboardEntry ranks a player by net profit across all recorded rounds
type LeaderboardEntry struct {
	Rank      int             `json:"rank"`
	Player    string          `json:"player"`
	Rounds    int             `json:"rounds"`
	NetProfit decimal.Decimal `json:"net_profit"`
}
