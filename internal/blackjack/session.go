package blackjack

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// Phase is the session state machine position.
// Betting -> PlayerTurn -> DealerTurn -> GameOver.
type Phase string

const (
	PhaseBetting    Phase = "betting"
	PhasePlayerTurn Phase = "player_turn"
	PhaseDealerTurn Phase = "dealer_turn"
	PhaseGameOver   Phase = "game_over"
)

// GameSession is the aggregate root for one round: one deck, one dealer hand,
// one or two player hands, a phase and the balance recorded at bet time. The
// session is the sole owner of its deck and hands; every mutation happens
// under mu (single writer per session, enforced by the engine).
type GameSession struct {
	mu sync.Mutex

	ID            string
	Player        string
	Deck          *Deck
	DealerHand    *Hand
	Hands         []*Hand // 1 before a split, 2 after
	ActiveHand    int     // meaningful only while len(Hands) == 2
	Phase         Phase
	BalanceBefore decimal.Decimal
	CreatedAt     time.Time

	// actionIDs records client-supplied idempotency tokens already applied,
	// so a double-submitted action returns the current snapshot untouched.
	actionIDs map[string]bool

	// result is set once when the session reaches GameOver.
	result *RoundResult
}

// splitDone reports whether this session already performed its one allowed
// split.
func (s *GameSession) splitDone() bool {
	return len(s.Hands) == 2
}

// activeHand returns the hand currently awaiting player decisions.
func (s *GameSession) activeHand() *Hand {
	return s.Hands[s.ActiveHand]
}

// terminal reports whether the session accepts no further actions.
func (s *GameSession) terminal() bool {
	return s.Phase == PhaseGameOver
}

// HandView is the client-facing projection of one hand. Hidden cards are
// redacted and excluded from the shown value until the dealer reveal.
type HandView struct {
	Cards      []Card          `json:"cards"`
	Value      int             `json:"value"`
	Bet        decimal.Decimal `json:"bet"`
	Role       HandRole        `json:"role"`
	HiddenCard bool            `json:"hiddenCard,omitempty"`
	Stood      bool            `json:"stood,omitempty"`
	Doubled    bool            `json:"doubled,omitempty"`
	Bust       bool            `json:"bust,omitempty"`
	Blackjack  bool            `json:"blackjack,omitempty"`
}

// FairnessView publishes the shuffle commitment for one session. ServerSeed
// stays empty until GameOver; once revealed, recomputing the shuffle from the
// seed triple reproduces the exact deck order.
type FairnessView struct {
	SeedHash   string `json:"seedHash"`
	ClientSeed string `json:"clientSeed"`
	Nonce      uint64 `json:"nonce"`
	ServerSeed string `json:"serverSeed,omitempty"`
}

// SessionView is the authoritative snapshot returned for every action. It is
// a deep copy built under the session lock; the client holds no authority and
// must discard any local prediction that disagrees with it.
type SessionView struct {
	ID         string          `json:"id"`
	Player     string          `json:"player"`
	Phase      Phase           `json:"phase"`
	DealerHand HandView        `json:"dealerHand"`
	Hands      []HandView      `json:"hands"`
	ActiveHand int             `json:"activeHand"`
	Balance    decimal.Decimal `json:"balance"`
	Odds       *Odds           `json:"odds,omitempty"`
	Fairness   *FairnessView   `json:"fairness,omitempty"`
	Result     *RoundResult    `json:"result,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

func handView(h *Hand) HandView {
	cards, hidden := h.visibleCards()
	value := h.Value()
	if hidden {
		value = h.visibleValue()
	}
	return HandView{
		Cards:      cards,
		Value:      value,
		Bet:        h.Bet,
		Role:       h.Role,
		HiddenCard: hidden,
		Stood:      h.stood,
		Doubled:    h.doubled,
		Bust:       h.IsBust(),
		Blackjack:  h.IsBlackjack(),
	}
}

// snapshotLocked builds the full client snapshot. Callers must hold s.mu.
func (s *GameSession) snapshotLocked(balance decimal.Decimal, result *RoundResult) *SessionView {
	view := &SessionView{
		ID:         s.ID,
		Player:     s.Player,
		Phase:      s.Phase,
		DealerHand: handView(s.DealerHand),
		ActiveHand: s.ActiveHand,
		Balance:    balance,
		Result:     result,
		CreatedAt:  s.CreatedAt,
	}
	for _, h := range s.Hands {
		view.Hands = append(view.Hands, handView(h))
	}
	if s.Phase == PhasePlayerTurn {
		odds := computeOdds(s.activeHand(), s.DealerHand, s.Deck.Remaining())
		view.Odds = &odds
	}
	if f := s.Deck.fair; f != nil {
		fv := &FairnessView{
			SeedHash:   f.Hash(),
			ClientSeed: f.ClientSeed,
			Nonce:      f.Nonce,
		}
		if s.terminal() {
			fv.ServerSeed = f.ServerSeed
		}
		view.Fairness = fv
	}
	return view
}
