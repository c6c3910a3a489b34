package blackjack

import (
	"fmt"
	"log"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Outcome classifies how one player hand fared against the dealer.
type Outcome string

const (
	OutcomeBlackjack Outcome = "blackjack"
	OutcomeWin       Outcome = "win"
	OutcomePush      Outcome = "push"
	OutcomeLoss      Outcome = "loss"
	OutcomeBust      Outcome = "bust"
)

// HandOutcome is the resolved result of a single player hand. After a split,
// each hand is resolved independently against the same final dealer hand.
type HandOutcome struct {
	Role    HandRole        `json:"role"`
	Outcome Outcome         `json:"outcome"`
	Value   int             `json:"value"`
	Bet     decimal.Decimal `json:"bet"`
	Payout  decimal.Decimal `json:"payout"`
}

// RoundResult is the terminal result of a session: what the engine emits for
// history once, at GameOver.
type RoundResult struct {
	SessionID   string          `json:"sessionId"`
	Player      string          `json:"player"`
	DealerValue int             `json:"dealerValue"`
	Outcomes    []HandOutcome   `json:"outcomes"`
	TotalBet    decimal.Decimal `json:"totalBet"`
	TotalPayout decimal.Decimal `json:"totalPayout"`
	CompletedAt time.Time       `json:"completedAt"`
}

var (
	winMultiplier       = decimal.NewFromInt(2)
	blackjackMultiplier = decimal.NewFromFloat(2.5)
)

// Engine owns the session registry and applies actions under the per-session
// lock, so two concurrent actions on one id can never interleave. Sessions
// are fully independent of each other; the registry map has its own lock.
type Engine struct {
	mu       sync.RWMutex
	sessions map[string]*GameSession

	wallets *WalletBook
	logger  *log.Logger

	// OnResult, when set, receives every terminal RoundResult. Called after
	// the session lock is released; the engine itself never touches I/O.
	OnResult func(RoundResult)

	// newDeck is swappable so tests can script exact deals.
	newDeck func() *Deck
	now     func() time.Time
}

// NewEngine creates an engine with an empty registry and fresh wallets.
func NewEngine() *Engine {
	return &Engine{
		sessions: make(map[string]*GameSession),
		wallets:  NewWalletBook(),
		logger:   log.New(os.Stdout, "[ENGINE] ", log.LstdFlags|log.LUTC),
		newDeck:  NewDeck,
		now:      time.Now,
	}
}

// Wallets exposes the balance book (read access for handlers).
func (e *Engine) Wallets() *WalletBook {
	return e.wallets
}

// StartSession places a bet: deducts the stake, creates the session with a
// fresh shuffled deck and deals the opening two cards to each side, the
// dealer's second card face down. If the player is dealt a natural the round
// resolves immediately.
func (e *Engine) StartSession(player string, bet decimal.Decimal, actionID string) (*SessionView, error) {
	if player == "" {
		player = "guest"
	}
	if bet.LessThanOrEqual(decimal.Zero) {
		return nil, ErrInvalidBet
	}

	balanceBefore := e.wallets.Balance(player)
	if err := e.wallets.Debit(player, bet); err != nil {
		return nil, err
	}

	s := &GameSession{
		ID:            uuid.New().String(),
		Player:        player,
		Deck:          e.newDeck(),
		DealerHand:    newHand(RoleDealer, decimal.Zero),
		Hands:         []*Hand{newHand(RoleMain, bet)},
		Phase:         PhaseBetting,
		BalanceBefore: balanceBefore,
		CreatedAt:     e.now(),
		actionIDs:     make(map[string]bool),
	}

	s.mu.Lock()

	// Deal order: player, dealer up, player, dealer hole.
	if err := e.dealOpening(s); err != nil {
		s.mu.Unlock()
		e.wallets.Credit(player, bet)
		return nil, err
	}
	s.Phase = PhasePlayerTurn
	if actionID != "" {
		s.actionIDs[actionID] = true
	}

	// A natural two-card 21 ends the player turn before it starts.
	if s.Hands[0].IsBlackjack() {
		if err := e.finishRound(s); err != nil {
			s.mu.Unlock()
			return nil, err
		}
	}

	e.mu.Lock()
	e.sessions[s.ID] = s
	e.mu.Unlock()

	view := s.snapshotLocked(e.wallets.Balance(player), s.result)
	result := s.result
	s.mu.Unlock()

	e.emitResult(result)
	return view, nil
}

func (e *Engine) dealOpening(s *GameSession) error {
	draws := []struct {
		hand     *Hand
		faceDown bool
	}{
		{s.Hands[0], false},
		{s.DealerHand, false},
		{s.Hands[0], false},
		{s.DealerHand, true},
	}
	for _, d := range draws {
		c, err := s.Deck.Draw()
		if err != nil {
			return err
		}
		d.hand.add(c, d.faceDown)
	}
	return nil
}

// Hit draws one card to the active hand.
func (e *Engine) Hit(id, actionID string) (*SessionView, error) {
	return e.apply(id, actionID, e.hit)
}

// Stand finishes the active hand without drawing.
func (e *Engine) Stand(id, actionID string) (*SessionView, error) {
	return e.apply(id, actionID, e.stand)
}

// Double doubles the active hand's bet, draws exactly one card and stands.
func (e *Engine) Double(id, actionID string) (*SessionView, error) {
	return e.apply(id, actionID, e.double)
}

// Split turns a two-card pair into two one-card hands and deals one fresh
// card to each. One split per session.
func (e *Engine) Split(id, actionID string) (*SessionView, error) {
	return e.apply(id, actionID, e.split)
}

// Snapshot returns the current authoritative view without applying an action.
func (e *Engine) Snapshot(id string) (*SessionView, error) {
	s, err := e.lookup(id)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked(e.wallets.Balance(s.Player), s.result), nil
}

// Active returns snapshots of every session not yet at GameOver, oldest
// first, so a dropped client can resume.
func (e *Engine) Active() []*SessionView {
	e.mu.RLock()
	sessions := make([]*GameSession, 0, len(e.sessions))
	for _, s := range e.sessions {
		sessions = append(sessions, s)
	}
	e.mu.RUnlock()

	views := make([]*SessionView, 0, len(sessions))
	for _, s := range sessions {
		s.mu.Lock()
		if !s.terminal() {
			views = append(views, s.snapshotLocked(e.wallets.Balance(s.Player), nil))
		}
		s.mu.Unlock()
	}
	sort.Slice(views, func(i, j int) bool { return views[i].CreatedAt.Before(views[j].CreatedAt) })
	return views
}

func (e *Engine) lookup(id string) (*GameSession, error) {
	e.mu.RLock()
	s, ok := e.sessions[id]
	e.mu.RUnlock()
	if !ok {
		return nil, ErrUnknownSession
	}
	return s, nil
}

// apply runs one action under the session lock. Every action either fully
// commits or leaves the session unmodified. A replayed actionID short-circuits
// to the current snapshot.
func (e *Engine) apply(id, actionID string, fn func(*GameSession) error) (*SessionView, error) {
	s, err := e.lookup(id)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()

	if actionID != "" && s.actionIDs[actionID] {
		view := s.snapshotLocked(e.wallets.Balance(s.Player), s.result)
		s.mu.Unlock()
		return view, nil
	}
	if s.terminal() {
		s.mu.Unlock()
		return nil, ErrInvalidPhaseAction
	}

	if err := fn(s); err != nil {
		phase := s.Phase
		s.mu.Unlock()
		if err == ErrDeckExhausted {
			e.abandon(s.ID, s.Player, phase)
		}
		return nil, err
	}
	if actionID != "" {
		s.actionIDs[actionID] = true
	}

	// The session was live on entry, so a GameOver phase here means the
	// round resolved during this action and its result is emitted exactly
	// once, after the lock is dropped.
	view := s.snapshotLocked(e.wallets.Balance(s.Player), s.result)
	result := s.result
	s.mu.Unlock()

	e.emitResult(result)
	return view, nil
}

// abandon removes a session whose internal invariants broke. Deck exhaustion
// is provably unreachable with a 52-card deck, so reaching it is an engine
// bug worth loud logging, not silent patching.
func (e *Engine) abandon(id, player string, phase Phase) {
	e.logger.Printf("session_abandoned id=%s player=%s phase=%s reason=deck_exhausted", id, player, phase)
	e.mu.Lock()
	delete(e.sessions, id)
	e.mu.Unlock()
}

func (e *Engine) emitResult(result *RoundResult) {
	if result == nil {
		return
	}
	e.logger.Printf(
		"round_completed session=%s player=%s dealer_value=%d outcomes=%s bet=%s payout=%s",
		result.SessionID, result.Player, result.DealerValue,
		describeOutcomes(result.Outcomes), result.TotalBet, result.TotalPayout,
	)
	if e.OnResult != nil {
		e.OnResult(*result)
	}
}

func (e *Engine) hit(s *GameSession) error {
	if s.Phase != PhasePlayerTurn {
		return ErrInvalidPhaseAction
	}
	h := s.activeHand()
	if h.finished() || h.Value() >= 21 {
		return ErrInvalidPhaseAction
	}
	c, err := s.Deck.Draw()
	if err != nil {
		return err
	}
	h.add(c, false)
	if h.IsBust() {
		return e.advance(s)
	}
	return nil
}

func (e *Engine) stand(s *GameSession) error {
	if s.Phase != PhasePlayerTurn {
		return ErrInvalidPhaseAction
	}
	s.activeHand().stood = true
	return e.advance(s)
}

func (e *Engine) double(s *GameSession) error {
	if s.Phase != PhasePlayerTurn {
		return ErrInvalidPhaseAction
	}
	h := s.activeHand()
	if !h.canDouble() {
		return ErrIneligibleDouble
	}
	if err := e.wallets.Debit(s.Player, h.Bet); err != nil {
		return err
	}
	c, err := s.Deck.Draw()
	if err != nil {
		e.wallets.Credit(s.Player, h.Bet)
		return err
	}
	h.add(c, false)
	h.Bet = h.Bet.Mul(winMultiplier)
	h.doubled = true
	h.stood = true
	return e.advance(s)
}

func (e *Engine) split(s *GameSession) error {
	if s.Phase != PhasePlayerTurn {
		return ErrInvalidPhaseAction
	}
	h := s.activeHand()
	if s.splitDone() || !h.canSplit() {
		return ErrIneligibleSplit
	}
	if err := e.wallets.Debit(s.Player, h.Bet); err != nil {
		return err
	}

	second := newHand(RoleSplit, h.Bet)
	second.Cards = []Card{h.Cards[1]}
	h.Cards = h.Cards[:1]
	h.Role = RoleSplit
	s.Hands = append(s.Hands, second)
	s.ActiveHand = 0

	for _, hand := range s.Hands {
		c, err := s.Deck.Draw()
		if err != nil {
			return err
		}
		hand.add(c, false)
	}
	return nil
}

// advance moves play forward once the active hand is finished: to the
// second split hand if one is still unresolved, otherwise to the dealer.
func (e *Engine) advance(s *GameSession) error {
	if s.splitDone() && s.ActiveHand == 0 && !s.Hands[1].finished() {
		s.ActiveHand = 1
		return nil
	}
	return e.finishRound(s)
}

// finishRound runs the dealer and resolves payouts. The dealer always
// reveals the hole card; it draws to 17 only if at least one player hand is
// still live (stand on every 17, soft included).
func (e *Engine) finishRound(s *GameSession) error {
	s.Phase = PhaseDealerTurn
	s.DealerHand.reveal()

	anyLive := false
	for _, h := range s.Hands {
		if !h.IsBust() {
			anyLive = true
			break
		}
	}
	if anyLive {
		for s.DealerHand.Value() < 17 {
			c, err := s.Deck.Draw()
			if err != nil {
				return err
			}
			s.DealerHand.add(c, false)
		}
	}

	e.resolve(s)
	return nil
}

// resolve compares every player hand against the final dealer hand, credits
// the total payout and archives the session at GameOver. The payout credit
// happens before the phase is observable outside the session lock, so the
// balance always matches the recorded phase.
func (e *Engine) resolve(s *GameSession) {
	dealerValue := s.DealerHand.Value()
	dealerBust := dealerValue > 21
	dealerBlackjack := s.DealerHand.IsBlackjack()

	result := &RoundResult{
		SessionID:   s.ID,
		Player:      s.Player,
		DealerValue: dealerValue,
		TotalBet:    decimal.Zero,
		TotalPayout: decimal.Zero,
		CompletedAt: e.now(),
	}

	for _, h := range s.Hands {
		outcome := HandOutcome{
			Role:   h.Role,
			Value:  h.Value(),
			Bet:    h.Bet,
			Payout: decimal.Zero,
		}
		switch {
		case h.IsBust():
			outcome.Outcome = OutcomeBust
		case h.IsBlackjack() && !dealerBlackjack:
			outcome.Outcome = OutcomeBlackjack
			outcome.Payout = h.Bet.Mul(blackjackMultiplier)
		case dealerBust:
			outcome.Outcome = OutcomeWin
			outcome.Payout = h.Bet.Mul(winMultiplier)
		case h.Value() > dealerValue:
			outcome.Outcome = OutcomeWin
			outcome.Payout = h.Bet.Mul(winMultiplier)
		case h.Value() == dealerValue:
			outcome.Outcome = OutcomePush
			outcome.Payout = h.Bet
		default:
			outcome.Outcome = OutcomeLoss
		}
		result.TotalBet = result.TotalBet.Add(h.Bet)
		result.TotalPayout = result.TotalPayout.Add(outcome.Payout)
		result.Outcomes = append(result.Outcomes, outcome)
	}

	if result.TotalPayout.IsPositive() {
		e.wallets.Credit(s.Player, result.TotalPayout)
	}
	s.Phase = PhaseGameOver
	s.result = result
}

// String renders an outcome list compactly for logs.
func describeOutcomes(outcomes []HandOutcome) string {
	out := ""
	for i, o := range outcomes {
		if i > 0 {
			out += ","
		}
		out += fmt.Sprintf("%s=%d", o.Outcome, o.Value)
	}
	return out
}
