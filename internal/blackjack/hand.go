package blackjack

import "github.com/shopspring/decimal"

// HandRole tags how a hand came to exist. A hand created by a split can never
// qualify as a natural blackjack and can never be doubled.
type HandRole string

const (
	RoleMain   HandRole = "main"
	RoleSplit  HandRole = "split"
	RoleDealer HandRole = "dealer"
)

// Hand is an ordered sequence of dealt cards belonging to one side. The
// hole-card index is a reveal flag only; it never affects value computation.
type Hand struct {
	Cards []Card
	Role  HandRole
	Bet   decimal.Decimal

	// hiddenAt is the index of the face-down card, or -1 once revealed.
	// Only the dealer's second card is ever dealt face down.
	hiddenAt int

	stood   bool
	doubled bool
}

func newHand(role HandRole, bet decimal.Decimal) *Hand {
	return &Hand{Role: role, Bet: bet, hiddenAt: -1}
}

// add appends a dealt card, optionally face down.
func (h *Hand) add(c Card, faceDown bool) {
	if faceDown {
		h.hiddenAt = len(h.Cards)
	}
	h.Cards = append(h.Cards, c)
}

// reveal flips the face-down card face up.
func (h *Hand) reveal() {
	h.hiddenAt = -1
}

// Value computes the best blackjack value: sum with aces at 11, then soften
// one ace at a time (11 -> 1) while the total is over 21. A hand may hold up
// to four aces, so the loop may run more than once.
func (h *Hand) Value() int {
	return handValue(h.Cards)
}

func handValue(cards []Card) int {
	total := 0
	aces := 0
	for _, c := range cards {
		total += cardValue(c.Rank)
		if c.Rank == "A" {
			aces++
		}
	}
	for total > 21 && aces > 0 {
		total -= 10
		aces--
	}
	return total
}

// IsBust reports whether the hand value exceeds 21.
func (h *Hand) IsBust() bool {
	return h.Value() > 21
}

// IsBlackjack reports a natural: a two-card 21 on a pre-split hand. A 21
// assembled after a split is a plain 21 by rule, not a bonus blackjack.
func (h *Hand) IsBlackjack() bool {
	return h.Role != RoleSplit && len(h.Cards) == 2 && h.Value() == 21
}

// finished reports whether the hand needs no further player decisions:
// busted, stood (doubling forces a stand), or dealt a natural.
func (h *Hand) finished() bool {
	return h.stood || h.IsBust() || h.IsBlackjack()
}

// canDouble reports double eligibility: exactly two cards, no prior double or
// split action touching this hand.
func (h *Hand) canDouble() bool {
	return h.Role == RoleMain && len(h.Cards) == 2 && !h.doubled
}

// canSplit reports split eligibility on this hand alone: exactly two cards of
// equal point value. A (10, K) pair splits; the ranks differ but the values
// match. Session-level limits (one split per session) are checked by the
// engine.
func (h *Hand) canSplit() bool {
	return h.Role == RoleMain && len(h.Cards) == 2 &&
		cardValue(h.Cards[0].Rank) == cardValue(h.Cards[1].Rank)
}

// visibleCards returns the cards a client may see, with the face-down card
// redacted, plus whether anything was hidden.
func (h *Hand) visibleCards() ([]Card, bool) {
	if h.hiddenAt < 0 {
		return append([]Card(nil), h.Cards...), false
	}
	out := make([]Card, 0, len(h.Cards))
	for i, c := range h.Cards {
		if i == h.hiddenAt {
			continue
		}
		out = append(out, c)
	}
	return out, true
}

// visibleValue is the value of the face-up cards only. Shown to the client
// until the hole card is revealed.
func (h *Hand) visibleValue() int {
	cards, _ := h.visibleCards()
	return handValue(cards)
}
