package blackjack

import "testing"

func card(rank, suit string) Card {
	return Card{Rank: rank, Suit: suit}
}

func TestHandValues(t *testing.T) {
	tests := []struct {
		name     string
		cards    []Card
		expected int
	}{
		{"pair of 10s", []Card{card("10", "♦"), card("10", "♥")}, 20},
		{"ace king", []Card{card("A", "♠"), card("K", "♦")}, 21},
		{"soft 17", []Card{card("A", "♦"), card("6", "♣")}, 17},
		{"double ace", []Card{card("A", "♦"), card("A", "♣")}, 12},
		{"one ace softened", []Card{card("A", "♦"), card("A", "♣"), card("9", "♥")}, 21},
		{"two aces softened", []Card{card("A", "♦"), card("A", "♣"), card("A", "♥"), card("8", "♠")}, 21},
		{"bust rescue", []Card{card("A", "♦"), card("5", "♣"), card("8", "♥")}, 14},
		{"hard bust", []Card{card("10", "♦"), card("5", "♣"), card("8", "♥")}, 23},
		{"face cards", []Card{card("J", "♦"), card("Q", "♣")}, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handValue(tt.cards)
			if got != tt.expected {
				t.Errorf("handValue: expected %d, got %d", tt.expected, got)
			}
		})
	}
}

func TestHandValueOrderInvariant(t *testing.T) {
	cards := []Card{card("A", "♦"), card("A", "♣"), card("9", "♥"), card("K", "♠")}
	perms := [][]int{
		{0, 1, 2, 3}, {3, 2, 1, 0}, {2, 0, 3, 1}, {1, 3, 0, 2},
	}

	want := handValue(cards)
	for _, p := range perms {
		permuted := make([]Card, len(cards))
		for i, idx := range p {
			permuted[i] = cards[idx]
		}
		if got := handValue(permuted); got != want {
			t.Errorf("permutation %v: expected %d, got %d", p, want, got)
		}
	}
}

func TestNaturalBlackjackDetection(t *testing.T) {
	h := newHand(RoleMain, zeroBet())
	h.add(card("A", "♠"), false)
	h.add(card("K", "♦"), false)
	if !h.IsBlackjack() {
		t.Error("two-card 21 on a main hand should be a natural blackjack")
	}

	// A 21 reached after a split is a plain 21, never a natural.
	s := newHand(RoleSplit, zeroBet())
	s.add(card("A", "♠"), false)
	s.add(card("K", "♦"), false)
	if s.IsBlackjack() {
		t.Error("post-split 21 must not count as a natural blackjack")
	}

	// Three cards totaling 21 are not a natural either.
	h3 := newHand(RoleMain, zeroBet())
	h3.add(card("7", "♠"), false)
	h3.add(card("7", "♦"), false)
	h3.add(card("7", "♥"), false)
	if h3.IsBlackjack() {
		t.Error("three-card 21 must not count as a natural blackjack")
	}
}

func TestSplitEligibility(t *testing.T) {
	tests := []struct {
		name string
		a, b Card
		want bool
	}{
		{"equal ranks", card("8", "♠"), card("8", "♦"), true},
		{"ten and king split by value", card("10", "♠"), card("K", "♦"), true},
		{"queen and jack", card("Q", "♥"), card("J", "♣"), true},
		{"aces", card("A", "♠"), card("A", "♦"), true},
		{"unequal values", card("10", "♠"), card("9", "♦"), false},
		{"ace and ten", card("A", "♠"), card("10", "♦"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHand(RoleMain, zeroBet())
			h.add(tt.a, false)
			h.add(tt.b, false)
			if got := h.canSplit(); got != tt.want {
				t.Errorf("canSplit(%s, %s): expected %v, got %v", tt.a, tt.b, tt.want, got)
			}
		})
	}

	// More than two cards is never splittable.
	h := newHand(RoleMain, zeroBet())
	h.add(card("8", "♠"), false)
	h.add(card("8", "♦"), false)
	h.add(card("8", "♥"), false)
	if h.canSplit() {
		t.Error("three-card hand should not be splittable")
	}
}

func TestHiddenCardRedaction(t *testing.T) {
	h := newHand(RoleDealer, zeroBet())
	h.add(card("9", "♥"), false)
	h.add(card("8", "♣"), true)

	cards, hidden := h.visibleCards()
	if !hidden {
		t.Fatal("expected a hidden card before reveal")
	}
	if len(cards) != 1 || cards[0] != card("9", "♥") {
		t.Errorf("expected only the upcard visible, got %v", cards)
	}
	if got := h.visibleValue(); got != 9 {
		t.Errorf("visible value should exclude the hole card: expected 9, got %d", got)
	}
	if got := h.Value(); got != 17 {
		t.Errorf("true value must ignore the reveal flag: expected 17, got %d", got)
	}

	h.reveal()
	cards, hidden = h.visibleCards()
	if hidden || len(cards) != 2 {
		t.Errorf("after reveal expected both cards visible, got %v (hidden=%v)", cards, hidden)
	}
}
