package blackjack

// Deck is a single 52-card deck consumed from the front. Each session owns
// exactly one deck; 52 cards always cover a full round including a split, so
// drawing from an empty deck is an engine bug, not a gameplay outcome.
type Deck struct {
	cards []Card
	fair  *Fairness
}

// newOrderedCards returns the 52 unique (suit, rank) pairs in index order.
func newOrderedCards() []Card {
	cards := make([]Card, 0, 52)
	for _, rank := range cardRanks {
		for _, suit := range cardSuits {
			cards = append(cards, Card{Rank: rank, Suit: suit})
		}
	}
	return cards
}

// NewDeck creates a 52-card deck shuffled from fresh fairness seeds. The seed
// commitment travels with the deck so snapshots can expose it.
func NewDeck() *Deck {
	f := newFairness()
	cards := newOrderedCards()
	f.shuffle(cards)
	return &Deck{cards: cards, fair: &f}
}

// newDeckFromCards builds a deck with a predetermined draw order and no seed
// commitment. Used by tests that script exact deals.
func newDeckFromCards(cards []Card) *Deck {
	return &Deck{cards: append([]Card(nil), cards...)}
}

// Draw removes and returns the top card.
func (d *Deck) Draw() (Card, error) {
	if len(d.cards) == 0 {
		return Card{}, ErrDeckExhausted
	}
	c := d.cards[0]
	d.cards = d.cards[1:]
	return c, nil
}

// Remaining returns a copy of the undrawn cards, top first.
func (d *Deck) Remaining() []Card {
	return append([]Card(nil), d.cards...)
}

// Len returns the number of undrawn cards.
func (d *Deck) Len() int {
	return len(d.cards)
}
