package blackjack

// Card represents a playing card with rank and suit.
type Card struct {
	Rank string `json:"rank"`
	Suit string `json:"suit"`
}

// String returns a human-readable card representation like "♦2" or "♠A".
func (c Card) String() string {
	return c.Suit + c.Rank
}

// Suits in display order: ♦, ♥, ♠, ♣
var cardSuits = []string{"♦", "♥", "♠", "♣"}

// Ranks in order: 2-10, J, Q, K, A
var cardRanks = []string{"2", "3", "4", "5", "6", "7", "8", "9", "10", "J", "Q", "K", "A"}

// cardValue returns the blackjack point value of a card.
// 2-10: face value, J/Q/K: 10, A: 11 (soft)
func cardValue(rank string) int {
	switch rank {
	case "A":
		return 11
	case "J", "Q", "K":
		return 10
	case "2":
		return 2
	case "3":
		return 3
	case "4":
		return 4
	case "5":
		return 5
	case "6":
		return 6
	case "7":
		return 7
	case "8":
		return 8
	case "9":
		return 9
	case "10":
		return 10
	default:
		return 0
	}
}
