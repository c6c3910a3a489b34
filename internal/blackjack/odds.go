package blackjack

// Odds is the advisory estimate attached to player-turn snapshots. It is
// display-only: computed from the remaining deck composition, never consulted
// by the resolver, so the two can never disagree about an actual outcome.
type Odds struct {
	// BustChance is the probability that the next hit busts the active hand.
	BustChance float64 `json:"bustChance"`
	// WinChance is the probability that standing now beats the dealer,
	// assuming the dealer finishes from its face-up cards by drawing from
	// the remaining deck.
	WinChance float64 `json:"winChance"`
}

// dealerBustKey buckets all busted dealer totals in the outcome distribution.
const dealerBustKey = 22

func computeOdds(active *Hand, dealer *Hand, remaining []Card) Odds {
	if len(remaining) == 0 {
		return Odds{}
	}

	busting := 0
	for _, c := range remaining {
		if handValue(append(append([]Card(nil), active.Cards...), c)) > 21 {
			busting++
		}
	}

	odds := Odds{
		BustChance: float64(busting) / float64(len(remaining)),
	}

	pv := active.Value()
	if pv > 21 {
		return odds
	}

	visible, _ := dealer.visibleCards()
	dist := dealerOutcomes(visible, remaining)
	for total, p := range dist {
		if total == dealerBustKey || total < pv {
			odds.WinChance += p
		}
	}
	return odds
}

// dealerOutcomes computes the exact distribution of dealer final values when
// the dealer draws without replacement from the remaining deck, standing on
// every 17 (soft included). Busts are bucketed under dealerBustKey.
func dealerOutcomes(start []Card, remaining []Card) map[int]float64 {
	var counts [12]int
	for _, c := range remaining {
		counts[cardValue(c.Rank)]++
	}

	total := 0
	aces := 0
	for _, c := range start {
		total += cardValue(c.Rank)
		if c.Rank == "A" {
			aces++
		}
	}

	dist := make(map[int]float64)
	var walk func(total, aces int, counts [12]int, n int, p float64)
	walk = func(total, aces int, counts [12]int, n int, p float64) {
		for total > 21 && aces > 0 {
			total -= 10
			aces--
		}
		if total > 21 {
			dist[dealerBustKey] += p
			return
		}
		if total >= 17 || n == 0 {
			dist[total] += p
			return
		}
		for v := 2; v <= 11; v++ {
			if counts[v] == 0 {
				continue
			}
			next := counts
			next[v]--
			drawnAces := aces
			if v == 11 {
				drawnAces++
			}
			walk(total+v, drawnAces, next, n-1, p*float64(counts[v])/float64(n))
		}
	}
	walk(total, aces, counts, len(remaining), 1.0)
	return dist
}
