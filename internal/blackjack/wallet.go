package blackjack

import (
	"sync"

	"github.com/shopspring/decimal"
)

// DefaultStartingBalance is credited to a player on first contact.
var DefaultStartingBalance = decimal.NewFromInt(1000)

// WalletBook tracks per-player balances in memory. Stake deductions and
// payout credits always happen inside the session lock of the round that
// causes them, so a balance can never disagree with its session's phase.
type WalletBook struct {
	mu       sync.Mutex
	balances map[string]decimal.Decimal
}

func NewWalletBook() *WalletBook {
	return &WalletBook{balances: make(map[string]decimal.Decimal)}
}

// Balance returns the player's current balance, creating the wallet with the
// starting balance on first use.
func (w *WalletBook) Balance(player string) decimal.Decimal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.balanceLocked(player)
}

func (w *WalletBook) balanceLocked(player string) decimal.Decimal {
	if b, ok := w.balances[player]; ok {
		return b
	}
	w.balances[player] = DefaultStartingBalance
	return DefaultStartingBalance
}

// Debit removes amount from the player's balance. Returns
// ErrInsufficientBalance (and changes nothing) if the balance cannot cover it.
func (w *WalletBook) Debit(player string, amount decimal.Decimal) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	b := w.balanceLocked(player)
	if b.LessThan(amount) {
		return ErrInsufficientBalance
	}
	w.balances[player] = b.Sub(amount)
	return nil
}

// Credit adds amount to the player's balance.
func (w *WalletBook) Credit(player string, amount decimal.Decimal) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.balances[player] = w.balanceLocked(player).Add(amount)
}
