// Package token provides in-memory implementations of the external
// collaborators the certificate engine consumes: a fungible payment token
// with standard balance/allowance semantics and a minimal ownership ledger.
// They back tests and local development runs; production deployments wire
// real contract clients instead.
package token

import (
	"errors"
	"math/big"
	"sync"

	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
)

var (
	ErrInsufficientBalance   = errors.New("token: insufficient balance")
	ErrInsufficientAllowance = errors.New("token: insufficient allowance")
)

// Memory is an in-memory fungible token.
type Memory struct {
	mu         sync.RWMutex
	symbol     string
	decimals   uint8
	balances   map[crypto.Address]*big.Int
	allowances map[crypto.Address]map[crypto.Address]*big.Int
}

func NewMemory(symbol string, decimals uint8) *Memory {
	return &Memory{
		symbol:     symbol,
		decimals:   decimals,
		balances:   make(map[crypto.Address]*big.Int),
		allowances: make(map[crypto.Address]map[crypto.Address]*big.Int),
	}
}

// Mint credits the holder. Test and dev fixture helper.
func (t *Memory) Mint(holder crypto.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	balance, ok := t.balances[holder]
	if !ok {
		balance = big.NewInt(0)
		t.balances[holder] = balance
	}
	balance.Add(balance, amount)
}

// Approve grants the spender an allowance over the owner's balance.
func (t *Memory) Approve(owner, spender crypto.Address, amount *big.Int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	grants, ok := t.allowances[owner]
	if !ok {
		grants = make(map[crypto.Address]*big.Int)
		t.allowances[owner] = grants
	}
	grants[spender] = new(big.Int).Set(amount)
}

func (t *Memory) BalanceOf(addr crypto.Address) (*big.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	balance, ok := t.balances[addr]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(balance), nil
}

func (t *Memory) Allowance(owner, spender crypto.Address) (*big.Int, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	grants, ok := t.allowances[owner]
	if !ok {
		return big.NewInt(0), nil
	}
	allowance, ok := grants[spender]
	if !ok {
		return big.NewInt(0), nil
	}
	return new(big.Int).Set(allowance), nil
}

// TransferFrom moves amount between balances. The engine verifies its own
// allowance before calling; grants are not decremented here.
func (t *Memory) TransferFrom(from, to crypto.Address, amount *big.Int) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	balance, ok := t.balances[from]
	if !ok || balance.Cmp(amount) < 0 {
		return ErrInsufficientBalance
	}
	balance.Sub(balance, amount)
	dest, ok := t.balances[to]
	if !ok {
		dest = big.NewInt(0)
		t.balances[to] = dest
	}
	dest.Add(dest, amount)
	return nil
}

func (t *Memory) Decimals() (uint8, error) {
	return t.decimals, nil
}

func (t *Memory) Symbol() (string, error) {
	return t.symbol, nil
}
