package cert

import (
	"math/big"

	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
)

// Certificate is the recorded state of one issued token. Both fields are
// immutable after mint; ownership itself lives in the external ledger.
type Certificate struct {
	Value    *big.Int
	IssuedAt uint64
}

// Clone returns a deep copy safe to hand to callers.
func (c *Certificate) Clone() *Certificate {
	if c == nil {
		return nil
	}
	out := &Certificate{IssuedAt: c.IssuedAt, Value: big.NewInt(0)}
	if c.Value != nil {
		out.Value = new(big.Int).Set(c.Value)
	}
	return out
}

// Params bundles the configurable scalars of the service: the voucher signer,
// payment routing, mint bounds, the per-holder cap, and the transfer
// restriction policy with its trusted proxies.
type Params struct {
	Signer             crypto.Address
	PaymentToken       crypto.Address
	PaymentPool        crypto.Address
	StakingAddress     crypto.Address
	RedeemAddress      crypto.Address
	MinToMint          *big.Int
	MaxToMint          *big.Int
	HolderCap          uint64
	TransferRestricted bool
}

// DefaultParams returns an unbounded, unrestricted parameter set.
func DefaultParams() *Params {
	return &Params{
		MinToMint: big.NewInt(0),
		MaxToMint: big.NewInt(0),
	}
}

// Clone returns a deep copy of the parameter set.
func (p *Params) Clone() *Params {
	if p == nil {
		return DefaultParams()
	}
	out := *p
	out.MinToMint = big.NewInt(0)
	out.MaxToMint = big.NewInt(0)
	if p.MinToMint != nil {
		out.MinToMint = new(big.Int).Set(p.MinToMint)
	}
	if p.MaxToMint != nil {
		out.MaxToMint = new(big.Int).Set(p.MaxToMint)
	}
	return &out
}

// Normalize guarantees non-nil bounds so callers can compare without guards.
func (p *Params) Normalize() *Params {
	if p.MinToMint == nil {
		p.MinToMint = big.NewInt(0)
	}
	if p.MaxToMint == nil {
		p.MaxToMint = big.NewInt(0)
	}
	return p
}

// TokenInfo carries the static descriptive configuration embedded in rendered
// metadata documents.
type TokenInfo struct {
	Name        string
	Symbol      string
	Description string
}

// PaymentToken is the consumed fungible-payment collaborator. Standard
// transfer semantics are assumed: TransferFrom fails when the balance or the
// granted allowance does not cover the amount.
type PaymentToken interface {
	BalanceOf(addr crypto.Address) (*big.Int, error)
	Allowance(owner, spender crypto.Address) (*big.Int, error)
	TransferFrom(from, to crypto.Address, amount *big.Int) error
	Decimals() (uint8, error)
	Symbol() (string, error)
}

// OwnershipLedger is the base token-ownership collaborator. Approval
// bookkeeping is its concern, not the engine's.
type OwnershipLedger interface {
	OwnerOf(tokenID uint64) (crypto.Address, bool, error)
	Mint(to crypto.Address, tokenID uint64) error
	Transfer(from, to crypto.Address, tokenID uint64) error
}
