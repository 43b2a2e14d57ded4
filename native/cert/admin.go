package cert

import (
	"math/big"
	"strconv"

	"github.com/dpmc-io/nft-minting-smart-contract/core/events"
	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
)

// Admin setters. Role gating lives at the service boundary; each setter here
// only validates its value and emits a before/after change record.

func (e *Engine) updateParams(name string, apply func(p *Params) (before, after string, err error)) error {
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	params, err := e.params()
	if err != nil {
		return err
	}
	before, after, err := apply(params)
	if err != nil {
		return err
	}
	if err := e.state.SetParams(params); err != nil {
		return err
	}
	e.emit(events.ParamUpdated{Name: name, Before: before, After: after})
	return nil
}

// SetHolderCap updates the per-holder certificate cap. Zero means unbounded.
func (e *Engine) SetHolderCap(limit uint64) error {
	return e.updateParams("holderCap", func(p *Params) (string, string, error) {
		before := strconv.FormatUint(p.HolderCap, 10)
		p.HolderCap = limit
		return before, strconv.FormatUint(limit, 10), nil
	})
}

// SetMintBounds updates the inclusive mint amount bounds. A zero maximum
// disables the upper bound; otherwise the minimum may not exceed it.
func (e *Engine) SetMintBounds(minToMint, maxToMint *big.Int) error {
	if minToMint == nil {
		minToMint = big.NewInt(0)
	}
	if maxToMint == nil {
		maxToMint = big.NewInt(0)
	}
	if minToMint.Sign() < 0 || maxToMint.Sign() < 0 {
		return ErrInvalidAmount
	}
	if maxToMint.Sign() > 0 && minToMint.Cmp(maxToMint) > 0 {
		return ErrInvalidMintBounds
	}
	return e.updateParams("mintBounds", func(p *Params) (string, string, error) {
		before := p.MinToMint.String() + "/" + p.MaxToMint.String()
		p.MinToMint = new(big.Int).Set(minToMint)
		p.MaxToMint = new(big.Int).Set(maxToMint)
		return before, p.MinToMint.String() + "/" + p.MaxToMint.String(), nil
	})
}

// SetSigner rotates the voucher signing authority.
func (e *Engine) SetSigner(signer crypto.Address) error {
	return e.updateParams("signer", func(p *Params) (string, string, error) {
		before := p.Signer.String()
		p.Signer = signer
		return before, signer.String(), nil
	})
}

// SetPaymentPool updates the destination collected payments are routed to.
func (e *Engine) SetPaymentPool(pool crypto.Address) error {
	return e.updateParams("paymentPool", func(p *Params) (string, string, error) {
		before := p.PaymentPool.String()
		p.PaymentPool = pool
		return before, pool.String(), nil
	})
}

// SetPaymentTokenAddress records the address of the payment token contract.
// The collaborator instance itself is wired at startup.
func (e *Engine) SetPaymentTokenAddress(token crypto.Address) error {
	return e.updateParams("paymentToken", func(p *Params) (string, string, error) {
		before := p.PaymentToken.String()
		p.PaymentToken = token
		return before, token.String(), nil
	})
}

// SetStakingAddress updates the trusted staking proxy.
func (e *Engine) SetStakingAddress(addr crypto.Address) error {
	return e.updateParams("stakingAddress", func(p *Params) (string, string, error) {
		before := p.StakingAddress.String()
		p.StakingAddress = addr
		return before, addr.String(), nil
	})
}

// SetRedeemAddress updates the trusted redeem proxy.
func (e *Engine) SetRedeemAddress(addr crypto.Address) error {
	return e.updateParams("redeemAddress", func(p *Params) (string, string, error) {
		before := p.RedeemAddress.String()
		p.RedeemAddress = addr
		return before, addr.String(), nil
	})
}

// SetTransferRestricted toggles the global restriction flag.
func (e *Engine) SetTransferRestricted(restricted bool) error {
	return e.updateParams("transferRestricted", func(p *Params) (string, string, error) {
		before := strconv.FormatBool(p.TransferRestricted)
		p.TransferRestricted = restricted
		return before, strconv.FormatBool(restricted), nil
	})
}

// SetAllowlisted adds or removes a destination from the allow-list.
func (e *Engine) SetAllowlisted(addr crypto.Address, allowed bool) error {
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	before, err := e.state.Allowlisted(addr)
	if err != nil {
		return err
	}
	if err := e.state.SetAllowlisted(addr, allowed); err != nil {
		return err
	}
	e.emit(events.ParamUpdated{
		Name:   "allowlist:" + addr.String(),
		Before: strconv.FormatBool(before),
		After:  strconv.FormatBool(allowed),
	})
	return nil
}

// SetPaused toggles the lifecycle flag gating mint and transfer entry points.
func (e *Engine) SetPaused(paused bool) error {
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	before, err := e.state.Paused()
	if err != nil {
		return err
	}
	if err := e.state.SetPaused(paused); err != nil {
		return err
	}
	e.emit(events.ParamUpdated{
		Name:   "paused",
		Before: strconv.FormatBool(before),
		After:  strconv.FormatBool(paused),
	})
	return nil
}
