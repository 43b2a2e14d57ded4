package cert

import (
	"fmt"
	"math/big"

	"github.com/dpmc-io/nft-minting-smart-contract/core/events"
	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
)

// Mint settles a voucher-authorized purchase: the payer funds the pool with
// amount, the recipient receives the next sequential certificate, and the
// voucher signature is retired. Every precondition is evaluated before the
// first state write, so a failed mint leaves no observable mutation.
//
// Precondition order: pause flag, voucher authorization, holder cap, payer
// balance and allowance, minimum bound, maximum bound. Both bounds are
// inclusive and a zero maximum means unbounded.
func (e *Engine) Mint(payer crypto.Address, amount *big.Int, recipient crypto.Address, expiry *big.Int, signature []byte) (uint64, error) {
	done, err := e.begin()
	if err != nil {
		return 0, err
	}
	defer done()

	if e.payment == nil {
		return 0, ErrNoPaymentToken
	}
	if e.ledger == nil {
		return 0, ErrNoLedger
	}
	if amount == nil || amount.Sign() <= 0 {
		return 0, ErrInvalidAmount
	}

	if err := e.requireNotPaused(); err != nil {
		return 0, err
	}

	params, err := e.params()
	if err != nil {
		return 0, err
	}

	voucher := Voucher{Recipient: recipient, Expiry: expiry, Signature: signature}
	if err := e.authorizeVoucher(voucher, params.Signer); err != nil {
		return 0, err
	}

	if params.HolderCap > 0 {
		count, err := e.state.OwnershipCount(recipient)
		if err != nil {
			return 0, err
		}
		if count >= params.HolderCap {
			return 0, ErrHolderCapReached
		}
	}

	balance, err := e.payment.BalanceOf(payer)
	if err != nil {
		return 0, fmt.Errorf("cert: query payer balance: %w", err)
	}
	if balance == nil || balance.Cmp(amount) < 0 {
		return 0, ErrInsufficientBalance
	}
	allowance, err := e.payment.Allowance(payer, e.self)
	if err != nil {
		return 0, fmt.Errorf("cert: query payment allowance: %w", err)
	}
	if allowance == nil || allowance.Cmp(amount) < 0 {
		return 0, ErrInsufficientAllowance
	}

	if amount.Cmp(params.MinToMint) < 0 {
		return 0, ErrAmountBelowMinimum
	}
	if params.MaxToMint.Sign() > 0 && amount.Cmp(params.MaxToMint) > 0 {
		return 0, ErrAmountAboveMaximum
	}

	// Effects. Collecting payment first mirrors the settlement order of the
	// voucher flow; the collaborator cannot re-enter past the owner guard.
	if err := e.payment.TransferFrom(payer, params.PaymentPool, amount); err != nil {
		return 0, fmt.Errorf("cert: collect payment: %w", err)
	}

	tokenID, err := e.state.NextTokenID()
	if err != nil {
		return 0, err
	}
	issuedAt := uint64(e.now())
	certificate := &Certificate{Value: new(big.Int).Set(amount), IssuedAt: issuedAt}
	if err := e.state.PutCertificate(tokenID, certificate); err != nil {
		return 0, err
	}
	if err := e.ledger.Mint(recipient, tokenID); err != nil {
		return 0, fmt.Errorf("cert: record ownership: %w", err)
	}
	count, err := e.state.OwnershipCount(recipient)
	if err != nil {
		return 0, err
	}
	if err := e.state.SetOwnershipCount(recipient, count+1); err != nil {
		return 0, err
	}
	if err := e.state.SetNextTokenID(tokenID + 1); err != nil {
		return 0, err
	}
	if err := e.state.MarkVoucherConsumed(signature); err != nil {
		return 0, err
	}

	e.emit(events.CertMinted{
		TokenID:     tokenID,
		Recipient:   recipient,
		Payer:       payer,
		Amount:      new(big.Int).Set(amount),
		IssuedAt:    issuedAt,
		VoucherHash: voucher.Hash(),
	})
	return tokenID, nil
}
