package cert

import (
	"fmt"

	"github.com/dpmc-io/nft-minting-smart-contract/core/events"
	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
)

// Transfer moves a certificate at the holder's own request. While the
// restriction flag is set, the destination must be the zero address or a
// member of the allow-list.
func (e *Engine) Transfer(caller, destination crypto.Address, tokenID uint64) error {
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	if e.ledger == nil {
		return ErrNoLedger
	}
	if err := e.requireNotPaused(); err != nil {
		return err
	}
	if _, ok, err := e.state.Certificate(tokenID); err != nil {
		return err
	} else if !ok {
		return ErrCertNotFound
	}

	owner, ok, err := e.ledger.OwnerOf(tokenID)
	if err != nil {
		return fmt.Errorf("cert: query token owner: %w", err)
	}
	if !ok || owner != caller {
		return ErrNotTokenHolder
	}

	params, err := e.params()
	if err != nil {
		return err
	}
	if params.TransferRestricted && !destination.IsZero() {
		allowed, err := e.state.Allowlisted(destination)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrTransferRestricted
		}
	}

	if err := e.ledger.Transfer(caller, destination, tokenID); err != nil {
		return fmt.Errorf("cert: ledger transfer: %w", err)
	}

	e.emit(events.CertTransferred{
		TokenID:  tokenID,
		From:     caller,
		To:       destination,
		Executor: caller,
	})
	return nil
}

// TransferExecutedBy moves a certificate on the holder's behalf. While the
// restriction flag is set only the configured staking or redeem proxies may
// execute. A redeem-executed transfer frees the source holder's cap slot; a
// zero count at that point is an invariant violation and is surfaced as
// ErrOwnershipUnderflow rather than wrapped around.
func (e *Engine) TransferExecutedBy(executor, source, destination crypto.Address, tokenID uint64) error {
	done, err := e.begin()
	if err != nil {
		return err
	}
	defer done()

	if e.ledger == nil {
		return ErrNoLedger
	}
	if err := e.requireNotPaused(); err != nil {
		return err
	}
	if _, ok, err := e.state.Certificate(tokenID); err != nil {
		return err
	} else if !ok {
		return ErrCertNotFound
	}

	params, err := e.params()
	if err != nil {
		return err
	}
	if params.TransferRestricted {
		if executor != params.StakingAddress && executor != params.RedeemAddress {
			return ErrTransferRestricted
		}
	}

	redeeming := !params.RedeemAddress.IsZero() && executor == params.RedeemAddress
	var sourceCount uint64
	if redeeming {
		count, err := e.state.OwnershipCount(source)
		if err != nil {
			return err
		}
		if count == 0 {
			return ErrOwnershipUnderflow
		}
		sourceCount = count
	}

	if err := e.ledger.Transfer(source, destination, tokenID); err != nil {
		return fmt.Errorf("cert: ledger transfer: %w", err)
	}
	if redeeming {
		if err := e.state.SetOwnershipCount(source, sourceCount-1); err != nil {
			return err
		}
	}

	e.emit(events.CertTransferred{
		TokenID:  tokenID,
		From:     source,
		To:       destination,
		Executor: executor,
		Proxied:  true,
	})
	return nil
}
