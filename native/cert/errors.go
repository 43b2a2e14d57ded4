package cert

import "errors"

var (
	ErrPaused                 = errors.New("cert: operations paused")
	ErrInvalidSignatureFormat = errors.New("cert: malformed voucher signature")
	ErrInvalidExpiry          = errors.New("cert: voucher expiry out of range")
	ErrUnauthorizedVoucher    = errors.New("cert: voucher not signed by configured signer")
	ErrReplayedVoucher        = errors.New("cert: voucher signature already consumed")
	ErrInvalidAmount          = errors.New("cert: amount must be positive")
	ErrHolderCapReached       = errors.New("cert: holder certificate cap reached")
	ErrInsufficientBalance    = errors.New("cert: payer balance below mint amount")
	ErrInsufficientAllowance  = errors.New("cert: payment allowance below mint amount")
	ErrAmountBelowMinimum     = errors.New("cert: amount below minimum mint")
	ErrAmountAboveMaximum     = errors.New("cert: amount above maximum mint")
	ErrTransferRestricted     = errors.New("cert: transfer not permitted while restricted")
	ErrNotTokenHolder         = errors.New("cert: caller does not hold the token")
	ErrCertNotFound           = errors.New("cert: certificate not found")
	ErrOwnershipUnderflow     = errors.New("cert: ownership count underflow")
	ErrReentrantCall          = errors.New("cert: reentrant call rejected")
	ErrInvalidMintBounds      = errors.New("cert: minToMint exceeds maxToMint")
	ErrNilState               = errors.New("cert: state not configured")
	ErrNoPaymentToken         = errors.New("cert: payment token not configured")
	ErrNoLedger               = errors.New("cert: ownership ledger not configured")
)
