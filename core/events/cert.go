package events

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/dpmc-io/nft-minting-smart-contract/core/types"
	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
)

const (
	// TypeCertMinted is emitted whenever a voucher-backed mint completes.
	TypeCertMinted = "cert.minted"
	// TypeCertTransferred is emitted on every permitted transfer.
	TypeCertTransferred = "cert.transferred"
	// TypeParamUpdated records an admin configuration change with its
	// before and after values.
	TypeParamUpdated = "cert.param.updated"
)

type CertMinted struct {
	TokenID     uint64
	Recipient   crypto.Address
	Payer       crypto.Address
	Amount      *big.Int
	IssuedAt    uint64
	VoucherHash string
}

func (CertMinted) EventType() string { return TypeCertMinted }

func (e CertMinted) Event() *types.Event {
	if e.Amount == nil {
		e.Amount = big.NewInt(0)
	}
	voucherHash := strings.TrimSpace(e.VoucherHash)
	if voucherHash != "" && !strings.HasPrefix(voucherHash, "0x") {
		voucherHash = "0x" + voucherHash
	}
	return &types.Event{
		Type: TypeCertMinted,
		Attributes: map[string]string{
			"tokenId":     strconv.FormatUint(e.TokenID, 10),
			"recipient":   e.Recipient.String(),
			"payer":       e.Payer.String(),
			"amount":      e.Amount.String(),
			"issuedAt":    strconv.FormatUint(e.IssuedAt, 10),
			"voucherHash": voucherHash,
		},
	}
}

type CertTransferred struct {
	TokenID  uint64
	From     crypto.Address
	To       crypto.Address
	Executor crypto.Address
	Proxied  bool
}

func (CertTransferred) EventType() string { return TypeCertTransferred }

func (e CertTransferred) Event() *types.Event {
	return &types.Event{
		Type: TypeCertTransferred,
		Attributes: map[string]string{
			"tokenId":  strconv.FormatUint(e.TokenID, 10),
			"from":     e.From.String(),
			"to":       e.To.String(),
			"executor": e.Executor.String(),
			"proxied":  strconv.FormatBool(e.Proxied),
		},
	}
}

type ParamUpdated struct {
	Name   string
	Before string
	After  string
}

func (ParamUpdated) EventType() string { return TypeParamUpdated }

func (e ParamUpdated) Event() *types.Event {
	return &types.Event{
		Type: TypeParamUpdated,
		Attributes: map[string]string{
			"param":  e.Name,
			"before": e.Before,
			"after":  e.After,
		},
	}
}
