package cert

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"strconv"

	"github.com/dpmc-io/nft-minting-smart-contract/datetime"
	"github.com/dpmc-io/nft-minting-smart-contract/fixedpoint"
)

const svgTemplate = `<svg xmlns="http://www.w3.org/2000/svg" preserveAspectRatio="xMinYMin meet" viewBox="0 0 350 350">` +
	`<rect width="100%%" height="100%%" fill="#101418"/>` +
	`<rect x="10" y="10" width="330" height="330" fill="none" stroke="#c9a227" stroke-width="2"/>` +
	`<text x="175" y="70" fill="#c9a227" font-family="serif" font-size="22" text-anchor="middle">%s</text>` +
	`<text x="175" y="110" fill="#ffffff" font-family="serif" font-size="16" text-anchor="middle">Certificate #%d</text>` +
	`<text x="175" y="185" fill="#ffffff" font-family="monospace" font-size="26" text-anchor="middle">%s %s</text>` +
	`<text x="175" y="245" fill="#9aa4ad" font-family="monospace" font-size="14" text-anchor="middle">%s UTC</text>` +
	`<text x="175" y="322" fill="#5b6770" font-family="monospace" font-size="10" text-anchor="middle">%s</text>` +
	`</svg>`

type metadataAttribute struct {
	TraitType string `json:"trait_type"`
	Value     string `json:"value"`
}

type metadataDocument struct {
	Name        string              `json:"name"`
	Description string              `json:"description"`
	Image       string              `json:"image"`
	Attributes  []metadataAttribute `json:"attributes"`
}

// RenderMetadata produces the self-describing metadata document for a minted
// certificate as a base64 data URI. The output is a pure function of the
// certificate state and static configuration: identical state renders
// byte-identical documents. It reads only committed state and takes no
// operation lock.
func (e *Engine) RenderMetadata(tokenID uint64) (string, error) {
	if e == nil || e.state == nil {
		return "", ErrNilState
	}
	if e.payment == nil {
		return "", ErrNoPaymentToken
	}
	certificate, ok, err := e.state.Certificate(tokenID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", ErrCertNotFound
	}

	decimals, err := e.payment.Decimals()
	if err != nil {
		return "", fmt.Errorf("cert: query payment decimals: %w", err)
	}
	symbol, err := e.payment.Symbol()
	if err != nil {
		return "", fmt.Errorf("cert: query payment symbol: %w", err)
	}

	value := certificate.Value
	if value == nil {
		value = big.NewInt(0)
	}
	formattedValue := fixedpoint.Format(value, uint(decimals))
	mintedAt := datetime.FromTimestamp(certificate.IssuedAt).String()

	svg := fmt.Sprintf(svgTemplate,
		e.info.Name,
		tokenID,
		formattedValue, symbol,
		mintedAt,
		e.self.String(),
	)
	image := "data:image/svg+xml;base64," + base64.StdEncoding.EncodeToString([]byte(svg))

	doc := metadataDocument{
		Name:        fmt.Sprintf("%s #%d", e.info.Name, tokenID),
		Description: e.info.Description,
		Image:       image,
		Attributes: []metadataAttribute{
			{TraitType: "Value", Value: value.String()},
			{TraitType: "Issued At", Value: strconv.FormatUint(certificate.IssuedAt, 10)},
		},
	}
	encoded, err := json.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("cert: encode metadata: %w", err)
	}
	return "data:application/json;base64," + base64.StdEncoding.EncodeToString(encoded), nil
}
