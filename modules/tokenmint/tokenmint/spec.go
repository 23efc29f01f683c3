package tokenmint

import (
	"github.com/cockroachdb/errors"
	"github.com/gagliardetto/solana-go"
	"github.com/gaze-network/uint128"
	"github.com/samber/lo"
	"github.com/solmint-labs/solmint/common/errs"
)

// maxSupply caps the human-readable supply so it survives JSON clients
// that represent numbers as float64.
const maxSupply = 1<<53 - 1

const maxSymbolLength = 10

var allowedDecimals = []uint8{0, 2, 6, 9}

// TokenOptions are the premium options and authority flags of a token.
type TokenOptions struct {
	AddCreatorInfo    bool `json:"addCreatorInfo"`
	AddSocialLinks    bool `json:"addSocialLinks"`
	RevokeFreeze      bool `json:"revokeFreeze"`
	RevokeMint        bool `json:"revokeMint"`
	RevokeUpdate      bool `json:"revokeUpdate"`
	UpdateAuthorityNA bool `json:"updateAuthorityNA"`

	CreatorName    string `json:"creatorName,omitempty"`
	CreatorWebsite string `json:"creatorWebsite,omitempty"`
	TwitterLink    string `json:"twitterLink,omitempty"`
	DiscordLink    string `json:"discordLink,omitempty"`
	TelegramLink   string `json:"telegramLink,omitempty"`
}

// Normalize enforces the coupling rules between options. Marking the
// update authority as N/A implies revoking it and vice versa, and
// disabled option groups drop their dependent text fields. Normalizing
// an already normalized value is a no-op.
func (o TokenOptions) Normalize() TokenOptions {
	if o.UpdateAuthorityNA || o.RevokeUpdate {
		o.UpdateAuthorityNA = true
		o.RevokeUpdate = true
	}
	if !o.AddCreatorInfo {
		o.CreatorName = ""
		o.CreatorWebsite = ""
	}
	if !o.AddSocialLinks {
		o.TwitterLink = ""
		o.DiscordLink = ""
		o.TelegramLink = ""
	}
	return o
}

// TokenSpecification is the user's token configuration.
type TokenSpecification struct {
	Name        string       `json:"name"`
	Symbol      string       `json:"symbol"`
	Description string       `json:"description"`
	Decimals    uint8        `json:"decimals"`
	Supply      uint64       `json:"supply"`
	Options     TokenOptions `json:"options"`

	// Image is the raw token image. Optional.
	Image            []byte `json:"-"`
	ImageContentType string `json:"-"`
}

// Normalize returns the specification with normalized options.
func (s TokenSpecification) Normalize() TokenSpecification {
	s.Options = s.Options.Normalize()
	return s
}

// Validate checks the specification before any network call is made.
func (s TokenSpecification) Validate() error {
	if s.Name == "" {
		return errors.WithStack(errs.NewPublicError("token name is required"))
	}
	if s.Symbol == "" {
		return errors.WithStack(errs.NewPublicError("token symbol is required"))
	}
	if len(s.Symbol) > maxSymbolLength {
		return errors.WithStack(errs.NewPublicError("token symbol must be at most 10 characters"))
	}
	if !lo.Contains(allowedDecimals, s.Decimals) {
		return errors.WithStack(errs.NewPublicError("decimals must be one of 0, 2, 6 or 9"))
	}
	if s.Supply == 0 {
		return errors.Wrap(errs.WithPublicMessage(errs.InvalidSupply, "supply must be greater than zero"), "zero supply")
	}
	if s.Supply > maxSupply {
		return errors.Wrapf(errs.WithPublicMessage(errs.InvalidSupply, "supply is too large"), "supply %d exceeds %d", s.Supply, uint64(maxSupply))
	}
	if _, err := s.MintAmount(); err != nil {
		return errors.WithStack(err)
	}
	return nil
}

// MintAmount returns the raw token amount to mint, supply * 10^decimals,
// computed exactly. Amounts beyond the token program's u64 range are
// rejected.
func (s TokenSpecification) MintAmount() (uint64, error) {
	scale := uint64(1)
	for i := uint8(0); i < s.Decimals; i++ {
		scale *= 10
	}
	amount, overflow := uint128.From64(s.Supply).MulOverflow(uint128.From64(scale))
	if overflow || amount.Hi != 0 {
		return 0, errors.Wrapf(errs.WithPublicMessage(errs.InvalidSupply, "supply times 10^decimals is too large"), "mint amount exceeds u64, supply %d decimals %d", s.Supply, s.Decimals)
	}
	return amount.Lo, nil
}

// CreationResult is the outcome of a token creation. It is returned
// even when the second transaction fails, in which case Partial is set.
type CreationResult struct {
	Name        string           `json:"name"`
	Symbol      string           `json:"symbol"`
	MintAddress solana.PublicKey `json:"mintAddress"`
	Signature   solana.Signature `json:"signature"`

	MetadataURI        string `json:"metadataURI,omitempty"`
	MetadataGatewayURL string `json:"metadataGatewayURL,omitempty"`
	ImageGatewayURL    string `json:"imageGatewayURL,omitempty"`

	// Partial marks a result whose mint account exists but whose token
	// account creation or mint-to step did not complete.
	Partial bool `json:"partial,omitempty"`
}
