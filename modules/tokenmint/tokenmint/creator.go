package tokenmint

import (
	"context"
	"log/slog"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/solmint-labs/solmint/common/errs"
	"github.com/solmint-labs/solmint/pkg/decimals"
	"github.com/solmint-labs/solmint/pkg/logger"
	"github.com/solmint-labs/solmint/pkg/logger/slogx"
	"github.com/solmint-labs/solmint/pkg/solanarpc"
	"github.com/solmint-labs/solmint/pkg/token2022"
	"github.com/solmint-labs/solmint/pkg/wallet"
	"golang.org/x/sync/errgroup"
)

const (
	confirmationAttempts = 10
	confirmationInterval = time.Second

	// rentSafetyNumerator/Denominator inflate the queried rent by 20%
	// to absorb metadata serialization drift between quote and landing.
	rentSafetyNumerator   = 6
	rentSafetyDenominator = 5
)

// StageHooks lets a caller follow the orchestration for presentation
// purposes. All hooks are optional.
type StageHooks struct {
	OnPublishing   func()
	OnAwaitingSign func()
	OnConfirming   func()
}

func (h StageHooks) publishing() {
	if h.OnPublishing != nil {
		h.OnPublishing()
	}
}

func (h StageHooks) awaitingSign() {
	if h.OnAwaitingSign != nil {
		h.OnAwaitingSign()
	}
}

func (h StageHooks) confirming() {
	if h.OnConfirming != nil {
		h.OnConfirming()
	}
}

// Creator orchestrates the two-transaction Token-2022 minting sequence.
type Creator struct {
	client    solanarpc.Contract
	publisher *Publisher
	fees      FeeConfig

	newMintKeypair func() (*wallet.Keypair, error)
	sleep          func(ctx context.Context, d time.Duration) error
}

type CreatorOptions struct {
	// NewMintKeypair overrides mint keypair generation. Used in tests.
	NewMintKeypair func() (*wallet.Keypair, error)

	// Sleep overrides the confirmation poll delay. Used in tests.
	Sleep func(ctx context.Context, d time.Duration) error
}

func NewCreator(client solanarpc.Contract, publisher *Publisher, fees FeeConfig, options ...CreatorOptions) *Creator {
	var opts CreatorOptions
	if len(options) > 0 {
		opts = options[0]
	}
	if opts.NewMintKeypair == nil {
		opts.NewMintKeypair = wallet.NewRandom
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Creator{
		client:         client,
		publisher:      publisher,
		fees:           fees,
		newMintKeypair: opts.NewMintKeypair,
		sleep:          opts.Sleep,
	}
}

// CreateToken runs the full creation sequence: validate, publish assets,
// fund and initialize the mint with its metadata (transaction A), then
// create the token account, mint the supply and revoke authorities
// (transaction B). A transaction B failure still returns the result of
// transaction A, marked partial.
func (c *Creator) CreateToken(ctx context.Context, signer wallet.Signer, spec TokenSpecification, hooks ...StageHooks) (*CreationResult, error) {
	var stage StageHooks
	if len(hooks) > 0 {
		stage = hooks[0]
	}
	if signer == nil {
		return nil, errors.Wrap(errs.WithPublicMessage(errs.WalletNotConnected, "connect a wallet first"), "nil signer")
	}
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return nil, errors.WithStack(err)
	}
	mintAmount, err := spec.MintAmount()
	if err != nil {
		return nil, errors.WithStack(err)
	}
	quote, err := c.fees.Quote(spec.Options)
	if err != nil {
		return nil, errors.Wrap(errs.WithPublicMessage(errs.InvalidConfiguration, "invalid fee configuration"), err.Error())
	}

	payer := signer.PublicKey()

	// Publish image and metadata before anything touches the chain.
	stage.publishing()
	var asset *PublishedAsset
	if c.publisher != nil {
		asset, err = c.publisher.Publish(ctx, spec, payer)
		if err != nil {
			return nil, errors.WithStack(err)
		}
	} else {
		asset = &PublishedAsset{}
	}

	mintKeypair, err := c.newMintKeypair()
	if err != nil {
		return nil, errors.Wrap(err, "can't generate mint keypair")
	}
	mint := mintKeypair.PublicKey()

	metadata := token2022.Metadata{
		UpdateAuthority:    payer,
		Mint:               mint,
		Name:               spec.Name,
		Symbol:             spec.Symbol,
		URI:                asset.MetadataGatewayURL,
		AdditionalMetadata: additionalMetadata(spec, asset),
	}

	// The mint account is allocated at the pointer-extension size; the
	// metadata initialize instruction reallocates it, so rent must cover
	// the final size up front.
	rentSize := uint64(token2022.MintSizeWithMetadataPointer) + token2022.MetadataSpace(metadata)
	var (
		rent      uint64
		balance   uint64
		blockhash solana.Hash
	)
	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		var err error
		rent, err = c.client.GetMinimumBalanceForRentExemption(groupCtx, rentSize)
		return errors.Wrap(err, "can't query rent exemption")
	})
	group.Go(func() error {
		var err error
		balance, err = c.client.GetBalance(groupCtx, payer)
		return errors.Wrap(err, "can't query wallet balance")
	})
	group.Go(func() error {
		var err error
		blockhash, err = c.client.GetLatestBlockhash(groupCtx)
		return errors.Wrap(err, "can't fetch blockhash")
	})
	if err := group.Wait(); err != nil {
		return nil, errors.WithStack(err)
	}
	rent = (rent*rentSafetyNumerator + rentSafetyDenominator - 1) / rentSafetyDenominator

	required := quote.Lamports + rent
	if balance < required {
		return nil, errors.Wrapf(
			errs.WithPublicMessage(errs.InsufficientFunds, insufficientFundsMessage(required, balance)),
			"required %d lamports, available %d", required, balance,
		)
	}

	txMint, err := c.buildMintTransaction(signer, mintKeypair, spec, metadata, quote, rent, blockhash)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	stage.awaitingSign()
	if err := mintKeypair.SignTransaction(ctx, txMint); err != nil {
		return nil, errors.Wrap(err, "can't sign with mint keypair")
	}
	if err := signer.SignTransaction(ctx, txMint); err != nil {
		return nil, errors.Wrap(err, "wallet refused to sign")
	}

	signature, err := c.client.SendTransaction(ctx, txMint)
	if err != nil {
		return nil, errors.Wrap(errs.WithPublicMessage(errs.TransactionFailure, "token creation transaction was rejected"), err.Error())
	}

	result := &CreationResult{
		Name:               spec.Name,
		Symbol:             spec.Symbol,
		MintAddress:        mint,
		Signature:          signature,
		MetadataURI:        asset.MetadataURI,
		MetadataGatewayURL: asset.MetadataGatewayURL,
		ImageGatewayURL:    asset.ImageGatewayURL,
	}

	stage.confirming()
	if err := c.awaitConfirmation(ctx, signature); err != nil {
		if errors.Is(err, errs.ConfirmationTimeout) {
			// The mint transaction may still land; proceed and let the
			// second transaction fail preflight if it does not.
			logger.WarnContext(ctx, "mint transaction not confirmed in time, proceeding",
				slogx.Stringer("signature", signature),
			)
		} else {
			return nil, errors.WithStack(err)
		}
	}

	txTokens, err := c.buildTokenAccountTransaction(payer, mint, spec, mintAmount, blockhash)
	if err != nil {
		result.Partial = true
		logger.ErrorContext(ctx, "can't build token account transaction, returning partial result", slogx.Error(err))
		return result, nil
	}
	if err := signer.SignTransaction(ctx, txTokens); err != nil {
		result.Partial = true
		logger.ErrorContext(ctx, "wallet refused to sign token account transaction, returning partial result", slogx.Error(err))
		return result, nil
	}
	if _, err := c.client.SendTransaction(ctx, txTokens); err != nil {
		// The mint exists even when this step fails; surface a partial
		// result instead of an error.
		result.Partial = true
		logger.ErrorContext(ctx, "token account transaction failed, returning partial result",
			slogx.Error(err),
			slogx.Stringer("mint", mint),
		)
		return result, nil
	}

	logger.InfoContext(ctx, "token created",
		slogx.Stringer("mint", mint),
		slogx.Stringer("signature", signature),
		slogx.String("symbol", spec.Symbol),
	)
	return result, nil
}

// buildMintTransaction assembles transaction A: service fee transfer,
// mint account creation, extension and mint initialization, metadata
// initialization and one update-field instruction per extra entry.
func (c *Creator) buildMintTransaction(
	signer wallet.Signer,
	mintKeypair *wallet.Keypair,
	spec TokenSpecification,
	metadata token2022.Metadata,
	quote FeeQuote,
	rent uint64,
	blockhash solana.Hash,
) (*solana.Transaction, error) {
	payer := signer.PublicKey()
	mint := mintKeypair.PublicKey()

	instructions := make([]solana.Instruction, 0, 8+len(metadata.AdditionalMetadata))
	if !c.fees.Receiver.IsZero() && quote.Lamports > 0 {
		instructions = append(instructions, system.NewTransferInstruction(quote.Lamports, payer, c.fees.Receiver).Build())
	}
	instructions = append(instructions,
		system.NewCreateAccountInstruction(rent, token2022.MintSizeWithMetadataPointer, token2022.ProgramID, payer, mint).Build(),
		token2022.NewInitializeMetadataPointerInstruction(mint, payer, mint),
	)

	freezeAuthority := payer
	if spec.Options.RevokeFreeze {
		freezeAuthority = solana.PublicKey{}
	}
	instructions = append(instructions,
		token2022.NewInitializeMint2Instruction(mint, spec.Decimals, payer, freezeAuthority),
		token2022.NewInitializeMetadataInstruction(mint, payer, mint, payer, metadata.Name, metadata.Symbol, metadata.URI),
	)
	for _, kv := range metadata.AdditionalMetadata {
		instructions = append(instructions, token2022.NewUpdateMetadataFieldInstruction(mint, payer, kv.Key, kv.Value))
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, errors.Wrap(err, "can't build mint transaction")
	}
	return tx, nil
}

// buildTokenAccountTransaction assembles transaction B: associated token
// account creation, supply mint and conditional authority revocations.
// It shares transaction A's blockhash.
func (c *Creator) buildTokenAccountTransaction(
	payer solana.PublicKey,
	mint solana.PublicKey,
	spec TokenSpecification,
	mintAmount uint64,
	blockhash solana.Hash,
) (*solana.Transaction, error) {
	tokenAccount, err := token2022.FindAssociatedTokenAddress(payer, mint)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	instructions := []solana.Instruction{
		token2022.NewCreateAssociatedTokenAccountInstruction(payer, tokenAccount, payer, mint),
		token2022.NewMintToInstruction(mint, tokenAccount, payer, mintAmount),
	}
	if spec.Options.RevokeMint {
		instructions = append(instructions, token2022.NewSetAuthorityInstruction(mint, payer, token2022.AuthorityMintTokens, solana.PublicKey{}))
	}
	// The metadata is always initialized with the payer as update
	// authority so the field writes in the first transaction can run;
	// revoking clears it here once the fields are final.
	if spec.Options.RevokeUpdate {
		instructions = append(instructions, token2022.NewUpdateMetadataAuthorityInstruction(mint, payer, solana.PublicKey{}))
	}

	tx, err := solana.NewTransaction(instructions, blockhash, solana.TransactionPayer(payer))
	if err != nil {
		return nil, errors.Wrap(err, "can't build token account transaction")
	}
	return tx, nil
}

// awaitConfirmation polls the signature status with bounded retries. An
// on-chain execution error is fatal; exhausting retries is a soft
// timeout reported as errs.ConfirmationTimeout.
func (c *Creator) awaitConfirmation(ctx context.Context, signature solana.Signature) error {
	for attempt := 0; attempt < confirmationAttempts; attempt++ {
		if err := c.sleep(ctx, confirmationInterval); err != nil {
			return errors.WithStack(err)
		}
		status, err := c.client.GetSignatureStatus(ctx, signature)
		if err != nil {
			logger.WarnContext(ctx, "can't poll signature status", slogx.Error(err), slog.Int("attempt", attempt+1))
			continue
		}
		if status == nil {
			continue
		}
		if status.Err != nil {
			return errors.Wrapf(
				errs.WithPublicMessage(errs.TransactionFailure, "token creation failed on-chain"),
				"signature %s failed: %v", signature, status.Err,
			)
		}
		if status.Confirmed() {
			return nil
		}
	}
	return errors.Wrapf(errs.ConfirmationTimeout, "signature %s not confirmed after %d attempts", signature, confirmationAttempts)
}

// additionalMetadata builds the ordered extra metadata entries:
// description first, then the image URL, then conditionally the creator
// and social fields.
func additionalMetadata(spec TokenSpecification, asset *PublishedAsset) []token2022.KeyValue {
	entries := []token2022.KeyValue{
		{Key: "description", Value: spec.Description},
	}
	if asset.ImageGatewayURL != "" {
		entries = append(entries, token2022.KeyValue{Key: "image", Value: asset.ImageGatewayURL})
	}
	if spec.Options.AddCreatorInfo {
		entries = append(entries,
			token2022.KeyValue{Key: "creator_name", Value: spec.Options.CreatorName},
			token2022.KeyValue{Key: "creator_website", Value: spec.Options.CreatorWebsite},
		)
	}
	if spec.Options.AddSocialLinks {
		entries = append(entries,
			token2022.KeyValue{Key: "twitter", Value: spec.Options.TwitterLink},
			token2022.KeyValue{Key: "discord", Value: spec.Options.DiscordLink},
			token2022.KeyValue{Key: "telegram", Value: spec.Options.TelegramLink},
		)
	}
	return entries
}

func insufficientFundsMessage(required, available uint64) string {
	return "insufficient funds: need " + decimals.FromLamports(required).String() + " SOL, wallet holds " + decimals.FromLamports(available).String() + " SOL"
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
