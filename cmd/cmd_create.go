package cmd

import (
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/solmint-labs/solmint/common/errs"
	"github.com/solmint-labs/solmint/internal/config"
	"github.com/solmint-labs/solmint/modules/tokenmint"
	minttypes "github.com/solmint-labs/solmint/modules/tokenmint/tokenmint"
	"github.com/solmint-labs/solmint/pkg/pinning"
	"github.com/solmint-labs/solmint/pkg/progress"
	"github.com/solmint-labs/solmint/pkg/solanarpc"
	"github.com/solmint-labs/solmint/pkg/wallet"
	"github.com/spf13/cobra"
)

type createCmdOptions struct {
	Name        string
	Symbol      string
	Description string
	Decimals    uint8
	Supply      uint64
	ImagePath   string
	KeypairPath string

	AddCreatorInfo bool
	AddSocialLinks bool
	RevokeFreeze   bool
	RevokeMint     bool
	RevokeUpdate   bool

	CreatorName    string
	CreatorWebsite string
	TwitterLink    string
	DiscordLink    string
	TelegramLink   string
}

func NewCreateCommand() *cobra.Command {
	opts := &createCmdOptions{}

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a Token-2022 token from the command line",
		RunE: func(cmd *cobra.Command, args []string) error {
			return createHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Name, "name", "", "Token name (required)")
	flags.StringVar(&opts.Symbol, "symbol", "", "Token symbol (required)")
	flags.StringVar(&opts.Description, "description", "", "Token description")
	flags.Uint8Var(&opts.Decimals, "decimals", 9, "Token decimals, one of 0, 2, 6 or 9")
	flags.Uint64Var(&opts.Supply, "supply", 0, "Token supply in whole tokens (required)")
	flags.StringVar(&opts.ImagePath, "image", "", "Path to the token image, E.g. `./logo.png`")
	flags.StringVar(&opts.KeypairPath, "keypair", "", "Payer keypair file, overrides wallet.keypair_path")
	flags.BoolVar(&opts.AddCreatorInfo, "add-creator-info", false, "Embed creator name and website in the metadata")
	flags.BoolVar(&opts.AddSocialLinks, "add-social-links", false, "Embed social links in the metadata")
	flags.BoolVar(&opts.RevokeFreeze, "revoke-freeze", false, "Create the mint without a freeze authority")
	flags.BoolVar(&opts.RevokeMint, "revoke-mint", false, "Revoke the mint authority after minting the supply")
	flags.BoolVar(&opts.RevokeUpdate, "revoke-update", false, "Remove the metadata update authority")
	flags.StringVar(&opts.CreatorName, "creator-name", "", "Creator name, requires --add-creator-info")
	flags.StringVar(&opts.CreatorWebsite, "creator-website", "", "Creator website, requires --add-creator-info")
	flags.StringVar(&opts.TwitterLink, "twitter", "", "Twitter link, requires --add-social-links")
	flags.StringVar(&opts.DiscordLink, "discord", "", "Discord link, requires --add-social-links")
	flags.StringVar(&opts.TelegramLink, "telegram", "", "Telegram link, requires --add-social-links")

	return cmd
}

func createHandler(opts *createCmdOptions, cmd *cobra.Command, _ []string) error {
	conf := config.Load()
	ctx := cmd.Context()

	if !conf.Network.IsSupported() {
		return errors.Wrapf(errs.Unsupported, "%q network is not supported", conf.Network.String())
	}

	signer, err := resolveSigner(opts.KeypairPath, conf)
	if err != nil {
		return errors.WithStack(err)
	}

	spec := minttypes.TokenSpecification{
		Name:        opts.Name,
		Symbol:      opts.Symbol,
		Description: opts.Description,
		Decimals:    opts.Decimals,
		Supply:      opts.Supply,
		Options: minttypes.TokenOptions{
			AddCreatorInfo: opts.AddCreatorInfo,
			AddSocialLinks: opts.AddSocialLinks,
			RevokeFreeze:   opts.RevokeFreeze,
			RevokeMint:     opts.RevokeMint,
			RevokeUpdate:   opts.RevokeUpdate,
			CreatorName:    opts.CreatorName,
			CreatorWebsite: opts.CreatorWebsite,
			TwitterLink:    opts.TwitterLink,
			DiscordLink:    opts.DiscordLink,
			TelegramLink:   opts.TelegramLink,
		},
	}
	if opts.ImagePath != "" {
		image, err := os.ReadFile(opts.ImagePath)
		if err != nil {
			return errors.Wrap(err, "can't read image file")
		}
		spec.Image = image
		spec.ImageContentType = mime.TypeByExtension(filepath.Ext(opts.ImagePath))
	}
	spec = spec.Normalize()
	if err := spec.Validate(); err != nil {
		return errors.WithStack(err)
	}

	endpoint := conf.RPC.Endpoint
	if endpoint == "" {
		endpoint = conf.Network.DefaultEndpoint()
	}
	client, _, err := solanarpc.NewSelector().Select(ctx, endpoint, conf.RPC.BackupEndpoints...)
	if err != nil {
		return errors.Wrap(err, "can't reach any RPC endpoint")
	}

	var publisher *minttypes.Publisher
	if conf.Pinning.APIKey != "" {
		pinner, err := pinning.New(conf.Pinning)
		if err != nil {
			return errors.Wrap(err, "invalid pinning configuration")
		}
		publisher = minttypes.NewPublisher(pinner)
	}

	fees, err := tokenmint.FeeConfigFrom(conf.Fees)
	if err != nil {
		return errors.WithStack(err)
	}
	creator := minttypes.NewCreator(client, publisher, fees)

	// The creation sequence has no real progress signal, so the bar is
	// scripted per stage and held at the stage end until the next hook.
	bar := progress.New(progress.Options{
		OnUpdate: func(s progress.Snapshot) {
			fmt.Printf("\r\033[K%s %3d%%", s.Label, s.Percent)
			if s.Done {
				fmt.Println()
			}
		},
	})
	defer bar.Close()
	bar.Begin(progress.Stage{Label: "Preparing token creation...", Start: 0, End: 10, Duration: 1500 * time.Millisecond})
	hooks := minttypes.StageHooks{
		OnPublishing: func() {
			bar.Begin(progress.Stage{Label: "Uploading image to IPFS...", Start: 10, End: 40, Duration: 5 * time.Second})
		},
		OnAwaitingSign: func() {
			bar.Begin(progress.Stage{Label: "Waiting for wallet confirmation...", Start: 40, End: 60, Duration: 5 * time.Second})
		},
		OnConfirming: func() {
			bar.Begin(progress.Stage{Label: "Confirming transaction...", Start: 60, End: 95, Duration: 10 * time.Second})
		},
	}

	result, err := creator.CreateToken(ctx, signer, spec, hooks)
	if err != nil {
		fmt.Println()
		return errors.WithStack(err)
	}
	bar.Finish()

	fmt.Printf("Name:         %s\n", result.Name)
	fmt.Printf("Symbol:       %s\n", result.Symbol)
	fmt.Printf("Mint address: %s\n", result.MintAddress)
	fmt.Printf("Signature:    %s\n", result.Signature)
	if result.MetadataURI != "" {
		fmt.Printf("Metadata:     %s (%s)\n", result.MetadataURI, result.MetadataGatewayURL)
	}
	if result.ImageGatewayURL != "" {
		fmt.Printf("Image:        %s\n", result.ImageGatewayURL)
	}
	if result.Partial {
		fmt.Println("Warning: token account creation did not complete, the mint exists")
	}
	return nil
}

func resolveSigner(keypairPath string, conf config.Config) (wallet.Signer, error) {
	switch {
	case keypairPath != "":
		return wallet.FromFile(keypairPath)
	case conf.Wallet.PrivateKey != "":
		return wallet.FromBase58(conf.Wallet.PrivateKey)
	case conf.Wallet.KeypairPath != "":
		return wallet.FromFile(conf.Wallet.KeypairPath)
	default:
		return nil, errors.Wrap(errs.WalletNotConnected, "no wallet configured, set wallet.keypair_path or pass --keypair")
	}
}
