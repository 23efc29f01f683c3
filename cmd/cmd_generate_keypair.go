package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/solmint-labs/solmint/pkg/wallet"
	"github.com/spf13/cobra"
)

type generateKeypairCmdOptions struct {
	Path string
}

func NewGenerateKeypairCommand() *cobra.Command {
	opts := &generateKeypairCmdOptions{}

	cmd := &cobra.Command{
		Use:   "generate-keypair",
		Short: "Generate a new Solana keypair for the service wallet",
		RunE: func(cmd *cobra.Command, args []string) error {
			return generateKeypairHandler(opts, cmd, args)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.Path, "path", "", "Write the keypair as a Solana CLI JSON file, E.g. `./keypair.json`")

	return cmd
}

func generateKeypairHandler(opts *generateKeypairCmdOptions, _ *cobra.Command, _ []string) error {
	keypair, err := wallet.NewRandom()
	if err != nil {
		return errors.Wrap(err, "can't generate keypair")
	}

	fmt.Printf("Public key: %s\n", keypair.PublicKey())

	if opts.Path == "" {
		fmt.Printf("Private key: %s\n", keypair.PrivateKey().String())
		return nil
	}

	// Solana CLI keypair files are a JSON array of the 64 secret key bytes.
	secret := keypair.PrivateKey()
	numbers := make([]int, len(secret))
	for i, b := range secret {
		numbers[i] = int(b)
	}
	data, err := json.Marshal(numbers)
	if err != nil {
		return errors.Wrap(err, "can't marshal keypair")
	}
	if err := os.MkdirAll(filepath.Dir(opts.Path), 0o700); err != nil {
		return errors.Wrap(err, "can't create keypair directory")
	}
	if err := os.WriteFile(opts.Path, data, 0o600); err != nil {
		return errors.Wrap(err, "can't write keypair file")
	}
	fmt.Printf("Keypair saved to %s\n", opts.Path)
	return nil
}
