package token2022

import (
	"github.com/cockroachdb/errors"
	"github.com/gagliardetto/solana-go"
)

var (
	// ProgramID is the SPL Token-2022 program.
	ProgramID = solana.MustPublicKeyFromBase58("TokenzQdBNbLqP5VEhdkAS6EPFLC1PHnBqCXEpPxuEb")

	// AssociatedTokenProgramID is the SPL associated token account program.
	AssociatedTokenProgramID = solana.MustPublicKeyFromBase58("ATokenGPvbdGVxr1b2hvZbsiqW5xWH25efTNsLJA8knL")
)

const (
	// baseMintSize is the size of a Token-2022 mint account without extensions.
	baseMintSize = 165

	// accountTypeSize is the account-type byte appended after the base layout
	// when any extension is present.
	accountTypeSize = 1

	// extensionHeaderSize is the TLV header (type u16 + length u16) of
	// each extension entry.
	extensionHeaderSize = 2 + 2

	// metadataPointerSize is the metadata pointer extension body:
	// authority pubkey + metadata address pubkey.
	metadataPointerSize = 32 + 32

	// metadataExtensionOverhead is the TLV header of the variable-length
	// token metadata extension stored in the mint account.
	metadataExtensionOverhead = 4
)

// MintSizeWithMetadataPointer is the allocation size for a mint account
// carrying the metadata pointer extension. The metadata content itself is
// not allocated up front; the metadata initialize instruction reallocates
// the account, so only its rent must be prefunded.
const MintSizeWithMetadataPointer = baseMintSize + accountTypeSize + extensionHeaderSize + metadataPointerSize

// MetadataSpace returns the extra account space the token metadata
// extension occupies once initialized with the given content.
func MetadataSpace(metadata Metadata) uint64 {
	return metadataExtensionOverhead + uint64(len(metadata.Pack()))
}

// FindAssociatedTokenAddress derives the associated token account of the
// given owner for a Token-2022 mint.
func FindAssociatedTokenAddress(owner, mint solana.PublicKey) (solana.PublicKey, error) {
	address, _, err := solana.FindProgramAddress(
		[][]byte{
			owner.Bytes(),
			ProgramID.Bytes(),
			mint.Bytes(),
		},
		AssociatedTokenProgramID,
	)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "can't derive associated token address")
	}
	return address, nil
}
