package token2022

import (
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// Single-byte instruction discriminants of the base token program.
const (
	initializeMint2Instruction = 20
	mintToInstruction          = 7
	setAuthorityInstruction    = 6
)

// Metadata pointer extension instruction prefix and sub-instruction.
const (
	metadataPointerExtensionPrefix = 39
	metadataPointerInitialize      = 0
)

// AuthorityType selects which authority a SetAuthority instruction changes.
type AuthorityType uint8

const (
	AuthorityMintTokens    AuthorityType = 0
	AuthorityFreezeAccount AuthorityType = 1
)

// NewInitializeMetadataPointerInstruction configures the mint to point at
// its own account as the metadata store.
func NewInitializeMetadataPointerInstruction(mint, authority, metadataAddress solana.PublicKey) *solana.GenericInstruction {
	data := make([]byte, 0, 2+32+32)
	data = append(data, metadataPointerExtensionPrefix, metadataPointerInitialize)
	data = append(data, authority.Bytes()...)
	data = append(data, metadataAddress.Bytes()...)
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(mint).WRITE(),
		},
		data,
	)
}

// NewInitializeMint2Instruction initializes the mint account. A zero
// freezeAuthority leaves the mint without one.
func NewInitializeMint2Instruction(mint solana.PublicKey, decimals uint8, mintAuthority solana.PublicKey, freezeAuthority solana.PublicKey) *solana.GenericInstruction {
	data := make([]byte, 0, 1+1+32+1+32)
	data = append(data, initializeMint2Instruction, decimals)
	data = append(data, mintAuthority.Bytes()...)
	data = appendCOptionPubkey(data, freezeAuthority)
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(mint).WRITE(),
		},
		data,
	)
}

// NewInitializeMetadataInstruction writes the name, symbol and URI into
// the metadata account (the mint itself when using a metadata pointer).
func NewInitializeMetadataInstruction(metadata, updateAuthority, mint, mintAuthority solana.PublicKey, name, symbol, uri string) *solana.GenericInstruction {
	data := append([]byte{}, initializeMetadataDiscriminator...)
	data = appendBorshString(data, name)
	data = appendBorshString(data, symbol)
	data = appendBorshString(data, uri)
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(metadata).WRITE(),
			solana.Meta(updateAuthority),
			solana.Meta(mint),
			solana.Meta(mintAuthority).SIGNER(),
		},
		data,
	)
}

// NewUpdateMetadataFieldInstruction sets a metadata field. The keys
// "name", "symbol" and "uri" address the well-known fields, any other
// key updates the additional metadata list.
func NewUpdateMetadataFieldInstruction(metadata, updateAuthority solana.PublicKey, key, value string) *solana.GenericInstruction {
	data := append([]byte{}, updateMetadataFieldDiscriminator...)
	data = appendFieldArg(data, key)
	data = appendBorshString(data, value)
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(metadata).WRITE(),
			solana.Meta(updateAuthority).SIGNER(),
		},
		data,
	)
}

// NewRemoveMetadataKeyInstruction removes an additional metadata entry.
// idempotent allows the instruction to succeed when the key is absent.
func NewRemoveMetadataKeyInstruction(metadata, updateAuthority solana.PublicKey, key string, idempotent bool) *solana.GenericInstruction {
	data := append([]byte{}, removeMetadataKeyDiscriminator...)
	if idempotent {
		data = append(data, 1)
	} else {
		data = append(data, 0)
	}
	data = appendBorshString(data, key)
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(metadata).WRITE(),
			solana.Meta(updateAuthority).SIGNER(),
		},
		data,
	)
}

// NewUpdateMetadataAuthorityInstruction replaces the metadata update
// authority. A zero newAuthority removes it permanently.
func NewUpdateMetadataAuthorityInstruction(metadata, currentAuthority, newAuthority solana.PublicKey) *solana.GenericInstruction {
	data := append([]byte{}, updateMetadataAuthorityDiscriminator...)
	data = append(data, newAuthority.Bytes()...)
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(metadata).WRITE(),
			solana.Meta(currentAuthority).SIGNER(),
		},
		data,
	)
}

// NewSetAuthorityInstruction changes or removes a mint authority. A zero
// newAuthority revokes it.
func NewSetAuthorityInstruction(mint, currentAuthority solana.PublicKey, authorityType AuthorityType, newAuthority solana.PublicKey) *solana.GenericInstruction {
	data := make([]byte, 0, 1+1+1+32)
	data = append(data, setAuthorityInstruction, uint8(authorityType))
	data = appendCOptionPubkey(data, newAuthority)
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(mint).WRITE(),
			solana.Meta(currentAuthority).SIGNER(),
		},
		data,
	)
}

// NewMintToInstruction mints raw token units to a token account.
func NewMintToInstruction(mint, destination, mintAuthority solana.PublicKey, amount uint64) *solana.GenericInstruction {
	data := make([]byte, 0, 1+8)
	data = append(data, mintToInstruction)
	data = binary.LittleEndian.AppendUint64(data, amount)
	return solana.NewInstruction(
		ProgramID,
		solana.AccountMetaSlice{
			solana.Meta(mint).WRITE(),
			solana.Meta(destination).WRITE(),
			solana.Meta(mintAuthority).SIGNER(),
		},
		data,
	)
}

// NewCreateAssociatedTokenAccountInstruction creates the owner's
// associated token account for a Token-2022 mint.
func NewCreateAssociatedTokenAccountInstruction(payer, associatedTokenAccount, owner, mint solana.PublicKey) *solana.GenericInstruction {
	return solana.NewInstruction(
		AssociatedTokenProgramID,
		solana.AccountMetaSlice{
			solana.Meta(payer).WRITE().SIGNER(),
			solana.Meta(associatedTokenAccount).WRITE(),
			solana.Meta(owner),
			solana.Meta(mint),
			solana.Meta(solana.SystemProgramID),
			solana.Meta(ProgramID),
		},
		nil,
	)
}

// appendCOptionPubkey encodes an optional pubkey in the token program's
// COption layout. The zero pubkey encodes as None.
func appendCOptionPubkey(data []byte, key solana.PublicKey) []byte {
	if key.IsZero() {
		return append(data, 0)
	}
	data = append(data, 1)
	return append(data, key.Bytes()...)
}
