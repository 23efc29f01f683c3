package token2022

import (
	"crypto/sha256"
	"encoding/binary"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testMint      = solana.MustPublicKeyFromBase58("4Nd1mYQFsVfVpwLvUZpjAnYuRLZNZ7d1YbSBMsMFLyAv")
	testAuthority = solana.MustPublicKeyFromBase58("9WzDXwBbmkg8ZTbNMqUxvQRAyrZzDsGYdLVL9zYtAWWM")
	testOwner     = solana.MustPublicKeyFromBase58("7dHbWXmci3dT8UFYWYZweBLXgycu7Y3iL6trKn1Y7ARj")
)

func TestMintSizeWithMetadataPointer(t *testing.T) {
	// base account + account type + extension TLV header + two pubkeys
	assert.EqualValues(t, 234, MintSizeWithMetadataPointer)
}

func TestMetadataPack(t *testing.T) {
	metadata := Metadata{
		UpdateAuthority: testAuthority,
		Mint:            testMint,
		Name:            "Example",
		Symbol:          "EXM",
		URI:             "ipfs://bafkreigh2akiscaildcqabsyg3dfr6chu3fgpregiymsck7e7aqa4s52zy",
		AdditionalMetadata: []KeyValue{
			{Key: "description", Value: "An example token"},
			{Key: "twitter", Value: "https://x.com/example"},
		},
	}
	packed := metadata.Pack()

	expectedSize := 32 + 32 +
		4 + len(metadata.Name) +
		4 + len(metadata.Symbol) +
		4 + len(metadata.URI) +
		4 +
		4 + len("description") + 4 + len("An example token") +
		4 + len("twitter") + 4 + len("https://x.com/example")
	require.Len(t, packed, expectedSize)

	assert.Equal(t, testAuthority.Bytes(), packed[:32])
	assert.Equal(t, testMint.Bytes(), packed[32:64])
	assert.EqualValues(t, len(metadata.Name), binary.LittleEndian.Uint32(packed[64:68]))
	assert.Equal(t, "Example", string(packed[68:68+len(metadata.Name)]))

	assert.EqualValues(t, expectedSize+metadataExtensionOverhead, MetadataSpace(metadata))
}

func TestMetadataPackEmpty(t *testing.T) {
	packed := Metadata{}.Pack()
	// two zero pubkeys, three empty strings, empty additional list
	require.Len(t, packed, 32+32+4+4+4+4)
	for _, b := range packed {
		assert.Zero(t, b)
	}
}

func TestMetadataDiscriminators(t *testing.T) {
	sum := sha256.Sum256([]byte("spl_token_metadata_interface:initialize_account"))
	assert.Equal(t, sum[:8], initializeMetadataDiscriminator)
	assert.Len(t, updateMetadataFieldDiscriminator, 8)
	assert.NotEqual(t, initializeMetadataDiscriminator, updateMetadataFieldDiscriminator)
	assert.NotEqual(t, updateMetadataFieldDiscriminator, updateMetadataAuthorityDiscriminator)
}

func TestNewInitializeMint2Instruction(t *testing.T) {
	t.Run("with_freeze_authority", func(t *testing.T) {
		ix := NewInitializeMint2Instruction(testMint, 9, testAuthority, testAuthority)
		data, err := ix.Data()
		require.NoError(t, err)
		require.Len(t, data, 1+1+32+1+32)
		assert.EqualValues(t, initializeMint2Instruction, data[0])
		assert.EqualValues(t, 9, data[1])
		assert.Equal(t, testAuthority.Bytes(), data[2:34])
		assert.EqualValues(t, 1, data[34], "freeze authority present")
		assert.Equal(t, testAuthority.Bytes(), data[35:])
		assert.Equal(t, ProgramID, ix.ProgramID())
	})
	t.Run("without_freeze_authority", func(t *testing.T) {
		ix := NewInitializeMint2Instruction(testMint, 6, testAuthority, solana.PublicKey{})
		data, err := ix.Data()
		require.NoError(t, err)
		require.Len(t, data, 1+1+32+1)
		assert.EqualValues(t, 0, data[34], "freeze authority absent")
	})
}

func TestNewInitializeMetadataPointerInstruction(t *testing.T) {
	ix := NewInitializeMetadataPointerInstruction(testMint, testAuthority, testMint)
	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 2+32+32)
	assert.EqualValues(t, metadataPointerExtensionPrefix, data[0])
	assert.EqualValues(t, metadataPointerInitialize, data[1])
	assert.Equal(t, testAuthority.Bytes(), data[2:34])
	assert.Equal(t, testMint.Bytes(), data[34:])

	accounts := ix.Accounts()
	require.Len(t, accounts, 1)
	assert.Equal(t, testMint, accounts[0].PublicKey)
	assert.True(t, accounts[0].IsWritable)
}

func TestNewInitializeMetadataInstruction(t *testing.T) {
	ix := NewInitializeMetadataInstruction(testMint, testAuthority, testMint, testAuthority, "Example", "EXM", "ipfs://hash")
	data, err := ix.Data()
	require.NoError(t, err)
	assert.Equal(t, initializeMetadataDiscriminator, data[:8])
	assert.EqualValues(t, len("Example"), binary.LittleEndian.Uint32(data[8:12]))
	assert.Equal(t, "Example", string(data[12:19]))

	accounts := ix.Accounts()
	require.Len(t, accounts, 4)
	assert.True(t, accounts[0].IsWritable, "metadata account is writable")
	assert.True(t, accounts[3].IsSigner, "mint authority signs")
}

func TestNewUpdateMetadataFieldInstruction(t *testing.T) {
	t.Run("custom_key", func(t *testing.T) {
		ix := NewUpdateMetadataFieldInstruction(testMint, testAuthority, "description", "hello")
		data, err := ix.Data()
		require.NoError(t, err)
		assert.Equal(t, updateMetadataFieldDiscriminator, data[:8])
		assert.EqualValues(t, fieldKey, data[8])
		assert.EqualValues(t, len("description"), binary.LittleEndian.Uint32(data[9:13]))
	})
	t.Run("well_known_field", func(t *testing.T) {
		ix := NewUpdateMetadataFieldInstruction(testMint, testAuthority, "uri", "ipfs://new")
		data, err := ix.Data()
		require.NoError(t, err)
		assert.EqualValues(t, fieldURI, data[8])
		assert.EqualValues(t, len("ipfs://new"), binary.LittleEndian.Uint32(data[9:13]))
	})
}

func TestNewUpdateMetadataAuthorityInstruction(t *testing.T) {
	t.Run("revoke", func(t *testing.T) {
		ix := NewUpdateMetadataAuthorityInstruction(testMint, testAuthority, solana.PublicKey{})
		data, err := ix.Data()
		require.NoError(t, err)
		require.Len(t, data, 8+32)
		assert.Equal(t, make([]byte, 32), data[8:], "zero pubkey removes the authority")
	})
	t.Run("transfer", func(t *testing.T) {
		ix := NewUpdateMetadataAuthorityInstruction(testMint, testAuthority, testOwner)
		data, err := ix.Data()
		require.NoError(t, err)
		assert.Equal(t, testOwner.Bytes(), data[8:])
	})
}

func TestNewSetAuthorityInstruction(t *testing.T) {
	ix := NewSetAuthorityInstruction(testMint, testAuthority, AuthorityMintTokens, solana.PublicKey{})
	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 1+1+1)
	assert.EqualValues(t, setAuthorityInstruction, data[0])
	assert.EqualValues(t, AuthorityMintTokens, data[1])
	assert.EqualValues(t, 0, data[2], "new authority absent revokes")
}

func TestNewMintToInstruction(t *testing.T) {
	ix := NewMintToInstruction(testMint, testOwner, testAuthority, 1_000_000_000)
	data, err := ix.Data()
	require.NoError(t, err)
	require.Len(t, data, 1+8)
	assert.EqualValues(t, mintToInstruction, data[0])
	assert.EqualValues(t, 1_000_000_000, binary.LittleEndian.Uint64(data[1:]))

	accounts := ix.Accounts()
	require.Len(t, accounts, 3)
	assert.True(t, accounts[0].IsWritable)
	assert.True(t, accounts[1].IsWritable)
	assert.True(t, accounts[2].IsSigner)
}

func TestFindAssociatedTokenAddress(t *testing.T) {
	address, err := FindAssociatedTokenAddress(testOwner, testMint)
	require.NoError(t, err)
	assert.False(t, address.IsZero())

	// deterministic derivation
	again, err := FindAssociatedTokenAddress(testOwner, testMint)
	require.NoError(t, err)
	assert.Equal(t, address, again)

	other, err := FindAssociatedTokenAddress(testAuthority, testMint)
	require.NoError(t, err)
	assert.NotEqual(t, address, other)
}

func TestNewCreateAssociatedTokenAccountInstruction(t *testing.T) {
	ata, err := FindAssociatedTokenAddress(testOwner, testMint)
	require.NoError(t, err)
	ix := NewCreateAssociatedTokenAccountInstruction(testOwner, ata, testOwner, testMint)
	assert.Equal(t, AssociatedTokenProgramID, ix.ProgramID())

	accounts := ix.Accounts()
	require.Len(t, accounts, 6)
	assert.True(t, accounts[0].IsSigner, "payer signs")
	assert.True(t, accounts[0].IsWritable)
	assert.Equal(t, ata, accounts[1].PublicKey)
	assert.Equal(t, solana.SystemProgramID, accounts[4].PublicKey)
	assert.Equal(t, ProgramID, accounts[5].PublicKey)
}
