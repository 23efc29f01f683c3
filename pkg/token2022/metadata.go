package token2022

import (
	"crypto/sha256"
	"encoding/binary"

	"github.com/gagliardetto/solana-go"
)

// KeyValue is one entry of the additional metadata list. Order is
// preserved because it is part of the on-chain layout.
type KeyValue struct {
	Key   string
	Value string
}

// Metadata is the content of the token metadata extension.
type Metadata struct {
	// UpdateAuthority may update the metadata. The zero value means no
	// authority is set.
	UpdateAuthority solana.PublicKey
	Mint            solana.PublicKey
	Name            string
	Symbol          string
	URI             string

	AdditionalMetadata []KeyValue
}

// Pack serializes the metadata in its borsh on-chain layout.
func (m Metadata) Pack() []byte {
	size := 32 + 32 + borshStringSize(m.Name) + borshStringSize(m.Symbol) + borshStringSize(m.URI) + 4
	for _, kv := range m.AdditionalMetadata {
		size += borshStringSize(kv.Key) + borshStringSize(kv.Value)
	}
	data := make([]byte, 0, size)
	data = append(data, m.UpdateAuthority.Bytes()...)
	data = append(data, m.Mint.Bytes()...)
	data = appendBorshString(data, m.Name)
	data = appendBorshString(data, m.Symbol)
	data = appendBorshString(data, m.URI)
	data = binary.LittleEndian.AppendUint32(data, uint32(len(m.AdditionalMetadata)))
	for _, kv := range m.AdditionalMetadata {
		data = appendBorshString(data, kv.Key)
		data = appendBorshString(data, kv.Value)
	}
	return data
}

func borshStringSize(s string) int {
	return 4 + len(s)
}

func appendBorshString(data []byte, s string) []byte {
	data = binary.LittleEndian.AppendUint32(data, uint32(len(s)))
	return append(data, s...)
}

// Token metadata interface instructions are dispatched by an 8-byte
// discriminator derived from a namespaced instruction name.
func metadataDiscriminator(name string) []byte {
	sum := sha256.Sum256([]byte("spl_token_metadata_interface:" + name))
	return sum[:8]
}

var (
	initializeMetadataDiscriminator      = metadataDiscriminator("initialize_account")
	updateMetadataFieldDiscriminator     = metadataDiscriminator("updating_field")
	removeMetadataKeyDiscriminator       = metadataDiscriminator("remove_key_ix")
	updateMetadataAuthorityDiscriminator = metadataDiscriminator("update_the_authority")
)

// Field enum of the update-field instruction. The three well-known
// fields are encoded as bare variants; anything else is a custom key.
const (
	fieldName   = 0
	fieldSymbol = 1
	fieldURI    = 2
	fieldKey    = 3
)

func appendFieldArg(data []byte, key string) []byte {
	switch key {
	case "name":
		return append(data, fieldName)
	case "symbol":
		return append(data, fieldSymbol)
	case "uri":
		return append(data, fieldURI)
	default:
		data = append(data, fieldKey)
		return appendBorshString(data, key)
	}
}
