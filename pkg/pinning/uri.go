package pinning

import "strings"

const ipfsScheme = "ipfs://"

// URI builds an ipfs:// URI from a CID.
func URI(hash string) string {
	return ipfsScheme + hash
}

// URIHash extracts the CID from an ipfs:// URI or an IPFS gateway URL
// (any URL with an /ipfs/ path segment). Plain CIDs are returned
// unchanged.
func URIHash(uri string) string {
	if strings.HasPrefix(uri, ipfsScheme) {
		return strings.TrimPrefix(uri, ipfsScheme)
	}
	if _, after, found := strings.Cut(uri, "/ipfs/"); found {
		if i := strings.IndexAny(after, "?#"); i >= 0 {
			after = after[:i]
		}
		return strings.TrimSuffix(after, "/")
	}
	return uri
}

// ResolveURI rewrites an ipfs:// URI to an HTTP URL on the given gateway.
// Non-IPFS URIs are returned unchanged.
func ResolveURI(gateway, uri string) string {
	if !strings.HasPrefix(uri, ipfsScheme) {
		return uri
	}
	return gateway + strings.TrimPrefix(uri, ipfsScheme)
}
