package metadata

import (
	"regexp"
	"strings"
)

// ContentRef is a normalized content-addressed reference: the hash
// plus an optional subpath below it.
type ContentRef struct {
	Hash string
	Path string
}

// GatewayURL renders the reference against a gateway base URL.
func (r ContentRef) GatewayURL(base string) string {
	u := strings.TrimSuffix(base, "/") + "/ipfs/" + r.Hash
	if r.Path != "" {
		u += "/" + r.Path
	}
	return u
}

// NormalizeURI reduces any of the accepted URI forms to a ContentRef:
// a raw hash ("Qm…" or "bafy…"), a scheme form ("ipfs://Qm…/x.json"),
// or a gateway URL ("https://gw.example/ipfs/Qm…/x.json"). ok is false
// when no content hash can be found.
func NormalizeURI(uri string) (ContentRef, bool) {
	s := strings.TrimSpace(uri)
	if s == "" {
		return ContentRef{}, false
	}

	s = strings.TrimPrefix(s, "ipfs://")
	if i := strings.Index(s, "/ipfs/"); i >= 0 {
		s = s[i+len("/ipfs/"):]
	}

	hash, path, _ := strings.Cut(s, "/")
	if !looksLikeHash(hash) {
		return ContentRef{}, false
	}
	return ContentRef{Hash: hash, Path: path}, true
}

// hashPattern matches CIDv0 (Qm + base58) and the common lowercase
// base32 CIDv1 form.
var hashPattern = regexp.MustCompile(`^(Qm[1-9A-HJ-NP-Za-km-z]{44}|b[a-z2-7]{20,})$`)

func looksLikeHash(s string) bool {
	return hashPattern.MatchString(s)
}

var trailingID = regexp.MustCompile(`(\d+)\D*$`)

// numericID mines the last number out of a URI's subpath (the part
// below the content hash, e.g. "77.json"), used to synthesize a
// placeholder name when resolution fails entirely. The hash itself is
// never mined: CIDs almost always contain digits, and those say
// nothing about the token.
func numericID(uri string) (string, bool) {
	ref, ok := NormalizeURI(uri)
	if !ok || ref.Path == "" {
		return "", false
	}
	m := trailingID.FindStringSubmatch(ref.Path)
	if m == nil {
		return "", false
	}
	return m[1], true
}
