package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
)

// PKCEChallengeMethodS256 is the only challenge method the Google sign-in
// flow sends; plain verifiers are never offered.
const PKCEChallengeMethodS256 = "S256"

// PKCEPair binds a code verifier to its S256 challenge. The challenge goes
// into the authorization URL; the verifier stays local until the token
// exchange.
type PKCEPair struct {
	Verifier  string
	Challenge string
}

// NewPKCEPair mints a verifier from 32 random bytes, base64url-encoded
// without padding, which lands inside the RFC 7636 length bounds.
func NewPKCEPair() (PKCEPair, error) {
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return PKCEPair{}, fmt.Errorf("generate pkce verifier: %w", err)
	}
	verifier := base64.RawURLEncoding.EncodeToString(secret)

	digest := sha256.Sum256([]byte(verifier))
	return PKCEPair{
		Verifier:  verifier,
		Challenge: base64.RawURLEncoding.EncodeToString(digest[:]),
	}, nil
}
