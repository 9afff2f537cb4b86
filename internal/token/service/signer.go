package service

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/hkdf"

	tokenDomain "github.com/allisson/authtokens/internal/token/domain"
)

// MinSecretLength is the shortest signing secret accepted by NewSigner.
const MinSecretLength = 16

// signerInfoPrefix versions the HKDF info so the derivation can change without collisions.
const signerInfoPrefix = "authtokens-signer-v1:"

// SignerConfig is the immutable input of NewSigner.
type SignerConfig struct {
	Secret []byte
}

// Signer is an HMAC-SHA256 ReferenceSigner. The key for each namespace is derived from the
// secret with HKDF-SHA256, so namespaces never share a MAC key.
type Signer struct {
	secret []byte
}

// NewSigner copies the secret so later changes by the caller have no effect.
func NewSigner(cfg SignerConfig) (*Signer, error) {
	if len(cfg.Secret) < MinSecretLength {
		return nil, tokenDomain.ErrSigningSecretTooShort
	}
	secret := make([]byte, len(cfg.Secret))
	copy(secret, cfg.Secret)
	return &Signer{secret: secret}, nil
}

// deriveKey returns the 32-byte MAC key for namespace.
func (s *Signer) deriveKey(namespace string) []byte {
	reader := hkdf.New(sha256.New, s.secret, nil, []byte(signerInfoPrefix+namespace))
	key := make([]byte, 32)
	if _, err := io.ReadFull(reader, key); err != nil {
		// HKDF-SHA256 can produce 255*32 bytes; 32 never fails.
		panic(err)
	}
	return key
}

// mac computes HMAC-SHA256 over the length-prefixed namespace and the big-endian id.
func (s *Signer) mac(namespace string, id int64) []byte {
	key := s.deriveKey(namespace)
	defer zero(key)

	buf := make([]byte, 0, 4+len(namespace)+8)
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(namespace)))
	buf = append(buf, namespace...)
	buf = binary.BigEndian.AppendUint64(buf, uint64(id))

	h := hmac.New(sha256.New, key)
	h.Write(buf)
	return h.Sum(nil)
}

// Sign returns base64url(decimal id) + "." + base64url(mac), unpadded.
func (s *Signer) Sign(namespace string, id int64) string {
	payload := base64.RawURLEncoding.EncodeToString([]byte(strconv.FormatInt(id, 10)))
	sig := base64.RawURLEncoding.EncodeToString(s.mac(namespace, id))
	return payload + "." + sig
}

// Verify parses and authenticates a value produced by Sign.
func (s *Signer) Verify(namespace string, value string) (int64, error) {
	payload, sig, found := strings.Cut(value, ".")
	if !found || payload == "" || sig == "" {
		return 0, tokenDomain.ErrSignatureInvalid
	}

	rawPayload, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return 0, tokenDomain.ErrSignatureInvalid
	}
	rawSig, err := base64.RawURLEncoding.DecodeString(sig)
	if err != nil {
		return 0, tokenDomain.ErrSignatureInvalid
	}

	id, err := strconv.ParseInt(string(rawPayload), 10, 64)
	if err != nil || strconv.FormatInt(id, 10) != string(rawPayload) {
		return 0, tokenDomain.ErrSignatureInvalid
	}

	if !hmac.Equal(rawSig, s.mac(namespace, id)) {
		return 0, tokenDomain.ErrSignatureInvalid
	}
	return id, nil
}

// zero overwrites key material once it is no longer needed.
func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
