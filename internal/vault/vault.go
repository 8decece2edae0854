// Package vault encrypts card fields before they reach the database.
//
// Ciphertext is a base64 string wrapping
//
//	version (1) | key id (4) | nonce (24) | XChaCha20-Poly1305 ciphertext+tag
//
// The version byte and key id are authenticated as additional data. The key
// id is derived from the key itself, so a Keyring configured with older keys
// can still open values sealed before a rotation while new values are always
// sealed with the primary key.
package vault

import (
	"bytes"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/chacha20poly1305"
)

// KeySize is the length in bytes of every vault key.
const KeySize = chacha20poly1305.KeySize

const (
	envelopeVersion byte = 0x01
	keyIDSize            = 4
	headerSize           = 1 + keyIDSize
	overhead             = headerSize + chacha20poly1305.NonceSizeX + chacha20poly1305.Overhead
)

var (
	ErrMalformed  = errors.New("vault: malformed ciphertext")
	ErrUnknownKey = errors.New("vault: ciphertext sealed with an unknown key")
)

type key struct {
	id   [keyIDSize]byte
	aead interface {
		Seal(dst, nonce, plaintext, additionalData []byte) []byte
		Open(dst, nonce, ciphertext, additionalData []byte) ([]byte, error)
	}
}

// Keyring seals with its primary key and opens with any configured key.
// It is safe for concurrent use.
type Keyring struct {
	primary key
	keys    []key
}

// NewKeyring builds a keyring from raw 32-byte keys. The first key is the
// primary; the rest are accepted for decryption only.
func NewKeyring(primary []byte, previous ...[]byte) (*Keyring, error) {
	p, err := newKey(primary)
	if err != nil {
		return nil, fmt.Errorf("primary key: %w", err)
	}
	k := &Keyring{primary: p, keys: []key{p}}
	for i, raw := range previous {
		prev, err := newKey(raw)
		if err != nil {
			return nil, fmt.Errorf("previous key %d: %w", i, err)
		}
		k.keys = append(k.keys, prev)
	}
	return k, nil
}

// NewKeyringFromBase64 decodes standard base64 keys, as they appear in
// configuration, and builds a keyring.
func NewKeyringFromBase64(primary string, previous ...string) (*Keyring, error) {
	raw, err := decodeKey(primary)
	if err != nil {
		return nil, fmt.Errorf("primary key: %w", err)
	}
	prev := make([][]byte, 0, len(previous))
	for i, p := range previous {
		b, err := decodeKey(p)
		if err != nil {
			return nil, fmt.Errorf("previous key %d: %w", i, err)
		}
		prev = append(prev, b)
	}
	return NewKeyring(raw, prev...)
}

// GenerateKey returns a fresh random key encoded in base64, for operators
// provisioning CARD_VAULT_KEY.
func GenerateKey() (string, error) {
	b := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", fmt.Errorf("generate key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b), nil
}

func (k *Keyring) Encrypt(plaintext string) (string, error) {
	var header [headerSize]byte
	header[0] = envelopeVersion
	copy(header[1:], k.primary.id[:])

	var nonce [chacha20poly1305.NonceSizeX]byte
	if _, err := io.ReadFull(rand.Reader, nonce[:]); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	out := make([]byte, 0, overhead+len(plaintext))
	out = append(out, header[:]...)
	out = append(out, nonce[:]...)
	out = k.primary.aead.Seal(out, nonce[:], []byte(plaintext), header[:])
	return base64.StdEncoding.EncodeToString(out), nil
}

func (k *Keyring) Decrypt(ciphertext string) (string, error) {
	blob, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if len(blob) < overhead {
		return "", fmt.Errorf("%w: %d bytes", ErrMalformed, len(blob))
	}
	if blob[0] != envelopeVersion {
		return "", fmt.Errorf("%w: version %d", ErrMalformed, blob[0])
	}

	header := blob[:headerSize]
	for _, candidate := range k.keys {
		if !bytes.Equal(candidate.id[:], header[1:]) {
			continue
		}
		nonce := blob[headerSize : headerSize+chacha20poly1305.NonceSizeX]
		plaintext, err := candidate.aead.Open(nil, nonce, blob[headerSize+chacha20poly1305.NonceSizeX:], header)
		if err != nil {
			return "", fmt.Errorf("open ciphertext: %w", err)
		}
		return string(plaintext), nil
	}
	return "", ErrUnknownKey
}

func newKey(raw []byte) (key, error) {
	aead, err := chacha20poly1305.NewX(raw)
	if err != nil {
		return key{}, err
	}
	var k key
	k.aead = aead
	sum := blake3.Sum256(raw)
	copy(k.id[:], sum[:keyIDSize])
	return k, nil
}

func decodeKey(s string) ([]byte, error) {
	b, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode base64: %w", err)
	}
	if len(b) != KeySize {
		return nil, fmt.Errorf("key is %d bytes, want %d", len(b), KeySize)
	}
	return b, nil
}
