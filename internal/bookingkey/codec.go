// Package bookingkey seals a chosen slot's material terms into an opaque
// bearer token. The token commits specialist, time bounds, price, and
// priority between browse and book; the redemption step trusts the
// decoded payload without re-querying any calendar and must never
// re-price it.
package bookingkey

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/hkdf"
)

// ErrInvalidKey covers every way a token can fail at redemption: bad
// encoding, failed decryption, tamper, or a structurally invalid payload.
// Callers get one uniform rejection and never a partially trusted key.
var ErrInvalidKey = errors.New("bookingkey: invalid key")

const (
	saltSize   = 16
	keySize    = 32
	timeLayout = time.RFC3339
)

// Key is the canonical payload sealed into a token. Immutable once
// issued; its price and time bounds are authoritative for its lifetime.
type Key struct {
	Specialist *uuid.UUID
	Start      time.Time
	End        time.Time
	Price      int
	Priority   bool
}

type wireKey struct {
	Specialist string `json:"specialist,omitempty"`
	Start      string `json:"start"`
	End        string `json:"end"`
	Price      int    `json:"price"`
	Priority   bool   `json:"priority,omitempty"`
}

// Codec encrypts and decrypts booking keys with a shared symmetric
// secret. Each token gets a fresh random salt and nonce, so identical
// payloads never produce identical tokens.
type Codec struct {
	secret []byte
}

// NewCodec builds a codec from the externally managed secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("bookingkey: secret required")
	}
	return &Codec{secret: secret}, nil
}

// Encode seals the key into a URL-safe opaque token.
func (c *Codec) Encode(key Key) (string, error) {
	wire := wireKey{
		Start:    key.Start.Format(timeLayout),
		End:      key.End.Format(timeLayout),
		Price:    key.Price,
		Priority: key.Priority,
	}
	if key.Specialist != nil {
		wire.Specialist = key.Specialist.String()
	}
	plaintext, err := json.Marshal(wire)
	if err != nil {
		return "", fmt.Errorf("bookingkey: marshal payload: %w", err)
	}
	return c.seal(plaintext)
}

func (c *Codec) seal(plaintext []byte) (string, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", fmt.Errorf("bookingkey: salt: %w", err)
	}
	aead, err := c.aead(salt)
	if err != nil {
		return "", err
	}
	nonce := make([]byte, aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("bookingkey: nonce: %w", err)
	}
	ct := aead.Seal(nil, nonce, plaintext, nil)

	buf := make([]byte, 0, len(salt)+len(nonce)+len(ct))
	buf = append(buf, salt...)
	buf = append(buf, nonce...)
	buf = append(buf, ct...)
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Decode decrypts and validates a token. Any failure mode returns
// ErrInvalidKey; the payload is never auto-repaired.
func (c *Codec) Decode(token string) (*Key, error) {
	buf, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidKey
	}
	if len(buf) < saltSize {
		return nil, ErrInvalidKey
	}
	salt := buf[:saltSize]
	aead, err := c.aead(salt)
	if err != nil {
		return nil, ErrInvalidKey
	}
	if len(buf) < saltSize+aead.NonceSize() {
		return nil, ErrInvalidKey
	}
	nonce := buf[saltSize : saltSize+aead.NonceSize()]
	plaintext, err := aead.Open(nil, nonce, buf[saltSize+aead.NonceSize():], nil)
	if err != nil {
		return nil, ErrInvalidKey
	}

	var wire wireKey
	if err := json.Unmarshal(plaintext, &wire); err != nil {
		return nil, ErrInvalidKey
	}
	return validate(wire)
}

func validate(wire wireKey) (*Key, error) {
	start, err := time.Parse(timeLayout, wire.Start)
	if err != nil {
		return nil, ErrInvalidKey
	}
	end, err := time.Parse(timeLayout, wire.End)
	if err != nil {
		return nil, ErrInvalidKey
	}
	if !start.Before(end) || wire.Price < 0 {
		return nil, ErrInvalidKey
	}
	key := &Key{Start: start, End: end, Price: wire.Price, Priority: wire.Priority}
	if wire.Specialist != "" {
		id, err := uuid.Parse(wire.Specialist)
		if err != nil {
			return nil, ErrInvalidKey
		}
		key.Specialist = &id
	}
	return key, nil
}

// aead derives a per-token AES-256-GCM cipher from the secret and salt.
func (c *Codec) aead(salt []byte) (cipher.AEAD, error) {
	derived := make([]byte, keySize)
	if _, err := io.ReadFull(hkdf.New(sha256.New, c.secret, salt, nil), derived); err != nil {
		return nil, fmt.Errorf("bookingkey: derive key: %w", err)
	}
	block, err := aes.NewCipher(derived)
	if err != nil {
		return nil, fmt.Errorf("bookingkey: cipher: %w", err)
	}
	return cipher.NewGCM(block)
}
