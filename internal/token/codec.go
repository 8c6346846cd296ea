package token

import (
	"crypto/subtle"
	"encoding/base64"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/blake2b"
)

const (
	// digestSize is the length of the keyed MAC appended to every token.
	digestSize = 16
	// payloadSize is the width of the big-endian payload integer.
	payloadSize = 8
	// timestampSize is the width of the big-endian issuance timestamp.
	timestampSize = 8

	keySize = 32
)

// ErrKeyTooShort indicates the configured secret does not carry enough entropy.
var ErrKeyTooShort = errors.New("token: secret key must be at least 32 bytes")

// Codec produces and verifies compact tamper-evident tokens from small
// integer payloads. Tokens are signed with a keyed BLAKE2b digest and
// encoded as unpadded base64url. A domain tag scopes every token to a
// single use case so a token minted for one purpose never verifies for
// another.
type Codec struct {
	key []byte
	now func() time.Time
}

// NewCodec builds a codec keyed with the first 32 bytes of secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) < keySize {
		return nil, ErrKeyTooShort
	}

	key := make([]byte, keySize)
	copy(key, secret[:keySize])

	return &Codec{key: key, now: time.Now}, nil
}

// NewCodecWithClock is like NewCodec but stamps and verifies timestamped
// tokens against the supplied clock.
func NewCodecWithClock(secret []byte, now func() time.Time) (*Codec, error) {
	codec, err := NewCodec(secret)
	if err != nil {
		return nil, err
	}
	codec.now = now

	return codec, nil
}

// Encode serializes payload as a fixed-width big-endian integer followed by
// a keyed digest over the payload and domain tag. The result never expires.
func (c *Codec) Encode(payload uint64, domainTag string) string {
	buf := make([]byte, payloadSize, payloadSize+digestSize)
	binary.BigEndian.PutUint64(buf, payload)
	buf = append(buf, c.mac(fmt.Sprintf("%d:%s", payload, domainTag))...)

	return base64.RawURLEncoding.EncodeToString(buf)
}

// EncodeWithTimestamp behaves like Encode but embeds the current Unix time
// between the payload and the digest, allowing verifiers to enforce a
// maximum token age.
func (c *Codec) EncodeWithTimestamp(payload uint64, domainTag string) string {
	timestamp := uint64(c.now().Unix())

	buf := make([]byte, payloadSize+timestampSize, payloadSize+timestampSize+digestSize)
	binary.BigEndian.PutUint64(buf[:payloadSize], payload)
	binary.BigEndian.PutUint64(buf[payloadSize:], timestamp)
	buf = append(buf, c.mac(fmt.Sprintf("%d:%d:%s", payload, timestamp, domainTag))...)

	return base64.RawURLEncoding.EncodeToString(buf)
}

// Decode reverses Encode. Malformed base64, wrong length and digest
// mismatch all collapse to a single not-ok result so callers cannot be
// used as a verification oracle.
func (c *Codec) Decode(encoded, domainTag string) (uint64, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(raw) != payloadSize+digestSize {
		return 0, false
	}

	payload := binary.BigEndian.Uint64(raw[:payloadSize])
	expected := c.mac(fmt.Sprintf("%d:%s", payload, domainTag))
	if subtle.ConstantTimeCompare(raw[payloadSize:], expected) != 1 {
		return 0, false
	}

	return payload, true
}

// DecodeWithMaxAge reverses EncodeWithTimestamp. When maxAge is positive the
// token additionally fails once its embedded timestamp is strictly older
// than maxAge; a token checked at exactly issuance+maxAge still verifies.
// A non-positive maxAge disables the age check.
func (c *Codec) DecodeWithMaxAge(encoded, domainTag string, maxAge time.Duration) (uint64, bool) {
	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(raw) != payloadSize+timestampSize+digestSize {
		return 0, false
	}

	payload := binary.BigEndian.Uint64(raw[:payloadSize])
	timestamp := binary.BigEndian.Uint64(raw[payloadSize : payloadSize+timestampSize])

	expected := c.mac(fmt.Sprintf("%d:%d:%s", payload, timestamp, domainTag))
	if subtle.ConstantTimeCompare(raw[payloadSize+timestampSize:], expected) != 1 {
		return 0, false
	}

	if maxAge > 0 {
		age := c.now().Unix() - int64(timestamp)
		if age > int64(maxAge/time.Second) {
			return 0, false
		}
	}

	return payload, true
}

func (c *Codec) mac(message string) []byte {
	hasher, err := blake2b.New(digestSize, c.key)
	if err != nil {
		// The key length is validated in NewCodec; blake2b only rejects
		// keys longer than 64 bytes.
		panic(err)
	}

	hasher.Write([]byte(message))

	return hasher.Sum(nil)
}
