// Package surveytoken implements the entry-link token formats.
//
// Current format: psv1.<iv>.<ciphertext>.<mac>, each part unpadded base64url.
// The key is SHA-256 of the configured secret; the payload {"s","v","c"} is
// AES-256-CBC/PKCS#7 encrypted under a random IV and HMAC-SHA256 is taken over IV‖ciphertext.
// Tokens carry no expiry.
package surveytoken

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/sngm3741/panel-router/api/internal/config"
	"github.com/sngm3741/panel-router/api/internal/panel/domain"
)

// Prefix marks the encrypted token format.
const Prefix = "psv1"

// ErrInvalidToken is returned for every decode failure; callers must not learn which check failed.
var ErrInvalidToken = errors.New("invalid survey token")

var encoding = base64.RawURLEncoding.Strict()

type compactPayload struct {
	S string `json:"s"`
	V string `json:"v"`
	C string `json:"c"`
}

// Codec encodes and decodes survey tokens.
type Codec struct {
	key          []byte
	legacySecret []byte
	random       io.Reader
}

// NewCodec derives the token key from cfg.Secret. The legacy path verifies against
// cfg.LegacySecret, or cfg.Secret when no legacy secret is configured.
func NewCodec(cfg config.SurveyTokenConfig) (*Codec, error) {
	secret := cfg.Secret
	if secret == "" {
		return nil, errors.New("survey token secret is empty")
	}
	legacy := cfg.LegacySecret
	if legacy == "" {
		legacy = secret
	}
	sum := sha256.Sum256([]byte(secret))
	return &Codec{
		key:          sum[:],
		legacySecret: []byte(legacy),
		random:       rand.Reader,
	}, nil
}

// Encode seals the triple into a psv1 token. Every call uses a fresh IV.
func (c *Codec) Encode(token domain.SurveyToken) (string, error) {
	if !token.Complete() {
		return "", errors.New("survey token: survey_id, vendor_id and country are required")
	}
	plaintext, err := json.Marshal(compactPayload{S: token.SurveyID, V: token.VendorID, C: token.Country})
	if err != nil {
		return "", err
	}

	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(c.random, iv); err != nil {
		return "", fmt.Errorf("survey token: read iv: %w", err)
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return "", err
	}
	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	mac := c.mac(iv, ciphertext)
	return strings.Join([]string{
		Prefix,
		encoding.EncodeToString(iv),
		encoding.EncodeToString(ciphertext),
		encoding.EncodeToString(mac),
	}, "."), nil
}

// Decode accepts psv1 tokens and falls back to the legacy signed format for anything else.
func (c *Codec) Decode(raw string) (domain.SurveyToken, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return domain.SurveyToken{}, ErrInvalidToken
	}
	if strings.HasPrefix(raw, Prefix+".") {
		return c.decodeSealed(raw)
	}
	return c.decodeLegacy(raw)
}

func (c *Codec) decodeSealed(raw string) (domain.SurveyToken, error) {
	parts := strings.Split(raw, ".")
	if len(parts) != 4 || parts[0] != Prefix {
		return domain.SurveyToken{}, ErrInvalidToken
	}

	iv, err := decodePart(parts[1])
	if err != nil || len(iv) != aes.BlockSize {
		return domain.SurveyToken{}, ErrInvalidToken
	}
	ciphertext, err := decodePart(parts[2])
	if err != nil || len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return domain.SurveyToken{}, ErrInvalidToken
	}
	providedMAC, err := decodePart(parts[3])
	if err != nil {
		return domain.SurveyToken{}, ErrInvalidToken
	}

	if !hmac.Equal(providedMAC, c.mac(iv, ciphertext)) {
		return domain.SurveyToken{}, ErrInvalidToken
	}

	block, err := aes.NewCipher(c.key)
	if err != nil {
		return domain.SurveyToken{}, ErrInvalidToken
	}
	padded := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(padded, ciphertext)
	plaintext, err := pkcs7Unpad(padded, aes.BlockSize)
	if err != nil || len(plaintext) == 0 {
		return domain.SurveyToken{}, ErrInvalidToken
	}

	var payload compactPayload
	if err := json.Unmarshal(plaintext, &payload); err != nil {
		return domain.SurveyToken{}, ErrInvalidToken
	}
	token := domain.SurveyToken{SurveyID: payload.S, VendorID: payload.V, Country: payload.C}
	if !token.Complete() {
		return domain.SurveyToken{}, ErrInvalidToken
	}
	return token, nil
}

func (c *Codec) mac(iv, ciphertext []byte) []byte {
	h := hmac.New(sha256.New, c.key)
	h.Write(iv)
	h.Write(ciphertext)
	return h.Sum(nil)
}

// decodePart tolerates trailing '=' so hand-padded links still decode.
func decodePart(part string) ([]byte, error) {
	return encoding.DecodeString(strings.TrimRight(part, "="))
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 || len(data)%blockSize != 0 {
		return nil, ErrInvalidToken
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, ErrInvalidToken
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, ErrInvalidToken
		}
	}
	return data[:len(data)-n], nil
}
