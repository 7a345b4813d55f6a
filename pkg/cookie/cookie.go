package cookie

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrNotFound = errors.New("cookie: not found")
	ErrNoSecret = errors.New("cookie: secret required")
	ErrBadSig   = errors.New("cookie: invalid signature")
	ErrDecrypt  = errors.New("cookie: decryption failed")
)

// Mode selects how a cookie value is protected.
type Mode int

const (
	// Plain values are stored as is.
	Plain Mode = iota
	// Signed values are readable by the client but tamper evident (HMAC-SHA256).
	Signed
	// Encrypted values are sealed with AES-GCM.
	Encrypted
)

// MinSecretLength is the shortest secret accepted by WithSecret.
const MinSecretLength = 32

// Manager reads and writes cookies sharing the same attributes.
type Manager struct {
	secret   []byte
	template http.Cookie
}

// Option configures the Manager.
type Option func(*Manager)

// New creates a Manager. Cookies default to Path=/, HttpOnly and SameSite=Lax.
func New(opts ...Option) *Manager {
	m := &Manager{
		template: http.Cookie{Path: "/", HttpOnly: true, SameSite: http.SameSiteLaxMode},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// WithSecret enables Signed and Encrypted cookies.
// Secrets shorter than MinSecretLength are ignored.
func WithSecret(secret string) Option {
	return func(m *Manager) {
		if len(secret) >= MinSecretLength {
			m.secret = []byte(secret)
		}
	}
}

func WithDomain(domain string) Option {
	return func(m *Manager) { m.template.Domain = domain }
}

func WithPath(path string) Option {
	return func(m *Manager) {
		if path != "" {
			m.template.Path = path
		}
	}
}

func WithSecure(secure bool) Option {
	return func(m *Manager) { m.template.Secure = secure }
}

func WithHTTPOnly(httpOnly bool) Option {
	return func(m *Manager) { m.template.HttpOnly = httpOnly }
}

func WithSameSite(ss http.SameSite) Option {
	return func(m *Manager) { m.template.SameSite = ss }
}

// HasSecret reports whether Signed and Encrypted modes are available.
func (m *Manager) HasSecret() bool { return m.secret != nil }

// Read returns the value of cookie name decoded with mode.
func (m *Manager) Read(r *http.Request, name string, mode Mode) (string, error) {
	if mode != Plain && m.secret == nil {
		return "", ErrNoSecret
	}

	c, err := r.Cookie(name)
	if errors.Is(err, http.ErrNoCookie) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	switch mode {
	case Signed:
		return m.verify(c.Value)
	case Encrypted:
		return m.open(c.Value)
	default:
		return c.Value, nil
	}
}

// Write sets cookie name to value encoded with mode.
// maxAge follows http.Cookie: zero is a session cookie, negative deletes.
func (m *Manager) Write(w http.ResponseWriter, name, value string, maxAge int, mode Mode) error {
	if mode != Plain && m.secret == nil {
		return ErrNoSecret
	}

	switch mode {
	case Signed:
		value = m.sign(value)
	case Encrypted:
		sealed, err := m.seal(value)
		if err != nil {
			return err
		}
		value = sealed
	}

	http.SetCookie(w, m.cookie(name, value, maxAge))
	return nil
}

// Delete expires cookie name.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, m.cookie(name, "", -1))
}

func (m *Manager) cookie(name, value string, maxAge int) *http.Cookie {
	c := m.template
	c.Name, c.Value, c.MaxAge = name, value, maxAge
	return &c
}

func (m *Manager) mac(value []byte) []byte {
	h := hmac.New(sha256.New, m.secret)
	h.Write(value)
	return h.Sum(nil)
}

// sign encodes value as base64(value) "." base64(hmac).
func (m *Manager) sign(value string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(value)) + "." + enc.EncodeToString(m.mac([]byte(value)))
}

func (m *Manager) verify(raw string) (string, error) {
	encValue, encSig, ok := strings.Cut(raw, ".")
	if !ok {
		return "", ErrBadSig
	}

	value, err := base64.RawURLEncoding.DecodeString(encValue)
	if err != nil {
		return "", ErrBadSig
	}
	sig, err := base64.RawURLEncoding.DecodeString(encSig)
	if err != nil {
		return "", ErrBadSig
	}
	if !hmac.Equal(sig, m.mac(value)) {
		return "", ErrBadSig
	}
	return string(value), nil
}

func (m *Manager) aead() (cipher.AEAD, error) {
	key := sha256.Sum256(m.secret)
	block, err := aes.NewCipher(key[:])
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}

func (m *Manager) seal(value string) (string, error) {
	aead, err := m.aead()
	if err != nil {
		return "", err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(aead.Seal(nonce, nonce, []byte(value), nil)), nil
}

func (m *Manager) open(raw string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return "", ErrDecrypt
	}

	aead, err := m.aead()
	if err != nil {
		return "", ErrDecrypt
	}
	if len(data) < aead.NonceSize() {
		return "", ErrDecrypt
	}

	nonce, sealed := data[:aead.NonceSize()], data[aead.NonceSize():]
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", ErrDecrypt
	}
	return string(plain), nil
}
