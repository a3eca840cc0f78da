package auth

import (
	"context"
	"crypto/ecdsa"
	"crypto/ed25519"
	"crypto/elliptic"
	"crypto/rsa"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/openleadr/openleadr-go/internal/config"
)

// jwk is one entry of a JWKS document. Only the component fields for the
// configured key family are read.
type jwk struct {
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Kid string `json:"kid"`
	Use string `json:"use"`

	// RSA
	N string `json:"n"`
	E string `json:"e"`

	// EC and OKP; X doubles as the Ed25519 public key
	Crv string `json:"crv"`
	X   string `json:"x"`
	Y   string `json:"y"`
}

type jwks struct {
	Keys []jwk `json:"keys"`
}

// JWKSCache is the process-wide verification key cache. Keys are fetched
// lazily and refreshed on signature-validation miss with at most one fetch
// in flight; concurrent callers await the same result.
type JWKSCache struct {
	url     string
	keyType config.KeyType
	client  *http.Client

	group singleflight.Group

	mu   sync.RWMutex
	keys []any
}

// NewJWKSCache builds a cache for the configured key-set URL.
func NewJWKSCache(url string, keyType config.KeyType) *JWKSCache {
	return &JWKSCache{
		url:     url,
		keyType: keyType,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// Keys returns the cached verification keys, fetching on first use.
func (c *JWKSCache) Keys(ctx context.Context) ([]any, error) {
	c.mu.RLock()
	keys := c.keys
	c.mu.RUnlock()
	if len(keys) > 0 {
		return keys, nil
	}
	return c.Refresh(ctx)
}

// Refresh re-fetches the key set. Concurrent refreshes collapse into a
// single request.
func (c *JWKSCache) Refresh(ctx context.Context) ([]any, error) {
	v, err, _ := c.group.Do("jwks", func() (any, error) {
		keys, err := c.fetch(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.keys = keys
		c.mu.Unlock()
		return keys, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]any), nil
}

func (c *JWKSCache) fetch(ctx context.Context) ([]any, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("build JWKS request: %w", err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch JWKS from %s: %w", c.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch JWKS from %s: status %d", c.url, resp.StatusCode)
	}

	var doc jwks
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode JWKS document: %w", err)
	}

	var keys []any
	for _, k := range doc.Keys {
		key, err := c.parseKey(k)
		if err != nil {
			// Skip entries of other families or with bad components.
			continue
		}
		keys = append(keys, key)
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no usable %s keys at %s", c.keyType, c.url)
	}
	return keys, nil
}

func (c *JWKSCache) parseKey(k jwk) (any, error) {
	switch c.keyType {
	case config.KeyRSA:
		if k.Kty != "RSA" {
			return nil, fmt.Errorf("not an RSA key")
		}
		return parseRSAKey(k)
	case config.KeyEC:
		if k.Kty != "EC" {
			return nil, fmt.Errorf("not an EC key")
		}
		return parseECKey(k)
	case config.KeyED:
		if k.Kty != "OKP" || k.Crv != "Ed25519" {
			return nil, fmt.Errorf("not an Ed25519 key")
		}
		return parseEdKey(k)
	default:
		return nil, fmt.Errorf("key type %s has no JWKS", c.keyType)
	}
}

func parseRSAKey(k jwk) (*rsa.PublicKey, error) {
	n, err := base64.RawURLEncoding.DecodeString(k.N)
	if err != nil {
		return nil, fmt.Errorf("decode modulus: %w", err)
	}
	e, err := base64.RawURLEncoding.DecodeString(k.E)
	if err != nil {
		return nil, fmt.Errorf("decode exponent: %w", err)
	}
	return &rsa.PublicKey{
		N: new(big.Int).SetBytes(n),
		E: int(new(big.Int).SetBytes(e).Int64()),
	}, nil
}

func parseECKey(k jwk) (*ecdsa.PublicKey, error) {
	var curve elliptic.Curve
	switch k.Crv {
	case "P-256":
		curve = elliptic.P256()
	case "P-384":
		curve = elliptic.P384()
	case "P-521":
		curve = elliptic.P521()
	default:
		return nil, fmt.Errorf("unsupported curve %q", k.Crv)
	}
	x, err := base64.RawURLEncoding.DecodeString(k.X)
	if err != nil {
		return nil, fmt.Errorf("decode x: %w", err)
	}
	y, err := base64.RawURLEncoding.DecodeString(k.Y)
	if err != nil {
		return nil, fmt.Errorf("decode y: %w", err)
	}
	return &ecdsa.PublicKey{
		Curve: curve,
		X:     new(big.Int).SetBytes(x),
		Y:     new(big.Int).SetBytes(y),
	}, nil
}

func parseEdKey(k jwk) (ed25519.PublicKey, error) {
	x, err := base64.RawURLEncoding.DecodeString(k.X)
	if err != nil {
		return nil, fmt.Errorf("decode x: %w", err)
	}
	if len(x) != ed25519.PublicKeySize {
		return nil, fmt.Errorf("ed25519 key has %d bytes", len(x))
	}
	return ed25519.PublicKey(x), nil
}
