// AngelaMos | 2026
// keys.go

package auth

import (
	"crypto"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	_ "crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/lestrrat-go/jwx/v3/jwa"
	"github.com/lestrrat-go/jwx/v3/jwk"

	"github.com/carterperez-dev/templates/job-board/internal/config"
)

// signingKeys is the ES256 pair tokens are signed and verified with, plus the
// public half published as a JWKS.
type signingKeys struct {
	private jwk.Key
	public  jwk.Key
	jwks    jwk.Set
	kid     string
}

func loadSigningKeys(cfg config.JWTConfig) (*signingKeys, error) {
	if cfg.GenerateKeys {
		if err := generateIfMissing(cfg.PrivateKeyPath, cfg.PublicKeyPath); err != nil {
			return nil, err
		}
	}

	private, err := readPEMKey(cfg.PrivateKeyPath)
	if err != nil {
		return nil, fmt.Errorf("private key: %w", err)
	}

	kid, err := thumbprintKeyID(private)
	if err != nil {
		return nil, err
	}

	if err := matchPublicKeyFile(cfg.PublicKeyPath, kid); err != nil {
		return nil, err
	}

	if err := private.Set(jwk.AlgorithmKey, jwa.ES256()); err != nil {
		return nil, fmt.Errorf("set algorithm: %w", err)
	}
	if err := private.Set(jwk.KeyIDKey, kid); err != nil {
		return nil, fmt.Errorf("set key id: %w", err)
	}

	public, err := private.PublicKey()
	if err != nil {
		return nil, fmt.Errorf("derive public key: %w", err)
	}
	if err := public.Set(jwk.KeyUsageKey, "sig"); err != nil {
		return nil, fmt.Errorf("set key usage: %w", err)
	}

	set := jwk.NewSet()
	if err := set.AddKey(public); err != nil {
		return nil, fmt.Errorf("build jwks: %w", err)
	}

	return &signingKeys{private: private, public: public, jwks: set, kid: kid}, nil
}

func readPEMKey(path string) (jwk.Key, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	key, err := jwk.ParseKey(raw, jwk.WithPEM(true))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return key, nil
}

// matchPublicKeyFile rejects a public key on disk that belongs to another
// pair. A missing file is fine: the public half is derived from the private.
func matchPublicKeyFile(path, kid string) error {
	if path == "" {
		return nil
	}
	public, err := readPEMKey(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("public key: %w", err)
	}

	publicKID, err := thumbprintKeyID(public)
	if err != nil {
		return err
	}
	if publicKID != kid {
		return fmt.Errorf("public key %s does not match the private key", path)
	}
	return nil
}

func generateIfMissing(privatePath, publicPath string) error {
	_, err := os.Stat(privatePath)
	switch {
	case err == nil:
		return nil
	case !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("stat private key: %w", err)
	}

	for _, dir := range []string{filepath.Dir(privatePath), filepath.Dir(publicPath)} {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create key dir: %w", err)
		}
	}
	return GenerateKeyPair(privatePath, publicPath)
}

// GenerateKeyPair writes a fresh P-256 key pair as PEM files.
func GenerateKeyPair(privatePath, publicPath string) error {
	raw, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		return fmt.Errorf("generate key: %w", err)
	}

	private, err := jwk.Import(raw)
	if err != nil {
		return fmt.Errorf("import key: %w", err)
	}
	public, err := private.PublicKey()
	if err != nil {
		return fmt.Errorf("derive public key: %w", err)
	}

	files := []struct {
		path string
		key  jwk.Key
		mode os.FileMode
	}{
		{privatePath, private, 0o600},
		{publicPath, public, 0o644},
	}
	for _, f := range files {
		encoded, err := jwk.Pem(f.key)
		if err != nil {
			return fmt.Errorf("encode %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, encoded, f.mode); err != nil {
			return fmt.Errorf("write %s: %w", f.path, err)
		}
	}
	return nil
}

// thumbprintKeyID derives the kid from the key material, so it is stable
// across restarts and identical for both halves of a pair.
func thumbprintKeyID(key jwk.Key) (string, error) {
	sum, err := key.Thumbprint(crypto.SHA256)
	if err != nil {
		return "", fmt.Errorf("compute key thumbprint: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(sum)[:16], nil
}
