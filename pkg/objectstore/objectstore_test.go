package objectstore

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSigner(t *testing.T) *Signer {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	pemKey := pem.EncodeToMemory(&pem.Block{Type: "RSA PRIVATE KEY", Bytes: x509.MarshalPKCS1PrivateKey(key)})

	cfg := Config{
		Bucket:     "storefront-test",
		AccessID:   "signer@storefront.iam.gserviceaccount.com",
		PrivateKey: string(pemKey),
	}
	client, err := NewClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	signer, err := NewSigner(client, cfg)
	require.NoError(t, err)
	return signer
}

func TestSigner_UploadURL(t *testing.T) {
	signer := testSigner(t)

	raw, err := signer.UploadURL("products/abc", "image/png")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/storefront-test/products/abc", u.Path)
	assert.Equal(t, "GOOG4-RSA-SHA256", u.Query().Get("X-Goog-Algorithm"))
	assert.Equal(t, "900", u.Query().Get("X-Goog-Expires"))
	assert.Contains(t, u.Query().Get("X-Goog-SignedHeaders"), "content-type")
}

func TestSigner_DownloadURL(t *testing.T) {
	signer := testSigner(t)

	raw, err := signer.DownloadURL("products/abc")
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/storefront-test/products/abc", u.Path)
	assert.NotEmpty(t, u.Query().Get("X-Goog-Signature"))
}

func TestNewSigner_RequiresCredentials(t *testing.T) {
	_, err := NewSigner(nil, Config{Bucket: "b"})
	assert.Error(t, err)
}

func TestCORSRules(t *testing.T) {
	rules := CORSRules([]string{"http://localhost:5173"})

	require.Len(t, rules, 1)
	assert.Equal(t, []string{"GET", "PUT", "HEAD", "DELETE"}, rules[0].Methods)
	assert.Equal(t, 600*time.Second, rules[0].MaxAge)
	assert.Contains(t, rules[0].ResponseHeaders, "ETag")
}
