package fingerprint

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestContext(t *testing.T, headers map[string]string) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c, rec
}

func TestResolve(t *testing.T) {
	t.Run("Explicit value wins and is mirrored to the cookie", func(t *testing.T) {
		c, rec := newTestContext(t, map[string]string{"Cookie": CookieName + "=from-cookie"})

		fp, ok := Resolve(c, "from-client-store")
		require.True(t, ok)
		assert.Equal(t, "from-client-store", fp)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), CookieName+"=from-client-store")
	})

	t.Run("Cookie repairs a cleared client store", func(t *testing.T) {
		c, rec := newTestContext(t, map[string]string{"Cookie": CookieName + "=surviving-copy"})

		fp, ok := Resolve(c, "")
		require.True(t, ok)
		assert.Equal(t, "surviving-copy", fp)
		assert.Contains(t, rec.Header().Get("Set-Cookie"), CookieName+"=surviving-copy")
	})

	t.Run("No value anywhere", func(t *testing.T) {
		c, rec := newTestContext(t, nil)

		_, ok := Resolve(c, "")
		assert.False(t, ok)
		assert.Empty(t, rec.Header().Get("Set-Cookie"))
	})
}

func TestMint(t *testing.T) {
	t.Run("Produces a prefixed value and persists it", func(t *testing.T) {
		c, rec := newTestContext(t, map[string]string{
			"User-Agent":      "test-agent",
			"Accept-Language": "en-US",
		})

		fp := Mint(c)
		assert.True(t, strings.HasPrefix(fp, "fp_"))
		assert.Contains(t, rec.Header().Get("Set-Cookie"), CookieName+"=")
	})

	t.Run("Always produces a value even without signals", func(t *testing.T) {
		c, _ := newTestContext(t, nil)

		fp := Mint(c)
		assert.NotEmpty(t, fp)
		assert.LessOrEqual(t, len(fp), MaxLength)
	})
}
