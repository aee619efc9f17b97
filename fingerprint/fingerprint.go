// Package fingerprint resolves the anonymous voter identifier used to
// deduplicate votes. The browser keeps the identifier in two places: a
// long-lived cookie owned by this package and a client-side store whose value
// arrives as an explicit request field. Either surviving copy repairs the
// other, so clearing one store does not reset the voter's identity.
package fingerprint

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	// CookieName matches the key the frontend uses for its own store.
	CookieName = "singulars_fp"

	cookieMaxAge = 365 * 24 * 60 * 60 // 1 year

	// MaxLength bounds identifiers accepted from clients.
	MaxLength = 255
)

// Resolve adopts the first non-empty of the explicit request value and the
// cookie, then mirrors the adopted value back into the cookie. It never
// generates; callers that need a guaranteed identifier use Mint as fallback.
func Resolve(g *gin.Context, explicit string) (string, bool) {
	fp := explicit
	if fp == "" {
		if cookieValue, err := g.Cookie(CookieName); err == nil {
			fp = cookieValue
		}
	}
	if fp == "" {
		return "", false
	}

	persist(g, fp)
	return fp, true
}

// Mint derives an identifier from coarse request signals plus a timestamp
// component. The hash is weak on purpose: the identifier is advisory, and this
// path only runs when the client could not produce one itself.
func Mint(g *gin.Context) string {
	h := fnv.New64a()
	for _, signal := range []string{
		g.Request.UserAgent(),
		g.GetHeader("Accept-Language"),
		g.GetHeader("Sec-Ch-Ua"),
		g.GetHeader("Sec-Ch-Ua-Platform"),
	} {
		h.Write([]byte(signal))
		h.Write([]byte{'|'})
	}

	fp := fmt.Sprintf("fp_%s_%s",
		strconv.FormatUint(h.Sum64(), 36),
		strconv.FormatInt(time.Now().UnixMilli(), 36))
	persist(g, fp)
	return fp
}

func persist(g *gin.Context, fp string) {
	g.SetSameSite(http.SameSiteLaxMode)
	g.SetCookie(CookieName, fp, cookieMaxAge, "/", "", false, false)
}
