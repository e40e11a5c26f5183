package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/epitomehq/callsheet-backend/internal/production"
)

// Known brand domains that a naive name slug would miss.
var logoDomainOverrides = map[string]string{
	"nike":      "nike.com",
	"google":    "google.com",
	"apple":     "apple.com",
	"adidas":    "adidas.com",
	"coca-cola": "coca-cola.com",
	"cocacola":  "coca-cola.com",
	"pepsi":     "pepsi.com",
	"microsoft": "microsoft.com",
	"amazon":    "amazon.com",
	"meta":      "meta.com",
	"facebook":  "facebook.com",
	"epitome":   "epitome.com",
	"netflix":   "netflix.com",
	"disney":    "disney.com",
	"sony":      "sony.com",
	"paramount": "paramount.com",
	"warner":    "warnerbros.com",
	"universal": "universalpictures.com",
	"lego":      "lego.com",
	"bmw":       "bmw.com",
	"toyota":    "toyota.com",
	"honda":     "honda.com",
	"ford":      "ford.com",
	"chevrolet": "chevrolet.com",
	"mcdonalds": "mcdonalds.com",
	"starbucks": "starbucks.com",
	"redbull":   "redbull.com",
}

// CompanyLogoURL synthesizes an img.logo.dev URL for a company name. It is
// pure string work and performs no network I/O; the URL may 404 when the
// frontend dereferences it, which is the frontend's problem to display
// around.
func (c *Client) CompanyLogoURL(ctx context.Context, companyName string) string {
	if production.IsTBD(companyName) {
		return ""
	}

	cacheKey := "logo:" + strings.ToLower(strings.TrimSpace(companyName))
	if raw, ok, err := c.cache.Get(ctx, cacheKey); err == nil && ok {
		var cached string
		if json.Unmarshal(raw, &cached) == nil {
			return cached
		}
	}

	if c.logoPubKey == "" {
		// img.logo.dev takes a publishable key (pk_...), not a secret key.
		c.log.Warn("LOGO_DEV_PUBLISHABLE_KEY not set, skipping logo", "company", companyName)
		return ""
	}

	slug := strings.ToLower(companyName)
	slug = strings.NewReplacer(" ", "", ",", "", ".", "").Replace(slug)
	domain, ok := logoDomainOverrides[slug]
	if !ok {
		domain = slug + ".com"
	}

	logoURL := fmt.Sprintf("%s/%s?token=%s&size=200", c.logoURL, domain, c.logoPubKey)
	c.putCache(ctx, cacheKey, logoURL, logoCacheTTL)
	return logoURL
}
