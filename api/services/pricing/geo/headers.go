package geo

import (
	"net/http"
	"strings"

	xcurrency "golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Header names consumed for location hints.
const (
	HeaderCDNCountry     = "Cf-Ipcountry"
	HeaderAcceptLanguage = "Accept-Language"
)

var regionNames = display.English.Regions()

// fromHeaders resolves a location from request headers in priority order:
// CDN country header, then the region of the first Accept-Language entry.
func (r *Resolver) fromHeaders(headers http.Header) (CountryInfo, bool) {
	if headers == nil {
		return CountryInfo{}, false
	}
	if code := strings.TrimSpace(headers.Get(HeaderCDNCountry)); code != "" {
		if info, ok := r.countryInfo(code); ok {
			return info, true
		}
	}
	if code, ok := acceptLanguageRegion(headers.Get(HeaderAcceptLanguage)); ok {
		if info, ok := r.countryInfo(code); ok {
			return info, true
		}
	}
	return CountryInfo{}, false
}

// countryInfo maps a two-letter code to its English name and local
// currency. Currencies without an exchange rate become USD.
func (r *Resolver) countryInfo(code string) (CountryInfo, bool) {
	code = strings.ToUpper(code)
	// XX is unknown and T1 is Tor in Cloudflare's header
	if len(code) != 2 || code == "XX" || code == "T1" {
		return CountryInfo{}, false
	}
	region, err := language.ParseRegion(code)
	if err != nil || !region.IsCountry() {
		return CountryInfo{}, false
	}

	cur := Default.Currency
	if unit, ok := xcurrency.FromRegion(region); ok && r.supportsCurrency(unit.String()) {
		cur = unit.String()
	}
	name := regionNames.Name(region)
	if name == "" {
		name = unknown
	}
	return CountryInfo{
		Country:     name,
		CountryCode: region.String(),
		Currency:    cur,
		Region:      unknown,
		City:        unknown,
		Timezone:    Default.Timezone,
	}, true
}

// acceptLanguageRegion returns the region subtag of the first language in
// an Accept-Language value, when it is exactly two letters.
func acceptLanguageRegion(value string) (string, bool) {
	first, _, _ := strings.Cut(value, ",")
	first, _, _ = strings.Cut(first, ";")
	first = strings.TrimSpace(first)
	if first == "" || first == "*" {
		return "", false
	}
	tag, err := language.Parse(first)
	if err != nil {
		return "", false
	}
	region, conf := tag.Region()
	if conf != language.Exact {
		return "", false
	}
	code := region.String()
	if len(code) != 2 || !isLetters(code) {
		return "", false
	}
	return code, true
}

func isLetters(s string) bool {
	for _, c := range s {
		if (c < 'A' || c > 'Z') && (c < 'a' || c > 'z') {
			return false
		}
	}
	return true
}
