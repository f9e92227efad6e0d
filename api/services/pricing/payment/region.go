package payment

import "strings"

// euCountries is the fixed set of euro-area member states used for
// payment-method and gateway-currency decisions.
var euCountries = map[string]struct{}{
	"AT": {}, "BE": {}, "CY": {}, "DE": {}, "EE": {},
	"ES": {}, "FI": {}, "FR": {}, "GR": {}, "IE": {},
	"IT": {}, "LT": {}, "LU": {}, "LV": {}, "MT": {},
	"NL": {}, "PT": {}, "SI": {}, "SK": {},
}

// IsEU reports whether countryCode belongs to the euro-area set.
func IsEU(countryCode string) bool {
	_, ok := euCountries[strings.ToUpper(countryCode)]
	return ok
}
