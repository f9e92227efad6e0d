package currency

import "sync"

// Static reference data. Rates are units per USD and are refreshed by
// editing this file or by loading overrides from the exchange_rate table.
var defaultRates = map[string]float64{
	"USD": 1,
	"EUR": 0.92,
	"GBP": 0.79,
	"CHF": 0.88,
	"SEK": 10.5,
	"NOK": 10.6,
	"DKK": 6.87,
	"PLN": 4.0,
	"CZK": 23.1,
	"HUF": 360,
	"RUB": 92,
	"TRY": 32,
	"ILS": 3.7,
	"INR": 83,
	"PKR": 280,
	"BDT": 110,
	"LKR": 300,
	"NPR": 133,
	"CNY": 7.2,
	"JPY": 150,
	"KRW": 1330,
	"HKD": 7.82,
	"TWD": 32,
	"SGD": 1.34,
	"MYR": 4.7,
	"THB": 36,
	"IDR": 15700,
	"VND": 24500,
	"PHP": 56,
	"AUD": 1.52,
	"NZD": 1.64,
	"CAD": 1.36,
	"MXN": 17,
	"BRL": 5.0,
	"ARS": 850,
	"CLP": 950,
	"COP": 3900,
	"ZAR": 18.7,
	"NGN": 1500,
	"KES": 150,
	"EGP": 48,
	"AED": 3.67,
	"SAR": 3.75,
	"QAR": 3.64,
	"KWD": 0.31,
	"BHD": 0.376,
	"OMR": 0.385,
	"JOD": 0.709,
	"TND": 3.1,
}

var defaultMeta = map[string]Meta{
	"USD": {Symbol: "$", Position: Before, Decimals: 2},
	"EUR": {Symbol: "€", Position: Before, Decimals: 2},
	"GBP": {Symbol: "£", Position: Before, Decimals: 2},
	"CHF": {Symbol: "CHF", Position: After, Decimals: 2},
	"SEK": {Symbol: "kr", Position: After, Decimals: 0},
	"NOK": {Symbol: "kr", Position: After, Decimals: 0},
	"DKK": {Symbol: "kr", Position: After, Decimals: 0},
	"PLN": {Symbol: "zł", Position: After, Decimals: 2},
	"CZK": {Symbol: "Kč", Position: After, Decimals: 2},
	"HUF": {Symbol: "Ft", Position: After, Decimals: 0},
	"RUB": {Symbol: "₽", Position: After, Decimals: 2},
	"TRY": {Symbol: "₺", Position: Before, Decimals: 2},
	"ILS": {Symbol: "₪", Position: Before, Decimals: 2},
	"INR": {Symbol: "₹", Position: Before, Decimals: 0},
	"PKR": {Symbol: "Rs", Position: Before, Decimals: 0},
	"BDT": {Symbol: "৳", Position: Before, Decimals: 0},
	"LKR": {Symbol: "Rs", Position: Before, Decimals: 0},
	"NPR": {Symbol: "Rs", Position: Before, Decimals: 0},
	"CNY": {Symbol: "¥", Position: Before, Decimals: 2},
	"JPY": {Symbol: "¥", Position: Before, Decimals: 0},
	"KRW": {Symbol: "₩", Position: Before, Decimals: 0},
	"HKD": {Symbol: "HK$", Position: Before, Decimals: 2},
	"TWD": {Symbol: "NT$", Position: Before, Decimals: 0},
	"SGD": {Symbol: "S$", Position: Before, Decimals: 2},
	"MYR": {Symbol: "RM", Position: Before, Decimals: 2},
	"THB": {Symbol: "฿", Position: Before, Decimals: 2},
	"IDR": {Symbol: "Rp", Position: Before, Decimals: 0},
	"VND": {Symbol: "₫", Position: After, Decimals: 0},
	"PHP": {Symbol: "₱", Position: Before, Decimals: 2},
	"AUD": {Symbol: "A$", Position: Before, Decimals: 2},
	"NZD": {Symbol: "NZ$", Position: Before, Decimals: 2},
	"CAD": {Symbol: "C$", Position: Before, Decimals: 2},
	"MXN": {Symbol: "MX$", Position: Before, Decimals: 2},
	"BRL": {Symbol: "R$", Position: Before, Decimals: 2},
	"ARS": {Symbol: "AR$", Position: Before, Decimals: 0},
	"CLP": {Symbol: "CLP$", Position: Before, Decimals: 0},
	"COP": {Symbol: "COL$", Position: Before, Decimals: 0},
	"ZAR": {Symbol: "R", Position: Before, Decimals: 2},
	"NGN": {Symbol: "₦", Position: Before, Decimals: 0},
	"KES": {Symbol: "KSh", Position: Before, Decimals: 0},
	"EGP": {Symbol: "E£", Position: Before, Decimals: 2},
	"AED": {Symbol: "AED", Position: After, Decimals: 2},
	"SAR": {Symbol: "SAR", Position: After, Decimals: 2},
	"QAR": {Symbol: "QR", Position: After, Decimals: 2},
	"KWD": {Symbol: "KD", Position: After, Decimals: 3},
	"BHD": {Symbol: "BD", Position: After, Decimals: 3},
	"OMR": {Symbol: "RO", Position: After, Decimals: 3},
	"JOD": {Symbol: "JD", Position: After, Decimals: 3},
	"TND": {Symbol: "DT", Position: After, Decimals: 3},
}

// PPP multipliers. Countries not listed pay the converted USD price.
var defaultPPP = map[string]float64{
	"IN": 0.25,
	"PK": 0.25,
	"BD": 0.25,
	"NP": 0.25,
	"LK": 0.3,
	"NG": 0.3,
	"EG": 0.3,
	"KE": 0.35,
	"ID": 0.35,
	"VN": 0.35,
	"PH": 0.35,
	"AR": 0.35,
	"CO": 0.4,
	"TR": 0.4,
	"TH": 0.45,
	"BR": 0.45,
	"ZA": 0.45,
	"RU": 0.45,
	"MY": 0.5,
	"MX": 0.5,
	"CL": 0.55,
	"HU": 0.55,
	"CN": 0.6,
	"PL": 0.6,
	"CZ": 0.65,
}

var defaultTable = sync.OnceValue(func() *Table {
	t, err := NewTable(defaultRates, defaultMeta, defaultPPP)
	if err != nil {
		panic(err)
	}
	return t
})

// DefaultTable returns the built-in reference table. It is built once.
func DefaultTable() *Table { return defaultTable() }
