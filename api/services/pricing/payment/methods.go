package payment

import "strings"

// Bucket is the closed set of payment-method configurations a country can
// fall into.
type Bucket int

const (
	BucketInternational Bucket = iota
	BucketIN
	BucketUS
	BucketEU
)

func (b Bucket) String() string {
	switch b {
	case BucketIN:
		return "IN"
	case BucketUS:
		return "US"
	case BucketEU:
		return "EU"
	default:
		return "INTERNATIONAL"
	}
}

// MarshalText lets buckets appear by name in JSON payloads and logs.
func (b Bucket) MarshalText() ([]byte, error) { return []byte(b.String()), nil }

// MethodSet lists which payment rails are offered at checkout.
type MethodSet struct {
	Card       bool `json:"card"`
	Netbanking bool `json:"netbanking"`
	Wallet     bool `json:"wallet"`
	UPI        bool `json:"upi"`
	EMI        bool `json:"emi"`
	PayLater   bool `json:"paylater"`
}

// Methods returns the payment methods enabled for the bucket. Card is
// enabled everywhere.
func (b Bucket) Methods() MethodSet {
	switch b {
	case BucketIN:
		return MethodSet{Card: true, Netbanking: true, Wallet: true, UPI: true}
	case BucketUS, BucketEU, BucketInternational:
		return MethodSet{Card: true}
	}
	return MethodSet{Card: true}
}

// BucketFor classifies a country code. First match wins: IN, then the euro
// area, then US, then everything else.
func BucketFor(countryCode string) Bucket {
	code := strings.ToUpper(strings.TrimSpace(countryCode))
	switch {
	case code == "IN":
		return BucketIN
	case IsEU(code):
		return BucketEU
	case code == "US":
		return BucketUS
	default:
		return BucketInternational
	}
}

// SelectFor returns the payment methods to offer in countryCode.
func SelectFor(countryCode string) MethodSet {
	return BucketFor(countryCode).Methods()
}
