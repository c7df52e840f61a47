package assetcache

import "fmt"

// Policy decides which network responses are stored.
type Policy int

const (
	// PolicyStrict stores status 200 responses that are basic or cors.
	PolicyStrict Policy = iota

	// PolicyLegacy keeps the admission rule of the first release, where
	// the check grouped as (status 200 AND basic) OR cors. Any cors
	// response is stored, whatever its status.
	PolicyLegacy
)

// ParsePolicy maps a config value to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "strict":
		return PolicyStrict, nil
	case "legacy":
		return PolicyLegacy, nil
	default:
		return PolicyStrict, fmt.Errorf("unknown cache policy %q (want strict or legacy)", s)
	}
}

func (p Policy) String() string {
	if p == PolicyLegacy {
		return "legacy"
	}
	return "strict"
}

// Cacheable reports whether resp may be stored.
func (p Policy) Cacheable(resp *Response) bool {
	if resp == nil {
		return false
	}
	switch p {
	case PolicyLegacy:
		return (resp.Status == 200 && resp.Type == TypeBasic) || resp.Type == TypeCORS
	default:
		return resp.Status == 200 && (resp.Type == TypeBasic || resp.Type == TypeCORS)
	}
}
