package params

// These are the multipliers for Hdac denominations.
// Example: To get the bigsun value of an amount in 'hdac', use
//
//	new(big.Int).Mul(value, big.NewInt(params.Hdac))
const (
	Bigsun  = 1
	GBigsun = 1e9
	Hdac    = 1e18
)
