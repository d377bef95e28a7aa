package params

import "math/big"

// Directory entries and method names shared by the proxy and the swap service.
const (
	// SwapHashName is the named key under which the swap service hash is
	// published in the caller's directory.
	SwapHashName = "swap_hash"

	// ProxyHashName is the named key under which the proxy itself is installed.
	ProxyHashName = "swap_proxy_hash"

	MethodInsertKYCAllowanceCap = "insert_kyc_allowance_cap"
	MethodInsertSnapshotRecord  = "insert_snapshot_record"
	MethodInsertKYCData         = "insert_kyc_data"
	MethodUpdateKYCLevel        = "update_kyc_level"
	MethodGetToken              = "get_token"
	MethodGetContractPurse      = "get_contract_purse"

	// MaxKYCLevel is the highest KYC tier accepted by the swap service.
	// Level 1 is capped by the allowance; higher levels are uncapped.
	MaxKYCLevel = 3
	// BasicKYCLevel is the tier whose swaps are bounded by the allowance cap.
	BasicKYCLevel = 1
)

// RegistrationIncentive is the one-time amount (0.1 Hdac, in bigsun) paid to a
// newly registered account. It does not depend on the KYC level.
var RegistrationIncentive = new(big.Int).Div(big.NewInt(Hdac), big.NewInt(10))
