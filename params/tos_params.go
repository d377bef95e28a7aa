// Copyright 2024 The gtos Authors
// This file is part of the gtos library.
//
// The gtos library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The gtos library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the gtos library. If not, see <http://www.gnu.org/licenses/>.

package params

import "github.com/ethereum/go-ethereum/common"

// Well-known addresses and service hashes used when a world is assembled
// without explicit overrides.
var (
	// SwapStorageAddress holds the swap service's storage slots (allowance cap,
	// snapshot records, KYC records, swap-completion flags).
	SwapStorageAddress = common.HexToAddress("0x0000000000000000000000000000000048444331") // "HDC1"

	// SwapPurseAddress is the swap service's holding account. Deposits recorded
	// through insert_snapshot_record accumulate here until redeemed.
	SwapPurseAddress = common.HexToAddress("0x0000000000000000000000000000000048444332") // "HDC2"

	// SwapServiceHash is the service hash the swap service is installed under.
	SwapServiceHash = common.HexToHash("0x0000000000000000000000000000000000000000000000000000000048444353") // "HDCS"

	// ProxyServiceHash is the service hash the proxy is installed under.
	ProxyServiceHash = common.HexToHash("0x0000000000000000000000000000000000000000000000000000000048444350") // "HDCP"
)
