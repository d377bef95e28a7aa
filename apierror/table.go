package apierror

import "sort"

type description struct {
	name string
	desc string
}

var userDescriptions = map[UserError]description{
	NotAdmin:                               {"NotAdmin", "caller is not the administrator"},
	ExceededSwapRange:                      {"ExceededSwapRange", "swap amount out of range"},
	ExceededSwapAllowanceByKyc:             {"ExceededSwapAllowanceByKyc", "swap amount exceeds the allowance of the kyc level"},
	InsufficientNumOfSwapParams:            {"InsufficientNumOfSwapParams", "insufficient number of swap parameters"},
	NotRegisteredKYC:                       {"NotRegisteredKYC", "caller has not registered kyc"},
	AlreadyRegisteredAndReceivedSmallToken: {"AlreadyRegisteredAndReceivedSmallToken", "already registered and received the registration incentive"},
	InvalidKYCLevelValue:                   {"InvalidKYCLevelValue", "invalid kyc level value"},
	InvalidSignature:                       {"InvalidSignature", "invalid signature"},
	AlreadySwapProceeded:                   {"AlreadySwapProceeded", "swap already proceeded for this wallet"},
	UnknownProxyApi:                        {"UnknownProxyApi", "unknown proxy method"},
}

var hostDescriptions = map[HostError]description{
	None:                 {"None", "optional value was absent"},
	MissingArgument:      {"MissingArgument", "missing argument"},
	InvalidArgument:      {"InvalidArgument", "argument has the wrong type"},
	ContractNotFound:     {"ContractNotFound", "no service installed under the key"},
	GetKey:               {"GetKey", "named key not found"},
	UnexpectedKeyVariant: {"UnexpectedKeyVariant", "key does not name a service"},
	Transfer:             {"Transfer", "transfer failed"},
	Unhandled:            {"Unhandled", "unhandled error"},
}

var mintDescriptions = map[MintError]description{
	InsufficientFunds:  {"InsufficientFunds", "insufficient funds"},
	SourceNotFound:     {"SourceNotFound", "source account not found"},
	InvalidDestination: {"InvalidDestination", "invalid destination account"},
	AmountOverflow:     {"AmountOverflow", "amount exceeds the ledger range"},
}

// Entry is one row of the published abort-code table.
type Entry struct {
	Code        Code
	Band        string
	Name        string
	Description string
}

// Table returns every abort code in ascending order.
func Table() []Entry {
	entries := make([]Entry, 0, len(userDescriptions)+len(hostDescriptions)+len(mintDescriptions))
	for e, d := range hostDescriptions {
		entries = append(entries, Entry{Code: e.Code(), Band: "host", Name: d.name, Description: d.desc})
	}
	for e, d := range mintDescriptions {
		entries = append(entries, Entry{Code: e.Code(), Band: "mint", Name: d.name, Description: d.desc})
	}
	for e, d := range userDescriptions {
		entries = append(entries, Entry{Code: e.Code(), Band: "user", Name: d.name, Description: d.desc})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Code < entries[j].Code })
	return entries
}

// Lookup returns the table entry for code.
func Lookup(code Code) (Entry, bool) {
	for _, e := range Table() {
		if e.Code == code {
			return e, true
		}
	}
	return Entry{}, false
}
