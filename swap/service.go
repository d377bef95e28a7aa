package swap

import (
	"crypto/ecdsa"
	"fmt"
	"math/big"
	"runtime"

	mapset "github.com/deckarep/golang-set"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/log"
	lru "github.com/hashicorp/golang-lru"
	"github.com/holiman/uint256"
	"golang.org/x/sync/errgroup"

	"github.com/tos-network/swapproxy/apierror"
	"github.com/tos-network/swapproxy/host"
	"github.com/tos-network/swapproxy/params"
)

// pubkeyCacheSize bounds the number of decoded legacy public keys kept.
const pubkeyCacheSize = 1024

// Service is the swap service. It implements host.Service.
type Service struct {
	cfg     Config
	pubkeys *lru.Cache // hex -> *ecdsa.PublicKey
}

// New returns a swap service for cfg.
func New(cfg Config) *Service {
	pubkeys, _ := lru.New(pubkeyCacheSize)
	return &Service{cfg: cfg, pubkeys: pubkeys}
}

// Config returns the installation parameters of the service.
func (s *Service) Config() Config { return s.cfg }

func (s *Service) Call(ctx *host.CallContext, method string, args host.Args) (host.Value, error) {
	var err error
	switch method {
	case params.MethodInsertKYCAllowanceCap:
		err = s.insertAllowanceCap(ctx, args)
	case params.MethodInsertSnapshotRecord:
		err = s.insertSnapshotRecord(ctx, args)
	case params.MethodInsertKYCData:
		err = s.insertKYCData(ctx, args)
	case params.MethodUpdateKYCLevel:
		err = s.updateKYCLevel(ctx, args)
	case params.MethodGetToken:
		err = s.getToken(ctx, args)
	case params.MethodGetContractPurse:
		return host.KeyValue(host.URefKey(s.cfg.Purse)), nil
	default:
		err = fmt.Errorf("%w: %q: %w", ErrNoSuchMethod, method, apierror.Unhandled)
	}
	return host.Unit, err
}

func (s *Service) requireAdmin(ctx *host.CallContext) error {
	if ctx.Caller != s.cfg.Admin {
		return fmt.Errorf("caller %s: %w", ctx.Caller.Hex(), apierror.NotAdmin)
	}
	return nil
}

// fitsWord reports whether n can be stored in one storage slot.
func fitsWord(n *big.Int) bool {
	_, overflow := uint256.FromBig(n)
	return !overflow
}

func (s *Service) insertAllowanceCap(ctx *host.CallContext, args host.Args) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	capNumber, err := args.U512(0)
	if err != nil {
		return err
	}
	if !fitsWord(capNumber) {
		return fmt.Errorf("allowance cap %s: %w", capNumber, apierror.ExceededSwapRange)
	}
	writeAllowanceCap(ctx.StateDB(), s.cfg.Storage, capNumber)
	log.Debug("Allowance cap updated", "cap", capNumber)
	return nil
}

func (s *Service) insertSnapshotRecord(ctx *host.CallContext, args host.Args) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	legacy, err := args.String(0)
	if err != nil {
		return err
	}
	amount, err := args.U512(1)
	if err != nil {
		return err
	}
	if legacy == "" {
		return fmt.Errorf("empty legacy address: %w", apierror.InsufficientNumOfSwapParams)
	}
	db := ctx.StateDB()
	snap := ReadSnapshot(db, s.cfg.Storage, legacy)
	if snap.Swapped {
		return fmt.Errorf("snapshot %s: %w", legacy, apierror.AlreadySwapProceeded)
	}
	total := new(big.Int).Add(snap.Amount, amount)
	if amount.Sign() == 0 || !fitsWord(total) {
		return fmt.Errorf("snapshot amount %s: %w", amount, apierror.ExceededSwapRange)
	}
	writeSnapshotAmount(db, s.cfg.Storage, legacy, total)
	log.Debug("Snapshot recorded", "legacy", legacy, "amount", amount, "total", total)
	return nil
}

func (s *Service) insertKYCData(ctx *host.CallContext, args host.Args) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	pubkey, err := args.PublicKey(0)
	if err != nil {
		return err
	}
	level, err := args.U512(1)
	if err != nil {
		return err
	}
	db := ctx.StateDB()
	account := pubkey.Account()
	if ReadKYC(db, s.cfg.Storage, account).Registered {
		return fmt.Errorf("account %s: %w", account.Hex(), apierror.AlreadyRegisteredAndReceivedSmallToken)
	}
	if !validLevel(level) {
		return fmt.Errorf("kyc level %s: %w", level, apierror.InvalidKYCLevelValue)
	}
	writeKYC(db, s.cfg.Storage, account, level)
	log.Debug("KYC registered", "account", account, "level", level)
	return nil
}

func (s *Service) updateKYCLevel(ctx *host.CallContext, args host.Args) error {
	if err := s.requireAdmin(ctx); err != nil {
		return err
	}
	pubkey, err := args.PublicKey(0)
	if err != nil {
		return err
	}
	level, err := args.U512(1)
	if err != nil {
		return err
	}
	db := ctx.StateDB()
	account := pubkey.Account()
	if !ReadKYC(db, s.cfg.Storage, account).Registered {
		return fmt.Errorf("account %s: %w", account.Hex(), apierror.NotRegisteredKYC)
	}
	if !validLevel(level) {
		return fmt.Errorf("kyc level %s: %w", level, apierror.InvalidKYCLevelValue)
	}
	writeKYC(db, s.cfg.Storage, account, level)
	log.Debug("KYC level updated", "account", account, "level", level)
	return nil
}

func (s *Service) getToken(ctx *host.CallContext, args host.Args) error {
	addresses, err := args.StringList(0)
	if err != nil {
		return err
	}
	messages, err := args.StringList(1)
	if err != nil {
		return err
	}
	signatures, err := args.StringList(2)
	if err != nil {
		return err
	}

	// ── Validation phase (no state writes) ───────────────────────────────────

	db := ctx.StateDB()
	kyc := ReadKYC(db, s.cfg.Storage, ctx.Caller)
	if !kyc.Registered {
		return fmt.Errorf("caller %s: %w", ctx.Caller.Hex(), apierror.NotRegisteredKYC)
	}
	n := len(addresses)
	if n == 0 || len(messages) != n || len(signatures) != n {
		return fmt.Errorf("%d addresses, %d messages, %d signatures: %w",
			n, len(messages), len(signatures), apierror.InsufficientNumOfSwapParams)
	}
	// Keys are decoded and signatures checked concurrently; failures are
	// reported in index order.
	var (
		pubs  = make([]*ecdsa.PublicKey, n)
		valid = make([]bool, n)
		eg    errgroup.Group
	)
	eg.SetLimit(runtime.NumCPU())
	for i := 0; i < n; i++ {
		eg.Go(func() error {
			pub, err := s.legacyPubkey(addresses[i])
			if err != nil {
				return nil
			}
			pubs[i], valid[i] = pub, verifyLegacySignature(pub, messages[i], signatures[i])
			return nil
		})
	}
	eg.Wait()

	var (
		legacies = make([]string, 0, n)
		seen     = mapset.NewThreadUnsafeSet()
		total    = new(big.Int)
	)
	for i := 0; i < n; i++ {
		if pubs[i] == nil {
			return fmt.Errorf("legacy key %d: %w", i, apierror.InvalidSignature)
		}
		if !valid[i] {
			return fmt.Errorf("signature %d: %w", i, apierror.InvalidSignature)
		}
		legacy := LegacyAddress(pubs[i])
		snap := ReadSnapshot(db, s.cfg.Storage, legacy)
		if snap.Swapped || seen.Contains(legacy) {
			return fmt.Errorf("legacy %s: %w", legacy, apierror.AlreadySwapProceeded)
		}
		if snap.Amount.Sign() == 0 {
			return fmt.Errorf("legacy %s has no snapshot: %w", legacy, apierror.ExceededSwapRange)
		}
		seen.Add(legacy)
		legacies = append(legacies, legacy)
		total.Add(total, snap.Amount)
	}
	if kyc.Level == params.BasicKYCLevel {
		if limit := ReadAllowanceCap(db, s.cfg.Storage); total.Cmp(limit) > 0 {
			return fmt.Errorf("swap of %s over cap %s: %w", total, limit, apierror.ExceededSwapAllowanceByKyc)
		}
	}

	// ── Mutation phase ───────────────────────────────────────────────────────

	if err := ctx.Transfer(s.cfg.Purse, ctx.Caller, total); err != nil {
		return fmt.Errorf("release %s to %s: %w", total, ctx.Caller.Hex(), err)
	}
	for _, legacy := range legacies {
		markSwapped(db, s.cfg.Storage, legacy)
	}
	log.Info("Legacy balance swapped", "account", ctx.Caller, "addresses", n, "amount", total)
	return nil
}

// legacyPubkey decodes a legacy public key, consulting the cache first.
func (s *Service) legacyPubkey(enc string) (*ecdsa.PublicKey, error) {
	if pub, ok := s.pubkeys.Get(enc); ok {
		return pub.(*ecdsa.PublicKey), nil
	}
	pub, err := ParseLegacyPubkey(enc)
	if err != nil {
		return nil, err
	}
	s.pubkeys.Add(enc, pub)
	return pub, nil
}

// Purse returns the holding account address.
func (s *Service) Purse() common.Address { return s.cfg.Purse }
