package cert

import (
	"runtime"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dpmc-io/nft-minting-smart-contract/core/events"
	"github.com/dpmc-io/nft-minting-smart-contract/crypto"
)

// State describes the persisted surface the engine mutates. A single
// implementation lives in core/state; tests may substitute their own.
type State interface {
	Certificate(id uint64) (*Certificate, bool, error)
	PutCertificate(id uint64, cert *Certificate) error
	NextTokenID() (uint64, error)
	SetNextTokenID(id uint64) error
	OwnershipCount(addr crypto.Address) (uint64, error)
	SetOwnershipCount(addr crypto.Address, count uint64) error
	VoucherConsumed(signature []byte) (bool, error)
	MarkVoucherConsumed(signature []byte) error
	Allowlisted(addr crypto.Address) (bool, error)
	SetAllowlisted(addr crypto.Address, allowed bool) error
	Params() (*Params, error)
	SetParams(p *Params) error
	Paused() (bool, error)
	SetPaused(paused bool) error
}

// Engine orchestrates voucher-authorized minting, the transfer policy, and
// metadata rendering over an explicit state store and two external
// collaborators (payment token and ownership ledger).
type Engine struct {
	mu sync.Mutex
	// owner holds the goroutine id of the current lock holder, zero when
	// unheld. It distinguishes a collaborator callback re-entering the
	// engine from an independent caller waiting its turn.
	owner atomic.Uint64

	state   State
	payment PaymentToken
	ledger  OwnershipLedger
	emitter events.Emitter

	// self is the address the service is known by to the payment token:
	// payers grant it their allowance and metadata embeds it.
	self  crypto.Address
	info  TokenInfo
	nowFn func() int64
}

// NewEngine creates an engine over the supplied state with a no-op emitter.
func NewEngine(state State) *Engine {
	return &Engine{
		state:   state,
		emitter: events.NoopEmitter{},
		nowFn:   func() int64 { return time.Now().Unix() },
	}
}

// SetPaymentToken configures the fungible payment collaborator.
func (e *Engine) SetPaymentToken(token PaymentToken) { e.payment = token }

// SetLedger configures the base ownership ledger collaborator.
func (e *Engine) SetLedger(ledger OwnershipLedger) { e.ledger = ledger }

// SetSelfAddress configures the address allowances are granted to.
func (e *Engine) SetSelfAddress(addr crypto.Address) { e.self = addr }

// SetTokenInfo configures the descriptive text embedded in rendered metadata.
func (e *Engine) SetTokenInfo(info TokenInfo) { e.info = info }

// SetEmitter configures the event emitter. Passing nil resets it to a no-op.
func (e *Engine) SetEmitter(emitter events.Emitter) {
	if emitter == nil {
		e.emitter = events.NoopEmitter{}
		return
	}
	e.emitter = emitter
}

// SetNowFunc overrides the time source. Primarily intended for tests.
func (e *Engine) SetNowFunc(now func() int64) {
	if now == nil {
		e.nowFn = func() int64 { return time.Now().Unix() }
		return
	}
	e.nowFn = now
}

// begin acquires the single-writer lock for a mutating operation.
// Independent callers queue on the mutex; a nested invocation from a
// collaborator callback runs on the lock holder's own goroutine and is
// rejected outright instead of deadlocking.
func (e *Engine) begin() (func(), error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	gid := goroutineID()
	if gid != 0 && e.owner.Load() == gid {
		return nil, ErrReentrantCall
	}
	e.mu.Lock()
	e.owner.Store(gid)
	return func() {
		e.owner.Store(0)
		e.mu.Unlock()
	}, nil
}

// goroutineID parses the current goroutine's id from its stack header. The
// runtime numbers goroutines from 1, so zero is free to mean "unheld".
func goroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	header := strings.TrimPrefix(string(buf[:n]), "goroutine ")
	if i := strings.IndexByte(header, ' '); i > 0 {
		if id, err := strconv.ParseUint(header[:i], 10, 64); err == nil {
			return id
		}
	}
	return 0
}

func (e *Engine) emit(event events.Event) {
	if e == nil || e.emitter == nil || event == nil {
		return
	}
	e.emitter.Emit(event)
}

func (e *Engine) now() int64 {
	if e == nil || e.nowFn == nil {
		return time.Now().Unix()
	}
	return e.nowFn()
}

// requireNotPaused loads the lifecycle flag and fails the operation when set.
func (e *Engine) requireNotPaused() error {
	paused, err := e.state.Paused()
	if err != nil {
		return err
	}
	if paused {
		return ErrPaused
	}
	return nil
}

func (e *Engine) params() (*Params, error) {
	p, err := e.state.Params()
	if err != nil {
		return nil, err
	}
	if p == nil {
		return DefaultParams(), nil
	}
	return p.Clone().Normalize(), nil
}

// CertificateByID returns the committed state for a minted certificate. It is
// a read-only lookup and takes no operation lock.
func (e *Engine) CertificateByID(id uint64) (*Certificate, error) {
	if e == nil || e.state == nil {
		return nil, ErrNilState
	}
	c, ok, err := e.state.Certificate(id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCertNotFound
	}
	return c.Clone(), nil
}

// TotalMinted reports how many certificates have been issued so far.
func (e *Engine) TotalMinted() (uint64, error) {
	if e == nil || e.state == nil {
		return 0, ErrNilState
	}
	next, err := e.state.NextTokenID()
	if err != nil {
		return 0, err
	}
	return next - 1, nil
}
