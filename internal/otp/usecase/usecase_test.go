package usecase

import (
	"context"
	"errors"
	"sort"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/otp/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/config"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/lock"
	"github.com/shandysiswandi/otpgate/internal/pkg/otp"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
	"github.com/shandysiswandi/otpgate/internal/shared/account"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeStore mirrors the SQL adapter: a unique ACTIVE record per key and
// compare-and-swap status updates.
type fakeStore struct {
	mu         sync.Mutex
	nextID     int64
	records    map[int64]*entity.Record
	cfg        *entity.Config
	listErr    error
	updateErrs map[int64]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{records: map[int64]*entity.Record{}, updateErrs: map[int64]error{}}
}

func (f *fakeStore) ExistsActive(_ context.Context, userID int64, operationID string) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.records {
		if r.UserID == userID && r.OperationID == operationID && r.Status == entity.StatusActive {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStore) Create(_ context.Context, rec entity.Record) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.records {
		if r.UserID == rec.UserID && r.OperationID == rec.OperationID && r.Status == entity.StatusActive {
			return 0, goerror.ErrConflict
		}
	}

	f.nextID++
	rec.ID = f.nextID
	rec.Code = ""
	f.records[rec.ID] = &rec
	return rec.ID, nil
}

func (f *fakeStore) FindActive(_ context.Context, userID int64, operationID, codeHash string) (*entity.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, r := range f.records {
		if r.UserID == userID && r.OperationID == operationID && r.CodeHash == codeHash && r.Status == entity.StatusActive {
			cp := *r
			return &cp, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeStore) UpdateStatus(_ context.Context, id int64, status entity.Status) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.updateErrs[id]; err != nil {
		return false, err
	}
	r, ok := f.records[id]
	if !ok || r.Status != entity.StatusActive {
		return false, nil
	}
	r.Status = status
	return true, nil
}

func (f *fakeStore) ListActive(context.Context) ([]entity.Record, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}

	var out []entity.Record
	for _, r := range f.records {
		if r.Status == entity.StatusActive {
			out = append(out, *r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeStore) DeleteByUserID(_ context.Context, userID int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var n int64
	for id, r := range f.records {
		if r.UserID == userID {
			delete(f.records, id)
			n++
		}
	}
	return n, nil
}

func (f *fakeStore) GetConfig(context.Context) (*entity.Config, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.cfg == nil {
		return nil, goerror.ErrNotFound
	}
	cp := *f.cfg
	return &cp, nil
}

func (f *fakeStore) UpdateConfig(_ context.Context, cfg entity.Config) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.cfg = &cfg
	return nil
}

func (f *fakeStore) status(id int64) entity.Status {
	f.mu.Lock()
	defer f.mu.Unlock()

	if r, ok := f.records[id]; ok {
		return r.Status
	}
	return ""
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.records)
}

type fakeMQ struct {
	mu     sync.Mutex
	events []LifecycleEvent
	err    error
}

func (f *fakeMQ) PublishLifecycle(_ context.Context, ev LifecycleEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.events = append(f.events, ev)
	return f.err
}

func (f *fakeMQ) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	out := make([]string, 0, len(f.events))
	for _, ev := range f.events {
		out = append(out, ev.Type)
	}
	return out
}

type fakeDispatcher struct {
	mu    sync.Mutex
	codes map[string]string
	err   error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, _ entity.Channel, to account.Contact, code string) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return f.err
	}
	if f.codes == nil {
		f.codes = map[string]string{}
	}
	f.codes[strconv.FormatInt(to.UserID, 10)] = code
	return nil
}

func (f *fakeDispatcher) last(userID int64) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.codes[strconv.FormatInt(userID, 10)]
}

type fakeDirectory struct{}

func (fakeDirectory) Contact(_ context.Context, userID int64) (*account.Contact, error) {
	if userID == 404 {
		return nil, account.ErrUnknownUser
	}
	return &account.Contact{UserID: userID, Username: "user" + strconv.FormatInt(userID, 10)}, nil
}

// busyLocker simulates another replica holding every key.
type busyLocker struct{}

func (busyLocker) Acquire(context.Context, string, time.Duration) (*lock.Lease, error) {
	return nil, lock.ErrNotAcquired
}

// downLocker simulates an unreachable lock backend.
type downLocker struct{}

func (downLocker) Acquire(context.Context, string, time.Duration) (*lock.Lease, error) {
	return nil, errors.New("dial tcp: connection refused")
}

// freeLocker grants every key; uniqueness is then left to the store.
type freeLocker struct{}

func (freeLocker) Acquire(context.Context, string, time.Duration) (*lock.Lease, error) {
	return nil, nil
}

type roleEnforcer struct{}

func (roleEnforcer) Enforce(rvals ...any) (bool, error) {
	return len(rvals) > 0 && rvals[0] == "ADMIN", nil
}

type harness struct {
	uc    *Usecase
	store *fakeStore
	mq    *fakeMQ
	disp  *fakeDispatcher
	clock *clock.Manual
}

const testConfig = `
modules:
  otp:
    default_code_length: 6
    default_ttl_seconds: 60
    delivery_channel: FILE
    delivery_timeout_seconds: 2
`

func newHarness(t *testing.T) *harness {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfig))
	if err != nil {
		t.Fatalf("config: %v", err)
	}
	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	h := &harness{
		store: newFakeStore(),
		mq:    &fakeMQ{},
		disp:  &fakeDispatcher{},
		clock: clock.NewManual(t0),
	}
	h.uc = New(Dependency{
		RepoDB:        h.store,
		RepoMessaging: h.mq,
		Dispatcher:    h.disp,
		Directory:     fakeDirectory{},
		Locker:        freeLocker{},
		Generator:     otp.NewNumericGenerator(),
		Validator:     v,
		Config:        cfg,
		HMAC:          hash.NewHMACSHA256("test-secret"),
		Clock:         h.clock,
		Instrument:    instrument.NewNoop(),
		Enforcer:      roleEnforcer{},
	})
	return h
}

func assertCode(t *testing.T, err error, want goerror.Code) {
	t.Helper()

	var ge *goerror.Error
	if !errors.As(err, &ge) {
		t.Fatalf("error = %v, want *goerror.Error with code %s", err, want)
	}
	if ge.Code() != want {
		t.Fatalf("error code = %s, want %s", ge.Code(), want)
	}
}
