package usecase

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shandysiswandi/otpgate/internal/identity/entity"
	"github.com/shandysiswandi/otpgate/internal/pkg/clock"
	"github.com/shandysiswandi/otpgate/internal/pkg/goerror"
	"github.com/shandysiswandi/otpgate/internal/pkg/hash"
	"github.com/shandysiswandi/otpgate/internal/pkg/instrument"
	"github.com/shandysiswandi/otpgate/internal/pkg/jwt"
	"github.com/shandysiswandi/otpgate/internal/pkg/validator"
)

var t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

// fakeRepo mirrors the unique indexes of the users table.
type fakeRepo struct {
	mu    sync.Mutex
	users map[int64]entity.NewUser
	err   error
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{users: map[int64]entity.NewUser{}}
}

func toUser(u entity.NewUser) entity.User {
	return entity.User{
		ID:             u.ID,
		Username:       u.Username,
		Email:          u.Email,
		Phone:          u.Phone,
		TelegramChatID: u.TelegramChatID,
		Role:           u.Role,
		CreatedAt:      u.CreatedAt,
	}
}

func (f *fakeRepo) GetUserByID(_ context.Context, id int64) (*entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[id]
	if !ok {
		return nil, goerror.ErrNotFound
	}
	out := toUser(u)
	return &out, nil
}

func (f *fakeRepo) GetUserCredential(_ context.Context, email string) (*entity.UserCredential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if strings.EqualFold(u.Email, email) {
			return &entity.UserCredential{ID: u.ID, Email: u.Email, Role: u.Role, PasswordHash: u.PasswordHash}, nil
		}
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeRepo) ListUsersByRole(_ context.Context, role entity.Role) ([]entity.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var out []entity.User
	for _, u := range f.users {
		if u.Role == role {
			out = append(out, toUser(u))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeRepo) AdminExists(context.Context) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if u.Role == entity.RoleAdmin {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRepo) CreateUser(_ context.Context, user entity.NewUser) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for _, u := range f.users {
		if strings.EqualFold(u.Email, user.Email) || strings.EqualFold(u.Username, user.Username) {
			return goerror.ErrConflict
		}
		if u.Role == entity.RoleAdmin && user.Role == entity.RoleAdmin {
			return goerror.ErrConflict
		}
	}
	f.users[user.ID] = user
	return nil
}

func (f *fakeRepo) DeleteUser(_ context.Context, id int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.users[id]; !ok {
		return false, nil
	}
	delete(f.users, id)
	return true, nil
}

type fakePurger struct {
	calls []int64
	err   error
}

func (f *fakePurger) DeleteUserCodes(_ context.Context, userID int64) (int64, error) {
	f.calls = append(f.calls, userID)
	return 2, f.err
}

type seqID struct {
	mu   sync.Mutex
	next int64
}

func (s *seqID) Generate() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.next++
	return s.next
}

type fakeJWT struct{}

func (fakeJWT) Generate(uid int64, email, role string) (string, error) {
	return role + ":" + email, nil
}

func (fakeJWT) Verify(string) (jwt.Claims, error) { return jwt.Claims{}, nil }

type roleEnforcer struct{}

// ADMIN may do anything; USER may only read its own identity.
func (roleEnforcer) Enforce(rvals ...any) (bool, error) {
	if len(rvals) < 2 {
		return false, nil
	}
	return rvals[0] == "ADMIN" || rvals[1] == "self_identity", nil
}

type harness struct {
	uc     *Usecase
	repo   *fakeRepo
	purger *fakePurger
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	v, err := validator.NewV10Validator()
	if err != nil {
		t.Fatalf("validator: %v", err)
	}

	h := &harness{repo: newFakeRepo(), purger: &fakePurger{}}
	h.uc = New(Dependency{
		RepoDB:     h.repo,
		Purger:     h.purger,
		Validator:  v,
		Bcrypt:     hash.NewBcrypt(4, "pepper"),
		UID:        &seqID{},
		Clock:      clock.NewManual(t0),
		JWT:        fakeJWT{},
		Instrument: instrument.NewNoop(),
		Enforcer:   roleEnforcer{},
	})
	return h
}

func asUser(id int64, role string) context.Context {
	return jwt.SetAuth(context.Background(), jwt.Claims{UserID: id, UserEmail: "x@example.com", Role: role})
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

func register(t *testing.T, h *harness, username string, admin bool) int64 {
	t.Helper()

	out, err := h.uc.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "Secret123!",
		Admin:    admin,
	})
	if err != nil {
		t.Fatalf("Register(%s) error = %v", username, err)
	}
	return out.ID
}
