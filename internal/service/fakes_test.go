package service

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/njprem/Estate_Site_BackEnd/internal/domain"
	"github.com/njprem/Estate_Site_BackEnd/internal/events"
)

var errUniqueViolation = &pgconn.PgError{Code: "23505"}

// fakeCodeRepo mirrors the conditional update of the postgres ledger.
type fakeCodeRepo struct {
	mu           sync.Mutex
	rows         []*domain.OneTimeCode
	createErr    error
	consumeCalls int
	failedCalls  int
}

func (f *fakeCodeRepo) Create(ctx context.Context, email string, mobileNumber *string, code string, purpose domain.OTPPurpose, expiresAt time.Time) (*domain.OneTimeCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	row := &domain.OneTimeCode{
		ID:           uuid.New(),
		Email:        email,
		MobileNumber: mobileNumber,
		Code:         code,
		Purpose:      purpose,
		ExpiresAt:    expiresAt,
		CreatedAt:    expiresAt.Add(-time.Minute),
	}
	f.rows = append(f.rows, row)
	clone := *row
	return &clone, nil
}

func (f *fakeCodeRepo) Consume(ctx context.Context, email, code string, purpose domain.OTPPurpose, now time.Time) (*domain.OneTimeCode, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.consumeCalls++
	for i := len(f.rows) - 1; i >= 0; i-- {
		row := f.rows[i]
		if row.Email == email && row.Code == code && row.Purpose == purpose && !row.Used && row.ExpiresAt.After(now) {
			row.Used = true
			clone := *row
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeCodeRepo) RecordFailedAttempt(ctx context.Context, email string, purpose domain.OTPPurpose, now time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failedCalls++
	for _, row := range f.rows {
		if row.Email == email && row.Purpose == purpose && !row.Used && row.ExpiresAt.After(now) {
			row.Attempts++
		}
	}
	return nil
}

func (f *fakeCodeRepo) lastCode() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.rows) == 0 {
		return ""
	}
	return f.rows[len(f.rows)-1].Code
}

type sentCode struct {
	to      string
	code    string
	purpose string
	ttl     time.Duration
}

type fakeCodeSender struct {
	sent []sentCode
	err  error
}

func (f *fakeCodeSender) SendOneTimeCode(ctx context.Context, to, code, purpose string, ttl time.Duration) error {
	f.sent = append(f.sent, sentCode{to: to, code: code, purpose: purpose, ttl: ttl})
	return f.err
}

type fakeNotifier struct {
	events []events.Event
	err    error
}

func (f *fakeNotifier) Notify(ctx context.Context, event events.Event) error {
	f.events = append(f.events, event)
	return f.err
}

type fakeWebUserRepo struct {
	users     map[string]*domain.WebUser
	createErr error
	existsErr error
	created   []domain.NewWebUser
}

func newFakeWebUserRepo(users ...*domain.WebUser) *fakeWebUserRepo {
	f := &fakeWebUserRepo{users: map[string]*domain.WebUser{}}
	for _, u := range users {
		f.users[u.Email] = u
	}
	return f
}

func (f *fakeWebUserRepo) Create(ctx context.Context, user domain.NewWebUser) (*domain.WebUser, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if _, ok := f.users[user.Email]; ok {
		return nil, errUniqueViolation
	}
	f.created = append(f.created, user)
	created := &domain.WebUser{
		ID:           uuid.New(),
		FullName:     user.FullName,
		Email:        user.Email,
		MobileNumber: user.MobileNumber,
		Location:     user.Location,
		Company:      user.Company,
		PasswordHash: user.PasswordHash,
		PasswordSalt: user.PasswordSalt,
		IsActive:     true,
	}
	f.users[user.Email] = created
	return created, nil
}

func (f *fakeWebUserRepo) FindByEmail(ctx context.Context, email string) (*domain.WebUser, error) {
	if u, ok := f.users[email]; ok {
		clone := *u
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeWebUserRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.WebUser, error) {
	for _, u := range f.users {
		if u.ID == id {
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeWebUserRepo) ExistsByEmailOrMobile(ctx context.Context, email string, mobileNumber *string) (bool, error) {
	if f.existsErr != nil {
		return false, f.existsErr
	}
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
		if mobileNumber != nil && u.MobileNumber != nil && *u.MobileNumber == *mobileNumber {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeWebUserRepo) List(ctx context.Context, limit, offset int) ([]domain.WebUser, error) {
	out := make([]domain.WebUser, 0, len(f.users))
	for _, u := range f.users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	if offset >= len(out) {
		return []domain.WebUser{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}

func (f *fakeWebUserRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.users)), nil
}

func (f *fakeWebUserRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.WebUser, error) {
	for _, u := range f.users {
		if u.ID == id {
			u.IsActive = active
			clone := *u
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

type fakeAdminRepo struct {
	admins    map[uuid.UUID]*domain.Admin
	touched   []uuid.UUID
	createErr error
}

func newFakeAdminRepo(admins ...*domain.Admin) *fakeAdminRepo {
	f := &fakeAdminRepo{admins: map[uuid.UUID]*domain.Admin{}}
	for _, a := range admins {
		f.admins[a.ID] = a
	}
	return f
}

func (f *fakeAdminRepo) Create(ctx context.Context, fullName, email string, mobileNumber *string, passwordHash string, role domain.AdminRole) (*domain.Admin, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, a := range f.admins {
		if a.Email == email {
			return nil, errUniqueViolation
		}
	}
	admin := &domain.Admin{ID: uuid.New(), FullName: fullName, Email: email, MobileNumber: mobileNumber, PasswordHash: passwordHash, Role: role, IsActive: true}
	f.admins[admin.ID] = admin
	clone := *admin
	return &clone, nil
}

func (f *fakeAdminRepo) FindByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	for _, a := range f.admins {
		if a.Email == email {
			clone := *a
			return &clone, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAdminRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Admin, error) {
	if a, ok := f.admins[id]; ok {
		clone := *a
		return &clone, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAdminRepo) List(ctx context.Context, limit, offset int) ([]domain.Admin, error) {
	out := make([]domain.Admin, 0, len(f.admins))
	for _, a := range f.admins {
		out = append(out, *a)
	}
	return out, nil
}

func (f *fakeAdminRepo) Count(ctx context.Context) (int64, error) {
	return int64(len(f.admins)), nil
}

func (f *fakeAdminRepo) SetActive(ctx context.Context, id uuid.UUID, active bool) (*domain.Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	a.IsActive = active
	clone := *a
	return &clone, nil
}

func (f *fakeAdminRepo) SetRole(ctx context.Context, id uuid.UUID, role domain.AdminRole) (*domain.Admin, error) {
	a, ok := f.admins[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	a.Role = role
	clone := *a
	return &clone, nil
}

func (f *fakeAdminRepo) TouchLastLogin(ctx context.Context, id uuid.UUID, at time.Time) error {
	f.touched = append(f.touched, id)
	if a, ok := f.admins[id]; ok {
		a.LastLoginAt = &at
	}
	return nil
}

type uploadedObject struct {
	bucket      string
	objectName  string
	contentType string
	size        int64
}

type fakeStorage struct {
	uploaded []uploadedObject
	removed  []string
	err      error
}

func (f *fakeStorage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	if int64(len(data)) != size {
		return "", errors.New("size mismatch")
	}
	f.uploaded = append(f.uploaded, uploadedObject{bucket: bucket, objectName: objectName, contentType: contentType, size: size})
	return "https://storage.test/" + bucket + "/" + objectName, nil
}

func (f *fakeStorage) Remove(ctx context.Context, bucket, objectName string) error {
	f.removed = append(f.removed, bucket+"/"+objectName)
	return nil
}
