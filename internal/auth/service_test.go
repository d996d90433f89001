package auth

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/chnm/relcensus-backend/internal/auditlog"
)

type fakeRepo struct {
	users map[string]*User
	roles map[string]*UserRole
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users: map[string]*User{},
		roles: map[string]*UserRole{
			RoleSuperAdmin:  {ID: 1, RoleName: RoleSuperAdmin},
			RoleReviewer:    {ID: 2, RoleName: RoleReviewer, CanRegister: true},
			RoleTranscriber: {ID: 3, RoleName: RoleTranscriber, CanRegister: true},
		},
	}
}

func (r *fakeRepo) Create(user *User) error {
	user.ID = uint(len(r.users) + 1)
	r.users[user.Email] = user
	return nil
}

func (r *fakeRepo) FindByEmail(email string) (*User, error) {
	if u, ok := r.users[email]; ok {
		return u, nil
	}
	return nil, errors.New("not found")
}

func (r *fakeRepo) FindByID(userID uint) (User, error) {
	for _, u := range r.users {
		if u.ID == userID {
			return *u, nil
		}
	}
	return User{}, errors.New("not found")
}

func (r *fakeRepo) FindRoleByName(name string) (*UserRole, error) {
	if role, ok := r.roles[name]; ok {
		return role, nil
	}
	return nil, errors.New("not found")
}

func (r *fakeRepo) Update(user *User) error { return nil }

func (r *fakeRepo) GetUserEmailsByRole(roleName string) ([]string, error) { return nil, nil }

func (r *fakeRepo) GetUserIDsByRole(roleName string) ([]uint, error) { return nil, nil }

func (r *fakeRepo) addUser(email, password, roleName string, status string) *User {
	hash, _ := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	user := &User{
		ID:           uint(len(r.users) + 1),
		FullName:     "Test User",
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       r.roles[roleName].ID,
		Role:         *r.roles[roleName],
		Status:       status,
	}
	r.users[email] = user
	return user
}

type fakeAudit struct {
	actions []string
}

func (a *fakeAudit) Record(userID *uint, userEmail, action string, scheduleID *uint, resourceID, ip string, details map[string]interface{}) {
	a.actions = append(a.actions, action)
}

func (a *fakeAudit) List(filter auditlog.Filter) ([]auditlog.AuditLog, int64, error) {
	return nil, 0, nil
}

func newTestService(repo Repository) Service {
	return NewService(repo, &fakeAudit{}, "test-secret")
}

func TestLogin(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("reviewer@example.org", "correct horse", RoleReviewer, "active")
	audit := &fakeAudit{}
	svc := NewService(repo, audit, "test-secret")

	pair, user, err := svc.Login("reviewer@example.org", "correct horse", "10.0.0.1")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, RoleReviewer, user.Role.RoleName)
	assert.Contains(t, audit.actions, auditlog.ActionLogin)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("reviewer@example.org", "correct horse", RoleReviewer, "active")
	audit := &fakeAudit{}

	_, _, err := NewService(repo, audit, "test-secret").Login("reviewer@example.org", "wrong", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.Empty(t, audit.actions, "failed logins are not audited")
}

func TestLoginUnknownUser(t *testing.T) {
	_, _, err := newTestService(newFakeRepo()).Login("nobody@example.org", "whatever", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUser(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("gone@example.org", "correct horse", RoleTranscriber, "disabled")

	_, _, err := newTestService(repo).Login("gone@example.org", "correct horse", "")
	assert.ErrorIs(t, err, ErrInactiveUser)
}

func TestRefresh(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("reviewer@example.org", "correct horse", RoleReviewer, "active")
	svc := newTestService(repo)

	pair, _, err := svc.Login("reviewer@example.org", "correct horse", "")
	require.NoError(t, err)

	fresh, err := svc.Refresh(pair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, fresh.AccessToken)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	repo := newFakeRepo()
	repo.addUser("reviewer@example.org", "correct horse", RoleReviewer, "active")
	svc := newTestService(repo)

	pair, _, err := svc.Login("reviewer@example.org", "correct horse", "")
	require.NoError(t, err)

	_, err = svc.Refresh(pair.AccessToken)
	assert.Error(t, err)
}

func TestRegister(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	user, err := svc.Register("New Transcriber", "new@example.org", "long password", RoleTranscriber)
	require.NoError(t, err)
	assert.Equal(t, repo.roles[RoleTranscriber].ID, user.RoleID)
	assert.NotEqual(t, "long password", user.PasswordHash)
}

func TestRegisterSuperAdminBlocked(t *testing.T) {
	_, err := newTestService(newFakeRepo()).Register("Sneaky", "admin@example.org", "password", RoleSuperAdmin)
	assert.Error(t, err)
}
