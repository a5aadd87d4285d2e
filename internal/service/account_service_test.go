// internal/service/account_service_test.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"bank-system/internal/domain"
	"bank-system/internal/util"
	"bank-system/pkg/password"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type accountFixture struct {
	repo   *MockAccountRepository
	tx     *MockTx
	reader *MockDBExecutor
	hasher *password.BcryptHasher
	svc    AccountService
}

func newAccountFixture(numbers ...string) *accountFixture {
	f := &accountFixture{
		repo:   new(MockAccountRepository),
		tx:     new(MockTx),
		reader: new(MockDBExecutor),
		hasher: password.NewBcryptHasher(bcrypt.MinCost),
	}

	next := 0
	gen := func() string {
		n := numbers[next%len(numbers)]
		next++
		return n
	}

	begin, commit, rollback := txFuncs(f.tx)
	f.svc = NewAccountService(nil, f.reader, f.repo, f.hasher, begin, commit, rollback, newTestLogger(),
		WithAccountNumberGenerator(gen))
	return f
}

func (f *accountFixture) assertExpectations(t *testing.T) {
	mock.AssertExpectationsForObjects(t, f.repo, f.tx, f.reader)
}

func TestSignup(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newAccountFixture("12345678")

		f.repo.On("GetAccountByUsername", ctx, mock.Anything, "alice").Return(nil, util.ErrNotFound).Once()
		f.repo.On("AccountNumberExists", ctx, mock.Anything, "12345678").Return(false, nil).Once()
		f.repo.On("CreateAccount", ctx, mock.Anything, mock.AnythingOfType("*domain.Account")).
			Run(func(args mock.Arguments) {
				args.Get(2).(*domain.Account).ID = 1
			}).
			Return(nil).Once()
		f.tx.On("Commit").Return(nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		account, err := f.svc.Signup(ctx, "  alice ", "pw")

		require.NoError(t, err)
		assert.Equal(t, int64(1), account.ID)
		assert.Equal(t, "alice", account.Username)
		assert.Equal(t, "12345678", account.AccountNumber)
		assert.True(t, account.Balance.IsZero())
		assert.NotEqual(t, "pw", account.PasswordHash)
		assert.NoError(t, f.hasher.Compare(account.PasswordHash, "pw"))

		f.assertExpectations(t)
	})

	t.Run("RegeneratesTakenAccountNumber", func(t *testing.T) {
		f := newAccountFixture("11111111", "22222222")

		f.repo.On("GetAccountByUsername", ctx, mock.Anything, "alice").Return(nil, util.ErrNotFound).Once()
		f.repo.On("AccountNumberExists", ctx, mock.Anything, "11111111").Return(true, nil).Once()
		f.repo.On("AccountNumberExists", ctx, mock.Anything, "22222222").Return(false, nil).Once()
		f.repo.On("CreateAccount", ctx, mock.Anything, mock.MatchedBy(func(a *domain.Account) bool {
			return a.AccountNumber == "22222222"
		})).Return(nil).Once()
		f.tx.On("Commit").Return(nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		account, err := f.svc.Signup(ctx, "alice", "pw")

		require.NoError(t, err)
		assert.Equal(t, "22222222", account.AccountNumber)
		f.assertExpectations(t)
	})

	t.Run("GivesUpAfterRepeatedCollisions", func(t *testing.T) {
		f := newAccountFixture("11111111")

		f.repo.On("GetAccountByUsername", ctx, mock.Anything, "alice").Return(nil, util.ErrNotFound).Once()
		f.repo.On("AccountNumberExists", ctx, mock.Anything, "11111111").Return(true, nil).Times(maxAccountNumberAttempts)
		f.tx.On("Rollback").Return(nil).Once()

		account, err := f.svc.Signup(ctx, "alice", "pw")

		assert.Nil(t, account)
		assert.ErrorContains(t, err, "no free account number")
		f.repo.AssertNotCalled(t, "CreateAccount", mock.Anything, mock.Anything, mock.Anything)
		f.tx.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})

	t.Run("DuplicateUsername", func(t *testing.T) {
		f := newAccountFixture("12345678")

		existing := domain.NewAccount("alice", "hash", "87654321")
		f.repo.On("GetAccountByUsername", ctx, mock.Anything, "alice").Return(existing, nil).Once()
		f.tx.On("Rollback").Return(nil).Once()

		account, err := f.svc.Signup(ctx, "alice", "pw")

		assert.Nil(t, account)
		assert.ErrorIs(t, err, util.ErrDuplicateUsername)
		f.tx.AssertNotCalled(t, "Commit")
		f.assertExpectations(t)
	})

	t.Run("DuplicateUsernameRace", func(t *testing.T) {
		f := newAccountFixture("12345678")

		f.repo.On("GetAccountByUsername", ctx, mock.Anything, "alice").Return(nil, util.ErrNotFound).Once()
		f.repo.On("AccountNumberExists", ctx, mock.Anything, "12345678").Return(false, nil).Once()
		f.repo.On("CreateAccount", ctx, mock.Anything, mock.Anything).
			Return(fmt.Errorf("failed to create account 'alice': %w", util.ErrDuplicateEntry)).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.svc.Signup(ctx, "alice", "pw")

		assert.ErrorIs(t, err, util.ErrDuplicateUsername)
		f.assertExpectations(t)
	})

	t.Run("InvalidInput", func(t *testing.T) {
		f := newAccountFixture("12345678")

		_, err := f.svc.Signup(ctx, "   ", "")
		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.ErrorContains(t, err, "username is required")
		assert.ErrorContains(t, err, "password is required")

		_, err = f.svc.Signup(ctx, string(make([]byte, maxUsernameLength+1)), "pw")
		assert.ErrorIs(t, err, util.ErrInvalidInput)

		_, err = f.svc.Signup(ctx, "bob", strings.Repeat("a", password.MaxLength+1))
		assert.ErrorIs(t, err, util.ErrInvalidInput)
		assert.ErrorContains(t, err, "password must be at most 72 bytes")

		f.tx.AssertNotCalled(t, "Rollback")
		f.assertExpectations(t)
	})

	t.Run("LookupError", func(t *testing.T) {
		f := newAccountFixture("12345678")

		f.repo.On("GetAccountByUsername", ctx, mock.Anything, "alice").Return(nil, errors.New("db error")).Once()
		f.tx.On("Rollback").Return(nil).Once()

		_, err := f.svc.Signup(ctx, "alice", "pw")

		assert.ErrorContains(t, err, "failed to check existing account")
		f.assertExpectations(t)
	})
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		f := newAccountFixture("12345678")
		hash, err := f.hasher.Hash("pw")
		require.NoError(t, err)
		stored := &domain.Account{ID: 3, Username: "alice", PasswordHash: hash}

		f.repo.On("GetAccountByUsername", ctx, f.reader, "alice").Return(stored, nil).Once()

		account, err := f.svc.Authenticate(ctx, "alice", "pw")

		require.NoError(t, err)
		assert.Equal(t, int64(3), account.ID)
		f.assertExpectations(t)
	})

	t.Run("WrongPassword", func(t *testing.T) {
		f := newAccountFixture("12345678")
		hash, err := f.hasher.Hash("pw")
		require.NoError(t, err)

		f.repo.On("GetAccountByUsername", ctx, f.reader, "alice").
			Return(&domain.Account{ID: 3, Username: "alice", PasswordHash: hash}, nil).Once()

		account, err := f.svc.Authenticate(ctx, "alice", "PW")

		assert.Nil(t, account)
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
		f.assertExpectations(t)
	})

	t.Run("UnknownUsername", func(t *testing.T) {
		f := newAccountFixture("12345678")

		f.repo.On("GetAccountByUsername", ctx, f.reader, "mallory").Return(nil, util.ErrNotFound).Once()

		account, err := f.svc.Authenticate(ctx, "mallory", "pw")

		assert.Nil(t, account)
		assert.ErrorIs(t, err, util.ErrInvalidCredentials)
		f.assertExpectations(t)
	})
}

func TestGetAccount(t *testing.T) {
	ctx := context.Background()
	f := newAccountFixture("12345678")

	f.repo.On("GetAccountByID", ctx, f.reader, int64(9)).Return(nil, util.ErrNotFound).Once()

	_, err := f.svc.GetAccount(ctx, 9)

	assert.ErrorIs(t, err, util.ErrNotFound)
	f.assertExpectations(t)
}
