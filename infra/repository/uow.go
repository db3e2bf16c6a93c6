package repository

import (
	"context"
	"fmt"
	"reflect"

	accountinfra "github.com/amirasaad/budgettracker/infra/repository/account"
	notificationinfra "github.com/amirasaad/budgettracker/infra/repository/notification"
	profileinfra "github.com/amirasaad/budgettracker/infra/repository/profile"
	subscriptioninfra "github.com/amirasaad/budgettracker/infra/repository/subscription"
	transactioninfra "github.com/amirasaad/budgettracker/infra/repository/transaction"
	"github.com/amirasaad/budgettracker/pkg/repository"
	accountrepo "github.com/amirasaad/budgettracker/pkg/repository/account"
	notificationrepo "github.com/amirasaad/budgettracker/pkg/repository/notification"
	profilerepo "github.com/amirasaad/budgettracker/pkg/repository/profile"
	subscriptionrepo "github.com/amirasaad/budgettracker/pkg/repository/subscription"
	transactionrepo "github.com/amirasaad/budgettracker/pkg/repository/transaction"
	"gorm.io/gorm"
)

// UoW provides transaction boundary and repository access in one abstraction.
type UoW struct {
	db           *gorm.DB
	tx           *gorm.DB
	repoRegistry map[reflect.Type]func(*gorm.DB) any
}

// NewUoW creates a new UoW for the given *gorm.DB.
func NewUoW(db *gorm.DB) *UoW {
	return &UoW{
		db: db,
		repoRegistry: map[reflect.Type]func(*gorm.DB) any{
			typeOf((*accountrepo.Repository)(nil)):      func(db *gorm.DB) any { return accountinfra.New(db) },
			typeOf((*transactionrepo.Repository)(nil)):  func(db *gorm.DB) any { return transactioninfra.New(db) },
			typeOf((*profilerepo.Repository)(nil)):      func(db *gorm.DB) any { return profileinfra.New(db) },
			typeOf((*subscriptionrepo.Repository)(nil)): func(db *gorm.DB) any { return subscriptioninfra.New(db) },
			typeOf((*notificationrepo.Repository)(nil)): func(db *gorm.DB) any { return notificationinfra.New(db) },
		},
	}
}

// Do runs fn in a transaction, handing it a UoW bound to that transaction.
func (u *UoW) Do(ctx context.Context, fn func(uow repository.UnitOfWork) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&UoW{db: u.db, tx: tx, repoRegistry: u.repoRegistry})
	})
}

// GetRepository returns the repository registered for repoType, a nil pointer
// to a repository interface. Outside Do the repository uses the plain session.
func (u *UoW) GetRepository(repoType any) (any, error) {
	constructor, ok := u.repoRegistry[typeOf(repoType)]
	if !ok {
		return nil, fmt.Errorf("unsupported repository type: %T", repoType)
	}
	session := u.tx
	if session == nil {
		session = u.db
	}
	return constructor(session), nil
}

// Models lists every persisted model, in dependency order.
func Models() []any {
	return []any{
		&profileinfra.Profile{},
		&profileinfra.UserRole{},
		&accountinfra.Account{},
		&transactioninfra.Transaction{},
		&subscriptioninfra.Subscription{},
		&notificationinfra.Notification{},
	}
}

func typeOf(repoType any) reflect.Type {
	t := reflect.TypeOf(repoType)
	if t != nil && t.Kind() == reflect.Ptr {
		return t.Elem()
	}
	return t
}

var _ repository.UnitOfWork = (*UoW)(nil)
