package mocks

import (
	"context"
	"fmt"
	"reflect"

	"github.com/amirasaad/budgettracker/pkg/repository"
)

// UnitOfWork is an in-memory repository.UnitOfWork. GetRepository returns the
// first registered repository implementing the requested interface, and Do
// runs fn directly. Err, when set, is returned by Do without calling fn.
type UnitOfWork struct {
	repos []any
	Err   error
	Calls int
}

// NewUnitOfWork registers repos, typically mocks from this package.
func NewUnitOfWork(repos ...any) *UnitOfWork {
	return &UnitOfWork{repos: repos}
}

func (u *UnitOfWork) Do(_ context.Context, fn func(uow repository.UnitOfWork) error) error {
	u.Calls++
	if u.Err != nil {
		return u.Err
	}
	return fn(u)
}

func (u *UnitOfWork) GetRepository(repoType any) (any, error) {
	t := reflect.TypeOf(repoType)
	if t == nil || t.Kind() != reflect.Ptr || t.Elem().Kind() != reflect.Interface {
		return nil, fmt.Errorf("unsupported repository type: %T", repoType)
	}
	for _, r := range u.repos {
		if reflect.TypeOf(r).Implements(t.Elem()) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("no repository registered for %s", t.Elem())
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)
