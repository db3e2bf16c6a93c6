package repository

import (
	"context"
	"fmt"
)

// UnitOfWork defines the contract for transactional work and repository access.
//
// Do runs fn in a transaction boundary; every repository obtained from the
// UnitOfWork passed to fn shares that transaction. GetRepository takes a nil
// pointer to the repository interface, e.g.
//
//	repoAny, err := uow.GetRepository((*account.Repository)(nil))
type UnitOfWork interface {
	Do(ctx context.Context, fn func(uow UnitOfWork) error) error
	GetRepository(repoType any) (any, error)
}

// Resolve returns the repository of interface type T bound to uow.
func Resolve[T any](uow UnitOfWork) (T, error) {
	var zero T
	repoAny, err := uow.GetRepository((*T)(nil))
	if err != nil {
		return zero, err
	}
	repo, ok := repoAny.(T)
	if !ok {
		return zero, fmt.Errorf("unexpected repository type %T", repoAny)
	}
	return repo, nil
}
