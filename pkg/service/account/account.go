// Package account orchestrates bank linking and transaction ingestion for
// linked accounts.
//
// LinkAccounts treats account creation as must-succeed and the trailing
// transaction ingest as best-effort: an ingest failure is logged, the new
// accounts are marked failed and the link still succeeds. SyncAccount
// propagates the first error it meets.
package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/domain"
	"github.com/amirasaad/budgettracker/pkg/domain/account"
	"github.com/amirasaad/budgettracker/pkg/domain/events"
	"github.com/amirasaad/budgettracker/pkg/dto"
	"github.com/amirasaad/budgettracker/pkg/eventbus"
	"github.com/amirasaad/budgettracker/pkg/provider"
	"github.com/amirasaad/budgettracker/pkg/repository"
	accountrepo "github.com/amirasaad/budgettracker/pkg/repository/account"
	transactionrepo "github.com/amirasaad/budgettracker/pkg/repository/transaction"
	"github.com/google/uuid"
)

const defaultSyncWindow = 30 * 24 * time.Hour

// LinkResult is the outcome of a link flow.
type LinkResult struct {
	AccountsCount      int
	TransactionsSynced int
}

// Service links bank connections and keeps their transactions in sync.
type Service struct {
	uow        repository.UnitOfWork
	aggregator provider.Aggregator
	eventBus   eventbus.Bus
	logger     *slog.Logger
	window     time.Duration
	now        func() time.Time
}

// NewService creates a new Service with the provided dependencies.
func NewService(deps config.Deps) *Service {
	window := defaultSyncWindow
	if deps.Config != nil && deps.Config.Plaid != nil && deps.Config.Plaid.SyncWindowDays > 0 {
		window = time.Duration(deps.Config.Plaid.SyncWindowDays) * 24 * time.Hour
	}
	return &Service{
		uow:        deps.Uow,
		aggregator: deps.Aggregator,
		eventBus:   deps.EventBus,
		logger:     deps.Logger.With("service", "account"),
		window:     window,
		now:        time.Now,
	}
}

// CreateLinkSession opens an aggregator link session for userID and returns
// its short-lived token.
func (s *Service) CreateLinkSession(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := s.aggregator.CreateLinkToken(ctx, userID.String())
	if err != nil {
		s.logger.Error("create link token failed", "userID", userID, "error", err)
		return "", err
	}
	return token, nil
}

// LinkAccounts exchanges publicToken, creates an account per external
// account of the item and ingests the trailing window of transactions.
func (s *Service) LinkAccounts(
	ctx context.Context,
	userID uuid.UUID,
	publicToken string,
) (*LinkResult, error) {
	log := s.logger.With("op", "link", "userID", userID)

	exchange, err := s.aggregator.ExchangePublicToken(ctx, publicToken)
	if err != nil {
		log.Error("public token exchange failed", "error", err)
		return nil, err
	}
	log = log.With("itemID", exchange.ItemID)
	log.Info("public token exchanged")

	list, err := s.aggregator.ListAccounts(ctx, exchange.AccessToken)
	if err != nil {
		log.Error("fetching accounts failed", "error", err)
		return nil, err
	}
	log.Info("accounts fetched", "count", len(list.Accounts))

	link := account.Link{
		AccessToken:     exchange.AccessToken,
		ItemID:          exchange.ItemID,
		InstitutionID:   list.InstitutionID,
		InstitutionName: s.institutionName(ctx, log, list.InstitutionID),
	}

	accounts := make([]account.Account, 0, len(list.Accounts))
	for _, ext := range list.Accounts {
		accounts = append(accounts, account.NewAccountFromExternal(userID, link, ext))
	}
	if len(accounts) > 0 {
		err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			repo, err := repository.Resolve[accountrepo.Repository](uow)
			if err != nil {
				return err
			}
			return repo.CreateMany(ctx, accounts)
		})
		if err != nil {
			log.Error("creating accounts failed", "error", err)
			return nil, err
		}
	}
	log.Info("accounts created", "count", len(accounts))

	synced := 0
	if len(accounts) > 0 {
		synced = s.ingestInitial(ctx, log, userID, exchange.AccessToken, accounts)
	}

	s.emit(ctx, log, events.AccountsLinked{
		UserID:             userID,
		ItemID:             exchange.ItemID,
		InstitutionName:    link.InstitutionName,
		AccountsCount:      len(accounts),
		TransactionsSynced: synced,
		Timestamp:          s.now().UTC(),
	})

	return &LinkResult{AccountsCount: len(accounts), TransactionsSynced: synced}, nil
}

func (s *Service) institutionName(ctx context.Context, log *slog.Logger, institutionID string) string {
	if institutionID == "" {
		return account.UnknownInstitution
	}
	name, err := s.aggregator.LookupInstitution(ctx, institutionID)
	if err != nil || name == "" {
		log.Warn("institution lookup failed, using placeholder", "institutionID", institutionID, "error", err)
		return account.UnknownInstitution
	}
	return name
}

// ingestInitial never fails the link. It returns the number of transactions
// written, or zero after marking the new accounts failed.
func (s *Service) ingestInitial(
	ctx context.Context,
	log *slog.Logger,
	userID uuid.UUID,
	accessToken string,
	accounts []account.Account,
) int {
	ids := make(map[string]uuid.UUID, len(accounts))
	for _, a := range accounts {
		ids[a.PlaidAccountID] = a.ID
	}

	end := s.now().UTC()
	var written int
	ext, err := s.aggregator.ListTransactions(ctx, accessToken, end.Add(-s.window), end)
	if err == nil {
		txs := account.NormalizeTransactions(userID, ids, ext)
		err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
			txRepo, err := repository.Resolve[transactionrepo.Repository](uow)
			if err != nil {
				return err
			}
			if written, err = txRepo.UpsertMany(ctx, txs); err != nil {
				return err
			}
			warnSkipped(log, len(txs), written)
			return s.markAccounts(ctx, uow, userID, accounts, account.SyncSynced, &end)
		})
	}
	if err == nil {
		log.Info("initial transactions synced", "count", written)
		return written
	}

	log.Warn("initial transaction sync failed, accounts kept", "error", err)
	markErr := s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		return s.markAccounts(ctx, uow, userID, accounts, account.SyncFailed, nil)
	})
	if markErr != nil {
		log.Error("marking accounts as failed", "error", markErr)
	}
	return 0
}

// warnSkipped reports transactions the store refused because their external
// id is already held by another user, as when two users link the same item.
func warnSkipped(log *slog.Logger, normalized, written int) {
	if written < normalized {
		log.Warn("transactions skipped, external ids owned by another user",
			"normalized", normalized, "written", written, "skipped", normalized-written)
	}
}

func (s *Service) markAccounts(
	ctx context.Context,
	uow repository.UnitOfWork,
	userID uuid.UUID,
	accounts []account.Account,
	status account.SyncStatus,
	syncedAt *time.Time,
) error {
	repo, err := repository.Resolve[accountrepo.Repository](uow)
	if err != nil {
		return err
	}
	for _, a := range accounts {
		update := dto.AccountUpdate{SyncStatus: &status, LastSyncedAt: syncedAt}
		if err := repo.Update(ctx, userID, a.ID, update); err != nil {
			return err
		}
	}
	return nil
}

// SyncAccount re-ingests the trailing window of transactions for one
// account owned by userID. Rows already stored are overwritten, so repeated
// calls are safe.
func (s *Service) SyncAccount(ctx context.Context, userID, accountID uuid.UUID) (int, error) {
	log := s.logger.With("op", "sync", "userID", userID, "accountID", accountID)

	acc, err := s.getAccount(ctx, userID, accountID)
	if err != nil {
		return 0, err
	}
	if !acc.IsLinked() {
		log.Warn("sync requested for unlinked account")
		return 0, domain.ErrNotLinked
	}

	end := s.now().UTC()
	ext, err := s.aggregator.ListTransactions(ctx, acc.PlaidAccessToken, end.Add(-s.window), end)
	if err != nil {
		log.Error("fetching transactions failed", "error", err)
		return 0, err
	}
	// The aggregator returns the whole item; keep only this account's rows.
	txs := account.NormalizeTransactions(userID, map[string]uuid.UUID{acc.PlaidAccountID: acc.ID}, ext)

	var written int
	err = s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		txRepo, err := repository.Resolve[transactionrepo.Repository](uow)
		if err != nil {
			return err
		}
		if written, err = txRepo.UpsertMany(ctx, txs); err != nil {
			return err
		}
		warnSkipped(log, len(txs), written)
		return s.markAccounts(ctx, uow, userID, []account.Account{*acc}, account.SyncSynced, &end)
	})
	if err != nil {
		log.Error("storing transactions failed", "error", err)
		return 0, err
	}
	log.Info("account synced", "fetched", len(ext), "written", written)

	s.emit(ctx, log, events.AccountSynced{
		UserID:             userID,
		AccountID:          acc.ID,
		TransactionsSynced: written,
		Timestamp:          end,
	})
	return written, nil
}

// ListAccounts lists the caller's accounts.
func (s *Service) ListAccounts(ctx context.Context, userID uuid.UUID) ([]*account.Account, error) {
	repo, err := repository.Resolve[accountrepo.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	return repo.ListByUser(ctx, userID)
}

// DisconnectAccount deactivates an account. Rows are never deleted.
func (s *Service) DisconnectAccount(ctx context.Context, userID, accountID uuid.UUID) error {
	inactive := false
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Resolve[accountrepo.Repository](uow)
		if err != nil {
			return err
		}
		return repo.Update(ctx, userID, accountID, dto.AccountUpdate{IsActive: &inactive})
	})
}

// ListTransactions lists an owned account's transactions, newest first.
func (s *Service) ListTransactions(
	ctx context.Context,
	userID, accountID uuid.UUID,
) ([]*account.Transaction, error) {
	if _, err := s.getAccount(ctx, userID, accountID); err != nil {
		return nil, err
	}
	repo, err := repository.Resolve[transactionrepo.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	return repo.ListByAccount(ctx, userID, accountID)
}

// AssignCategory sets or clears (nil) a transaction's category.
func (s *Service) AssignCategory(
	ctx context.Context,
	userID, transactionID uuid.UUID,
	categoryID *uuid.UUID,
) error {
	return s.uow.Do(ctx, func(uow repository.UnitOfWork) error {
		repo, err := repository.Resolve[transactionrepo.Repository](uow)
		if err != nil {
			return err
		}
		return repo.SetCategory(ctx, userID, transactionID, categoryID)
	})
}

func (s *Service) getAccount(ctx context.Context, userID, accountID uuid.UUID) (*account.Account, error) {
	repo, err := repository.Resolve[accountrepo.Repository](s.uow)
	if err != nil {
		return nil, err
	}
	acc, err := repo.Get(ctx, userID, accountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("loading account: %w", err)
	}
	return acc, nil
}

// emit publishes best-effort; the operation already committed.
func (s *Service) emit(ctx context.Context, log *slog.Logger, event events.Event) {
	if s.eventBus == nil {
		return
	}
	if err := s.eventBus.Emit(ctx, event); err != nil {
		log.Warn("publishing event failed", "type", event.Type(), "error", err)
	}
}
