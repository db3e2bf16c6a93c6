// Package plaid implements provider.Aggregator on the Plaid API.
package plaid

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/amirasaad/budgettracker/pkg/cache"
	"github.com/amirasaad/budgettracker/pkg/config"
	"github.com/amirasaad/budgettracker/pkg/domain"
	"github.com/amirasaad/budgettracker/pkg/domain/account"
	"github.com/amirasaad/budgettracker/pkg/provider"
	plaidapi "github.com/plaid/plaid-go/v29/plaid"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

// Provider implements provider.Aggregator. Every call waits on a shared rate
// limiter and runs under its own timeout.
type Provider struct {
	api     api
	cfg     *config.Plaid
	limiter *rate.Limiter
	cache   cache.InstitutionCache
	group   singleflight.Group
	logger  *slog.Logger
}

// New creates a Plaid-backed aggregator. institutions may be nil.
func New(cfg *config.Plaid, institutions cache.InstitutionCache, logger *slog.Logger) *Provider {
	httpClient := &http.Client{Timeout: cfg.Timeout}
	return newProvider(newAPIClient(cfg.ClientID, cfg.Secret, cfg.Env, httpClient), cfg, institutions, logger)
}

func newProvider(client api, cfg *config.Plaid, institutions cache.InstitutionCache, logger *slog.Logger) *Provider {
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 1
	}
	return &Provider{
		api:     client,
		cfg:     cfg,
		limiter: rate.NewLimiter(limit, burst),
		cache:   institutions,
		logger:  logger.With("provider", "plaid"),
	}
}

// call waits for a limiter token and derives the per-call deadline.
func (p *Provider) call(ctx context.Context) (context.Context, context.CancelFunc, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, nil, mapError(err, domain.ErrUpstreamFetch)
	}
	if p.cfg.Timeout <= 0 {
		ctx, cancel := context.WithCancel(ctx)
		return ctx, cancel, nil
	}
	ctx, cancel := context.WithTimeout(ctx, p.cfg.Timeout)
	return ctx, cancel, nil
}

// CreateLinkToken implements provider.Aggregator.
func (p *Provider) CreateLinkToken(ctx context.Context, userID string) (string, error) {
	ctx, cancel, err := p.call(ctx)
	if err != nil {
		return "", err
	}
	defer cancel()

	user := plaidapi.LinkTokenCreateRequestUser{ClientUserId: userID}
	req := plaidapi.NewLinkTokenCreateRequest(p.cfg.ClientName, p.cfg.Language, p.countryCodes(), user)
	products := make([]plaidapi.Products, 0, len(p.cfg.Products))
	for _, product := range p.cfg.Products {
		products = append(products, plaidapi.Products(product))
	}
	req.SetProducts(products)

	resp, err := p.api.LinkTokenCreate(ctx, *req)
	if err != nil {
		return "", mapError(err, domain.ErrUpstreamFetch)
	}
	return resp.GetLinkToken(), nil
}

// ExchangePublicToken implements provider.Aggregator.
func (p *Provider) ExchangePublicToken(ctx context.Context, publicToken string) (*provider.TokenExchange, error) {
	ctx, cancel, err := p.call(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := p.api.ItemPublicTokenExchange(ctx, *plaidapi.NewItemPublicTokenExchangeRequest(publicToken))
	if err != nil {
		return nil, mapError(err, domain.ErrUpstreamExchange)
	}
	return &provider.TokenExchange{AccessToken: resp.GetAccessToken(), ItemID: resp.GetItemId()}, nil
}

// ListAccounts implements provider.Aggregator.
func (p *Provider) ListAccounts(ctx context.Context, accessToken string) (*provider.AccountList, error) {
	ctx, cancel, err := p.call(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	resp, err := p.api.AccountsGet(ctx, *plaidapi.NewAccountsGetRequest(accessToken))
	if err != nil {
		return nil, mapError(err, domain.ErrUpstreamFetch)
	}
	item := resp.GetItem()
	out := &provider.AccountList{InstitutionID: item.GetInstitutionId()}
	for _, a := range resp.GetAccounts() {
		out.Accounts = append(out.Accounts, mapAccount(a))
	}
	return out, nil
}

// ListTransactions implements provider.Aggregator. It pages through the whole
// window, PageSize rows at a time.
func (p *Provider) ListTransactions(
	ctx context.Context,
	accessToken string,
	start, end time.Time,
) ([]account.ExternalTransaction, error) {
	pageSize := p.cfg.PageSize
	if pageSize <= 0 {
		pageSize = 500
	}
	var out []account.ExternalTransaction
	for offset := int32(0); ; {
		page, total, err := p.transactionsPage(ctx, accessToken, start, end, offset, pageSize)
		if err != nil {
			return nil, err
		}
		out = append(out, page...)
		offset += int32(len(page))
		if len(page) == 0 || offset >= total {
			break
		}
	}
	p.logger.Debug("transactions fetched", "count", len(out))
	return out, nil
}

func (p *Provider) transactionsPage(
	ctx context.Context,
	accessToken string,
	start, end time.Time,
	offset, count int32,
) ([]account.ExternalTransaction, int32, error) {
	ctx, cancel, err := p.call(ctx)
	if err != nil {
		return nil, 0, err
	}
	defer cancel()

	req := plaidapi.NewTransactionsGetRequest(accessToken, start.Format(time.DateOnly), end.Format(time.DateOnly))
	req.SetOptions(plaidapi.TransactionsGetRequestOptions{
		Count:  plaidapi.PtrInt32(count),
		Offset: plaidapi.PtrInt32(offset),
	})
	resp, err := p.api.TransactionsGet(ctx, *req)
	if err != nil {
		return nil, 0, mapError(err, domain.ErrUpstreamFetch)
	}
	page := make([]account.ExternalTransaction, 0, len(resp.GetTransactions()))
	for _, t := range resp.GetTransactions() {
		ext, err := mapTransaction(t)
		if err != nil {
			return nil, 0, fmt.Errorf("%w: %w", domain.ErrUpstreamFetch, err)
		}
		page = append(page, ext)
	}
	return page, resp.GetTotalTransactions(), nil
}

// LookupInstitution implements provider.Aggregator. Concurrent lookups of the
// same id share one upstream call and results are cached.
func (p *Provider) LookupInstitution(ctx context.Context, institutionID string) (string, error) {
	if institutionID == "" {
		return "", fmt.Errorf("%w: empty institution id", domain.ErrUpstreamFetch)
	}
	if p.cache != nil {
		name, ok, err := p.cache.Get(ctx, institutionID)
		if err != nil {
			p.logger.Warn("institution cache read failed", "institution_id", institutionID, "error", err)
		} else if ok {
			return name, nil
		}
	}

	v, err, _ := p.group.Do(institutionID, func() (any, error) {
		callCtx, cancel, err := p.call(ctx)
		if err != nil {
			return "", err
		}
		defer cancel()

		req := plaidapi.NewInstitutionsGetByIdRequest(institutionID, p.countryCodes())
		resp, err := p.api.InstitutionsGetById(callCtx, *req)
		if err != nil {
			return "", mapError(err, domain.ErrUpstreamFetch)
		}
		institution := resp.GetInstitution()
		name := institution.GetName()
		if p.cache != nil {
			if err := p.cache.Set(ctx, institutionID, name, p.cfg.InstitutionCacheTTL); err != nil {
				p.logger.Warn("institution cache write failed", "institution_id", institutionID, "error", err)
			}
		}
		return name, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (p *Provider) countryCodes() []plaidapi.CountryCode {
	codes := make([]plaidapi.CountryCode, 0, len(p.cfg.CountryCodes))
	for _, c := range p.cfg.CountryCodes {
		codes = append(codes, plaidapi.CountryCode(c))
	}
	if len(codes) == 0 {
		codes = append(codes, plaidapi.COUNTRYCODE_US)
	}
	return codes
}

func mapAccount(a plaidapi.AccountBase) account.ExternalAccount {
	balances := a.GetBalances()
	ext := account.ExternalAccount{
		AccountID:       a.GetAccountId(),
		Type:            string(a.GetType()),
		Subtype:         string(a.GetSubtype()),
		Name:            a.GetName(),
		Mask:            a.GetMask(),
		ISOCurrencyCode: balances.GetIsoCurrencyCode(),
	}
	if current, ok := balances.GetCurrentOk(); ok && current != nil {
		v := *current
		ext.CurrentBalance = &v
	}
	return ext
}

func mapTransaction(t plaidapi.Transaction) (account.ExternalTransaction, error) {
	date, err := time.Parse(time.DateOnly, t.GetDate())
	if err != nil {
		return account.ExternalTransaction{}, fmt.Errorf("transaction %s: invalid date %q", t.GetTransactionId(), t.GetDate())
	}
	return account.ExternalTransaction{
		TransactionID:   t.GetTransactionId(),
		AccountID:       t.GetAccountId(),
		Amount:          t.GetAmount(),
		ISOCurrencyCode: t.GetIsoCurrencyCode(),
		Date:            date,
		Name:            t.GetName(),
		MerchantName:    t.GetMerchantName(),
		Pending:         t.GetPending(),
		Category:        t.GetCategory(),
		TransactionType: string(t.GetTransactionType()),
	}, nil
}

// mapError classifies an upstream failure. Deadlines become
// ErrUpstreamTimeout; everything else becomes kind, with the Plaid error code
// kept in the message when one is present.
func mapError(err error, kind error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %w", domain.ErrUpstreamTimeout, err)
	}
	if perr, convErr := plaidapi.ToPlaidError(err); convErr == nil && perr.ErrorCode != "" {
		return fmt.Errorf("%w: %s: %s", kind, perr.ErrorCode, perr.ErrorMessage)
	}
	return fmt.Errorf("%w: %w", kind, err)
}

var _ provider.Aggregator = (*Provider)(nil)
