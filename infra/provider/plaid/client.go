package plaid

import (
	"context"
	"net/http"

	plaidapi "github.com/plaid/plaid-go/v29/plaid"
)

// api is the slice of the Plaid API the provider calls.
type api interface {
	LinkTokenCreate(ctx context.Context, req plaidapi.LinkTokenCreateRequest) (plaidapi.LinkTokenCreateResponse, error)
	ItemPublicTokenExchange(ctx context.Context, req plaidapi.ItemPublicTokenExchangeRequest) (plaidapi.ItemPublicTokenExchangeResponse, error)
	AccountsGet(ctx context.Context, req plaidapi.AccountsGetRequest) (plaidapi.AccountsGetResponse, error)
	TransactionsGet(ctx context.Context, req plaidapi.TransactionsGetRequest) (plaidapi.TransactionsGetResponse, error)
	InstitutionsGetById(ctx context.Context, req plaidapi.InstitutionsGetByIdRequest) (plaidapi.InstitutionsGetByIdResponse, error)
}

var environments = map[string]plaidapi.Environment{
	"sandbox":    plaidapi.Sandbox,
	"production": plaidapi.Production,
}

type apiClient struct {
	svc *plaidapi.PlaidApiService
}

func newAPIClient(clientID, secret, env string, httpClient *http.Client) *apiClient {
	configuration := plaidapi.NewConfiguration()
	configuration.AddDefaultHeader("PLAID-CLIENT-ID", clientID)
	configuration.AddDefaultHeader("PLAID-SECRET", secret)
	environment, ok := environments[env]
	if !ok {
		environment = plaidapi.Sandbox
	}
	configuration.UseEnvironment(environment)
	if httpClient != nil {
		configuration.HTTPClient = httpClient
	}
	return &apiClient{svc: plaidapi.NewAPIClient(configuration).PlaidApi}
}

func (c *apiClient) LinkTokenCreate(
	ctx context.Context,
	req plaidapi.LinkTokenCreateRequest,
) (plaidapi.LinkTokenCreateResponse, error) {
	resp, _, err := c.svc.LinkTokenCreate(ctx).LinkTokenCreateRequest(req).Execute()
	return resp, err
}

func (c *apiClient) ItemPublicTokenExchange(
	ctx context.Context,
	req plaidapi.ItemPublicTokenExchangeRequest,
) (plaidapi.ItemPublicTokenExchangeResponse, error) {
	resp, _, err := c.svc.ItemPublicTokenExchange(ctx).ItemPublicTokenExchangeRequest(req).Execute()
	return resp, err
}

func (c *apiClient) AccountsGet(
	ctx context.Context,
	req plaidapi.AccountsGetRequest,
) (plaidapi.AccountsGetResponse, error) {
	resp, _, err := c.svc.AccountsGet(ctx).AccountsGetRequest(req).Execute()
	return resp, err
}

func (c *apiClient) TransactionsGet(
	ctx context.Context,
	req plaidapi.TransactionsGetRequest,
) (plaidapi.TransactionsGetResponse, error) {
	resp, _, err := c.svc.TransactionsGet(ctx).TransactionsGetRequest(req).Execute()
	return resp, err
}

func (c *apiClient) InstitutionsGetById(
	ctx context.Context,
	req plaidapi.InstitutionsGetByIdRequest,
) (plaidapi.InstitutionsGetByIdResponse, error) {
	resp, _, err := c.svc.InstitutionsGetById(ctx).InstitutionsGetByIdRequest(req).Execute()
	return resp, err
}
