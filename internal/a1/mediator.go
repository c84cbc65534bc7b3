package a1

import (
	"context"

	"go.uber.org/zap"
)

// MediatorClient talks A1-P v2 directly to a Near-RT RIC.
type MediatorClient struct {
	ric    RicConfig
	rest   RestClient
	uri    URIBuilder
	logger *zap.Logger
}

var _ Client = (*MediatorClient)(nil)

// NewMediatorClient returns a direct adapter for ric. The RestClient must
// accept absolute URLs.
func NewMediatorClient(ric RicConfig, rest RestClient, logger *zap.Logger) *MediatorClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("a1-mediator").With(zap.String("ric", ric.ID))
	logger.Debug("a1 mediator adapter created", zap.String("ric_url", ric.BaseURL))

	return &MediatorClient{
		ric:    ric,
		rest:   rest,
		uri:    NewURIBuilder(ric.BaseURL),
		logger: logger,
	}
}

func (c *MediatorClient) PolicyTypeIDs(ctx context.Context) ([]string, error) {
	body, err := c.rest.Get(ctx, c.uri.PolicyTypesURI())
	if err != nil {
		return nil, err
	}
	return parseJSONArrayOfString(body)
}

func (c *MediatorClient) PolicyIDs(ctx context.Context) ([]string, error) {
	return allPolicyIDs(ctx, c, c.ric.Concurrency)
}

func (c *MediatorClient) PolicyTypeSchema(ctx context.Context, policyTypeID string) (string, error) {
	body, err := c.rest.Get(ctx, c.uri.SchemaURI(policyTypeID))
	if err != nil {
		return "", err
	}
	return extractCreateSchema(body, policyTypeID)
}

func (c *MediatorClient) PutPolicy(ctx context.Context, policy Policy) (string, error) {
	uri := c.uri.PutPolicyURI(policy.Type.ID, policy.ID, policy.StatusNotificationURI)
	return c.rest.Put(ctx, uri, policy.JSON)
}

func (c *MediatorClient) DeletePolicy(ctx context.Context, policy Policy) (string, error) {
	return c.deletePolicyByID(ctx, policy.Type.ID, policy.ID)
}

func (c *MediatorClient) DeleteAllPolicies(ctx context.Context, exclude IDSet) ([]string, error) {
	return deleteAllPolicies(ctx, c, c.ric.Concurrency, exclude)
}

func (c *MediatorClient) PolicyStatus(ctx context.Context, policy Policy) (string, error) {
	return c.rest.Get(ctx, c.uri.PolicyStatusURI(policy.Type.ID, policy.ID))
}

func (c *MediatorClient) ProtocolVersion(context.Context) (ProtocolType, error) {
	return ProtocolCustom, nil
}

func (c *MediatorClient) policyIDsForType(ctx context.Context, typeID string) ([]string, error) {
	body, err := c.rest.Get(ctx, c.uri.PolicyIDsURI(typeID))
	if err != nil {
		return nil, err
	}
	return parseJSONArrayOfString(body)
}

func (c *MediatorClient) deletePolicyByID(ctx context.Context, typeID, policyID string) (string, error) {
	return c.rest.Delete(ctx, c.uri.DeleteURI(typeID, policyID))
}
