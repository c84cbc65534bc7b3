package a1

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/marcus-qen/a1bridge/internal/transport"
)

// RPC names exposed by the CCSDK A1 adapter.
const (
	rpcGetPolicy       = "getA1Policy"
	rpcPutPolicy       = "putA1Policy"
	rpcDeletePolicy    = "deleteA1Policy"
	rpcGetPolicyStatus = "getA1PolicyStatus"
)

// ControllerOperationsPath is where the controller serves RESTCONF RPCs. The
// RestClient given to NewCCSDKClient is rooted at the controller base URL
// plus this path.
const ControllerOperationsPath = "/rests/operations"

// CCSDKClient reaches a RIC through the CCSDK A1 adapter of an SDNC
// controller. Every primitive becomes a POST of an envelope naming the RIC
// URL; the controller answers 200 with an envelope carrying the RIC's real
// status and body.
type CCSDKClient struct {
	ric        RicConfig
	controller ControllerConfig
	rest       RestClient
	uri        URIBuilder
	logger     *zap.Logger
}

var _ Client = (*CCSDKClient)(nil)

// NewCCSDKClient validates protocol and the RIC's controller before any
// network use. Only ProtocolCustom is accepted.
func NewCCSDKClient(protocol ProtocolType, ric RicConfig, rest RestClient, logger *zap.Logger) (*CCSDKClient, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.Named("a1-ccsdk").With(zap.String("ric", ric.ID))

	if protocol != ProtocolCustom {
		logger.Error("not supported protocol type", zap.String("protocol", string(protocol)))
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProtocol, protocol)
	}
	if ric.Controller == nil {
		return nil, fmt.Errorf("%w for ric %s", ErrMissingController, ric.ID)
	}

	logger.Debug("a1 ccsdk adapter created", zap.String("controller", ric.Controller.Name))
	return &CCSDKClient{
		ric:        ric,
		controller: *ric.Controller,
		rest:       rest,
		uri:        NewURIBuilder(ric.BaseURL),
		logger:     logger,
	}, nil
}

func (c *CCSDKClient) PolicyTypeIDs(ctx context.Context) ([]string, error) {
	body, err := c.post(ctx, rpcGetPolicy, c.uri.PolicyTypesURI(), nil)
	if err != nil {
		return nil, err
	}
	return parseJSONArrayOfString(body)
}

func (c *CCSDKClient) PolicyIDs(ctx context.Context) ([]string, error) {
	return allPolicyIDs(ctx, c, c.ric.Concurrency)
}

func (c *CCSDKClient) PolicyTypeSchema(ctx context.Context, policyTypeID string) (string, error) {
	body, err := c.post(ctx, rpcGetPolicy, c.uri.SchemaURI(policyTypeID), nil)
	if err != nil {
		return "", err
	}
	return extractCreateSchema(body, policyTypeID)
}

func (c *CCSDKClient) PutPolicy(ctx context.Context, policy Policy) (string, error) {
	ricURL := c.uri.PutPolicyURI(policy.Type.ID, policy.ID, policy.StatusNotificationURI)
	body := policy.JSON
	return c.post(ctx, rpcPutPolicy, ricURL, &body)
}

func (c *CCSDKClient) DeletePolicy(ctx context.Context, policy Policy) (string, error) {
	return c.deletePolicyByID(ctx, policy.Type.ID, policy.ID)
}

func (c *CCSDKClient) DeleteAllPolicies(ctx context.Context, exclude IDSet) ([]string, error) {
	return deleteAllPolicies(ctx, c, c.ric.Concurrency, exclude)
}

func (c *CCSDKClient) PolicyStatus(ctx context.Context, policy Policy) (string, error) {
	return c.post(ctx, rpcGetPolicyStatus, c.uri.PolicyStatusURI(policy.Type.ID, policy.ID), nil)
}

func (c *CCSDKClient) ProtocolVersion(context.Context) (ProtocolType, error) {
	return ProtocolCustom, nil
}

func (c *CCSDKClient) policyIDsForType(ctx context.Context, typeID string) ([]string, error) {
	body, err := c.post(ctx, rpcGetPolicy, c.uri.PolicyIDsURI(typeID), nil)
	if err != nil {
		return nil, err
	}
	return parseJSONArrayOfString(body)
}

func (c *CCSDKClient) deletePolicyByID(ctx context.Context, typeID, policyID string) (string, error) {
	return c.post(ctx, rpcDeletePolicy, c.uri.DeleteURI(typeID, policyID), nil)
}

func (c *CCSDKClient) post(ctx context.Context, rpc, ricURL string, body *string) (string, error) {
	input, err := EncodeAdapterRequest(ricURL, body)
	if err != nil {
		return "", fmt.Errorf("encode %s request: %w", rpc, err)
	}
	c.logger.Debug("posting adapter request", zap.String("rpc", rpc), zap.String("input", input))

	resp, err := c.rest.PostWithAuthHeader(ctx, controllerURI(rpc), input, c.controller.Username, c.controller.Password)
	if err != nil {
		return "", err
	}
	return c.extractResponseBody(resp, ricURL)
}

// extractResponseBody unwraps the envelope. An inner non-2xx status becomes
// the same *transport.ResponseError a direct call would have produced.
func (c *CCSDKClient) extractResponseBody(resp, ricURL string) (string, error) {
	out, err := DecodeAdapterOutput(resp)
	if err != nil {
		var envErr *EnvelopeError
		if errors.As(err, &envErr) {
			envErr.RicURL = ricURL
		}
		return "", err
	}
	if transport.IsSuccess(out.HTTPStatus) {
		return out.Body, nil
	}

	c.logger.Debug("error response",
		zap.Int("status", out.HTTPStatus),
		zap.String("body", out.Body),
		zap.String("ric_url", ricURL),
	)
	return "", transport.NewResponseError(out.HTTPStatus, out.Body)
}

func controllerURI(rpc string) string {
	return "/A1-ADAPTER-API:" + rpc
}
