package a1

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/marcus-qen/a1bridge/internal/metrics"
	"github.com/marcus-qen/a1bridge/internal/telemetry"
	"github.com/marcus-qen/a1bridge/internal/transport"
)

// Operation labels used in metrics and spans.
const (
	OpPolicyTypeIDs     = "policy_type_ids"
	OpPolicyIDs         = "policy_ids"
	OpPolicyTypeSchema  = "policy_type_schema"
	OpPutPolicy         = "put_policy"
	OpDeletePolicy      = "delete_policy"
	OpDeleteAllPolicies = "delete_all_policies"
	OpPolicyStatus      = "policy_status"
	OpProtocolVersion   = "protocol_version"
)

type instrumented struct {
	next   Client
	ric    string
	logger *zap.Logger
}

// Instrument wraps next so every call records request metrics, a client span
// and a debug log line. Results and errors pass through unchanged.
func Instrument(next Client, ricID string, logger *zap.Logger) Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &instrumented{next: next, ric: ricID, logger: logger.Named("a1").With(zap.String("ric", ricID))}
}

func (c *instrumented) PolicyTypeIDs(ctx context.Context) ([]string, error) {
	ctx, done := c.start(ctx, OpPolicyTypeIDs)
	ids, err := c.next.PolicyTypeIDs(ctx)
	done(err)
	return ids, err
}

func (c *instrumented) PolicyIDs(ctx context.Context) ([]string, error) {
	ctx, done := c.start(ctx, OpPolicyIDs)
	ids, err := c.next.PolicyIDs(ctx)
	done(err)
	return ids, err
}

func (c *instrumented) PolicyTypeSchema(ctx context.Context, policyTypeID string) (string, error) {
	ctx, done := c.start(ctx, OpPolicyTypeSchema, attribute.String("a1.policy_type", policyTypeID))
	schema, err := c.next.PolicyTypeSchema(ctx, policyTypeID)
	done(err)
	return schema, err
}

func (c *instrumented) PutPolicy(ctx context.Context, policy Policy) (string, error) {
	ctx, done := c.start(ctx, OpPutPolicy, telemetry.PolicyAttributes(policy.Type.ID, policy.ID)...)
	body, err := c.next.PutPolicy(ctx, policy)
	done(err)
	return body, err
}

func (c *instrumented) DeletePolicy(ctx context.Context, policy Policy) (string, error) {
	ctx, done := c.start(ctx, OpDeletePolicy, telemetry.PolicyAttributes(policy.Type.ID, policy.ID)...)
	body, err := c.next.DeletePolicy(ctx, policy)
	done(err)
	return body, err
}

func (c *instrumented) DeleteAllPolicies(ctx context.Context, exclude IDSet) ([]string, error) {
	ctx, done := c.start(ctx, OpDeleteAllPolicies, attribute.Int("a1.excluded", len(exclude)))
	deleted, err := c.next.DeleteAllPolicies(ctx, exclude)
	metrics.RecordPoliciesDeleted(c.ric, len(deleted))
	done(err)
	return deleted, err
}

func (c *instrumented) PolicyStatus(ctx context.Context, policy Policy) (string, error) {
	ctx, done := c.start(ctx, OpPolicyStatus, telemetry.PolicyAttributes(policy.Type.ID, policy.ID)...)
	status, err := c.next.PolicyStatus(ctx, policy)
	done(err)
	return status, err
}

func (c *instrumented) ProtocolVersion(ctx context.Context) (ProtocolType, error) {
	ctx, done := c.start(ctx, OpProtocolVersion)
	version, err := c.next.ProtocolVersion(ctx)
	done(err)
	return version, err
}

func (c *instrumented) start(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, func(error)) {
	started := time.Now()
	ctx, span := telemetry.StartA1Span(ctx, c.ric, op, attrs...)
	return ctx, func(err error) {
		outcome := Outcome(err)
		elapsed := time.Since(started)
		metrics.RecordRequest(c.ric, op, outcome, elapsed)
		telemetry.EndA1Span(span, outcome, err)
		if err != nil {
			c.logger.Debug("a1 operation failed",
				zap.String("operation", op),
				zap.String("outcome", outcome),
				zap.Duration("elapsed", elapsed),
				zap.Error(err),
			)
		}
	}
}

// Outcome classifies err into one of the metrics outcome labels.
func Outcome(err error) string {
	var (
		respErr   *transport.ResponseError
		transErr  *transport.Error
		envErr    *EnvelopeError
		schemaErr *SchemaError
	)
	switch {
	case err == nil:
		return metrics.OutcomeSuccess
	case errors.Is(err, context.Canceled):
		return metrics.OutcomeCanceled
	case errors.As(err, &respErr):
		return metrics.OutcomeRICError
	case errors.As(err, &transErr):
		return metrics.OutcomeTransport
	case errors.As(err, &envErr):
		return metrics.OutcomeEnvelope
	case errors.As(err, &schemaErr):
		return metrics.OutcomeSchemaError
	default:
		return metrics.OutcomeOther
	}
}
