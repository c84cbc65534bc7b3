// Package a1 implements the southbound A1 policy interface towards Near-RT
// RICs. Two adapters are provided behind the same Client interface: one talks
// A1-P v2 directly to the RIC, the other tunnels every call through the CCSDK
// A1 adapter as a RESTCONF RPC carrying the RIC URL and body in an envelope.
package a1

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// ProtocolType is the southbound protocol a RIC is declared to speak.
type ProtocolType string

const (
	ProtocolStdV1_1      ProtocolType = "STD_V1_1"
	ProtocolStdV2        ProtocolType = "STD_V2_0_0"
	ProtocolOscV1        ProtocolType = "OSC_V1"
	ProtocolCCSDKStdV1_1 ProtocolType = "CCSDK_A1_ADAPTER_STD_V1_1"
	ProtocolCCSDKOscV1   ProtocolType = "CCSDK_A1_ADAPTER_OSC_V1"
	ProtocolCCSDKStdV2   ProtocolType = "CCSDK_A1_ADAPTER_STD_V2_0_0"
	ProtocolCustom       ProtocolType = "CUSTOM_PROTOCOL"
)

// DefaultProtocol is assumed when a RIC declares no protocol.
const DefaultProtocol = ProtocolCustom

var knownProtocols = []ProtocolType{
	ProtocolStdV1_1,
	ProtocolStdV2,
	ProtocolOscV1,
	ProtocolCCSDKStdV1_1,
	ProtocolCCSDKOscV1,
	ProtocolCCSDKStdV2,
	ProtocolCustom,
}

// ParseProtocolType maps a configured protocol name to a ProtocolType.
// Matching is case-insensitive; an empty name yields DefaultProtocol.
func ParseProtocolType(name string) (ProtocolType, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return DefaultProtocol, nil
	}
	for _, p := range knownProtocols {
		if strings.EqualFold(string(p), name) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedProtocol, name)
}

// ControllerConfig describes the intermediary that relays calls to a RIC.
type ControllerConfig struct {
	Name     string
	BaseURL  string
	Username string
	Password string
}

// RicConfig identifies one Near-RT RIC and how to reach it.
type RicConfig struct {
	ID       string
	BaseURL  string
	Adapter  string
	Protocol ProtocolType
	// Concurrency caps per-type requests in flight during fan-out; <1 means fanout.DefaultLimit.
	Concurrency       int
	Controller        *ControllerConfig
	ManagedElementIDs []string
}

// PolicyType is a policy type known by a RIC.
type PolicyType struct {
	ID     string
	Schema string
}

// Policy is one policy instance. JSON is forwarded to the RIC untouched.
type Policy struct {
	ID                    string
	Type                  PolicyType
	JSON                  string
	OwnerServiceID        string
	StatusNotificationURI string
	Transient             bool
	LastModified          time.Time
}

// IDSet is a set of policy ids compared by exact string equality.
type IDSet map[string]struct{}

// NewIDSet builds an IDSet from ids.
func NewIDSet(ids ...string) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// Has reports whether id is in the set. A nil set contains nothing.
func (s IDSet) Has(id string) bool {
	_, ok := s[id]
	return ok
}

// Client is the uniform policy lifecycle interface towards one RIC.
type Client interface {
	// PolicyTypeIDs lists the policy types known by the RIC.
	PolicyTypeIDs(ctx context.Context) ([]string, error)
	// PolicyIDs lists every policy instance of every type.
	PolicyIDs(ctx context.Context) ([]string, error)
	// PolicyTypeSchema returns the create schema of a type with its title set to the type id.
	PolicyTypeSchema(ctx context.Context, policyTypeID string) (string, error)
	PutPolicy(ctx context.Context, policy Policy) (string, error)
	DeletePolicy(ctx context.Context, policy Policy) (string, error)
	// DeleteAllPolicies deletes every instance whose id is not in exclude and
	// returns the ids it deleted.
	DeleteAllPolicies(ctx context.Context, exclude IDSet) ([]string, error)
	PolicyStatus(ctx context.Context, policy Policy) (string, error)
	ProtocolVersion(ctx context.Context) (ProtocolType, error)
}

// RestClient is the transport the adapters are built on. Every method returns
// the response body, or an error for transport failures and non-2xx replies.
type RestClient interface {
	Get(ctx context.Context, uri string) (string, error)
	Put(ctx context.Context, uri, body string) (string, error)
	Delete(ctx context.Context, uri string) (string, error)
	PostWithAuthHeader(ctx context.Context, uri, body, username, password string) (string, error)
}

// RestClientFactory returns a RestClient rooted at baseURL.
type RestClientFactory func(baseURL string) RestClient
