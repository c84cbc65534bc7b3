package a1

import (
	"net/url"
	"strings"
)

// URIBuilder builds A1-P v2 URLs for one RIC. It is a pure value; the same
// grammar is used for direct calls and for the URL embedded in adapter
// envelopes.
type URIBuilder struct {
	base string
}

// NewURIBuilder returns a builder for the RIC at ricBaseURL. The base URL is
// used as given.
func NewURIBuilder(ricBaseURL string) URIBuilder {
	return URIBuilder{base: ricBaseURL + "/A1-P/v2"}
}

// PolicyTypesURI lists policy types.
func (b URIBuilder) PolicyTypesURI() string {
	return b.base + "/policytypes"
}

// PolicyIDsURI lists the policy instances of a type.
func (b URIBuilder) PolicyIDsURI(typeID string) string {
	return b.typeURI(typeID) + "/policies"
}

// SchemaURI fetches a policy type.
func (b URIBuilder) SchemaURI(typeID string) string {
	return b.typeURI(typeID)
}

// PutPolicyURI creates or replaces a policy. The notification URL, when set,
// goes in the notificationDestination query parameter.
func (b URIBuilder) PutPolicyURI(typeID, policyID, notificationURL string) string {
	uri := b.policyURI(typeID, policyID)
	if notificationURL == "" {
		return uri
	}
	return uri + "?notificationDestination=" + queryValueEscaper.Replace(notificationURL)
}

// DeleteURI deletes a policy.
func (b URIBuilder) DeleteURI(typeID, policyID string) string {
	return b.policyURI(typeID, policyID)
}

// PolicyStatusURI fetches the status of a policy.
func (b URIBuilder) PolicyStatusURI(typeID, policyID string) string {
	return b.policyURI(typeID, policyID) + "/status"
}

func (b URIBuilder) typeURI(typeID string) string {
	return b.PolicyTypesURI() + "/" + url.PathEscape(typeID)
}

func (b URIBuilder) policyURI(typeID, policyID string) string {
	return b.PolicyIDsURI(typeID) + "/" + url.PathEscape(policyID)
}

// Callback URLs are embedded as-is apart from the characters that would end
// or split the query value.
var queryValueEscaper = strings.NewReplacer(
	"%", "%25",
	" ", "%20",
	"#", "%23",
	"&", "%26",
	"+", "%2B",
)
