// Package screening talks to the remote AML screening API.
//
// It owns the wire model of a lookup (Query, SearchResponse, MatchRecord),
// input validation, the upstream error taxonomy, and the HTTP client that
// performs the single outbound GET. The matching itself happens upstream;
// this package only forwards the identity and decodes what comes back.
//
// Properties on a MatchRecord use an open schema: any key the upstream adds
// decodes into the same map[string][]string without failing.
package screening
