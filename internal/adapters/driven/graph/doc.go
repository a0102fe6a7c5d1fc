// Package graph is the Microsoft Graph adapter for the Windows 365 Cloud PC
// collection.
//
// It covers exactly two operations:
//   - GET  /beta/deviceManagement/virtualEndpoint/cloudPCs
//   - POST /beta/deviceManagement/virtualEndpoint/cloudPCs/{id}/endGracePeriod
//
// The Cloud PC API still lives on the beta surface. List responses page with
// @odata.nextLink like every Graph collection, so the client follows pages
// until exhausted; a failure on any page fails the whole call.
//
// Requests are rate limited client-side with a token bucket. A 429 response
// records the Retry-After header so the next call backs off, but no request
// is ever retried: failures are terminal for the one operation and surfaced
// to the caller.
package graph
