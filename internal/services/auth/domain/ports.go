// Package domain holds the auth seam contract
package domain

import "context"

// ServicePort resolves bearer tokens to user ids
// token issuance lives outside this service, it only answers who a
// presented session token belongs to
type ServicePort interface {
	Resolve(ctx context.Context, token string) (userID string, err error)
}
