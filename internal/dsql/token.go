package dsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/dsql/auth"
)

// ErrCredentials marks a failure to obtain a database auth token. It is never
// retried here; the session acquisition caller sees it directly.
var ErrCredentials = errors.New("dsql: credential fetch failed")

// Tokens are valid for 1 hour upstream; report expiry 5 minutes early.
const tokenLifetime = 55 * time.Minute

// TokenProvider issues short-lived database access tokens scoped to a cluster
// endpoint and region.
type TokenProvider interface {
	FetchToken(ctx context.Context, clusterID, region string) (token string, expiresAt time.Time, err error)
}

// AdminTokenProvider generates DSQL admin auth tokens with the ambient AWS
// credentials (env, shared config, or instance role).
type AdminTokenProvider struct{}

func (AdminTokenProvider) FetchToken(ctx context.Context, clusterID, region string) (string, time.Time, error) {

	endpoint := Endpoint(clusterID, region)

	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: load aws config: %v", ErrCredentials, err)
	}

	token, err := auth.GenerateDBConnectAdminAuthToken(ctx, endpoint, region, cfg.Credentials)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: generate token for %s: %v", ErrCredentials, endpoint, err)
	}

	return token, time.Now().Add(tokenLifetime), nil
}

// Endpoint builds the cluster's public endpoint host.
func Endpoint(clusterID, region string) string {
	return fmt.Sprintf("%s.dsql.%s.on.aws", clusterID, region)
}
