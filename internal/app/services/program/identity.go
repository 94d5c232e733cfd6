package program

import (
	"context"
	"fmt"
	"time"

	"github.com/fitnessbro/platform/internal/app/domain/user"
	"github.com/fitnessbro/platform/internal/httputil"
	"github.com/fitnessbro/platform/internal/metrics"
	"github.com/fitnessbro/platform/pkg/logger"
)

// identityTimeout bounds every identity lookup so a slow auth service can
// never stall a program read.
const identityTimeout = 5 * time.Second

// IdentityResolver answers "who is this user" across the service boundary.
type IdentityResolver interface {
	// ResolveCoachEmail returns the coach's email, or a deterministic
	// placeholder when the lookup fails. It never returns an error.
	ResolveCoachEmail(ctx context.Context, coachID string) string
	// LookupUser fetches a user record from the auth service.
	LookupUser(ctx context.Context, id string) (user.User, error)
}

// AuthResolver resolves identities against the auth service over HTTP.
type AuthResolver struct {
	client  *httputil.ServiceClient
	log     *logger.Logger
	metrics *metrics.Metrics
}

var _ IdentityResolver = (*AuthResolver)(nil)

// NewAuthResolver constructs a resolver for the auth service at baseURL.
func NewAuthResolver(baseURL string, log *logger.Logger, m *metrics.Metrics) *AuthResolver {
	if log == nil {
		log = logger.NewDefault("identity")
	}
	return &AuthResolver{
		client:  httputil.NewServiceClient(baseURL, identityTimeout),
		log:     log,
		metrics: m,
	}
}

type userResponse struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Role    string `json:"role"`
	CoachID string `json:"coach_id,omitempty"`
}

// LookupUser implements IdentityResolver.
func (r *AuthResolver) LookupUser(ctx context.Context, id string) (user.User, error) {
	ctx, cancel := context.WithTimeout(ctx, identityTimeout)
	defer cancel()

	var resp userResponse
	if err := r.client.Get(ctx, "/auth/user/"+id, &resp); err != nil {
		return user.User{}, err
	}
	return user.User{
		ID:      resp.ID,
		Email:   resp.Email,
		Role:    resp.Role,
		CoachID: resp.CoachID,
	}, nil
}

// ResolveCoachEmail implements IdentityResolver. Failures degrade to a
// placeholder that still identifies the coach.
func (r *AuthResolver) ResolveCoachEmail(ctx context.Context, coachID string) string {
	u, err := r.LookupUser(ctx, coachID)
	if err != nil || u.Email == "" {
		if r.metrics != nil {
			r.metrics.RecordIdentityFallback()
		}
		r.log.WithField("coach_id", coachID).WithError(err).Warn("coach email lookup failed, using placeholder")
		return fmt.Sprintf("coach%s@unknown", coachID)
	}
	return u.Email
}
