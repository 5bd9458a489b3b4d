package clerk

import (
	"context"
	"fmt"

	clerksdk "github.com/clerk/clerk-sdk-go/v2"
	"github.com/clerk/clerk-sdk-go/v2/jwks"
	"github.com/clerk/clerk-sdk-go/v2/jwt"
	"github.com/clerk/clerk-sdk-go/v2/user"

	"github.com/xy-planning-network/clerksync"
)

// A User is the slice of a Clerk user record the module works with.
type User struct {
	ID        string
	Email     string
	FirstName string
	LastName  string
}

// NewUserParams are the fields accepted when creating a Clerk user.
type NewUserParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
}

// An API calls the Clerk backend with one tenant's secret key. Construct one
// per application; nothing is stored in package state.
type API struct {
	env   clerksync.Environment
	users *user.Client
	jwks  *jwks.Client
}

// NewAPI readies an API for the tenant the secret key belongs to.
//
// An empty secret key fails immediately with clerksync.ErrBadConfig rather
// than on the first backend call.
func NewAPI(secretKey string, env clerksync.Environment) (*API, error) {
	if secretKey == "" {
		return nil, fmt.Errorf("secret key is unset: %w", clerksync.ErrBadConfig)
	}
	if err := env.Valid(); err != nil {
		return nil, fmt.Errorf("environment %q: %w", env, clerksync.ErrBadConfig)
	}

	config := &clerksdk.ClientConfig{}
	config.Key = clerksdk.String(secretKey)

	return &API{
		env:   env,
		users: user.NewClient(config),
		jwks:  jwks.NewClient(config),
	}, nil
}

// UsersByEmail retrieves every Clerk user holding the email address.
func (api *API) UsersByEmail(ctx context.Context, email string) ([]User, error) {
	list, err := api.users.List(ctx, &user.ListParams{
		EmailAddresses: []string{email},
	})
	if err != nil {
		return nil, fmt.Errorf("listing users for %s: %w", email, err)
	}

	users := make([]User, 0, len(list.Users))
	for _, u := range list.Users {
		users = append(users, newUser(u))
	}

	return users, nil
}

// CreateUser registers a fresh user with the Clerk tenant.
func (api *API) CreateUser(ctx context.Context, params NewUserParams) (User, error) {
	if params.Email == "" {
		return User{}, fmt.Errorf("user email is unset: %w", clerksync.ErrMissingData)
	}

	u, err := api.users.Create(ctx, &user.CreateParams{
		EmailAddresses: &[]string{params.Email},
		Password:       clerksdk.String(params.Password),
		FirstName:      clerksdk.String(params.FirstName),
		LastName:       clerksdk.String(params.LastName),
	})
	if err != nil {
		return User{}, fmt.Errorf("creating user %s: %w", params.Email, err)
	}

	return newUser(u), nil
}

// VerifySessionToken validates the session token the frontend handed over
// and returns its claims.
//
// Environments that can use service stubs skip signature verification so a
// synthesized token works without a Clerk tenant; everywhere else the token
// is checked against the tenant's JSON Web Key Set.
func (api *API) VerifySessionToken(ctx context.Context, token string) (SessionClaims, error) {
	if token == "" {
		return SessionClaims{}, fmt.Errorf("session token is unset: %w", clerksync.ErrMissingData)
	}

	if api.env.CanUseServiceStub() {
		return parseUnverifiedClaims(token)
	}

	claims, err := jwt.Verify(ctx, &jwt.VerifyParams{
		Token:      token,
		JWKSClient: api.jwks,
	})
	if err != nil {
		return SessionClaims{}, fmt.Errorf("verifying session token: %w", clerksync.ErrNotValid)
	}

	out := SessionClaims{SessionID: claims.SessionID}
	out.Subject = claims.Subject

	return out, nil
}

func newUser(u *clerksdk.User) User {
	out := User{ID: u.ID}
	for _, email := range u.EmailAddresses {
		if u.PrimaryEmailAddressID != nil && email.ID == *u.PrimaryEmailAddressID {
			out.Email = email.EmailAddress
			break
		}
	}
	if out.Email == "" && len(u.EmailAddresses) > 0 {
		out.Email = u.EmailAddresses[0].EmailAddress
	}
	if u.FirstName != nil {
		out.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		out.LastName = *u.LastName
	}

	return out
}
