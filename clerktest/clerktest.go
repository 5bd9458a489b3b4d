package clerktest

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-retry"

	"github.com/xy-planning-network/clerksync"
	"github.com/xy-planning-network/clerksync/clerk"
)

// Credentials tests sign in to the Clerk tenant with.
//
// The "+clerk_test" email tag and a 424242 verification code are Clerk's
// test mode conventions, so no real mailbox is involved.
const (
	TestEmail    = "ci-test+clerk_test@gmail.com"
	TestPassword = "test-clerk-password"
)

// A SetupError reports fixture provisioning that cannot safely continue,
// distinct from a failure in the behavior under test.
type SetupError struct {
	msg string
}

func (e *SetupError) Error() string { return "clerktest setup: " + e.msg }

// LoadEnv reads the named dotenv files into the process environment,
// then returns the Clerk keys tests run against.
//
// Missing files are skipped; variables already set win over file values.
func LoadEnv(files ...string) (publishableKey, secretKey string) {
	for _, f := range files {
		godotenv.Load(f)
	}

	return clerksync.EnvVarOrString("CLERK_PUBLISHABLE_KEY", ""),
		clerksync.EnvVarOrString("CLERK_SECRET_KEY", "")
}

// EnsureUser retrieves the test user from the Clerk tenant, creating it on
// first use.
//
// More than one user holding TestEmail means the tenant is in a state the
// tests did not produce; a *SetupError returns rather than guessing which
// user to sign in as.
func EnsureUser(ctx context.Context, api *clerk.API) (clerk.User, error) {
	users, err := api.UsersByEmail(ctx, TestEmail)
	if err != nil {
		return clerk.User{}, fmt.Errorf("looking up test user: %w", err)
	}

	switch len(users) {
	case 0:
		user, err := api.CreateUser(ctx, clerk.NewUserParams{
			Email:     TestEmail,
			Password:  TestPassword,
			FirstName: "CI",
			LastName:  "Test",
		})
		if err != nil {
			return clerk.User{}, fmt.Errorf("creating test user: %w", err)
		}

		return user, nil

	case 1:
		return users[0], nil

	default:
		return clerk.User{}, &SetupError{msg: fmt.Sprintf("%d users hold %s, expected 1", len(users), TestEmail)}
	}
}

// WaitForServer polls the URL until it answers, retrying with fibonacci
// backoff for up to 10 seconds.
func WaitForServer(ctx context.Context, url string) error {
	backoff := retry.WithMaxDuration(10*time.Second, retry.NewFibonacci(50*time.Millisecond))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return err
		}

		res, err := http.DefaultClient.Do(req)
		if err != nil {
			return retry.RetryableError(err)
		}
		res.Body.Close()

		if res.StatusCode >= http.StatusInternalServerError {
			return retry.RetryableError(fmt.Errorf("server answered %d", res.StatusCode))
		}

		return nil
	})
}
