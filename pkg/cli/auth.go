package cli

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/goerr/v2"
	"github.com/preceptor-dev/preceptor/pkg/domain/model"
	"github.com/urfave/cli/v3"
	"golang.org/x/term"
)

func cmdLogin(g *globalConfig) *cli.Command {
	var email, password string

	return &cli.Command{
		Name:  "login",
		Usage: "Sign in as a supervisor",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:        "email",
				Aliases:     []string{"e"},
				Usage:       "Supervisor email",
				Sources:     cli.EnvVars("PRECEPTOR_EMAIL"),
				Destination: &email,
			},
			&cli.StringFlag{
				Name:        "password",
				Usage:       "Password (prompted when omitted)",
				Sources:     cli.EnvVars("PRECEPTOR_PASSWORD"),
				Destination: &password,
			},
		},
		Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
			var err error
			if email == "" {
				if email, err = prompt("Email: "); err != nil {
					return err
				}
			}
			if password == "" {
				if password, err = promptSecret("Password: "); err != nil {
					return err
				}
			}

			user, err := rt.uc.Auth.Login(ctx, email, password)
			if err != nil {
				return err
			}
			return rt.out.Success(user, "Signed in as %s", user.FullName())
		}),
	}
}

func cmdLogout(g *globalConfig) *cli.Command {
	return &cli.Command{
		Name:  "logout",
		Usage: "Sign out and clear local credentials",
		Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
			if err := rt.uc.Auth.Logout(ctx); err != nil {
				return err
			}
			return rt.out.Success(map[string]bool{"signed_out": true}, "Signed out")
		}),
	}
}

func cmdMe(g *globalConfig) *cli.Command {
	return &cli.Command{
		Name:  "me",
		Usage: "Show the signed-in supervisor profile",
		Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
			user, err := rt.uc.Auth.Me(ctx)
			if err != nil {
				return err
			}
			return printUser(rt.out, user)
		}),
	}
}

func printUser(out *printer, u *model.User) error {
	return out.Record(u, [][2]string{
		{"ID", string(u.ID)},
		{"Name", u.FullName()},
		{"Email", u.Email},
		{"Role", u.Role},
		{"Phone", u.Phone},
		{"Specialization", u.Specialization},
	})
}

func cmdProfile(g *globalConfig) *cli.Command {
	var input model.ProfileInput

	return &cli.Command{
		Name:  "profile",
		Usage: "Manage the supervisor profile",
		Commands: []*cli.Command{
			{
				Name:  "update",
				Usage: "Update profile fields",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "first-name", Destination: &input.FirstName},
					&cli.StringFlag{Name: "last-name", Destination: &input.LastName},
					&cli.StringFlag{Name: "phone", Destination: &input.Phone},
					&cli.StringFlag{Name: "specialization", Destination: &input.Specialization},
				},
				Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
					user, err := rt.uc.Auth.UpdateProfile(ctx, &input)
					if err != nil {
						return err
					}
					return printUser(rt.out, user)
				}),
			},
		},
	}
}

type statusView struct {
	SignedIn       bool       `json:"signed_in"`
	User           string     `json:"user,omitempty"`
	TokenExpiresAt *time.Time `json:"token_expires_at,omitempty"`
	SavedAt        *time.Time `json:"saved_at,omitempty"`
	Locked         bool       `json:"locked"`
	LockRemaining  string     `json:"lock_remaining,omitempty"`
	FailedAttempts int        `json:"failed_attempts"`
}

func cmdStatus(g *globalConfig) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show the local session and lockout state",
		Action: withRuntime(g, func(ctx context.Context, c *cli.Command, rt *runtime) error {
			var view statusView

			if session, err := rt.uc.Auth.Session(ctx); err == nil {
				view.SignedIn = true
				if session.User != nil {
					view.User = session.User.FullName()
				}
				if !session.SavedAt.IsZero() {
					saved := session.SavedAt
					view.SavedAt = &saved
				}
				if exp, ok := tokenExpiry(session.AccessToken); ok {
					view.TokenExpiresAt = &exp
				}
			}

			lockout, err := rt.uc.Auth.LockoutStatus(ctx)
			if err != nil {
				return err
			}
			view.Locked = lockout.Locked
			view.FailedAttempts = lockout.FailedAttempts
			if lockout.Locked {
				view.LockRemaining = lockout.Remaining.Round(time.Second).String()
			}

			fields := [][2]string{
				{"Signed in", yesNo(view.SignedIn)},
				{"User", view.User},
				{"Failed attempts", fmt.Sprint(view.FailedAttempts)},
				{"Locked", yesNo(view.Locked)},
				{"Lock remaining", view.LockRemaining},
			}
			if view.TokenExpiresAt != nil {
				fields = append(fields, [2]string{"Token expires", timestamp(*view.TokenExpiresAt)})
			}
			return rt.out.Record(view, fields)
		}),
	}
}

// tokenExpiry reads the exp claim without verifying the signature. Only the
// platform can verify its tokens; this is informational.
func tokenExpiry(accessToken string) (time.Time, bool) {
	if accessToken == "" {
		return time.Time{}, false
	}
	token, err := jwt.Parse([]byte(accessToken), jwt.WithVerify(false), jwt.WithValidate(false))
	if err != nil {
		return time.Time{}, false
	}
	exp := token.Expiration()
	return exp, !exp.IsZero()
}

func prompt(label string) (string, error) {
	fmt.Fprint(os.Stderr, label)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return "", goerr.Wrap(err, "failed to read input")
	}
	return strings.TrimSpace(line), nil
}

func promptSecret(label string) (string, error) {
	fd := int(os.Stdin.Fd()) // #nosec G115
	if !term.IsTerminal(fd) {
		return prompt(label)
	}
	fmt.Fprint(os.Stderr, label)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", goerr.Wrap(err, "failed to read password")
	}
	return string(b), nil
}
