package cmd

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-church-admin/api"
	"github.com/jrsteele09/go-church-admin/internal/config"
	"github.com/jrsteele09/go-church-admin/internal/errors"
	"github.com/jrsteele09/go-church-admin/internal/logging"
	"github.com/jrsteele09/go-church-admin/resources"
	"github.com/jrsteele09/go-church-admin/sessions"
	"github.com/jrsteele09/go-church-admin/sessions/backend"
	"github.com/jrsteele09/go-church-admin/token"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// app holds the dependencies shared by every command. It is built once per
// invocation, before the command runs.
type app struct {
	cfg        config.Config
	logger     zerolog.Logger
	session    *sessions.Manager
	dispatcher *api.Dispatcher
	auth       *api.AuthService
}

func (a *app) init(ctx context.Context, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg
	a.logger = logging.New(cfg, stderr)

	codecOpts := []token.CodecOption{token.WithLogger(a.logger)}
	if jwksURL := cfg.GetJWKSURL(); jwksURL != "" {
		codecOpts = append(codecOpts, token.WithKeySet(oidc.NewRemoteKeySet(ctx, jwksURL)))
	}

	a.session = sessions.NewManager(backend.Lazy(cfg),
		sessions.WithCodec(token.NewCodec(codecOpts...)),
		sessions.WithLogger(a.logger),
	)
	a.dispatcher, err = api.NewDispatcher(cfg, a.session, api.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.auth = api.NewAuthService(a.dispatcher)
	return nil
}

func (a *app) close() {
	if a.session == nil {
		return
	}
	if err := a.session.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("closing session store")
	}
}

// runE wraps a command body so the session store is closed afterwards,
// whether or not the command failed.
func (a *app) runE(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		defer a.close()
		return fn(cmd, args)
	}
}

// requireKind resolves a kind name and checks the signed-in user may use it.
func (a *app) requireKind(ctx context.Context, name string, manage bool) (resources.Kind, error) {
	kind, ok := resources.LookupKind(name)
	if !ok {
		return resources.Kind{}, fmt.Errorf("unknown kind %q (one of %v)", name, resources.KindNames())
	}
	user, err := a.session.CurrentUser(ctx)
	if err != nil {
		return resources.Kind{}, err
	}
	if user == nil {
		return resources.Kind{}, errors.ErrSessionExpired
	}
	allowed := kind.CanRead(user.Role)
	if manage {
		allowed = kind.CanManage(user.Role)
	}
	if !allowed {
		return resources.Kind{}, errors.Wrapf(errors.ErrForbidden, "%s cannot access %s", user.Role, kind.Name)
	}
	return kind, nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	rootCmd := &cobra.Command{
		Use:           "churchadmin",
		Short:         "Church administration client",
		Long:          `Sign in to the church administration API and manage ministries, teams, members, staff and events.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd.Context(), cmd.ErrOrStderr())
		},
	}
	rootCmd.AddCommand(
		newLoginCmd(a),
		newLogoutCmd(a),
		newWhoamiCmd(a),
		newListCmd(a),
		newGetCmd(a),
		newDeleteCmd(a),
		newVersionCmd(a),
	)
	return rootCmd
}

// describeError turns an error into the message shown to the user.
func describeError(err error) string {
	switch {
	case errors.Is(err, api.ErrSessionExpired):
		return "session expired, please log in again"
	case errors.Is(err, api.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, api.ErrMissingRole):
		return "unable to determine user role"
	default:
		return err.Error()
	}
}

func Execute() {
	rootCmd := NewRootCmd()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), describeError(err))
		os.Exit(1)
	}
}
