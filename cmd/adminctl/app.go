package main

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/simp-lee/backoffice/internal/client"
)

const (
	flagServer  = "server"
	flagToken   = "token"
	flagTimeout = "timeout"
	flagJSON    = "json"
)

// record is the untyped shape used for every resource on the command line.
type record = map[string]any

// displayError prints the same short text the admin UI would toast.
type displayError struct{ err error }

func (e displayError) Error() string { return client.DisplayMessage(e.err) }
func (e displayError) Unwrap() error { return e.err }

func wrap(err error) error {
	if err == nil {
		return nil
	}
	return displayError{err: err}
}

func newApp(out io.Writer, in io.Reader) *cli.App {
	app := &cli.App{
		Name:        "adminctl",
		Usage:       "manage back-office master data and sales orders",
		Description: "Command flags go before positional arguments:\n  adminctl list --search acme --sort name customers",
		Writer:      out,
		ErrWriter:   out,
		Reader:      in,

		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    flagServer,
				Usage:   "server base URL",
				Value:   "http://localhost:8080",
				EnvVars: []string{"BACKOFFICE_URL"},
			},
			&cli.StringFlag{
				Name:    flagToken,
				Usage:   "bearer token printed by the login command",
				EnvVars: []string{"BACKOFFICE_TOKEN"},
			},
			&cli.DurationFlag{
				Name:  flagTimeout,
				Usage: "per-request timeout",
				Value: 15 * time.Second,
			},
			&cli.BoolFlag{
				Name:  flagJSON,
				Usage: "print raw JSON instead of tables",
			},
		},
		Commands: []*cli.Command{
			loginCommand(),
			meCommand(),
			listCommand(),
			getCommand(),
			createCommand(),
			updateCommand(),
			deleteCommand(),
			importCommand(),
			ordersCommand(),
		},
		// Errors are returned to main; never exit from inside Run.
		ExitErrHandler: func(*cli.Context, error) {},
	}
	return app
}

func newClient(c *cli.Context) *client.Client {
	return client.New(c.String(flagServer),
		client.WithToken(c.String(flagToken)),
		client.WithTimeout(c.Duration(flagTimeout)),
	)
}

func resourceArg(c *cli.Context) (*client.Resource[record], error) {
	name := strings.TrimSpace(c.Args().First())
	if name == "" {
		return nil, errors.New("resource name is required, e.g. customers")
	}
	return client.NewResource[record](newClient(c), name), nil
}

func idArg(c *cli.Context, pos int) (uint, error) {
	raw := c.Args().Get(pos)
	if raw == "" {
		return 0, errors.New("record id is required")
	}
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return uint(id), nil
}
