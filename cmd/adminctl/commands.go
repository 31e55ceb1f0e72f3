package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/simp-lee/backoffice/internal/client"
)

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "exchange credentials for a token and print it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", EnvVars: []string{"BACKOFFICE_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			if c.String("password") == "" {
				return errors.New("password is required (--password or BACKOFFICE_PASSWORD)")
			}
			tok, err := newClient(c).Login(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return wrap(err)
			}
			if c.Bool(flagJSON) {
				return printJSON(c.App.Writer, tok)
			}
			_, err = fmt.Fprintln(c.App.Writer, tok.Token)
			return err
		},
	}
}

func meCommand() *cli.Command {
	return &cli.Command{
		Name:  "me",
		Usage: "show the signed-in user and its permissions",
		Action: func(c *cli.Context) error {
			me, err := newClient(c).Me(c.Context)
			if err != nil {
				return wrap(err)
			}
			if c.Bool(flagJSON) {
				return printJSON(c.App.Writer, me)
			}
			w := c.App.Writer
			fmt.Fprintf(w, "%s <%s> (id %d)\n", me.User.Name, me.User.Email, me.User.ID)
			for _, p := range me.Permissions {
				fmt.Fprintln(w, "  "+p)
			}
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:      "list",
		Usage:     "list one page of a resource",
		ArgsUsage: "<resource>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "search", Aliases: []string{"q"}},
			&cli.StringFlag{Name: "active", Usage: "true or false; omit for both"},
			&cli.BoolFlag{Name: "deleted", Usage: "include soft-deleted records"},
			&cli.IntFlag{Name: "page", Value: 1},
			&cli.IntFlag{Name: "page-size"},
			&cli.StringFlag{Name: "sort"},
			&cli.BoolFlag{Name: "desc"},
			&cli.StringSliceFlag{Name: "filter", Usage: "field=value, minField=n or maxField=n; repeatable"},
		},
		Action: func(c *cli.Context) error {
			res, err := resourceArg(c)
			if err != nil {
				return err
			}
			state, err := listStateFromFlags(c)
			if err != nil {
				return err
			}
			page, err := res.List(c.Context, state)
			if err != nil {
				return wrap(err)
			}
			if c.Bool(flagJSON) {
				return printJSON(c.App.Writer, page)
			}
			return printPage(c.App.Writer, page)
		},
	}
}

func listStateFromFlags(c *cli.Context) (client.ListState, error) {
	s := client.NewListState(c.Int("page-size"))
	for _, kv := range c.StringSlice("filter") {
		k, v, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return s, fmt.Errorf("filter %q must be field=value", kv)
		}
		s.SetFilter(k, v)
	}
	if v := c.String("active"); v != "" {
		if _, err := strconv.ParseBool(v); err != nil {
			return s, fmt.Errorf("--active must be true or false, got %q", v)
		}
		s.SetFilter("isActive", v)
	}
	if c.Bool("deleted") {
		s.SetFilter("includeDeleted", "true")
	}
	s.SetSearch(c.String("search"))
	if f := c.String("sort"); f != "" {
		s.ToggleSort(f)
		if c.Bool("desc") {
			s.ToggleSort(f)
		}
	}
	s.SetPageIndex(c.Int("page") - 1)
	return s, nil
}

func getCommand() *cli.Command {
	return &cli.Command{
		Name:      "get",
		Usage:     "show one record with its children",
		ArgsUsage: "<resource> <id>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "code", Usage: "look up by natural key instead of id"},
		},
		Action: func(c *cli.Context) error {
			res, err := resourceArg(c)
			if err != nil {
				return err
			}
			var rec record
			if code := c.String("code"); code != "" {
				rec, err = res.GetByCode(c.Context, code)
			} else {
				id, idErr := idArg(c, 1)
				if idErr != nil {
					return idErr
				}
				rec, err = res.Get(c.Context, id)
			}
			if err != nil {
				return wrap(err)
			}
			if c.Bool(flagJSON) {
				return printJSON(c.App.Writer, rec)
			}
			return printRecord(c.App.Writer, rec)
		},
	}
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "create a record from a JSON object",
		ArgsUsage: "<resource>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "JSON file; stdin when omitted or -"},
		},
		Action: func(c *cli.Context) error {
			res, err := resourceArg(c)
			if err != nil {
				return err
			}
			var body record
			if err := readJSON(c, &body); err != nil {
				return err
			}

			var created record
			d := client.NewDrawer(client.DrawerOps[record]{
				New: func() record { return record{} },
				Create: func(ctx context.Context, form record) error {
					var err error
					created, err = res.Create(ctx, form)
					return err
				},
			})
			if err := d.OpenCreate(); err != nil {
				return err
			}
			_ = d.Edit(func(form *record) { *form = body })
			if _, err := d.Submit(c.Context); err != nil {
				return wrap(err)
			}
			return printResult(c, created)
		},
	}
}

func updateCommand() *cli.Command {
	return &cli.Command{
		Name:      "update",
		Usage:     "load a record, change fields and save it",
		ArgsUsage: "<resource> <id>",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{Name: "set", Usage: "field=value; value is parsed as JSON when it can be", Required: true},
		},
		Action: func(c *cli.Context) error {
			res, err := resourceArg(c)
			if err != nil {
				return err
			}
			id, err := idArg(c, 1)
			if err != nil {
				return err
			}
			changes, err := parseSets(c.StringSlice("set"))
			if err != nil {
				return err
			}

			var updated record
			d := client.NewDrawer(client.DrawerOps[record]{
				New:  func() record { return record{} },
				Load: res.Get,
				Update: func(ctx context.Context, id uint, form record) error {
					var err error
					updated, err = res.Update(ctx, id, form)
					return err
				},
			})
			if err := d.OpenEdit(c.Context, id); err != nil {
				return wrap(err)
			}
			_ = d.Edit(func(form *record) {
				for k, v := range changes {
					(*form)[k] = v
				}
			})
			if _, err := d.Submit(c.Context); err != nil {
				return wrap(err)
			}
			return printResult(c, updated)
		},
	}
}

func deleteCommand() *cli.Command {
	return &cli.Command{
		Name:      "delete",
		Usage:     "delete a record",
		ArgsUsage: "<resource> <id>",
		Action: func(c *cli.Context) error {
			res, err := resourceArg(c)
			if err != nil {
				return err
			}
			id, err := idArg(c, 1)
			if err != nil {
				return err
			}
			if err := res.Delete(c.Context, id); err != nil {
				return wrap(err)
			}
			_, err = fmt.Fprintf(c.App.Writer, "deleted %s %d\n", res.Name(), id)
			return err
		},
	}
}

func importCommand() *cli.Command {
	return &cli.Command{
		Name:      "import",
		Usage:     "create every record of a JSON array concurrently",
		ArgsUsage: "<resource>",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "JSON array file; stdin when omitted or -"},
			&cli.IntFlag{Name: "concurrency", Value: 4, Usage: "requests in flight; 0 for no limit"},
		},
		Action: func(c *cli.Context) error {
			res, err := resourceArg(c)
			if err != nil {
				return err
			}
			var rows []record
			if err := readJSON(c, &rows); err != nil {
				return err
			}
			if len(rows) == 0 {
				return errors.New("nothing to import")
			}

			tasks := make([]client.SaveTask, 0, len(rows))
			for i, row := range rows {
				tasks = append(tasks, client.SaveTask{
					Name: rowLabel(i, row),
					Run: func(ctx context.Context) error {
						_, err := res.Create(ctx, row)
						return err
					},
				})
			}
			report := client.SaveAllLimit(c.Context, c.Int("concurrency"), tasks...)

			w := c.App.Writer
			for _, f := range report.Failures {
				fmt.Fprintf(w, "  %s: %s\n", f.Name, client.DisplayMessage(f.Err))
			}
			fmt.Fprintln(w, report.Message())
			if report.Outcome == client.Failed {
				return errors.New("import failed")
			}
			return nil
		},
	}
}

func ordersCommand() *cli.Command {
	transition := func(action client.OrderAction, usage string, flags ...cli.Flag) *cli.Command {
		return &cli.Command{
			Name:      string(action),
			Usage:     usage,
			ArgsUsage: "<id>",
			Flags:     flags,
			Action: func(c *cli.Context) error {
				id, err := idArg(c, 0)
				if err != nil {
					return err
				}
				reason := strings.TrimSpace(c.String("reason"))
				if action == client.ActionReject && reason == "" {
					return errors.New("--reason is required to reject an order")
				}
				order, err := newClient(c).Transition(c.Context, id, action, reason)
				if err != nil {
					return wrap(err)
				}
				if c.Bool(flagJSON) {
					return printJSON(c.App.Writer, order)
				}
				_, err = fmt.Fprintf(c.App.Writer, "%s %s\n", order.OrderNumber, order.Status)
				return err
			},
		}
	}

	return &cli.Command{
		Name:  "orders",
		Usage: "move sales orders through the approval workflow",
		Subcommands: []*cli.Command{
			transition(client.ActionSubmit, "submit a draft order"),
			transition(client.ActionApprove, "approve a submitted order"),
			transition(client.ActionReject, "reject a submitted order",
				&cli.StringFlag{Name: "reason", Required: true}),
		},
	}
}

func readJSON(c *cli.Context, v any) error {
	var r io.Reader = c.App.Reader
	if path := c.String("file"); path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		r = f
	}
	dec := json.NewDecoder(r)
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("read JSON input: %w", err)
	}
	return nil
}

func parseSets(sets []string) (record, error) {
	out := make(record, len(sets))
	for _, kv := range sets {
		k, raw, ok := strings.Cut(kv, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return nil, fmt.Errorf("--set %q must be field=value", kv)
		}
		var v any
		if err := json.Unmarshal([]byte(raw), &v); err != nil {
			v = raw
		}
		out[k] = v
	}
	return out, nil
}

func printResult(c *cli.Context, rec record) error {
	if c.Bool(flagJSON) {
		return printJSON(c.App.Writer, rec)
	}
	return printRecord(c.App.Writer, rec)
}
