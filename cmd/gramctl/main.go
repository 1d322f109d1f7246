// Command gramctl drives the GramRoute API from a terminal.
//
//	gramctl [global flags] <command> [command flags]
//
// Commands: login, register, submit, reports, report, admin-reports,
// set-status, profile, stats. The token printed by login can be passed back
// with --token or GRAMROUTE_TOKEN.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"gramroute/pkg/client"

	"github.com/spf13/pflag"
)

const (
	defaultServer = "http://localhost:5000"

	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	os.Exit(run(ctx, os.Args[1:], os.Stdout, os.Stderr))
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	global := pflag.NewFlagSet("gramctl", pflag.ContinueOnError)
	global.SetOutput(stderr)
	global.SetInterspersed(false)
	server := global.StringP("server", "s", envOr("GRAMROUTE_SERVER", defaultServer), "API base URL")
	token := global.StringP("token", "t", os.Getenv("GRAMROUTE_TOKEN"), "session token from a previous login")
	global.Usage = func() { printUsage(stderr, global) }

	if err := global.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	if global.NArg() == 0 {
		printUsage(stderr, global)
		return exitUsage
	}

	c := client.New(*server)
	if *token != "" {
		c.Session().Login(client.User{}, *token)
	}

	cmd, ok := commands[global.Arg(0)]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", global.Arg(0))
		printUsage(stderr, global)
		return exitUsage
	}

	fs := pflag.NewFlagSet(global.Arg(0), pflag.ContinueOnError)
	fs.SetOutput(stderr)
	exec := cmd.setup(fs)
	if err := fs.Parse(global.Args()[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	out, err := exec(ctx, c, fs.Args())
	if err != nil {
		var usageErr usageError
		if errors.As(err, &usageErr) {
			fmt.Fprintf(stderr, "%s: %s\n", global.Arg(0), usageErr)
			fs.PrintDefaults()
			return exitUsage
		}
		fmt.Fprintf(stderr, "%s: %v\n", global.Arg(0), err)
		return exitError
	}

	if out != nil {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(out); err != nil {
			fmt.Fprintf(stderr, "failed to write output: %v\n", err)
			return exitError
		}
	}
	return exitOK
}

type usageError string

func (e usageError) Error() string { return string(e) }

type execFunc func(ctx context.Context, c *client.Client, args []string) (interface{}, error)

type command struct {
	summary string
	setup   func(fs *pflag.FlagSet) execFunc
}

var commands = map[string]command{
	"login": {
		summary: "sign in and print the session token",
		setup: func(fs *pflag.FlagSet) execFunc {
			email := fs.StringP("email", "e", "", "account email")
			password := fs.StringP("password", "p", "", "account password")
			return func(ctx context.Context, c *client.Client, _ []string) (interface{}, error) {
				if *email == "" || *password == "" {
					return nil, usageError("--email and --password are required")
				}
				return c.Login(ctx, *email, *password)
			}
		},
	},
	"register": {
		summary: "create an account and print the session token",
		setup: func(fs *pflag.FlagSet) execFunc {
			var in client.RegisterInput
			fs.StringVarP(&in.Email, "email", "e", "", "account email")
			fs.StringVarP(&in.Username, "username", "u", "", "public username")
			fs.StringVarP(&in.Password, "password", "p", "", "password")
			fs.StringVar(&in.FirstName, "first-name", "", "first name")
			fs.StringVar(&in.LastName, "last-name", "", "last name")
			phone := fs.String("phone", "", "phone number")
			address := fs.String("address", "", "postal address")
			return func(ctx context.Context, c *client.Client, _ []string) (interface{}, error) {
				if in.Email == "" || in.Username == "" || in.Password == "" {
					return nil, usageError("--email, --username and --password are required")
				}
				in.Phone = optional(fs, "phone", *phone)
				in.Address = optional(fs, "address", *address)
				return c.Register(ctx, in)
			}
		},
	},
	"submit": {
		summary: "submit a new report",
		setup: func(fs *pflag.FlagSet) execFunc {
			var in client.ReportInput
			fs.StringVar(&in.Title, "title", "", "short title")
			fs.StringVar(&in.Description, "description", "", "what is wrong and where")
			fs.StringVarP(&in.Category, "category", "c", "", "road, safety, waste, utilities or other")
			lat := fs.Float64("lat", 0, "latitude")
			lng := fs.Float64("lng", 0, "longitude")
			file := fs.String("file", "", "name of an attached file")
			return func(ctx context.Context, c *client.Client, _ []string) (interface{}, error) {
				if fs.Changed("lat") {
					in.Latitude = lat
				}
				if fs.Changed("lng") {
					in.Longitude = lng
				}
				in.FileName = optional(fs, "file", *file)
				return c.SubmitReport(ctx, in)
			}
		},
	},
	"reports": {
		summary: "list your reports",
		setup: func(fs *pflag.FlagSet) execFunc {
			return func(ctx context.Context, c *client.Client, _ []string) (interface{}, error) {
				return c.MyReports(ctx)
			}
		},
	},
	"report": {
		summary: "show one report by id",
		setup: func(fs *pflag.FlagSet) execFunc {
			return func(ctx context.Context, c *client.Client, args []string) (interface{}, error) {
				if len(args) != 1 {
					return nil, usageError("expected exactly one report id")
				}
				return c.GetReport(ctx, args[0])
			}
		},
	},
	"admin-reports": {
		summary: "list every report (admin)",
		setup: func(fs *pflag.FlagSet) execFunc {
			status := fs.String("status", "", "only reports in this status")
			return func(ctx context.Context, c *client.Client, _ []string) (interface{}, error) {
				return c.AdminReports(ctx, *status)
			}
		},
	},
	"set-status": {
		summary: "advance a report's status (admin)",
		setup: func(fs *pflag.FlagSet) execFunc {
			return func(ctx context.Context, c *client.Client, args []string) (interface{}, error) {
				if len(args) != 2 {
					return nil, usageError("expected <report-id> <status>")
				}
				return c.UpdateReportStatus(ctx, args[0], args[1])
			}
		},
	},
	"profile": {
		summary: "show your profile",
		setup: func(fs *pflag.FlagSet) execFunc {
			return func(ctx context.Context, c *client.Client, _ []string) (interface{}, error) {
				return c.Profile(ctx)
			}
		},
	},
	"stats": {
		summary: "show your report counts, score and rank",
		setup: func(fs *pflag.FlagSet) execFunc {
			return func(ctx context.Context, c *client.Client, _ []string) (interface{}, error) {
				return c.Stats(ctx)
			}
		},
	},
}

func optional(fs *pflag.FlagSet, name, value string) *string {
	if !fs.Changed(name) {
		return nil
	}
	return &value
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func printUsage(w io.Writer, global *pflag.FlagSet) {
	fmt.Fprintln(w, "usage: gramctl [flags] <command> [command flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "commands:")
	for _, name := range []string{"login", "register", "submit", "reports", "report", "admin-reports", "set-status", "profile", "stats"} {
		fmt.Fprintf(w, "  %-14s %s\n", name, commands[name].summary)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "flags:")
	global.SetOutput(w)
	global.PrintDefaults()
}
