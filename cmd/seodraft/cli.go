package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/hpungsan/seodraft/internal/errors"
	"github.com/hpungsan/seodraft/internal/mcp"
	"github.com/hpungsan/seodraft/internal/ops"
	"github.com/hpungsan/seodraft/internal/web"
)

// stdout is where command results go. Tests swap it.
var stdout io.Writer = os.Stdout

// newCLIApp creates the CLI application with all commands.
// d is nil when only help or version output is needed.
func newCLIApp(d *deps) *cli.App {
	app := &cli.App{
		Name:    "seodraft",
		Usage:   "Generate, score and gate SEO blog drafts",
		Version: Version,
		Commands: []*cli.Command{
			serveCmd(d),
			mcpCmd(d),
			generateCmd(d),
			draftsCmd(d),
			postCmd(d),
			enqueueCmd(d),
			queueCmd(d),
			healthCmd(d),
		},
	}
	// Disable default exit error handler to allow proper error return in tests
	app.ExitErrHandler = func(_ *cli.Context, _ error) {}
	return app
}

// serveCmd creates the serve command.
func serveCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "bind", Usage: "Bind address (default from config)"},
			&cli.IntFlag{Name: "port", Aliases: []string{"p"}, Usage: "Port (default from config)"},
		},
		Action: func(c *cli.Context) error {
			bind, port := d.cfg.Server.Bind, d.cfg.Server.Port
			if c.IsSet("bind") {
				bind = c.String("bind")
			}
			if c.IsSet("port") {
				port = c.Int("port")
			}

			srv := web.NewServer(web.Deps{
				Pipeline: d.pipeline,
				Store:    d.store,
				Logger:   d.log,
				Metrics:  d.metrics,
			}, bind, port)
			return web.Run(srv, d.log)
		},
	}
}

// mcpCmd creates the mcp command.
func mcpCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "mcp",
		Usage: "Run the MCP server over stdio",
		Action: func(c *cli.Context) error {
			return mcp.Run(d.pipeline, d.store, d.cfg.DisabledTools, Version)
		},
	}
}

// generateCmd creates the generate command.
func generateCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "generate",
		Usage:     "Draft, score and gate one post",
		ArgsUsage: "<keyword>",
		Action: func(c *cli.Context) error {
			keyword := strings.Join(c.Args().Slice(), " ")

			output, err := ops.Generate(c.Context, d.pipeline, ops.GenerateInput{Keyword: keyword})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// draftsCmd creates the drafts command.
func draftsCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "drafts",
		Usage: "List draft posts, newest first",
		Flags: []cli.Flag{
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultDraftsLimit, Usage: "Maximum rows (max 50)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListDrafts(c.Context, d.store, ops.ListDraftsInput{Limit: c.Int("limit")})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// postCmd creates the post command.
func postCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:      "post",
		Usage:     "Fetch a post with body and hashtags split apart",
		ArgsUsage: "<id>",
		Flags: []cli.Flag{
			&cli.BoolFlag{Name: "html", Usage: "Also render the body as HTML"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.GetPost(c.Context, d.store, ops.GetPostInput{
				ID:          c.Args().First(),
				IncludeHTML: c.Bool("html"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// enqueueCmd creates the enqueue command.
func enqueueCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "enqueue",
		Usage: "Schedule a keyword for publishing",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "keyword", Aliases: []string{"k"}, Usage: "Keyword to publish"},
			&cli.StringFlag{Name: "platform", Value: ops.DefaultPlatform, Usage: "Platform: naver|tistory"},
			&cli.StringFlag{Name: "at", Usage: "Publish time as \"YYYY-MM-DD HH:MM:SS\""},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.Enqueue(c.Context, d.store, ops.EnqueueInput{
				Keyword:     c.String("keyword"),
				Platform:    c.String("platform"),
				ScheduledAt: c.String("at"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// queueCmd creates the queue command.
func queueCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "queue",
		Usage: "List scheduled publish requests",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "status", Usage: "Status filter (default queued, \"all\" for every status)"},
			&cli.IntFlag{Name: "limit", Aliases: []string{"l"}, Value: ops.DefaultQueueLimit, Usage: "Maximum rows (max 200)"},
		},
		Action: func(c *cli.Context) error {
			output, err := ops.ListQueue(c.Context, d.store, ops.ListQueueInput{
				Status: c.String("status"),
				Limit:  c.Int("limit"),
			})
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// healthCmd creates the health command.
func healthCmd(d *deps) *cli.Command {
	return &cli.Command{
		Name:  "health",
		Usage: "Check that the store answers",
		Action: func(c *cli.Context) error {
			output, err := ops.Health(c.Context, d.store)
			if err != nil {
				return outputError(err)
			}

			return outputJSON(output)
		},
	}
}

// Helper functions

// outputJSON marshals result to stdout as JSON.
func outputJSON(v any) error {
	enc := json.NewEncoder(stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// outputError formats error for CLI.
func outputError(err error) error {
	dErr := errors.From(err)
	return cli.Exit(fmt.Sprintf("[%s] %s", dErr.Code, dErr.Message), 1)
}
