package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/bandfill/internal/server"
	"github.com/matzehuels/bandfill/pkg/cache"
	errs "github.com/matzehuels/bandfill/pkg/errors"
	"github.com/matzehuels/bandfill/pkg/pipeline"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr        string
	redis       string // shared cache url, replaces the file cache
	templateDir string
	timeout     time.Duration
	noCache     bool
}

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080", timeout: time.Minute}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP fill service",
		Long: `Run the HTTP fill service.

Endpoints:
  GET  /healthz      liveness and version
  GET  /v1/formats   supported output formats
  POST /v1/fill      fill a template sent in the request body

With --redis the filled documents and artifacts are cached in Redis and
shared between instances; otherwise the local file cache is used.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			runner, err := c.serveRunner(cmd, opts)
			if err != nil {
				return err
			}
			defer runner.Close()

			var srvOpts []server.Option
			srvOpts = append(srvOpts, server.WithTimeout(opts.timeout))
			if opts.templateDir != "" {
				srvOpts = append(srvOpts, server.WithTemplateDir(opts.templateDir))
			}
			return server.New(runner, c.Logger, srvOpts...).ListenAndServe(ctx, opts.addr)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.redis, "redis", "", "redis url for a shared cache (redis://host:6379/0)")
	cmd.Flags().StringVar(&opts.templateDir, "templates", "", "directory of templates requests may refer to by name")
	cmd.Flags().DurationVar(&opts.timeout, "timeout", opts.timeout, "time limit of one fill request")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) serveRunner(cmd *cobra.Command, opts serveOpts) (*pipeline.Runner, error) {
	if opts.redis == "" || opts.noCache {
		return c.newRunner(opts.noCache)
	}
	if err := errs.ValidateURL(opts.redis); err != nil {
		return nil, err
	}
	rc, err := cache.NewRedisCache(cmd.Context(), opts.redis, "")
	if err != nil {
		return nil, err
	}
	c.Logger.Info("using redis cache", "url", opts.redis)
	return pipeline.NewRunner(rc, cache.NewScopedKeyer(nil, appName+":"), c.Logger), nil
}
