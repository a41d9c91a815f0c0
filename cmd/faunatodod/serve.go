package main

import (
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"faunatodo/internal/config"
	"faunatodo/internal/logging"
	"faunatodo/internal/proxy"
	"faunatodo/internal/web"
)

func serveCmd(flags *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the task page and the /api/fauna proxy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(flags)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}

			logger := logging.New(cmd.ErrOrStderr(), cfg.Debug)
			if !cfg.Debug {
				gin.SetMode(gin.ReleaseMode)
			}
			if !cfg.HasEndpoint() {
				logger.Warn("proxy endpoint not configured, every proxied request will fail", "env", config.EnvEndpoint)
			}

			srv := web.NewServer(web.Options{
				Logger: logger,
				Proxy: proxy.Options{
					Endpoint:    cfg.Endpoint,
					Credential:  cfg.Credential,
					Timeout:     cfg.Timeout,
					EnforcePOST: cfg.EnforcePOST,
				},
			})
			return srv.Run(cmd.Context(), cfg.Addr)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :3000)")
	return cmd
}
