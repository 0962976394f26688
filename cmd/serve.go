package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fedroute/fedroute/boundary"
	"github.com/fedroute/fedroute/routing"
)

// serveCmd runs the websocket boundary bridge: controller shims connect,
// stream packet events, and receive forward/install effects.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the routing core over the websocket boundary bridge",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		cfg := GetCoreConfig(cfgFile)
		rng := routing.NewPartitionedRNG(routing.NewRunKey(seed))

		srv, err := boundary.NewServer(addr, time.Duration(cacheTTLSecs)*time.Second)
		if err != nil {
			logrus.Fatalf("Boundary server setup failed: %v", err)
		}
		core := routing.NewCore(cfg, rng, srv, nil)
		srv.Attach(core)

		if err := srv.Run(); err != nil {
			logrus.Fatalf("Boundary server failed: %v", err)
		}
	},
}
