package cmd

import (
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/fedroute/fedroute/routing"
	"github.com/fedroute/fedroute/routing/trace"
	"github.com/fedroute/fedroute/routing/workload"
)

// simulateCmd drives the core with a synthetic packet workload and prints
// a trace summary.
var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Drive the routing core with a synthetic packet workload",
	Run: func(cmd *cobra.Command, args []string) {
		setupLogging()

		if !trace.IsValidLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level: %s", traceLevel)
		}

		cfg := GetCoreConfig(cfgFile)
		rng := routing.NewPartitionedRNG(routing.NewRunKey(seed))

		gen, err := workload.NewGenerator(workload.Spec{
			Switches: switches,
			Hosts:    hosts,
			Packets:  packets,
		}, rng.ForSubsystem(routing.SubsystemWorkload))
		if err != nil {
			logrus.Fatalf("Invalid workload: %v", err)
		}

		rec := trace.NewDecisionTrace(trace.Config{Level: trace.Level(traceLevel)})
		bnd := routing.NewRecordingBoundary()
		core := routing.NewCore(cfg, rng, bnd, rec)

		logrus.Infof("Starting simulation: %d switches, %d hosts, %d packets, seed=%d",
			switches, hosts, packets, seed)
		startTime := time.Now()

		for _, dpid := range gen.Switches() {
			if err := core.OnSwitchConnected(dpid); err != nil {
				logrus.Fatalf("Switch connect failed: %v", err)
			}
		}
		for i := 0; i < packets; i++ {
			if _, err := core.OnPacketObserved(gen.Next()); err != nil {
				logrus.Fatalf("Packet handling failed: %v", err)
			}
		}

		summary := trace.Summarize(rec)
		logrus.Infof("Simulation complete in %v", time.Since(startTime))
		logrus.Infof("Decisions: %d (%d flows), fallback rate %.3f, mean trust %.3f",
			summary.TotalDecisions, summary.UniqueFlows, summary.FallbackRate, summary.MeanTrust)
		logrus.Infof("Aggregations: %d rounds, %d values merged",
			summary.AggregationRounds, summary.MergedValues)
		for action, count := range summary.ActionDistribution {
			logrus.Infof("  action %s: %d decisions", action, count)
		}
	},
}
