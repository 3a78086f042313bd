package main

import (
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/cuemby/pubsubcore/pkg/eventloop"
	"github.com/cuemby/pubsubcore/pkg/events"
	"github.com/cuemby/pubsubcore/pkg/log"
	"github.com/cuemby/pubsubcore/pkg/metrics"
	"github.com/cuemby/pubsubcore/pkg/pubsub"
	"github.com/cuemby/pubsubcore/pkg/session"
	"github.com/cuemby/pubsubcore/pkg/transport"
	"github.com/cuemby/pubsubcore/pkg/transport/mqtt"
	"github.com/cuemby/pubsubcore/pkg/transport/udp"
)

var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:     "pubsubcore",
	Short:   "PubSubManager core: connections, writer/reader groups, and dataset registries",
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf("pubsubcore version %s\nCommit: %s\n", Version, Commit))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-json", false, "Output logs in JSON format")
	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(connectionCmd)
	rootCmd.AddCommand(publishedDataSetCmd)
	rootCmd.AddCommand(reserveCmd)
}

func initLogging() {
	level, _ := rootCmd.PersistentFlags().GetString("log-level")
	jsonOutput, _ := rootCmd.PersistentFlags().GetBool("log-json")
	log.Init(log.Config{Level: log.Level(level), JSONOutput: jsonOutput})
}

// newManager builds a Manager with the standard transport bindings
// (UDP-UADP, MQTT-UADP, MQTT-JSON) wired in, the way a single process
// hosting this core is expected to (§6).
func newManager() *pubsub.Manager {
	registry := transport.NewRegistry()
	registry.Register("http://opcfoundation.org/UA-Profile/Transport/pubsub-udp-uadp", udp.New())
	mqttHandler := mqtt.New(5 * time.Second)
	registry.Register("http://opcfoundation.org/UA-Profile/Transport/pubsub-mqtt-uadp", mqttHandler)
	registry.Register("http://opcfoundation.org/UA-Profile/Transport/pubsub-mqtt-json", mqttHandler)

	sessions := session.NewRegistry()
	sessions.SetAdminSession("cli-admin")

	broker := events.NewBroker()
	broker.Start()

	return pubsub.New(pubsub.Config{
		TransportRegistry: registry,
		EventLoop:         eventloop.New(),
		Sessions:          sessions,
		EventBroker:       broker,
	})
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the manager, optionally applying an initial configuration, and block until signaled",
	RunE: func(cmd *cobra.Command, args []string) error {
		configFile, _ := cmd.Flags().GetString("config")
		metricsAddr, _ := cmd.Flags().GetString("metrics-addr")

		mgr := newManager()
		defer mgr.Destroy()

		if configFile != "" {
			if err := applyFile(mgr, configFile); err != nil {
				return fmt.Errorf("applying %s: %w", configFile, err)
			}
		}

		collector := metrics.NewCollector(mgr)
		collector.Start()
		defer collector.Stop()

		go func() {
			http.Handle("/metrics", metrics.Handler())
			if err := http.ListenAndServe(metricsAddr, nil); err != nil {
				fmt.Fprintf(os.Stderr, "metrics server error: %v\n", err)
			}
		}()
		fmt.Printf("metrics endpoint: http://%s/metrics\n", metricsAddr)
		fmt.Println("pubsubcore is running. Press Ctrl+C to stop.")

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		<-sigCh

		fmt.Println("\nshutting down...")
		return nil
	},
}

func init() {
	serveCmd.Flags().StringP("config", "f", "", "YAML configuration file to apply at startup")
	serveCmd.Flags().String("metrics-addr", "127.0.0.1:9090", "Address for the Prometheus metrics endpoint")
}
