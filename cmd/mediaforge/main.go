package main

import (
	"flag"
	"os"
	"os/signal"

	"github.com/getsentry/sentry-go"
	"github.com/mediaforge/mediaforge/api"
	"github.com/mediaforge/mediaforge/common/config"
	"github.com/mediaforge/mediaforge/common/logging"
	"github.com/mediaforge/mediaforge/common/version"
	"github.com/mediaforge/mediaforge/metrics"
	"github.com/sirupsen/logrus"
)

func main() {
	configPath := flag.String("config", "mediaforge.yaml", "The path to the configuration")
	versionFlag := flag.Bool("version", false, "Prints the version and exits")
	flag.Parse()

	if *versionFlag {
		version.Print(false)
		return // exit 0
	}

	// Override config path with env for Docker users
	configEnv := os.Getenv("FORGE_CONFIG")
	if configEnv != "" {
		configPath = &configEnv
	}

	conf, err := config.Load(*configPath)
	if err != nil {
		panic(err)
	}

	err = logging.Setup(
		conf.General.LogDirectory,
		conf.General.LogColors,
		conf.General.JsonLogs,
		conf.General.LogLevel,
	)
	if err != nil {
		panic(err)
	}

	logrus.Info("Starting up...")
	version.Print(true)

	if conf.Sentry.Enabled {
		logrus.Info("Setting up Sentry for debugging...")
		err = sentry.Init(sentry.ClientOptions{
			Dsn:         conf.Sentry.Dsn,
			Environment: conf.Sentry.Environment,
			Debug:       conf.Sentry.Debug,
			Release:     version.Version,
		})
		if err != nil {
			logrus.Fatal(err)
		}
	}
	defer sentry.Recover()

	logrus.Info("Starting metrics...")
	metrics.Init(conf)

	logrus.Info("Starting config watcher...")
	watcher := config.Watch(*configPath, func(newConf *config.MediaForgeConfig) {
		conf = newConf
		metrics.Reload(conf)
		api.Reload(conf)
	})
	defer watcher.Close()

	logrus.Info("Starting media forge...")
	web := api.Init(conf)

	// Set up a listener for SIGINT
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	go func() {
		<-stop
		logrus.Warn("Stop signal received")

		logrus.Info("Stopping metrics...")
		metrics.Stop()

		logrus.Info("Stopping web server...")
		api.Stop()
	}()

	web.Wait()
	logrus.Info("Goodbye!")
}
