package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/mediaforge/mediaforge/common/config"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var srv *http.Server

func Init(c *config.MediaForgeConfig) {
	if !c.Metrics.Enabled {
		logrus.Info("Metrics disabled")
		return
	}
	rtr := http.NewServeMux()
	rtr.Handle("/metrics", promhttp.Handler())

	address := c.Metrics.BindAddress + ":" + strconv.Itoa(c.Metrics.Port)
	srv = &http.Server{Addr: address, Handler: rtr}
	go func() {
		logrus.WithField("address", address).Info("Started metrics listener. Listening at http://" + address)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logrus.Fatal(err)
		}
	}()
}

func Reload(c *config.MediaForgeConfig) {
	Stop()
	Init(c)
}

func Stop() {
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			panic(err)
		}
		srv = nil
	}
}
