package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/mediaforge/mediaforge/common/config"
	"github.com/mediaforge/mediaforge/limits"
	"github.com/sirupsen/logrus"
)

var srv *http.Server
var waitGroup = &sync.WaitGroup{}
var reload = false

func Init(conf *config.MediaForgeConfig) *sync.WaitGroup {
	address := net.JoinHostPort(conf.General.BindAddress, strconv.Itoa(conf.General.Port))

	handler := buildRoutes(conf)

	if conf.RateLimit.Enabled {
		logrus.Debug("Enabling rate limit")
		handler = tollbooth.LimitHandler(limits.GetRequestLimiter(conf), handler)
	}

	// Bind Sentry here to ensure we capture *everything*
	sentryHandler := sentryhttp.New(sentryhttp.Options{})
	srv = &http.Server{Addr: address, Handler: sentryHandler.Handle(handler)}
	if !reload {
		waitGroup.Add(1)
	}
	reload = false

	go func() {
		//goland:noinspection HttpUrlsUsage
		logrus.WithField("address", address).Info("Started up. Listening at http://" + address)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			sentry.CaptureException(err)
			logrus.Fatal(err)
		}

		// Only notify the main thread that we're done if we're actually done
		srv = nil
		if !reload {
			waitGroup.Done()
		}
	}()

	return waitGroup
}

func Reload(conf *config.MediaForgeConfig) {
	reload = true

	// Stop the server first
	Stop()

	// Restart it with the new config, ignoring the wait group (because we
	// don't care to wait here)
	Init(conf)
}

func Stop() {
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			panic(err)
		}
	}
}
