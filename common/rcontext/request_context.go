package rcontext

import (
	"context"
	"net/http"

	"github.com/mediaforge/mediaforge/common/config"
	"github.com/sirupsen/logrus"
)

func Initial(c *config.MediaForgeConfig) RequestContext {
	return RequestContext{
		Context: context.Background(),
		Log:     logrus.WithFields(logrus.Fields{"nocontext": true}),
		Config:  *c,
		Request: nil,
	}.populate()
}

type RequestContext struct {
	context.Context

	// These are also stored on the context object itself
	Log     *logrus.Entry           // mf.logger
	Config  config.MediaForgeConfig // mf.serviceConfig
	Request *http.Request           // mf.request
}

func (c RequestContext) populate() RequestContext {
	c.Context = context.WithValue(c.Context, "mf.logger", c.Log)
	c.Context = context.WithValue(c.Context, "mf.serviceConfig", c.Config)
	c.Context = context.WithValue(c.Context, "mf.request", c.Request)
	return c
}

func (c RequestContext) ReplaceLogger(log *logrus.Entry) RequestContext {
	ctx := context.WithValue(c.Context, "mf.logger", log)
	return RequestContext{
		Context: ctx,
		Log:     log,
		Config:  c.Config,
		Request: c.Request,
	}
}

func (c RequestContext) LogWithFields(fields logrus.Fields) RequestContext {
	return c.ReplaceLogger(c.Log.WithFields(fields))
}
