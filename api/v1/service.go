package v1

import (
	"net/http"

	"github.com/mediaforge/mediaforge/api/_responses"
	"github.com/mediaforge/mediaforge/common/rcontext"
	"github.com/mediaforge/mediaforge/common/version"
)

type HealthzResponse struct {
	OK     bool   `json:"ok"`
	Status string `json:"status"`
}

type VersionResponse struct {
	Version string `json:"version"`
	Commit  string `json:"commit"`
}

func GetHealthz(r *http.Request, rctx rcontext.RequestContext) interface{} {
	return &_responses.DoNotCacheResponse{Payload: &HealthzResponse{
		OK:     true,
		Status: "Probably not dead",
	}}
}

func GetVersion(r *http.Request, rctx rcontext.RequestContext) interface{} {
	version.SetDefaults()
	return &VersionResponse{
		Version: version.Version,
		Commit:  version.GitCommit,
	}
}
