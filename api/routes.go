package api

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/mediaforge/mediaforge/api/_routers"
	"github.com/mediaforge/mediaforge/api/v1"
	"github.com/mediaforge/mediaforge/common/config"
)

func buildRoutes(conf *config.MediaForgeConfig) http.Handler {
	counter := &_routers.RequestCounter{}
	router := buildPrimaryRouter()

	register([]string{"POST"}, "/v1/images/convert", router, makeRoute(v1.ConvertImage, "convert_image", conf, counter))
	register([]string{"POST"}, "/v1/images/batch", router, makeRoute(v1.BatchConvertImages, "batch_convert_images", conf, counter))
	register([]string{"POST"}, "/v1/audio/peaks", router, makeRoute(v1.AudioPeaks, "audio_peaks", conf, counter))
	register([]string{"POST"}, "/v1/audio/peaks/batch", router, makeRoute(v1.BatchAudioPeaks, "batch_audio_peaks", conf, counter))

	router.Handler("GET", "/version", makeRoute(v1.GetVersion, "get_version", conf, counter))
	healthzRoute := makeRoute(v1.GetHealthz, "healthz", conf, counter)
	router.Handler("GET", "/healthz", healthzRoute)
	router.Handler("HEAD", "/healthz", healthzRoute)

	return router
}

func makeRoute(generator _routers.GeneratorFn, name string, conf *config.MediaForgeConfig, counter *_routers.RequestCounter) http.Handler {
	return _routers.NewInstallMetadataRouter(name, counter,
		_routers.NewMetricsRequestRouter(
			_routers.NewInstallHeadersRouter(
				_routers.NewRContextRouter(generator, conf, nil))))
}

func register(methods []string, path string, router *httprouter.Router, handler http.Handler) {
	for _, method := range methods {
		router.Handler(method, path, handler)
	}
}
