package limits

import (
	"encoding/json"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/mediaforge/mediaforge/api/_responses"
	"github.com/mediaforge/mediaforge/common/config"
)

var requestLimiter *limiter.Limiter

func init() {
	requestLimiter = tollbooth.NewLimiter(0, nil)
	requestLimiter.SetIPLookups([]string{"X-Forwarded-For", "X-Real-IP", "RemoteAddr"})
	requestLimiter.SetTokenBucketExpirationTTL(time.Hour)

	b, _ := json.Marshal(_responses.RateLimitReached())
	requestLimiter.SetMessage(string(b))
	requestLimiter.SetMessageContentType("application/json")
}

func GetRequestLimiter(c *config.MediaForgeConfig) *limiter.Limiter {
	requestLimiter.SetBurst(c.RateLimit.BurstCount)
	requestLimiter.SetMax(c.RateLimit.RequestsPerSecond)

	return requestLimiter
}
