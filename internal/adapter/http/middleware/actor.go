package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"casetasks/internal/core/domain"
	"casetasks/pkg/apierrors"
)

const (
	HeaderUserID   = "X-User-ID"
	HeaderTimezone = "X-User-Timezone"
	actorKey       = "actor"
)

// ActorMiddleware resolves the calling user and their time zone from the
// request headers. Requests without a valid user id are rejected.
func ActorMiddleware(defaultLocation *time.Location) gin.HandlerFunc {
	if defaultLocation == nil {
		defaultLocation = time.UTC
	}

	return func(c *gin.Context) {
		userID, err := strconv.ParseUint(strings.TrimSpace(c.GetHeader(HeaderUserID)), 10, 64)
		if err != nil || userID == 0 {
			c.AbortWithStatusJSON(
				http.StatusUnauthorized,
				apierrors.CreateError(http.StatusUnauthorized, apierrors.MsgUnauthenticated, GetLang(c)),
			)
			return
		}

		location := defaultLocation
		if name := strings.TrimSpace(c.GetHeader(HeaderTimezone)); name != "" {
			if loc, err := time.LoadLocation(name); err == nil {
				location = loc
			}
		}

		c.Set(actorKey, domain.Actor{UserID: userID, Location: location})
		c.Next()
	}
}

func GetActor(c *gin.Context) domain.Actor {
	actor, _ := lookupActor(c)
	return actor
}

func lookupActor(c *gin.Context) (domain.Actor, bool) {
	value, exists := c.Get(actorKey)
	if !exists {
		return domain.Actor{}, false
	}
	actor, ok := value.(domain.Actor)
	return actor, ok
}
