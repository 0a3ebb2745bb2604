package middleware

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

const HeaderRequestID = "X-Request-ID"

type AccessLogMiddleware struct {
	logger *log.Logger
}

func NewAccessLogMiddleware(logger *log.Logger) *AccessLogMiddleware {
	if logger == nil {
		logger = log.Default()
	}
	return &AccessLogMiddleware{logger: logger}
}

func (m *AccessLogMiddleware) Middleware() fiber.Handler {
	return func(c fiber.Ctx) error {
		start := time.Now()

		rid := c.Get(HeaderRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Set(HeaderRequestID, rid)

		err := c.Next()

		user, _ := c.Locals(CtxUsernameKey).(string)
		if user == "" {
			user = "-"
		}

		m.logger.Printf(
			"http_request rid=%s method=%s path=%s status=%d latency=%s ip=%s user=%s resp_bytes=%d",
			rid, c.Method(), c.OriginalURL(), c.Response().StatusCode(), time.Since(start), c.IP(), user,
			len(c.Response().Body()),
		)

		return err
	}
}
