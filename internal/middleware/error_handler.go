package middleware

import (
	apiError "github.com/sinedd777/resume-reviewer/internal/errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ErrorHandler(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next() // Execute the handler first

		// detect any errors
		if len(c.Errors) > 0 {
			err := c.Errors.Last().Err

			// raw errors we didn't wrap are treated as internal
			apiErr := apiError.From(err)

			if apiErr.Status >= 500 {
				logger.Error(apiErr.Message,
					zap.String("kind", string(apiErr.Kind)),
					zap.String("path", c.Request.URL.Path),
					zap.Error(apiErr.Internal),
				)
			} else {
				logger.Info(apiErr.Message,
					zap.String("kind", string(apiErr.Kind)),
					zap.String("path", c.Request.URL.Path),
					zap.NamedError("cause", apiErr.Internal),
				)
			}

			c.AbortWithStatusJSON(apiErr.Status, apiErr)
		}
	}
}
