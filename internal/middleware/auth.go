package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BestDemain/EduAssistSys/internal/config"
	"github.com/BestDemain/EduAssistSys/internal/util"
)

// AuthMiddleware 校验 Bearer 令牌，解析出的用户信息放入上下文。
// 兼容 query 参数 token，便于浏览器直接访问导出类接口。
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := ""
		authHeader := c.GetHeader("Authorization")
		if authHeader != "" {
			tokenString = strings.TrimPrefix(authHeader, "Bearer ")
		}

		if tokenString == "" {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		claims, err := util.ParseJWT(tokenString, cfg.JWT.Secret)
		if err != nil {
			util.Unauthorized(c)
			c.Abort()
			return
		}

		c.Set("user", claims)
		c.Next()
	}
}
