package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"review-enhancer/domain/dto"
	"review-enhancer/domain/model"
	"review-enhancer/infrastructure/logger"
)

// ContextMallID is the gin context key holding the authenticated mall.
const ContextMallID = "mall_id"

// AdminAuth accepts bearer tokens issued by the OAuth callback.
func AdminAuth(secretKey string) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		res := dto.Res{ResponseCode: "401", ResponseMessage: "Unauthorized"}

		authorization := ctx.GetHeader("Authorization")
		raw := strings.TrimPrefix(authorization, "Bearer ")
		if authorization == "" || raw == authorization || raw == "" || secretKey == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		claims, err := parseClaims(raw, secretKey)
		if err != nil {
			res.ResponseMessage = rejectReason(err)
			logger.GetLogger().WithField("reason", res.ResponseMessage).Warn("Admin token rejected")
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, res)
			return
		}

		// a token only administers its own mall
		if mallID := ctx.Param("mallId"); mallID != "" && mallID != claims.MallID {
			res.ResponseCode = "403"
			res.ResponseMessage = "Forbidden"
			ctx.AbortWithStatusJSON(http.StatusForbidden, res)
			return
		}

		ctx.Set(ContextMallID, claims.MallID)
		ctx.Next()
	}
}

func parseClaims(raw, secretKey string) (*model.AdminClaims, error) {
	claims := &model.AdminClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return []byte(secretKey), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid || claims.MallID == "" {
		return nil, errors.New("invalid token claims")
	}
	return claims, nil
}

func rejectReason(err error) string {
	var ve *jwt.ValidationError
	if errors.As(err, &ve) {
		switch {
		case ve.Errors&jwt.ValidationErrorMalformed != 0:
			return "That's not even a token"
		case ve.Errors&(jwt.ValidationErrorExpired|jwt.ValidationErrorNotValidYet) != 0:
			return "Timing is everything"
		}
	}
	return fmt.Sprintf("Couldn't handle this token: %v", err)
}
