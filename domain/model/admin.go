package model

import "github.com/golang-jwt/jwt"

const AdminTokenIssuer = "review-enhancer"

// AdminClaims identifies the mall an admin token was issued for.
type AdminClaims struct {
	MallID string `json:"mall_id"`
	jwt.StandardClaims
}
