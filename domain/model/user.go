package model

import (
	"time"

	"github.com/golang-jwt/jwt"
)

type User struct {
	ID        int       `json:"id"`
	Name      string    `json:"name"`
	UserName  string    `json:"user_name"`
	Password  string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ReqLogin struct {
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ReqRegister struct {
	Name     string `json:"name" binding:"required"`
	UserName string `json:"user_name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserClaims carries the authenticated user through the JWT. Issuer holds the
// user id so handlers can scope queries with ctx.GetString("user_id").
type UserClaims struct {
	UserName string `json:"user_name"`
	jwt.StandardClaims
}
