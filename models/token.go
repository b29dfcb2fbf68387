package models

import "github.com/golang-jwt/jwt/v5"

// LoginClaims, giriş çerezinde taşınan imzalı token'ın içeriği (payload).
//
// Çerez yalnızca bayrağın kimliğini (FlagID) ve kapsamını taşır; bayrağın
// kendisi ilgili depoda (SQLite ya da bellek) durur. İmza, çerezin elle
// değiştirilmesini engeller — ama bu mekanizma gerçek bir güvenlik sağlamaz.
type LoginClaims struct {
	FlagID   string     `json:"fid"`
	Username string     `json:"username"`
	Scope    LoginScope `json:"scope"`
	jwt.RegisteredClaims
}
