package auth

import (
	"time"

	"docvault/pkg/utilities"
)

const (
	DefaultCookieName = "token"
	defaultTokenTtl   = 24 * time.Hour
	defaultIssuer     = "docvault"
)

type AuthConfigJson struct {
	JwtSecret       string `json:"jwt_secret"`
	Issuer          string `json:"issuer"`
	TokenTtlMinutes int    `json:"token_ttl_minutes"`
	CookieName      string `json:"cookie_name"`
	CookieDomain    string `json:"cookie_domain"`
	CookieSecure    bool   `json:"cookie_secure"`
}

type AuthConfig struct {
	JwtSecret    string
	Issuer       string
	TokenTtl     time.Duration
	CookieName   string
	CookieDomain string
	CookieSecure bool
}

func (acj AuthConfigJson) ConvertToDomain() AuthConfig {
	return AuthConfig{
		JwtSecret:    acj.JwtSecret,
		Issuer:       utilities.Ternary(acj.Issuer == "", defaultIssuer, acj.Issuer),
		TokenTtl:     utilities.Ternary(acj.TokenTtlMinutes <= 0, defaultTokenTtl, time.Duration(acj.TokenTtlMinutes)*time.Minute),
		CookieName:   utilities.Ternary(acj.CookieName == "", DefaultCookieName, acj.CookieName),
		CookieDomain: acj.CookieDomain,
		CookieSecure: acj.CookieSecure,
	}
}

type RedisConfigJson struct {
	Addr     string `json:"addr"`
	Password string `json:"password"`
	DB       int    `json:"db"`
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func (rcj RedisConfigJson) ConvertToDomain() RedisConfig {
	return RedisConfig{Addr: rcj.Addr, Password: rcj.Password, DB: rcj.DB}
}
