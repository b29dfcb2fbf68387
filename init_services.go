// Package main — Service katmanı başlatma.
//
// initServices, Session Gate'i, kitap backend istemcisini ve giriş deneme
// sınırlayıcısını oluşturur.
package main

import (
	"fmt"

	"github.com/benbjohnson/clock"

	"github.com/akinalp/kutuphane/config"
	"github.com/akinalp/kutuphane/pkg/bookapi"
	"github.com/akinalp/kutuphane/pkg/ratelimit"
	"github.com/akinalp/kutuphane/services"
)

// Services, service instance'larını tutan container struct.
type Services struct {
	Gate    services.SessionGate
	BookAPI *bookapi.Client
}

// RateLimiters, rate limiter instance'larını tutan container.
type RateLimiters struct {
	Login *ratelimit.LoginLimiter
}

// initServices, service'leri ve rate limiter'ları oluşturur.
func initServices(repos *Repositories, clk clock.Clock, cfg *config.Config) (*Services, *RateLimiters, error) {
	gate, err := services.NewSessionGate(repos.DurableFlags, repos.SessionFlags, services.GateOptions{
		Username:    cfg.Login.Username,
		Password:    cfg.Login.Password,
		Secret:      cfg.Login.Secret,
		RememberFor: cfg.Login.RememberFor,
		SessionTTL:  cfg.Login.SessionTTL,
		Clock:       clk,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session gate: %w", err)
	}

	svcs := &Services{
		Gate:    gate,
		BookAPI: bookapi.NewClient(cfg.API.BaseURL, cfg.API.UserAgent, cfg.API.Timeout),
	}

	limiters := &RateLimiters{
		Login: ratelimit.NewLoginLimiter(clk, cfg.Login.MaxAttempts, cfg.Login.AttemptWindow),
	}

	return svcs, limiters, nil
}
