package service

import (
	"github.com/dom/sleep-tracker/internal/clock"
	"github.com/dom/sleep-tracker/internal/config"
	"github.com/dom/sleep-tracker/internal/repository"
)

type Services struct {
	Auth   *AuthService
	Sleep  *SleepService
	Follow *FollowService
	Feed   *FeedService
}

func NewServices(repos *repository.Repositories, cfg *config.Config, clk clock.Clock) *Services {
	return &Services{
		Auth:   NewAuthService(repos.User, repos.AuthSession, cfg, clk),
		Sleep:  NewSleepService(repos.SleepSession, clk),
		Follow: NewFollowService(repos.Follow, repos.User, clk),
		Feed:   NewFeedService(repos.Follow, repos.SleepSession, clk, cfg.FeedWindow),
	}
}
