package services_test

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/mock"

	"github.com/stitts-dev/fusion-ai/internal/models"
)

// MockDelegate for testing
type MockDelegate struct {
	mock.Mock
}

func (m *MockDelegate) Generate(ctx context.Context, prompt string) (string, error) {
	args := m.Called(ctx, prompt)
	return args.String(0), args.Error(1)
}

func (m *MockDelegate) Chat(ctx context.Context, history []models.ChatTurn, message string) (string, error) {
	args := m.Called(ctx, history, message)
	return args.String(0), args.Error(1)
}

type failingProvider struct{}

func (failingProvider) Profiles(ctx context.Context, ids []int) (map[int]models.PlayerProfile, error) {
	return nil, errors.New("player data offline")
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.PanicLevel)
	return l
}
