package services

import (
	"context"
	"log/slog"

	"github.com/SscSPs/expense_fx_engine/internal/core/ports/gateways"
	"github.com/SscSPs/expense_fx_engine/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct {
	Authorizer gateways.AuthorizationGate
}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		// Return a default logger if not found in context
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Info(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	logger.Debug(msg, keyvals...)
}

// AuthorizeRateAdmin checks if a user may change the tenant's rules and manual rates
func (s *BaseService) AuthorizeRateAdmin(ctx context.Context, tenantID, userID string) error {
	if s.Authorizer != nil {
		return s.Authorizer.AuthorizeRateAdmin(ctx, tenantID, userID)
	}
	s.LogDebug(ctx, "No authorization gate provided, access granted by default",
		slog.String("user_id", userID),
		slog.String("tenant_id", tenantID))
	return nil
}

// AuthorizeGlobalRuleAdmin checks if a user may change rules shared by all tenants
func (s *BaseService) AuthorizeGlobalRuleAdmin(ctx context.Context, userID string) error {
	if s.Authorizer != nil {
		return s.Authorizer.AuthorizeGlobalRuleAdmin(ctx, userID)
	}
	s.LogDebug(ctx, "No authorization gate provided, global access granted by default",
		slog.String("user_id", userID))
	return nil
}
