package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/oneview/server/internal/module/auth"
	"github.com/oneview/server/internal/module/kpi"
	"github.com/oneview/server/internal/module/user"
	"github.com/oneview/server/internal/shared/config"
	"github.com/oneview/server/internal/shared/logger"
	"github.com/oneview/server/internal/shared/metrics"
)

// Dependencies holds everything the router needs.
type Dependencies struct {
	Config    *config.Config
	Logger    *logger.Logger
	ZapLogger *zap.Logger
	Registry  *prometheus.Registry
	Metrics   *metrics.Metrics
	JWT       *auth.JWTManager

	UserService *user.Service
	UserHandler *user.Handler
	KPIHandler  *kpi.Handler
}
