package factory

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Ishusharma9096/Suraksha-AI/internal/adapters/httpapi"
	"github.com/Ishusharma9096/Suraksha-AI/internal/adapters/smtpgw"
	"github.com/Ishusharma9096/Suraksha-AI/internal/config"
	"github.com/Ishusharma9096/Suraksha-AI/internal/core"
	"github.com/Ishusharma9096/Suraksha-AI/internal/ports"
	"github.com/Ishusharma9096/Suraksha-AI/internal/whitelist"
)

// GatewayFactory creates transport gateways based on configuration
type GatewayFactory struct {
	cfg     *config.Config
	logger  *zap.Logger
	service *core.AnalysisService
}

// NewGatewayFactory creates a new gateway factory
func NewGatewayFactory(cfg *config.Config, logger *zap.Logger, service *core.AnalysisService) *GatewayFactory {
	return &GatewayFactory{
		cfg:     cfg,
		logger:  logger,
		service: service,
	}
}

// CreateGateway creates a transport gateway based on the configuration
func (f *GatewayFactory) CreateGateway() (ports.Gateway, error) {
	serverConfig := f.cfg.GetServer()

	switch serverConfig.Mode {
	case "http":
		return httpapi.NewServer(
			f.service,
			f.logger,
			serverConfig.ListenAddress,
			serverConfig.MaxUploadSize,
		), nil
	case "postfix":
		postfixConfig := f.cfg.GetPostfix()
		trusted := whitelist.NewChecker(postfixConfig.TrustedDomains, f.logger)
		return smtpgw.NewPostfixGateway(
			f.service,
			trusted,
			f.logger,
			postfixConfig.ListenAddress,
			postfixConfig.RejectDangerous,
			postfixConfig.VerdictHeader,
			postfixConfig.ScoreHeader,
			postfixConfig.SignalsHeader,
			postfixConfig.Address,
			postfixConfig.Port,
			postfixConfig.SubjectPrefix,
			postfixConfig.TagSubject,
		), nil
	default:
		return nil, fmt.Errorf("unsupported server mode: %s", serverConfig.Mode)
	}
}
