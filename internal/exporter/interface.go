package exporter

import (
	"apk-recon/internal/config"
	"apk-recon/internal/exporter/common"
	"apk-recon/internal/model"
)

// ErrOutputExists is returned by every exporter instead of overwriting a
// report.
var ErrOutputExists = common.ErrOutputExists

// Exporter is the unified interface for all report formats
type Exporter interface {
	Name() string
	Export(report *model.Report, cfg *config.Config) error
}
