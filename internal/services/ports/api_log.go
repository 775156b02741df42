package ports

import (
	"github.com/kevin07696/gym-admin/internal/domain"
	"github.com/kevin07696/gym-admin/internal/services/apilog"
)

// APILogReader exposes the in-memory call log to the debug view
type APILogReader interface {
	List() []domain.APILog
	Clear()
}

var _ APILogReader = (*apilog.Logger)(nil)
