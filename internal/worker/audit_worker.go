package worker

import (
	"github.com/Ash-the-k/uhi-hackathon/internal/service"
)

// StartAuditWorker registers audit handlers.
func StartAuditWorker(auditService *service.AuditService) {
	if auditService == nil {
		return
	}
	auditService.RegisterHandlers()
}
