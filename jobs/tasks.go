package jobs

import (
	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskCatalogExpiryScan is the task type for the nightly expiry scan.
	TaskCatalogExpiryScan = "catalog:expiry_scan"
)

// NewExpiryScanTask constructs an Asynq task for the expiry scan. The scan
// takes no parameters; it always covers the full catalog.
func NewExpiryScanTask() *asynq.Task {
	return asynq.NewTask(TaskCatalogExpiryScan, nil)
}
