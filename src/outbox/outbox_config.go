package outbox

import "docvault/pkg/utilities"

const (
	defaultSchedule  = "@every 30s"
	defaultBatchSize = 100
	DefaultPublisher = "DomainEventsPublisher"
)

type OutboxConfigJson struct {
	Schedule  string `json:"schedule"`
	BatchSize int    `json:"batch_size"`
	Publisher string `json:"publisher"`
}

type OutboxConfig struct {
	Schedule  string
	BatchSize int
	Publisher string
}

func (ocj OutboxConfigJson) ConvertToDomain() OutboxConfig {
	return OutboxConfig{
		Schedule:  utilities.Ternary(ocj.Schedule == "", defaultSchedule, ocj.Schedule),
		BatchSize: utilities.Ternary(ocj.BatchSize <= 0, defaultBatchSize, ocj.BatchSize),
		Publisher: utilities.Ternary(ocj.Publisher == "", DefaultPublisher, ocj.Publisher),
	}
}
