package outbox

import (
	"context"

	"docvault/pkg/logger"
	"docvault/pkg/rabbitmq"

	"github.com/robfig/cron"
)

const outboxWorkerName = "OutboxCronWorker"

type OutboxWorker struct {
	publisher  rabbitmq.IRabbitmqPublisher
	repository OutboxRepository
	cron       *cron.Cron
	schedule   string
	batchSize  int
}

func NewOutboxWorker(publisher rabbitmq.IRabbitmqPublisher, repository OutboxRepository, cfg OutboxConfig) *OutboxWorker {
	return &OutboxWorker{
		publisher:  publisher,
		repository: repository,
		cron:       cron.New(),
		schedule:   cfg.Schedule,
		batchSize:  cfg.BatchSize,
	}
}

func (ow *OutboxWorker) GetServiceName() string {
	return outboxWorkerName
}

func (ow *OutboxWorker) StartService(ctx context.Context) {
	err := ow.cron.AddFunc(ow.schedule, func() { ow.processOutboxEvents(ctx) })
	if err != nil {
		logger.Default().Errorf(err, "Could not add function to %s", outboxWorkerName)
		return
	}

	ow.cron.Start()
	<-ctx.Done()
	ow.cron.Stop()
}

func (ow *OutboxWorker) processOutboxEvents(ctx context.Context) {
	outboxLogger := logger.Default()

	events, err := ow.repository.GetUnprocessedEvents(ctx, ow.batchSize)
	if err != nil {
		outboxLogger.Error(err, "Could not read events from database")
		return
	}

	for _, e := range events {
		if err := ow.publisher.Publish(ctx, MapToDomainEventMessage(e)); err != nil {
			outboxLogger.Errorf(err, "Can't publish %s event %s", e.EventType, e.EventId)
			if err := ow.repository.UpdateRetryValue(ctx, e.EventId); err != nil {
				outboxLogger.Error(err, "Could not update retry counter")
			}
			continue
		}

		if err := ow.repository.MarkEventAsProcessed(ctx, e.EventId); err != nil {
			outboxLogger.Errorf(err, "Could not mark event %s as processed", e.EventId)
		}
	}
}
