package rabbitmq

import (
	"context"
	"fmt"
	"time"

	"docvault/pkg/logger"
	logger_message "docvault/pkg/utilities/logger"
	"docvault/pkg/utilities/timeutil"

	"github.com/rs/zerolog"
)

const sinkPublishTimeout = 2 * time.Second

func CreateRabbitmqLoggerSink(publisher IRabbitmqPublisher, service string) logger.SinkFunc {
	return func(msg string, level zerolog.Level, timestamp timeutil.TimeUTC) {
		loggerMessage := logger_message.LoggerMessage{
			Service:   service,
			Level:     level.String(),
			Message:   msg,
			Timestamp: timestamp,
		}

		ctx, cancel := context.WithTimeout(context.Background(), sinkPublishTimeout)
		defer cancel()

		if err := publisher.Publish(ctx, loggerMessage); err != nil {
			// the logger itself would recurse into this sink
			fmt.Printf("Failed to publish log message to RabbitMQ: %v\n", err)
		}
	}
}
