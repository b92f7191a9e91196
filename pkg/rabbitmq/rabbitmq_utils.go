package rabbitmq

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"docvault/pkg/logger"

	amqp "github.com/rabbitmq/amqp091-go"
)

const maxConnectAttempts = 7

func ConnectionURL(cfg RabbitmqConfig) string {
	u := url.URL{
		Scheme: "amqp",
		User:   url.UserPassword(cfg.User, cfg.Password),
		Host:   net.JoinHostPort(cfg.Host, strconv.Itoa(int(cfg.Port))),
		Path:   "/",
	}
	return u.String()
}

// ConnectToRabbitmq dials the broker, backing off exponentially while it starts up.
func ConnectToRabbitmq(cfg RabbitmqConfig) (*amqp.Connection, error) {
	var conn *amqp.Connection
	var err error
	waitTime := 1 * time.Second

	queueLogger := logger.Default()

	for i := 0; i < maxConnectAttempts; i++ {
		conn, err = amqp.Dial(ConnectionURL(cfg))
		if err == nil {
			return conn, nil
		}
		queueLogger.Warnf("Attempt %d failed: %v. Retrying in %v...", i+1, err, waitTime)
		time.Sleep(waitTime)
		waitTime *= 2
	}
	return nil, fmt.Errorf("connect to rabbitmq at %s:%d: %w", cfg.Host, cfg.Port, err)
}
