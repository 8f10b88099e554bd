// Package middleware publishes enriched flights to a RabbitMQ exchange.
package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"
	log "github.com/sirupsen/logrus"

	"github.com/franciscopereira987/opensky-flights/pkg/typing"
)

const contentType = "application/json"

var ErrMiddleware = errors.New("rabbitMQ channel closed")

type Middleware struct {
	conn *amqp.Connection
	ch   *amqp.Channel
}

func Dial(url string) (*Middleware, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}

	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}

	return &Middleware{
		conn: conn,
		ch:   ch,
	}, nil
}

func (m *Middleware) ExchangeDeclare(name string) (string, error) {
	return name, m.ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // delete when unused
		false,   // internal
		false,   // no-wait
		nil,     // arguments
	)
}

// Message is one publishing of a flights batch.
type Message struct {
	Key        string
	Publishing amqp.Publishing
}

// MessageId names the shard key of one direction within a batch.
func MessageId(batchId, direction, key string) string {
	return batchId + "." + direction + "." + key
}

// Messages splits flights with kg and encodes every shard as a JSON array.
// Each message gets its own MessageId; batchId travels as CorrelationId.
func Messages(exchange string, kg KeyGenerator, batchId, direction string, flights []typing.Flight) ([]Message, error) {
	var messages []Message
	for key, shard := range kg.Shard(exchange, flights) {
		body, err := json.Marshal(shard)
		if err != nil {
			return nil, err
		}
		messages = append(messages, Message{
			Key: key,
			Publishing: amqp.Publishing{
				ContentType:   contentType,
				MessageId:     MessageId(batchId, direction, key),
				CorrelationId: batchId,
				Type:          direction,
				Body:          body,
			},
		})
	}
	return messages, nil
}

func (m *Middleware) Publish(ctx context.Context, exchange, key string, msg amqp.Publishing) error {
	if m.ch.IsClosed() {
		return ErrMiddleware
	}
	return m.ch.PublishWithContext(
		ctx,
		exchange, // exchange
		key,      // routing key
		false,    // mandatory
		false,    // immediate
		msg,
	)
}

// PublishFlights sends the flights of one direction, one message per
// routing key produced by kg.
func (m *Middleware) PublishFlights(ctx context.Context, exchange string, kg KeyGenerator, batchId, direction string, flights []typing.Flight) error {
	messages, err := Messages(exchange, kg, batchId, direction, flights)
	if err != nil {
		return err
	}
	for _, msg := range messages {
		if err := m.Publish(ctx, exchange, msg.Key, msg.Publishing); err != nil {
			return fmt.Errorf("publishing %s: %w", msg.Publishing.MessageId, err)
		}
		log.Debugf("action: publish | result: success | exchange: %s | key: %s | message: %s", exchange, msg.Key, msg.Publishing.MessageId)
	}
	return nil
}

func (m *Middleware) Close() {
	// the corresponding Channel is closed along with the Connection
	m.conn.Close()
	log.Info("closed rabbitMQ Connection")
}
