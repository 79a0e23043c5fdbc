package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"

	"github.com/talentvote/backend/internal/dto"
	"github.com/talentvote/backend/internal/metrics"
)

// VoteSubscriber is one connected live observer. Updates is buffered; when it
// fills up, further updates for this subscriber are dropped rather than
// blocking the sender or the other subscribers.
type VoteSubscriber struct {
	ID      string
	Updates chan dto.VoteUpdate
}

const subscriberBuffer = 100

// VoteBroker fans accepted-vote updates out to every connected observer.
// Delivery is best-effort and decoupled from the admission path.
type VoteBroker interface {
	Subscribe(id string) *VoteSubscriber
	Unsubscribe(id string)
	Publish(update dto.VoteUpdate)
	Close() error
}

type rabbitMQVoteBroker struct {
	conn            *amqp.Connection
	channel         *amqp.Channel
	exchangeName    string
	subscribers     map[string]*VoteSubscriber
	subscriberMutex sync.RWMutex
}

// newVoteBroker connects to RabbitMQ when configured. Without a broker URL,
// or when the connection fails, it degrades to the in-memory broker so vote
// admission keeps working with process-local fan-out only.
func newVoteBroker(config dto.Config) VoteBroker {
	connectionStr := config.RabbitMQURL
	if connectionStr == "" {
		return newInMemoryVoteBroker()
	}

	conn, err := amqp.Dial(connectionStr)
	if err != nil {
		logrus.Errorf("Failed to connect to RabbitMQ: %v", err)
		return newInMemoryVoteBroker()
	}

	ch, err := conn.Channel()
	if err != nil {
		logrus.Errorf("Failed to open a channel: %v", err)
		conn.Close()
		return newInMemoryVoteBroker()
	}

	exchangeName := "vote_updates"
	err = ch.ExchangeDeclare(
		exchangeName, // name
		"fanout",     // type
		true,         // durable
		false,        // auto-deleted
		false,        // internal
		false,        // no-wait
		nil,          // arguments
	)
	if err != nil {
		logrus.Errorf("Failed to declare an exchange: %v", err)
		ch.Close()
		conn.Close()
		return newInMemoryVoteBroker()
	}

	broker := &rabbitMQVoteBroker{
		conn:         conn,
		channel:      ch,
		exchangeName: exchangeName,
		subscribers:  make(map[string]*VoteSubscriber),
	}

	go broker.monitorConnection(connectionStr)

	return broker
}

// monitorConnection watches the connection and reconnects if it is lost.
func (b *rabbitMQVoteBroker) monitorConnection(connectionStr string) {
	connCloseChan := make(chan *amqp.Error)
	b.conn.NotifyClose(connCloseChan)

	err := <-connCloseChan
	if err == nil {
		// Clean shutdown.
		return
	}
	logrus.Errorf("RabbitMQ connection closed: %v", err)

	for {
		time.Sleep(5 * time.Second)

		logrus.Info("Attempting to reconnect to RabbitMQ...")
		conn, err := amqp.Dial(connectionStr)
		if err != nil {
			logrus.Errorf("Failed to reconnect to RabbitMQ: %v", err)
			continue
		}

		ch, err := conn.Channel()
		if err != nil {
			logrus.Errorf("Failed to open a channel: %v", err)
			conn.Close()
			continue
		}

		err = ch.ExchangeDeclare(b.exchangeName, "fanout", true, false, false, false, nil)
		if err != nil {
			logrus.Errorf("Failed to declare an exchange: %v", err)
			ch.Close()
			conn.Close()
			continue
		}

		b.subscriberMutex.Lock()
		oldConn := b.conn
		oldChannel := b.channel
		b.conn = conn
		b.channel = ch
		b.subscriberMutex.Unlock()

		if oldChannel != nil {
			oldChannel.Close()
		}
		if oldConn != nil {
			oldConn.Close()
		}

		b.resubscribeAll()

		go b.monitorConnection(connectionStr)
		break
	}
}

// resubscribeAll recreates every queue binding after a reconnection.
func (b *rabbitMQVoteBroker) resubscribeAll() {
	b.subscriberMutex.RLock()
	defer b.subscriberMutex.RUnlock()

	for id, subscriber := range b.subscribers {
		if err := b.consumeInto(id, subscriber); err != nil {
			logrus.Errorf("Failed to resubscribe %s: %v", id, err)
		}
	}
}

// consumeInto declares an exclusive queue bound to the fanout exchange and
// pumps deliveries into the subscriber's channel.
func (b *rabbitMQVoteBroker) consumeInto(id string, subscriber *VoteSubscriber) error {
	q, err := b.channel.QueueDeclare(
		"",    // name - let RabbitMQ generate a unique name
		false, // durable
		true,  // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		return err
	}

	err = b.channel.QueueBind(q.Name, "", b.exchangeName, false, nil)
	if err != nil {
		return err
	}

	msgs, err := b.channel.Consume(q.Name, "", true, true, false, false, nil)
	if err != nil {
		return err
	}

	go func() {
		for d := range msgs {
			b.subscriberMutex.RLock()
			stillActive := b.subscribers[id] == subscriber
			b.subscriberMutex.RUnlock()
			if !stillActive {
				return
			}

			var update dto.VoteUpdate
			if err := json.Unmarshal(d.Body, &update); err != nil {
				logrus.Errorf("Error unmarshaling vote update for subscriber %s: %v", id, err)
				continue
			}

			deliver(subscriber, update)
		}
	}()

	return nil
}

func (b *rabbitMQVoteBroker) Subscribe(id string) *VoteSubscriber {
	b.subscriberMutex.Lock()
	defer b.subscriberMutex.Unlock()

	if subscriber, exists := b.subscribers[id]; exists {
		return subscriber
	}

	subscriber := &VoteSubscriber{
		ID:      id,
		Updates: make(chan dto.VoteUpdate, subscriberBuffer),
	}
	b.subscribers[id] = subscriber
	logrus.Infof("Observer %s connected to vote stream", id)

	if err := b.consumeInto(id, subscriber); err != nil {
		// Subscriber stays registered but will only catch up after the next
		// reconnect resubscribes it.
		logrus.Errorf("Failed to bind queue for subscriber %s: %v", id, err)
	}

	return subscriber
}

func (b *rabbitMQVoteBroker) Unsubscribe(id string) {
	b.subscriberMutex.Lock()
	defer b.subscriberMutex.Unlock()

	if subscriber, exists := b.subscribers[id]; exists {
		delete(b.subscribers, id)
		close(subscriber.Updates)
		logrus.Infof("Observer %s disconnected from vote stream", id)
	}
}

func (b *rabbitMQVoteBroker) Publish(update dto.VoteUpdate) {
	body, err := json.Marshal(update)
	if err != nil {
		logrus.Errorf("Error marshaling vote update: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	err = b.channel.PublishWithContext(
		ctx,
		b.exchangeName, // exchange
		"",             // routing key
		false,          // mandatory
		false,          // immediate
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		})
	if err != nil {
		logrus.Errorf("Error publishing vote update: %v", err)
	}
}

func (b *rabbitMQVoteBroker) Close() error {
	if b.channel != nil {
		b.channel.Close()
	}
	if b.conn != nil {
		return b.conn.Close()
	}
	return nil
}

// deliver pushes an update without ever blocking: a full subscriber queue
// drops the update for that subscriber only.
func deliver(subscriber *VoteSubscriber, update dto.VoteUpdate) {
	defer func() {
		if r := recover(); r != nil {
			// Send on a channel closed by a concurrent Unsubscribe.
			logrus.Errorf("Recovered from panic in vote update delivery: %v", r)
		}
	}()

	select {
	case subscriber.Updates <- update:
	default:
		metrics.BroadcastsDropped.Inc()
	}
}

// In-memory broker used when RabbitMQ is not configured, and in tests.
type inMemoryVoteBroker struct {
	subscribers     map[string]*VoteSubscriber
	subscriberMutex sync.RWMutex
}

func newInMemoryVoteBroker() VoteBroker {
	logrus.Warn("Using in-memory vote broker (RabbitMQ not available)")
	return &inMemoryVoteBroker{
		subscribers: make(map[string]*VoteSubscriber),
	}
}

// NewInMemoryVoteBroker exposes the in-memory broker for tests and for
// single-process deployments.
func NewInMemoryVoteBroker() VoteBroker {
	return &inMemoryVoteBroker{
		subscribers: make(map[string]*VoteSubscriber),
	}
}

func (b *inMemoryVoteBroker) Subscribe(id string) *VoteSubscriber {
	b.subscriberMutex.Lock()
	defer b.subscriberMutex.Unlock()

	if subscriber, exists := b.subscribers[id]; exists {
		return subscriber
	}

	subscriber := &VoteSubscriber{
		ID:      id,
		Updates: make(chan dto.VoteUpdate, subscriberBuffer),
	}
	b.subscribers[id] = subscriber
	logrus.Infof("Observer %s connected to vote stream", id)
	return subscriber
}

func (b *inMemoryVoteBroker) Unsubscribe(id string) {
	b.subscriberMutex.Lock()
	defer b.subscriberMutex.Unlock()

	if subscriber, exists := b.subscribers[id]; exists {
		delete(b.subscribers, id)
		close(subscriber.Updates)
		logrus.Infof("Observer %s disconnected from vote stream", id)
	}
}

func (b *inMemoryVoteBroker) Publish(update dto.VoteUpdate) {
	b.subscriberMutex.RLock()
	defer b.subscriberMutex.RUnlock()

	for _, subscriber := range b.subscribers {
		deliver(subscriber, update)
	}
}

func (b *inMemoryVoteBroker) Close() error {
	return nil
}
