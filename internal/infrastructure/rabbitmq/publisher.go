package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/omkar-009/stockflow-inventory/internal/domain"
)

const (
	alertExchange   = "stock_alerts_exchange"
	alertQueue      = "stock_alerts_queue"
	alertRoutingKey = "stock.alert"
)

// Publisher pushes alert records to RabbitMQ for the notification sink to
// consume. Dispatch is best-effort; a failed publish never affects the
// ledger mutation that produced the alert.
type Publisher struct {
	conn    *amqp091.Connection
	channel *amqp091.Channel
}

func NewPublisher(host string, port int, user, password string) (*Publisher, error) {
	dsn := fmt.Sprintf("amqp://%s:%s@%s:%d/", user, password, host, port)
	conn, err := amqp091.Dial(dsn)
	if err != nil {
		return nil, fmt.Errorf("dialing rabbitmq: %w", err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("opening channel: %w", err)
	}

	err = channel.ExchangeDeclare(
		alertExchange, // name
		"direct",      // type
		true,          // durable
		false,         // auto-delete
		false,         // internal
		false,         // no-wait
		nil,           // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring exchange: %w", err)
	}

	_, err = channel.QueueDeclare(
		alertQueue, // name
		true,       // durable
		false,      // auto-delete
		false,      // exclusive
		false,      // no-wait
		nil,        // arguments
	)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("declaring queue: %w", err)
	}

	err = channel.QueueBind(alertQueue, alertRoutingKey, alertExchange, false, nil)
	if err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("binding queue: %w", err)
	}

	return &Publisher{conn: conn, channel: channel}, nil
}

type alertMessage struct {
	Type              string     `json:"type"`
	ProductID         int        `json:"productId"`
	ProductName       string     `json:"productName,omitempty"`
	SKU               string     `json:"sku,omitempty"`
	WarehouseID       *int       `json:"warehouseId,omitempty"`
	WarehouseName     string     `json:"warehouseName,omitempty"`
	CurrentStock      int        `json:"currentStock"`
	Threshold         int        `json:"threshold"`
	DaysUntilStockout *int       `json:"daysUntilStockout,omitempty"`
	ExpiryDate        *time.Time `json:"expiryDate,omitempty"`
	Message           string     `json:"message"`
	Priority          string     `json:"priority"`
	GeneratedAt       time.Time  `json:"generatedAt"`
}

// PublishAlerts sends one message per alert. The first publish failure
// aborts the batch; alerts are recomputable so nothing is lost.
func (p *Publisher) PublishAlerts(ctx context.Context, alerts []domain.Alert) error {
	for _, alert := range alerts {
		body, err := json.Marshal(alertMessage{
			Type:              string(alert.Type),
			ProductID:         alert.ProductID,
			ProductName:       alert.ProductName,
			SKU:               alert.SKU,
			WarehouseID:       alert.WarehouseID,
			WarehouseName:     alert.WarehouseName,
			CurrentStock:      alert.CurrentStock,
			Threshold:         alert.Threshold,
			DaysUntilStockout: alert.DaysUntilStockout,
			ExpiryDate:        alert.ExpiryDate,
			Message:           alert.Message,
			Priority:          string(alert.Priority),
			GeneratedAt:       alert.GeneratedAt,
		})
		if err != nil {
			return fmt.Errorf("marshaling alert: %w", err)
		}

		err = p.channel.PublishWithContext(ctx, alertExchange, alertRoutingKey, false, false, amqp091.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp091.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		})
		if err != nil {
			return fmt.Errorf("publishing alert: %w", err)
		}
	}
	return nil
}

func (p *Publisher) Close() {
	if p.channel != nil {
		p.channel.Close()
	}
	if p.conn != nil {
		p.conn.Close()
	}
}
