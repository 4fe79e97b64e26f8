// Package event publishes catalog change notifications for downstream
// consumers (storefront cache, CRM sync).
package event

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/Lenacars/adminpanel-sub000/internal/model"
)

// VehicleUpsertedData is the payload of a vehicle upsert event.
type VehicleUpsertedData struct {
	ID        string    `json:"id"`
	StockCode string    `json:"stock_code"`
	Name      string    `json:"name"`
	Created   bool      `json:"created"`
	Timestamp time.Time `json:"timestamp"`
}

// Producer publishes catalog events to Kafka. A nil *Producer is a no-op so
// callers only wire it when brokers are configured. Publish failures are
// logged and swallowed: an event is a courtesy, never a reason to fail an
// import row.
type Producer struct {
	writer *kafka.Writer
	logger *slog.Logger
}

func NewProducer(brokers []string, topic string, logger *slog.Logger) *Producer {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.LeastBytes{},
		BatchTimeout: 10 * time.Millisecond,
		RequiredAcks: kafka.RequireAll,
	}
	return &Producer{
		writer: w,
		logger: logger,
	}
}

// VehicleUpserted publishes one upsert notification, keyed by stock code so
// events for the same vehicle stay ordered per partition.
func (p *Producer) VehicleUpserted(ctx context.Context, vehicle *model.Vehicle, created bool) {
	if p == nil {
		return
	}

	data, err := json.Marshal(VehicleUpsertedData{
		ID:        vehicle.ID,
		StockCode: vehicle.StockCode,
		Name:      vehicle.Name,
		Created:   created,
		Timestamp: time.Now().UTC(),
	})
	if err != nil {
		p.logger.Error("marshal vehicle event", "stock_code", vehicle.StockCode, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(vehicle.StockCode),
		Value: data,
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.logger.Error("publish vehicle event", "stock_code", vehicle.StockCode, "error", err)
		return
	}
	p.logger.Debug("published vehicle event", "stock_code", vehicle.StockCode, "created", created)
}

func (p *Producer) Close() error {
	if p == nil {
		return nil
	}
	return p.writer.Close()
}
