// Package kafka implementa el publicador de eventos de stock sobre Kafka
// (segmentio/kafka-go). La publicación es best-effort: ocurre después del
// commit, los errores se loggean y nunca afectan la operación que ya quedó
// confirmada en la base.
package kafka

import (
	"context"
	"encoding/json"

	kafkago "github.com/segmentio/kafka-go"

	"github.com/tu-usuario/almacen-api/internal/application/stock"
	"github.com/tu-usuario/almacen-api/internal/domain/event"
	"github.com/tu-usuario/almacen-api/pkg/config"
	"github.com/tu-usuario/almacen-api/pkg/logger"
)

var _ stock.EventPublisher = (*Publisher)(nil)

// messageWriter es lo que el publicador necesita de kafka-go (testeable).
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// Publisher publica los eventos del motor de stock. Con writer nil queda
// deshabilitado: los Publish* son no-ops con un log de debug, de modo que la
// API funciona igual sin broker configurado.
type Publisher struct {
	writer messageWriter
	log    *logger.Logger
}

// NewPublisher construye el publicador a partir de la configuración. Sin
// brokers queda deshabilitado. El writer es asíncrono: WriteMessages encola y
// retorna de inmediato; los errores de entrega llegan al callback Completion
// y solo se loggean.
func NewPublisher(cfg config.KafkaConfig, log *logger.Logger) *Publisher {
	if !cfg.Enabled() {
		log.Warn().Msg("kafka deshabilitado: sin brokers configurados")
		return &Publisher{log: log}
	}
	w := &kafkago.Writer{
		Addr:     kafkago.TCP(cfg.Brokers...),
		Balancer: &kafkago.Hash{},
		Async:    true,
		Completion: func(messages []kafkago.Message, err error) {
			if err != nil {
				log.Error().Err(err).Int("messages", len(messages)).Msg("kafka: entrega fallida")
			}
		},
		AllowAutoTopicCreation: true,
	}
	if cfg.ClientID != "" {
		w.Transport = &kafkago.Transport{ClientID: cfg.ClientID}
	}
	return &Publisher{writer: w, log: log}
}

// PublishStockMovement publica el asiento confirmado en stock.movement.
func (p *Publisher) PublishStockMovement(ctx context.Context, ev event.StockMovementEvent) {
	p.publish(ctx, event.TopicStockMovement, ev.ProductID, ev)
}

// PublishLowStockAlert publica la alerta de stock bajo en stock.low-alert.
func (p *Publisher) PublishLowStockAlert(ctx context.Context, ev event.LowStockAlertEvent) {
	p.publish(ctx, event.TopicLowStockAlert, ev.ProductID, ev)
}

// PublishStockTransfer publica el resumen del traslado en stock.transfer.
func (p *Publisher) PublishStockTransfer(ctx context.Context, ev event.StockTransferEvent) {
	p.publish(ctx, event.TopicStockTransfer, ev.ProductID, ev)
}

// publish serializa y encola. La clave es el productId para que los eventos de
// un mismo producto conserven el orden dentro de su partición.
func (p *Publisher) publish(ctx context.Context, topic, key string, payload any) {
	if p.writer == nil {
		p.log.Debug().Str("topic", topic).Msg("kafka deshabilitado, evento descartado")
		return
	}
	value, err := json.Marshal(payload)
	if err != nil {
		p.log.Error().Err(err).Str("topic", topic).Msg("kafka: serializar evento")
		return
	}
	err = p.writer.WriteMessages(ctx, kafkago.Message{
		Topic: topic,
		Key:   []byte(key),
		Value: value,
	})
	if err != nil {
		// Con Async solo llegan aquí errores inmediatos (validación, cierre).
		p.log.Error().Err(err).Str("topic", topic).Msg("kafka: encolar evento")
	}
}

// Close drena los mensajes pendientes del writer.
func (p *Publisher) Close() error {
	if p.writer == nil {
		return nil
	}
	return p.writer.Close()
}
