package rabbitmq

import (
	"github.com/streadway/amqp"
)

// EventPublisher публикует события учетных записей в обменник accounts.
// Интерфейс выделен для подмены в тестах сервисного слоя.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// AccountPublisher реализация EventPublisher поверх канала AMQP.
type AccountPublisher struct {
	ch *amqp.Channel
}

// NewAccountPublisher создает издателя событий учетных записей.
func NewAccountPublisher(ch *amqp.Channel) *AccountPublisher {
	return &AccountPublisher{ch: ch}
}

// Publish отправляет message в обменник accounts с заданным ключом.
func (p *AccountPublisher) Publish(routingKey string, message any) error {
	return PublishMessage(p.ch, AccountsExchange, routingKey, message)
}
