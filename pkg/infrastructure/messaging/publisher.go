// Package messaging constrói o message.Publisher usado pelo barramento de eventos.
package messaging

import (
	"errors"
	"fmt"

	"github.com/Shopify/sarama"
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-kafka/v2/pkg/kafka"
	"github.com/ThreeDotsLabs/watermill-redisstream/pkg/redisstream"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
)

const (
	KindMemory = "memory"
	KindRedis  = "redis"
	KindKafka  = "kafka"
)

var ErrUnknownPublisher = errors.New("unknown event publisher")

type PublisherConfig struct {
	Kind         string
	RedisClient  redis.UniversalClient
	KafkaBrokers []string
	ClientID     string
}

// NewPublisher devolve o publisher do tipo pedido. O tipo memory não tem assinantes
// externos: as mensagens existem apenas dentro do processo.
func NewPublisher(cfg PublisherConfig, logger watermill.LoggerAdapter) (message.Publisher, error) {
	switch cfg.Kind {
	case "", KindMemory:
		return gochannel.NewGoChannel(gochannel.Config{}, logger), nil
	case KindRedis:
		if cfg.RedisClient == nil {
			return nil, errors.New("redis event publisher requires a redis client")
		}
		return redisstream.NewPublisher(redisstream.PublisherConfig{
			Client:     cfg.RedisClient,
			Marshaller: redisstream.DefaultMarshallerUnmarshaller{},
		}, logger)
	case KindKafka:
		if len(cfg.KafkaBrokers) == 0 {
			return nil, errors.New("kafka event publisher requires at least one broker")
		}
		saramaConfig := kafka.DefaultSaramaSyncPublisherConfig()
		saramaConfig.ClientID = cfg.ClientID
		saramaConfig.Producer.RequiredAcks = sarama.WaitForAll
		return kafka.NewPublisher(kafka.PublisherConfig{
			Brokers:               cfg.KafkaBrokers,
			Marshaler:             kafka.DefaultMarshaler{},
			OverwriteSaramaConfig: saramaConfig,
		}, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownPublisher, cfg.Kind)
	}
}
