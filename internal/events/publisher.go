package events

import (
	"context"
	"encoding/json"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
)

// Publisher broadcasts shipment updates over Redis pub/sub. Each shipment
// has its own channel named shipment:<id> so clients subscribe to exactly
// the shipments they watch. Delivery is best-effort: subscribers that are
// offline miss the update and re-read the view instead.
type Publisher struct {
	adapter redis.RedisAdapter
}

func NewPublisher(adapter redis.RedisAdapter) *Publisher {
	return &Publisher{
		adapter: adapter,
	}
}

func ChannelFor(shipmentID string) string {
	return "shipment:" + shipmentID
}

func (p *Publisher) PublishShipmentUpdate(view *model.ShipmentView) error {
	payload, err := json.Marshal(view)
	if err != nil {
		return err
	}
	return p.adapter.Publish(ChannelFor(view.ID), payload)
}

// SubscribeShipment opens a pub/sub subscription for one shipment. The
// caller owns the returned subscription and must Close it.
func (p *Publisher) SubscribeShipment(ctx context.Context, shipmentID string) *goredis.PubSub {
	return p.adapter.Subscribe(ctx, ChannelFor(shipmentID))
}
