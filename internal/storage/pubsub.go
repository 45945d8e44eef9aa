package storage

import (
	"encoding/json"

	"eventchat/backend/internal/chaterr"
	"eventchat/backend/internal/config"
	"eventchat/backend/internal/models"

	"github.com/redis/go-redis/v9"
)

// PublishEvent pushes a bridge envelope onto the shared redis channel so
// sibling processes can deliver it to their own local sessions.
func (s *Service) PublishEvent(env models.BridgeEnvelope) error {
	payload, err := json.Marshal(env)
	if err != nil {
		return chaterr.Wrap(chaterr.Internal, "bridge envelope encoding failed", err)
	}
	if err := s.Redis.Publish(s.Ctx, config.BridgeChannel, payload).Err(); err != nil {
		return chaterr.Wrap(chaterr.Internal, "bridge publish failed", err)
	}
	return nil
}

// SubscribeEvents subscribes to the bridge channel.
func (s *Service) SubscribeEvents() *redis.PubSub {
	return s.Redis.Subscribe(s.Ctx, config.BridgeChannel)
}
