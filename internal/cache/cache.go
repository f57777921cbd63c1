package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/openfleet/shipping-gateway/pkg/logger"
	"github.com/openfleet/shipping-gateway/pkg/redis"
)

// ShipmentCache keeps denormalized shipment views and filtered listings in
// Redis. Reads that fail for any reason degrade to a miss so the caller
// falls back to the database; write failures are logged and swallowed.
type ShipmentCache struct {
	adapter redis.RedisAdapter
	ttl     time.Duration
}

func NewShipmentCache(adapter redis.RedisAdapter, ttl time.Duration) *ShipmentCache {
	return &ShipmentCache{
		adapter: adapter,
		ttl:     ttl,
	}
}

// ViewKey is the cache key for a single shipment view. The same key doubles
// as the pub/sub channel for live updates to that shipment.
func ViewKey(id string) string {
	return "shipment:" + id
}

// ListKey fingerprints the filter so every distinct combination of
// parameters gets its own cache slot. Parameters are serialized in sorted
// order so equivalent filters always hash the same.
func ListKey(f model.ShipmentFilter) string {
	params := map[string]string{
		"page":  fmt.Sprintf("%d", f.Page),
		"limit": fmt.Sprintf("%d", f.Limit),
	}
	if f.StartDate != nil {
		params["start_date"] = f.StartDate.UTC().Format(time.RFC3339)
	}
	if f.EndDate != nil {
		params["end_date"] = f.EndDate.UTC().Format(time.RFC3339)
	}
	if f.Status != nil {
		params["status"] = string(*f.Status)
	}
	if f.DriverID != nil {
		params["driver_id"] = fmt.Sprintf("%d", *f.DriverID)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
		b.WriteByte('&')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "shipments:" + hex.EncodeToString(sum[:16])
}

func (c *ShipmentCache) GetView(id string) (*model.ShipmentView, bool) {
	data, err := c.adapter.Get(ViewKey(id))
	if err != nil {
		if err != redis.NilError {
			logger.Warn("cache: view read failed", "shipment_id", id, "error", err.Error())
		}
		return nil, false
	}

	var view model.ShipmentView
	if err := json.Unmarshal(data, &view); err != nil {
		logger.Warn("cache: corrupt view entry", "shipment_id", id, "error", err.Error())
		return nil, false
	}
	return &view, true
}

func (c *ShipmentCache) SetView(view *model.ShipmentView) {
	data, err := json.Marshal(view)
	if err != nil {
		logger.Error("cache: view marshal failed", "shipment_id", view.ID, "error", err.Error())
		return
	}
	if err := c.adapter.Set(ViewKey(view.ID), data, c.ttl); err != nil {
		logger.Warn("cache: view write failed", "shipment_id", view.ID, "error", err.Error())
	}
}

func (c *ShipmentCache) InvalidateView(id string) {
	if err := c.adapter.Del(ViewKey(id)); err != nil {
		logger.Warn("cache: view invalidation failed", "shipment_id", id, "error", err.Error())
	}
}

type listEnvelope struct {
	Items []*model.ShipmentListItem `json:"items"`
	Total int64                     `json:"total"`
}

func (c *ShipmentCache) GetList(key string) ([]*model.ShipmentListItem, int64, bool) {
	data, err := c.adapter.Get(key)
	if err != nil {
		if err != redis.NilError {
			logger.Warn("cache: list read failed", "key", key, "error", err.Error())
		}
		return nil, 0, false
	}

	var envelope listEnvelope
	if err := json.Unmarshal(data, &envelope); err != nil {
		logger.Warn("cache: corrupt list entry", "key", key, "error", err.Error())
		return nil, 0, false
	}
	return envelope.Items, envelope.Total, true
}

func (c *ShipmentCache) SetList(key string, items []*model.ShipmentListItem, total int64) {
	data, err := json.Marshal(listEnvelope{Items: items, Total: total})
	if err != nil {
		logger.Error("cache: list marshal failed", "key", key, "error", err.Error())
		return
	}
	if err := c.adapter.Set(key, data, c.ttl); err != nil {
		logger.Warn("cache: list write failed", "key", key, "error", err.Error())
	}
}

// MetricsKey fingerprints the metrics date range the same way ListKey
// fingerprints the listing filter.
func MetricsKey(f model.MetricsFilter) string {
	params := map[string]string{}
	if f.StartDate != nil {
		params["start_date"] = f.StartDate.UTC().Format(time.RFC3339)
	}
	if f.EndDate != nil {
		params["end_date"] = f.EndDate.UTC().Format(time.RFC3339)
	}

	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
		b.WriteByte('&')
	}

	sum := sha256.Sum256([]byte(b.String()))
	return "shipments:metrics:" + hex.EncodeToString(sum[:16])
}

func (c *ShipmentCache) GetMetrics(key string) (*model.ShipmentMetrics, bool) {
	data, err := c.adapter.Get(key)
	if err != nil {
		if err != redis.NilError {
			logger.Warn("cache: metrics read failed", "key", key, "error", err.Error())
		}
		return nil, false
	}

	var metrics model.ShipmentMetrics
	if err := json.Unmarshal(data, &metrics); err != nil {
		logger.Warn("cache: corrupt metrics entry", "key", key, "error", err.Error())
		return nil, false
	}
	return &metrics, true
}

func (c *ShipmentCache) SetMetrics(key string, metrics *model.ShipmentMetrics) {
	data, err := json.Marshal(metrics)
	if err != nil {
		logger.Error("cache: metrics marshal failed", "key", key, "error", err.Error())
		return
	}
	if err := c.adapter.Set(key, data, c.ttl); err != nil {
		logger.Warn("cache: metrics write failed", "key", key, "error", err.Error())
	}
}
