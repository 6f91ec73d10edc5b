package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"fleet-compliance/internal/models"

	"github.com/redis/go-redis/v9"
)

// ErrCacheMiss is returned when a key is absent so callers can fall through
// to the database without treating it as a failure.
var ErrCacheMiss = errors.New("cache miss")

const (
	vehicleKeyPrefix = "fleet:vehicle:"
	vehicleListKey   = "fleet:vehicles:all"

	defaultVehicleTTL = 30 * time.Second
	defaultListTTL    = 2 * time.Minute
)

// VehicleCache is a read-through cache for vehicle documents. Writes to the
// vehicles collection must invalidate through it.
type VehicleCache struct {
	client     *redis.Client
	vehicleTTL time.Duration
	listTTL    time.Duration
}

func NewVehicleCache(client *redis.Client) *VehicleCache {
	return &VehicleCache{
		client:     client,
		vehicleTTL: defaultVehicleTTL,
		listTTL:    defaultListTTL,
	}
}

func (c *VehicleCache) GetVehicle(id string) (*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := c.client.Get(ctx, vehicleKeyPrefix+id).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var vehicle models.Vehicle
	if err := json.Unmarshal(data, &vehicle); err != nil {
		return nil, err
	}

	return &vehicle, nil
}

func (c *VehicleCache) SetVehicle(id string, vehicle *models.Vehicle) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := json.Marshal(vehicle)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, vehicleKeyPrefix+id, data, c.vehicleTTL).Err()
}

func (c *VehicleCache) GetVehicleList() ([]*models.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := c.client.Get(ctx, vehicleListKey).Bytes()
	if err == redis.Nil {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, err
	}

	var vehicles []*models.Vehicle
	if err := json.Unmarshal(data, &vehicles); err != nil {
		return nil, err
	}

	return vehicles, nil
}

func (c *VehicleCache) SetVehicleList(vehicles []*models.Vehicle) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	data, err := json.Marshal(vehicles)
	if err != nil {
		return err
	}

	return c.client.Set(ctx, vehicleListKey, data, c.listTTL).Err()
}

// InvalidateVehicle drops the vehicle and the list entry; list contents embed
// the vehicle so both must go.
func (c *VehicleCache) InvalidateVehicle(id string) error {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	return c.client.Del(ctx, vehicleKeyPrefix+id, vehicleListKey).Err()
}
