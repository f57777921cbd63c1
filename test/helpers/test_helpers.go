package helpers

import (
	"context"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/openfleet/shipping-gateway/internal/repository"
	"github.com/openfleet/shipping-gateway/pkg/pg"
	"github.com/openfleet/shipping-gateway/pkg/redis"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func SetupTestDB(t *testing.T) *pg.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	err = db.AutoMigrate(
		&repository.UserEntity{},
		&repository.DriverEntity{},
		&repository.RouteEntity{},
		&repository.ShipmentEntity{},
		&repository.StatusHistoryEntity{},
		&repository.AssignmentEntity{},
	)
	require.NoError(t, err)

	pgDB := &pg.DB{}
	pgDBValue := reflect.ValueOf(pgDB).Elem()

	readField := pgDBValue.FieldByName("read")
	writeField := pgDBValue.FieldByName("write")

	readField = reflect.NewAt(readField.Type(), readField.Addr().UnsafePointer()).Elem()
	writeField = reflect.NewAt(writeField.Type(), writeField.Addr().UnsafePointer()).Elem()

	readField.Set(reflect.ValueOf(db))
	writeField.Set(reflect.ValueOf(db))

	return pgDB
}

func SetupTestRedis(t *testing.T) (*miniredis.Miniredis, redis.RedisAdapter) {
	mr, err := miniredis.Run()
	require.NoError(t, err)

	adapter, err := redis.NewRedisAdapter("test", "", &goredis.UniversalOptions{
		Addrs: []string{mr.Addr()},
	})
	require.NoError(t, err)

	return mr, adapter
}

func CreateTestUser(t *testing.T, db *pg.DB, id int64, email, role string) *repository.UserEntity {
	ctx := context.Background()
	user := &repository.UserEntity{
		ID:       id,
		Name:     fmt.Sprintf("user-%d", id),
		Email:    email,
		Password: "$2a$04$notarealhashnotarealhashnotarealhash",
		Role:     role,
	}
	err := db.Write(ctx).Create(user).Error
	require.NoError(t, err)
	return user
}

func CreateTestDriver(t *testing.T, db *pg.DB, id, userID int64, capacity float64, status string) *repository.DriverEntity {
	ctx := context.Background()
	driver := &repository.DriverEntity{
		ID:              id,
		UserID:          userID,
		License:         fmt.Sprintf("DL-%d", id),
		VehicleType:     "van",
		VehicleCapacity: capacity,
		Status:          status,
	}
	err := db.Write(ctx).Create(driver).Error
	require.NoError(t, err)
	return driver
}

func CreateTestRoute(t *testing.T, db *pg.DB, id int64, origin, destination string) *repository.RouteEntity {
	ctx := context.Background()
	route := &repository.RouteEntity{
		ID:            id,
		Name:          origin + "-" + destination,
		Origin:        origin,
		Destination:   destination,
		Distance:      100,
		EstimatedTime: 2,
	}
	err := db.Write(ctx).Create(route).Error
	require.NoError(t, err)
	return route
}

func CreateTestShipment(t *testing.T, db *pg.DB, id string, userID int64, status string) *repository.ShipmentEntity {
	ctx := context.Background()
	shipment := &repository.ShipmentEntity{
		ID:          id,
		Weight:      10,
		Dimensions:  "30x20x10",
		ProductType: "parcel",
		Destination: "Hamburg",
		UserID:      userID,
		Status:      status,
		CreatedAt:   time.Now(),
	}
	err := db.Write(ctx).Create(shipment).Error
	require.NoError(t, err)
	return shipment
}

func WaitForCondition(t *testing.T, timeout time.Duration, condition func() bool) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if condition() {
			return true
		}
		time.Sleep(10 * time.Millisecond)
	}
	return false
}

func AssertEventually(t *testing.T, timeout time.Duration, condition func() bool, msg string) {
	if !WaitForCondition(t, timeout, condition) {
		t.Fatal(msg)
	}
}

func ContextWithTimeout(timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), timeout)
}

func Ptr[T any](v T) *T {
	return &v
}
