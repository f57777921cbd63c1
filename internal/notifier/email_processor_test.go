package notifier

import (
	"testing"

	"github.com/openfleet/shipping-gateway/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeEmail(t *testing.T) {
	t.Run("welcome", func(t *testing.T) {
		subject, body, err := composeEmail(&model.EmailJob{
			Kind: model.EmailWelcome,
			To:   "ana@example.com",
			Name: "Ana",
		})
		require.NoError(t, err)
		assert.Equal(t, "Welcome to OpenFleet", subject)
		assert.Contains(t, body, "Ana")
	})

	t.Run("shipment assigned", func(t *testing.T) {
		subject, body, err := composeEmail(&model.EmailJob{
			Kind:        model.EmailShipmentAssigned,
			To:          "bo@example.com",
			Name:        "Bo",
			ShipmentID:  "shp-1",
			Destination: "Oslo",
		})
		require.NoError(t, err)
		assert.Contains(t, subject, "shp-1")
		assert.Contains(t, body, "Oslo")
	})

	t.Run("shipment delivered", func(t *testing.T) {
		subject, body, err := composeEmail(&model.EmailJob{
			Kind:        model.EmailShipmentDelivered,
			To:          "ana@example.com",
			Name:        "Ana",
			ShipmentID:  "shp-2",
			Destination: "Porto",
		})
		require.NoError(t, err)
		assert.Contains(t, subject, "delivered")
		assert.Contains(t, body, "shp-2")
	})

	t.Run("unknown kind", func(t *testing.T) {
		_, _, err := composeEmail(&model.EmailJob{Kind: "postcard"})
		assert.Error(t, err)
	})
}
