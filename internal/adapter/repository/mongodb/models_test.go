package mongodb

import (
	"testing"

	"github.com/PartyAppOfficial/Partyapp/internal/listing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestToPlaceDocument_WireShape(t *testing.T) {
	doc := toPlaceDocument(&domain.BusinessListing{
		BusinessName: "Café Río",
		Status:       domain.StatusPending,
	})

	raw, err := bson.Marshal(doc)
	require.NoError(t, err)
	var m bson.M
	require.NoError(t, bson.Unmarshal(raw, &m))

	assert.NotContains(t, m, "_id")
	assert.Contains(t, m, "formatted_address")
	assert.Contains(t, m, "video")
	assert.Nil(t, m["video"])
	assert.IsType(t, bson.A{}, m["images"])
	assert.Len(t, m["images"], 0)
	assert.NotContains(t, m, "thumbnails")
	assert.Equal(t, "pending", m["status"])
}
