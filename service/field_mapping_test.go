package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/BerniceZTT/jira_dashboard/config"
	"github.com/BerniceZTT/jira_dashboard/models"
	"github.com/BerniceZTT/jira_dashboard/repository"
	"github.com/BerniceZTT/jira_dashboard/utils"
)

func TestParseFieldMappingValue(t *testing.T) {
	want := models.FieldMapping{
		Orders:      map[string]string{"customer": "customfield_1"},
		WebProjects: map[string]string{"epicName": "customfield_2"},
	}

	cases := map[string]interface{}{
		"struct":  want,
		"pointer": &want,
		"bson.M": bson.M{
			"orders":      bson.M{"customer": "customfield_1"},
			"webProjects": bson.M{"epicName": "customfield_2"},
		},
		"bson.D": bson.D{
			{Key: "orders", Value: bson.D{{Key: "customer", Value: "customfield_1"}}},
			{Key: "webProjects", Value: bson.D{{Key: "epicName", Value: "customfield_2"}}},
		},
		"map": map[string]interface{}{
			"orders":      map[string]interface{}{"customer": "customfield_1"},
			"webProjects": map[string]interface{}{"epicName": "customfield_2"},
		},
		"yaml": "orders:\n  customer: customfield_1\nwebProjects:\n  epicName: customfield_2\n",
	}

	for name, value := range cases {
		got, err := ParseFieldMappingValue(value)
		require.NoError(t, err, name)
		assert.Equal(t, want.Orders, got.Orders, name)
		assert.Equal(t, want.WebProjects, got.WebProjects, name)
	}

	_, err := ParseFieldMappingValue(nil)
	assert.Error(t, err)
}

func TestFieldMappingStore_WithoutMongoUsesBase(t *testing.T) {
	base := config.DefaultFieldMapping()
	store := NewFieldMappingStore(base)

	got, err := store.FieldMapping(context.Background())
	require.NoError(t, err)
	assert.Equal(t, base, got)

	_, err = store.SaveOverride(context.Background(), models.UpdateFieldMappingRequest{
		Orders: map[string]string{"customer": "customfield_1"},
	}, "tester")
	assert.True(t, errors.Is(err, repository.ErrDisabled))

	_, err = store.Override(context.Background())
	assert.True(t, errors.Is(err, repository.ErrDisabled))
}

func TestValidateFieldMapping(t *testing.T) {
	var apiErr *utils.ApiError

	err := validateFieldMapping(models.FieldMapping{})
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 400, apiErr.StatusCode)

	err = validateFieldMapping(models.FieldMapping{Orders: map[string]string{"customer": ""}})
	require.ErrorAs(t, err, &apiErr)

	assert.NoError(t, validateFieldMapping(models.FieldMapping{WebProjects: map[string]string{"epicName": "customfield_10011"}}))
}
