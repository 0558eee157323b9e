package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dom/diary-service/internal/repository/postgres"
	"github.com/dom/diary-service/internal/service"
	"github.com/dom/diary-service/internal/testutil"
	"github.com/dom/diary-service/internal/websocket"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingPublisher struct{}

func (failingPublisher) SendToUser(uuid.UUID, *websocket.Message) error {
	return errors.New("hub stopped")
}

func TestAlertService_Notify(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	t.Run("persists and pushes", func(t *testing.T) {
		publisher := &recordingPublisher{}
		alerts := service.NewAlertService(repos.Alert, publisher)

		alert, err := alerts.Notify(ctx, user.ID, "analysis finished")
		require.NoError(t, err)
		assert.Equal(t, user.ID, alert.UserID)

		require.Equal(t, 1, publisher.count(user.ID))
		msg := publisher.sent[user.ID][0]
		assert.Equal(t, websocket.MessageTypeAlert, msg.Type)

		var payload websocket.AlertPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, alert.ID, payload.ID)
		assert.Equal(t, "analysis finished", payload.Content)
	})

	t.Run("push failure still records the alert", func(t *testing.T) {
		alerts := service.NewAlertService(repos.Alert, failingPublisher{})

		_, err := alerts.Notify(ctx, user.ID, "offline alert")
		require.NoError(t, err)

		stored, err := alerts.List(ctx, user.ID, 0)
		require.NoError(t, err)
		require.Len(t, stored, 2)
		assert.Equal(t, "offline alert", stored[0].Content)
	})
}

func TestAlertService_List(t *testing.T) {
	testDB := testutil.NewTestDB(t)
	repos := postgres.NewRepositories(testDB.DB)
	alerts := service.NewAlertService(repos.Alert, nil)
	ctx := context.Background()

	user, _ := testutil.NewUserBuilder().Build(t, testDB.DB)
	other, _ := testutil.NewUserBuilder().Build(t, testDB.DB)

	for i := 0; i < 5; i++ {
		_, err := alerts.Notify(ctx, user.ID, fmt.Sprintf("alert %d", i))
		require.NoError(t, err)
		time.Sleep(5 * time.Millisecond)
	}
	_, err := alerts.Notify(ctx, other.ID, "not yours")
	require.NoError(t, err)

	all, err := alerts.List(ctx, user.ID, 0)
	require.NoError(t, err)
	require.Len(t, all, 5)
	assert.Equal(t, "alert 4", all[0].Content, "newest first")

	limited, err := alerts.List(ctx, user.ID, 2)
	require.NoError(t, err)
	require.Len(t, limited, 2)
	assert.Equal(t, "alert 4", limited[0].Content)
	assert.Equal(t, "alert 3", limited[1].Content)
}
