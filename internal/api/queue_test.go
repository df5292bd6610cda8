package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rdelgatto/jukebox/internal/catalog"
	"github.com/rdelgatto/jukebox/internal/db"
	"github.com/rdelgatto/jukebox/internal/models"
	"github.com/rdelgatto/jukebox/internal/payments"
	"github.com/rdelgatto/jukebox/internal/queue"
)

// stubGateway is a payments.Gateway test double
type stubGateway struct {
	err error
}

func (g *stubGateway) Authorize(ctx context.Context, paymentMethodID string, amountCents int64) error {
	return g.err
}

// setupTestDB creates a test database with migrations applied
func setupTestDB(t *testing.T) (*db.DB, *db.Repositories, func()) {
	t.Helper()

	tmpFile := filepath.Join(t.TempDir(), "test.db")
	database, err := db.New(tmpFile)
	require.NoError(t, err)

	sqlDB, err := database.GetSQLDB()
	require.NoError(t, err)
	err = db.RunMigrations(sqlDB, "file://../../migrations")
	require.NoError(t, err)

	repos := db.NewRepositories(database)

	cleanup := func() {
		_ = database.Close()
	}

	return database, repos, cleanup
}

// setupQueueRouter creates a test Gin router with venue and queue routes
func setupQueueRouter(database *db.DB, repos *db.Repositories, gateway payments.Gateway) (*gin.Engine, *catalog.CatalogService, *queue.QueueService) {
	gin.SetMode(gin.TestMode)

	catalogService := catalog.NewCatalogService(repos)
	queueService := queue.NewQueueService(database, repos, gateway, 100)

	router := gin.New()
	root := router.Group("")
	SetupVenueRoutes(root, catalogService)
	SetupQueueRoutes(root, catalogService, queueService)

	return router, catalogService, queueService
}

func createVenue(t *testing.T, catalogService *catalog.CatalogService, name string) *models.Venue {
	t.Helper()
	venue, _, err := catalogService.CreateVenue(context.Background(), name, "test venue")
	require.NoError(t, err)
	return venue
}

func addRequestBody(songID, title string, isPaid bool, paymentMethodID string) []byte {
	body, _ := json.Marshal(map[string]interface{}{
		"song_id":           songID,
		"title":             title,
		"artist":            "Test Artist",
		"duration":          180,
		"is_paid":           isPaid,
		"payment_method_id": paymentMethodID,
	})
	return body
}

func postJSON(router *gin.Engine, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func getJSON(router *gin.Engine, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestAddToQueue(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	router, catalogService, _ := setupQueueRouter(database, repos, &stubGateway{})
	venue := createVenue(t, catalogService, "The Spot")

	t.Run("free request created", func(t *testing.T) {
		w := postJSON(router, "/venues/"+venue.ID.String()+"/queue/add/",
			addRequestBody("ext_1", "First Track", false, ""))

		assert.Equal(t, http.StatusCreated, w.Code)

		var resp AddToQueueResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Song added to queue successfully", resp.Message)
		require.NotNil(t, resp.QueueItem)
		assert.Equal(t, string(models.StatusQueued), resp.QueueItem.Status)
		assert.False(t, resp.QueueItem.IsPaid)
		require.NotNil(t, resp.QueueItem.Song)
		assert.Equal(t, "First Track", resp.QueueItem.Song.Title)
	})

	t.Run("paid request without payment method rejected", func(t *testing.T) {
		w := postJSON(router, "/venues/"+venue.ID.String()+"/queue/add/",
			addRequestBody("ext_2", "Paid Track", true, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "missing_payment_method", resp.Error)
	})

	t.Run("unknown venue returns 404", func(t *testing.T) {
		w := postJSON(router, "/venues/"+uuid.NewString()+"/queue/add/",
			addRequestBody("ext_3", "Track", false, ""))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid venue id returns 400", func(t *testing.T) {
		w := postJSON(router, "/venues/not-a-uuid/queue/add/",
			addRequestBody("ext_3", "Track", false, ""))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing required fields rejected", func(t *testing.T) {
		w := postJSON(router, "/venues/"+venue.ID.String()+"/queue/add/", []byte(`{"song_id": "x"}`))

		assert.Equal(t, http.StatusBadRequest, w.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "invalid_request", resp.Error)
	})
}

func TestAddToQueue_PaymentDeclined(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	router, catalogService, _ := setupQueueRouter(database, repos, &stubGateway{err: payments.ErrDeclined})
	venue := createVenue(t, catalogService, "The Spot")

	w := postJSON(router, "/venues/"+venue.ID.String()+"/queue/add/",
		addRequestBody("ext_1", "Track", true, "pm_card_declined"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "payment_declined", resp.Error)

	// Declined payment leaves nothing behind
	count, err := repos.QueueItems.CountByStatus(context.Background(), venue.ID, models.StatusQueued)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestAddToQueue_GatewayUnavailable(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	router, catalogService, _ := setupQueueRouter(database, repos, &stubGateway{err: payments.ErrGatewayUnavailable})
	venue := createVenue(t, catalogService, "The Spot")

	w := postJSON(router, "/venues/"+venue.ID.String()+"/queue/add/",
		addRequestBody("ext_1", "Track", true, "pm_card_visa"))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "payment_failed", resp.Error)
}

func TestGetQueue(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	router, catalogService, _ := setupQueueRouter(database, repos, &stubGateway{})
	venue := createVenue(t, catalogService, "Chipotle")

	t.Run("empty queue", func(t *testing.T) {
		w := getJSON(router, "/venues/"+venue.ID.String()+"/queue/")

		assert.Equal(t, http.StatusOK, w.Code)

		var resp QueueSnapshotResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, venue.ID.String(), resp.VenueID)
		assert.Equal(t, "Chipotle", resp.VenueName)
		assert.Nil(t, resp.CurrentlyPlaying)
		assert.Empty(t, resp.Queue)
	})

	t.Run("snapshot caps at ten queued items", func(t *testing.T) {
		for i := 0; i < 12; i++ {
			w := postJSON(router, "/venues/"+venue.ID.String()+"/queue/add/",
				addRequestBody(uuid.NewString(), fmt.Sprintf("Track %d", i), false, ""))
			require.Equal(t, http.StatusCreated, w.Code)
		}

		// Start playback so currently_playing is populated
		w := postJSON(router, "/venues/"+venue.ID.String()+"/next/", nil)
		require.Equal(t, http.StatusOK, w.Code)

		w = getJSON(router, "/venues/"+venue.ID.String()+"/queue/")
		assert.Equal(t, http.StatusOK, w.Code)

		var resp QueueSnapshotResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.CurrentlyPlaying)
		assert.Equal(t, string(models.StatusPlaying), resp.CurrentlyPlaying.Status)
		assert.Len(t, resp.Queue, 10)
		for _, item := range resp.Queue {
			assert.Equal(t, string(models.StatusQueued), item.Status)
		}
	})

	t.Run("unknown venue returns 404", func(t *testing.T) {
		w := getJSON(router, "/venues/"+uuid.NewString()+"/queue/")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestNextSong(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	router, catalogService, _ := setupQueueRouter(database, repos, &stubGateway{})
	venue := createVenue(t, catalogService, "The Spot")

	t.Run("empty queue advances to nothing", func(t *testing.T) {
		w := postJSON(router, "/venues/"+venue.ID.String()+"/next/", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp AdvanceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "Moved to next song", resp.Message)
		assert.Nil(t, resp.CurrentlyPlaying)
	})

	t.Run("promotes queued item", func(t *testing.T) {
		w := postJSON(router, "/venues/"+venue.ID.String()+"/queue/add/",
			addRequestBody("ext_1", "Opening Track", false, ""))
		require.Equal(t, http.StatusCreated, w.Code)

		w = postJSON(router, "/venues/"+venue.ID.String()+"/next/", nil)
		assert.Equal(t, http.StatusOK, w.Code)

		var resp AdvanceResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.NotNil(t, resp.CurrentlyPlaying)
		assert.Equal(t, string(models.StatusPlaying), resp.CurrentlyPlaying.Status)
		assert.NotNil(t, resp.CurrentlyPlaying.PlayedAt)
		require.NotNil(t, resp.CurrentlyPlaying.Song)
		assert.Equal(t, "Opening Track", resp.CurrentlyPlaying.Song.Title)
	})

	t.Run("unknown venue returns 404", func(t *testing.T) {
		w := postJSON(router, "/venues/"+uuid.NewString()+"/next/", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSkipItem(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	router, catalogService, _ := setupQueueRouter(database, repos, &stubGateway{})
	venue := createVenue(t, catalogService, "The Spot")

	w := postJSON(router, "/venues/"+venue.ID.String()+"/queue/add/",
		addRequestBody("ext_1", "Unwanted Track", false, ""))
	require.Equal(t, http.StatusCreated, w.Code)

	var created AddToQueueResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	t.Run("queued item skipped", func(t *testing.T) {
		w := postJSON(router, "/venues/"+venue.ID.String()+"/queue/"+created.QueueItem.ID+"/skip/", nil)

		assert.Equal(t, http.StatusOK, w.Code)

		var resp QueueItemResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, string(models.StatusSkipped), resp.Status)
	})

	t.Run("skipped item cannot be skipped again", func(t *testing.T) {
		w := postJSON(router, "/venues/"+venue.ID.String()+"/queue/"+created.QueueItem.ID+"/skip/", nil)

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("unknown item returns 404", func(t *testing.T) {
		w := postJSON(router, "/venues/"+venue.ID.String()+"/queue/"+uuid.NewString()+"/skip/", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestVenueEndpoints(t *testing.T) {
	database, repos, cleanup := setupTestDB(t)
	defer cleanup()

	router, catalogService, _ := setupQueueRouter(database, repos, &stubGateway{})
	venue := createVenue(t, catalogService, "Trujillos")

	t.Run("list active venues", func(t *testing.T) {
		w := getJSON(router, "/venues/")

		assert.Equal(t, http.StatusOK, w.Code)

		var resp VenueListResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		require.Len(t, resp.Venues, 1)
		assert.Equal(t, "Trujillos", resp.Venues[0].Name)
	})

	t.Run("get venue", func(t *testing.T) {
		w := getJSON(router, "/venues/"+venue.ID.String()+"/")

		assert.Equal(t, http.StatusOK, w.Code)

		var resp VenueResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, venue.ID.String(), resp.ID)
		assert.True(t, resp.IsActive)
	})

	t.Run("unknown venue returns 404", func(t *testing.T) {
		w := getJSON(router, "/venues/"+uuid.NewString()+"/")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("invalid venue id returns 400", func(t *testing.T) {
		w := getJSON(router, "/venues/not-a-uuid/")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
