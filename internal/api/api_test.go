package api

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calorievision/backend/config"
	"github.com/calorievision/backend/internal/database"
	"github.com/calorievision/backend/internal/mocks"
	"github.com/calorievision/backend/internal/service"
)

// setupRouter builds the full route table over an in-memory store. A nil
// store exercises the storage-unavailable paths. The vision analyzer runs
// in stub mode (no API key).
func setupRouter(store *mocks.MemStore, cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	var ds database.DocumentStore
	var diagnostics database.Diagnostics
	if store != nil {
		ds = store
		diagnostics = store
	}

	auth := service.NewAuthService(ds, service.NewBcryptHasher())
	meals := service.NewMealService(ds, service.NewVisionService(cfg))
	RegisterRoutes(router, cfg, diagnostics, auth, meals)
	return router
}

func doJSON(router *gin.Engine, method, path string, payload interface{}) *httptest.ResponseRecorder {
	data, _ := json.Marshal(payload)
	req := httptest.NewRequest(method, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func multipartImage(t *testing.T, filename, userID string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	fw, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = fw.Write([]byte("fake image bytes"))
	require.NoError(t, err)

	if userID != "" {
		require.NoError(t, writer.WriteField("user_id", userID))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func TestRootEndpoint(t *testing.T) {
	router := setupRouter(mocks.NewMemStore(), &config.Config{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Calorie Vision API", decodeBody(t, w)["message"])
}

func TestDiagnosticsEndpoint(t *testing.T) {
	t.Run("without storage", func(t *testing.T) {
		router := setupRouter(nil, &config.Config{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "✅ Running", body["backend"])
		assert.Equal(t, "❌ Not Available", body["database"])
		assert.Equal(t, "❌ Not Set", body["database_url"])
		assert.Equal(t, "❌ Not Set", body["database_name"])
		assert.Equal(t, "Not Connected", body["connection_status"])
	})

	t.Run("with storage", func(t *testing.T) {
		store := mocks.NewMemStore()
		cfg := &config.Config{DatabaseURL: "mongodb://localhost", DatabaseName: "calorie_vision"}
		router := setupRouter(store, cfg)

		// Put something in the store so a collection shows up.
		w := doJSON(router, "POST", "/auth/signup", SignupRequest{Name: "A", Email: "a@x.com", Password: "p"})
		require.Equal(t, http.StatusOK, w.Code)

		w = httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/test", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, "✅ Connected & Working", body["database"])
		assert.Equal(t, "✅ Set", body["database_url"])
		assert.Equal(t, "✅ Set", body["database_name"])
		assert.Equal(t, "Connected", body["connection_status"])
		assert.Contains(t, body["collections"], "user")
	})
}

func TestSignupEndpoint(t *testing.T) {
	t.Run("creates a user then rejects the same email", func(t *testing.T) {
		router := setupRouter(mocks.NewMemStore(), &config.Config{})

		w := doJSON(router, "POST", "/auth/signup", SignupRequest{Name: "A", Email: "a@x.com", Password: "p"})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decodeBody(t, w)["user_id"])

		w = doJSON(router, "POST", "/auth/signup", SignupRequest{Name: "A", Email: "a@x.com", Password: "p"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "Email already registered", decodeBody(t, w)["detail"])
	})

	t.Run("rejects a malformed body", func(t *testing.T) {
		router := setupRouter(mocks.NewMemStore(), &config.Config{})

		w := doJSON(router, "POST", "/auth/signup", map[string]string{"name": "A", "email": "not-an-email", "password": "p"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.NotEmpty(t, decodeBody(t, w)["detail"])
	})
}

func TestLoginEndpoint(t *testing.T) {
	signup := func(t *testing.T, router *gin.Engine) string {
		t.Helper()
		w := doJSON(router, "POST", "/auth/signup", SignupRequest{Name: "A", Email: "a@x.com", Password: "p"})
		require.Equal(t, http.StatusOK, w.Code)
		return decodeBody(t, w)["user_id"].(string)
	}

	t.Run("returns the user fields on success", func(t *testing.T) {
		router := setupRouter(mocks.NewMemStore(), &config.Config{})
		userID := signup(t, router)

		w := doJSON(router, "POST", "/auth/login", LoginRequest{Email: "a@x.com", Password: "p"})
		assert.Equal(t, http.StatusOK, w.Code)
		body := decodeBody(t, w)
		assert.Equal(t, userID, body["user_id"])
		assert.Equal(t, "A", body["name"])
		assert.Equal(t, "a@x.com", body["email"])
	})

	t.Run("wrong password and unknown email return the same error", func(t *testing.T) {
		router := setupRouter(mocks.NewMemStore(), &config.Config{})
		signup(t, router)

		wrongPass := doJSON(router, "POST", "/auth/login", LoginRequest{Email: "a@x.com", Password: "wrong"})
		unknown := doJSON(router, "POST", "/auth/login", LoginRequest{Email: "b@x.com", Password: "p"})

		assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)
		assert.Equal(t, http.StatusUnauthorized, unknown.Code)
		assert.Equal(t, wrongPass.Body.String(), unknown.Body.String())
		assert.Equal(t, "Invalid credentials", decodeBody(t, wrongPass)["detail"])
	})

	t.Run("fails when storage is not configured", func(t *testing.T) {
		router := setupRouter(nil, &config.Config{})

		w := doJSON(router, "POST", "/auth/login", LoginRequest{Email: "a@x.com", Password: "p"})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		assert.Equal(t, "Database not configured", decodeBody(t, w)["detail"])
	})
}

func TestAnalyzeEndpoint(t *testing.T) {
	t.Run("returns the stub analysis and stores the meal", func(t *testing.T) {
		router := setupRouter(mocks.NewMemStore(), &config.Config{})

		body, contentType := multipartImage(t, "dinner.jpg", "user-1")
		req := httptest.NewRequest("POST", "/analyze", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		got := decodeBody(t, w)
		assert.NotEmpty(t, got["meal_id"])
		assert.Equal(t, "Mixed meal", got["dish_name"])
		assert.Equal(t, 520.0, got["calories"])

		macros := got["macros"].(map[string]interface{})
		assert.Equal(t, 55.0, macros["carbs_g"])
		assert.Equal(t, 28.0, macros["protein_g"])
		assert.Equal(t, 22.0, macros["fat_g"])
		assert.Len(t, got["ingredients"], 4)

		raw := got["raw"].(map[string]interface{})
		assert.Equal(t, "stub", raw["provider"])
	})

	t.Run("rejects a request without a file", func(t *testing.T) {
		router := setupRouter(mocks.NewMemStore(), &config.Config{})

		req := httptest.NewRequest("POST", "/analyze", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, "file is required", decodeBody(t, w)["detail"])
	})
}

func TestMealsEndpoint(t *testing.T) {
	analyze := func(t *testing.T, router *gin.Engine, userID string) string {
		t.Helper()
		body, contentType := multipartImage(t, "meal.jpg", userID)
		req := httptest.NewRequest("POST", "/analyze", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)
		return decodeBody(t, w)["meal_id"].(string)
	}

	t.Run("round-trips an analyzed meal", func(t *testing.T) {
		router := setupRouter(mocks.NewMemStore(), &config.Config{})
		mealID := analyze(t, router, "user-1")

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/meals?user_id=user-1", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var meals []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meals))
		require.Len(t, meals, 1)

		assert.Equal(t, mealID, meals[0]["_id"])
		assert.Equal(t, "Mixed meal", meals[0]["dish_name"])
		assert.Equal(t, 520.0, meals[0]["calories"])
		assert.IsType(t, "", meals[0]["created_at"])
	})

	t.Run("caps results at the limit", func(t *testing.T) {
		router := setupRouter(mocks.NewMemStore(), &config.Config{})
		for i := 0; i < 5; i++ {
			analyze(t, router, "user-x")
		}

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/meals?user_id=user-x&limit=2", nil))

		require.Equal(t, http.StatusOK, w.Code)
		var meals []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &meals))
		require.Len(t, meals, 2)
		for _, meal := range meals {
			assert.Equal(t, "user-x", meal["user_id"])
		}
	})

	t.Run("empty store returns an empty array", func(t *testing.T) {
		router := setupRouter(mocks.NewMemStore(), &config.Config{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/meals", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "[]", w.Body.String())
	})

	t.Run("rejects a non-numeric limit", func(t *testing.T) {
		router := setupRouter(mocks.NewMemStore(), &config.Config{})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest("GET", "/meals?limit=lots", nil))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
