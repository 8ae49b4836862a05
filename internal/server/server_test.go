package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"katydid-vehicle-market/internal/config"
	"katydid-vehicle-market/internal/store"
	"katydid-vehicle-market/internal/token"
	"katydid-vehicle-market/pkg/idgen"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// memoryCache 记录命中情况的内存缓存
type memoryCache struct {
	mu          sync.Mutex
	ads         map[int64]*store.Advertisement
	hits        int
	invalidated []int64
}

func newMemoryCache() *memoryCache {
	return &memoryCache{ads: make(map[int64]*store.Advertisement)}
}

func (m *memoryCache) Get(_ context.Context, id int64) (*store.Advertisement, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ad, ok := m.ads[id]
	if ok {
		m.hits++
	}
	return ad, ok, nil
}

func (m *memoryCache) Set(_ context.Context, ad *store.Advertisement) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ads[ad.ID] = ad
	return nil
}

func (m *memoryCache) Invalidate(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.ads, id)
	m.invalidated = append(m.invalidated, id)
	return nil
}

type harness struct {
	handler http.Handler
	cache   *memoryCache
}

func newHarness(t *testing.T, cfg config.ServerConfig) *harness {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   fmt.Sprintf("file:%s?mode=memory&cache=shared", name),
	}
	st, err := store.Open(db, config.LogConfig{}, zap.NewNop(), idgen.NewSequence(5000))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.Migrate(context.Background()))
	require.NoError(t, st.SeedCategories(context.Background()))

	tokens, err := token.New(config.AuthConfig{JWTSecret: "test-secret", Issuer: "vehicle-market", TokenTTL: time.Hour})
	require.NoError(t, err)

	c := newMemoryCache()
	return &harness{handler: New(cfg, st, c, tokens, zap.NewNop()).Handler(), cache: c}
}

func (h *harness) do(t *testing.T, method, path, bearer string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(strings.TrimSpace(rec.Body.String()), "{") {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}
	return rec, out
}

func userBody(username, email, phone, street string) map[string]any {
	return map[string]any{
		"user": map[string]any{
			"username":          username,
			"first_name":        "Jade",
			"last_name":         "Smith",
			"email_address":     email,
			"main_phone_number": phone,
			"gender":            "female",
		},
		"address": map[string]any{
			"street_address": street,
			"city":           "Metropolis",
			"country":        "US",
			"zip_code":       "10001",
		},
	}
}

func adBody() map[string]any {
	return map[string]any{
		"user_id":              "1",
		"category_id":          1,
		"maker":                "Toyota",
		"model":                "Corolla",
		"price":                15000,
		"condition":            "Used",
		"fuel":                 "Petrol",
		"power_output":         97,
		"gearbox":              "Manual",
		"mileage":              120000,
		"color":                "Silver",
		"primary_registration": "2015-06-01",
		"manufactured_date":    "2015-01-15",
		"engine_volume":        1.6,
		"vin_number":           "JTDBR32E720123456",
	}
}

// register 注册并返回 (用户 ID, 令牌)
func (h *harness) register(t *testing.T, username, email, phone, street string) (string, string) {
	t.Helper()
	rec, out := h.do(t, http.MethodPost, "/api/v1/users", "", userBody(username, email, phone, street))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	user := out["user"].(map[string]any)
	return user["id"].(string), out["token"].(string)
}

func TestHealthz(t *testing.T) {
	h := newHarness(t, config.ServerConfig{})
	rec, out := h.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", out["status"])
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))
}

func TestRequestID_Propagated(t *testing.T) {
	h := newHarness(t, config.ServerConfig{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(headerRequestID, "0b9f3c1e-6c1d-4c9e-9a57-3f1f1f0e2a10")
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	assert.Equal(t, "0b9f3c1e-6c1d-4c9e-9a57-3f1f1f0e2a10", rec.Header().Get(headerRequestID))
}

func TestValidateField(t *testing.T) {
	h := newHarness(t, config.ServerConfig{})

	rec, out := h.do(t, http.MethodPost, "/api/v1/validate/email", "", map[string]any{"value": "jade@example.com"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["valid"])
	assert.Equal(t, "jade@example.com", out["value"])

	rec, out = h.do(t, http.MethodPost, "/api/v1/validate/zip_code", "", map[string]any{"value": "123"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, out["valid"])
	reasons := out["reasons"].([]any)
	require.Len(t, reasons, 1)
	assert.Equal(t, "too_short", reasons[0].(map[string]any)["code"])

	rec, _ = h.do(t, http.MethodPost, "/api/v1/validate/shoe_size", "", map[string]any{"value": "42"})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = h.do(t, http.MethodPost, "/api/v1/validate/email", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUser(t *testing.T) {
	h := newHarness(t, config.ServerConfig{})

	rec, out := h.do(t, http.MethodPost, "/api/v1/users", "",
		userBody("jadesmith", "jade@example.com", "+37067673346", "1 Main St"))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.NotEmpty(t, out["token"])
	user := out["user"].(map[string]any)
	assert.Equal(t, "jadesmith", user["username"])
	address := user["address"].(map[string]any)
	assert.Len(t, address["address_hash"], 64)

	rec, out = h.do(t, http.MethodPost, "/api/v1/users", "",
		userBody("jadesmith", "other@example.com", "+14155552671", "2 Main St"))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "duplicate", out["error"])
}

func TestCreateUser_ValidationReport(t *testing.T) {
	h := newHarness(t, config.ServerConfig{})

	body := userBody("js", "jade@example.com", "+37067673346", "1 Main St")
	body["address"].(map[string]any)["zip_code"] = "123"

	rec, out := h.do(t, http.MethodPost, "/api/v1/users", "", body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "validation_failed", out["error"])

	report := out["report"].(map[string]any)
	assert.Equal(t, "user", report["entity"])
	var fields []string
	for _, e := range report["errors"].([]any) {
		fields = append(fields, e.(map[string]any)["field"].(string))
	}
	assert.Equal(t, []string{"username", "address.zip_code"}, fields)
}

func TestAds_Lifecycle(t *testing.T) {
	h := newHarness(t, config.ServerConfig{})
	sellerID, sellerToken := h.register(t, "jadesmith", "jade@example.com", "+37067673346", "1 Main St")
	_, buyerToken := h.register(t, "johnsmith", "john@example.com", "+14155552671", "2 Main St")

	rec, _ := h.do(t, http.MethodPost, "/api/v1/ads", "", adBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = h.do(t, http.MethodPost, "/api/v1/ads", "not-a-token", adBody())
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, ad := h.do(t, http.MethodPost, "/api/v1/ads", sellerToken, adBody())
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, sellerID, ad["user_id"], "user_id comes from the token")
	assert.Equal(t, true, ad["used"])
	adID := ad["id"].(string)

	rec, _ = h.do(t, http.MethodPost, "/api/v1/ads", sellerToken, adBody())
	assert.Equal(t, http.StatusConflict, rec.Code, "duplicate VIN")

	rec, got := h.do(t, http.MethodGet, "/api/v1/ads/"+adID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "JTDBR32E720123456", got["vin_number"])
	rec, _ = h.do(t, http.MethodGet, "/api/v1/ads/"+adID, "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, h.cache.hits)

	rec, list := h.do(t, http.MethodGet, "/api/v1/ads?limit=10", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, list["items"], 1)

	rec, out := h.do(t, http.MethodPost, "/api/v1/ads/"+adID+"/sale", sellerToken, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code, "seller cannot buy own ad")
	assert.Equal(t, "validation_failed", out["error"])

	rec, record := h.do(t, http.MethodPost, "/api/v1/ads/"+adID+"/sale", buyerToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, adID, record["ad_id"])
	assert.Equal(t, sellerID, record["seller_id"])
	assert.Contains(t, h.cache.invalidated, mustParse(t, adID))

	rec, out = h.do(t, http.MethodPost, "/api/v1/ads/"+adID+"/sale", buyerToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "already_sold", out["error"])

	rec, list = h.do(t, http.MethodGet, "/api/v1/ads", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, list["items"], "sold ads are not listed")

	// 成交后详情只对卖家可见，缓存命中时同样生效
	for i := 0; i < 2; i++ {
		rec, _ = h.do(t, http.MethodGet, "/api/v1/ads/"+adID, "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec, _ = h.do(t, http.MethodGet, "/api/v1/ads/"+adID, buyerToken, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		rec, got = h.do(t, http.MethodGet, "/api/v1/ads/"+adID, sellerToken, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "discontinued|sold", got["status"])
	}

	rec, _ = h.do(t, http.MethodGet, "/api/v1/ads/"+adID, "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestGetUser(t *testing.T) {
	h := newHarness(t, config.ServerConfig{})
	jadeID, jadeToken := h.register(t, "jadesmith", "jade@example.com", "+37067673346", "1 Main St")
	johnID, _ := h.register(t, "johnsmith", "john@example.com", "+14155552671", "2 Main St")

	rec, _ := h.do(t, http.MethodGet, "/api/v1/users/"+jadeID, "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, user := h.do(t, http.MethodGet, "/api/v1/users/"+jadeID, jadeToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "jadesmith", user["username"])
	assert.Equal(t, "+37067673346", user["main_phone_number"])
	address := user["address"].(map[string]any)
	assert.Equal(t, "1 Main St", address["street_address"])

	rec, out := h.do(t, http.MethodGet, "/api/v1/users/"+johnID, jadeToken, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "forbidden", out["error"])

	rec, _ = h.do(t, http.MethodGet, "/api/v1/users/abc", jadeToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAds_ValidationAndLookup(t *testing.T) {
	h := newHarness(t, config.ServerConfig{})
	_, tok := h.register(t, "jadesmith", "jade@example.com", "+37067673346", "1 Main St")

	body := adBody()
	body["price"] = "15k"
	delete(body, "color")
	body["paint"] = "red"
	rec, out := h.do(t, http.MethodPost, "/api/v1/ads", tok, body)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	report := out["report"].(map[string]any)
	assert.Equal(t, "vehicle_ad", report["entity"])
	assert.Len(t, report["errors"], 3)

	rec, _ = h.do(t, http.MethodGet, "/api/v1/ads/abc", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = h.do(t, http.MethodGet, "/api/v1/ads/999999", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	rec, _ = h.do(t, http.MethodGet, "/api/v1/ads?limit=ten", "", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListCategories(t *testing.T) {
	h := newHarness(t, config.ServerConfig{})
	req := httptest.NewRequest(http.MethodGet, "/api/v1/categories", nil)
	rec := httptest.NewRecorder()
	h.handler.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var categories []map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &categories))
	require.Len(t, categories, len(store.DefaultCategories))
	assert.Equal(t, "Car", categories[0]["name"])
}

func TestRateLimit(t *testing.T) {
	h := newHarness(t, config.ServerConfig{RateLimit: 0.001, RateBurst: 1})

	rec, _ := h.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec, out := h.do(t, http.MethodGet, "/healthz", "", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "rate_limited", out["error"])
}

func mustParse(t *testing.T, s string) int64 {
	t.Helper()
	id, err := idgen.ParseID(s)
	require.NoError(t, err)
	return id.Int64()
}
