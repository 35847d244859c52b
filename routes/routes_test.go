package routes

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zh-address-parser/app/controllers"
	"github.com/zh-address-parser/app/middleware"
	"github.com/zh-address-parser/app/models"
	"github.com/zh-address-parser/app/responses"
	"github.com/zh-address-parser/app/services"
	"github.com/zh-address-parser/internal/export"
	"github.com/zh-address-parser/internal/gazetteer"
	"github.com/zh-address-parser/internal/metrics"
	"github.com/zh-address-parser/internal/parser"
	"go.uber.org/zap"
)

const sampleAddress = "收货人：李四 联系电话：138-0000-0000 广东省深圳市南山区粤海街道科技园 518057"

type testServer struct {
	router  *gin.Engine
	auth    *services.AuthService
	address *services.AddressService
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	metrics.MustRegisterAll()

	units := []models.AdminUnit{
		{Code: "44", Name: "广东省", Level: 1},
		{Code: "4403", Name: "深圳市", Level: 2, ParentCode: "44"},
		{Code: "440305", Name: "南山区", Level: 3, ParentCode: "4403"},
		{Code: "440305001", Name: "粤海街道", Level: 4, ParentCode: "440305"},
	}
	store := gazetteer.NewMemoryStore(zap.NewNop())
	require.NoError(t, store.Replace(context.Background(), units, "v1"))

	ref, err := parser.DefaultReference()
	require.NoError(t, err)
	p := parser.NewAddressParser(store, ref, parser.Config{}, zap.NewNop())

	version := services.NewGazetteerVersion("v1")
	cache := services.NewCacheService(time.Hour)
	addressService := services.NewAddressService(p, cache, version, services.AddressServiceConfig{MaxAddresses: 5}, zap.NewNop())
	adminService := services.NewAdminService(store, nil, cache, version, zap.NewNop())
	auth := services.NewAuthService("secret", "test", time.Hour)

	router := gin.New()
	SetupAllRoutes(router,
		controllers.NewAddressController(addressService, adminService, zap.NewNop()),
		controllers.NewAdminController(adminService, addressService, zap.NewNop()),
		middleware.AuthMiddleware(auth, services.RoleAdmin),
		zap.NewNop(),
	)
	return &testServer{router: router, auth: auth, address: addressService}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) adminToken(t *testing.T) string {
	token, _, err := s.auth.IssueToken("ops", services.RoleAdmin)
	require.NoError(t, err)
	return token
}

func (s *testServer) runJob(t *testing.T, addresses []string) string {
	t.Helper()
	w := s.do(t, http.MethodPost, "/v1/addresses/jobs", gin.H{"addresses": addresses}, "")
	require.Equal(t, http.StatusAccepted, w.Code)

	var resp responses.BatchParseResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Eventually(t, func() bool {
		status, err := s.address.GetJobStatus(resp.JobID)
		return err == nil && status.Status == responses.JobStatusDone
	}, 5*time.Second, 10*time.Millisecond)
	return resp.JobID
}

func TestParseEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, http.MethodPost, "/v1/addresses/parse", gin.H{"address": sampleAddress}, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	var resp responses.ParseAddressResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "v1", resp.GazetteerVersion)
	assert.False(t, resp.CacheHit)
	assert.Equal(t, "440305001", resp.Result.StreetCode)
	assert.Equal(t, models.StatusMatched, resp.Result.Status)

	w = s.do(t, http.MethodPost, "/v1/addresses/parse", gin.H{"address": sampleAddress}, "")
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.CacheHit)

	w = s.do(t, http.MethodPost, "/v1/addresses/parse", gin.H{}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_REQUEST")
}

func TestBatchEndpoints(t *testing.T) {
	s := newTestServer(t)
	jobID := s.runJob(t, []string{sampleAddress, "火星基地"})

	w := s.do(t, http.MethodGet, "/v1/addresses/jobs/"+jobID+"/status", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var status responses.JobStatusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, 2, status.Total)
	assert.Equal(t, 1, status.Summary[models.StatusMatched])

	w = s.do(t, http.MethodGet, "/v1/addresses/jobs/"+jobID+"/results?format=ndjson&gzip=1", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "gzip", w.Header().Get("Content-Encoding"))
	gz, err := gzip.NewReader(w.Body)
	require.NoError(t, err)
	body, err := io.ReadAll(gz)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(body)), "\n")
	require.Len(t, lines, 2)
	var first models.AddressResult
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &first))
	assert.Equal(t, sampleAddress, first.Raw)

	w = s.do(t, http.MethodGet, "/v1/addresses/jobs/"+jobID+"/export?format=csv", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), export.BOM))
	assert.Contains(t, w.Body.String(), "粤海街道")

	w = s.do(t, http.MethodGet, "/v1/addresses/jobs/"+jobID+"/export?format=pdf", nil, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.do(t, http.MethodGet, "/v1/addresses/jobs/missing/status", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodPost, "/v1/addresses/jobs", gin.H{"addresses": []string{"a", "b", "c", "d", "e", "f"}}, "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "TOO_MANY_ADDRESSES")
}

func TestAdminEndpoints(t *testing.T) {
	s := newTestServer(t)
	token := s.adminToken(t)

	w := s.do(t, http.MethodGet, "/v1/admin/stats", nil, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = s.do(t, http.MethodGet, "/v1/admin/stats", nil, token)
	require.Equal(t, http.StatusOK, w.Code)
	var stats responses.AdminStatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, int64(4), stats.GazetteerUnits)
	assert.Equal(t, gazetteer.DriverMemory, stats.GazetteerDriver)

	seed := gin.H{"data": []gin.H{
		{"code": "33", "name": "浙江省", "level": 1},
		{"code": "3301", "name": "杭州市", "level": 2, "parent_code": "99"},
	}}
	w = s.do(t, http.MethodPost, "/v1/admin/seed?dry_run=true", seed, token)
	require.Equal(t, http.StatusOK, w.Code)
	var dry responses.SeedGazetteerResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &dry))
	assert.True(t, dry.DryRun)
	assert.False(t, dry.ValidationPassed)

	w = s.do(t, http.MethodPost, "/v1/admin/seed", seed, token)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

	seed["force"] = true
	seed["gazetteer_version"] = "v2"
	w = s.do(t, http.MethodPost, "/v1/admin/seed", seed, token)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "v2", s.address.GazetteerVersion())

	w = s.do(t, http.MethodPost, "/v1/admin/cache/invalidate", gin.H{"all": true}, token)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodPost, "/v1/admin/seed", gin.H{}, token)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHealthAndMetrics(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/health", "/ready", "/live", "/v1/health", "/", "/docs"} {
		w := s.do(t, http.MethodGet, path, nil, "")
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	s.do(t, http.MethodPost, "/v1/addresses/parse", gin.H{"address": sampleAddress}, "")
	w := s.do(t, http.MethodGet, "/metrics", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "http_requests_total")

	w = s.do(t, http.MethodGet, "/nope", nil, "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "ROUTE_NOT_FOUND")
}
