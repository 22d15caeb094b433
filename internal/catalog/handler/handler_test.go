package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/hleeroa/Autoshop/internal/catalog"
	"github.com/hleeroa/Autoshop/internal/httpapi"
	"github.com/hleeroa/Autoshop/internal/model"
	"github.com/hleeroa/Autoshop/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUseCase struct {
	catalog.UseCase

	setCalls []bool
	setErr   error
}

func (f *fakeUseCase) SetShopState(_ context.Context, _ int64, state bool) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.setCalls = append(f.setCalls, state)
	return nil
}

type fakeResolver struct{}

func (fakeResolver) UserByToken(context.Context, string) (*model.User, error) {
	return &model.User{ID: 1, Type: model.UserTypeShop, IsActive: true}, nil
}

func testLogger() logger.ZapLogger {
	return logger.NewZapLogger(&logger.ZapLoggerConfig{
		Level:             "fatal",
		Encoding:          "console",
		DisableCaller:     true,
		DisableStacktrace: true,
	})
}

func newTestRouter(uc catalog.UseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewCatalogHandler(uc, testLogger())

	engine := gin.New()
	partner := engine.Group("/partner", httpapi.AuthRequired(fakeResolver{}), httpapi.ShopRequired())
	partner.POST("/state", h.SetShopState)
	return engine
}

func postState(t *testing.T, engine *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/partner/state", strings.NewReader(body))
	req.Header.Set("Authorization", "Token test-token")
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestSetShopStateAcceptsBoolAndString(t *testing.T) {
	cases := []struct {
		body string
		want bool
	}{
		{`{"state": true}`, true},
		{`{"state": false}`, false},
		{`{"state": "on"}`, true},
		{`{"state": "off"}`, false},
		{`{"state": "ON"}`, true},
		{`{"state": "1"}`, true},
		{`{"state": "0"}`, false},
	}

	for _, tc := range cases {
		uc := &fakeUseCase{}
		rec := postState(t, newTestRouter(uc), tc.body)

		require.Equal(t, http.StatusOK, rec.Code, tc.body)
		require.Len(t, uc.setCalls, 1, tc.body)
		assert.Equal(t, tc.want, uc.setCalls[0], tc.body)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, true, body["status"], tc.body)
	}
}

func TestSetShopStateRejectsBadValues(t *testing.T) {
	for _, raw := range []string{`{}`, `{"state": null}`, `{"state": "maybe"}`, `{"state": 7}`} {
		uc := &fakeUseCase{}
		rec := postState(t, newTestRouter(uc), raw)

		require.Equal(t, http.StatusOK, rec.Code, raw)
		assert.Empty(t, uc.setCalls, raw)

		var body map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, false, body["status"], raw)
		assert.Equal(t, httpapi.ErrMissingArguments, body["error"], raw)
	}
}
