package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/anhardeni/tps40-merak-sub001/internal/database/dbtest"
	"github.com/anhardeni/tps40-merak-sub001/internal/models"
	"github.com/anhardeni/tps40-merak-sub001/internal/refnumber"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/diagnostics"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/documents"
	"github.com/anhardeni/tps40-merak-sub001/internal/services/transmission"
	"github.com/anhardeni/tps40-merak-sub001/internal/soap"
	"github.com/anhardeni/tps40-merak-sub001/internal/utils"
	"github.com/anhardeni/tps40-merak-sub001/internal/vault"
	"github.com/anhardeni/tps40-merak-sub001/internal/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testSecret   = "handler-test-secret"
	acceptedBody = `<soap:Envelope xmlns:soap="http://schemas.xmlsoap.org/soap/envelope/"><soap:Body><CoCoTangkiResponse><CoCoTangkiResult>Proses Berhasil</CoCoTangkiResult></CoCoTangkiResponse></soap:Body></soap:Envelope>`
)

type testAPI struct {
	router *Router
	tokens map[string]string
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	authority := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/xml")
		w.Write([]byte(acceptedBody))
	}))
	t.Cleanup(authority.Close)

	db := dbtest.Open(t)
	require.NoError(t, db.Create(&models.DocumentType{Code: "BC16", Name: "BC 1.6"}).Error)

	sealer, err := vault.NewSealer("00112233445566778899aabbccddeeff")
	require.NoError(t, err)
	v := vault.New(db, sealer)
	secret := "rahasia"
	_, err = v.Save(context.Background(), vault.Input{
		Service:  vault.ServiceCoCoTangki,
		Username: "tps-merak",
		Secret:   &secret,
		Endpoint: authority.URL,
		Active:   true,
		Actor:    "setup",
	})
	require.NoError(t, err)

	refs, err := refnumber.NewGenerator("TPSO", time.UTC)
	require.NoError(t, err)
	client := soap.NewClient(5 * time.Second)

	api := &testAPI{tokens: map[string]string{}}
	for _, role := range []string{models.RoleAdmin, models.RoleOperator, models.RoleViewer} {
		hash, err := utils.HashPassword("pass-" + role)
		require.NoError(t, err)
		user := models.UserAuth{Username: role, Email: role + "@tps.test", Password: hash, Role: role, IsActive: true}
		require.NoError(t, db.Create(&user).Error)
		access, _, err := utils.GenerateTokens(&user, testSecret)
		require.NoError(t, err)
		api.tokens[role] = access
	}

	api.router = NewRouter(Deps{
		DB:            db,
		Documents:     documents.NewService(db, refs),
		Transmissions: transmission.NewService(db, v, client, transmission.Options{}),
		Vault:         v,
		Diagnostics:   diagnostics.NewService(db, v, client, diagnostics.Options{}),
		Hub:           websocket.NewHub(),
		JWTSecret:     testSecret,
	})
	return api
}

func (a *testAPI) do(t *testing.T, role, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+a.tokens[role])
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func validDocument() map[string]interface{} {
	return map[string]interface{}{
		"kdDok":       "1",
		"kdTps":       "MRK1",
		"kdGudang":    "GD01",
		"nmAngkut":    "MT SINAR MERAK",
		"noVoyFlight": "V.025",
		"tglTiba":     "20251101",
		"tangki": []map[string]interface{}{{
			"noTangki":   "TK-01",
			"kdDokInout": "BC16",
			"jmlSatuan":  "100",
			"kapasitas":  "250.5",
			"kdSatuan":   "LITER",
		}},
	}
}

func (a *testAPI) createDocument(t *testing.T, doc map[string]interface{}) models.Document {
	t.Helper()
	rec := a.do(t, models.RoleOperator, http.MethodPost, "/api/documents", doc)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var created models.Document
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	return created
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, "", http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestLogin(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, "", http.MethodPost, "/auth/login", LoginRequest{Username: "operator", Password: "pass-operator"})
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Tokens map[string]string `json:"tokens"`
		User   models.UserAuth   `json:"user"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Tokens["accessToken"])
	assert.Equal(t, models.RoleOperator, body.User.Role)

	rec = api.do(t, "", http.MethodPost, "/auth/login", LoginRequest{Username: "operator", Password: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIRequiresToken(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, "", http.MethodGet, "/api/documents", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCreateSendAndHistory(t *testing.T) {
	api := newTestAPI(t)
	doc := api.createDocument(t, validDocument())
	assert.Len(t, doc.RefNumber, refnumber.Length)
	assert.True(t, strings.HasPrefix(doc.RefNumber, "TPSO"))

	path := "/api/documents/" + itoa(doc.ID)

	rec := api.do(t, models.RoleViewer, http.MethodGet, path+"/xml", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "<REF_NUMBER>"+doc.RefNumber+"</REF_NUMBER>")
	assert.Contains(t, rec.Body.String(), "<JML_SATUAN>100.000</JML_SATUAN>")

	rec = api.do(t, models.RoleViewer, http.MethodPost, path+"/send", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, models.RoleOperator, http.MethodPost, path+"/send", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var outcome transmission.Outcome
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &outcome))
	assert.True(t, outcome.Success)
	assert.Equal(t, models.StateSent, outcome.State)

	rec = api.do(t, models.RoleOperator, http.MethodPost, path+"/retry", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = api.do(t, models.RoleViewer, http.MethodGet, path+"/transmissions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var history []models.TransmissionLog
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &history))
	require.Len(t, history, 1)
	assert.NotContains(t, history[0].RequestPayload, "rahasia")

	rec = api.do(t, models.RoleAdmin, http.MethodDelete, path, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestSendInvalidDocument(t *testing.T) {
	api := newTestAPI(t)
	body := validDocument()
	delete(body, "nmAngkut")
	doc := api.createDocument(t, body)

	rec := api.do(t, models.RoleOperator, http.MethodPost, "/api/documents/"+itoa(doc.ID)+"/send", nil)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	var resp struct {
		Errors []string `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp.Errors, "vessel name (NM_ANGKUT) is required")
}

func TestCreateDocumentRejectsBadLineItems(t *testing.T) {
	api := newTestAPI(t)

	cases := map[string]struct {
		key, value, field string
	}{
		"extra decimals":   {"kapasitas", "250.5001", "kapasitas"},
		"unknown doc type": {"kdDokInout", "BC99", "kdDokInout"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			body := validDocument()
			body["tangki"].([]map[string]interface{})[0][tc.key] = tc.value

			rec := api.do(t, models.RoleOperator, http.MethodPost, "/api/documents", body)
			require.Equal(t, http.StatusUnprocessableEntity, rec.Code, rec.Body.String())
			var resp struct {
				Error string `json:"error"`
				Field string `json:"field"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tc.field, resp.Field)
			assert.Contains(t, resp.Error, tc.value)
		})
	}
}

func TestUnknownDocument(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, models.RoleOperator, http.MethodPost, "/api/documents/999/send", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = api.do(t, models.RoleViewer, http.MethodGet, "/api/documents/999", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBulkSend(t *testing.T) {
	api := newTestAPI(t)
	a := api.createDocument(t, validDocument())
	b := api.createDocument(t, validDocument())

	rec := api.do(t, models.RoleOperator, http.MethodPost, "/api/transmissions/bulk", BulkRequest{DocumentIDs: []uint{a.ID, 999, b.ID}})
	require.Equal(t, http.StatusOK, rec.Code)
	var result transmission.BulkResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 2, result.Succeeded)
	assert.Equal(t, 1, result.Failed)
	require.Len(t, result.Outcomes, 3)
	assert.Equal(t, uint(999), result.Outcomes[1].DocumentID)
	assert.False(t, result.Outcomes[1].Success)
}

func TestCredentialsAreAdminOnly(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, models.RoleOperator, http.MethodGet, "/api/credentials", nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = api.do(t, models.RoleAdmin, http.MethodGet, "/api/credentials", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "rahasia")
	var views []vault.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &views))
	require.Len(t, views, 1)
	assert.True(t, views[0].Configured)

	rec = api.do(t, models.RoleAdmin, http.MethodPut, "/api/credentials/unknown_service", CredentialRequest{Username: "x"})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestPreviewFormats(t *testing.T) {
	api := newTestAPI(t)
	doc := api.createDocument(t, validDocument())
	path := "/api/documents/" + itoa(doc.ID) + "/preview"

	rec := api.do(t, models.RoleViewer, http.MethodGet, path+"?format=pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))

	rec = api.do(t, models.RoleViewer, http.MethodGet, path+"?format=docx", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func itoa(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func TestListDocumentsFilters(t *testing.T) {
	api := newTestAPI(t)
	api.createDocument(t, validDocument())

	rec := api.do(t, models.RoleViewer, http.MethodGet, "/api/documents?transmission=not_sent", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var page struct {
		Data  []models.Document `json:"data"`
		Total int64             `json:"total"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Total)

	rec = api.do(t, models.RoleViewer, http.MethodGet, "/api/documents?transmission=pending", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStatusReportsBuild(t *testing.T) {
	api := newTestAPI(t)
	rec := api.do(t, models.RoleViewer, http.MethodGet, "/api/status", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"version"`)
}

func TestSaveCredentialKeepsSecret(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, models.RoleAdmin, http.MethodGet, "/api/credentials/beacukai_status", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// no password in the body keeps the stored one
	rec = api.do(t, models.RoleAdmin, http.MethodPut, "/api/credentials/beacukai_cocotangki", map[string]interface{}{
		"username": "tps-merak-2",
		"endpoint": "https://tpsonline.example.test/service.asmx",
		"isActive": true,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = api.do(t, models.RoleAdmin, http.MethodGet, "/api/credentials/beacukai_cocotangki", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var view vault.View
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &view))
	assert.Equal(t, "tps-merak-2", view.Username)
	assert.True(t, view.HasSecret)
	assert.True(t, view.SecretReadable)
	assert.True(t, view.Configured)
}
