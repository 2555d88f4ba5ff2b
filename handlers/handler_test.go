package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rabbikazmi/HackingDelhi/analytics"
	"github.com/rabbikazmi/HackingDelhi/auth"
	"github.com/rabbikazmi/HackingDelhi/config"
	"github.com/rabbikazmi/HackingDelhi/logger"
	"github.com/rabbikazmi/HackingDelhi/models"
	"github.com/rabbikazmi/HackingDelhi/response"
	"github.com/rabbikazmi/HackingDelhi/store"
)

var fixedNow = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

func sampleRecords() []models.CensusRecord {
	return []models.CensusRecord{
		{RecordID: "R1", HouseholdID: "HH1", Name: "Ravi", Relation: "head", State: "Karnataka", PinCode: "560001",
			Income: 40000, HouseholdSize: 2, FlagStatus: models.FlagNormal, WelfareScore: 0.4},
		{RecordID: "R2", HouseholdID: "HH1", Name: "Meena", Relation: "spouse", SpouseID: "R1", State: "Karnataka",
			PinCode: "560001", Income: 90000, HouseholdSize: 2, FlagStatus: models.FlagReview, ExclusionErrorRiskScore: 0.6},
		{RecordID: "R3", HouseholdID: "HH2", Name: "Imran", Relation: "head", State: "Tamil Nadu", PinCode: "600001",
			Income: 250000, HouseholdSize: 1, FlagStatus: models.FlagPriority, SchemeLeakageFlag: true,
			ExclusionErrorRiskScore: 0.8,
			BlockchainReceipt: &models.RecordReceipt{TransactionHash: "0xabc", Timestamp: "2025-01-01T00:00:00Z", Status: "Anchored"}},
	}
}

type fixture struct {
	h      *Handler
	store  *store.Memory
	router *mux.Router
	user   models.User
}

func newFixture(t *testing.T, records []models.CensusRecord) *fixture {
	t.Helper()
	st := store.NewMemory(records)
	svc := auth.NewService(st, store.NewMemorySessions(), auth.NewHTTPProvider("", time.Second), 0, nil)
	h := New(st, svc, config.NewCache(time.Minute), nil, Options{RecordLimit: 2, DevLoginEnabled: true})
	h.now = func() time.Time { return fixedNow }

	f := &fixture{
		h:     h,
		store: st,
		user:  models.User{UserID: "user_reviewer01", Name: "Reviewer", Role: models.RoleSupervisor},
	}

	r := mux.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(auth.WithUser(req.Context(), f.user)))
		})
	})
	r.HandleFunc("/census/records", h.ListRecords).Methods("GET")
	r.HandleFunc("/census/records/{record_id}", h.GetRecord).Methods("GET")
	r.HandleFunc("/census/records/{record_id}/review", h.ReviewRecord).Methods("PUT")
	r.HandleFunc("/census/household/{household_id}", h.GetHousehold).Methods("GET")
	r.HandleFunc("/analytics/summary", h.Summary).Methods("GET")
	r.HandleFunc("/analytics/states", h.States).Methods("GET")
	r.HandleFunc("/analytics/pincode-points", h.PincodePoints).Methods("GET")
	r.HandleFunc("/policy/simulate", h.Simulate).Methods("POST")
	r.HandleFunc("/audit/logs", h.AuditLogs).Methods("GET")
	r.HandleFunc("/integrity/status/{record_id}", h.IntegrityStatus).Methods("GET")
	r.HandleFunc("/ml/audit-signals/{record_id}", h.AuditSignals).Methods("GET")
	r.HandleFunc("/surveys", h.CreateSurvey).Methods("POST")
	r.HandleFunc("/surveys/bulk", h.BulkSurveys).Methods("POST")
	r.HandleFunc("/surveys", h.ListSurveys).Methods("GET")
	r.HandleFunc("/surveys/{survey_id}", h.GetSurvey).Methods("GET")
	r.HandleFunc("/", h.Root).Methods("GET")
	r.HandleFunc("/health/detailed", h.HealthDetailed).Methods("GET")
	f.router = r
	return f
}

func (f *fixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		switch b := body.(type) {
		case string:
			buf.WriteString(b)
		default:
			require.NoError(t, json.NewEncoder(&buf).Encode(b))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	return decode[response.ErrorEnvelope](t, rec).Error.Code
}

func TestListRecords(t *testing.T) {
	f := newFixture(t, sampleRecords())

	rec := f.do(t, http.MethodGet, "/census/records", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.CensusRecord](t, rec), 2, "record limit applies")

	rec = f.do(t, http.MethodGet, "/census/records?flag_status=priority", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]models.CensusRecord](t, rec)
	require.Len(t, got, 1)
	assert.Equal(t, "R3", got[0].RecordID)
}

func TestListRecordsEmptyStore(t *testing.T) {
	f := newFixture(t, nil)
	rec := f.do(t, http.MethodGet, "/census/records", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestGetRecordNotFound(t *testing.T) {
	f := newFixture(t, sampleRecords())
	rec := f.do(t, http.MethodGet, "/census/records/missing", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", errorCode(t, rec))
}

func TestReviewRecord(t *testing.T) {
	f := newFixture(t, sampleRecords())

	rec := f.do(t, http.MethodPut, "/census/records/R2/review", models.ReviewRequest{Action: models.ReviewApprove})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.CensusRecord](t, rec)
	assert.Equal(t, models.FlagApproved, got.FlagStatus)
	assert.True(t, got.Reviewed)
	assert.Equal(t, f.user.UserID, got.ReviewedBy)
	assert.Equal(t, models.ReviewApprove, got.ReviewAction)

	entries, err := f.store.ListAudit(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Reviewed record R2", entries[0].Action)
	assert.Equal(t, "R2", entries[0].Details.RecordID)
	assert.Equal(t, models.ReviewApprove, entries[0].Details.Action)
	assert.Equal(t, f.user.Name, entries[0].UserName)
	assert.Len(t, entries[0].AuditID, len("audit_")+12)
}

func TestReviewRecordErrors(t *testing.T) {
	f := newFixture(t, sampleRecords())

	tests := []struct {
		name   string
		path   string
		body   any
		status int
	}{
		{"unknown action", "/census/records/R1/review", models.ReviewRequest{Action: "delete"}, http.StatusBadRequest},
		{"empty body", "/census/records/R1/review", nil, http.StatusBadRequest},
		{"malformed body", "/census/records/R1/review", "{", http.StatusBadRequest},
		{"unknown record", "/census/records/nope/review", models.ReviewRequest{Action: models.ReviewApprove}, http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPut, tt.path, tt.body)
			assert.Equal(t, tt.status, rec.Code)
		})
	}

	entries, err := f.store.ListAudit(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestReviewInvalidatesAnalyticsCache(t *testing.T) {
	f := newFixture(t, sampleRecords())

	before := decode[analytics.Summary](t, f.do(t, http.MethodGet, "/analytics/summary", nil))
	assert.Equal(t, 1, before.PendingReview)

	rec := f.do(t, http.MethodPut, "/census/records/R2/review", models.ReviewRequest{Action: models.ReviewApprove})
	require.Equal(t, http.StatusOK, rec.Code)

	after := decode[analytics.Summary](t, f.do(t, http.MethodGet, "/analytics/summary", nil))
	assert.Equal(t, 0, after.PendingReview)
}

func TestGetHousehold(t *testing.T) {
	f := newFixture(t, sampleRecords())

	rec := f.do(t, http.MethodGet, "/census/household/HH1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hh := decode[models.Household](t, rec)
	assert.Equal(t, "HH1", hh.HouseholdID)
	assert.Len(t, hh.Members, 2)
	require.Len(t, hh.Graph.Edges, 1)
	assert.Equal(t, models.EdgeSpouse, hh.Graph.Edges[0].Type)

	rec = f.do(t, http.MethodGet, "/census/household/HH404", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	hh = decode[models.Household](t, rec)
	assert.Empty(t, hh.Members)
	assert.Empty(t, hh.Graph.Edges)
}

func TestStates(t *testing.T) {
	f := newFixture(t, sampleRecords())
	rec := f.do(t, http.MethodGet, "/analytics/states", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	states := decode[map[string]analytics.StateStats](t, rec)
	require.Contains(t, states, "Karnataka")
	assert.Equal(t, 2, states["Karnataka"].TotalPopulation)
	assert.Equal(t, 1, states["Tamil Nadu"].Priority)
}

func TestPincodePoints(t *testing.T) {
	f := newFixture(t, sampleRecords())

	rec := f.do(t, http.MethodGet, "/analytics/pincode-points?income_threshold=100000", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[analytics.GeoResult](t, rec)
	assert.Equal(t, 2, res.TotalPincodes)
	assert.Equal(t, 3, res.TotalRecords)

	rec = f.do(t, http.MethodGet, "/analytics/pincode-points?state_filter=Karnataka&limit=1", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	res = decode[analytics.GeoResult](t, rec)
	require.Len(t, res.Points, 1)
	assert.Equal(t, "560001", res.Points[0].Pincode)
}

func TestPincodePointsValidation(t *testing.T) {
	f := newFixture(t, sampleRecords())
	for _, q := range []string{
		"limit=abc",
		"limit=0",
		"income_threshold=-5",
		"household_size_min=4&household_size_max=2",
	} {
		rec := f.do(t, http.MethodGet, "/analytics/pincode-points?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, q)
		assert.Equal(t, "validation", errorCode(t, rec), q)
	}
}

func TestSimulate(t *testing.T) {
	f := newFixture(t, sampleRecords())

	rec := f.do(t, http.MethodPost, "/policy/simulate", map[string]any{"income_threshold": 100000})
	require.Equal(t, http.StatusOK, rec.Code)
	res := decode[analytics.SimulationResult](t, rec)
	assert.Equal(t, 3, res.TotalPopulation)
	assert.Equal(t, 2, res.EligiblePopulation)

	rec = f.do(t, http.MethodPost, "/policy/simulate", map[string]any{"income_threshold": 100000, "region_filter": "Tamil Nadu"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 0, decode[analytics.SimulationResult](t, rec).EligiblePopulation)
}

func TestSimulateValidation(t *testing.T) {
	f := newFixture(t, sampleRecords())
	for name, body := range map[string]any{
		"missing threshold":  map[string]any{"caste_filter": "SC"},
		"negative threshold": map[string]any{"income_threshold": -1},
		"inverted sizes":     map[string]any{"income_threshold": 1, "household_size_min": 5, "household_size_max": 2},
		"unparsable":         "not json",
	} {
		rec := f.do(t, http.MethodPost, "/policy/simulate", body)
		assert.Equal(t, http.StatusBadRequest, rec.Code, name)
	}
}

func TestAuditLogsFallback(t *testing.T) {
	f := newFixture(t, sampleRecords())
	rec := f.do(t, http.MethodGet, "/audit/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.AuditLogEntry](t, rec), 10)
}

func TestAuditLogsNewestFirst(t *testing.T) {
	f := newFixture(t, sampleRecords())
	ctx := context.Background()
	require.NoError(t, f.store.AppendAudit(ctx, models.AuditLogEntry{AuditID: "a1", Timestamp: fixedNow.Add(-time.Hour)}))
	require.NoError(t, f.store.AppendAudit(ctx, models.AuditLogEntry{AuditID: "a2", Timestamp: fixedNow}))

	rec := f.do(t, http.MethodGet, "/audit/logs", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]models.AuditLogEntry](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, "a2", entries[0].AuditID)
}

func TestIntegrityStatus(t *testing.T) {
	f := newFixture(t, sampleRecords())

	got := decode[IntegrityStatus](t, f.do(t, http.MethodGet, "/integrity/status/R3", nil))
	assert.Equal(t, "anchored", got.Status)
	assert.True(t, got.LedgerAnchored)
	assert.Equal(t, "0xabc", got.TransactionHash)

	got = decode[IntegrityStatus](t, f.do(t, http.MethodGet, "/integrity/status/R1", nil))
	assert.Equal(t, "pending", got.Status)
	assert.False(t, got.LedgerAnchored)
	assert.Empty(t, got.TransactionHash)

	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/integrity/status/nope", nil).Code)
}

func TestAuditSignals(t *testing.T) {
	f := newFixture(t, sampleRecords())

	got := decode[AuditSignals](t, f.do(t, http.MethodGet, "/ml/audit-signals/R3", nil))
	assert.Equal(t, models.FlagPriority, got.FlagStatus)
	assert.Nil(t, got.ModelConfidence)
	var names []string
	for _, s := range got.Signals {
		names = append(names, s.Name)
	}
	assert.Contains(t, names, "scheme_leakage")
	assert.Contains(t, names, "high_risk_score")

	got = decode[AuditSignals](t, f.do(t, http.MethodGet, "/ml/audit-signals/R1", nil))
	assert.Empty(t, got.Signals)
}

func testSurvey(id string) models.Survey {
	return models.Survey{
		ID:             id,
		Name:           "Lakshmi",
		Age:            "34",
		Sex:            "Female",
		Caste:          "OBC",
		Income:         "45000",
		AIVerification: models.AIVerification{IncomeStatus: "Verified", Confidence: 55},
		CreatedAt:      "2025-02-01T08:00:00Z",
	}
}

func TestCreateSurvey(t *testing.T) {
	f := newFixture(t, nil)
	id := "a1b2c3d4-0000-4000-8000-000000000001"

	rec := f.do(t, http.MethodPost, "/surveys", testSurvey(id))
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[models.Survey](t, rec)
	assert.True(t, got.Synced)
	assert.True(t, fixedNow.Equal(got.SyncedAt))

	rec = f.do(t, http.MethodPost, "/surveys", testSurvey(id))
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "conflict", errorCode(t, rec))

	record := decode[models.CensusRecord](t, f.do(t, http.MethodGet, "/census/records/"+id, nil))
	assert.Equal(t, "HHa1b2c3d4", record.HouseholdID)
	assert.Equal(t, models.FlagReview, record.FlagStatus)
	assert.Equal(t, models.FlagSourceAI, record.FlagSource)

	assert.Equal(t, http.StatusBadRequest, f.do(t, http.MethodPost, "/surveys", testSurvey(" ")).Code)
}

func TestBulkSurveys(t *testing.T) {
	f := newFixture(t, nil)
	existing := testSurvey("existing-survey-1")
	existing.Name = "Original"
	require.Equal(t, http.StatusOK, f.do(t, http.MethodPost, "/surveys", existing).Code)

	resubmitted := testSurvey("existing-survey-1")
	resubmitted.Name = "Changed"
	rec := f.do(t, http.MethodPost, "/surveys/bulk", []models.Survey{resubmitted, testSurvey("new-survey-2")})
	require.Equal(t, http.StatusOK, rec.Code)
	got := decode[[]models.Survey](t, rec)
	require.Len(t, got, 2)
	assert.Equal(t, "Original", got[0].Name)
	assert.Equal(t, "new-survey-2", got[1].ID)

	list := decode[[]models.Survey](t, f.do(t, http.MethodGet, "/surveys", nil))
	assert.Len(t, list, 2)

	one := decode[models.Survey](t, f.do(t, http.MethodGet, "/surveys/new-survey-2", nil))
	assert.Equal(t, "Lakshmi", one.Name)
	assert.Equal(t, http.StatusNotFound, f.do(t, http.MethodGet, "/surveys/none", nil).Code)
}

func TestRootAndHealth(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"Governance Portal API","status":"operational"}`, rec.Body.String())

	health := decode[HealthResponse](t, f.do(t, http.MethodGet, "/health/detailed", nil))
	assert.Equal(t, "ok", health.Status)
	assert.Equal(t, store.BackendMemory, health.Backend)
}

// flakyStore fails selected calls on top of an in-memory store.
type flakyStore struct {
	store.Store
	listErr   error
	insertErr map[string]error
}

func (s *flakyStore) List(ctx context.Context, opts store.ListOptions) ([]models.CensusRecord, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.Store.List(ctx, opts)
}

func (s *flakyStore) InsertSurvey(ctx context.Context, sv models.Survey) error {
	if err := s.insertErr[sv.ID]; err != nil {
		return err
	}
	return s.Store.InsertSurvey(ctx, sv)
}

func newFlakyHandler(t *testing.T, st store.Store) (*Handler, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zap.DebugLevel)
	log := &logger.Logger{SugaredLogger: zap.New(core).Sugar()}
	h := New(st, nil, config.NewCache(time.Minute), log, Options{})
	h.now = func() time.Time { return fixedNow }
	return h, logs
}

func serve(h http.HandlerFunc, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		json.NewEncoder(&buf).Encode(body)
	}
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(method, path, &buf))
	return rec
}

func TestInternalErrorsAreLogged(t *testing.T) {
	st := &flakyStore{Store: store.NewMemory(sampleRecords()), listErr: errors.New("connection reset by peer")}
	h, logs := newFlakyHandler(t, st)

	rec := serve(h.Summary, http.MethodGet, "/analytics/summary", nil)
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decode[response.ErrorEnvelope](t, rec)
	assert.Equal(t, "Internal server error", env.Error.Message)
	assert.NotContains(t, rec.Body.String(), "connection reset")

	entries := logs.FilterLevelExact(zapcore.ErrorLevel).All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, http.MethodGet, fields["method"])
	assert.Equal(t, "/analytics/summary", fields["path"])
	assert.Contains(t, fields["error"], "connection reset by peer")
}

func TestClientErrorsAreNotLogged(t *testing.T) {
	h, logs := newFlakyHandler(t, store.NewMemory(sampleRecords()))

	rec := serve(h.Simulate, http.MethodPost, "/policy/simulate", map[string]int{"income_threshold": -1})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Zero(t, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestBulkSurveysValidatesBeforeInserting(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodPost, "/surveys/bulk", []models.Survey{testSurvey("valid-survey-1"), testSurvey("")})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation", errorCode(t, rec))

	list := decode[[]models.Survey](t, f.do(t, http.MethodGet, "/surveys", nil))
	assert.Empty(t, list)
}

func TestBulkSurveysFlushesCacheOnPartialFailure(t *testing.T) {
	st := &flakyStore{
		Store:     store.NewMemory(sampleRecords()),
		insertErr: map[string]error{"second-survey": errors.New("disk full")},
	}
	h, _ := newFlakyHandler(t, st)

	before := decode[analytics.Summary](t, serve(h.Summary, http.MethodGet, "/analytics/summary", nil))
	assert.Equal(t, 3, before.TotalRecords)

	rec := serve(h.BulkSurveys, http.MethodPost, "/surveys/bulk", []models.Survey{testSurvey("first-survey"), testSurvey("second-survey")})
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	after := decode[analytics.Summary](t, serve(h.Summary, http.MethodGet, "/analytics/summary", nil))
	assert.Equal(t, 4, after.TotalRecords)
}

func TestAnalyticsCacheHitLogged(t *testing.T) {
	h, logs := newFlakyHandler(t, store.NewMemory(sampleRecords()))

	for i := 0; i < 2; i++ {
		require.Equal(t, http.StatusOK, serve(h.States, http.MethodGet, "/analytics/states", nil).Code)
	}
	hits := logs.FilterMessage("analytics cache hit").All()
	require.Len(t, hits, 1)
	assert.Equal(t, zapcore.DebugLevel, hits[0].Level)
}
