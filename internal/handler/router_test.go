package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/army-personnel-api/internal/middleware"
	"github.com/noah-isme/army-personnel-api/internal/models"
	"github.com/noah-isme/army-personnel-api/internal/service"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
)

type responseEnvelope struct {
	Data       json.RawMessage        `json:"data"`
	Message    string                 `json:"message"`
	Error      *appErrors.Error       `json:"error"`
	Pagination *models.Pagination     `json:"pagination"`
	Meta       map[string]interface{} `json:"meta"`
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) responseEnvelope {
	t.Helper()
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope
}

type fakeAuth struct {
	loginReq  models.LoginRequest
	loginErr  error
	loggedOut string
}

func (f *fakeAuth) Login(_ context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	f.loginReq = req
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return &models.LoginResponse{
		Token:     "signed-token",
		ExpiresAt: time.Now().Add(time.Hour),
		User:      models.AdminUser{ID: 1, Username: req.Username, IsActive: true},
	}, nil
}

func (f *fakeAuth) Logout(_ context.Context, sessionID string) error {
	f.loggedOut = sessionID
	return nil
}

func (f *fakeAuth) CurrentUser(_ context.Context, actor models.Actor) (*models.AdminUser, error) {
	return &models.AdminUser{ID: actor.UserID, Username: actor.Username, IsActive: true}, nil
}

type fakeSetup struct{ err error }

func (f *fakeSetup) Setup(_ context.Context, req models.SetupRequest) (*models.SetupResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &models.SetupResult{User: models.AdminUser{ID: 1, Username: req.Username}, RanksSeeded: 11}, nil
}

type fakePersonnel struct {
	filter   models.PersonnelFilter
	calls    []string
	getErr   error
	updateID int64
	update   models.UpdatePersonnelRequest
}

func (f *fakePersonnel) List(_ context.Context, filter models.PersonnelFilter) ([]models.PersonnelDetail, *models.Pagination, error) {
	f.filter = filter
	f.calls = append(f.calls, "list")
	return []models.PersonnelDetail{}, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}, nil
}

func (f *fakePersonnel) Get(_ context.Context, id int64) (*models.PersonnelDetail, error) {
	f.calls = append(f.calls, "get")
	if f.getErr != nil {
		return nil, f.getErr
	}
	return &models.PersonnelDetail{Personnel: models.Personnel{ID: id}}, nil
}

func (f *fakePersonnel) GetByArmyID(_ context.Context, armyID string) (*models.PersonnelDetail, error) {
	f.calls = append(f.calls, "army:"+armyID)
	return &models.PersonnelDetail{Personnel: models.Personnel{ID: 9, ArmyID: armyID}}, nil
}

func (f *fakePersonnel) Create(_ context.Context, req models.CreatePersonnelRequest) (*models.PersonnelDetail, error) {
	f.calls = append(f.calls, "create")
	return &models.PersonnelDetail{Personnel: models.Personnel{ID: 3, ArmyID: req.ArmyID}}, nil
}

func (f *fakePersonnel) Update(_ context.Context, id int64, req models.UpdatePersonnelRequest) (*models.PersonnelDetail, error) {
	f.updateID = id
	f.update = req
	return &models.PersonnelDetail{Personnel: models.Personnel{ID: id}}, nil
}

func (f *fakePersonnel) Deactivate(_ context.Context, id int64) error {
	f.calls = append(f.calls, "deactivate")
	return nil
}

type fakePromotions struct {
	actor  models.Actor
	filter models.PromotionFilter
	err    error
}

func (f *fakePromotions) Promote(_ context.Context, req models.CreatePromotionRequest, actor models.Actor) (*models.Promotion, error) {
	f.actor = actor
	if f.err != nil {
		return nil, f.err
	}
	return &models.Promotion{ID: 1, PersonnelID: req.PersonnelID, ToRankID: req.ToRankID, PromotedBy: actor.UserID}, nil
}

func (f *fakePromotions) List(_ context.Context, filter models.PromotionFilter) ([]models.Promotion, error) {
	f.filter = filter
	return []models.Promotion{}, nil
}

func (f *fakePromotions) ListEligible(context.Context) ([]models.PersonnelDetail, error) {
	return []models.PersonnelDetail{{Personnel: models.Personnel{ID: 5}}}, nil
}

type fakeLedger struct {
	filter models.PointEntryFilter
	actor  models.Actor
	err    error
}

func (f *fakeLedger) Submit(_ context.Context, req models.CreatePointEntryRequest, actor models.Actor) (*models.PointEntryResult, error) {
	f.actor = actor
	if f.err != nil {
		return nil, f.err
	}
	return &models.PointEntryResult{Entry: models.PointEntry{ID: 1, PersonnelID: req.PersonnelID}, TotalPoints: 33}, nil
}

func (f *fakeLedger) List(_ context.Context, filter models.PointEntryFilter) ([]models.PointEntry, error) {
	f.filter = filter
	return []models.PointEntry{}, nil
}

type fakeExports struct {
	format string
}

func (f *fakeExports) Roster(_ context.Context, _ models.PersonnelFilter, format string) (*service.ExportFile, error) {
	f.format = format
	if format == "docx" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
	return &service.ExportFile{Filename: "roster-20250113-120000.csv", ContentType: "text/csv", Body: []byte("Army ID\n")}, nil
}

func (f *fakeExports) Ledger(_ context.Context, _ models.PointEntryFilter, format string) (*service.ExportFile, error) {
	f.format = format
	return &service.ExportFile{Filename: "ledger.csv", ContentType: "text/csv", Body: []byte("Week\n")}, nil
}

type fakeReference struct{}

func (fakeReference) ListRanks(context.Context) ([]models.Rank, error) {
	return []models.Rank{{ID: 1, Name: "Recruit", Level: 1}}, nil
}

func (fakeReference) GetRank(_ context.Context, id int64) (*models.Rank, error) {
	if id != 1 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "rank not found")
	}
	return &models.Rank{ID: 1, Name: "Recruit", Level: 1}, nil
}

func (fakeReference) ListSpecialPositions(context.Context) ([]models.SpecialPosition, error) {
	return []models.SpecialPosition{}, nil
}

type routerFixture struct {
	router     *gin.Engine
	auth       *fakeAuth
	setup      *fakeSetup
	personnel  *fakePersonnel
	promotions *fakePromotions
	ledger     *fakeLedger
	exports    *fakeExports
}

func newRouterFixture() *routerFixture {
	gin.SetMode(gin.TestMode)
	f := &routerFixture{
		auth:       &fakeAuth{},
		setup:      &fakeSetup{},
		personnel:  &fakePersonnel{},
		promotions: &fakePromotions{},
		ledger:     &fakeLedger{},
		exports:    &fakeExports{},
	}
	session := func(c *gin.Context) {
		if c.GetHeader("Authorization") != "Bearer ok" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Set(middleware.ContextActorKey, &models.Actor{UserID: 4, Username: "admin", SessionID: "sess-1"})
		c.Next()
	}
	f.router = gin.New()
	f.router.Use(middleware.WithResponseMeta())
	RegisterRoutes(f.router, "/api", Handlers{
		Auth:       NewAuthHandler(f.auth, f.setup, CookieConfig{Name: "army_session"}),
		Personnel:  NewPersonnelHandler(f.personnel, f.promotions, f.exports),
		Points:     NewPointEntryHandler(f.ledger, f.exports),
		Promotions: NewPromotionHandler(f.promotions),
		Reference:  NewReferenceHandler(fakeReference{}),
		Dashboard:  NewDashboardHandler(&fakeDashboard{}),
	}, session)
	return f
}

func (f *routerFixture) do(method, path, body string, authed bool) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != "" {
		reader = bytes.NewReader([]byte(body))
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set("Authorization", "Bearer ok")
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestLoginSetsSessionCookie(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodPost, "/api/login", `{"username":"admin","password":"secret123"}`, false)

	require.Equal(t, http.StatusOK, rec.Code)
	envelope := decodeEnvelope(t, rec)
	var body models.LoginResponse
	require.NoError(t, json.Unmarshal(envelope.Data, &body))
	assert.Equal(t, "signed-token", body.Token)
	assert.Equal(t, "admin", body.User.Username)

	cookie := rec.Header().Get("Set-Cookie")
	assert.Contains(t, cookie, "army_session=signed-token")
	assert.Contains(t, cookie, "HttpOnly")
	assert.NotEmpty(t, f.auth.loginReq.IP)
}

func TestLoginFailureIsUnauthorized(t *testing.T) {
	f := newRouterFixture()
	f.auth.loginErr = appErrors.Clone(appErrors.ErrInvalidCredentials, "")

	rec := f.do(http.MethodPost, "/api/login", `{"username":"admin","password":"wrong"}`, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "INVALID_CREDENTIALS", decodeEnvelope(t, rec).Error.Code)
	assert.Empty(t, rec.Header().Get("Set-Cookie"))
}

func TestLogoutClearsSession(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodPost, "/api/logout", "", true)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "sess-1", f.auth.loggedOut)
	assert.Contains(t, rec.Header().Get("Set-Cookie"), "Max-Age=0")
}

func TestSetupConflict(t *testing.T) {
	f := newRouterFixture()
	rec := f.do(http.MethodPost, "/api/setup", `{"username":"admin","password":"password1"}`, false)
	assert.Equal(t, http.StatusCreated, rec.Code)

	f.setup.err = appErrors.Clone(appErrors.ErrAlreadyInitialized, "")
	rec = f.do(http.MethodPost, "/api/setup", `{"username":"admin","password":"password1"}`, false)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestProtectedRoutesRequireSession(t *testing.T) {
	f := newRouterFixture()
	for _, path := range []string{"/api/user", "/api/personnel", "/api/point-entries", "/api/dashboard/stats", "/api/ranks"} {
		rec := f.do(http.MethodGet, path, "", false)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, path)
	}
}

func TestPersonnelStaticRoutesWinOverID(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodGet, "/api/personnel/eligible", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/personnel/army/A-100", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(http.MethodGet, "/api/personnel/12", "", true)
	require.Equal(t, http.StatusOK, rec.Code)

	assert.Equal(t, []string{"army:A-100", "get"}, f.personnel.calls)
}

func TestPersonnelListParsesFilter(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodGet, "/api/personnel?active=true&rankId=3&search=%20smith%20&page=2&pageSize=10", "", true)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.personnel.filter.Active)
	assert.True(t, *f.personnel.filter.Active)
	require.NotNil(t, f.personnel.filter.RankID)
	assert.Equal(t, int64(3), *f.personnel.filter.RankID)
	assert.Equal(t, "smith", f.personnel.filter.Search)
	assert.Equal(t, 2, decodeEnvelope(t, rec).Pagination.Page)
}

func TestPersonnelBadParams(t *testing.T) {
	f := newRouterFixture()
	for _, path := range []string{"/api/personnel?active=maybe", "/api/personnel?rankId=x", "/api/personnel/abc"} {
		rec := f.do(http.MethodGet, path, "", true)
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestPersonnelNotFound(t *testing.T) {
	f := newRouterFixture()
	f.personnel.getErr = appErrors.Clone(appErrors.ErrNotFound, "personnel not found")

	rec := f.do(http.MethodGet, "/api/personnel/99", "", true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "personnel not found", decodeEnvelope(t, rec).Message)
}

func TestPersonnelPatchDistinguishesNull(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodPatch, "/api/personnel/7", `{"specialPositionId":null}`, true)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), f.personnel.updateID)
	assert.True(t, f.personnel.update.SpecialPositionID.Set)
	assert.Nil(t, f.personnel.update.SpecialPositionID.Value)
}

func TestPersonnelDeactivate(t *testing.T) {
	f := newRouterFixture()
	rec := f.do(http.MethodDelete, "/api/personnel/7", "", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRosterExport(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodGet, "/api/personnel/export?format=csv", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(rec.Header().Get("Content-Disposition"), "attachment;"))
	assert.Equal(t, "csv", f.exports.format)

	rec = f.do(http.MethodGet, "/api/personnel/export?format=docx", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestPointEntryCreateUsesActor(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodPost, "/api/point-entries", `{"personnelId":1,"weekStart":"2025-01-13","activityPoints":28}`, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(4), f.ledger.actor.UserID)
	var body models.PointEntryResult
	require.NoError(t, json.Unmarshal(decodeEnvelope(t, rec).Data, &body))
	assert.Equal(t, 33, body.TotalPoints)
}

func TestPointEntryDuplicateWeek(t *testing.T) {
	f := newRouterFixture()
	f.ledger.err = appErrors.Clone(appErrors.ErrDuplicateEntry, "")

	rec := f.do(http.MethodPost, "/api/point-entries", `{"personnelId":1,"weekStart":"2025-01-13","activityPoints":10}`, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "DUPLICATE_POINT_ENTRY", decodeEnvelope(t, rec).Error.Code)
}

func TestPointEntryListFilters(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodGet, "/api/point-entries?personnelId=2&weekStart=2025-01-15", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.ledger.filter.PersonnelID)
	assert.Equal(t, int64(2), *f.ledger.filter.PersonnelID)
	require.NotNil(t, f.ledger.filter.WeekStart)
	assert.Equal(t, "2025-01-15", f.ledger.filter.WeekStart.String())

	rec = f.do(http.MethodGet, "/api/point-entries?weekStart=15/01/2025", "", true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestLedgerExport(t *testing.T) {
	f := newRouterFixture()
	rec := f.do(http.MethodGet, "/api/point-entries/export?format=xlsx", "", true)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "xlsx", f.exports.format)
}

func TestPromotionCreateAndList(t *testing.T) {
	f := newRouterFixture()

	rec := f.do(http.MethodPost, "/api/promotions", `{"personnelId":1,"toRankId":4}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "admin", f.promotions.actor.Username)

	rec = f.do(http.MethodGet, "/api/promotions?personnelId=1", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, f.promotions.filter.PersonnelID)

	f.promotions.err = appErrors.Clone(appErrors.ErrNotFound, "rank not found")
	rec = f.do(http.MethodPost, "/api/promotions", `{"personnelId":1,"toRankId":99}`, true)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestReferenceRoutes(t *testing.T) {
	f := newRouterFixture()
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/ranks", "", true).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/ranks/1", "", true).Code)
	assert.Equal(t, http.StatusNotFound, f.do(http.MethodGet, "/api/ranks/2", "", true).Code)
	assert.Equal(t, http.StatusOK, f.do(http.MethodGet, "/api/special-positions", "", true).Code)
}

func TestMalformedJSONIsValidationError(t *testing.T) {
	f := newRouterFixture()
	rec := f.do(http.MethodPost, "/api/personnel", `{"armyId":`, true)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeEnvelope(t, rec).Error.Code)
}
