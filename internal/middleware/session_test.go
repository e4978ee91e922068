package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/army-personnel-api/internal/models"
	appErrors "github.com/noah-isme/army-personnel-api/pkg/errors"
)

type stubAuthenticator struct {
	valid string
	seen  string
}

func (s *stubAuthenticator) Authenticate(_ context.Context, token string) (*models.Actor, error) {
	s.seen = token
	if token != s.valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired session")
	}
	return &models.Actor{UserID: 7, Username: "admin", SessionID: "sess"}, nil
}

func newSessionRouter(auth *stubAuthenticator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(Session(auth, "army_session"))
	router.GET("/", func(c *gin.Context) {
		actor, ok := ActorFromContext(c)
		if !ok {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, actor.Username)
	})
	return router
}

func TestSessionAcceptsBearerAndCookie(t *testing.T) {
	auth := &stubAuthenticator{valid: "good"}
	router := newSessionRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK || recorder.Body.String() != "admin" {
		t.Fatalf("bearer: unexpected response %d %q", recorder.Code, recorder.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "army_session", Value: "good"})
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	if recorder.Code != http.StatusOK {
		t.Fatalf("cookie: unexpected status %d", recorder.Code)
	}
}

func TestSessionRejects(t *testing.T) {
	cases := map[string]func(r *http.Request){
		"missing":      func(r *http.Request) {},
		"wrong scheme": func(r *http.Request) { r.Header.Set("Authorization", "Basic good") },
		"empty bearer": func(r *http.Request) { r.Header.Set("Authorization", "Bearer ") },
		"forged":       func(r *http.Request) { r.Header.Set("Authorization", "Bearer forged") },
		"bad cookie":   func(r *http.Request) { r.AddCookie(&http.Cookie{Name: "army_session", Value: "stale"}) },
	}
	for name, prepare := range cases {
		t.Run(name, func(t *testing.T) {
			router := newSessionRouter(&stubAuthenticator{valid: "good"})
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			prepare(req)
			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, req)
			if recorder.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401, got %d", recorder.Code)
			}
		})
	}
}

func TestSessionHeaderTakesPrecedence(t *testing.T) {
	auth := &stubAuthenticator{valid: "good"}
	router := newSessionRouter(auth)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good")
	req.AddCookie(&http.Cookie{Name: "army_session", Value: "other"})
	router.ServeHTTP(httptest.NewRecorder(), req)
	if auth.seen != "good" {
		t.Fatalf("expected header token, got %q", auth.seen)
	}
}

type recordingObserver struct {
	path   string
	status int
}

func (r *recordingObserver) ObserveHTTPRequest(_ string, path string, status int, _ time.Duration) {
	r.path = path
	r.status = status
}

func TestMetricsUsesRouteTemplate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observer := &recordingObserver{}
	router := gin.New()
	router.Use(Metrics(observer))
	router.GET("/personnel/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/personnel/42", nil))
	if observer.path != "/personnel/:id" || observer.status != http.StatusOK {
		t.Fatalf("unexpected observation: %s %d", observer.path, observer.status)
	}

	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope/123", nil))
	if observer.path != "unmatched" || observer.status != http.StatusNotFound {
		t.Fatalf("unexpected observation: %s %d", observer.path, observer.status)
	}
}

func TestResponseMeta(t *testing.T) {
	gin.SetMode(gin.TestMode)
	var meta map[string]interface{}
	router := gin.New()
	router.Use(WithResponseMeta())
	router.GET("/", func(c *gin.Context) {
		SetCacheHit(c, true)
		meta = ResponseMeta(c)
		c.Status(http.StatusOK)
	})
	router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	if meta["cacheHit"] != true {
		t.Fatalf("expected cacheHit true, got %v", meta["cacheHit"])
	}
	if _, ok := meta["processingTimeMs"]; !ok {
		t.Fatalf("expected processing time")
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	if ResponseMeta(c) != nil {
		t.Fatalf("expected nil meta without middleware")
	}
}
