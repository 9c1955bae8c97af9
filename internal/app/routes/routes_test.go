package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/fypdash/internal/app/controllers"
	"github.com/yigit/fypdash/internal/app/models/dto"
	"github.com/yigit/fypdash/internal/app/services"
	"github.com/yigit/fypdash/internal/app/views"
	"github.com/yigit/fypdash/internal/middleware"
	"github.com/yigit/fypdash/internal/pkg/apiclient"
	"github.com/yigit/fypdash/internal/pkg/auth"
	"github.com/yigit/fypdash/internal/pkg/filestorage"
	"github.com/yigit/fypdash/internal/pkg/websocket"
	"github.com/yigit/fypdash/internal/session"
	"github.com/yigit/fypdash/internal/wizard"
)

const cookieName = "fyp_session"

// fakeBackend answers the handful of projects-backend routes the pages use
type fakeBackend struct {
	server     *httptest.Server
	revoked    atomic.Bool
	lastAuth   atomic.Value
	lastUpdate atomic.Value
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()
	b := &fakeBackend{}

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var req dto.LoginRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		if req.Password != "secret" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Invalid email or password"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"token": `"backend-token"`,
			"user": map[string]string{
				"id":        "u1",
				"firstName": "Ada",
				"email":     req.Email,
				"role":      "STUDENT",
				"schoolId":  "s1",
			},
		})
	})
	mux.HandleFunc("/school", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]string{{"id": "s1", "name": "Bells University"}})
	})
	mux.HandleFunc("/school/s1/college", func(w http.ResponseWriter, r *http.Request) {
		b.lastAuth.Store(r.Header.Get("Authorization"))
		if b.revoked.Load() {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"message": "Token expired"})
			return
		}
		writeJSON(w, http.StatusOK, []map[string]interface{}{
			{
				"id":   "c1",
				"name": "Engineering",
				"departments": []map[string]interface{}{
					{"id": "d1", "name": "Computer Science", "_count": map[string]int{"projects": 4}},
					{"id": "d2", "name": "Mechatronics", "_count": map[string]int{"projects": 3}},
				},
			},
			{"id": "c2", "name": "Law"},
		})
	})
	mux.HandleFunc("/school/s1/college/c1/departments", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]string{{"id": "d1", "name": "Computer Science"}})
	})
	mux.HandleFunc("/school/project/department/d1/supervisors", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []map[string]string{{"id": "sup1", "name": "Dr. Smith"}})
	})
	mux.HandleFunc("/school/s1/project", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusCreated, map[string]interface{}{"data": map[string]string{"id": "p9"}})
	})
	mux.HandleFunc("/school/s1/college/c1/department/d1/project/p1", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"id":           "p1",
			"title":        "Old title",
			"abstract":     "Old abstract",
			"departmentId": "d1",
			"schoolId":     "s1",
			"year":         2023,
			"supervisor":   map[string]string{"id": "sup1", "name": "Dr. Smith"},
		})
	})
	mux.HandleFunc("/school/s1/project/p1", func(w http.ResponseWriter, r *http.Request) {
		var payload map[string]interface{}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		b.lastUpdate.Store(payload)
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	})

	b.server = httptest.NewServer(mux)
	t.Cleanup(b.server.Close)
	return b
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// testApp is the router together with the state the tests inspect directly
type testApp struct {
	router   *gin.Engine
	sessions *session.Manager
	wizard   *wizard.Service
}

func newTestRouter(t *testing.T, backendURL string) *gin.Engine {
	t.Helper()
	return newTestApp(t, backendURL).router
}

func newTestApp(t *testing.T, backendURL string) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)
	lgr := zerolog.Nop()

	svc := services.New(apiclient.New(backendURL, 5*time.Second, lgr), lgr)
	sessions := session.NewManager(session.NewMemoryStore(), svc.School, time.Hour, lgr)
	t.Cleanup(sessions.Close)

	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:   "test-secret",
		TokenExp:    time.Hour,
		TokenIssuer: "fypdash-test",
	})
	sessionMW := middleware.NewSessionMiddleware(jwtService, sessions, middleware.CookieConfig{Name: cookieName}, lgr)

	hub := websocket.NewHub(lgr)
	go hub.Run()
	t.Cleanup(hub.Stop)

	uploader, err := filestorage.NewLocalStorage(t.TempDir(), "http://localhost:8080/uploads")
	require.NoError(t, err)

	wiz := wizard.NewService(wizard.Dependencies{
		Colleges:    svc.College,
		Departments: svc.Department,
		Projects:    svc.Project,
		Files:       svc.File,
		Uploader:    uploader,
		Notifier:    hub,
		Logger:      lgr,
	})
	sessions.Track(wiz)

	pages := controllers.NewSchoolController(svc, sessions, 2*time.Second, lgr)
	router := gin.New()
	SetupRouter(router, Controllers{
		Auth:    controllers.NewAuthController(svc.Auth, svc.School, sessions, sessionMW, wiz, lgr),
		School:  pages,
		Project: controllers.NewProjectController(pages, wiz, "http://localhost:8080", lgr),
		Wizard:  controllers.NewWizardController(wiz, lgr),
		Health:  controllers.NewHealthController(sessions.StoreName()),
		Events:  websocket.NewHandler(hub, lgr),
	}, sessionMW)
	return &testApp{router: router, sessions: sessions, wizard: wiz}
}

func serve(router *gin.Engine, method, path, body string, cookie *http.Cookie) *httptest.ResponseRecorder {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func serveFile(router *gin.Engine, path, filename string, content []byte, cookie *http.Cookie) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, _ := mw.CreateFormFile("file", filename)
	_, _ = part.Write(content)
	_ = mw.Close()

	req := httptest.NewRequest(http.MethodPut, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) wizard.View {
	t.Helper()
	var resp struct {
		Data wizard.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.Data
}

// fillWizard walks the details step of school s1 and submits it
func fillWizard(t *testing.T, router *gin.Engine, cookie *http.Cookie) wizard.View {
	t.Helper()
	steps := []struct{ method, path, body string }{
		{http.MethodPost, "/school/s1/wizard", ""},
		{http.MethodPut, "/school/s1/wizard/college", `{"collegeId":"c1"}`},
		{http.MethodPut, "/school/s1/wizard/department", `{"departmentId":"d1"}`},
		{http.MethodPut, "/school/s1/wizard/supervisor", `{"supervisorId":"sup1"}`},
		{http.MethodPut, "/school/s1/wizard/details", `{"title":"Thesis","year":"2024"}`},
		{http.MethodPost, "/school/s1/wizard/details/submit", ""},
	}
	var rec *httptest.ResponseRecorder
	for _, step := range steps {
		rec = serve(router, step.method, step.path, step.body, cookie)
		require.Equal(t, http.StatusOK, rec.Code, "%s %s: %s", step.method, step.path, rec.Body.String())
	}
	return decodeView(t, rec)
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == cookieName && c.Value != "" {
			return c
		}
	}
	t.Fatalf("response did not set %s", cookieName)
	return nil
}

func login(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	rec := serve(router, http.MethodPost, "/auth/login", `{"email":"ada@bells.edu","password":"secret"}`, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data dto.AuthResult `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "/school/s1/college", resp.Data.Redirect)
	assert.Equal(t, "u1", resp.Data.User.ID)

	return sessionCookie(t, rec)
}

func TestProtectedPagesRedirectToLogin(t *testing.T) {
	router := newTestRouter(t, newFakeBackend(t).server.URL)

	for _, path := range []string{"/school/s1", "/school/s1/college", "/school/s1/wizard"} {
		rec := serve(router, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusFound, rec.Code, path)
		assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"), path)
	}
}

func TestLoginThenBrowseColleges(t *testing.T) {
	backend := newFakeBackend(t)
	router := newTestRouter(t, backend.server.URL)
	cookie := login(t, router)

	rec := serve(router, http.MethodGet, "/school/s1/college", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Bearer backend-token", backend.lastAuth.Load())

	var resp struct {
		Data struct {
			Session dto.SessionSummary `json:"session"`
			View    views.CollegeList  `json:"view"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "Bells University", resp.Data.Session.SchoolName)
	require.Len(t, resp.Data.View.Colleges, 2)
	assert.Equal(t, 2, resp.Data.View.Colleges[0].DepartmentCount)
	assert.Equal(t, 7, resp.Data.View.Colleges[0].ProjectCount)
	assert.Equal(t, 0, resp.Data.View.Colleges[1].ProjectCount)

	rec = serve(router, http.MethodGet, "/school/s1/college?q=law", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Data.View.Colleges, 1)
	assert.Equal(t, "c2", resp.Data.View.Colleges[0].ID)
}

func TestSignedInUsersSkipTheLoginPage(t *testing.T) {
	router := newTestRouter(t, newFakeBackend(t).server.URL)
	cookie := login(t, router)

	rec := serve(router, http.MethodGet, "/auth/login", "", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, "/school/s1/college", rec.Header().Get("Location"))
}

func TestLoginWithWrongPasswordShowsBackendMessage(t *testing.T) {
	router := newTestRouter(t, newFakeBackend(t).server.URL)

	rec := serve(router, http.MethodPost, "/auth/login", `{"email":"ada@bells.edu","password":"nope"}`, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "Invalid email or password")
	for _, c := range rec.Result().Cookies() {
		assert.Empty(t, c.Value)
	}
}

func TestBackendUnauthorizedEndsTheSession(t *testing.T) {
	backend := newFakeBackend(t)
	router := newTestRouter(t, backend.server.URL)
	cookie := login(t, router)

	backend.revoked.Store(true)
	rec := serve(router, http.MethodGet, "/school/s1/college", "", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"))

	backend.revoked.Store(false)
	rec = serve(router, http.MethodGet, "/school/s1/college", "", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
	assert.Equal(t, middleware.LoginPath, rec.Header().Get("Location"))
}

func TestLogoutClearsTheSession(t *testing.T) {
	router := newTestRouter(t, newFakeBackend(t).server.URL)
	cookie := login(t, router)

	rec := serve(router, http.MethodPost, "/auth/logout", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), middleware.LoginPath)

	rec = serve(router, http.MethodGet, "/school/s1/college", "", cookie)
	assert.Equal(t, http.StatusFound, rec.Code)
}

func TestOpenWizardLoadsColleges(t *testing.T) {
	router := newTestRouter(t, newFakeBackend(t).server.URL)
	cookie := login(t, router)

	rec := serve(router, http.MethodPost, "/school/s1/wizard", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data wizard.View `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, wizard.StepDetails, resp.Data.Step)
	assert.Len(t, resp.Data.Options.Colleges, 2)
}

func TestHealthAndNotFound(t *testing.T) {
	router := newTestRouter(t, newFakeBackend(t).server.URL)

	rec := serve(router, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok","store":"memory"}`, rec.Body.String())

	rec = serve(router, http.MethodGet, "/nowhere", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestBackendUnauthorizedDropsTheWizard(t *testing.T) {
	backend := newFakeBackend(t)
	app := newTestApp(t, backend.server.URL)
	cookie := login(t, app.router)

	rec := serve(app.router, http.MethodPost, "/school/s1/wizard", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, app.wizard.Sessions(), 1)

	backend.revoked.Store(true)
	rec = serve(app.router, http.MethodGet, "/school/s1/college", "", cookie)
	require.Equal(t, http.StatusFound, rec.Code)

	assert.Empty(t, app.wizard.Sessions())
}

func TestWizardFileSelection(t *testing.T) {
	router := newTestRouter(t, newFakeBackend(t).server.URL)
	cookie := login(t, router)

	view := fillWizard(t, router, cookie)
	require.Equal(t, wizard.StepFile, view.Step)
	assert.Equal(t, "p9", view.ProjectID)

	rec := serveFile(router, "/school/s1/wizard/file", "thesis.pdf", []byte("%PDF-1.4\n%test document\n"), cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	view = decodeView(t, rec)
	require.NotNil(t, view.File)
	assert.Equal(t, "thesis.pdf", view.File.Filename)
	assert.Equal(t, "application/pdf", view.File.Mimetype)
	assert.True(t, view.CanUpload)

	rec = serveFile(router, "/school/s1/wizard/file", "notes.txt", []byte("just some plain text"), cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Only PDF, DOC, or DOCX files are allowed")

	oversized := make([]byte, 20*1024*1024+1)
	copy(oversized, "%PDF-1.4\n")
	rec = serveFile(router, "/school/s1/wizard/file", "huge.pdf", oversized, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	view = decodeView(t, rec)
	assert.Equal(t, "File size exceeds 20MB limit", view.Error)
	require.NotNil(t, view.File)
	assert.Equal(t, "thesis.pdf", view.File.Filename)

	rec = serve(router, http.MethodPut, "/school/s1/wizard/file", "", cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestWizardRejectsAnotherSchool(t *testing.T) {
	router := newTestRouter(t, newFakeBackend(t).server.URL)
	cookie := login(t, router)

	rec := serve(router, http.MethodPost, "/school/s1/wizard", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(router, http.MethodPut, "/school/s2/wizard/college", `{"collegeId":"c1"}`, cookie)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "open for another school")

	rec = serve(router, http.MethodGet, "/school/s1/wizard", "", cookie)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeView(t, rec).Form.CollegeID)
}

func TestEditPanelRoundTrip(t *testing.T) {
	backend := newFakeBackend(t)
	router := newTestRouter(t, backend.server.URL)
	cookie := login(t, router)
	path := "/school/s1/college/c1/department/d1/project/p1/edit"

	rec := serve(router, http.MethodGet, path, "", cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	var panel struct {
		Data wizard.EditPanel `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &panel))
	assert.Equal(t, "p1", panel.Data.ProjectID)
	assert.Equal(t, "Old title", panel.Data.Form.Title)
	assert.Equal(t, "sup1", panel.Data.Form.Supervisor.ID)
	assert.Len(t, panel.Data.Options.Colleges, 2)

	rec = serve(router, http.MethodPut, path, `{"title":"   ","year":"2024"}`, cookie)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, backend.lastUpdate.Load())

	rec = serve(router, http.MethodPut, path, `{"title":"New title","year":"2024"}`, cookie)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Contains(t, rec.Body.String(), `"reload":true`)

	sent, ok := backend.lastUpdate.Load().(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "New title", sent["title"])
	assert.Equal(t, "sup1", sent["supervisorId"])
}
