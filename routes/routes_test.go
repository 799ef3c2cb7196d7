package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/taskboard-api/config"
	"github.com/taskboard-api/database"
	"github.com/taskboard-api/models"
	"github.com/taskboard-api/repositories"
	"gorm.io/gorm"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type testApp struct {
	t      *testing.T
	db     *gorm.DB
	router *gin.Engine
}

func setupTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := database.OpenMemory(context.Background(), t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })

	cfg := &config.Config{
		AppEnv:             "test",
		JWTSecret:          "test-secret",
		AccessTokenTTL:     time.Minute,
		RefreshTokenTTL:    time.Hour,
		MediaRoot:          t.TempDir(),
		CORSAllowedOrigins: "*",
	}
	return &testApp{t: t, db: db, router: SetupRouter(cfg, db, prometheus.NewRegistry())}
}

func (a *testApp) do(method, path, token string, body any) *httptest.ResponseRecorder {
	a.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(a.t, err)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

// register creates an account and returns its id and access token
func (a *testApp) register(username, role string) (uint, string) {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/register/", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "secret123",
		"role":     role,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	user := decode[map[string]any](a.t, w)

	w = a.do(http.MethodPost, "/api/token/", "", map[string]string{"username": username, "password": "secret123"})
	require.Equal(a.t, http.StatusOK, w.Code, w.Body.String())
	tokens := decode[map[string]string](a.t, w)
	return uint(user["id"].(float64)), tokens["access"]
}

func (a *testApp) createProject(token, name string) map[string]any {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/project/", token, map[string]any{"name": name, "start_date": "2024-01-01"})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](a.t, w)
}

func (a *testApp) createTask(token string, projectID any, name string) map[string]any {
	a.t.Helper()
	w := a.do(http.MethodPost, "/api/task/", token, map[string]any{
		"name":       name,
		"start_date": "2024-01-02",
		"project":    projectID,
	})
	require.Equal(a.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](a.t, w)
}

func id(v map[string]any) int {
	return int(v["id"].(float64))
}

func TestDependencyScenario(t *testing.T) {
	app := setupTestApp(t)
	_, token := app.register("pm", "project_manager")

	p := app.createProject(token, "P")
	a := app.createTask(token, p["id"], "A")
	b := app.createTask(token, p["id"], "B")
	assert.Nil(t, a["assigned_user"])
	assert.EqualValues(t, 2, a["priority"])

	addPath := fmt.Sprintf("/api/task/%d/add_dependency/?dependentOnTaskId=%d", id(a), id(b))
	w := app.do(http.MethodPost, addPath, token, nil)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"message":"Dependency added successfully"}`, w.Body.String())

	w = app.do(http.MethodPost, addPath, token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Dependency already exists"}`, w.Body.String())

	w = app.do(http.MethodGet, fmt.Sprintf("/api/task/%d/", id(a)), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail := decode[map[string]any](t, w)
	assert.Equal(t, []any{float64(id(b))}, detail["dependencies"])

	w = app.do(http.MethodPost, fmt.Sprintf("/api/task/%d/add_dependency/?dependentOnTaskId=%d", id(a), id(a)), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"A task cannot depend on itself"}`, w.Body.String())

	w = app.do(http.MethodDelete, fmt.Sprintf("/api/task/%d/remove_dependency/?dependentOnTaskId=%d", id(a), id(b)), token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Dependency removed successfully"}`, w.Body.String())

	w = app.do(http.MethodGet, fmt.Sprintf("/api/task/%d/", id(a)), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	detail = decode[map[string]any](t, w)
	assert.Equal(t, []any{}, detail["dependencies"])
}

func TestDependencyErrors(t *testing.T) {
	app := setupTestApp(t)
	_, token := app.register("pm", "project_manager")
	p := app.createProject(token, "P")
	a := app.createTask(token, p["id"], "A")

	w := app.do(http.MethodPost, fmt.Sprintf("/api/task/%d/add_dependency/", id(a)), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"dependentOnTaskId parameter is required"}`, w.Body.String())

	w = app.do(http.MethodPost, "/api/task/9999/add_dependency/?dependentOnTaskId=9999", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code, "self-dependency wins over a missing task")

	w = app.do(http.MethodPost, fmt.Sprintf("/api/task/%d/add_dependency/?dependentOnTaskId=9999", id(a)), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Dependent task not found"}`, w.Body.String())

	w = app.do(http.MethodDelete, fmt.Sprintf("/api/task/%d/remove_dependency/?dependentOnTaskId=9999", id(a)), token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"error":"Dependency not found"}`, w.Body.String())

	w = app.do(http.MethodDelete, fmt.Sprintf("/api/task/%d/remove_dependency/", id(a)), token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var edges int64
	require.NoError(t, app.db.Model(&models.TaskDependency{}).Count(&edges).Error)
	assert.Zero(t, edges)

	w = app.do(http.MethodGet, "/api/task/dependencies/", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[]`, w.Body.String())
}

func TestAuthFlow(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(http.MethodGet, "/api/project/", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodPost, "/api/register/", "", map[string]string{"username": "ada"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]any](t, w), "password")

	uid, token := app.register("ada", "developer")

	w = app.do(http.MethodPost, "/api/register/", "", map[string]string{"username": "ada", "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]any](t, w), "username")

	w = app.do(http.MethodPost, "/api/token/", "", map[string]string{"username": "ada", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"detail":"No active account found with the given credentials"}`, w.Body.String())

	w = app.do(http.MethodGet, "/api/users/me/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	me := decode[map[string]any](t, w)
	assert.EqualValues(t, uid, me["id"])
	assert.Equal(t, map[string]any{"role": "developer", "profile_picture": nil}, me["profile"])
	assert.NotContains(t, me, "password")

	w = app.do(http.MethodPost, "/api/token/", "", map[string]string{"username": "ada", "password": "secret123"})
	tokens := decode[map[string]string](t, w)
	w = app.do(http.MethodPost, "/api/token/refresh/", "", map[string]string{"refresh": tokens["refresh"]})
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, decode[map[string]string](t, w)["access"])

	w = app.do(http.MethodPost, "/api/token/refresh/", "", map[string]string{"refresh": tokens["access"]})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = app.do(http.MethodGet, "/api/users/me/", tokens["refresh"], nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUsersEndpoints(t *testing.T) {
	app := setupTestApp(t)
	uid, token := app.register("ada", "developer")
	app.register("bob", "developer")

	w := app.do(http.MethodGet, "/api/users/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	users := decode[[]map[string]any](t, w)
	require.Len(t, users, 2)
	assert.Equal(t, "ada", users[0]["username"])

	w = app.do(http.MethodGet, fmt.Sprintf("/api/users/%d/", uid), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ada@example.com", decode[map[string]any](t, w)["email"])

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/api/users/999/", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, "/api/users/abc/", token, nil).Code)

	w = app.do(http.MethodPost, "/api/users/change_password/", token, map[string]string{
		"old_password": "wrong", "new_password": "another1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"Wrong password"}`, w.Body.String())

	w = app.do(http.MethodPost, "/api/users/change_password/", token, map[string]string{
		"old_password": "secret123", "new_password": "another1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	w = app.do(http.MethodPost, "/api/token/", "", map[string]string{"username": "ada", "password": "another1"})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateProfileMultipart(t *testing.T) {
	app := setupTestApp(t)
	_, token := app.register("ada", "developer")

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("first_name", "Ada"))
	require.NoError(t, mw.WriteField("role", "project_manager"))
	part, err := mw.CreateFormFile("profile_picture", "me.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPatch, "/api/users/update_profile/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	profile := decode[map[string]any](t, w)
	assert.Equal(t, "developer", profile["role"], "role cannot be changed by the user")
	assert.Equal(t, "Ada", profile["user"].(map[string]any)["first_name"])
	picture, _ := profile["profile_picture"].(string)
	assert.True(t, strings.HasPrefix(picture, "/media/profile_pictures/"), picture)

	w = app.do(http.MethodGet, picture, "", nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodPatch, "/api/users/update_profile/", token, map[string]string{"email": "broken"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]any](t, w), "email")
}

func TestProjectAuthorization(t *testing.T) {
	app := setupTestApp(t)
	_, pmToken := app.register("pm", "project_manager")
	devID, devToken := app.register("dev", "developer")

	w := app.do(http.MethodPost, "/api/project/", devToken, map[string]any{"name": "X", "start_date": "2024-01-01"})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"detail":"You do not have permission to perform this action."}`, w.Body.String())

	w = app.do(http.MethodPost, "/api/project/", pmToken, map[string]any{"start_date": "01/01/2024"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, map[string][]string{
		"name":       {"This field is required."},
		"start_date": {dateFormatMessage},
	}, decode[map[string][]string](t, w))

	w = app.do(http.MethodPost, "/api/project/", pmToken, map[string]any{"description": "no name"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode[map[string][]string](t, w)
	assert.Equal(t, []string{"This field is required."}, fields["name"])
	assert.Equal(t, []string{"This field is required."}, fields["start_date"])

	p := app.createProject(pmToken, "Apollo")
	assert.Nil(t, p["end_date"])
	assert.Equal(t, []any{}, p["tasks"])
	code := p["access_code"].(string)
	path := fmt.Sprintf("/api/project/%d/", id(p))

	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, path, devToken, nil).Code)

	w = app.do(http.MethodPost, "/api/project/join/", devToken, map[string]string{"access_code": "nope"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"detail":"Invalid access code"}`, w.Body.String())

	w = app.do(http.MethodPost, "/api/project/join/", devToken, map[string]string{"access_code": code})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"detail":"Successfully joined project: Apollo"}`, w.Body.String())

	w = app.do(http.MethodPost, "/api/project/join/", devToken, map[string]string{"access_code": code})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"detail":"You are already a member of this project"}`, w.Body.String())

	assert.Equal(t, http.StatusOK, app.do(http.MethodGet, path, devToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodPatch, path, devToken, map[string]any{"name": "Mine"}).Code)
	assert.Equal(t, http.StatusForbidden, app.do(http.MethodDelete, path, devToken, nil).Code)

	w = app.do(http.MethodGet, path+"members/", devToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	members := decode[[]map[string]any](t, w)
	require.Len(t, members, 1)
	assert.EqualValues(t, devID, members[0]["user"].(map[string]any)["id"])

	// members may add tasks but only the manager or assignee may change them
	task := app.createTask(devToken, p["id"], "Dev task")
	taskPath := fmt.Sprintf("/api/task/%d/", id(task))
	w = app.do(http.MethodPatch, taskPath, devToken, map[string]any{"is_completed": true})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = app.do(http.MethodPatch, taskPath, pmToken, map[string]any{"assigned_user": devID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assigned := decode[map[string]any](t, w)
	assert.Equal(t, "dev", assigned["assigned_user"].(map[string]any)["username"])
	assert.Equal(t, []any{}, assigned["dependencies"])

	w = app.do(http.MethodPatch, taskPath, devToken, map[string]any{"is_completed": true})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decode[map[string]any](t, w)["is_completed"])

	w = app.do(http.MethodPatch, path, pmToken, map[string]any{"is_completed": true})
	require.Equal(t, http.StatusOK, w.Code)
	updated := decode[map[string]any](t, w)
	assert.Equal(t, true, updated["is_completed"])
	assert.Equal(t, "Apollo", updated["name"])
	assert.Len(t, updated["tasks"], 1)
}

func TestProjectListTaskCountAndCascade(t *testing.T) {
	app := setupTestApp(t)
	_, token := app.register("pm", "project_manager")
	p := app.createProject(token, "Apollo")
	a := app.createTask(token, p["id"], "A")
	b := app.createTask(token, p["id"], "B")
	w := app.do(http.MethodPost, fmt.Sprintf("/api/task/%d/add_dependency/?dependentOnTaskId=%d", id(a), id(b)), token, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	w = app.do(http.MethodGet, "/api/project/", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	list := decode[[]map[string]any](t, w)
	require.Len(t, list, 1)
	assert.EqualValues(t, 2, list[0]["task_count"])
	assert.NotContains(t, list[0], "tasks")

	w = app.do(http.MethodGet, fmt.Sprintf("/api/project/%d/tasks/", id(p)), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 2)

	w = app.do(http.MethodGet, fmt.Sprintf("/api/task/?project=%d", id(p)), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 2)
	assert.Equal(t, http.StatusBadRequest, app.do(http.MethodGet, "/api/task/?project=abc", token, nil).Code)

	w = app.do(http.MethodDelete, fmt.Sprintf("/api/task/%d/", id(b)), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = app.do(http.MethodGet, "/api/project/", token, nil)
	list = decode[[]map[string]any](t, w)
	assert.EqualValues(t, 1, list[0]["task_count"])

	w = app.do(http.MethodDelete, fmt.Sprintf("/api/project/%d/", id(p)), token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	var tasks, edges int64
	require.NoError(t, app.db.Model(&models.Task{}).Count(&tasks).Error)
	require.NoError(t, app.db.Model(&models.TaskDependency{}).Count(&edges).Error)
	assert.Zero(t, tasks)
	assert.Zero(t, edges)
	assert.Equal(t, http.StatusNotFound, app.do(http.MethodGet, fmt.Sprintf("/api/task/%d/", id(a)), token, nil).Code)
}

func TestTaskValidation(t *testing.T) {
	app := setupTestApp(t)
	_, token := app.register("pm", "project_manager")
	p := app.createProject(token, "Apollo")

	w := app.do(http.MethodPost, "/api/task/", token, map[string]any{
		"name": "A", "start_date": "2024-01-01", "project": p["id"], "priority": 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]any](t, w), "priority")

	w = app.do(http.MethodPost, "/api/task/", token, map[string]any{
		"name": "A", "start_date": "2024-01-01", "project": 999,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[map[string]any](t, w), "project")

	w = app.do(http.MethodPost, "/api/task/", token, map[string]any{
		"name": "A", "start_date": "2024-01-01", "project": p["id"], "priority": "high",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"priority":["Incorrect type. Expected integer."]}`, w.Body.String())

	task := app.createTask(token, p["id"], "A")
	w = app.do(http.MethodPut, fmt.Sprintf("/api/task/%d/", id(task)), token, map[string]any{"name": "Renamed"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	fields := decode[map[string][]string](t, w)
	assert.Contains(t, fields, "start_date")
	assert.Contains(t, fields, "project")

	w = app.do(http.MethodPatch, fmt.Sprintf("/api/task/%d/", id(task)), token, map[string]any{"priority": nil})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"This field may not be null."}, decode[map[string][]string](t, w)["priority"])
}

func TestDeletedUserLeavesTaskUnassigned(t *testing.T) {
	app := setupTestApp(t)
	_, pmToken := app.register("pm", "project_manager")
	devID, devToken := app.register("dev", "developer")
	p := app.createProject(pmToken, "Apollo")
	w := app.do(http.MethodPost, "/api/project/join/", devToken, map[string]string{"access_code": p["access_code"].(string)})
	require.Equal(t, http.StatusOK, w.Code)

	w = app.do(http.MethodPost, "/api/task/", pmToken, map[string]any{
		"name": "A", "start_date": "2024-01-01", "project": p["id"], "assigned_user": devID,
	})
	require.Equal(t, http.StatusCreated, w.Code)
	task := decode[map[string]any](t, w)

	require.NoError(t, repositories.NewUserRepository(app.db).Delete(context.Background(), devID))

	w = app.do(http.MethodGet, fmt.Sprintf("/api/task/%d/", id(task)), pmToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Nil(t, decode[map[string]any](t, w)["assigned_user"])

	// the deleted user's token no longer authenticates
	assert.Equal(t, http.StatusUnauthorized, app.do(http.MethodGet, "/api/users/me/", devToken, nil).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(http.MethodGet, "/api/health/", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode[map[string]any](t, w)["database"])
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = app.do(http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "taskboard_http_requests_total")
}

const dateFormatMessage = "Date has wrong format. Use one of these formats instead: YYYY-MM-DD."

func TestMalformedDatesAreFieldErrors(t *testing.T) {
	app := setupTestApp(t)
	_, token := app.register("pm", "project_manager")
	p := app.createProject(token, "Apollo")
	task := app.createTask(token, p["id"], "A")

	for _, bad := range []any{"2024-02-30", 20240101, "01/02/2024"} {
		w := app.do(http.MethodPost, "/api/task/", token, map[string]any{
			"name": "B", "start_date": bad, "project": p["id"],
		})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{dateFormatMessage}, decode[map[string][]string](t, w)["start_date"], "task %v", bad)

		w = app.do(http.MethodPost, "/api/project/", token, map[string]any{"name": "X", "start_date": bad})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, map[string][]string{"start_date": {dateFormatMessage}}, decode[map[string][]string](t, w), "project %v", bad)

		w = app.do(http.MethodPatch, fmt.Sprintf("/api/task/%d/", id(task)), token, map[string]any{"end_date": bad})
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, []string{dateFormatMessage}, decode[map[string][]string](t, w)["end_date"], "task patch %v", bad)
	}

	var projects int64
	require.NoError(t, app.db.Model(&models.Project{}).Count(&projects).Error)
	assert.EqualValues(t, 1, projects)
}

func TestTypeErrorsUseWireTypeNames(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(http.MethodPost, "/api/register/", "", map[string]any{"username": 5, "password": "secret123"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"username":["Incorrect type. Expected string."]}`, w.Body.String())
}

func TestCORSWithoutConfiguredOrigins(t *testing.T) {
	app := setupTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://frontend.test")
	w := httptest.NewRecorder()
	app.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSConfig(t *testing.T) {
	open := corsConfig(&config.Config{CORSAllowedOrigins: "*"})
	assert.True(t, open.AllowAllOrigins)
	assert.False(t, open.AllowCredentials)

	listed := corsConfig(&config.Config{CORSAllowedOrigins: "https://a.test, https://b.test"})
	assert.False(t, listed.AllowAllOrigins)
	assert.True(t, listed.AllowCredentials)
	assert.Equal(t, []string{"https://a.test", "https://b.test"}, listed.AllowOrigins)
}
