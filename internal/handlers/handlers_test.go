package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/petermazzocco/murmur-api/internal/auth"
	"github.com/petermazzocco/murmur-api/internal/media"
	"github.com/petermazzocco/murmur-api/internal/service"
	"github.com/petermazzocco/murmur-api/internal/store/storetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	t      *testing.T
	router http.Handler
}

func newTestAPI(t *testing.T) *testAPI {
	svc := service.New(storetest.New(t), media.InlineStore{}, service.WithHashCost(bcrypt.MinCost))
	h := New(svc, auth.NewSessions(strings.Repeat("k", 32), false))
	return &testAPI{t: t, router: h.Router(0)}
}

type response struct {
	*httptest.ResponseRecorder
	body map[string]any
}

func (a *testAPI) do(method, target string, caller uint, body any) response {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(a.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	if caller != 0 {
		req.Header.Set("X-User-ID", fmt.Sprint(caller))
	}
	return a.serve(req)
}

func (a *testAPI) serve(req *http.Request) response {
	a.t.Helper()
	rr := httptest.NewRecorder()
	a.router.ServeHTTP(rr, req)
	res := response{ResponseRecorder: rr}
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		require.NoError(a.t, json.Unmarshal(rr.Body.Bytes(), &res.body), rr.Body.String())
	}
	return res
}

func (a *testAPI) register(name, username string) uint {
	a.t.Helper()
	res := a.do(http.MethodPost, "/api/auth/register", 0, map[string]any{
		"name": name, "username": username, "email": username + "@x.com", "password": "pw-" + username,
	})
	require.Equal(a.t, http.StatusCreated, res.Code, res.Body.String())
	user := res.body["user"].(map[string]any)
	return uint(user["id"].(float64))
}

func (a *testAPI) post(author uint, content string) uint {
	a.t.Helper()
	res := a.do(http.MethodPost, "/api/me/murmurs", author, map[string]any{"content": content})
	require.Equal(a.t, http.StatusCreated, res.Code, res.Body.String())
	return uint(res.body["murmur"].(map[string]any)["id"].(float64))
}

func murmurContents(body map[string]any) []string {
	var out []string
	for _, m := range body["murmurs"].([]any) {
		out = append(out, m.(map[string]any)["content"].(string))
	}
	return out
}

func TestRegisterHidesPassword(t *testing.T) {
	api := newTestAPI(t)
	res := api.do(http.MethodPost, "/api/auth/register", 0, map[string]any{
		"name": "Ann", "username": "ann", "email": "ann@x.com", "password": "pw1",
	})
	require.Equal(t, http.StatusCreated, res.Code)
	assert.NotContains(t, res.Body.String(), "password")
	assert.NotContains(t, res.Body.String(), "pw1")

	res = api.do(http.MethodPost, "/api/auth/register", 0, map[string]any{
		"name": "Ann", "username": "ann", "email": "other@x.com", "password": "pw1",
	})
	assert.Equal(t, http.StatusConflict, res.Code)
	assert.Equal(t, "Username already taken", res.body["error"])
}

func TestLoginSessionDrivesTimeline(t *testing.T) {
	api := newTestAPI(t)
	ann := api.register("Ann", "ann")
	bob := api.register("Bob", "bob")

	res := api.do(http.MethodPost, "/api/users/"+fmt.Sprint(ann)+"/follow", bob, nil)
	require.Equal(t, http.StatusCreated, res.Code, res.Body.String())
	assert.Equal(t, float64(1), res.body["followers_count"])
	api.post(ann, "hello")

	res = api.do(http.MethodPost, "/api/auth/login", 0, map[string]any{"email": "bob@x.com", "password": "pw-bob"})
	require.Equal(t, http.StatusOK, res.Code)
	cookies := res.Result().Cookies()
	require.NotEmpty(t, cookies)

	req := httptest.NewRequest(http.MethodGet, "/api/timeline", nil)
	for _, c := range cookies {
		req.AddCookie(c)
	}
	res = api.serve(req)
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Equal(t, []string{"hello"}, murmurContents(res.body))
	assert.Equal(t, float64(1), res.body["total"])
	assert.Equal(t, float64(1), res.body["pages"])
	assert.Equal(t, float64(1), res.body["current_page"])

	res = api.do(http.MethodPost, "/api/auth/login", 0, map[string]any{"email": "bob@x.com", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestTimelineRequiresCaller(t *testing.T) {
	api := newTestAPI(t)
	res := api.do(http.MethodGet, "/api/timeline", 0, nil)
	assert.Equal(t, http.StatusUnauthorized, res.Code)

	ann := api.register("Ann", "ann")
	api.post(ann, "mine")
	res = api.do(http.MethodGet, "/api/timeline?user_id="+fmt.Sprint(ann), 0, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []string{"mine"}, murmurContents(res.body))
}

func TestMurmurLifecycle(t *testing.T) {
	api := newTestAPI(t)
	ann := api.register("Ann", "ann")
	bob := api.register("Bob", "bob")
	id := api.post(ann, "hello")
	path := "/api/murmurs/" + fmt.Sprint(id)

	res := api.do(http.MethodPost, "/api/me/murmurs", ann, map[string]any{"content": strings.Repeat("x", 281)})
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = api.do(http.MethodDelete, path+"/unlike", bob, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = api.do(http.MethodPost, path+"/like", bob, nil)
	require.Equal(t, http.StatusCreated, res.Code)
	assert.Equal(t, float64(1), res.body["likes_count"])

	res = api.do(http.MethodPost, path+"/like", bob, nil)
	assert.Equal(t, http.StatusConflict, res.Code)

	res = api.do(http.MethodGet, path, bob, nil)
	require.Equal(t, http.StatusOK, res.Code)
	murmur := res.body["murmur"].(map[string]any)
	assert.Equal(t, float64(1), murmur["likes_count"])
	assert.Equal(t, true, murmur["liked_by_me"])
	assert.Equal(t, "ann", murmur["author"].(map[string]any)["username"])

	res = api.do(http.MethodDelete, "/api/me/murmurs/"+fmt.Sprint(id), bob, nil)
	assert.Equal(t, http.StatusForbidden, res.Code)

	res = api.do(http.MethodDelete, "/api/me/murmurs/"+fmt.Sprint(id), ann, nil)
	assert.Equal(t, http.StatusOK, res.Code)

	res = api.do(http.MethodGet, path, 0, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)

	res = api.do(http.MethodGet, "/api/murmurs/abc", 0, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func TestFeedsAndPaging(t *testing.T) {
	api := newTestAPI(t)
	ann := api.register("Ann", "ann")
	for _, c := range []string{"a", "b", "c"} {
		api.post(ann, c)
	}

	res := api.do(http.MethodGet, "/api/murmurs?page=1&per_page=2", 0, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []string{"c", "b"}, murmurContents(res.body))
	assert.Equal(t, float64(2), res.body["pages"])

	res = api.do(http.MethodGet, "/api/murmurs?page=5", 0, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Empty(t, res.body["murmurs"])

	res = api.do(http.MethodGet, "/api/murmurs?page=x", 0, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = api.do(http.MethodGet, "/api/users/"+fmt.Sprint(ann)+"/murmurs", 0, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, []string{"c", "b", "a"}, murmurContents(res.body))
	assert.Equal(t, "ann", res.body["user"].(map[string]any)["username"])

	res = api.do(http.MethodGet, "/api/users/999/murmurs", 0, nil)
	assert.Equal(t, http.StatusNotFound, res.Code)
}

func TestProfileAndSearch(t *testing.T) {
	api := newTestAPI(t)
	ann := api.register("Ann", "ann")
	bob := api.register("Bob", "bob")
	api.do(http.MethodPost, "/api/users/"+fmt.Sprint(ann)+"/follow", bob, nil)

	res := api.do(http.MethodGet, "/api/users/"+fmt.Sprint(ann), 0, nil)
	require.Equal(t, http.StatusOK, res.Code)
	user := res.body["user"].(map[string]any)
	assert.Equal(t, float64(1), user["followers_count"])
	assert.Equal(t, float64(0), user["murmurs_count"])
	assert.NotContains(t, user, "password_hash")

	res = api.do(http.MethodGet, "/api/users/search?q=ANN", 0, nil)
	require.Equal(t, http.StatusOK, res.Code)
	users := res.body["users"].([]any)
	require.Len(t, users, 1)
	assert.Equal(t, "ann", users[0].(map[string]any)["username"])
	assert.Equal(t, "ANN", res.body["query"])

	res = api.do(http.MethodGet, "/api/users/search", 0, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = api.do(http.MethodGet, "/api/users/"+fmt.Sprint(ann)+"/followers", 0, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Len(t, res.body["followers"], 1)

	res = api.do(http.MethodPut, "/api/me/profile", ann, map[string]any{"username": "bob"})
	assert.Equal(t, http.StatusConflict, res.Code)

	res = api.do(http.MethodPut, "/api/me/profile", ann, map[string]any{"bio": "hey"})
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, "hey", res.body["user"].(map[string]any)["bio"])

	res = api.do(http.MethodDelete, "/api/users/"+fmt.Sprint(ann)+"/unfollow", bob, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Equal(t, float64(0), res.body["followers_count"])

	res = api.do(http.MethodDelete, "/api/users/"+fmt.Sprint(ann)+"/unfollow", bob, nil)
	assert.Equal(t, http.StatusBadRequest, res.Code)
}

func uploadRequest(t *testing.T, filename string, data []byte, userID uint) *http.Request {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("user_id", fmt.Sprint(userID)))
	fw, err := mw.CreateFormFile("profile_image", filename)
	require.NoError(t, err)
	_, err = fw.Write(data)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/me/profile/upload-image", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func TestUploadProfileImage(t *testing.T) {
	api := newTestAPI(t)
	ann := api.register("Ann", "ann")

	res := api.serve(uploadRequest(t, "me.gif", []byte("GIF89a"), ann))
	require.Equal(t, http.StatusOK, res.Code, res.Body.String())
	assert.Equal(t, "data:image/gif;base64,R0lGODlh", res.body["profile_image_url"])

	res = api.serve(uploadRequest(t, "me.txt", []byte("hello"), ann))
	assert.Equal(t, http.StatusBadRequest, res.Code)

	res = api.serve(uploadRequest(t, "me.png", []byte("x"), 0))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}

func TestMetricsEndpoint(t *testing.T) {
	api := newTestAPI(t)
	api.do(http.MethodGet, "/api/murmurs", 0, nil)

	res := api.do(http.MethodGet, "/metrics", 0, nil)
	require.Equal(t, http.StatusOK, res.Code)
	assert.Contains(t, res.Body.String(), `murmur_http_requests_total{route="/api/murmurs",method="GET",status="200"}`)
}

func withCookies(req *http.Request, cookies []*http.Cookie) *http.Request {
	for _, c := range cookies {
		req.AddCookie(c)
	}
	return req
}

func TestLogoutClearsSession(t *testing.T) {
	api := newTestAPI(t)
	api.register("Ann", "ann")

	res := api.do(http.MethodPost, "/api/auth/login", 0, map[string]any{"email": "ann@x.com", "password": "pw-ann"})
	require.Equal(t, http.StatusOK, res.Code)
	session := res.Result().Cookies()
	require.NotEmpty(t, session)

	res = api.serve(withCookies(httptest.NewRequest(http.MethodGet, "/api/timeline", nil), session))
	require.Equal(t, http.StatusOK, res.Code)

	res = api.serve(withCookies(httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil), session))
	require.Equal(t, http.StatusOK, res.Code)
	cleared := res.Result().Cookies()
	require.NotEmpty(t, cleared)
	assert.Negative(t, cleared[0].MaxAge)

	res = api.serve(withCookies(httptest.NewRequest(http.MethodGet, "/api/timeline", nil), cleared))
	assert.Equal(t, http.StatusUnauthorized, res.Code)
}
