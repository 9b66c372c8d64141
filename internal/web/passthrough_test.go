package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo-app/internal/domain"
)

func apiRequest(method, target, body string) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func TestAPI_Database(t *testing.T) {
	env := setupTestServer(t, `{"tasks":[{"id":1,"title":"a"}],"notes":[]}`)

	rec := env.do(t, apiRequest(http.MethodGet, "/api/db", ""))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"tasks":[{"id":1,"title":"a"}],"notes":[]}`, rec.Body.String())
}

func TestAPI_GetResource(t *testing.T) {
	env := setupTestServer(t, `{"tasks":[{"id":1,"title":"a"}]}`)

	rec := env.do(t, apiRequest(http.MethodGet, "/api/tasks", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[{"id":1,"title":"a"}]`, rec.Body.String())

	rec = env.do(t, apiRequest(http.MethodGet, "/api/missing", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_GetItem(t *testing.T) {
	env := setupTestServer(t, `{"tasks":[{"id":1,"title":"a"},{"id":2,"title":"b"}],"tags":[{"id":"urgent"}]}`)

	rec := env.do(t, apiRequest(http.MethodGet, "/api/tasks/2", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":2,"title":"b"}`, rec.Body.String())

	rec = env.do(t, apiRequest(http.MethodGet, "/api/tags/urgent", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":"urgent"}`, rec.Body.String())

	rec = env.do(t, apiRequest(http.MethodGet, "/api/tasks/3", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_InvalidResourceName(t *testing.T) {
	env := setupTestServer(t, `{"tasks":[]}`)

	rec := env.do(t, apiRequest(http.MethodGet, "/api/bad.name", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
}

func TestAPI_CreateItem(t *testing.T) {
	env := setupTestServer(t, `{"tasks":[{"id":1,"title":"a"}]}`)

	rec := env.do(t, apiRequest(http.MethodPost, "/api/notes", `{"text":"first"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":1,"text":"first"}`, rec.Body.String())

	rec = env.do(t, apiRequest(http.MethodPost, "/api/notes", `{"text":"second"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":2,"text":"second"}`, rec.Body.String())

	rec = env.do(t, apiRequest(http.MethodGet, "/api/notes", ""))
	assert.JSONEq(t, `[{"id":1,"text":"first"},{"id":2,"text":"second"}]`, rec.Body.String())

	// the task collection is carried through untouched
	assert.Equal(t, []domain.Task{{ID: 1, Title: "a"}}, env.tasks(t))
}

func TestAPI_CreateItem_LargestIDAtLimit(t *testing.T) {
	env := setupTestServer(t, `{"notes":[{"id":9223372036854775807},{"id":1}]}`)

	rec := env.do(t, apiRequest(http.MethodPost, "/api/notes", `{"text":"a"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":2,"text":"a"}`, rec.Body.String())

	rec = env.do(t, apiRequest(http.MethodPost, "/api/notes", `{"text":"b"}`))
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"id":3,"text":"b"}`, rec.Body.String())
}

func TestAPI_CreateItem_DuplicateID(t *testing.T) {
	env := setupTestServer(t, `{"notes":[{"id":5}],"tasks":[]}`)

	rec := env.do(t, apiRequest(http.MethodPost, "/api/notes", `{"id":5}`))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_CreateItem_BadBody(t *testing.T) {
	env := setupTestServer(t, `{"tasks":[]}`)

	for _, body := range []string{`not json`, `[1,2]`, `null`} {
		rec := env.do(t, apiRequest(http.MethodPost, "/api/notes", body))
		assert.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestAPI_CreateItem_IntoTasksIsVisibleToPages(t *testing.T) {
	env := setupTestServer(t, `{"tasks":[{"id":7,"title":"a"}]}`)

	rec := env.do(t, apiRequest(http.MethodPost, "/api/tasks", `{"title":"via api","status":"todo"}`))
	require.Equal(t, http.StatusCreated, rec.Code)

	tasks := env.tasks(t)
	require.Len(t, tasks, 2)
	assert.Equal(t, domain.Task{ID: 8, Title: "via api", Status: "todo"}, tasks[1])
}

func TestAPI_ReplaceItem(t *testing.T) {
	env := setupTestServer(t, `{"notes":[{"id":1,"text":"old","pinned":true}],"tasks":[]}`)

	rec := env.do(t, apiRequest(http.MethodPut, "/api/notes/1", `{"id":99,"text":"new"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"text":"new"}`, rec.Body.String())

	rec = env.do(t, apiRequest(http.MethodPut, "/api/notes/2", `{"text":"x"}`))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_PatchItem(t *testing.T) {
	env := setupTestServer(t, `{"notes":[{"id":1,"text":"old","pinned":true}],"tasks":[]}`)

	rec := env.do(t, apiRequest(http.MethodPatch, "/api/notes/1", `{"text":"new"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"id":1,"text":"new","pinned":true}`, rec.Body.String())
}

func TestAPI_DeleteItem(t *testing.T) {
	env := setupTestServer(t, `{"notes":[{"id":1},{"id":2}],"tasks":[]}`)

	rec := env.do(t, apiRequest(http.MethodDelete, "/api/notes/1", ""))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	rec = env.do(t, apiRequest(http.MethodGet, "/api/notes", ""))
	assert.JSONEq(t, `[{"id":2}]`, rec.Body.String())

	rec = env.do(t, apiRequest(http.MethodDelete, "/api/notes/1", ""))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAPI_ItemAccessOnNonCollection(t *testing.T) {
	env := setupTestServer(t, `{"profile":{"name":"me"},"tasks":[]}`)

	rec := env.do(t, apiRequest(http.MethodGet, "/api/profile/1", ""))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_StorageErrorHidesPath(t *testing.T) {
	env := setupTestServer(t, "")

	rec := env.do(t, apiRequest(http.MethodGet, "/api/db", ""))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "STORAGE_READ_ERROR", body["code"])
	assert.NotContains(t, rec.Body.String(), env.path)
}

func TestAPI_WritesAreOrderedWithTaskWrites(t *testing.T) {
	env := setupTestServer(t, `{"tasks":[]}`)
	const writers = 15

	var wg sync.WaitGroup
	for i := 0; i < writers; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			rec := env.do(t, postForm(url.Values{"title": {"page"}}))
			assert.Equal(t, http.StatusFound, rec.Code)
		}()
		go func() {
			defer wg.Done()
			rec := env.do(t, apiRequest(http.MethodPost, "/api/notes", `{"text":"api"}`))
			assert.Equal(t, http.StatusCreated, rec.Code)
		}()
	}
	wg.Wait()

	assert.Len(t, env.tasks(t), writers)

	doc, err := env.store.ReadDocument(context.Background())
	require.NoError(t, err)
	raw, ok := doc.Field("notes")
	require.True(t, ok)
	var notes []map[string]any
	require.NoError(t, json.Unmarshal(raw, &notes))
	assert.Len(t, notes, writers)
}

func TestIDKey(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
	}{
		{`1`, "1"},
		{`1717171717171`, "1717171717171"},
		{`"abc"`, "abc"},
		{`true`, "true"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.expected, idKey(json.RawMessage(tt.raw)))
		})
	}
}
