package handlers_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/dom/diary-service/internal/api/handlers"
	"github.com/dom/diary-service/internal/domain"
	"github.com/dom/diary-service/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiaryHandler_Create(t *testing.T) {
	ts := testutil.NewTestServer(t)
	_, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	tests := []struct {
		name           string
		request        map[string]interface{}
		expectedStatus int
		checkResponse  func(*testing.T, *http.Response)
	}{
		{
			name:           "successful creation",
			request:        map[string]interface{}{"title": "월요일", "content": "비가 왔다.", "mood": "sad"},
			expectedStatus: http.StatusCreated,
			checkResponse: func(t *testing.T, resp *http.Response) {
				var raw map[string]interface{}
				testutil.AssertJSONResponse(t, resp, &raw)
				assert.Equal(t, "월요일", raw["title"])
				assert.Equal(t, "sad", raw["mood"])
				assert.Nil(t, raw["emotion"])
				assert.Nil(t, raw["emotion_summary"])
				assert.Equal(t, []interface{}{}, raw["emotion_keywords"])
				assert.NotEmpty(t, raw["id"])
			},
		},
		{
			name:           "missing title",
			request:        map[string]interface{}{"content": "text", "mood": "happy"},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "unknown mood",
			request:        map[string]interface{}{"title": "t", "content": "c", "mood": "joyful"},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/diaries"), tt.request, token))
			defer resp.Body.Close()

			assert.Equal(t, tt.expectedStatus, resp.StatusCode)
			if tt.checkResponse != nil {
				tt.checkResponse(t, resp)
			}
		})
	}

	t.Run("requires authentication", func(t *testing.T) {
		resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPost, ts.APIURL("/diaries"),
			map[string]interface{}{"title": "t", "content": "c", "mood": "happy"}, ""))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestDiaryHandler_ListAndGet(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	stranger, strangerToken := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)

	first := testutil.NewDiaryBuilder(user).WithTitle("first").Build(t, ts.DB.DB)
	second := testutil.NewDiaryBuilder(user).WithTitle("second").Build(t, ts.DB.DB)
	testutil.NewDiaryBuilder(stranger).WithTitle("not mine").Build(t, ts.DB.DB)

	tag := testutil.NewTagBuilder().WithName("daily").Build(t, ts.DB.DB)
	testutil.LinkTag(t, ts.DB.DB, second, tag)

	list := func(t *testing.T, query string) []domain.Diary {
		resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/diaries"+query), nil, token))
		defer resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var diaries []domain.Diary
		testutil.AssertJSONResponse(t, resp, &diaries)
		return diaries
	}

	t.Run("latest first", func(t *testing.T) {
		diaries := list(t, "")
		require.Len(t, diaries, 2)
		assert.Equal(t, second.ID, diaries[0].ID)
		assert.Equal(t, first.ID, diaries[1].ID)
	})

	t.Run("oldest first", func(t *testing.T) {
		diaries := list(t, "?sort=Oldest")
		require.Len(t, diaries, 2)
		assert.Equal(t, first.ID, diaries[0].ID)
	})

	t.Run("by tag", func(t *testing.T) {
		diaries := list(t, "?tag=daily")
		require.Len(t, diaries, 1)
		assert.Equal(t, second.ID, diaries[0].ID)
	})

	t.Run("invalid sort", func(t *testing.T) {
		resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/diaries?sort=random"), nil, token))
		defer resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("get own diary", func(t *testing.T) {
		resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/diaries/"+first.ID.String()), nil, token))
		defer resp.Body.Close()
		var got domain.Diary
		testutil.AssertJSONResponse(t, resp, &got)
		assert.Equal(t, "first", got.Title)
	})

	notFound := []struct {
		name  string
		path  string
		token string
	}{
		{name: "another user's diary", path: "/diaries/" + first.ID.String(), token: strangerToken},
		{name: "unknown id", path: "/diaries/" + uuid.NewString(), token: token},
		{name: "malformed id", path: "/diaries/not-a-uuid", token: token},
	}
	for _, tt := range notFound {
		t.Run(tt.name, func(t *testing.T) {
			resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL(tt.path), nil, tt.token))
			defer resp.Body.Close()
			testutil.AssertErrorResponse(t, resp, http.StatusNotFound, "diary not found")
		})
	}
}

func TestDiaryHandler_UpdateAndDelete(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	diary := testutil.NewDiaryBuilder(user).WithTitle("before").WithContent("keep me").Build(t, ts.DB.DB)
	path := ts.APIURL("/diaries/" + diary.ID.String())

	resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPatch, path, map[string]string{"title": "after"}, token))
	var updated domain.Diary
	testutil.AssertJSONResponse(t, resp, &updated)
	resp.Body.Close()
	assert.Equal(t, "after", updated.Title)
	assert.Equal(t, "keep me", updated.Content)

	resp = do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPatch, path, map[string]string{"mood": "bored"}, token))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, testutil.CreateAuthenticatedRequest(t, http.MethodDelete, path, nil, token))
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, testutil.CreateAuthenticatedRequest(t, http.MethodDelete, path, nil, token))
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDiaryHandler_Summarize(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	diary := testutil.NewDiaryBuilder(user).Build(t, ts.DB.DB)
	path := ts.APIURL("/diaries/" + diary.ID.String() + "/summarize")

	ts.Generator.Reply("친구와 산책한 좋은 하루.")
	resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPost, path, nil, token))
	var summary handlers.SummaryResponse
	testutil.AssertJSONResponse(t, resp, &summary)
	resp.Body.Close()
	assert.Equal(t, "친구와 산책한 좋은 하루.", summary.Summary)

	resp = do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, ts.APIURL("/diaries/"+diary.ID.String()), nil, token))
	var stored domain.Diary
	testutil.AssertJSONResponse(t, resp, &stored)
	resp.Body.Close()
	assert.Equal(t, "친구와 산책한 좋은 하루.", stored.Summary())

	t.Run("generator failure is a bad gateway", func(t *testing.T) {
		ts.Generator.Fail(errors.New("upstream exploded with secrets"))
		resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPost, path, nil, token))
		defer resp.Body.Close()
		testutil.AssertErrorResponse(t, resp, http.StatusBadGateway, "External service error")
	})
}

func TestDiaryHandler_Analyze(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	diary := testutil.NewDiaryBuilder(user).Build(t, ts.DB.DB)

	for _, route := range []string{"/analyze", "/emotion_stats"} {
		t.Run(route, func(t *testing.T) {
			path := ts.APIURL("/diaries/" + diary.ID.String() + route)

			ts.Generator.Reply(`{"keywords": [{"word": "산책", "emotion": "긍정"}, {"word": "비", "emotion": "부정"}, {"word": "친구", "emotion": "긍정"}]}`)
			resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPost, path, nil, token))
			var result handlers.AnalyzeResponse
			testutil.AssertJSONResponse(t, resp, &result)
			resp.Body.Close()

			require.NotNil(t, result.Diary)
			require.NotNil(t, result.Emotion)
			assert.Equal(t, domain.EmotionPositive, *result.Emotion)
			assert.Len(t, result.EmotionKeywords, 3)
			assert.Nil(t, result.AnalysisError)
		})
	}

	t.Run("unparseable output", func(t *testing.T) {
		path := ts.APIURL("/diaries/" + diary.ID.String() + "/analyze")

		ts.Generator.Reply("not json at all")
		resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPost, path, nil, token))
		var raw map[string]interface{}
		testutil.AssertJSONResponse(t, resp, &raw)
		resp.Body.Close()

		assert.Nil(t, raw["emotion"])
		assert.Equal(t, []interface{}{}, raw["emotion_keywords"])
		assert.Equal(t, map[string]interface{}{
			"error":    "json_parse_error",
			"raw_text": "not json at all",
		}, raw["analysis_error"])
	})
}

func TestDiaryHandler_Tags(t *testing.T) {
	ts := testutil.NewTestServer(t)
	user, token := testutil.NewUserBuilder().BuildAndAuthenticate(t, ts)
	diary := testutil.NewDiaryBuilder(user).Build(t, ts.DB.DB)
	tag := testutil.NewTagBuilder().WithName("family").Build(t, ts.DB.DB)
	base := ts.APIURL("/diaries/" + diary.ID.String() + "/tags")

	resp := do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPost, base, map[string]string{"tag_id": tag.ID.String()}, token))
	var tags []domain.Tag
	testutil.AssertJSONResponse(t, resp, &tags)
	resp.Body.Close()
	require.Len(t, tags, 1)
	assert.Equal(t, "family", tags[0].Name)

	resp = do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPost, base, map[string]string{}, token))
	resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = do(t, testutil.CreateAuthenticatedRequest(t, http.MethodPost, base, map[string]string{"tag_id": uuid.NewString()}, token))
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	resp = do(t, testutil.CreateAuthenticatedRequest(t, http.MethodGet, base, nil, token))
	testutil.AssertJSONResponse(t, resp, &tags)
	resp.Body.Close()
	assert.Len(t, tags, 1)

	resp = do(t, testutil.CreateAuthenticatedRequest(t, http.MethodDelete, base+"/"+tag.ID.String(), nil, token))
	resp.Body.Close()
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = do(t, testutil.CreateAuthenticatedRequest(t, http.MethodDelete, base+"/"+tag.ID.String(), nil, token))
	resp.Body.Close()
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}
