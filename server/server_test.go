package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/poiesic/skillmatch/ai"
	"github.com/poiesic/skillmatch/core"
	"github.com/poiesic/skillmatch/index"
	"github.com/poiesic/skillmatch/indexer"
	"github.com/poiesic/skillmatch/ingestion"
	"github.com/poiesic/skillmatch/search"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeService implements Service with injectable funcs.
type fakeService struct {
	IngestFunc           func(ctx context.Context, content string) (*ingestion.IngestResult, error)
	ExtractFieldsFunc    func(ctx context.Context) (*ingestion.Result, error)
	ExtractKeySkillsFunc func(ctx context.Context) (*ingestion.Result, error)
	BuildIndexFunc       func(ctx context.Context) (*indexer.Result, error)
	FindMatchesFunc      func(ctx context.Context, query string, topK int) ([]core.Match, error)
	stats                index.Stats
}

func (f *fakeService) Ingest(ctx context.Context, content string) (*ingestion.IngestResult, error) {
	if f.IngestFunc != nil {
		return f.IngestFunc(ctx, content)
	}
	return &ingestion.IngestResult{Resume: &core.Resume{Id: "r1", Content: content}}, nil
}

func (f *fakeService) ExtractFields(ctx context.Context) (*ingestion.Result, error) {
	if f.ExtractFieldsFunc != nil {
		return f.ExtractFieldsFunc(ctx)
	}
	return &ingestion.Result{}, nil
}

func (f *fakeService) ExtractKeySkills(ctx context.Context) (*ingestion.Result, error) {
	if f.ExtractKeySkillsFunc != nil {
		return f.ExtractKeySkillsFunc(ctx)
	}
	return &ingestion.Result{}, nil
}

func (f *fakeService) BuildIndex(ctx context.Context) (*indexer.Result, error) {
	if f.BuildIndexFunc != nil {
		return f.BuildIndexFunc(ctx)
	}
	return &indexer.Result{}, nil
}

func (f *fakeService) FindMatches(ctx context.Context, query string, topK int) ([]core.Match, error) {
	if f.FindMatchesFunc != nil {
		return f.FindMatchesFunc(ctx, query, topK)
	}
	return nil, nil
}

func (f *fakeService) IndexStats() index.Stats {
	return f.stats
}

func newServer(t *testing.T, svc Service, opts ...Option) *Server {
	t.Helper()
	s, err := New(svc, opts...)
	require.NoError(t, err)
	return s
}

func do(t *testing.T, s *Server, req *http.Request) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), rec.Body.String())
	return rec, body
}

func TestNew(t *testing.T) {
	_, err := New(nil)
	assert.ErrorIs(t, err, ErrServiceRequired)

	_, err = New(&fakeService{}, WithDefaultTopK(0))
	assert.ErrorIs(t, err, ErrInvalidTopK)

	_, err = New(&fakeService{}, WithMaxUploadSize(0))
	assert.Error(t, err)
}

func TestSearch(t *testing.T) {
	var gotQuery string
	var gotTopK int
	svc := &fakeService{
		FindMatchesFunc: func(ctx context.Context, query string, topK int) ([]core.Match, error) {
			gotQuery, gotTopK = query, topK
			return []core.Match{{Id: "c1", Name: "Alice", Email: "a@example.com", MatchedSkill: "python", Score: 91.2}}, nil
		},
	}
	s := newServer(t, svc)

	rec, body := do(t, s, httptest.NewRequest(http.MethodGet, "/search?query=python+developer&top_k=3", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "python developer", gotQuery)
	assert.Equal(t, 3, gotTopK)

	matches := body["matches"].([]any)
	require.Len(t, matches, 1)
	assert.Equal(t, map[string]any{
		"id":            "c1",
		"name":          "Alice",
		"email":         "a@example.com",
		"matched_skill": "python",
		"score":         91.2,
	}, matches[0])
}

func TestSearch_DefaultTopK(t *testing.T) {
	var gotTopK int
	svc := &fakeService{
		FindMatchesFunc: func(ctx context.Context, query string, topK int) ([]core.Match, error) {
			gotTopK = topK
			return nil, nil
		},
	}

	rec, body := do(t, newServer(t, svc), httptest.NewRequest(http.MethodGet, "/search?query=go", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, DefaultTopK, gotTopK)
	assert.Equal(t, []any{}, body["matches"])

	_, _ = do(t, newServer(t, svc, WithDefaultTopK(4)), httptest.NewRequest(http.MethodGet, "/search?query=go", nil))
	assert.Equal(t, 4, gotTopK)
}

func TestSearch_BadTopK(t *testing.T) {
	s := newServer(t, &fakeService{})
	for _, raw := range []string{"0", "-1", "ten"} {
		t.Run(raw, func(t *testing.T) {
			rec, body := do(t, s, httptest.NewRequest(http.MethodGet, "/search?query=go&top_k="+raw, nil))
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, ErrInvalidTopK.Error(), body["message"])
		})
	}
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{index.ErrIndexNotBuilt, http.StatusConflict},
		{search.ErrEmptyQuery, http.StatusBadRequest},
		{fmt.Errorf("%w: timeout", ai.ErrEmbedding), http.StatusBadGateway},
		{errors.New("disk full"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			svc := &fakeService{
				FindMatchesFunc: func(ctx context.Context, query string, topK int) ([]core.Match, error) {
					return nil, tt.err
				},
			}
			rec, body := do(t, newServer(t, svc), httptest.NewRequest(http.MethodGet, "/search?query=go", nil))
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.err.Error(), body["message"])
		})
	}
}

func TestSearch_NotBuiltMessage(t *testing.T) {
	svc := &fakeService{
		FindMatchesFunc: func(ctx context.Context, query string, topK int) ([]core.Match, error) {
			return nil, index.ErrIndexNotBuilt
		},
	}
	_, body := do(t, newServer(t, svc), httptest.NewRequest(http.MethodGet, "/search?query=go", nil))
	assert.Contains(t, body["message"], "build the index first")
}

func TestBuildIndex(t *testing.T) {
	svc := &fakeService{
		BuildIndexFunc: func(ctx context.Context) (*indexer.Result, error) {
			return &indexer.Result{Indexed: 3}, nil
		},
	}
	rec, body := do(t, newServer(t, svc), httptest.NewRequest(http.MethodPost, "/build-index", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Index built with 3 profiles", body["message"])

	svc.BuildIndexFunc = func(ctx context.Context) (*indexer.Result, error) {
		return nil, fmt.Errorf("%w: connection refused", ai.ErrEmbedding)
	}
	rec, body = do(t, newServer(t, svc), httptest.NewRequest(http.MethodPost, "/build-index", nil))
	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Contains(t, body["message"], "connection refused")
}

func TestUploadResume_RawBody(t *testing.T) {
	var got string
	svc := &fakeService{
		IngestFunc: func(ctx context.Context, content string) (*ingestion.IngestResult, error) {
			got = content
			return &ingestion.IngestResult{Resume: &core.Resume{Id: "r1"}}, nil
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/upload-resume", strings.NewReader("Alice\nSkills: Go"))
	req.Header.Set("Content-Type", "text/plain")

	rec, body := do(t, newServer(t, svc), req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice\nSkills: Go", got)
	assert.Equal(t, "r1", body["id"])
	assert.Equal(t, false, body["duplicate"])
}

func multipartRequest(t *testing.T, filename, content string) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload-resume", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadResume_Multipart(t *testing.T) {
	var got string
	svc := &fakeService{
		IngestFunc: func(ctx context.Context, content string) (*ingestion.IngestResult, error) {
			got = content
			return &ingestion.IngestResult{Resume: &core.Resume{Id: "r1"}, Duplicate: true}, nil
		},
	}
	s := newServer(t, svc)

	rec, body := do(t, s, multipartRequest(t, "alice.txt", "Alice Smith"))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Alice Smith", got)
	assert.Equal(t, true, body["duplicate"])
	assert.Equal(t, "Resume already uploaded", body["message"])

	rec, _ = do(t, s, multipartRequest(t, "alice.pdf", "%PDF-1.7"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadResume_TooLarge(t *testing.T) {
	s := newServer(t, &fakeService{}, WithMaxUploadSize(8))
	req := httptest.NewRequest(http.MethodPost, "/upload-resume", strings.NewReader("far more than eight bytes"))
	req.Header.Set("Content-Type", "text/plain")

	rec, _ := do(t, s, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUploadResume_Blank(t *testing.T) {
	svc := &fakeService{
		IngestFunc: func(ctx context.Context, content string) (*ingestion.IngestResult, error) {
			return nil, fmt.Errorf("%w: %w", core.ErrInvalidResume, core.ErrEmptyContent)
		},
	}
	req := httptest.NewRequest(http.MethodPost, "/upload-resume", strings.NewReader(" "))
	rec, _ := do(t, newServer(t, svc), req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExtractEndpoints(t *testing.T) {
	svc := &fakeService{
		ExtractFieldsFunc: func(ctx context.Context) (*ingestion.Result, error) {
			return &ingestion.Result{Pending: 2, Saved: 1, Skipped: 1}, nil
		},
		ExtractKeySkillsFunc: func(ctx context.Context) (*ingestion.Result, error) {
			return &ingestion.Result{Pending: 1, Saved: 1}, nil
		},
	}
	s := newServer(t, svc)

	rec, body := do(t, s, httptest.NewRequest(http.MethodPost, "/extract-fields", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["saved"])
	assert.EqualValues(t, 1, body["skipped"])

	rec, body = do(t, s, httptest.NewRequest(http.MethodPost, "/extract-key-skills", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, body["saved"])

	svc.ExtractFieldsFunc = func(ctx context.Context) (*ingestion.Result, error) {
		return nil, ingestion.ErrNoResumes
	}
	rec, _ = do(t, s, httptest.NewRequest(http.MethodPost, "/extract-fields", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestIndexStats(t *testing.T) {
	svc := &fakeService{stats: index.Stats{Built: true, Size: 2, Dimension: 64}}
	rec, body := do(t, newServer(t, svc), httptest.NewRequest(http.MethodGet, "/index", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["built"])
	assert.EqualValues(t, 2, body["size"])
	assert.EqualValues(t, 64, body["dimension"])
	assert.Contains(t, body, "built_at")
}
