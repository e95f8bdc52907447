package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"sync"
	"testing"

	"doctor-survey-targeting/predictions/models"
	"doctor-survey-targeting/predictions/repositories"
	"doctor-survey-targeting/predictions/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testView = "6f1c2b9e-3d4a-4e5f-8a7b-9c0d1e2f3a4b"

type fakePredictor struct {
	mu      sync.Mutex
	calls   []string
	doctors []models.DoctorRecommendation
	err     error
}

func (f *fakePredictor) Predict(_ context.Context, timeOfDay string) ([]models.DoctorRecommendation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, timeOfDay)
	return f.doctors, f.err
}

func setupApp(p *fakePredictor) *fiber.App {
	app := fiber.New()
	o := services.NewPredictionOrchestrator(p, repositories.NewMemoryViewStateRepository(), nil)
	PredictionRouterInit(app, o)
	return app
}

func doctors(t *testing.T, body string) []models.DoctorRecommendation {
	t.Helper()
	var out []models.DoctorRecommendation
	require.NoError(t, json.Unmarshal([]byte(body), &out))
	return out
}

func readBody(t *testing.T, r io.Reader) string {
	t.Helper()
	b, err := io.ReadAll(r)
	require.NoError(t, err)
	return string(b)
}

func postForm(t *testing.T, app *fiber.App, path string, values url.Values) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res.StatusCode, readBody(t, res.Body)
}

func TestIndex_MintsNewViewEachTime(t *testing.T) {
	app := setupApp(&fakePredictor{})
	actionRe := regexp.MustCompile(`action="/views/([0-9a-f-]{36})/predict"`)

	viewOf := func() string {
		res, err := app.Test(httptest.NewRequest("GET", "/", nil), -1)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, res.StatusCode)
		assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
		m := actionRe.FindStringSubmatch(readBody(t, res.Body))
		require.Len(t, m, 2)
		return m[1]
	}

	assert.NotEqual(t, viewOf(), viewOf())
}

func TestSubmitForm_Success(t *testing.T) {
	p := &fakePredictor{doctors: doctors(t, `[{"npi":"1","specialty":"Cardiology","region":"West","likelihood_score":85}]`)}
	app := setupApp(p)

	status, html := postForm(t, app, "/views/"+testView+"/predict", url.Values{"time": {"14:30"}})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, []string{"14:30"}, p.calls)
	assert.Contains(t, html, "<td>Cardiology</td>")
	assert.Contains(t, html, "bg-success")
	assert.NotContains(t, html, "alert-danger")
}

func TestSubmitForm_EmptyTimeNeverCallsService(t *testing.T) {
	p := &fakePredictor{}
	app := setupApp(p)

	status, _ := postForm(t, app, "/views/"+testView+"/predict", url.Values{"time": {""}})
	assert.Equal(t, fiber.StatusOK, status)
	assert.Empty(t, p.calls)
}

func TestSubmitForm_ErrorShownAndResultsKept(t *testing.T) {
	p := &fakePredictor{doctors: doctors(t, `[{"npi":"1","specialty":"Cardiology","region":"West","likelihood_score":85}]`)}
	app := setupApp(p)
	postForm(t, app, "/views/"+testView+"/predict", url.Values{"time": {"14:30"}})

	p.doctors, p.err = nil, &services.PredictionError{Message: "no match"}
	_, html := postForm(t, app, "/views/"+testView+"/predict", url.Values{"time": {"15:00"}})

	assert.Contains(t, html, `role="alert">no match</div>`)
	assert.Contains(t, html, "<td>Cardiology</td>")
}

func TestInvalidViewID(t *testing.T) {
	app := setupApp(&fakePredictor{})

	res, err := app.Test(httptest.NewRequest("GET", "/api/views/abc/state", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.JSONEq(t, `{"error":"Invalid view ID"}`, readBody(t, res.Body))
}

func TestApi_StateOfUnknownView(t *testing.T) {
	app := setupApp(&fakePredictor{})

	res, err := app.Test(httptest.NewRequest("GET", "/api/views/"+testView+"/state", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"results":[],"loading":false,"error":null}`, readBody(t, res.Body))
}

func TestApi_CreatePrediction(t *testing.T) {
	p := &fakePredictor{doctors: doctors(t, `[{"npi":"1","specialty":"Cardiology","region":"West","likelihood_score":85}]`)}
	app := setupApp(p)

	req := httptest.NewRequest("POST", "/api/views/"+testView+"/predictions", bytes.NewReader([]byte(`{"time":"14:30"}`)))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.JSONEq(t,
		`{"results":[{"npi":"1","specialty":"Cardiology","region":"West","likelihood_score":85}],"loading":false,"error":null}`,
		readBody(t, res.Body))
}

func TestApi_CreatePredictionFailure(t *testing.T) {
	app := setupApp(&fakePredictor{err: services.ErrFetchFailed})

	req := httptest.NewRequest("POST", "/api/views/"+testView+"/predictions", bytes.NewReader([]byte(`{"time":"14:30"}`)))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.JSONEq(t, `{"results":[],"loading":false,"error":"Failed to fetch predictions"}`, readBody(t, res.Body))
}

func TestApi_CreatePredictionRequiresTime(t *testing.T) {
	p := &fakePredictor{}
	app := setupApp(p)

	req := httptest.NewRequest("POST", "/api/views/"+testView+"/predictions", bytes.NewReader([]byte(`{}`)))
	req.Header.Set("Content-Type", "application/json")
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	assert.Empty(t, p.calls)
}

func TestExportCsv_EmptyIsNoContent(t *testing.T) {
	app := setupApp(&fakePredictor{})

	res, err := app.Test(httptest.NewRequest("GET", "/views/"+testView+"/export.csv", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, res.StatusCode)
	assert.Empty(t, res.Header.Get("Content-Disposition"))
	assert.Empty(t, readBody(t, res.Body))
}

func TestExportCsv_Download(t *testing.T) {
	p := &fakePredictor{doctors: doctors(t, `[{"a":1,"b":2},{"a":3,"b":4}]`)}
	app := setupApp(p)
	postForm(t, app, "/views/"+testView+"/predict", url.Values{"time": {"14:30"}})

	res, err := app.Test(httptest.NewRequest("GET", "/views/"+testView+"/export.csv", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/csv")
	assert.Regexp(t, `^attachment; filename="doctor_predictions_\d{4}-\d{2}-\d{2}\.csv"$`, res.Header.Get("Content-Disposition"))
	assert.Equal(t, "a,b\n1,2\n3,4", readBody(t, res.Body))
}

func TestExportExcel(t *testing.T) {
	p := &fakePredictor{doctors: doctors(t, `[{"npi":"1","likelihood_score":85}]`)}
	app := setupApp(p)

	res, err := app.Test(httptest.NewRequest("GET", "/views/"+testView+"/export.xlsx", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNoContent, res.StatusCode)

	postForm(t, app, "/views/"+testView+"/predict", url.Values{"time": {"14:30"}})
	res, err = app.Test(httptest.NewRequest("GET", "/views/"+testView+"/export.xlsx", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Regexp(t, `doctor_predictions_\d{4}-\d{2}-\d{2}\.xlsx`, res.Header.Get("Content-Disposition"))
	assert.NotEmpty(t, readBody(t, res.Body))
}

func TestRenderView_ShowsStoredState(t *testing.T) {
	p := &fakePredictor{doctors: doctors(t, `[{"npi":"77","specialty":"Oncology","region":"South","likelihood_score":10}]`)}
	app := setupApp(p)
	postForm(t, app, "/views/"+testView+"/predict", url.Values{"time": {"08:00"}})

	res, err := app.Test(httptest.NewRequest("GET", "/views/"+testView, nil), -1)
	require.NoError(t, err)
	html := readBody(t, res.Body)
	assert.Contains(t, html, "<td>77</td>")
	assert.Contains(t, html, "bg-danger")
}

func TestHealthz(t *testing.T) {
	res, err := setupApp(&fakePredictor{}).Test(httptest.NewRequest("GET", "/healthz", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}
