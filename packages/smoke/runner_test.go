package smoke

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRunner(baseURL string) (*Runner, *bytes.Buffer) {
	var buf bytes.Buffer
	r := NewRunner(baseURL, WithWriter(&buf))
	return r, &buf
}

func TestExecuteCase_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "GET", r.Method)
		assert.Equal(t, "/api/properties", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[{"id":"p-1","title":"Flat"}]`))
	}))
	defer server.Close()

	r, _ := newTestRunner(server.URL)
	ok, body := r.ExecuteCase(&Case{
		Name:           "Get All Properties",
		Method:         "GET",
		Endpoint:       "properties",
		ExpectedStatus: 200,
	})

	assert.True(t, ok)
	assert.Contains(t, string(body), "p-1")
	assert.Equal(t, 1, r.TestsRun())
	assert.Equal(t, 1, r.TestsPassed())

	require.Len(t, r.Results(), 1)
	res := r.Results()[0]
	assert.True(t, res.Success)
	assert.Equal(t, 200, res.ActualStatus)
	assert.Equal(t, "200", res.StatusLabel())
	assert.Equal(t, "OK", res.Preview)
}

func TestExecuteCase_EmptyEndpointHitsAPIRoot(t *testing.T) {
	var gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"message":"HomeShare API"}`))
	}))
	defer server.Close()

	r, _ := newTestRunner(server.URL)
	ok, _ := r.ExecuteCase(&Case{Name: "Root API", Method: "GET", ExpectedStatus: 200})

	assert.True(t, ok)
	assert.Equal(t, "/api", gotPath)
}

func TestExecuteCase_StatusMismatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"should-not-exist"}`))
	}))
	defer server.Close()

	r, _ := newTestRunner(server.URL)
	ok, body := r.ExecuteCase(&Case{
		Name:           "Get Non-existent Property",
		Method:         "GET",
		Endpoint:       "properties/" + NonexistentID,
		ExpectedStatus: 404,
	})

	assert.False(t, ok)
	assert.Nil(t, body)
	assert.Equal(t, 1, r.TestsRun())
	assert.Equal(t, 0, r.TestsPassed())

	res := r.Results()[0]
	assert.False(t, res.Success)
	assert.Equal(t, 200, res.ActualStatus)
	assert.Contains(t, res.Preview, "should-not-exist")
}

func TestExecuteCase_SuccessIffStatusMatches(t *testing.T) {
	// Success must track expected vs actual, not HTTP-level success:
	// a 404 is a pass when 404 was expected.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Property not found"}`))
	}))
	defer server.Close()

	r, _ := newTestRunner(server.URL)
	ok, _ := r.ExecuteCase(&Case{
		Name:           "Get Non-existent Property",
		Method:         "GET",
		Endpoint:       "properties/" + NonexistentID,
		ExpectedStatus: 404,
	})

	assert.True(t, ok)
	assert.True(t, r.Results()[0].Success)
}

func TestExecuteCase_TransportError(t *testing.T) {
	// Point at a server that is already closed.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close()

	r, _ := newTestRunner(server.URL)
	ok, body := r.ExecuteCase(&Case{Name: "Root API", Method: "GET", ExpectedStatus: 200})

	assert.False(t, ok)
	assert.Nil(t, body)
	assert.Equal(t, 1, r.TestsRun())
	assert.Equal(t, 0, r.TestsPassed())

	res := r.Results()[0]
	assert.False(t, res.Success)
	assert.Error(t, res.Err)
	assert.Equal(t, ErrorStatus, res.StatusLabel())
	assert.NotEmpty(t, res.Preview)
}

func TestExecuteCase_TransportErrorDoesNotAbortRun(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	r, _ := newTestRunner(dead.URL)
	r.ExecuteCase(&Case{Name: "Root API", Method: "GET", ExpectedStatus: 200})
	r.ExecuteCase(&Case{Name: "Get All Properties", Method: "GET", Endpoint: "properties", ExpectedStatus: 200})

	assert.Equal(t, 2, r.TestsRun())
	assert.Len(t, r.Results(), 2)
}

func TestExecuteCase_QueryParams(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Mumbai", r.URL.Query().Get("city"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`[]`))
	}))
	defer server.Close()

	r, _ := newTestRunner(server.URL)
	ok, _ := r.ExecuteCase(&Case{
		Name:           "Get Properties with City Filter",
		Method:         "GET",
		Endpoint:       "properties",
		ExpectedStatus: 200,
		Query:          map[string]string{"city": "Mumbai", "limit": "5"},
	})

	assert.True(t, ok)
}

func TestExecuteCase_PostBody(t *testing.T) {
	var received PropertyPayload
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"new"}`))
	}))
	defer server.Close()

	r, _ := newTestRunner(server.URL)
	ok, _ := r.ExecuteCase(&Case{
		Name:           "Create Property",
		Method:         "POST",
		Endpoint:       "properties",
		ExpectedStatus: 200,
		Body:           DefaultPropertyPayload(),
	})

	assert.True(t, ok)
	assert.Equal(t, "Test Property", received.Title)
	assert.Equal(t, float64(2000), received.PricePerNight)
	assert.Equal(t, "Test City", received.Location.City)
	assert.Equal(t, []string{"WiFi", "AC"}, received.Amenities)
}

func TestExecuteCase_PreviewTruncation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(strings.Repeat("e", 1000)))
	}))
	defer server.Close()

	r, _ := newTestRunner(server.URL)
	r.ExecuteCase(&Case{Name: "Create Property", Method: "POST", Endpoint: "properties", ExpectedStatus: 200})

	res := r.Results()[0]
	assert.LessOrEqual(t, len(res.Preview), PreviewMaxLen+3)
	assert.True(t, strings.HasSuffix(res.Preview, "..."))
}

func TestRunner_PassedNeverExceedsRun(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api" {
			w.WriteHeader(http.StatusOK)
		} else {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer server.Close()

	r, _ := newTestRunner(server.URL)
	r.ExecuteCase(&Case{Name: "Root API", Method: "GET", ExpectedStatus: 200})
	r.ExecuteCase(&Case{Name: "Get All Properties", Method: "GET", Endpoint: "properties", ExpectedStatus: 200})

	assert.LessOrEqual(t, r.TestsPassed(), r.TestsRun())
	assert.Equal(t, 2, r.TestsRun())
	assert.Equal(t, 1, r.TestsPassed())
}

func TestDefaultPropertyPayload(t *testing.T) {
	p := DefaultPropertyPayload()
	data, err := json.Marshal(p)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"price_per_night":2000`)
	assert.Contains(t, string(data), `"host_name":"Test Host"`)
	assert.Contains(t, string(data), `"pincode":"123456"`)
}
