package entries

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/vitalcal/internal/cli"
	"github.com/julianstephens/vitalcal/internal/config"
	"github.com/julianstephens/vitalcal/internal/constants"
	"github.com/julianstephens/vitalcal/internal/entrysync"
)

type journal struct {
	mu    sync.Mutex
	saved map[string]url.Values
}

func setup(t *testing.T, token string) (*cli.Context, *journal, *bytes.Buffer) {
	t.Helper()
	gokeyring.MockInit()

	j := &journal{saved: map[string]url.Values{}}
	r := mux.NewRouter()
	r.HandleFunc("/entries/{date}/", func(w http.ResponseWriter, req *http.Request) {
		j.mu.Lock()
		defer j.mu.Unlock()
		form, ok := j.saved[mux.Vars(req)["date"]]
		if !ok {
			_, _ = w.Write([]byte(`{"blood_pressure": "", "glucose_level": null}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{
			"blood_pressure": form.Get("blood_pressure"),
			"glucose_level":  form.Get("glucose_level"),
		})
	}).Methods(http.MethodGet)
	r.HandleFunc("/save-entry/{date}/", func(w http.ResponseWriter, req *http.Request) {
		j.mu.Lock()
		defer j.mu.Unlock()
		if err := req.ParseForm(); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		if req.PostForm.Get(constants.DefaultTokenField) == "" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		j.saved[mux.Vars(req)["date"]] = req.PostForm
	}).Methods(http.MethodPost)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	cfg := &config.Config{
		Server:  config.ServerConfig{URL: srv.URL, Timeout: time.Second, RequestRate: 100, RequestBurst: 10},
		Auth:    config.AuthConfig{Token: token, TokenField: constants.DefaultTokenField},
		Display: config.DisplayConfig{Locale: "en_US", Timezone: "UTC"},
	}
	client, err := cli.NewClient(cfg)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Config: cfg,
		Client: client,
		Out:    out,
		Now:    func() time.Time { return time.Date(2024, time.October, 15, 9, 0, 0, 0, time.UTC) },
	}
	return ctx, j, out
}

func (j *journal) count() int {
	j.mu.Lock()
	defer j.mu.Unlock()
	return len(j.saved)
}

func TestEntrySaveThenGet(t *testing.T) {
	ctx, j, out := setup(t, "abc123")

	save := &EntrySaveCmd{Date: "2024-10-03", BloodPressure: " 120/80 ", Glucose: "5.4"}
	require.NoError(t, save.Run(ctx))
	assert.Contains(t, out.String(), "Entry saved for 2024-10-03")
	assert.Equal(t, 1, j.count())

	out.Reset()
	get := &EntryGetCmd{Date: "2024-10-03"}
	require.NoError(t, get.Run(ctx))
	assert.Contains(t, out.String(), "Blood pressure: 120/80")
	assert.Contains(t, out.String(), "Glucose level:  5.4")

	out.Reset()
	getJSON := &EntryGetCmd{Date: "2024-10-03", JSON: true}
	require.NoError(t, getJSON.Run(ctx))
	var entry entrysync.Entry
	require.NoError(t, json.Unmarshal(out.Bytes(), &entry))
	assert.Equal(t, "120/80", entry.BloodPressure)
	assert.Equal(t, entrysync.GlucoseLevel("5.4"), entry.GlucoseLevel)
}

func TestEntryGetEmptyDay(t *testing.T) {
	ctx, _, out := setup(t, "abc123")

	require.NoError(t, (&EntryGetCmd{}).Run(ctx))
	assert.Contains(t, out.String(), "Date:           2024-10-15")
	assert.Contains(t, out.String(), "Blood pressure: -")
}

func TestEntrySaveInvalidBloodPressure(t *testing.T) {
	ctx, j, _ := setup(t, "abc123")

	err := (&EntrySaveCmd{BloodPressure: "120-80"}).Run(ctx)
	var verr *entrysync.ValidationError
	require.True(t, errors.As(err, &verr), "want ValidationError, got %v", err)
	assert.Equal(t, 0, j.count())
}

func TestEntrySaveMissingToken(t *testing.T) {
	ctx, j, _ := setup(t, "")

	err := (&EntrySaveCmd{BloodPressure: "120/80"}).Run(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, entrysync.ErrMissingToken)
	assert.Equal(t, 0, j.count())
}

func TestResolveDate(t *testing.T) {
	ctx, _, _ := setup(t, "")

	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{name: "empty is today", in: "", want: "2024-10-15"},
		{name: "today keyword", in: "today", want: "2024-10-15"},
		{name: "past day", in: "2024-02-29", want: "2024-02-29"},
		{name: "future day", in: "2024-10-16", wantErr: true},
		{name: "bad format", in: "2024-2-29", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveDate(ctx, tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
