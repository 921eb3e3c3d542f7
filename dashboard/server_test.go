package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/narrative"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = "../inventory/testdata/environment_data.json"

type fakeFetcher struct {
	snap *inventory.Snapshot
	err  error
}

func (f fakeFetcher) Fetch(context.Context) (*inventory.Snapshot, error) {
	return f.snap, f.err
}

type fakeNarrator struct{ text string }

func (f fakeNarrator) Generate(_ context.Context, _ *inventory.Snapshot, mode narrative.Mode) (string, error) {
	return f.text, nil
}

// newTestServer copies the fixture into a temp dir and serves it.
func newTestServer(t *testing.T, opts Options) (*Server, *inventory.Store) {
	t.Helper()
	b, err := os.ReadFile(fixture)
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "environment_data.json")
	require.NoError(t, os.WriteFile(path, b, 0644))

	store := inventory.NewStore(path)
	srv, err := New(store, opts)
	require.NoError(t, err)
	return srv, store
}

func do(t *testing.T, h http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestIndex(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rec := do(t, srv.Handler(), http.MethodGet, "/", nil)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "2 subscriptions")
	assert.NotContains(t, rec.Body.String(), "/load-environment", "no fetcher, no button")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))
}

func TestUnknownPath(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	assert.Equal(t, http.StatusNotFound, do(t, srv.Handler(), http.MethodGet, "/nope", nil).Code)
}

func TestRoutes(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()

	get := do(t, h, http.MethodGet, "/routes", nil)
	assert.Equal(t, http.StatusOK, get.Code)
	assert.Contains(t, get.Body.String(), "Spoke Subscription")
	assert.NotContains(t, get.Body.String(), "rt-app")

	post := do(t, h, http.MethodPost, "/routes", url.Values{"subscription": {"sub-spoke"}})
	body := post.Body.String()
	assert.Contains(t, body, "rt-app")
	assert.Contains(t, body, "nsg-web")
	assert.Contains(t, body, "10.0.1.4")
	assert.Contains(t, body, "10.1.0.0/16, 10.2.0.0/16")
}

func TestValidateHubPeerings(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rec := do(t, srv.Handler(), http.MethodPost, "/validate-hub-peerings", url.Values{
		"subscription_id": {"sub-spoke"},
		"vnet_name":       {"vnet-app"},
		"is_hub":          {"on"},
	})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "app-to-hub")
	assert.Contains(t, rec.Body.String(), "hub peering should allow gateway transit")
}

func TestPeeringRole(t *testing.T) {
	assert.Equal(t, inventory.RoleHub, peeringRole(true, true))
	assert.Equal(t, inventory.RoleSpoke, peeringRole(false, true))
	assert.Equal(t, inventory.RoleNone, peeringRole(false, false))
}

func TestInsights(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rec := do(t, srv.Handler(), http.MethodGet, "/insights", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Hub Subscription")
	assert.Contains(t, rec.Body.String(), "Total")
}

func TestAutoValidate(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()

	bad := do(t, h, http.MethodPost, "/auto-validate", url.Values{"subscription_id": {"sub-hub"}, "firewall_ip": {"10.0.1.5"}})
	assert.Contains(t, bad.Body.String(), "default-to-fw")
	assert.Contains(t, bad.Body.String(), "has an incorrect next hop IP address: 10.0.1.4")

	good := do(t, h, http.MethodPost, "/auto-validate", url.Values{"subscription_id": {"sub-hub"}, "firewall_ip": {"10.0.1.4"}})
	assert.Contains(t, good.Body.String(), "No issues found.")

	form := do(t, h, http.MethodGet, "/auto-validate", nil)
	assert.NotContains(t, form.Body.String(), "No issues found.")
}

func TestPrettyJSON(t *testing.T) {
	srv, store := newTestServer(t, Options{})
	h := srv.Handler()

	rec := do(t, h, http.MethodGet, "/pretty-json", nil)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "<pre>{"))

	require.NoError(t, os.WriteFile(store.Path(), []byte("{"), 0644))
	assert.Equal(t, "Error: Invalid JSON data", do(t, h, http.MethodGet, "/pretty-json", nil).Body.String())

	require.NoError(t, os.Remove(store.Path()))
	assert.Equal(t, "Error: JSON file not found", do(t, h, http.MethodGet, "/pretty-json", nil).Body.String())
	assert.Equal(t, "Error: JSON file not found", do(t, h, http.MethodGet, "/download-json", nil).Body.String())
}

func TestDownloadJSON(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	rec := do(t, srv.Handler(), http.MethodGet, "/download-json", nil)
	assert.Equal(t, "attachment; filename=environment_data.json", rec.Header().Get("Content-Disposition"))

	snap, err := inventory.Decode(rec.Body.Bytes())
	require.NoError(t, err)
	assert.Len(t, snap.Subscriptions, 2)
}

func TestReports(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()

	html := do(t, h, http.MethodGet, "/generate-report?firewall_ip=10.0.1.5&hub_subscription=sub-hub", nil)
	assert.Equal(t, http.StatusOK, html.Code)
	assert.Contains(t, html.Body.String(), "Route Issues")
	assert.Contains(t, html.Body.String(), "default-to-fw")

	plain := do(t, h, http.MethodGet, "/generate-report", nil)
	assert.NotContains(t, plain.Body.String(), "Route Issues")

	pdf := do(t, h, http.MethodGet, "/download-report", nil)
	assert.Equal(t, "application/pdf", pdf.Header().Get("Content-Type"))
	assert.Equal(t, "attachment; filename=network_report.pdf", pdf.Header().Get("Content-Disposition"))
	assert.True(t, strings.HasPrefix(pdf.Body.String(), "%PDF"))
}

func TestLoadEnvironment(t *testing.T) {
	fresh := &inventory.Snapshot{Subscriptions: []inventory.Subscription{{ID: "new", DisplayName: "New"}}}
	srv, store := newTestServer(t, Options{Fetcher: fakeFetcher{snap: fresh}})

	rec := do(t, srv.Handler(), http.MethodPost, "/load-environment", url.Values{})
	assert.Contains(t, rec.Body.String(), "Environment data loaded successfully!")
	assert.Same(t, fresh, store.Current())

	onDisk := inventory.Load(store.Path())
	require.Len(t, onDisk.Subscriptions, 1)
	assert.Equal(t, "new", onDisk.Subscriptions[0].ID)
}

func TestLoadEnvironment_Failure(t *testing.T) {
	srv, store := newTestServer(t, Options{Fetcher: fakeFetcher{err: errors.New("az login required")}})
	before := store.Current()

	rec := do(t, srv.Handler(), http.MethodPost, "/load-environment", url.Values{})
	assert.Contains(t, rec.Body.String(), "az login required")
	assert.Same(t, before, store.Current())

	noFetcher, _ := newTestServer(t, Options{})
	rec = do(t, noFetcher.Handler(), http.MethodPost, "/load-environment", url.Values{})
	assert.Contains(t, rec.Body.String(), "Fetching is not configured")
}

func TestNarrative(t *testing.T) {
	dir := t.TempDir()
	srv, _ := newTestServer(t, Options{Narrator: fakeNarrator{text: "```markdown\n# Report\nAll good.\n```"}, NarrativeDir: dir})
	h := srv.Handler()

	rec := do(t, h, http.MethodPost, "/narrative", url.Values{"mode": {"report"}})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "All good.")
	files, err := filepath.Glob(filepath.Join(dir, "report-*.md"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	bad := do(t, h, http.MethodPost, "/narrative", url.Values{"mode": {"poem"}})
	assert.Contains(t, bad.Body.String(), "unknown narrative mode")
}

func TestNarrative_Truncated(t *testing.T) {
	srv, _ := newTestServer(t, Options{Narrator: fakeNarrator{text: "```markdown\n# Report\nThe hub is"}, NarrativeDir: t.TempDir()})
	rec := do(t, srv.Handler(), http.MethodPost, "/narrative", url.Values{"mode": {"opinion"}})
	assert.Contains(t, rec.Body.String(), "narrative-continue")
}

func TestAPI(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()

	var insights struct {
		Insights []inventory.SubscriptionInsight `json:"insights"`
		Totals   inventory.SubscriptionInsight   `json:"totals"`
	}
	rec := do(t, h, http.MethodGet, "/api/insights", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &insights))
	assert.Len(t, insights.Insights, 2)
	assert.Equal(t, 3, insights.Totals.Subnets)

	var issues struct {
		Issues []inventory.Issue `json:"issues"`
	}
	rec = do(t, h, http.MethodGet, "/api/issues?firewall_ip=10.0.1.5&hub_subscription=sub-hub", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issues))
	require.Len(t, issues.Issues, 1)
	assert.Equal(t, "default-to-fw", issues.Issues[0].RouteName)

	rec = do(t, h, http.MethodGet, "/api/issues?firewall_ip=10.0.1.4", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &issues))
	assert.Empty(t, issues.Issues)
}

func TestMetrics(t *testing.T) {
	srv, _ := newTestServer(t, Options{})
	h := srv.Handler()
	do(t, h, http.MethodGet, "/insights", nil)

	rec := do(t, h, http.MethodGet, "/metrics", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `azvnet_dashboard_requests_total{code="200",route="insights"}`)
}
