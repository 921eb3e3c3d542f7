package dashboard

import (
	"encoding/json"
	"errors"
	"html/template"
	"io/fs"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/narrative"
	"github.com/netbeacon/azvnet/report"
)

type indexData struct {
	Path          string
	Subscriptions int
	VNets         int
	Subnets       int
	CanFetch      bool
	CanNarrate    bool
}

func (s *Server) indexPage(snap *inventory.Snapshot) indexData {
	return indexData{
		Path:          s.store.Path(),
		Subscriptions: len(snap.Subscriptions),
		VNets:         len(snap.VNets),
		Subnets:       len(snap.Subnets),
		CanFetch:      s.opts.Fetcher != nil,
		CanNarrate:    s.opts.Narrator != nil,
	}
}

func (s *Server) index(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "index", page{Title: "Home", Data: s.indexPage(s.store.Current())})
}

func (s *Server) loadEnvironment(w http.ResponseWriter, r *http.Request) {
	p := page{Title: "Home"}
	if s.opts.Fetcher == nil {
		p.Error = "Fetching is not configured for this dashboard."
		p.Data = s.indexPage(s.store.Current())
		s.render(w, r, "index", p)
		return
	}

	snap, err := s.opts.Fetcher.Fetch(r.Context())
	if err == nil {
		err = s.store.Replace(snap)
	}
	if err != nil {
		logFor(r).Errorf("loading environment: %s", err)
		p.Error = "Loading environment failed: " + err.Error()
	} else {
		p.Message = "Environment data loaded successfully!"
	}
	p.Data = s.indexPage(s.store.Current())
	s.render(w, r, "index", p)
}

type routesData struct {
	Subscriptions []inventory.Subscription
	Selected      string
	Rows          []inventory.SubnetRoute
}

func (s *Server) routes(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	data := routesData{Subscriptions: snap.Subscriptions}
	if r.Method == http.MethodPost {
		data.Selected = r.FormValue("subscription")
		data.Rows = inventory.SubnetRoutes(snap, data.Selected)
	}
	s.render(w, r, "routes", page{Title: "Routes", Data: data})
}

type peeringsData struct {
	Subscriptions  []inventory.Subscription
	SubscriptionID string
	VNetName       string
	IsHub          bool
	IsSpoke        bool
	Submitted      bool
	Results        []inventory.PeeringStatus
}

func (s *Server) validateHubPeerings(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	data := peeringsData{Subscriptions: snap.Subscriptions}
	if r.Method == http.MethodPost {
		data.Submitted = true
		data.SubscriptionID = r.FormValue("subscription_id")
		data.VNetName = r.FormValue("vnet_name")
		_, data.IsHub = r.PostForm["is_hub"]
		_, data.IsSpoke = r.PostForm["is_spoke"]
		data.Results = inventory.HubPeerings(snap, data.SubscriptionID, data.VNetName, peeringRole(data.IsHub, data.IsSpoke))
	}
	s.render(w, r, "peerings", page{Title: "Hub Peerings", Data: data})
}

// peeringRole picks hub checks when both boxes are ticked.
func peeringRole(hub, spoke bool) inventory.PeeringRole {
	switch {
	case hub:
		return inventory.RoleHub
	case spoke:
		return inventory.RoleSpoke
	}
	return inventory.RoleNone
}

type insightsData struct {
	Insights []inventory.SubscriptionInsight
	Totals   inventory.SubscriptionInsight
}

func (s *Server) insights(w http.ResponseWriter, r *http.Request) {
	in := inventory.Aggregate(s.store.Current())
	s.render(w, r, "insights", page{Title: "Insights", Data: insightsData{Insights: in, Totals: inventory.InsightTotals(in)}})
}

type validateData struct {
	Subscriptions  []inventory.Subscription
	SubscriptionID string
	FirewallIP     string
	Ran            bool
	Issues         []inventory.Issue
}

func (s *Server) autoValidate(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	data := validateData{Subscriptions: snap.Subscriptions}
	if r.Method == http.MethodPost {
		data.Ran = true
		data.SubscriptionID = r.FormValue("subscription_id")
		data.FirewallIP = strings.TrimSpace(r.FormValue("firewall_ip"))
		data.Issues = inventory.ValidateSpokes(snap, data.SubscriptionID, data.FirewallIP)
	}
	s.render(w, r, "validate", page{Title: "Auto Validate", Data: data})
}

func (s *Server) readSnapshotFile() ([]byte, string) {
	b, err := os.ReadFile(s.store.Path())
	if errors.Is(err, fs.ErrNotExist) {
		return nil, "Error: JSON file not found"
	}
	if err != nil {
		return nil, "Error: " + err.Error()
	}
	return b, ""
}

func (s *Server) prettyJSON(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	b, msg := s.readSnapshotFile()
	if msg != "" {
		w.Write([]byte(msg))
		return
	}
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		w.Write([]byte("Error: Invalid JSON data"))
		return
	}
	pretty, err := json.MarshalIndent(v, "", "    ")
	if err != nil {
		w.Write([]byte("Error: Invalid JSON data"))
		return
	}
	w.Write([]byte("<pre>" + template.HTMLEscapeString(string(pretty)) + "</pre>"))
}

func (s *Server) downloadJSON(w http.ResponseWriter, r *http.Request) {
	b, msg := s.readSnapshotFile()
	if msg != "" {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.Write([]byte(msg))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Content-Disposition", "attachment; filename=environment_data.json")
	w.Write(b)
}

func (s *Server) reportData(r *http.Request) *report.Data {
	return report.Build(s.store.Current(), report.Options{
		SnapshotPath:      s.store.Path(),
		FirewallIP:        strings.TrimSpace(r.URL.Query().Get("firewall_ip")),
		HubSubscriptionID: r.URL.Query().Get("hub_subscription"),
	})
}

func (s *Server) generateReport(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "report", page{Title: "Report", Data: s.reportData(r)})
}

func (s *Server) downloadReport(w http.ResponseWriter, r *http.Request) {
	pdf, err := s.pdf.Generate(s.reportData(r))
	if err != nil {
		logFor(r).Errorf("generating pdf: %s", err)
		http.Error(w, "generating report failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", "attachment; filename=network_report.pdf")
	w.Write(pdf)
}

type narrativeData struct {
	Mode string
	Text string
	Path string
}

func (s *Server) narrative(w http.ResponseWriter, r *http.Request) {
	p := page{Title: "Narrative"}
	data := narrativeData{Mode: r.FormValue("mode")}

	mode, err := narrative.ParseMode(data.Mode)
	switch {
	case err != nil:
		p.Error = err.Error()
	case s.opts.Narrator == nil:
		p.Error = "Narratives are not configured for this dashboard."
	default:
		text, err := s.opts.Narrator.Generate(r.Context(), s.store.Current(), mode)
		if err != nil {
			logFor(r).Errorf("generating narrative: %s", err)
			p.Error = "Generating narrative failed: " + err.Error()
			break
		}
		data.Text = text
		if data.Path, err = narrative.Save(s.opts.NarrativeDir, mode, text, time.Now()); err != nil {
			logFor(r).Errorf("saving narrative: %s", err)
			p.Error = "Saving narrative failed: " + err.Error()
		}
		if narrative.NeedsContinuation(text) {
			p.Message = "The narrative looks truncated. Run azvnet narrative-continue " + data.Path
		}
	}
	p.Data = data
	s.render(w, r, "narrative", p)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.Encode(v)
}

func (s *Server) apiInsights(w http.ResponseWriter, r *http.Request) {
	in := inventory.Aggregate(s.store.Current())
	writeJSON(w, map[string]any{"insights": in, "totals": inventory.InsightTotals(in)})
}

func (s *Server) apiIssues(w http.ResponseWriter, r *http.Request) {
	snap := s.store.Current()
	fw := strings.TrimSpace(r.URL.Query().Get("firewall_ip"))
	hub := r.URL.Query().Get("hub_subscription")

	var issues []inventory.Issue
	if hub != "" {
		issues = inventory.ValidateSpokes(snap, hub, fw)
	} else {
		issues = inventory.Validate(snap.Subnets, snap.RouteTables, snap.NSGs, fw)
	}
	writeJSON(w, map[string]any{"firewall_ip": fw, "hub_subscription": hub, "issues": issues})
}
