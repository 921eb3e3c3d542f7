package narrative

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/netbeacon/azvnet/inventory"
	"github.com/netbeacon/azvnet/utils"
)

var (
	ErrUnknownMode = errors.New("unknown narrative mode")
	ErrNoAPIKey    = errors.New("no OpenAI API key configured")
	ErrNoFence     = errors.New("no fenced markdown block found")
)

// Mode picks the voice of the generated text.
type Mode string

const (
	ModeReport  Mode = "report"
	ModeOpinion Mode = "opinion"
)

var systemPrompts = map[Mode]string{
	ModeReport: "You are an Azure network engineer. Write a markdown report describing the virtual networks, " +
		"subnets, route tables, network security groups, peerings, gateways and ExpressRoute circuits in the " +
		"sample inventory you are given. Use headings per resource type and tables where they help. " +
		"Wrap the whole report in a single ```markdown fenced block.",
	ModeOpinion: "You are a senior Azure network architect reviewing a customer environment. Based on the sample " +
		"inventory you are given, give your opinion on the design: hub and spoke layout, routing through the " +
		"firewall, BGP propagation, peering settings and segmentation. List concrete recommendations. " +
		"Wrap the whole answer in a single ```markdown fenced block.",
}

// ParseMode validates a mode name.
func ParseMode(s string) (Mode, error) {
	m := Mode(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := systemPrompts[m]; !ok {
		return "", fmt.Errorf("%w: %q (use report or opinion)", ErrUnknownMode, s)
	}
	return m, nil
}

// Summarize keeps the first element of every collection. The model only needs the shape of the
// data, and a full snapshot can exceed the context window.
func Summarize(snap *inventory.Snapshot) *inventory.Snapshot {
	out := inventory.Empty()
	out.Subscriptions = first(snap.Subscriptions, out.Subscriptions)
	out.VNets = first(snap.VNets, out.VNets)
	out.Subnets = first(snap.Subnets, out.Subnets)
	out.RouteTables = first(snap.RouteTables, out.RouteTables)
	out.NSGs = first(snap.NSGs, out.NSGs)
	out.Peerings = first(snap.Peerings, out.Peerings)
	out.VNetGateways = first(snap.VNetGateways, out.VNetGateways)
	out.ExpressRouteCircuits = first(snap.ExpressRouteCircuits, out.ExpressRouteCircuits)
	return out
}

func first[T any](in, empty []T) []T {
	if len(in) == 0 {
		return empty
	}
	return in[:1:1]
}

// Generator writes narratives with a chat model.
type Generator struct {
	chat      Chatter
	maxTokens int
}

func NewGenerator(chat Chatter) *Generator {
	return &Generator{chat: chat, maxTokens: 4000}
}

// Generate returns the model's markdown for the summarized snapshot.
func (g *Generator) Generate(ctx context.Context, snap *inventory.Snapshot, mode Mode) (string, error) {
	system, ok := systemPrompts[mode]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}
	sample, err := inventory.Encode(Summarize(snap))
	if err != nil {
		return "", fmt.Errorf("encoding summary: %w", err)
	}

	utils.WithFields(map[string]interface{}{"mode": string(mode), "bytes": len(sample)}).Info("requesting narrative")
	resp, err := g.chat.Chat(ctx, ChatRequest{
		System:    system,
		Messages:  []Message{{Role: "user", Content: "Sample inventory:\n\n" + string(sample)}},
		MaxTokens: g.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("generating %s: %w", mode, err)
	}
	if resp.StopReason == "length" {
		utils.WithFields(map[string]interface{}{"mode": string(mode)}).Warn("narrative hit the token limit, run narrative-continue on the saved file")
	}
	return resp.Content, nil
}

// Save writes text to dir as <mode>-YYYYMMDD_HHMMSS.md, wrapping it in a markdown fence unless the
// model already did.
func Save(dir string, mode Mode, text string, now time.Time) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.md", mode, now.Format("20060102_150405")))
	body := text
	if fenceOpen.FindStringIndex(text) == nil {
		body = "```markdown\n" + strings.TrimSpace(text) + "\n```\n"
	}
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("writing %s: %w", path, err)
	}
	return path, nil
}
