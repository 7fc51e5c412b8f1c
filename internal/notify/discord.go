package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DiscordSender posts run summaries to a Discord webhook
type DiscordSender struct {
	webhookURL string
	httpClient *http.Client
}

// NewDiscordSender creates a new Discord sender
func NewDiscordSender(webhookURL string) *DiscordSender {
	return &DiscordSender{
		webhookURL: webhookURL,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// Send posts the run summary to Discord
func (s *DiscordSender) Send(ctx context.Context, summary *RunSummary) error {
	webhookPayload := map[string]interface{}{
		"embeds": []interface{}{s.buildEmbed(summary)},
	}

	body, err := json.Marshal(webhookPayload)
	if err != nil {
		return fmt.Errorf("marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", s.webhookURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	return nil
}

func (s *DiscordSender) buildEmbed(summary *RunSummary) map[string]interface{} {
	description := fmt.Sprintf(
		"Analyzed **%d** wallets in %s\n**%d** passed the performance filter, %d flagged as hyper scrapers, %d fetch errors",
		summary.WalletCount,
		summary.Duration.Round(time.Second),
		summary.RankedCount,
		summary.HyperScraperCount,
		summary.FetchErrorCount,
	)

	fields := []map[string]interface{}{}
	for _, entry := range summary.Top {
		fields = append(fields, map[string]interface{}{
			"name": fmt.Sprintf("#%d `%s`", entry.Rank, shortAddress(entry.Address)),
			"value": fmt.Sprintf("Sharpe **%.2f** • DD **%.1f%%** • Win **%.1f%%** • Score **%.3f**\nvia %s",
				entry.Sharpe, entry.Drawdown*100, entry.WinRate*100, entry.Score, entry.Sources),
			"inline": false,
		})
	}

	footer := map[string]interface{}{
		"text": fmt.Sprintf("hyperscout • %s • %s", summary.Environment, summary.StartedAt.UTC().Format("2006-01-02 15:04:05 UTC")),
	}

	return map[string]interface{}{
		"title":       "📈 Trader scan complete",
		"description": description,
		"color":       0x00B36B,
		"fields":      fields,
		"footer":      footer,
		"timestamp":   summary.StartedAt.Format(time.RFC3339),
	}
}
