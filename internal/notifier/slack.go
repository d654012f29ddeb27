package notifier

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/amishk599/jobledger/internal/model"
)

// Ensure SlackNotifier implements model.Notifier.
var _ model.Notifier = (*SlackNotifier)(nil)

const defaultMessageSpacing = 500 * time.Millisecond

// SlackNotifier posts stored records to a Slack channel via Incoming Webhooks.
type SlackNotifier struct {
	webhookURL string
	httpClient *http.Client
	spacing    time.Duration
	logger     *slog.Logger
}

// NewSlackNotifier returns a notifier that posts each record to Slack via webhook.
func NewSlackNotifier(webhookURL string, httpClient *http.Client, logger *slog.Logger) *SlackNotifier {
	return &SlackNotifier{
		webhookURL: webhookURL,
		httpClient: httpClient,
		spacing:    defaultMessageSpacing,
		logger:     logger,
	}
}

// Notify sends each record as a separate Slack message using Block Kit.
// Returns an error only if ALL messages fail. Individual failures are logged.
func (s *SlackNotifier) Notify(records []model.StoredRecord) error {
	if len(records) == 0 {
		return nil
	}

	failures := 0
	for i, sr := range records {
		if i > 0 && s.spacing > 0 {
			time.Sleep(s.spacing)
		}
		if sr.Record == nil {
			failures++
			continue
		}
		if err := s.sendMessage(sr); err != nil {
			s.logger.Error("slack notification failed", "linkedin_url", sr.Record.LinkedInURL, "error", err)
			failures++
		}
	}

	if failures == len(records) {
		return fmt.Errorf("all %d slack notifications failed", failures)
	}
	s.logger.Info("slack notifications complete", "sent", len(records)-failures, "failed", failures)
	return nil
}

func (s *SlackNotifier) sendMessage(sr model.StoredRecord) error {
	body, err := json.Marshal(buildPayload(sr))
	if err != nil {
		return fmt.Errorf("marshal slack payload: %w", err)
	}

	resp, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("post to slack: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		secs, _ := strconv.Atoi(resp.Header.Get("Retry-After"))
		if secs <= 0 {
			secs = 1
		}
		s.logger.Warn("slack rate limited, retrying", "retry_after_secs", secs)
		time.Sleep(time.Duration(secs) * time.Second)

		retry, err := s.httpClient.Post(s.webhookURL, "application/json", bytes.NewReader(body))
		if err != nil {
			return fmt.Errorf("post to slack (retry): %w", err)
		}
		defer retry.Body.Close()

		if retry.StatusCode != http.StatusOK {
			return fmt.Errorf("slack returned %d on retry", retry.StatusCode)
		}
		s.logger.Debug("slack message sent", "linkedin_url", sr.Record.LinkedInURL, "retried", true)
		return nil
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("slack returned %d", resp.StatusCode)
	}
	s.logger.Debug("slack message sent", "linkedin_url", sr.Record.LinkedInURL)
	return nil
}

// Block Kit payload types.

type slackPayload struct {
	Blocks []slackBlock `json:"blocks"`
}

type slackBlock struct {
	Type     string         `json:"type"`
	Text     *slackText     `json:"text,omitempty"`
	Fields   []slackText    `json:"fields,omitempty"`
	Elements []slackElement `json:"elements,omitempty"`
}

type slackText struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type slackElement struct {
	Type  string    `json:"type"`
	Text  slackText `json:"text"`
	URL   string    `json:"url"`
	Style string    `json:"style"`
}

// SendTestMessage sends a sample record through n to verify the integration works.
func SendTestMessage(n model.Notifier) error {
	now := time.Now().UTC()
	rec := &model.JobRecord{
		LinkedInURL:    "https://www.linkedin.com/jobs/view/0/",
		JobTitle:       "Test Notification",
		Company:        "jobledger",
		City:           "Toronto",
		Province:       "ON",
		WorkplaceType:  model.WorkplaceRemote,
		RequiredSkills: []string{"Go"},
		PostedAt:       &now,
		ScrapedAt:      &now,
	}
	return n.Notify([]model.StoredRecord{{
		Record: rec,
		Result: model.UpsertResult{Inserted: true, Observations: 1, ScrapedAt: now},
	}})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func buildPayload(sr model.StoredRecord) slackPayload {
	r := sr.Record

	location := r.City
	if r.Province != "" {
		location = strings.TrimPrefix(location+", "+r.Province, ", ")
	}

	postedText := "Unknown"
	if r.PostedAt != nil {
		postedText = r.PostedAt.Format("Mon, 02 Jan 2006")
		if r.PostingAgeDays != nil {
			postedText += fmt.Sprintf(" (%dd ago)", *r.PostingAgeDays)
		}
	}

	pay := "-"
	if r.CurrencyCode != "" {
		pay = r.CurrencyCode
		if r.Currency != "" {
			pay = r.Currency + " " + r.CurrencyCode
		}
	}

	prefix := "🆕 "
	if !sr.Result.Inserted {
		prefix = fmt.Sprintf("🔁 (seen %dx) ", sr.Result.Observations)
	}

	blocks := []slackBlock{
		{
			Type: "header",
			Text: &slackText{Type: "plain_text", Text: prefix + displayCompany(r) + ": " + displayTitle(r)},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Company:*\n" + displayCompany(r)},
				{Type: "mrkdwn", Text: "*Location:*\n" + orDash(location)},
			},
		},
		{
			Type: "section",
			Fields: []slackText{
				{Type: "mrkdwn", Text: "*Workplace:*\n" + orDash(r.WorkplaceType)},
				{Type: "mrkdwn", Text: "*Posted:*\n" + postedText},
				{Type: "mrkdwn", Text: "*Seniority:*\n" + orDash(r.SeniorityLevel)},
				{Type: "mrkdwn", Text: "*Currency:*\n" + pay},
			},
		},
	}

	if len(r.RequiredSkills) > 0 {
		blocks = append(blocks, slackBlock{
			Type: "section",
			Text: &slackText{Type: "mrkdwn", Text: "*Skills:* " + strings.Join(r.RequiredSkills, ", ")},
		})
	}

	blocks = append(blocks,
		slackBlock{
			Type: "actions",
			Elements: []slackElement{
				{
					Type:  "button",
					Text:  slackText{Type: "plain_text", Text: "View Posting"},
					URL:   r.LinkedInURL,
					Style: "primary",
				},
			},
		},
		slackBlock{Type: "divider"},
	)

	return slackPayload{Blocks: blocks}
}
