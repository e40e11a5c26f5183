package enrichment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/epitomehq/callsheet-backend/internal/production"
)

const (
	researchMaxResults     = 3
	researchSnippetChars   = 200
	researchSummaryChars   = 500
	researchSourceMaxChars = 500
)

type exaRequest struct {
	Query      string      `json:"query"`
	Type       string      `json:"type"`
	NumResults int         `json:"numResults"`
	Contents   exaContents `json:"contents"`
}

type exaContents struct {
	Text exaTextOptions `json:"text"`
}

type exaTextOptions struct {
	MaxCharacters int `json:"maxCharacters"`
}

type exaResponse struct {
	Results []struct {
		Title string `json:"title"`
		URL   string `json:"url"`
		Text  string `json:"text"`
	} `json:"results"`
}

// ResearchCompany runs one neural search for a client brand and condenses the
// top snippets into a short capped summary with (title, url) sources.
func (c *Client) ResearchCompany(ctx context.Context, clientName string) *production.Research {
	if production.IsTBD(clientName) {
		return nil
	}
	if c.exaKey == "" {
		c.log.Warn("EXA_API_KEY not set, skipping client research", "client", clientName)
		return nil
	}

	payload, err := json.Marshal(exaRequest{
		Query:      clientName + " company overview brand information",
		Type:       "neural",
		NumResults: researchMaxResults,
		Contents:   exaContents{Text: exaTextOptions{MaxCharacters: researchSourceMaxChars}},
	})
	if err != nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.exaURL, bytes.NewReader(payload))
	if err != nil {
		c.log.Warn("Failed to build research request", "client", clientName, "error", err)
		return nil
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.exaKey)

	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn("Research request failed", "client", clientName, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.log.Warn("Research API returned non-OK status", "client", clientName, "status", resp.StatusCode)
		return nil
	}

	var body exaResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		c.log.Warn("Failed to decode research response", "client", clientName, "error", err)
		return nil
	}
	if len(body.Results) == 0 {
		return nil
	}

	var snippets []string
	var sources []production.Source
	for i, r := range body.Results {
		if i >= researchMaxResults {
			break
		}
		if r.Text != "" {
			snippets = append(snippets, truncateRunes(r.Text, researchSnippetChars))
		}
		if r.URL != "" {
			title := r.Title
			if title == "" {
				title = "Source"
			}
			sources = append(sources, production.Source{Title: title, URL: r.URL})
		}
	}
	if len(snippets) == 0 && len(sources) == 0 {
		return nil
	}

	return &production.Research{
		Summary: truncateRunes(strings.Join(snippets, " "), researchSummaryChars),
		Sources: sources,
	}
}
