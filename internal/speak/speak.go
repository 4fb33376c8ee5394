// Package speak finds !speak[...] markers in note bodies and fetches audio
// for them from the TTS service.
package speak

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"time"
)

var markerRe = regexp.MustCompile(`!speak\[([^\]]+)\]`)

// Markers returns the deduplicated texts of every !speak[...] marker in
// body, in order of first appearance.
func Markers(body string) []string {
	matches := markerRe.FindAllStringSubmatch(body, -1)
	seen := make(map[string]struct{}, len(matches))
	var out []string
	for _, m := range matches {
		if _, dup := seen[m[1]]; dup {
			continue
		}
		seen[m[1]] = struct{}{}
		out = append(out, m[1])
	}
	return out
}

// Client is a thin HTTP client for the TTS service.
type Client struct {
	baseURL    string
	voice      string
	speed      float64
	language   string
	httpClient *http.Client
}

// NewClient returns a TTS client with fixed voice parameters.
func NewClient(baseURL, voice string, speed float64, language string) *Client {
	return &Client{
		baseURL:    baseURL,
		voice:      voice,
		speed:      speed,
		language:   language,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type synthesizeRequest struct {
	Text     string  `json:"text"`
	Voice    string  `json:"voice"`
	Speed    float64 `json:"speed"`
	Language string  `json:"language"`
}

// Synthesize returns the audio bytes for text.
func (c *Client) Synthesize(ctx context.Context, text string) ([]byte, error) {
	body, err := json.Marshal(synthesizeRequest{
		Text:     text,
		Voice:    c.voice,
		Speed:    c.speed,
		Language: c.language,
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v1/synthesize", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("speak: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("speak: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("speak: tts returned %s: %s", resp.Status, errBody)
	}
	return io.ReadAll(resp.Body)
}
