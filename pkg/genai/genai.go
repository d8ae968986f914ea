// Package genai asks a Gemini model for text from a prompt of text and
// inline images. It wraps the google.golang.org/genai SDK and keeps the
// prompt types of the gateway free of SDK types.
package genai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	gohttp "net/http"
	"strings"

	sdk "google.golang.org/genai"

	"github.com/shashiranjanraj/souqhup/config"
	"github.com/shashiranjanraj/souqhup/pkg/http"
)

var (
	ErrNoKey     = errors.New("genai: no API key configured")
	ErrNoContent = errors.New("genai: response has no text")
)

// Part is one piece of a prompt: text or an inline image.
type Part struct {
	Text       string
	InlineData *InlineData
}

// InlineData is base64 encoded media.
type InlineData struct {
	MimeType string
	Data     string
}

func Text(s string) Part { return Part{Text: s} }

func Image(mimeType, base64Data string) Part {
	return Part{InlineData: &InlineData{MimeType: mimeType, Data: base64Data}}
}

// Options selects the model and where it is served. An empty BaseURL or
// APIVersion keeps the SDK default. HTTPClient defaults to the shared
// outbound client.
type Options struct {
	BaseURL    string
	APIVersion string
	Model      string
	APIKey     string
	HTTPClient *gohttp.Client
}

// Client talks to one model. The caller's context decides how long a call
// may take.
type Client struct {
	model  string
	models *sdk.Models
	err    error
}

func New(opts Options) *Client {
	c := &Client{model: opts.Model}
	if opts.APIKey == "" {
		c.err = ErrNoKey
		return c
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	client, err := sdk.NewClient(context.Background(), &sdk.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    sdk.BackendGeminiAPI,
		HTTPClient: opts.HTTPClient,
		HTTPOptions: sdk.HTTPOptions{
			BaseURL:    opts.BaseURL,
			APIVersion: opts.APIVersion,
		},
	})
	if err != nil {
		c.err = fmt.Errorf("genai: client: %w", err)
		return c
	}
	c.models = client.Models
	return c
}

// FromConfig builds a client from the GENAI_* settings.
func FromConfig() *Client {
	return New(Options{
		BaseURL:    config.GenAIEndpoint(),
		APIVersion: config.GenAIAPIVersion(),
		Model:      config.GenAIModel(),
		APIKey:     config.GenAIKey(),
	})
}

func (c *Client) Model() string { return c.model }

// Generate sends parts as a single user turn and joins the text of the
// first candidate. It never retries.
func (c *Client) Generate(ctx context.Context, parts ...Part) (string, error) {
	if c.err != nil {
		return "", c.err
	}

	prompt := make([]*sdk.Part, 0, len(parts))
	for i, p := range parts {
		if p.InlineData == nil {
			prompt = append(prompt, sdk.NewPartFromText(p.Text))
			continue
		}
		raw, err := base64.StdEncoding.DecodeString(p.InlineData.Data)
		if err != nil {
			return "", fmt.Errorf("genai: part %d: %w", i, err)
		}
		prompt = append(prompt, sdk.NewPartFromBytes(raw, p.InlineData.MimeType))
	}

	resp, err := c.models.GenerateContent(ctx, c.model,
		[]*sdk.Content{sdk.NewContentFromParts(prompt, sdk.RoleUser)}, nil)
	if err != nil {
		return "", fmt.Errorf("genai: %s: %w", c.model, err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrNoContent
	}

	var sb strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			sb.WriteString(p.Text)
		}
	}
	if sb.Len() == 0 {
		return "", ErrNoContent
	}
	return sb.String(), nil
}
