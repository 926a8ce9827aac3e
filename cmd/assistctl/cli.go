package main

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"

	"github.com/davidbz/glimpse/internal/app"
	"github.com/davidbz/glimpse/internal/config"
	"github.com/davidbz/glimpse/internal/domain"
)

// CLI is the root command structure for assistctl. Vendor settings come from
// the same environment variables as the bridge.
type CLI struct {
	Vendor string `short:"V" help:"Vendor id (openai, gemini, anthropic, perplexity)" default:"openai" env:"ASSISTCTL_VENDOR"`
	Key    string `short:"k" help:"API key, overrides the configured one" env:"ASSISTCTL_KEY"`

	Ask        AskCmd        `cmd:"" help:"Ask a question, optionally with screenshots"`
	Summarize  SummarizeCmd  `cmd:"" help:"Summarize a meeting transcript"`
	Questions  QuestionsCmd  `cmd:"" help:"List the questions asked in a transcript"`
	Vendors    VendorsCmd    `cmd:"" help:"List supported vendors"`
	Resolve    ResolveCmd    `cmd:"" help:"Show the model a vendor would use"`
	Invalidate InvalidateCmd `cmd:"" help:"Drop a vendor's cached model"`

	out io.Writer `kong:"-"`
}

// VendorID validates the --vendor flag.
func (c *CLI) VendorID() (domain.VendorID, error) {
	if !domain.IsVendorID(c.Vendor) {
		return "", fmt.Errorf("%w: %s", domain.ErrUnknownVendor, c.Vendor)
	}
	return domain.VendorID(c.Vendor), nil
}

func (c *CLI) stdout() io.Writer {
	if c.out != nil {
		return c.out
	}
	return os.Stdout
}

func (c *CLI) assistant() (*domain.AssistantService, error) {
	container, err := app.NewContainer(config.Load)
	if err != nil {
		return nil, err
	}

	var assistant *domain.AssistantService
	if err := container.Invoke(func(a *domain.AssistantService) { assistant = a }); err != nil {
		return nil, fmt.Errorf("failed to build assistant: %w", err)
	}
	return assistant, nil
}

// printer streams chunks to the terminal.
func (c *CLI) printer() domain.StreamCallbacks {
	w := c.stdout()
	return domain.StreamCallbacks{
		OnChunk:    func(text string) { fmt.Fprint(w, text) },
		OnComplete: func() { fmt.Fprintln(w) },
	}
}

// readInput reads a file, or stdin when path is "-".
func readInput(path string, stdin io.Reader) (string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return string(data), nil
}

// encodeImages loads screenshots as raw base64. The MIME type is inferred
// from the payload by the adapters.
func encodeImages(paths []string) ([]string, error) {
	images := make([]string, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read image %s: %w", path, err)
		}
		images = append(images, base64.StdEncoding.EncodeToString(data))
	}
	return images, nil
}
