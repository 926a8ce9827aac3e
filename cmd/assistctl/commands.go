package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/davidbz/glimpse/internal/domain"
)

// AskCmd streams an answer to stdout.
type AskCmd struct {
	Images  []string `short:"i" name:"image" help:"Screenshot to attach (repeatable)"`
	Session string   `help:"Session id for history"`
	Query   []string `arg:"" optional:"" help:"Question text"`
}

// Run executes the ask command.
func (c *AskCmd) Run(cli *CLI) error {
	vendor, err := cli.VendorID()
	if err != nil {
		return err
	}

	images, err := encodeImages(c.Images)
	if err != nil {
		return err
	}

	assistant, err := cli.assistant()
	if err != nil {
		return err
	}

	_, err = assistant.Ask(context.Background(), &domain.AskRequest{
		Vendor:    vendor,
		APIKey:    cli.Key,
		Query:     strings.Join(c.Query, " "),
		Images:    images,
		SessionID: c.Session,
	}, cli.printer())
	return err
}

// SummarizeCmd streams a meeting summary to stdout.
type SummarizeCmd struct {
	File string `arg:"" default:"-" help:"Transcript file, - for stdin"`
}

// Run executes the summarize command.
func (c *SummarizeCmd) Run(cli *CLI) error {
	vendor, err := cli.VendorID()
	if err != nil {
		return err
	}

	transcript, err := readInput(c.File, os.Stdin)
	if err != nil {
		return err
	}

	assistant, err := cli.assistant()
	if err != nil {
		return err
	}

	_, err = assistant.Summarize(context.Background(), &domain.TranscriptRequest{
		Vendor:     vendor,
		APIKey:     cli.Key,
		Transcript: transcript,
	}, cli.printer())
	return err
}

// QuestionsCmd prints the questions found in a transcript.
type QuestionsCmd struct {
	File string `arg:"" default:"-" help:"Transcript file, - for stdin"`
	JSON bool   `help:"Print JSON instead of one question per line"`
}

// Run executes the questions command.
func (c *QuestionsCmd) Run(cli *CLI) error {
	vendor, err := cli.VendorID()
	if err != nil {
		return err
	}

	transcript, err := readInput(c.File, os.Stdin)
	if err != nil {
		return err
	}

	assistant, err := cli.assistant()
	if err != nil {
		return err
	}

	questions, err := assistant.ExtractQuestions(context.Background(), &domain.TranscriptRequest{
		Vendor:     vendor,
		APIKey:     cli.Key,
		Transcript: transcript,
	})
	if err != nil {
		return err
	}

	return printQuestions(cli, questions, c.JSON)
}

func printQuestions(cli *CLI, questions []domain.Question, asJSON bool) error {
	w := cli.stdout()
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(questions)
	}

	for _, q := range questions {
		fmt.Fprintf(w, "[%s] %s\n", q.Source, q.Text)
	}
	return nil
}

// VendorsCmd lists vendor metadata.
type VendorsCmd struct{}

// Run executes the vendors command.
func (c *VendorsCmd) Run(cli *CLI) error {
	printVendors(cli, domain.AllMetadata())
	return nil
}

func printVendors(cli *CLI, vendors []domain.VendorMetadata) {
	tw := tabwriter.NewWriter(cli.stdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tLABEL\tDEFAULT MODEL\tIMAGES\tAUDIO")
	for _, v := range vendors {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%t\n", v.ID, v.Label, v.DefaultModel, v.SupportsImages, v.SupportsMeetingsAudio)
	}
	_ = tw.Flush()
}

// ResolveCmd prints the model a vendor would use.
type ResolveCmd struct {
	Requested string   `help:"Requested model"`
	Exclude   []string `help:"Models to skip"`
	Images    bool     `help:"Require image input"`
	Tier      string   `help:"Preferred tier (free or paid)"`
}

// Run executes the resolve command.
func (c *ResolveCmd) Run(cli *CLI) error {
	vendor, err := cli.VendorID()
	if err != nil {
		return err
	}

	assistant, err := cli.assistant()
	if err != nil {
		return err
	}

	model, err := assistant.CurrentModel(context.Background(), vendor, cli.Key, domain.ResolveOptions{
		RequestedModel: c.Requested,
		ExcludeModels:  c.Exclude,
		PreferredTier:  domain.Tier(c.Tier),
		RequiredCapabilities: domain.ModelCapabilities{
			Text:      true,
			Streaming: true,
			Images:    c.Images,
		},
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cli.stdout(), model)
	return nil
}

// InvalidateCmd drops a vendor's cached model.
type InvalidateCmd struct{}

// Run executes the invalidate command.
func (c *InvalidateCmd) Run(cli *CLI) error {
	vendor, err := cli.VendorID()
	if err != nil {
		return err
	}

	assistant, err := cli.assistant()
	if err != nil {
		return err
	}

	return assistant.InvalidateModel(context.Background(), vendor)
}
