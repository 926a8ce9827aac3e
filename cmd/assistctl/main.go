// assistctl drives the assistant from a terminal.
package main

import (
	"github.com/alecthomas/kong"
)

func main() {
	cli := CLI{}

	ctx := kong.Parse(&cli,
		kong.Name("assistctl"),
		kong.Description("Stream answers, summaries and questions from LLM vendors"),
		kong.UsageOnError(),
	)

	err := ctx.Run(&cli)
	ctx.FatalIfErrorf(err)
}
