// Command replay inspects connector journals written by the simulator's
// -replay flag.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/alecthomas/kong"

	"github.com/signalsfoundry/saturn-connectors/protocol"
	"github.com/signalsfoundry/saturn-connectors/replay"
)

type cli struct {
	Dump  DumpCmd  `cmd:"" help:"Print journal entries"`
	Stats StatsCmd `cmd:"" help:"Summarize a journal per channel and message"`
}

type commandContext struct {
	Out io.Writer
}

// DumpCmd prints entries one per line.
type DumpCmd struct {
	Path    string `arg:"" help:"Journal file (.zst for compressed)" type:"path"`
	Channel string `help:"Only entries of this channel (e.g. CSM_IU_COMMAND)"`
	Failed  bool   `help:"Only round trips that were not delivered"`
	Limit   int    `help:"Stop after this many entries (0 for all)"`
}

func (cmd *DumpCmd) Run(ctx commandContext) error {
	channel := ""
	if cmd.Channel != "" {
		ct, err := protocol.ParseConnectorType(cmd.Channel)
		if err != nil {
			return err
		}
		channel = ct.String()
	}

	r, err := replay.Open(cmd.Path)
	if err != nil {
		return err
	}
	defer r.Close()

	printed := 0
	for cmd.Limit == 0 || printed < cmd.Limit {
		e, err := r.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
		if channel != "" && channel != e.Channel {
			continue
		}
		if cmd.Failed && e.Delivered() {
			continue
		}
		fmt.Fprintf(ctx.Out, "#%d %s %s %s %s -> %s %s (%s) req=%s resp=%s\n",
			e.Seq,
			e.Start.Format("15:04:05.000000"),
			e.Channel,
			e.Direction,
			e.Name,
			peer(e.To),
			e.Outcome,
			e.Duration,
			formatSlots(e.Request),
			formatSlots(e.Response),
		)
		printed++
	}
	return nil
}

func peer(id string) string {
	if id == "" {
		return "-"
	}
	return id
}

func formatSlots(slots map[string]replay.Slot) string {
	if len(slots) == 0 {
		return "{}"
	}
	parts := make([]string, 0, len(slots))
	for _, name := range []string{"val1", "val2", "val3"} {
		s, ok := slots[name]
		if !ok {
			continue
		}
		kind := s.Kind
		if s.Type != "" {
			kind += ":" + s.Type
		}
		if s.Value == nil {
			parts = append(parts, fmt.Sprintf("%s=%s", name, kind))
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%s(%v)", name, kind, s.Value))
	}
	return "{" + strings.Join(parts, " ") + "}"
}

// StatsCmd prints a per-message summary table.
type StatsCmd struct {
	Path string `arg:"" help:"Journal file (.zst for compressed)" type:"path"`
}

func (cmd *StatsCmd) Run(ctx commandContext) error {
	r, err := replay.Open(cmd.Path)
	if err != nil {
		return err
	}
	defer r.Close()

	sum, err := replay.Summarize(r)
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Out, "%d entries, %d failed, %s .. %s\n",
		sum.Entries, sum.Failed, sum.First.Format("15:04:05"), sum.Last.Format("15:04:05"))

	tw := tabwriter.NewWriter(ctx.Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CHANNEL\tMESSAGE\tCOUNT\tFAILED\tMEAN")
	for _, ms := range sum.Messages {
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%s\n", ms.Channel, ms.Name, ms.Count, ms.Failed, ms.Mean())
	}
	return tw.Flush()
}

func run(args []string, out io.Writer) error {
	var c cli
	parser, err := kong.New(&c,
		kong.Name("replay"),
		kong.Description("Inspect connector journals."),
	)
	if err != nil {
		return err
	}
	kctx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	return kctx.Run(commandContext{Out: out})
}

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
