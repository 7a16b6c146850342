package main

import (
	"fmt"
	"io"

	"github.com/davecgh/go-spew/spew"
	"github.com/james-see/midi2strudel/pkg/converter"
	"github.com/spf13/cobra"
)

var dumper = spew.ConfigState{
	Indent:                  "  ",
	DisablePointerAddresses: true,
	DisableCapacities:       true,
	SortKeys:                true,
}

func runInspect(cmd *cobra.Command, args []string) error {
	input, err := getInputPath(args)
	if err != nil {
		return err
	}

	score, err := converter.ReadScoreFile(input)
	if err != nil {
		return err
	}
	return inspect(cmd.OutOrStdout(), input, score)
}

func inspect(w io.Writer, name string, score *converter.Score) error {
	tempo, err := converter.ResolveTempo(score)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "file: %s\n", name)
	fmt.Fprintf(w, "ticks per beat: %d\n", score.TicksPerBeat)
	fmt.Fprintf(w, "bpm: %.2f (setcpm(%s))\n", tempo.BPM, tempo)
	for _, m := range score.Meters {
		fmt.Fprintf(w, "meter: %d/%d at tick %d\n", m.Numerator, m.Denominator, m.Tick)
	}
	for _, t := range score.Tracks {
		fmt.Fprintf(w, "track %d %q: %d notes\n", t.Index, t.Name, len(t.Notes))
	}
	if verbose {
		dumper.Fdump(w, score.Tracks)
	}
	return nil
}
