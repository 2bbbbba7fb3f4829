// Command tapestat prints a summary of recorded session tapes.
package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"spirepilot/replay"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: tapestat <tape.jsonl> [more tapes...]")
		os.Exit(2)
	}

	exit := 0
	var tapes, complete, victories int
	for _, path := range os.Args[1:] {
		tape, err := replay.ReadTapeFile(path)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", path, err)
			exit = 1
			continue
		}
		st := replay.Stats(tape)
		printStats(path, st)
		tapes++
		if st.Complete {
			complete++
		}
		if st.Victory {
			victories++
		}
	}
	if tapes > 1 {
		fmt.Printf("\n%d tapes, %d complete, %d victories\n", tapes, complete, victories)
	}
	os.Exit(exit)
}

func printStats(path string, st replay.TapeStats) {
	class := st.Class
	if class == "" {
		class = "?"
	}
	outcome := "defeat"
	if st.Victory {
		outcome = "victory"
	}
	if !st.Complete {
		outcome = "crashed"
	}
	fmt.Printf("%s: %s %s floor=%d score=%d lines=%d (in=%d out=%d) duration=%s\n",
		path, class, outcome, st.Floor, st.Score, st.Entries, st.In, st.Out, st.Duration.Round(time.Second))
	if len(st.Verbs) > 0 {
		fmt.Printf("  verbs: %s\n", formatVerbs(st.Verbs))
	}
}

func formatVerbs(verbs map[string]int) string {
	type verbCount struct {
		verb  string
		count int
	}
	sorted := make([]verbCount, 0, len(verbs))
	for v, n := range verbs {
		sorted = append(sorted, verbCount{v, n})
	}
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].count != sorted[j].count {
			return sorted[i].count > sorted[j].count
		}
		return sorted[i].verb < sorted[j].verb
	})
	parts := make([]string, 0, len(sorted))
	for _, e := range sorted {
		parts = append(parts, fmt.Sprintf("%s=%d", e.verb, e.count))
	}
	return strings.Join(parts, " ")
}
