package driver

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"gopkg.in/yaml.v3"
)

type humanReport interface {
	writeHuman(w io.Writer) error
}

// Write renders report in the given format: "human", "json" or "yaml".
func Write(w io.Writer, format string, report any) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(report); err != nil {
			return fmt.Errorf("yaml encode: %w", err)
		}
		return enc.Close()
	case "human", "":
		h, ok := report.(humanReport)
		if !ok {
			return fmt.Errorf("no human format for %T", report)
		}
		return h.writeHuman(w)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}

func (r *ScriptReport) writeHuman(w io.Writer) error {
	fmt.Fprintf(w, "script %s (capacity %d, storage %s)\n\n", r.Name, r.Capacity, r.Storage)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "STEP\tRESULT\tNEL\tVALUES\tREADS\tWRITES")
	for _, s := range r.Steps {
		result := "-"
		if s.Result != nil {
			result = fmt.Sprint(*s.Result)
		}
		values := formatValues(s.Values)
		if s.Violation != "" {
			result, values = "FATAL", s.Violation
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%d\n", s.Step, result, s.Len, values, s.Metrics.Reads, s.Metrics.Writes)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nfinal: %s\n", r.Final)
	if r.Violation != "" {
		fmt.Fprintf(w, "stopped by violation, %d step(s) skipped\n", r.Skipped)
	}
	return nil
}

func (r *SearchReport) writeHuman(w io.Writer) error {
	fmt.Fprintf(w, "search comparison: %d elements, %d trial(s), storage %s\n\n", r.Size, len(r.Trials), r.Storage)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "TRIAL\tPRESENT\tABSENT\tLINEAR READS\tBINARY READS\t")
	for _, t := range r.Trials {
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t\n", t.Trial, t.Present, t.Absent, t.LinearReads, t.BinaryReads)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "\nreads per lookup: linear %.2f, binary %.2f\n", r.LinearPerLookup, r.BinaryPerLookup)
	return err
}

func formatValues(values []int32) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
