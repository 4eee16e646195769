package main

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Andrej220/go-utils/fastflow/metrics"
	"github.com/Andrej220/go-utils/fastflow/wordcount"
)

func newWordcountCmd(a *app) *cobra.Command {
	var top int
	cmd := &cobra.Command{
		Use:   "wordcount [file]",
		Short: "Count words of a file or stdin on the pool",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			if len(args) == 1 {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			lines, err := readLines(in)
			if err != nil {
				return err
			}

			e, err := a.executor(cmd.Context(), nil)
			if err != nil {
				return err
			}
			defer e.MustShutdown()

			counts, err := wordcount.CountParallel(cmd.Context(), e, lines, metrics.Default)
			if err != nil {
				return err
			}

			rows := wordcount.Sorted(counts)
			if top > 0 {
				rows = wordcount.Top(counts, top)
			}
			out := cmd.OutOrStdout()
			for _, r := range rows {
				fmt.Fprintf(out, "%s\t%d\n", r.Word, r.Count)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&top, "top", 0, "Print only the N most frequent words")
	return cmd
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return lines, nil
}
