package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"divegraph/internal/divelog"
)

var errNoSelection = errors.New("no dive selected")

// promptDiveIndex lists the dives as "<index>. <depth>m" and reads an index
// from in, asking again until the answer names a dive or input ends. Only the
// exact listed index is accepted, so "01" and "+1" are rejected.
func promptDiveIndex(in io.Reader, out io.Writer, log *divelog.Log) (int, error) {
	if len(log.Entries) == 0 {
		return 0, divelog.ErrNoDives
	}
	for _, entry := range log.Entries {
		fmt.Fprintf(out, "%d. %dm\n", entry.Index, int(entry.Summary.MaxDepth))
	}

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "Which dive to show? (index): ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			if err := scanner.Err(); err != nil {
				return 0, err
			}
			return 0, errNoSelection
		}
		answer := strings.TrimSpace(scanner.Text())
		idx, err := strconv.Atoi(answer)
		if err == nil && answer == strconv.Itoa(idx) && idx >= 0 && idx < len(log.Entries) {
			return idx, nil
		}
		fmt.Fprintf(out, "Error: %q is not a valid choice.\n", answer)
	}
}
