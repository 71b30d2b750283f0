// Package textline implements the engine's line-oriented framing: each
// input line carries an opaque timestamp token the dispatcher never
// interprets, a command name, and zero or more -x value pairs (spec.md
// §6). textline owns splitting the token off and re-attaching it to the
// reply; pkg/command never sees it.
package textline

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"ticketcore/pkg/apperr"
	"ticketcore/pkg/command"
)

// Parse splits one non-empty input line into its timestamp token and a
// command.Record. Blank lines are the caller's responsibility to skip.
func Parse(line string) (token string, rec command.Record, err error) {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return "", command.Record{}, apperr.Arg("bad_line", "line has fewer than 2 fields: %q", line)
	}
	token = fields[0]
	name := fields[1]
	rest := fields[2:]
	if len(rest)%2 != 0 {
		return "", command.Record{}, apperr.Arg("bad_line", "odd number of option tokens in %q", line)
	}

	opts := make(map[byte]string, len(rest)/2)
	for i := 0; i < len(rest); i += 2 {
		flag := rest[i]
		if len(flag) != 2 || flag[0] != '-' {
			return "", command.Record{}, apperr.Arg("bad_line", "expected -x flag, got %q", flag)
		}
		opts[flag[1]] = rest[i+1]
	}
	return token, command.Record{Name: name, Opts: opts}, nil
}

// Render joins a timestamp token and the dispatcher's reply lines the way
// the framing layer echoes them: the token prefixes only the first line.
func Render(token string, res command.Result) []string {
	if len(res.Lines) == 0 {
		return nil
	}
	out := make([]string, len(res.Lines))
	out[0] = token + " " + res.Lines[0]
	for i := 1; i < len(res.Lines); i++ {
		out[i] = res.Lines[i]
	}
	return out
}

// Run drives the dispatcher over r, writing framed replies to w until EOF
// or an "exit" command. It stops and returns the first fatal (non-core)
// error a handler reports; ordinary rejections are already folded into
// "-1" by the dispatcher and never reach here.
func Run(r io.Reader, w io.Writer, d *command.Dispatcher) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	bw := bufio.NewWriter(w)
	defer bw.Flush()

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		token, rec, err := Parse(line)
		if err != nil {
			fmt.Fprintln(bw, "-1")
			continue
		}
		res, err := d.Handle(rec)
		if err != nil {
			bw.Flush()
			return err
		}
		for _, l := range Render(token, res) {
			fmt.Fprintln(bw, l)
		}
		if res.Shutdown {
			break
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("textline: read input: %w", err)
	}
	return nil
}
