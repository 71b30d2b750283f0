// Package command implements the dispatcher that maps parsed command
// records to the inventory and search engines (spec.md §4.5): argument
// validation, login/privilege gating, and the sentinel error mapping
// that turns every business rejection into the bare `-1` reply.
package command

// Record is one parsed command: a name and its `-x value` options. No
// text parsing happens below this layer (SPEC_FULL.md §6.4) — the
// driver in internal/textline builds Records from raw lines.
type Record struct {
	Name string
	Opts map[byte]string
}

// Get returns the value for option letter x, if present.
func (r Record) Get(x byte) (string, bool) {
	v, ok := r.Opts[x]
	return v, ok
}

// Result is the dispatcher's structured reply: one or more lines, and
// whether the driver should stop reading further commands.
type Result struct {
	Lines    []string
	Shutdown bool
}

func single(line string) Result { return Result{Lines: []string{line}} }

func ok0() Result   { return single("0") }
func fail() Result  { return single("-1") }
