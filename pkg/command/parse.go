package command

import (
	"strconv"
	"strings"

	"ticketcore/pkg/apperr"
	"ticketcore/pkg/railtime"
)

func parseInt(name string, s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, apperr.Arg("bad_int", "%s: %q is not an integer", name, s)
	}
	return n, nil
}

func parseBool(name string, s string, def bool) (bool, error) {
	switch s {
	case "":
		return def, nil
	case "true":
		return true, nil
	case "false":
		return false, nil
	default:
		return false, apperr.Arg("bad_bool", "%s: %q is not true/false", name, s)
	}
}

func splitPipe(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, "|")
}

func parseIntList(name, s string) ([]int, error) {
	parts := splitPipe(s)
	out := make([]int, len(parts))
	for i, p := range parts {
		n, err := parseInt(name, p)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}

func parseDateRange(s string) (railtime.Minute, railtime.Minute, error) {
	parts := strings.Split(s, "|")
	if len(parts) != 2 {
		return 0, 0, apperr.Arg("bad_date_range", "%q is not MM-DD|MM-DD", s)
	}
	start, err := railtime.ParseDate(parts[0])
	if err != nil {
		return 0, 0, apperr.Arg("bad_date_range", "%v", err)
	}
	end, err := railtime.ParseDate(parts[1])
	if err != nil {
		return 0, 0, apperr.Arg("bad_date_range", "%v", err)
	}
	return start, end, nil
}

func parseSortKeyOpt(s string, present bool) (byte, error) {
	if !present || s == "" || s == "time" {
		return 't', nil
	}
	if s == "cost" {
		return 'c', nil
	}
	return 0, apperr.Arg("bad_sort_key", "%q is not time/cost", s)
}
