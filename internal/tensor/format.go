package tensor

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrFormat is returned for text that is not a well formed snapshot.
var ErrFormat = errors.New("malformed tensor text")

const (
	gameTag   = "Game Tensor"
	cityTag   = "City Tensor"
	routeTag  = "Route Tensor"
	playerTag = "Player Tensor"
)

// String renders the snapshot as its four tagged lines.
func (s *Snapshot) String() string {
	var b strings.Builder
	_, _ = s.WriteTo(&b)
	return b.String()
}

// WriteTo writes the snapshot's four lines to w.
func (s *Snapshot) WriteTo(w io.Writer) (int64, error) {
	var total int64
	for _, line := range []struct {
		tag    string
		values []int
	}{
		{gameTag, s.Game},
		{cityTag, s.Cities},
		{routeTag, s.Routes},
		{playerTag, s.Players},
	} {
		n, err := io.WriteString(w, line.tag+": "+join(line.values)+"\n")
		total += int64(n)
		if err != nil {
			return total, errors.Wrap(err, "write tensor")
		}
	}
	return total, nil
}

func join(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.Itoa(v)
	}
	return strings.Join(parts, ",")
}

// Parse reads one snapshot from text.
func Parse(text string) (*Snapshot, error) {
	all, err := ReadAll(strings.NewReader(text))
	if err != nil {
		return nil, err
	}
	if len(all) != 1 {
		return nil, errors.Wrapf(ErrFormat, "want one snapshot, found %d", len(all))
	}
	return all[0], nil
}

// ReadAll reads every snapshot in r. Blank lines are ignored; each
// snapshot must list its four lines in order.
func ReadAll(r io.Reader) ([]*Snapshot, error) {
	var (
		out  []*Snapshot
		cur  *Snapshot
		next int
	)
	tags := []string{gameTag, cityTag, routeTag, playerTag}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		tag, body, ok := strings.Cut(line, ":")
		if !ok || strings.TrimSpace(tag) != tags[next] {
			return nil, errors.Wrapf(ErrFormat, "line %d: expected %q", lineNo, tags[next])
		}
		values, err := parseInts(body)
		if err != nil {
			return nil, errors.Wrapf(ErrFormat, "line %d: %v", lineNo, err)
		}

		switch next {
		case 0:
			cur = &Snapshot{Game: values}
		case 1:
			cur.Cities = values
		case 2:
			cur.Routes = values
		case 3:
			cur.Players = values
			out = append(out, cur)
		}
		next = (next + 1) % len(tags)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.Wrap(err, "read tensor")
	}
	if next != 0 {
		return nil, errors.Wrapf(ErrFormat, "truncated snapshot, missing %q", tags[next])
	}
	return out, nil
}

func parseInts(body string) ([]int, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return []int{}, nil
	}
	fields := strings.Split(body, ",")
	values := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}
