package cmd_repl

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/google/shlex"
	"github.com/rskv-p/searchlab/pkg/x_hash"
	"github.com/rskv-p/searchlab/pkg/x_search"
	"github.com/rskv-p/searchlab/servs/s_search/search_serv"
)

// errQuit ends Run.
var errQuit = errors.New("quit")

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#42be65"))
	errStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#fa4d56"))
	headStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle = lipgloss.NewStyle().Padding(0, 1)
)

const help = `commands:
  use <kind>                          switch structure
  create <size> [digits] [m|bucket]   allocate the current structure
  insert <key> | search <key> | delete <key>
  state | nodes | sort
  hash <mod|square|truncation|folding> [positions|group] [sum|mul] [--rehash]
  collision <linear|quadratic|double|chaining> [second hash]
  quit`

// Shell runs commands against an in-process service.
type Shell struct {
	svc  *search_serv.Service
	kind search_serv.Kind
	out  io.Writer
}

func NewShell(svc *search_serv.Service, kind search_serv.Kind, out io.Writer) *Shell {
	return &Shell{svc: svc, kind: kind, out: out}
}

// Kind is the structure commands apply to.
func (s *Shell) Kind() search_serv.Kind { return s.kind }

// Run reads commands until EOF or quit. prompt is printed before each line
// when non-empty.
func (s *Shell) Run(in io.Reader, prompt bool) error {
	sc := bufio.NewScanner(in)
	for {
		if prompt {
			fmt.Fprintf(s.out, "%s> ", s.kind)
		}
		if !sc.Scan() {
			return sc.Err()
		}
		err := s.Exec(sc.Text())
		if errors.Is(err, errQuit) {
			return nil
		}
		if err != nil {
			fmt.Fprintln(s.out, errStyle.Render("error: "+err.Error()))
		}
	}
}

// Exec runs one command line.
func (s *Shell) Exec(line string) error {
	args, err := shlex.Split(line)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return nil
	}
	cmd, args := strings.ToLower(args[0]), args[1:]

	switch cmd {
	case "quit", "exit":
		return errQuit
	case "help", "?":
		fmt.Fprintln(s.out, help)
		return nil
	case "use":
		if len(args) != 1 {
			return fmt.Errorf("usage: use <kind>")
		}
		k, err := search_serv.ParseKind(args[0])
		if err != nil {
			return err
		}
		s.kind = k
		return nil
	case "create":
		return s.create(args)
	case "insert":
		if len(args) != 1 {
			return fmt.Errorf("usage: insert <key>")
		}
		res, err := s.svc.Insert(s.kind, args[0])
		if err != nil {
			return err
		}
		msg := fmt.Sprintf("inserted %s at %d", res.Key, res.Position)
		if s.kind == search_serv.KindBinary {
			msg += fmt.Sprintf(", sorted to %v", res.Sorted)
		}
		s.ok(msg)
		return nil
	case "search", "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: %s <key>", cmd)
		}
		var key string
		var pos []int
		if cmd == "search" {
			key, pos, err = s.svc.Search(s.kind, args[0])
		} else {
			key, pos, err = s.svc.Delete(s.kind, args[0])
		}
		if err != nil {
			return err
		}
		if len(pos) == 0 {
			s.ok(key + " not found")
		} else {
			s.ok(fmt.Sprintf("%s %v", key, pos))
		}
		return nil
	case "state":
		st, err := s.svc.State(s.kind)
		if err != nil {
			return err
		}
		fmt.Fprintln(s.out, RenderState(st))
		return nil
	case "nodes":
		view, err := s.svc.Nodes(s.kind)
		if err != nil {
			return err
		}
		fmt.Fprint(s.out, view.Dump)
		return nil
	case "sort":
		if err := s.svc.Sort(s.kind); err != nil {
			return err
		}
		s.ok("sorted")
		return nil
	case "hash":
		return s.hash(args)
	case "collision":
		if len(args) < 1 {
			return fmt.Errorf("usage: collision <type> [second hash]")
		}
		cfg := x_hash.CollisionConfig{Type: args[0]}
		if len(args) > 1 {
			cfg.SecondHashType = args[1]
		}
		if err := s.svc.SetCollision(cfg); err != nil {
			return err
		}
		s.ok("collision strategy " + cfg.Type)
		return nil
	default:
		return fmt.Errorf("unknown command %q, try help", cmd)
	}
}

func (s *Shell) ok(msg string) {
	fmt.Fprintln(s.out, okStyle.Render(msg))
}

func (s *Shell) create(args []string) error {
	if len(args) < 1 || len(args) > 3 {
		return fmt.Errorf("usage: create <size> [digits] [m|bucket size]")
	}
	n := make([]int, 3)
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return fmt.Errorf("%w: %q is not a number", x_search.ErrInvalidConfig, a)
		}
		n[i] = v
	}
	req := search_serv.CreateRequest{Size: n[0], Digits: n[1]}
	if s.kind == search_serv.KindBucket {
		req.BucketSize = n[2]
	} else {
		req.M = n[2]
	}
	st, err := s.svc.Create(s.kind, req)
	if err != nil {
		return err
	}
	s.ok(fmt.Sprintf("%s created: %d slots, %d digits", s.kind, st.Size, st.Digits))
	return nil
}

func (s *Shell) hash(args []string) error {
	rehash := false
	raw := map[string]any{}
	var rest []string
	for _, a := range args {
		if a == "--rehash" {
			rehash = true
			continue
		}
		rest = append(rest, a)
	}
	if len(rest) < 1 {
		return fmt.Errorf("usage: hash <type> [positions|group] [sum|mul]")
	}
	raw["type"] = rest[0]
	switch strings.ToLower(rest[0]) {
	case string(x_hash.Truncation):
		if len(rest) > 1 {
			raw["positions"] = rest[1]
		}
	case string(x_hash.Folding):
		if len(rest) > 1 {
			raw["group_size"] = rest[1]
		}
		if len(rest) > 2 {
			raw["operation"] = rest[2]
		}
	}
	fn, err := x_hash.DecodeFunction(raw)
	if err != nil {
		return err
	}
	if err := s.svc.SetHashFunction(fn, rehash); err != nil {
		return err
	}
	s.ok("hash function " + fn.String())
	return nil
}

// RenderState draws the occupied part of a structure as a table.
func RenderState(st x_search.State) string {
	if !st.Initialized() {
		return "not created"
	}
	var rows [][]string
	if st.Buckets != nil {
		for i, b := range st.Buckets {
			var keys []string
			for _, k := range b {
				if k != "" {
					keys = append(keys, k)
				}
			}
			if len(keys) > 0 {
				rows = append(rows, []string{strconv.Itoa(i + 1), strings.Join(keys, " ")})
			}
		}
	} else {
		tomb := make(map[int]bool, len(st.Tombstones))
		for _, p := range st.Tombstones {
			tomb[p] = true
		}
		for i, v := range st.Data {
			switch {
			case v != nil:
				rows = append(rows, []string{strconv.Itoa(i + 1), *v})
			case tomb[i+1]:
				rows = append(rows, []string{strconv.Itoa(i + 1), "(deleted)"})
			}
		}
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("#", "key").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headStyle
			}
			return cellStyle
		})
	title := fmt.Sprintf("size=%d digits=%d", st.Size, st.Digits)
	if st.Mode != "" {
		title += " mode=" + st.Mode
	}
	return title + "\n" + t.String()
}
