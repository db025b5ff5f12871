package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// printlnFn and printFn are test seams for user-facing output.
var (
	printlnFn = fmt.Println
	printFn   = fmt.Print
)

const helpText = `Available commands:
  (l)ist              show the current page
  add                 add a new log at the top
  edit N              edit row N
  owner N [text]      set the owner of row N (prompts when text is omitted)
  text N [text]       set the log text of row N (prompts when text is omitted)
  save N              save row N
  cancel N            leave editing and reload all logs
  delete N            delete row N (asks for confirmation)
  reload              fetch all logs from the server
  page N | next | prev
  health              check the server
  export              upload a snapshot of all logs
  exit | quit`

// execIface is the command surface the REPL drives. App implements it;
// tests use a stub.
type execIface interface {
	List(ctx context.Context) error
	Add(ctx context.Context) error
	Edit(ctx context.Context, row int) error
	SetOwner(ctx context.Context, row int, value string) error
	SetText(ctx context.Context, row int, value string) error
	Save(ctx context.Context, row int) error
	Cancel(ctx context.Context, row int) error
	Delete(ctx context.Context, row int) error
	Reload(ctx context.Context) error
	GoToPage(ctx context.Context, page int) error
	NextPage(ctx context.Context) error
	PrevPage(ctx context.Context) error
	Health(ctx context.Context) error
	Export(ctx context.Context) error
}

// runREPL reads one command per line from reader and dispatches it to a.
// It returns on EOF or when the user types "exit" or "quit". Errors from
// handlers are ignored here; handlers report them to the user themselves.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printFn(fmt.Sprintf("logs (%s)> ", statusFn()))

		line, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return
		}
		line = strings.TrimRight(line, "\r\n")

		if quit := dispatch(ctx, a, line); quit {
			return
		}
		if err != nil {
			return
		}
	}
}

func dispatch(ctx context.Context, a execIface, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return false
	}
	cmd := parts[0]

	switch cmd {
	case "help":
		printlnFn(helpText)

	case "l", "list":
		_ = a.List(ctx)

	case "add":
		_ = a.Add(ctx)

	case "edit":
		if row, ok := rowArg(parts); ok {
			_ = a.Edit(ctx, row)
		}

	case "owner":
		if row, ok := rowArg(parts); ok {
			_ = a.SetOwner(ctx, row, afterFields(line, 2))
		}

	case "text":
		if row, ok := rowArg(parts); ok {
			_ = a.SetText(ctx, row, afterFields(line, 2))
		}

	case "save":
		if row, ok := rowArg(parts); ok {
			_ = a.Save(ctx, row)
		}

	case "cancel":
		if row, ok := rowArg(parts); ok {
			_ = a.Cancel(ctx, row)
		}

	case "delete":
		if row, ok := rowArg(parts); ok {
			_ = a.Delete(ctx, row)
		}

	case "reload":
		_ = a.Reload(ctx)

	case "page":
		if page, ok := rowArg(parts); ok {
			_ = a.GoToPage(ctx, page)
		}

	case "next":
		_ = a.NextPage(ctx)

	case "prev":
		_ = a.PrevPage(ctx)

	case "health":
		_ = a.Health(ctx)

	case "export":
		_ = a.Export(ctx)

	case "exit", "quit":
		printlnFn("Bye!")
		return true

	default:
		printlnFn("Unknown command:", cmd)
	}
	return false
}

// rowArg parses the number following the command.
func rowArg(parts []string) (int, bool) {
	if len(parts) < 2 {
		printlnFn(fmt.Sprintf("Usage: %s <number>", parts[0]))
		return 0, false
	}
	n, err := strconv.Atoi(parts[1])
	if err != nil {
		printlnFn("Not a number:", parts[1])
		return 0, false
	}
	return n, true
}

// afterFields returns line with its first n whitespace-separated fields
// removed, keeping the spacing of the remainder.
func afterFields(line string, n int) string {
	s := strings.TrimLeft(line, " \t")
	for i := 0; i < n; i++ {
		j := strings.IndexAny(s, " \t")
		if j < 0 {
			return ""
		}
		s = strings.TrimLeft(s[j:], " \t")
	}
	return s
}
