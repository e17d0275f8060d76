// Package cli is a line-oriented terminal front end for the chat client.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/RichardoC/padchat/internal/chat"
	"github.com/RichardoC/padchat/internal/models"
	"github.com/RichardoC/padchat/internal/ui"
)

const helpText = `Type a message to send it. Commands:
  /new              start a new conversation
  /list             list conversations
  /open <n|id>      open conversation by list position or id
  /models           list models
  /model <name>     select a model
  /system [text]    set (or clear) the system prompt
  /temp <value>     set the temperature
  /show             print the current transcript
  /help             show this help
  /quit             exit`

// REPL reads commands and messages from in and writes the transcript to out.
type REPL struct {
	app    *chat.App
	out    io.Writer
	logger *zap.Logger
}

func New(app *chat.App, out io.Writer, logger *zap.Logger) *REPL {
	r := &REPL{app: app, out: out, logger: logger}
	app.Page.Transcript.OnChange(r.onTranscript)
	return r
}

func (r *REPL) onTranscript(ev ui.Event) {
	switch ev.Kind {
	case ui.EventCleared:
		fmt.Fprintf(r.out, "── %s ──\n", r.app.Page.Form.Title())
	case ui.EventAppended, ui.EventReplaced:
		fmt.Fprintf(r.out, "%s> %s\n", ev.Entry.Role, ev.Entry.Content)
	}
}

// Run processes lines until in is exhausted, /quit is entered or ctx ends.
func (r *REPL) Run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(r.out, `padchat ready, /help for commands`)
	scanner := bufio.NewScanner(in)
	for {
		r.prompt()
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		quit, err := r.Handle(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
		if quit {
			return nil
		}
	}
}

func (r *REPL) prompt() {
	title := r.app.Page.Form.Title()
	if title == "" {
		title = "no conversation"
	}
	fmt.Fprintf(r.out, "[%s | %s | t=%s] ", title, r.app.Page.Form.Settings().Model, r.app.Page.Form.TemperatureReadout())
}

// Handle executes a single input line. It reports whether the user asked to quit.
func (r *REPL) Handle(ctx context.Context, line string) (bool, error) {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, "/") {
		return false, r.send(ctx, line)
	}

	cmd, arg, _ := strings.Cut(trimmed, " ")
	arg = strings.TrimSpace(arg)
	form := r.app.Page.Form

	switch cmd {
	case "/quit", "/exit":
		return true, nil
	case "/help":
		fmt.Fprintln(r.out, helpText)
	case "/new":
		_, err := r.app.Controller.NewChat(ctx)
		return false, err
	case "/list":
		r.printList()
	case "/open":
		id, err := r.resolve(arg)
		if err != nil {
			return false, err
		}
		return false, r.app.Directory.Select(ctx, id)
	case "/models":
		current := form.Settings().Model
		for _, m := range form.ModelOptions() {
			marker := " "
			if m == current {
				marker = "*"
			}
			fmt.Fprintf(r.out, "%s %s\n", marker, m)
		}
	case "/model":
		return false, form.SelectModel(arg)
	case "/system":
		return false, form.SetSystemPrompt(arg)
	case "/temp":
		v, err := strconv.ParseFloat(arg, 64)
		if err != nil {
			return false, fmt.Errorf("invalid temperature %q", arg)
		}
		if err := form.SetTemperature(v); err != nil {
			return false, err
		}
		fmt.Fprintf(r.out, "temperature %s\n", form.TemperatureReadout())
	case "/show":
		fmt.Fprint(r.out, r.app.Page.Transcript.Text())
	default:
		return false, fmt.Errorf("unknown command %s, try /help", cmd)
	}
	return false, nil
}

func (r *REPL) send(ctx context.Context, line string) error {
	if err := r.app.Page.Form.SetInput(line); err != nil {
		return err
	}
	res, err := r.app.Pipeline.Submit(ctx)
	if errors.Is(err, chat.ErrSendInFlight) {
		return errors.New("still waiting for the previous reply")
	}
	if err != nil {
		return err
	}
	if res.Outcome != chat.OutcomeIgnored {
		r.logger.Debug("Send finished",
			zap.String("attempt", res.Attempt),
			zap.Stringer("outcome", res.Outcome))
	}
	return nil
}

func (r *REPL) printList() {
	items := r.app.Page.Sidebar.Items()
	if len(items) == 0 {
		fmt.Fprintln(r.out, ui.EmptyDirectoryText)
		return
	}
	for i, it := range items {
		marker := " "
		if it.Active {
			marker = "*"
		}
		fmt.Fprintf(r.out, "%s %d. %s (%s)\n", marker, i+1, it.Title, it.ID)
	}
}

// resolve maps a 1-based list position, or else a raw id, to a conversation id.
func (r *REPL) resolve(arg string) (models.ConversationID, error) {
	if arg == "" {
		return "", errors.New("usage: /open <n|id>")
	}
	items := r.app.Page.Sidebar.Items()
	if n, err := strconv.Atoi(arg); err == nil && n >= 1 && n <= len(items) {
		return items[n-1].ID, nil
	}
	for _, it := range items {
		if string(it.ID) == arg {
			return it.ID, nil
		}
	}
	return "", fmt.Errorf("no conversation %q", arg)
}
