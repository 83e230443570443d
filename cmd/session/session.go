package session

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/tphakala/urbansound-go/cmd/app"
	"github.com/tphakala/urbansound-go/cmd/classify"
	"github.com/tphakala/urbansound-go/internal/errors"
	"github.com/tphakala/urbansound-go/internal/logger"
	"github.com/tphakala/urbansound-go/internal/output"
	"github.com/tphakala/urbansound-go/internal/session"
)

const helpText = `Commands:
  select <sample>  make a sample current
  play             play the current sample
  stop             stop playback
  classify         classify the current sample in the background
  status           show selection, playback and classification state
  list             list the samples
  help             show this help
  quit             leave the session`

// Command creates the interactive session command reading commands from stdin
func Command(ctx *app.Context) *cobra.Command {
	return &cobra.Command{
		Use:         "session",
		Short:       "Interactive session: select, play and classify samples",
		Long:        "Reads one command per line from standard input.\n\n" + helpText,
		Args:        cobra.NoArgs,
		Annotations: map[string]string{app.AnnotationNeeds: "model,playback"},
		RunE: func(cmd *cobra.Command, args []string) error {
			r := &repl{
				cmd:     cmd,
				session: ctx.App.Session,
				names:   ctx.App.Catalog.DisplayNames(),
				format:  ctx.Settings.Output.Format,
				out:     cmd.OutOrStdout(),
			}
			return r.run(cmd.Context(), cmd.InOrStdin())
		},
	}
}

// controller is the part of session.Session the loop drives
type controller interface {
	Select(name string) error
	Play(ctx context.Context) error
	Stop() error
	ClassifyAsync(ctx context.Context, callback func(session.Outcome)) error
	Status() session.Status
	Wait()
}

type repl struct {
	cmd     *cobra.Command
	session controller
	names   []string
	format  string

	mu  sync.Mutex // serializes writes to out
	out io.Writer
}

func (r *repl) printf(format string, args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	fmt.Fprintf(r.out, format, args...)
}

// run reads commands from in until quit, end of input or cancellation. A
// classification still running on return is canceled and waited for.
func (r *repl) run(ctx context.Context, in io.Reader) error {
	defer r.session.Wait()
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	lines := make(chan string)
	scanErr := make(chan error, 1)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
		scanErr <- scanner.Err()
	}()

	r.printf("%d samples loaded, type help for commands\n", len(r.names))

	for {
		select {
		case <-ctx.Done():
			return nil
		case line, ok := <-lines:
			if !ok {
				select {
				case err := <-scanErr:
					return err
				default:
					return nil
				}
			}
			if quit := r.handle(ctx, line); quit {
				return nil
			}
		}
	}
}

// handle runs one command line, reporting failures as notices
func (r *repl) handle(ctx context.Context, line string) (quit bool) {
	verb, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	var err error
	switch strings.ToLower(verb) {
	case "":
	case "select":
		if arg == "" {
			r.printf("usage: select <sample>\n")
			return false
		}
		if err = r.session.Select(arg); err == nil {
			r.printf("selected %s\n", arg)
		}
	case "play":
		err = r.session.Play(ctx)
	case "stop":
		err = r.session.Stop()
	case "classify":
		err = r.classify(ctx)
	case "status":
		err = r.write(r.session.Status())
	case "list":
		err = r.write(output.List{Title: "Sample", Items: r.names})
	case "help":
		r.printf("%s\n", helpText)
	case "quit", "exit":
		return true
	default:
		r.printf("unknown command %q, type help for commands\n", verb)
	}

	if err != nil {
		r.printf("%s\n", notice(err))
	}
	return false
}

func (r *repl) classify(ctx context.Context) error {
	traceID := uuid.NewString()
	ctx = logger.WithTraceID(ctx, traceID)

	err := r.session.ClassifyAsync(ctx, func(o session.Outcome) {
		if o.Err != nil {
			r.printf("%s: %s\n", o.Name, notice(o.Err))
			return
		}
		r.mu.Lock()
		defer r.mu.Unlock()
		if err := classify.Print(r.cmd, r.format, o.Name, o.Result); err != nil {
			fmt.Fprintf(r.out, "%s\n", notice(err))
		}
	})
	if err == nil {
		r.printf("classifying (%s)\n", traceID[:8])
	}
	return err
}

func (r *repl) write(v any) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.format == output.FormatTable || r.format == "" {
		if _, ok := v.(output.Tabular); !ok {
			return output.Write(r.out, output.FormatYAML, v)
		}
	}
	return output.Write(r.out, r.format, v)
}

// notice turns an error into a one-line message for the user
func notice(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "canceled"
	case errors.Is(err, session.ErrBusy):
		return "busy: a classification is already running"
	case errors.Is(err, session.ErrNoSelection):
		return "no sample selected, use select <sample>"
	case errors.IsNotFound(err):
		return "not found: " + err.Error()
	default:
		return "error: " + err.Error()
	}
}
