package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/hokaccha/go-prettyjson"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/askiada/camp-builder/internal/tools"
)

// ErrNoStepConfig is returned when --step-config is used with a tool that generates no step.
var ErrNoStepConfig = errors.New("tool output has no step configuration")

type callOptions struct {
	args       string
	raw        bool
	stepConfig bool
}

func (a *app) callCmd() *cobra.Command {
	opts := &callOptions{}

	cmd := &cobra.Command{
		Use:   "call <tool>",
		Short: "Run a tool once and print its output",
		Example: `  camp-builder call input --args '{"attribute_name":"alcohol_content"}'
  echo '{"mode":"batch"}' | camp-builder call explain_modes --args -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.call(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVar(&opts.args, "args", "{}", "tool arguments as a JSON object, - to read them from stdin")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "print the output without colours")
	cmd.Flags().BoolVar(&opts.stepConfig, "step-config", false, "print only the generated step configuration")

	return cmd
}

func (a *app) call(cmd *cobra.Command, name string, opts *callOptions) error {
	args := []byte(opts.args)
	if opts.args == "-" {
		var err error

		args, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return errors.Wrap(err, "unable to read arguments")
		}
	}

	text, err := a.dispatcher().Call(cmd.Context(), name, json.RawMessage(args))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	if opts.stepConfig {
		cfg, ok := tools.ExtractStepConfig(text)
		if !ok {
			return errors.Wrapf(ErrNoStepConfig, "%s", name)
		}

		return printJSON(out, cfg, opts.raw)
	}

	return printText(out, text, opts.raw)
}

func jsonFormatter(raw bool) *prettyjson.Formatter {
	return &prettyjson.Formatter{
		KeyColor:      color.New(color.FgBlue),
		StringColor:   color.New(color.FgGreen),
		BoolColor:     color.New(color.FgYellow),
		NumberColor:   color.New(color.FgCyan),
		NullColor:     color.New(color.FgHiBlack),
		DisabledColor: raw,
		Indent:        2,
		Newline:       "\n",
	}
}

func printJSON(w io.Writer, doc []byte, raw bool) error {
	formatted, err := jsonFormatter(raw).Format(doc)
	if err != nil {
		return errors.Wrap(err, "unable to format json")
	}

	_, err = fmt.Fprintln(w, string(formatted))

	return errors.Wrap(err, "unable to write output")
}

// printText highlights the heading and confirmation lines of a tool output.
func printText(w io.Writer, text string, raw bool) error {
	if raw {
		_, err := io.WriteString(w, text)

		return errors.Wrap(err, "unable to write output")
	}

	heading := color.New(color.FgCyan, color.Bold)
	done := color.New(color.FgGreen)

	for _, line := range strings.SplitAfter(text, "\n") {
		var err error

		switch {
		case strings.HasPrefix(line, "#"):
			_, err = heading.Fprint(w, line)
		case strings.HasPrefix(line, "✓"):
			_, err = done.Fprint(w, line)
		default:
			_, err = io.WriteString(w, line)
		}

		if err != nil {
			return errors.Wrap(err, "unable to write output")
		}
	}

	return nil
}
