package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/mcncl/jsoncmp/internal/diff"
	"github.com/mcncl/jsoncmp/internal/errors"
	"github.com/mcncl/jsoncmp/internal/formatter"
	"github.com/mcncl/jsoncmp/internal/linediff"
	"github.com/mcncl/jsoncmp/internal/models"
	"github.com/mcncl/jsoncmp/internal/parser"
	"github.com/mcncl/jsoncmp/internal/patch"
	"github.com/mcncl/jsoncmp/internal/pipeline"
	"github.com/mcncl/jsoncmp/internal/render"
	"github.com/mcncl/jsoncmp/internal/transfer"
	"github.com/mcncl/jsoncmp/internal/watch"
	"go.uber.org/zap"
)

// stdinPath selects stdin instead of a file
const stdinPath = "-"

// CompareCmd prints the structural diff and the missing-key lists
type CompareCmd struct {
	Left        string `arg:"" help:"Left JSON file, or '-' for stdin."`
	Right       string `arg:"" help:"Right JSON file, or '-' for stdin."`
	Output      string `help:"Output format." short:"o" enum:"text,json" default:"text"`
	ShowIDs     bool   `help:"Show section ids next to every node." name:"show-ids"`
	Collapse    string `help:"Comma separated section ids whose children are hidden."`
	CollapseAll bool   `help:"Hide the children of every node." name:"collapse-all"`
	ExitCode    bool   `help:"Exit with status 1 when the documents differ." name:"exit-code"`
	Clipboard   bool   `help:"Also write the rendered result to the system clipboard."`
}

func (c *CompareCmd) Run(ctx *Context) error {
	result, err := ctx.compare(c.Left, c.Right)
	if err != nil {
		return err
	}

	var out string
	if c.Output == "json" {
		raw, err := render.JSON(result)
		if err != nil {
			return err
		}
		out = string(raw)
	} else {
		if err := result.Err(); err != nil {
			return err
		}
		collapsed, err := render.ParseCollapse(c.Collapse)
		if err != nil {
			return err
		}
		r := render.New(render.Options{
			Color:          ctx.Config.Render.Color,
			ShowSectionIDs: ctx.Config.Render.ShowSectionIDs,
			Indent:         ctx.Config.Render.Indent,
			Collapsed:      collapsed,
			CollapseAll:    c.CollapseAll,
		})
		out = r.Result(result) + "\n"
	}

	if err := ctx.write(out); err != nil {
		return err
	}
	// Parse errors are part of the JSON output but still fail the command
	if err := result.Err(); err != nil {
		return err
	}
	ctx.deliver("comparison", strings.TrimRight(out, "\n"))

	if c.ExitCode && !result.Empty && (diff.HasDifferences(result.Diff) || !result.Missing.Empty()) {
		return errDifferences
	}
	return nil
}

// MissingCmd prints only the missing-key lists
type MissingCmd struct {
	Left   string `arg:"" help:"Left JSON file, or '-' for stdin."`
	Right  string `arg:"" help:"Right JSON file, or '-' for stdin."`
	Output string `help:"Output format." short:"o" enum:"text,json" default:"text"`
	List   string `help:"Missing-key lists to print." short:"l" enum:"both,missing-in-left,missing-in-right" default:"both"`
}

func (c *MissingCmd) Run(ctx *Context) error {
	result, err := ctx.compareStrict(c.Left, c.Right)
	if err != nil {
		return err
	}

	if c.Output == "json" {
		raw, err := render.JSON(result.Missing)
		if err != nil {
			return err
		}
		return ctx.write(string(raw))
	}
	if c.List != "" && c.List != "both" {
		list, err := transfer.ParseList(c.List)
		if err != nil {
			return err
		}
		return ctx.write(ctx.renderer().KeyList(list.Title(), list.Paths(result.Missing)) + "\n")
	}
	return ctx.write(ctx.renderer().Missing(result.Missing) + "\n")
}

// CopyCmd copies the value of one missing key
type CopyCmd struct {
	Left      string `arg:"" help:"Left JSON file, or '-' for stdin."`
	Right     string `arg:"" help:"Right JSON file, or '-' for stdin."`
	Key       string `help:"Key path to copy, for example a.b[0].c." short:"k" required:""`
	Direction string `help:"Which way the key is copied." enum:"left-to-right,right-to-left" default:"left-to-right"`
	Clipboard bool   `help:"Also write the fragment to the system clipboard."`
}

func (c *CopyCmd) Run(ctx *Context) error {
	dir, err := transfer.ParseDirection(c.Direction)
	if err != nil {
		return err
	}
	result, err := ctx.compareStrict(c.Left, c.Right)
	if err != nil {
		return err
	}

	copier := transfer.NewCopier(ctx.Config.Copy.Indent, ctx.Logger)
	payload, err := copier.CopyKey(c.Key, dir, result.Left, result.Right)
	if err != nil {
		return err
	}
	if err := ctx.write(payload + "\n"); err != nil {
		return err
	}
	ctx.deliver(fmt.Sprintf("key %q", c.Key), payload)
	return nil
}

// CopyAllCmd copies every key of one missing-key list
type CopyAllCmd struct {
	Left      string `arg:"" help:"Left JSON file, or '-' for stdin."`
	Right     string `arg:"" help:"Right JSON file, or '-' for stdin."`
	List      string `help:"Missing-key list to copy." short:"l" enum:"missing-in-left,missing-in-right" default:"missing-in-left"`
	Clipboard bool   `help:"Also write the object to the system clipboard."`
}

func (c *CopyAllCmd) Run(ctx *Context) error {
	list, err := transfer.ParseList(c.List)
	if err != nil {
		return err
	}
	result, err := ctx.compareStrict(c.Left, c.Right)
	if err != nil {
		return err
	}

	copier := transfer.NewCopier(ctx.Config.Copy.Indent, ctx.Logger)
	bulk, err := copier.CopyAll(list, result.Missing, result.Left, result.Right)
	if err != nil {
		return err
	}
	if err := ctx.write(bulk.Payload + "\n"); err != nil {
		return err
	}

	summary := fmt.Sprintf("Copied %d keys", len(bulk.Copied))
	if len(bulk.Skipped) > 0 {
		summary += fmt.Sprintf(", skipped %d: %s", len(bulk.Skipped), strings.Join(bulk.Skipped, ", "))
	}
	if len(bulk.Collisions) > 0 {
		summary += fmt.Sprintf(", duplicate names: %s", strings.Join(bulk.Collisions, ", "))
	}
	fmt.Fprintln(ctx.Stderr, summary)

	ctx.deliver(fmt.Sprintf("%d keys", len(bulk.Copied)), bulk.Payload)
	return nil
}

// FormatCmd pretty prints or compacts one document
type FormatCmd struct {
	File     string `arg:"" help:"JSON file, or '-' for stdin."`
	Indent   int    `help:"Spaces per indentation level." short:"i"`
	SortKeys bool   `help:"Sort object keys." name:"sort-keys"`
	Compact  bool   `help:"Remove all insignificant whitespace."`
	Array    bool   `help:"Reject documents whose root is not an array."`
}

func (c *FormatCmd) Run(ctx *Context) error {
	text, err := ctx.read(c.File)
	if err != nil {
		return err
	}

	if c.Array {
		root, err := parser.ParseString(text)
		if err != nil {
			return err
		}
		if kind := models.TypeOf(root); kind != models.Array {
			return errors.NewFormatError(fmt.Sprintf("expected a JSON array, got %s", kind), nil)
		}
	}

	f := formatter.NewFormatter(formatter.Options{
		Indent:   ctx.Config.Format.Indent,
		SortKeys: ctx.Config.Format.SortKeys,
		Compact:  c.Compact,
	})
	out, err := f.Format(text)
	if err != nil {
		return err
	}
	return ctx.write(out)
}

// LinesCmd prints a line diff of both pretty printed documents
type LinesCmd struct {
	Left     string `arg:"" help:"Left JSON file, or '-' for stdin."`
	Right    string `arg:"" help:"Right JSON file, or '-' for stdin."`
	SortKeys bool   `help:"Sort object keys before diffing." name:"sort-keys"`
}

func (c *LinesCmd) Run(ctx *Context) error {
	result, err := ctx.compareStrict(c.Left, c.Right)
	if err != nil {
		return err
	}

	engine := linediff.NewEngine(formatter.Options{
		Indent:   ctx.Config.Format.Indent,
		SortKeys: ctx.Config.Format.SortKeys,
	})
	lines, err := engine.Compare(result.Left, result.Right)
	if err != nil {
		return err
	}
	return ctx.write(ctx.renderer().Lines(lines) + "\n")
}

// PatchCmd prints an RFC 6902 patch from left to right
type PatchCmd struct {
	Left       string `arg:"" help:"Left JSON file, or '-' for stdin."`
	Right      string `arg:"" help:"Right JSON file, or '-' for stdin."`
	Invertible bool   `help:"Precede removals and replacements with test operations."`
}

func (c *PatchCmd) Run(ctx *Context) error {
	result, err := ctx.compareStrict(c.Left, c.Right)
	if err != nil {
		return err
	}

	ops, err := patch.Diff(result.Left, result.Right, patch.Options{Invertible: ctx.Config.Patch.Invertible})
	if err != nil {
		return err
	}
	ctx.Logger.Debug("computed patch", zap.Int("operations", len(ops)))

	encoded, err := patch.Encode(ops)
	if err != nil {
		return err
	}
	return ctx.write(string(encoded))
}

// ApplyCmd applies a patch file to a document
type ApplyCmd struct {
	Doc   string `arg:"" help:"JSON document, or '-' for stdin."`
	Patch string `arg:"" help:"JSON Patch file, or '-' for stdin."`
}

func (c *ApplyCmd) Run(ctx *Context) error {
	docText, patchText, err := ctx.readPair(c.Doc, c.Patch)
	if err != nil {
		return err
	}

	doc, err := parser.ParseSide(models.Left, docText)
	if err != nil {
		return err
	}
	patched, err := patch.Apply(doc, []byte(patchText))
	if err != nil {
		return err
	}

	f := formatter.NewFormatter(formatter.Options{
		Indent:   ctx.Config.Format.Indent,
		SortKeys: ctx.Config.Format.SortKeys,
	})
	out, err := f.FormatValue(patched)
	if err != nil {
		return err
	}
	return ctx.write(out + "\n")
}

// WatchCmd re-runs the comparison on every change to either file
type WatchCmd struct {
	Left     string        `arg:"" help:"Left JSON file." type:"path"`
	Right    string        `arg:"" help:"Right JSON file." type:"path"`
	Debounce time.Duration `help:"Quiet period before comparing, for example 250ms."`
	ShowIDs  bool          `help:"Show section ids next to every node." name:"show-ids"`
}

func (c *WatchCmd) Run(ctx *Context) error {
	if c.Left == stdinPath || c.Right == stdinPath {
		return errors.NewInputError("watch mode needs two files", errors.ErrInvalidFilePath)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	r := ctx.renderer()
	session := pipeline.NewSession(pipeline.New(ctx.Logger), ctx.Config.Debounce, func(result *pipeline.Result) {
		stamp := time.Now().Format("15:04:05")
		_ = ctx.write(fmt.Sprintf("--- %s\n%s\n\n", stamp, r.Result(result)))
	})
	defer session.Close()

	w, err := watch.New(c.Left, c.Right, session, ctx.Logger)
	if err != nil {
		return err
	}
	fmt.Fprintf(ctx.Stderr, "Watching %s and %s, press Ctrl+C to stop\n", c.Left, c.Right)
	return w.Run(sigCtx)
}

// renderer builds a text renderer from the render config
func (c *Context) renderer() *render.Renderer {
	return render.New(render.Options{
		Color:          c.Config.Render.Color,
		ShowSectionIDs: c.Config.Render.ShowSectionIDs,
		Indent:         c.Config.Render.Indent,
	})
}

// compare reads both documents and runs the pipeline
func (c *Context) compare(leftPath, rightPath string) (*pipeline.Result, error) {
	leftText, rightText, err := c.readPair(leftPath, rightPath)
	if err != nil {
		return nil, err
	}
	return pipeline.New(c.Logger).Run(leftText, rightText), nil
}

// compareStrict is compare for commands that need two parsed documents
func (c *Context) compareStrict(leftPath, rightPath string) (*pipeline.Result, error) {
	result, err := c.compare(leftPath, rightPath)
	if err != nil {
		return nil, err
	}
	if err := result.Err(); err != nil {
		return nil, err
	}
	if result.Empty {
		return nil, errors.NewInputError("both documents are required", errors.ErrEmptyInput)
	}
	return result, nil
}

// readPair reads two inputs; at most one of them may be stdin
func (c *Context) readPair(leftPath, rightPath string) (string, string, error) {
	if leftPath == stdinPath && rightPath == stdinPath {
		return "", "", errors.NewInputError("both documents cannot be read from stdin", errors.ErrStdinTwice)
	}
	left, err := c.read(leftPath)
	if err != nil {
		return "", "", err
	}
	right, err := c.read(rightPath)
	if err != nil {
		return "", "", err
	}
	return left, right, nil
}

// read returns the text of a file, or of stdin for "-"
func (c *Context) read(path string) (string, error) {
	if path != stdinPath {
		data, err := parser.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}

	// Refuse to block on an interactive terminal
	if f, ok := c.Stdin.(*os.File); ok {
		if info, err := f.Stat(); err == nil && info.Mode()&os.ModeCharDevice != 0 {
			return "", errors.NewInputError("no data piped to stdin", errors.ErrNoInput)
		}
	}

	data, err := io.ReadAll(c.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

func (c *Context) write(s string) error {
	if _, err := io.WriteString(c.Stdout, s); err != nil {
		return errors.NewOutputError("failed to write output", err)
	}
	return nil
}

// deliver writes a payload to the clipboard when enabled and reports the
// outcome on stderr
func (c *Context) deliver(what, payload string) {
	if !c.Config.Copy.Clipboard || c.Clipboard == nil {
		return
	}
	notice, ok := transfer.Deliver(c.Clipboard, what, payload)
	if !ok {
		c.Logger.Warn("clipboard write failed", zap.String("notice", notice))
	}
	fmt.Fprintln(c.Stderr, notice)
}
