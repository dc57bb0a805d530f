// Package pipeline runs parse, compare and collect over a pair of JSON
// documents and debounces repeated runs while the documents are edited.
package pipeline

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mcncl/jsoncmp/internal/diff"
	"github.com/mcncl/jsoncmp/internal/errors"
	"github.com/mcncl/jsoncmp/internal/logging"
	"github.com/mcncl/jsoncmp/internal/missingkeys"
	"github.com/mcncl/jsoncmp/internal/models"
	"github.com/mcncl/jsoncmp/internal/parser"
	"go.uber.org/zap"
)

// Result is everything one comparison produced. While either document fails
// to parse, Diff is nil and both missing-key lists are empty.
type Result struct {
	ID      string             `json:"id"`
	Empty   bool               `json:"empty,omitempty"`
	Diff    diff.Node          `json:"diff,omitempty"`
	Missing missingkeys.Report `json:"missing"`

	LeftError  string `json:"left_error,omitempty"`
	RightError string `json:"right_error,omitempty"`
	Failure    string `json:"failure,omitempty"`

	Left  models.JSONValue `json:"-"`
	Right models.JSONValue `json:"-"`

	leftErr  error
	rightErr error
	failErr  error
}

// OK reports whether both documents parsed and were compared
func (r *Result) OK() bool {
	return !r.Empty && r.Diff != nil
}

// Err returns the parse failures of both sides, or the comparison failure
func (r *Result) Err() error {
	if r.failErr != nil {
		return r.failErr
	}
	return stderrors.Join(r.leftErr, r.rightErr)
}

// Pipeline compares document pairs
type Pipeline struct {
	logger  *zap.Logger
	compare func(left, right models.JSONValue) diff.Node
	collect func(left, right models.JSONValue) missingkeys.Report
}

// New creates a Pipeline that logs to logger (nil disables logging)
func New(logger *zap.Logger) *Pipeline {
	return &Pipeline{
		logger:  logging.OrNop(logger),
		compare: diff.Compare,
		collect: missingkeys.Collect,
	}
}

// Run compares two documents without logging
func Run(leftText, rightText string) *Result {
	return New(nil).Run(leftText, rightText)
}

// Run parses both documents, compares them and collects missing keys.
// A blank document on either side yields an empty result with no errors.
// Parse failures are reported per side; a panic while comparing is
// recovered and reported as Failure.
func (p *Pipeline) Run(leftText, rightText string) *Result {
	result := &Result{
		ID:      uuid.NewString(),
		Missing: emptyReport(),
	}
	logger := p.logger.With(zap.String("result_id", result.ID))

	if strings.TrimSpace(leftText) == "" || strings.TrimSpace(rightText) == "" {
		result.Empty = true
		logger.Debug("nothing to compare")
		return result
	}

	// Both sides are parsed even when the first fails
	left, leftErr := parser.ParseSide(models.Left, leftText)
	right, rightErr := parser.ParseSide(models.Right, rightText)
	if leftErr != nil {
		result.leftErr = leftErr
		result.LeftError = errors.UserFriendlyError(leftErr)
	}
	if rightErr != nil {
		result.rightErr = rightErr
		result.RightError = errors.UserFriendlyError(rightErr)
	}
	if leftErr != nil || rightErr != nil {
		logger.Debug("documents failed to parse",
			zap.NamedError("left", leftErr),
			zap.NamedError("right", rightErr))
		return result
	}

	result.Left, result.Right = left, right
	p.compareInto(result, logger)
	return result
}

func (p *Pipeline) compareInto(result *Result, logger *zap.Logger) {
	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			result.Diff = nil
			result.Missing = emptyReport()
			result.Failure = fmt.Sprintf("comparison failed: %v", r)
			result.failErr = errors.NewCompareError(result.Failure, errors.ErrComparisonFailed)
			logger.Error("comparison panicked", zap.Any("panic", r), zap.Stack("stack"))
		}
	}()

	result.Diff = p.compare(result.Left, result.Right)
	result.Missing = p.collect(result.Left, result.Right)

	logger.Debug("compared documents",
		zap.Duration("elapsed", time.Since(start)),
		zap.Int("nodes", diff.Count(result.Diff)),
		zap.Int("missing_in_left", len(result.Missing.MissingInLeft)),
		zap.Int("missing_in_right", len(result.Missing.MissingInRight)))
}

func emptyReport() missingkeys.Report {
	return missingkeys.Report{MissingInLeft: []string{}, MissingInRight: []string{}}
}
