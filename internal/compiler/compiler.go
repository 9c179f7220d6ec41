// Package compiler invokes the target-language compiler as a child process
// for one package at a time, building its argument vector from the active
// profile and parsing its diagnostic output.
package compiler

import (
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/kcjpm/kcjpm/internal/buildctx"
	"github.com/kcjpm/kcjpm/internal/discover"
	"github.com/kcjpm/kcjpm/internal/domain"
	"github.com/kcjpm/kcjpm/internal/events"
	"github.com/kcjpm/kcjpm/internal/manifest"
)

// Compiler drives the external compiler binary. The binary itself is
// assumed to already be on PATH or named explicitly via BinaryName —
// locating it is out of scope (spec.md's compiler-binary-discovery
// non-goal).
type Compiler struct {
	Executor   domain.ProcessExecutor
	BinaryName string
}

// New returns a Compiler invoking the named binary (conventionally "cjc").
func New(executor domain.ProcessExecutor, binaryName string) *Compiler {
	if binaryName == "" {
		binaryName = "cjc"
	}
	return &Compiler{Executor: executor, BinaryName: binaryName}
}

// Result is the outcome of compiling one package.
type Result struct {
	ExitCode    int
	Diagnostics []events.Diagnostic
	Success     bool
}

// Compile builds the argv for pkg under bc and runs it synchronously,
// parsing stderr into structured diagnostics.
func (c *Compiler) Compile(ctx context.Context, bc buildctx.Context, pkg discover.PackageInfo) (Result, error) {
	argv := c.argvFor(bc, pkg)

	execResult, err := c.Executor.Execute(ctx, argv, bc.ProjectRoot, nil, true)
	if err != nil {
		return Result{}, fmt.Errorf("invoke compiler for %s: %w", pkg.Name, err)
	}

	return Result{
		ExitCode:    execResult.ExitCode,
		Diagnostics: ParseDiagnostics(execResult.Stderr),
		Success:     execResult.ExitCode == 0,
	}, nil
}

func (c *Compiler) argvFor(bc buildctx.Context, pkg discover.PackageInfo) []string {
	argv := []string{c.BinaryName}
	argv = append(argv, pkg.Files...)
	argv = append(argv, "-o", bc.OutputPathFor(pkg.Name))
	argv = append(argv, "-O", strconv.Itoa(bc.Profile.OptimizationLevel))

	if bc.Profile.DebugInfo {
		argv = append(argv, "-g")
	}
	if bc.Profile.LTO {
		argv = append(argv, "--lto")
	}
	if bc.Manifest.Package.OutputType == manifest.Library {
		argv = append(argv, "--output-type=library")
	}
	return argv
}

var diagnosticLineRE = regexp.MustCompile(`^(.+):(\d+):(\d+):\s*(error|warning|note):\s*(.+)$`)

// ParseDiagnostics splits compiler stderr into one Diagnostic per
// recognized "file:line:col: severity: message" line. Lines that don't
// match the shape are ignored rather than surfaced as parse errors — a
// compiler upgrade changing incidental wording should not break the build.
func ParseDiagnostics(stderr string) []events.Diagnostic {
	var diags []events.Diagnostic
	for _, line := range splitLines(stderr) {
		m := diagnosticLineRE.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		lineNo, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		diags = append(diags, events.Diagnostic{
			Severity: severityFromString(m[4]),
			File:     m[1],
			Line:     lineNo,
			Column:   col,
			Message:  m[5],
		})
	}
	return diags
}

func severityFromString(s string) events.Severity {
	switch s {
	case "warning":
		return events.SeverityWarning
	case "note":
		return events.SeverityNote
	default:
		return events.SeverityError
	}
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if r == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
