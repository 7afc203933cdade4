package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/evolve/internal/manifest"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid  bool                       `json:"valid"`
	Chains []ChainSummary             `json:"chains,omitempty"`
	Errors []manifest.ValidationError `json:"errors,omitempty"`
}

// ChainSummary describes one valid manifest.
type ChainSummary struct {
	Name     string `json:"name"`
	Mode     string `json:"mode"`
	Versions int    `json:"versions"`
	Current  string `json:"current"`
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <manifest-dir>",
		Short: "Validate chain manifests",
		Long: `Validate the CUE chain manifests in a directory.

Checks that every chain declares at least one version, that ordinals are
contiguous, and that types and tags are unique. All problems are reported,
not just the first.

Exit codes:
  0 - All manifests valid
  1 - Validation failed
  2 - Command error (directory not found, no CUE files, etc.)`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, dir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	result, loadErrors := manifest.Load(dir, manifest.LoadModeCollectAll)
	if result == nil && len(loadErrors) > 0 {
		var loadErr *manifest.LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message)
		}
		return outputValidateError(formatter, ErrCodeGeneric, loadErrors[0].Error())
	}

	formatter.Logf("Found %d CUE file(s) in %s", result.FileCount, dir)

	var validationErrors []manifest.ValidationError
	for _, err := range loadErrors {
		var loadErr *manifest.LoadError
		if errors.As(err, &loadErr) {
			validationErrors = append(validationErrors, manifest.ValidationError{
				Field:   "load",
				Message: loadErr.Message,
				Code:    loadErr.Code,
				Line:    loadErr.Pos.Line(),
			})
		}
	}

	var chains []ChainSummary
	for _, m := range result.Manifests {
		formatter.Logf("Validating chain: %s", m.Name)
		errs := manifest.Validate(m)
		if len(errs) > 0 {
			validationErrors = append(validationErrors, errs...)
			continue
		}
		mode := m.Mode
		if mode == "" {
			mode = "fallible"
		}
		chains = append(chains, ChainSummary{
			Name:     m.Name,
			Mode:     mode,
			Versions: len(m.Versions),
			Current:  m.CurrentTag(),
		})
	}

	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}
	return outputValidateSuccess(formatter, chains)
}

func outputValidateSuccess(formatter *Printer, chains []ChainSummary) error {
	if formatter.JSON {
		return formatter.Result(ValidationResult{Valid: true, Chains: chains})
	}

	fmt.Fprintf(formatter.Out, "✓ All manifests valid (%d chain(s))\n", len(chains))
	for _, c := range chains {
		fmt.Fprintf(formatter.Out, "  %s: %d version(s), %s, current %q\n", c.Name, c.Versions, c.Mode, c.Current)
	}
	return nil
}

// outputValidateError reports a command-level error (exit code 2).
func outputValidateError(formatter *Printer, code, message string) error {
	_ = formatter.Fail(code, message, nil)
	return Exitf(ExitCommandError, "%s: %s", code, message)
}

// outputValidationErrors reports manifest problems (exit code 1).
func outputValidationErrors(formatter *Printer, errs []manifest.ValidationError) error {
	if formatter.JSON {
		response := Envelope{
			Status: "error",
			Data:   ValidationResult{Valid: false, Errors: errs},
			Error: &Failure{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}

		encoder := json.NewEncoder(formatter.Out)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(response); err != nil {
			return err
		}
		return Exitf(ExitFailure, "validation failed with %d error(s)", len(errs))
	}

	fmt.Fprintln(formatter.Out, "✗ Validation failed")
	fmt.Fprintln(formatter.Out)

	for _, err := range errs {
		if err.Line > 0 {
			fmt.Fprintf(formatter.Out, "line %d\n", err.Line)
		}
		fmt.Fprintf(formatter.Out, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	return Exitf(ExitFailure, "validation failed with %d error(s)", len(errs))
}
