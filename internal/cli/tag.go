package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/evolve/internal/codec"
)

// TagOptions holds flags for the tag command.
type TagOptions struct {
	*RootOptions
	Codec    string // empty: chosen by file extension
	TagField string
	Current  string // optional current tag to compare against
}

// TagResult is the tag of one document.
type TagResult struct {
	File     string `json:"file"`
	Codec    string `json:"codec"`
	TagField string `json:"tag_field"`
	Tag      string `json:"tag"`
	Current  *bool  `json:"current,omitempty"`
}

// NewTagCommand creates the tag command.
func NewTagCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &TagOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "tag <file>",
		Short: "Print the version tag of a document",
		Long: `Read the version discriminant of a tagged document without decoding
its payload.

The codec is chosen from the file extension (.yaml/.yml is YAML, anything
else JSON) unless --codec is given.

Examples:
  evolve tag profile.json
  evolve tag profile.yaml --tag-field schema
  evolve tag profile.json --current 3 --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTag(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Codec, "codec", "", "codec name (json|yaml)")
	cmd.Flags().StringVar(&opts.TagField, "tag-field", codec.DefaultTagField, "discriminant member name")
	cmd.Flags().StringVar(&opts.Current, "current", "", "report whether the tag equals this current tag")

	return cmd
}

func runTag(opts *TagOptions, path string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	data, err := os.ReadFile(path)
	if err != nil {
		_ = formatter.Fail(ErrCodeNotFound, err.Error(), nil)
		return Exitf(ExitCommandError, "failed to read document: %w", err)
	}

	name := opts.Codec
	if name == "" {
		name = codecForPath(path)
	}
	registry := codec.Default(codec.WithTagField(opts.TagField))
	cd, ok := registry.Get(name)
	if !ok {
		msg := fmt.Sprintf("unknown codec %q, expected one of %v", name, registry.Names())
		_ = formatter.Fail(ErrCodeCodec, msg, nil)
		return Exitf(ExitCommandError, "%s", msg)
	}
	formatter.Logf("Reading %s with %s codec, tag field %q", path, cd.Name(), cd.TagField())

	tag, err := cd.ReadTag(data)
	if err != nil {
		details := map[string]any{"file": path, "codec": cd.Name()}
		if errors.Is(err, codec.ErrMissingTag) || errors.Is(err, codec.ErrTagNotString) {
			details["tag_field"] = cd.TagField()
		}
		_ = formatter.Fail(ErrCodeTag, err.Error(), details)
		return Exitf(ExitFailure, "failed to read tag: %w", err)
	}

	result := TagResult{File: path, Codec: cd.Name(), TagField: cd.TagField(), Tag: tag}
	if opts.Current != "" {
		current := tag == opts.Current
		result.Current = &current
	}

	if formatter.JSON {
		return formatter.Result(result)
	}

	switch {
	case result.Current == nil:
		fmt.Fprintln(formatter.Out, tag)
	case *result.Current:
		fmt.Fprintf(formatter.Out, "%s (current)\n", tag)
	default:
		fmt.Fprintf(formatter.Out, "%s (stale, current is %s)\n", tag, opts.Current)
	}
	return nil
}

func codecForPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}
