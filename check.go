package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/mbolis/quick-form/config"
	"github.com/mbolis/quick-form/validation"
	"github.com/spf13/cobra"
)

var errInvalidSubmission = errors.New("submission is invalid")

// newCheckCmd validates a JSON document offline, with the same rules the
// server applies.
func newCheckCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "check [submission.json]",
		Short: "Validate a submission against the form schema",
		Long:  "Validate a JSON submission read from a file (or stdin) and print one line per invalid field.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			formSchema, err := loadSchema(*cfg)
			if err != nil {
				return err
			}

			var in io.Reader = cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			data := map[string]any{}
			err = json.NewDecoder(in).Decode(&data)
			if err != nil {
				return fmt.Errorf("check.parse: %w", err)
			}

			errs := validation.Validate(data, formSchema)
			out := cmd.OutOrStdout()
			if errs.OK() {
				fmt.Fprintln(out, "ok")
				return nil
			}
			for _, id := range errs.Fields(formSchema) {
				fmt.Fprintf(out, "%s: %s\n", id, errs[id])
			}
			return reportedError{errInvalidSubmission}
		},
	}
}
