package cli

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ikluft/moveboxtracker/internal/domain"
	"github.com/ikluft/moveboxtracker/internal/schema"
)

// promptMissing asks for every required field absent from fields, writing
// prompts to stderr and reading answers from the command's input. Fields
// without prompt text are engine-generated and skipped. The engine itself
// never prompts; backfill happens here, before create is called.
func promptMissing(cmd *cobra.Command, t *schema.Table, fields domain.Record) error {
	reader := bufio.NewReader(cmd.InOrStdin())
	for _, f := range t.RequiredFields() {
		if _, ok := fields[f.Name]; ok {
			continue
		}
		if f.Prompt == "" {
			continue
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s: ", f.Prompt)
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return fmt.Errorf("read %s: %w", f.Name, err)
		}
		if value := strings.TrimSpace(line); value != "" {
			fields[f.Name] = value
		}
	}
	return nil
}

// fieldsFromFlags collects the schema fields the user set via flags.
func fieldsFromFlags(cmd *cobra.Command, t *schema.Table) domain.Record {
	fields := domain.Record{}
	for i := range t.Fields {
		name := t.Fields[i].Name
		if cmd.Flags().Changed(name) {
			value, _ := cmd.Flags().GetString(name)
			fields[name] = value
		}
	}
	return fields
}

// addFieldFlags registers one string flag per schema field.
func addFieldFlags(cmd *cobra.Command, t *schema.Table) {
	for i := range t.Fields {
		f := &t.Fields[i]
		usage := f.Prompt
		if usage == "" {
			usage = f.Name
		}
		cmd.Flags().String(f.Name, "", usage)
	}
}
