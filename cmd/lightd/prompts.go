package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"lightd/internal/prompt"
	"lightd/pkg/types"
)

func newPromptsCmd() *cobra.Command {
	var cinematic bool
	cmd := &cobra.Command{
		Use:     "prompts <document.json|->",
		Short:   "Print one relighting prompt per slot of a saved document",
		Example: "  lightd prompts state.json\n  curl -s localhost:8090/document | lightd prompts -",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}
			for _, p := range prompt.BuildAll(doc.Slots, cinematic) {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&cinematic, "cinematic", true, "Prefix the scene-lock preamble and cinematic wording")
	return cmd
}

func readDocument(stdin io.Reader, path string) (types.Document, error) {
	var doc types.Document
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return doc, err
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return doc, fmt.Errorf("parse document: %w", err)
	}
	if len(doc.Slots) == 0 {
		return doc, fmt.Errorf("document has no slots")
	}
	return doc, nil
}
