package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var extractOut string

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Extract a structured record from one document",
	Long: `Extract a structured JSON record from a single document.

Supported formats: .docx, .pdf, .txt, .md. The record is printed to stdout
or written to --out.

Examples:
  docsift extract resume.docx
  docsift extract resume.pdf --out resume.json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := loadConfig()
		if err != nil {
			return err
		}

		p, err := newPipeline(cm.Get())
		if err != nil {
			return err
		}

		rec, err := p.Run(cmd.Context(), args[0])
		if err != nil {
			return err
		}

		data, err := rec.JSON()
		if err != nil {
			return fmt.Errorf("serialize record: %w", err)
		}

		if extractOut != "" {
			if err := os.WriteFile(extractOut, data, 0o644); err != nil {
				return fmt.Errorf("write record: %w", err)
			}
			fmt.Printf("Record written to %s\n", extractOut)
			return nil
		}

		fmt.Println(string(data))
		return nil
	},
}

func init() {
	extractCmd.Flags().StringVar(&extractOut, "out", "", "write the record to this file instead of stdout")
	rootCmd.AddCommand(extractCmd)
}
