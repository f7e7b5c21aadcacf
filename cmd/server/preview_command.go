package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/flashdeck/flashdeck-api/internal/ingest"
)

type previewOptions struct {
	page     int
	pageSize int
	question string
	answer   string
	format   string
}

func newPreviewCommand() *cobra.Command {
	var opts previewOptions

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Show how a file maps to flashcards",
		Long: "Parse a CSV, JSON, TSV or text file the way an import does, print one page " +
			"of rows and report how many flashcards the selected fields would create.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", args[0], err)
			}
			return runPreview(cmd.OutOrStdout(), filepath.Base(args[0]), string(data), opts)
		},
	}

	cmd.Flags().IntVar(&opts.page, "page", 1, "Page to show (1-based)")
	cmd.Flags().IntVar(&opts.pageSize, "page-size", ingest.PageSize, "Rows per page")
	cmd.Flags().StringVar(&opts.question, "question", "", "Field to use as the question")
	cmd.Flags().StringVar(&opts.answer, "answer", "", "Field to use as the answer")
	cmd.Flags().StringVar(&opts.format, "format", "", "Override the format chosen from the extension (csv, json, txt)")
	return cmd
}

func runPreview(out io.Writer, name, content string, opts previewOptions) error {
	format := ingest.FormatFromFilename(name)
	if opts.format != "" {
		f, err := ingest.ParseFormat(opts.format)
		if err != nil {
			return err
		}
		format = f
	}

	rows, err := ingest.Parse(content, format)
	if err != nil {
		return err
	}

	mapper := ingest.NewFieldMapper(rows)
	mapper.SetPageSize(opts.pageSize)
	if opts.question != "" {
		mapper.SelectQuestion(opts.question)
	}
	if opts.answer != "" {
		mapper.SelectAnswer(opts.answer)
	}

	pageRows, page := mapper.Page(opts.page)
	headers := mapper.Headers()
	sel := mapper.Selection()

	fmt.Fprintf(out, "%s (%s): %d rows, page %d of %d\n", name, format, len(rows), page, mapper.PageCount())
	fmt.Fprintln(out, renderRows(headers, pageRows, sel))

	fmt.Fprintf(out, "Selection: question=%q answer=%q\n", sel.QuestionField, sel.AnswerField)
	if err := mapper.Validate(); err != nil {
		return err
	}
	fmt.Fprintf(out, "Flashcards: %d\n", ingest.CountPairs(rows, sel))
	return nil
}

// renderRows draws a page of rows with a marker on the selected columns.
func renderRows(headers []string, rows []ingest.Row, sel ingest.FieldSelection) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(headers))
	for i, h := range headers {
		switch h {
		case sel.QuestionField:
			header[i] = h + " [Q]"
		case sel.AnswerField:
			header[i] = h + " [A]"
		default:
			header[i] = h
		}
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, len(headers))
		for i, h := range headers {
			r[i] = row.Value(h)
		}
		tw.AppendRow(r)
	}

	return tw.Render()
}
