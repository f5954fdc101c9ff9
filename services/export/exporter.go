package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"substackscraper/internal/scraper"
	"substackscraper/logger"
	apperrors "substackscraper/pkg/errors"
)

// SupportedFormats lists the export formats in the order shown to users
var SupportedFormats = []string{"txt", "csv", "json"}

// Options controls which fields appear in txt/csv output
type Options struct {
	IncludeDates  bool
	IncludeTitles bool
}

// Exporter writes article lists to files in the output directory
type Exporter struct {
	outputDir string
	log       *logger.Logger
}

// NewExporter creates an exporter rooted at outputDir, creating it if needed
func NewExporter(outputDir string) (*Exporter, error) {
	if outputDir == "" {
		outputDir = "output"
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, apperrors.NewExport(fmt.Sprintf("failed to create output directory %s", outputDir), err)
	}
	return &Exporter{
		outputDir: outputDir,
		log:       logger.ForExporter(),
	}, nil
}

// Export writes the articles to <outputDir>/<name>.<format> and returns the
// path. An unsupported format fails without touching the filesystem.
func (e *Exporter) Export(articles []scraper.Article, format, name string, opts Options) (string, error) {
	format = strings.ToLower(format)

	outputFile := filepath.Join(e.outputDir, fmt.Sprintf("%s.%s", name, format))

	var err error
	switch format {
	case "txt":
		err = e.exportTxt(articles, outputFile, opts)
	case "csv":
		err = e.exportCSV(articles, outputFile, opts)
	case "json":
		err = e.exportJSON(articles, outputFile)
	default:
		return "", apperrors.NewExport(fmt.Sprintf("unsupported format: %s (supported: %s)", format, strings.Join(SupportedFormats, ", ")), nil)
	}
	if err != nil {
		e.log.Error().Err(err).Str("file", outputFile).Msg("export failed")
		return "", apperrors.NewExport(fmt.Sprintf("failed to export to %s", format), err)
	}

	e.log.Info().Int("articles", len(articles)).Str("file", outputFile).Msg("exported articles")
	return outputFile, nil
}

func (e *Exporter) exportTxt(articles []scraper.Article, outputFile string, opts Options) error {
	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	for _, a := range articles {
		if _, err := fmt.Fprintln(f, formatLine(a, opts)); err != nil {
			return err
		}
	}
	return nil
}

func (e *Exporter) exportCSV(articles []scraper.Article, outputFile string, opts Options) error {
	f, err := os.Create(outputFile)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := []string{"url"}
	if opts.IncludeDates {
		header = append([]string{"date"}, header...)
	}
	if opts.IncludeTitles {
		idx := 0
		if opts.IncludeDates {
			idx = 1
		}
		header = append(header[:idx], append([]string{"title"}, header[idx:]...)...)
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, a := range articles {
		row := make([]string, 0, len(header))
		for _, col := range header {
			switch col {
			case "date":
				row = append(row, a.Date)
			case "title":
				row = append(row, a.Title)
			case "url":
				row = append(row, a.URL)
			}
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}

func (e *Exporter) exportJSON(articles []scraper.Article, outputFile string) error {
	payload := struct {
		TotalArticles int               `json:"total_articles"`
		Articles      []scraper.Article `json:"articles"`
	}{
		TotalArticles: len(articles),
		Articles:      articles,
	}

	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(outputFile, data, 0o644)
}

// PrintToConsole writes the article list to stdout
func PrintToConsole(articles []scraper.Article, opts Options) {
	fmt.Printf("\nFound %d articles:\n\n", len(articles))
	for _, a := range articles {
		fmt.Println(formatLine(a, opts))
	}
}

// formatLine joins the enabled fields of one article with " - "
func formatLine(a scraper.Article, opts Options) string {
	var parts []string
	if opts.IncludeDates && a.Date != "" {
		parts = append(parts, a.Date)
	}
	if opts.IncludeTitles && a.Title != "" {
		parts = append(parts, a.Title)
	}
	parts = append(parts, a.URL)
	return strings.Join(parts, " - ")
}
