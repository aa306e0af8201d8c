package pdf

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Slides render at 120 DPI: crisp on a projector without ballooning
// file sizes.
const renderDPI = 120

// ErrToolsUnavailable reports that pdfinfo/pdftoppm are not installed
// on the host.
var ErrToolsUnavailable = errors.New("pdf rendering tools are not available")

type Page struct {
	Number int
	Path   string
}

// IsPDF checks the file magic.
func IsPDF(data []byte) bool {
	return bytes.HasPrefix(data, []byte("%PDF"))
}

// PageCount runs pdfinfo against the file.
func PageCount(ctx context.Context, pdfPath string) (int, error) {
	out, err := exec.CommandContext(ctx, "pdfinfo", pdfPath).Output()
	if err != nil {
		return 0, wrapToolError(err)
	}
	return parsePageCount(string(out))
}

var pagesLine = regexp.MustCompile(`(?i)Pages:\s+(\d+)`)

func parsePageCount(pdfinfoOut string) (int, error) {
	match := pagesLine.FindStringSubmatch(pdfinfoOut)
	if match == nil {
		return 0, errors.New("unable to determine pdf page count")
	}
	return strconv.Atoi(match[1])
}

// RenderToPNG rasterizes every page into outputDir as page-N.png and
// returns the pages in page order.
func RenderToPNG(ctx context.Context, pdfPath, outputDir string) ([]Page, error) {
	prefix := filepath.Join(outputDir, "page")
	cmd := exec.CommandContext(ctx, "pdftoppm", "-png", "-r", strconv.Itoa(renderDPI), pdfPath, prefix)
	if err := cmd.Run(); err != nil {
		return nil, wrapToolError(err)
	}

	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}

	pages := collectRenderedPages(outputDir, names)
	if len(pages) == 0 {
		return nil, errors.New("no pages were rendered from the pdf")
	}
	return pages, nil
}

var pageFile = regexp.MustCompile(`^page-?(\d+)\.png$`)

func collectRenderedPages(dir string, names []string) []Page {
	var pages []Page
	for _, name := range names {
		match := pageFile.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		num, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		pages = append(pages, Page{Number: num, Path: filepath.Join(dir, name)})
	}
	sort.Slice(pages, func(i, j int) bool { return pages[i].Number < pages[j].Number })
	return pages
}

func wrapToolError(err error) error {
	if errors.Is(err, exec.ErrNotFound) || strings.Contains(err.Error(), "executable file not found") {
		return fmt.Errorf("%w: %v", ErrToolsUnavailable, err)
	}
	return err
}
