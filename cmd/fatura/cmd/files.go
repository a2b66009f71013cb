package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

var (
	recordExts = []string{".json", ".yaml", ".yml"}
	pdfExts    = []string{".pdf"}
)

// collectFiles expands globs and directories into the files with one of exts.
// Files named explicitly are kept whatever their extension.
func collectFiles(args []string, exts []string) ([]string, error) {
	var files []string

	for _, arg := range args {
		// Check if it's a glob pattern
		matches, err := filepath.Glob(arg)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern %s: %w", arg, err)
		}

		if len(matches) == 0 {
			if _, err := os.Stat(arg); err != nil {
				return nil, fmt.Errorf("file not found: %s", arg)
			}
			matches = []string{arg}
		}
		explicit := len(matches) == 1 && matches[0] == arg

		for _, match := range matches {
			info, err := os.Stat(match)
			if err != nil {
				continue
			}
			if !info.IsDir() {
				if explicit || hasExt(match, exts) {
					files = append(files, match)
				}
				continue
			}

			err = filepath.WalkDir(match, func(path string, d os.DirEntry, err error) error {
				if err != nil {
					return err
				}
				if !d.IsDir() && hasExt(path, exts) {
					files = append(files, path)
				}
				return nil
			})
			if err != nil {
				return nil, err
			}
		}
	}

	return files, nil
}

func hasExt(path string, exts []string) bool {
	return slices.Contains(exts, strings.ToLower(filepath.Ext(path)))
}

// outputIsFile reports whether out names the PDF itself rather than a
// directory. Only a single input may be written to a .pdf path; any other
// name, with or without an extension, is a directory.
func outputIsFile(out string, single bool) bool {
	return single && strings.EqualFold(filepath.Ext(out), ".pdf")
}

// outputPath decides where the PDF for input goes. out may be empty (next to
// the input), a directory, or a .pdf file when there is a single input.
func outputPath(input, out string, single bool) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".pdf"
	switch {
	case out == "":
		return filepath.Join(filepath.Dir(input), base)
	case outputIsFile(out, single):
		return out
	default:
		return filepath.Join(out, base)
	}
}
