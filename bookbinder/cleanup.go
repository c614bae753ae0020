package bookbinder

import (
	"log"
	"os"
	"path/filepath"
	"sort"
)

// CleanupReport describes what a cleanup pass found (and, with dry run off,
// deleted) in the output directory.
type CleanupReport struct {
	Dir     string
	Files   []string
	Bytes   int64
	Deleted bool
}

// CleanupOutput removes the output directory holding converted PDFs, the
// cache index and the finished book. With dryRun set it only reports what
// would be deleted; that is the default safety posture of the CLI.
func CleanupOutput(dir string, dryRun bool, logger *log.Logger) (CleanupReport, error) {
	report := CleanupReport{Dir: dir}

	if _, err := os.Stat(dir); os.IsNotExist(err) {
		logger.Printf("output directory does not exist: %s", dir)
		return report, nil
	}

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			report.Files = append(report.Files, path)
			report.Bytes += info.Size()
		}
		return nil
	})
	if err != nil {
		return report, err
	}
	sort.Strings(report.Files)

	logger.Printf("output directory: %s", dir)
	logger.Printf("files to delete: %d (%.2f MB)", len(report.Files), float64(report.Bytes)/(1024*1024))
	for _, f := range report.Files {
		logger.Printf("  %s", f)
	}

	if dryRun {
		logger.Printf("dry run, nothing deleted; pass --confirm to delete")
		return report, nil
	}

	if err := os.RemoveAll(dir); err != nil {
		return report, err
	}
	report.Deleted = true
	logger.Printf("deleted %d files (%.2f MB)", len(report.Files), float64(report.Bytes)/(1024*1024))
	return report, nil
}
