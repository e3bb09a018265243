package commands

import (
	"fmt"

	"github.com/vsinha/fsminspect/pkg/domain/repositories"
	"github.com/vsinha/fsminspect/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/fsminspect/pkg/infrastructure/repositories/sqlite"
)

// inMemoryArchive names the archive used when no database path is configured
const inMemoryArchive = "memory (not persisted)"

// openArchive opens the SQLite archive at dbPath. An empty path keeps
// reports in memory for the length of the command.
func openArchive(dbPath string, expectedReports int) (repositories.ReportRepository, func() error, error) {
	if dbPath == "" {
		return memory.NewReportRepository(expectedReports), func() error { return nil }, nil
	}
	repo, err := sqlite.Open(dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open report archive: %w", err)
	}
	return repo, repo.Close, nil
}

func archiveName(dbPath string) string {
	if dbPath == "" {
		return inMemoryArchive
	}
	return dbPath
}
