package flatfile

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/sindreglo/addressregister/core"
	"github.com/sindreglo/addressregister/register"
)

// Service imports and exports the content of a register from and to flat files.
type Service struct {
	register   *register.Register
	logger     *slog.Logger
	lastImport string
}

func NewService(r *register.Register, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		register: r,
		logger:   logger,
	}
}

// Import replaces the register content with the addresses in the file at path.
//
// The prompter is asked to confirm overwriting a non-empty register and to choose another file
// while path does not have the extension of format. The register is only replaced if the whole
// file could be read, a failed import leaves it untouched.
// Returns the amount of imported addresses.
func (s *Service) Import(format Format, path string, prompter Prompter) (int, error) {
	if s.register.Len() > 0 && !prompter.ConfirmOverwrite() {
		return 0, fmt.Errorf("import of %q: %w", path, core.ErrCancelled)
	}

	path, err := s.choosePath(format, path, prompter)
	if err != nil {
		return 0, err
	}

	addresses, err := readFile(format, path)
	if err != nil {
		s.logger.Warn("Import failed", "format", format, "path", path, "error", err)
		return 0, err
	}

	addresses = s.unique(addresses)
	if err := s.register.Replace(addresses); err != nil {
		return 0, errors.Join(core.ErrImport, err)
	}
	s.lastImport = path
	s.logger.Info("Import successful", "format", format, "path", path, "addresses", len(addresses))
	return len(addresses), nil
}

// Export writes the register content to path. The extension of format is appended if path does not
// already have it. Returns the path that was written.
func (s *Service) Export(format Format, path string) (string, error) {
	if !format.Matches(path) {
		path += format.Extension()
	}

	// Checked before creating the file so an existing export is not truncated
	addresses := s.register.All()
	if err := format.Check(addresses); err != nil {
		s.logger.Warn("Export failed", "format", format, "path", path, "error", err)
		return "", fmt.Errorf("cannot export to %q: %w", path, err)
	}

	file, err := os.Create(path)
	if err != nil {
		s.logger.Warn("Export failed", "format", format, "path", path, "error", err)
		return "", fmt.Errorf("cannot create %q: %w", path, err)
	}

	err = format.Encode(file, addresses)
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		s.logger.Warn("Export failed", "format", format, "path", path, "error", err)
		return "", fmt.Errorf("cannot export to %q: %w", path, err)
	}
	s.logger.Info("Export successful", "format", format, "path", path, "addresses", len(addresses))
	return path, nil
}

func (s *Service) ImportTab(path string, prompter Prompter) (int, error) {
	return s.Import(FormatTab, path, prompter)
}

func (s *Service) ExportTab(path string) (string, error) {
	return s.Export(FormatTab, path)
}

func (s *Service) ImportCSV(path string, prompter Prompter) (int, error) {
	return s.Import(FormatCSV, path, prompter)
}

func (s *Service) ExportCSV(path string) (string, error) {
	return s.Export(FormatCSV, path)
}

// LastImport returns the path of the most recent successful import, or an empty string.
func (s *Service) LastImport() string {
	return s.lastImport
}

func (s *Service) choosePath(format Format, path string, prompter Prompter) (string, error) {
	for !format.Matches(path) {
		s.logger.Debug("File does not match format", "format", format, "path", path)
		next, ok := prompter.ChooseAnother(format)
		if !ok {
			return "", errors.Join(
				core.ErrCancelled,
				fmt.Errorf("%w: %q is not a %s file", core.ErrInvalidFile, path, format),
			)
		}
		path = next
	}
	return path, nil
}

// Duplicate lines in a file are skipped, the first occurrence wins.
func (s *Service) unique(addresses []core.Address) []core.Address {
	seen := make(map[core.Address]struct{}, len(addresses))
	result := make([]core.Address, 0, len(addresses))
	for _, address := range addresses {
		if _, ok := seen[address]; ok {
			s.logger.Warn("Skipping duplicate address", "address", address.String())
			continue
		}
		seen[address] = struct{}{}
		result = append(result, address)
	}
	return result
}

func readFile(format Format, path string) ([]core.Address, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", core.ErrImport, err)
	}
	defer file.Close()
	return format.Decode(file)
}
