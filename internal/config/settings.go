package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	ioutils "github.com/handiism/imagedata/internal/io"
	"github.com/joho/godotenv"
)

// Environment variables read by ApplyEnv.
const (
	EnvRoot       = "IMAGEDATA_ROOT"
	EnvUsers      = "IMAGEDATA_USERS"
	EnvOutputCSV  = "IMAGEDATA_OUTPUT_CSV"
	EnvArchiveDir = "IMAGEDATA_ARCHIVE_DIR"
	EnvTargetCSV  = "IMAGEDATA_TARGET_CSV"
	EnvVerify     = "IMAGEDATA_VERIFY"
)

// Settings holds all configuration options.
type Settings struct {
	// Root is the working directory every relative path is resolved against.
	Root string `json:"root"`

	// Dataset builder
	Users               []string `json:"users"`
	UsersDir            string   `json:"users_dir"`
	MediaPrefix         string   `json:"media_prefix"`
	OutputCSV           string   `json:"output_csv"`
	VerifyMedia         bool     `json:"verify_media"`
	MaxConcurrentProbes int      `json:"max_concurrent_probes"`

	// Tag importer
	ArchiveDir       string   `json:"archive_dir"`
	UserFolderPrefix string   `json:"user_folder_prefix"`
	Locations        []string `json:"locations"`
	TargetCSV        string   `json:"target_csv"`
	BackupSuffix     string   `json:"backup_suffix"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	return &Settings{
		Root: ".",

		Users:               []string{"Bingqing", "Jiachen", "Chao", "Xuehua"},
		UsersDir:            "users",
		MediaPrefix:         "users",
		OutputCSV:           "imagedata-suzhou.csv",
		VerifyMedia:         false,
		MaxConcurrentProbes: 4,

		ArchiveDir:       "archive",
		UserFolderPrefix: "user",
		Locations:        []string{"greenpark", "sciencepark"},
		TargetCSV:        "imagedata-shz.csv",
		BackupSuffix:     "_backup_before_json_update",
	}
}

// Load reads settings from a JSON file.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	if err := ioutils.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// LoadEnv loads variables from dotenv files into the process environment.
// Files that do not exist are skipped, and variables that are already set
// are left alone. With no arguments ".env" in the current directory is used.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}

	var existing []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			existing = append(existing, f)
		}
	}
	if len(existing) == 0 {
		return nil
	}

	return godotenv.Load(existing...)
}

// ApplyEnv overrides settings with IMAGEDATA_* environment variables.
func (s *Settings) ApplyEnv() error {
	if v := os.Getenv(EnvRoot); v != "" {
		s.Root = v
	}
	if v := os.Getenv(EnvUsers); v != "" {
		s.Users = SplitList(v)
	}
	if v := os.Getenv(EnvOutputCSV); v != "" {
		s.OutputCSV = v
	}
	if v := os.Getenv(EnvArchiveDir); v != "" {
		s.ArchiveDir = v
	}
	if v := os.Getenv(EnvTargetCSV); v != "" {
		s.TargetCSV = v
	}
	if v := os.Getenv(EnvVerify); v != "" {
		verify, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvVerify, err)
		}
		s.VerifyMedia = verify
	}
	return nil
}

// Validate reports every setting that would make a run meaningless.
func (s *Settings) Validate() error {
	var errs []error
	if len(s.Users) == 0 {
		errs = append(errs, errors.New("no users configured"))
	}
	if s.OutputCSV == "" {
		errs = append(errs, errors.New("output_csv is empty"))
	}
	if s.TargetCSV == "" {
		errs = append(errs, errors.New("target_csv is empty"))
	}
	if s.BackupSuffix == "" {
		errs = append(errs, errors.New("backup_suffix is empty"))
	}
	if s.MaxConcurrentProbes < 1 {
		errs = append(errs, fmt.Errorf("max_concurrent_probes must be at least 1, got %d", s.MaxConcurrentProbes))
	}
	return errors.Join(errs...)
}

// Resolve returns path joined to Root, unless it is already absolute.
func (s *Settings) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Root, path)
}

// UsersPath is the directory holding one sub-directory per user.
func (s *Settings) UsersPath() string { return s.Resolve(s.UsersDir) }

// OutputPath is where the dataset builder writes its CSV.
func (s *Settings) OutputPath() string { return s.Resolve(s.OutputCSV) }

// ArchivePath is the root of the sidecar archive.
func (s *Settings) ArchivePath() string { return s.Resolve(s.ArchiveDir) }

// TargetPath is the CSV rewritten by the tag importer.
func (s *Settings) TargetPath() string { return s.Resolve(s.TargetCSV) }

// SplitList splits a comma-separated list, trimming blanks and dropping empty entries.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
